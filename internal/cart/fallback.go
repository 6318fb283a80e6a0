package cart

import (
	"fmt"
	"net/http"
)

// The fallback protocol emulates missing per-item verbs through the
// additive endpoint. Each step is a named strategy with a common contract:
// attempt once, resync, report whether the desired state was reached.
// Strategies run in order until one resolves; a strategy's hard failure
// aborts the chain unless the strategy itself declares its failure soft.
type strategy struct {
	name string
	run  func() (resolved bool, err error)
}

func (s *Store) runStrategies(action string, strategies []strategy) (bool, error) {
	for _, st := range strategies {
		resolved, err := st.run()
		if err != nil {
			s.logger.Warn("cart fallback step failed", "action", action, "strategy", st.name, "err", err)
			return false, err
		}
		if resolved {
			s.logger.Debug("cart fallback resolved", "action", action, "strategy", st.name)
			return true, nil
		}
	}
	return false, nil
}

// postAdd issues one additive call for the product.
func (s *Store) postAdd(productID int64, quantity int) error {
	return s.api.DoJSON(http.MethodPost, addItemPath, addItemRequest{ProductID: productID, Quantity: quantity}, nil)
}

// removeFallback emulates DELETE. In order: an add with quantity zero, an
// add with the negated last known quantity, then local removal of a row
// the server insists on keeping at quantity zero. If the item survives all
// of that, the original not-found error propagates.
func (s *Store) removeFallback(itemID int64, origErr error) error {
	local, ok := s.findItem(itemID)
	if !ok {
		s.logger.Warn("no local cart item for fallback removal", "itemId", itemID)
		return origErr
	}
	productID := local.ProductID()
	lastQuantity := local.Quantity

	strategies := []strategy{
		{name: "zero-quantity add", run: func() (bool, error) {
			if err := s.postAdd(productID, 0); err != nil {
				return false, err
			}
			if err := s.Fetch(); err != nil {
				return false, err
			}
			_, present := s.findByProduct(productID)
			return !present, nil
		}},
	}
	if lastQuantity > 0 {
		strategies = append(strategies, strategy{name: "negative-quantity add", run: func() (bool, error) {
			if err := s.postAdd(productID, -lastQuantity); err != nil {
				return false, err
			}
			if err := s.Fetch(); err != nil {
				return false, err
			}
			_, present := s.findByProduct(productID)
			return !present, nil
		}})
	}
	strategies = append(strategies, strategy{name: "local removal of zero-quantity row", run: func() (bool, error) {
		after, present := s.findByProduct(productID)
		if present && after.Quantity == 0 {
			s.dropLocalByProduct(productID)
			return true, nil
		}
		return false, nil
	}})

	resolved, err := s.runStrategies("remove", strategies)
	if err != nil {
		return fmt.Errorf("remove fallback: %w", err)
	}
	if resolved {
		return nil
	}
	s.logger.Warn("could not remove cart item through additive fallback", "productId", productID)
	return origErr
}

// updateFallback emulates PATCH. The delta between desired and the last
// known local quantity decides the attempt order: negative delta (its own
// failure is soft, some backends reject negative quantities), positive
// delta, then the absolute desired quantity. A server that overshoots gets
// one corrective negative add. If the mismatch still stands, the desired
// quantity is applied locally and the operation succeeds, accepting the
// local/remote divergence rather than failing the user action.
func (s *Store) updateFallback(itemID int64, desired int, origErr error) error {
	local, ok := s.findItem(itemID)
	if !ok {
		s.logger.Warn("no local cart item for fallback update", "itemId", itemID)
		return origErr
	}
	productID := local.ProductID()
	delta := desired - local.Quantity

	matchesDesired := func(absentOK bool) (bool, error) {
		if err := s.Fetch(); err != nil {
			return false, err
		}
		after, present := s.findByProduct(productID)
		if !present {
			return absentOK, nil
		}
		return after.Quantity == desired, nil
	}

	var strategies []strategy
	if delta < 0 {
		strategies = append(strategies, strategy{name: "negative-delta add", run: func() (bool, error) {
			if err := s.postAdd(productID, delta); err != nil {
				// Not every backend accepts a negative quantity; fall
				// through to the next strategy.
				s.logger.Debug("negative-delta add rejected", "productId", productID, "err", err)
				return false, nil
			}
			return matchesDesired(true)
		}})
	}
	if delta > 0 {
		strategies = append(strategies, strategy{name: "positive-delta add", run: func() (bool, error) {
			if err := s.postAdd(productID, delta); err != nil {
				return false, err
			}
			return matchesDesired(false)
		}})
	}
	strategies = append(strategies,
		strategy{name: "absolute-quantity add", run: func() (bool, error) {
			if err := s.postAdd(productID, desired); err != nil {
				return false, err
			}
			if err := s.Fetch(); err != nil {
				return false, err
			}
			after, present := s.findByProduct(productID)
			if desired == 0 {
				if !present {
					return true, nil
				}
				if after.Quantity == 0 {
					s.dropLocalByProduct(productID)
					return true, nil
				}
				return false, nil
			}
			return present && after.Quantity == desired, nil
		}},
		strategy{name: "corrective-excess add", run: func() (bool, error) {
			after, present := s.findByProduct(productID)
			if !present {
				return false, nil
			}
			excess := after.Quantity - desired
			if excess <= 0 {
				return false, nil
			}
			if err := s.postAdd(productID, -excess); err != nil {
				s.logger.Debug("corrective negative add rejected", "productId", productID, "err", err)
				return false, nil
			}
			return matchesDesired(true)
		}},
		strategy{name: "local adjustment", run: func() (bool, error) {
			s.logger.Warn("server quantity still differs from desired, adjusting locally",
				"productId", productID, "desired", desired)
			if desired == 0 {
				s.dropLocalByProduct(productID)
			} else {
				s.setLocalQuantity(productID, desired)
			}
			return true, nil
		}},
	)

	resolved, err := s.runStrategies("update", strategies)
	if err != nil {
		return fmt.Errorf("update fallback: %w", err)
	}
	if resolved {
		return nil
	}
	return origErr
}
