// Package cart maintains the local view of the shopping cart, synchronized
// against the remote cart resource. Backends do not all expose the
// per-item DELETE and PATCH endpoints; when one answers 404 the store
// emulates the missing verb through the additive add_item endpoint,
// trading strict consistency for availability.
package cart

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"pianostore/internal/api"
	"pianostore/internal/session"
	"pianostore/pkg/domain"
)

// ErrNotAuthenticated is returned by mutating operations when no session
// token is held. No network call is made in that case.
var ErrNotAuthenticated = errors.New("not authenticated")

const (
	cartPath    = "cart/"
	addItemPath = "cart/add_item/"
)

// capabilities caches which per-item verbs this backend lacks. A verb is
// probed by its first real use; one 404 marks it missing for the lifetime
// of the store so later calls go straight to the fallback protocol.
type capabilities struct {
	deleteMissing atomic.Bool
	patchMissing  atomic.Bool
}

// Store is the cart reconciliation store.
type Store struct {
	api     *api.Client
	session *session.Store
	logger  *slog.Logger
	caps    capabilities

	mu      sync.Mutex
	items   []domain.CartItem
	loading bool
}

// New constructs a cart store bound to the shared API client and session.
func New(apiClient *api.Client, sess *session.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{api: apiClient, session: sess, logger: logger}
}

type cartResponse struct {
	Items []domain.CartItem `json:"items"`
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Items returns a copy of the current line items.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// IsLoading reports whether a fetch is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Total returns the cart total formatted to two decimal places: the sum of
// effective unit price times quantity. An empty cart totals "0".
func (s *Store) Total() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return "0"
	}
	var total float64
	for _, item := range s.items {
		if item.Product == nil {
			continue
		}
		total += item.Product.UnitPrice() * float64(item.Quantity)
	}
	return fmt.Sprintf("%.2f", total)
}

// Count returns the sum of quantities across all line items.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Fetch loads the remote cart into the local list, dropping rows whose
// quantity is not positive. Unauthenticated sessions get an empty cart.
// Fetch never fails the caller: any transport error empties the local cart
// and is logged.
func (s *Store) Fetch() error {
	s.setLoading(true)
	defer s.setLoading(false)

	if !s.session.IsAuthenticated() {
		s.setItems(nil)
		return nil
	}

	var resp cartResponse
	if err := s.api.DoJSON(http.MethodGet, cartPath, nil, &resp); err != nil {
		s.logger.Warn("fetch cart failed, clearing local cart", "err", err)
		s.setItems(nil)
		return nil
	}
	filtered := resp.Items[:0]
	for _, item := range resp.Items {
		if item.Quantity > 0 {
			filtered = append(filtered, item)
		}
	}
	s.setItems(filtered)
	return nil
}

// Add posts a product to the additive endpoint and replaces the local list
// wholesale with the server's post-update cart. Requires authentication.
func (s *Store) Add(productID int64, quantity int) error {
	if !s.session.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	var resp cartResponse
	if err := s.api.DoJSON(http.MethodPost, addItemPath, addItemRequest{ProductID: productID, Quantity: quantity}, &resp); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	s.setItems(resp.Items)
	return nil
}

// Remove deletes a line item. The primary path is DELETE on the per-item
// resource followed by a resync; a 404 switches to the additive fallback
// protocol. Other errors propagate.
func (s *Store) Remove(itemID int64) error {
	if !s.session.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	primaryErr := s.tryPrimary(http.MethodDelete, itemID, nil, &s.caps.deleteMissing)
	if primaryErr == nil {
		return s.Fetch()
	}
	if !api.IsNotFound(primaryErr) {
		return primaryErr
	}
	return s.removeFallback(itemID, primaryErr)
}

// SetQuantity moves a line item to the desired quantity. The primary path
// is PATCH on the per-item resource followed by a resync; a 404 switches
// to the additive fallback protocol. Other errors propagate.
func (s *Store) SetQuantity(itemID int64, quantity int) error {
	if !s.session.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	payload := map[string]int{"quantity": quantity}
	primaryErr := s.tryPrimary(http.MethodPatch, itemID, payload, &s.caps.patchMissing)
	if primaryErr == nil {
		return s.Fetch()
	}
	if !api.IsNotFound(primaryErr) {
		return primaryErr
	}
	return s.updateFallback(itemID, quantity, primaryErr)
}

// tryPrimary issues the canonical per-item request unless the verb is
// already known missing, in which case it reports the cached 404.
func (s *Store) tryPrimary(method string, itemID int64, payload any, missing *atomic.Bool) error {
	path := fmt.Sprintf("cart/items/%d/", itemID)
	if missing.Load() {
		return &api.Error{Status: http.StatusNotFound, Message: method + " " + path + " unsupported by backend"}
	}
	err := s.api.DoJSON(method, path, payload, nil)
	if err != nil && api.IsNotFound(err) {
		s.logger.Debug("per-item endpoint missing, using additive fallback from now on",
			"method", method, "path", path)
		missing.Store(true)
	}
	return err
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) setItems(items []domain.CartItem) {
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

// findItem locates a line item by cart-item id, falling back to the nested
// product id since callers at the UI edge historically pass either.
func (s *Store) findItem(id int64) (domain.CartItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	for _, item := range s.items {
		if item.ProductID() == id {
			return item, true
		}
	}
	return domain.CartItem{}, false
}

func (s *Store) findByProduct(productID int64) (domain.CartItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ProductID() == productID {
			return item, true
		}
	}
	return domain.CartItem{}, false
}

func (s *Store) dropLocalByProduct(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ProductID() != productID {
			kept = append(kept, item)
		}
	}
	s.items = kept
}

func (s *Store) setLocalQuantity(productID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ProductID() == productID {
			s.items[i].Quantity = quantity
		}
	}
}
