// Package location caches the governorate/area reference data used for
// shipping-cost lookups. The list is fetched once per process and held for
// the session's lifetime; there is no invalidation.
package location

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"

	"pianostore/internal/api"
	"pianostore/pkg/domain"
)

const governoratesPath = "governorates/"

// Store is the location lookup store.
type Store struct {
	api    *api.Client
	logger *slog.Logger

	mu           sync.Mutex
	governorates []domain.Governorate

	group singleflight.Group
}

// New constructs a location store over the shared API client.
func New(apiClient *api.Client, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{api: apiClient, logger: logger}
}

// Fetch loads the governorate list. A non-empty cache short-circuits; on a
// cold cache, concurrent callers collapse into a single request. The
// backend may answer with a raw array or a paginated results envelope.
// Errors propagate and leave the cache empty so a later call retries.
func (s *Store) Fetch() error {
	s.mu.Lock()
	cached := len(s.governorates) > 0
	s.mu.Unlock()
	if cached {
		return nil
	}

	_, err, _ := s.group.Do(governoratesPath, func() (any, error) {
		s.mu.Lock()
		populated := len(s.governorates) > 0
		s.mu.Unlock()
		if populated {
			return nil, nil
		}
		var raw json.RawMessage
		if err := s.api.DoJSON(http.MethodGet, governoratesPath, nil, &raw); err != nil {
			s.logger.Warn("fetch governorates failed", "err", err)
			return nil, fmt.Errorf("fetch governorates: %w", err)
		}
		govs, err := decodeGovernorates(raw)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.governorates = govs
		s.mu.Unlock()
		return nil, nil
	})
	return err
}

// decodeGovernorates accepts either a bare array or a paginated
// {"results": [...]} envelope.
func decodeGovernorates(raw json.RawMessage) ([]domain.Governorate, error) {
	var direct []domain.Governorate
	if err := json.Unmarshal(raw, &direct); err == nil {
		return direct, nil
	}
	var envelope struct {
		Results []domain.Governorate `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode governorates: %w", err)
	}
	return envelope.Results, nil
}

// Governorates returns a copy of the cached list.
func (s *Store) Governorates() []domain.Governorate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Governorate, len(s.governorates))
	copy(out, s.governorates)
	return out
}

// AreaByID scans every governorate's areas for the given id and returns
// the first match.
func (s *Store) AreaByID(id int64) (domain.Area, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, gov := range s.governorates {
		for _, area := range gov.Areas {
			if area.ID == id {
				return area, true
			}
		}
	}
	return domain.Area{}, false
}

// ShippingCost returns the shipping cost for an area, or "" when the area
// is unknown.
func (s *Store) ShippingCost(areaID int64) string {
	area, ok := s.AreaByID(areaID)
	if !ok {
		return ""
	}
	return area.ShippingCost
}
