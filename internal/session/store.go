// Package session holds the authentication token and cached user profile,
// mirrored into persistent state so a new process resumes the session.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pianostore/internal/api"
	"pianostore/pkg/domain"
	"pianostore/pkg/kvstore"
)

// ErrNoProfileEndpoint is returned when every candidate profile endpoint
// answered 404.
var ErrNoProfileEndpoint = errors.New("no profile endpoint responded")

// Profile endpoint candidates in priority order. Older backends expose
// auth/me or auth/user/ instead of user/profile/.
var profileEndpoints = []string{"user/profile/", "auth/me", "auth/user/"}

// Store is the session store.
type Store struct {
	api    *api.Client
	state  kvstore.Store
	logger *slog.Logger

	mu    sync.Mutex
	token string
	user  *domain.User

	initOnce sync.Once
}

// New constructs a session store over the shared API client and state.
func New(apiClient *api.Client, state kvstore.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{api: apiClient, state: state, logger: logger}
}

// IsAuthenticated reports whether a token is held. Token presence is the
// canonical definition: requests are authenticated by the token alone, a
// cached profile is not required.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// Token returns the current token, or "".
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the cached profile and whether one is present.
func (s *Store) User() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// Username returns the cached profile's display name, or "Guest".
func (s *Store) Username() string {
	if u, ok := s.User(); ok {
		return u.DisplayName()
	}
	return "Guest"
}

// SetToken stores token and user in memory and persistent state. The token
// is picked up by the request interceptor from state; no format validation
// is applied.
func (s *Store) SetToken(token string, user *domain.User) error {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()

	if err := s.state.Set(kvstore.KeyAccessToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if user != nil {
		raw, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		if err := s.state.Set(kvstore.KeyUser, string(raw)); err != nil {
			return fmt.Errorf("persist user: %w", err)
		}
	} else if err := s.state.Delete(kvstore.KeyUser); err != nil {
		return fmt.Errorf("clear user: %w", err)
	}
	return nil
}

// ClearAuth removes the token and user from memory and persistent state.
func (s *Store) ClearAuth() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	var errs []error
	if err := s.state.Delete(kvstore.KeyAccessToken); err != nil {
		errs = append(errs, err)
	}
	if err := s.state.Delete(kvstore.KeyUser); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// RefreshAuth re-hydrates the in-memory session from persistent state.
// A corrupt stored profile degrades to an absent user. Idempotent.
func (s *Store) RefreshAuth() {
	token, ok, err := s.state.Get(kvstore.KeyAccessToken)
	if err != nil {
		s.logger.Warn("read persisted token", "err", err)
	}
	var user *domain.User
	if raw, present, err := s.state.Get(kvstore.KeyUser); err == nil && present {
		var u domain.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			s.logger.Warn("parse persisted user profile", "err", err)
		} else {
			user = &u
		}
	}

	s.mu.Lock()
	if ok && token != "" {
		s.token = token
	}
	if user != nil {
		s.user = user
	}
	s.mu.Unlock()
}

// FetchUser retrieves the current profile from the first candidate endpoint
// that does not 404. On success the cached user is overwritten. A 401 or
// 403 invalidates the whole session; any other failure leaves existing
// session state untouched.
func (s *Store) FetchUser() error {
	var user domain.User
	found := false
	for _, ep := range profileEndpoints {
		err := s.api.DoJSON(http.MethodGet, ep, nil, &user)
		if err == nil {
			found = true
			break
		}
		if api.IsNotFound(err) {
			s.logger.Debug("profile endpoint not found, trying next", "endpoint", ep)
			continue
		}
		if api.IsUnauthorized(err) {
			s.logger.Warn("profile fetch unauthorized, clearing session", "endpoint", ep)
			if clearErr := s.ClearAuth(); clearErr != nil {
				s.logger.Warn("clear session", "err", clearErr)
			}
			return err
		}
		s.logger.Warn("profile fetch failed, keeping session", "endpoint", ep, "err", err)
		return err
	}
	if !found {
		return ErrNoProfileEndpoint
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.state.Set(kvstore.KeyUser, string(raw)); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}

// InitAuth re-hydrates from persistent state and refreshes the profile,
// exactly once per process. Later calls are no-ops.
func (s *Store) InitAuth() {
	s.initOnce.Do(func() {
		s.RefreshAuth()
		if !s.IsAuthenticated() {
			return
		}
		if err := s.FetchUser(); err != nil {
			s.logger.Warn("init profile refresh failed", "err", err)
		}
	})
}

// TokenExpiry peeks at the stored token's exp claim without verifying the
// signature, so callers can warn about stale sessions. Opaque non-JWT
// tokens report no expiry.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
