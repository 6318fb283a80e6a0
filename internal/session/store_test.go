package session

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pianostore/internal/api"
	"pianostore/pkg/domain"
	"pianostore/pkg/kvstore"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func newStore(t *testing.T, handler http.Handler) (*Store, *kvstore.Memory) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	state := kvstore.NewMemory()
	client, err := api.New(api.Options{BaseURL: srv.URL, State: state})
	if err != nil {
		t.Fatalf("new api client: %v", err)
	}
	return New(client, state, quietLogger()), state
}

func TestSetTokenPersistsTokenAndUser(t *testing.T) {
	s, state := newStore(t, http.NotFoundHandler())
	user := &domain.User{ID: 7, Email: "u@example.com", Name: "U"}
	if err := s.SetToken("tok-1", user); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if !s.IsAuthenticated() || s.Token() != "tok-1" {
		t.Fatal("token not held after SetToken")
	}
	if v, ok, _ := state.Get(kvstore.KeyAccessToken); !ok || v != "tok-1" {
		t.Fatalf("persisted token = %q ok=%v", v, ok)
	}
	raw, ok, _ := state.Get(kvstore.KeyUser)
	if !ok {
		t.Fatal("user not persisted")
	}
	var stored domain.User
	if err := json.Unmarshal([]byte(raw), &stored); err != nil || stored.Email != "u@example.com" {
		t.Fatalf("persisted user = %q err=%v", raw, err)
	}
}

func TestClearAuthRemovesBoth(t *testing.T) {
	s, state := newStore(t, http.NotFoundHandler())
	if err := s.SetToken("tok-1", &domain.User{ID: 1}); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if err := s.ClearAuth(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if s.IsAuthenticated() {
		t.Fatal("still authenticated after clear")
	}
	if _, ok, _ := state.Get(kvstore.KeyAccessToken); ok {
		t.Fatal("token still persisted")
	}
	if _, ok, _ := state.Get(kvstore.KeyUser); ok {
		t.Fatal("user still persisted")
	}
}

func TestRefreshAuthRehydratesAndToleratesCorruptUser(t *testing.T) {
	s, state := newStore(t, http.NotFoundHandler())
	state.Set(kvstore.KeyAccessToken, "tok-9")
	state.Set(kvstore.KeyUser, "{corrupt")

	s.RefreshAuth()
	if s.Token() != "tok-9" {
		t.Fatalf("token = %q", s.Token())
	}
	if _, ok := s.User(); ok {
		t.Fatal("corrupt user should hydrate as absent")
	}

	// Idempotent.
	s.RefreshAuth()
	if s.Token() != "tok-9" {
		t.Fatal("second refresh changed token")
	}
}

func TestFetchUserWalksCandidateEndpoints(t *testing.T) {
	var paths []string
	s, state := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/auth/me" {
			json.NewEncoder(w).Encode(domain.User{ID: 3, Email: "me@example.com", Name: "Me"})
			return
		}
		http.NotFound(w, r)
	}))
	s.SetToken("tok", nil)

	if err := s.FetchUser(); err != nil {
		t.Fatalf("fetch user: %v", err)
	}
	if len(paths) != 2 || paths[0] != "/user/profile/" || paths[1] != "/auth/me" {
		t.Fatalf("candidate walk = %v", paths)
	}
	u, ok := s.User()
	if !ok || u.Email != "me@example.com" {
		t.Fatalf("user = %+v ok=%v", u, ok)
	}
	if _, ok, _ := state.Get(kvstore.KeyUser); !ok {
		t.Fatal("fetched user not persisted")
	}
}

func TestFetchUserAllCandidatesMissing(t *testing.T) {
	s, _ := newStore(t, http.NotFoundHandler())
	s.SetToken("tok", nil)
	if err := s.FetchUser(); err != ErrNoProfileEndpoint {
		t.Fatalf("err = %v, want ErrNoProfileEndpoint", err)
	}
	if !s.IsAuthenticated() {
		t.Fatal("session should survive missing endpoints")
	}
}

func TestFetchUserUnauthorizedClearsSession(t *testing.T) {
	s, state := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"token expired"}`))
	}))
	s.SetToken("stale", &domain.User{ID: 1})

	err := s.FetchUser()
	if !api.IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
	if s.IsAuthenticated() {
		t.Fatal("session not cleared on 403")
	}
	if _, ok, _ := state.Get(kvstore.KeyAccessToken); ok {
		t.Fatal("persisted token not cleared on 403")
	}
	if _, ok, _ := state.Get(kvstore.KeyUser); ok {
		t.Fatal("persisted user not cleared on 403")
	}
}

func TestFetchUserServerErrorKeepsSession(t *testing.T) {
	s, state := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	s.SetToken("tok", &domain.User{ID: 1, Name: "Kept"})

	if err := s.FetchUser(); err == nil {
		t.Fatal("expected error from 500")
	}
	if !s.IsAuthenticated() {
		t.Fatal("500 must not clear the session")
	}
	if v, ok, _ := state.Get(kvstore.KeyAccessToken); !ok || v != "tok" {
		t.Fatal("persisted token lost on 500")
	}
	if u, ok := s.User(); !ok || u.Name != "Kept" {
		t.Fatal("cached user lost on 500")
	}
}

func TestInitAuthRunsOnce(t *testing.T) {
	var profileCalls int32
	s, state := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&profileCalls, 1)
		json.NewEncoder(w).Encode(domain.User{ID: 5, Name: "Once"})
	}))
	state.Set(kvstore.KeyAccessToken, "tok-init")

	s.InitAuth()
	s.InitAuth()
	if got := atomic.LoadInt32(&profileCalls); got != 1 {
		t.Fatalf("profile fetched %d times, want 1", got)
	}
	if u, ok := s.User(); !ok || u.Name != "Once" {
		t.Fatalf("user after init = %+v ok=%v", u, ok)
	}
}

func TestInitAuthWithoutTokenSkipsNetwork(t *testing.T) {
	var calls int32
	s, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	s.InitAuth()
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatal("unauthenticated init must not hit the network")
	}
}

func TestTokenExpiry(t *testing.T) {
	s, _ := newStore(t, http.NotFoundHandler())

	s.SetToken("opaque-token", nil)
	if _, ok := s.TokenExpiry(); ok {
		t.Fatal("opaque token should report no expiry")
	}

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": exp.Unix(),
		"sub": "7",
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	s.SetToken(signed, nil)
	got, ok := s.TokenExpiry()
	if !ok || !got.Equal(exp) {
		t.Fatalf("expiry = %v ok=%v, want %v", got, ok, exp)
	}
}
