package api

import (
	"net/http"

	"github.com/google/uuid"

	"pianostore/pkg/kvstore"
)

// headerTransport computes per-request headers from persisted state. A
// header whose source cannot be read is simply omitted; the request still
// goes out.
type headerTransport struct {
	base          http.RoundTripper
	state         kvstore.Store
	jar           http.CookieJar
	defaultLocale string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if clone.Header.Get("Authorization") == "" {
		if token, ok, err := t.state.Get(kvstore.KeyAccessToken); err == nil && ok && token != "" {
			clone.Header.Set("Authorization", "Bearer "+token)
		}
	}

	locale := t.defaultLocale
	if lang, ok, err := t.state.Get(kvstore.KeyLang); err == nil && ok && lang != "" {
		locale = lang
	}
	if locale != "" {
		clone.Header.Set("Accept-Language", locale)
	}

	if isMutating(clone.Method) {
		for _, c := range t.jar.Cookies(clone.URL) {
			if c.Name == CSRFCookieName && c.Value != "" {
				clone.Header.Set("X-CSRFToken", c.Value)
				break
			}
		}
	}

	clone.Header.Set("X-Request-ID", uuid.NewString())

	return t.base.RoundTrip(clone)
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
