// Package api provides the single shared HTTP client the stores talk
// through. A transport-level interceptor injects session state into every
// request: bearer token, locale, CSRF token, and a request ID.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"pianostore/pkg/kvstore"
)

const defaultTimeout = 10 * time.Second

// CSRFCookieName is the cookie the backend sets for cross-site request
// forgery protection on mutating verbs.
const CSRFCookieName = "csrftoken"

// Options configures the shared client.
type Options struct {
	// BaseURL is the backend API root, e.g. "http://127.0.0.1:8080/api".
	BaseURL string
	// Timeout bounds each request end to end. Defaults to 10s.
	Timeout time.Duration
	// DefaultLocale is sent as Accept-Language when no preference is
	// persisted. Defaults to "en".
	DefaultLocale string
	// State supplies the persisted token and locale preference.
	State kvstore.Store
	// Transport overrides the underlying transport, for tests.
	Transport http.RoundTripper
}

// Client is the configured HTTP client shared by all stores.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs the shared client. Header values are computed per request
// from the persisted state, never stored as mutable defaults on the client.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("api: base URL required")
	}
	if opts.State == nil {
		return nil, fmt.Errorf("api: state store required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	locale := opts.DefaultLocale
	if locale == "" {
		locale = "en"
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("api: cookie jar: %w", err)
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
			Transport: &headerTransport{
				base:          base,
				state:         opts.State,
				jar:           jar,
				defaultLocale: locale,
			},
		},
	}, nil
}

// BaseURL returns the configured backend root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL joins path onto the base URL, tolerating a leading slash.
func (c *Client) URL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// DoJSON performs one JSON request against path and decodes the response
// into out when out is non-nil. Responses with status >= 400 are returned
// as *Error.
func (c *Client) DoJSON(method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.URL(path), body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var errResp struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
		Code   string `json:"code"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&errResp)
	msg := errResp.Error
	if msg == "" {
		msg = errResp.Detail
	}
	if msg == "" {
		msg = resp.Status
	}
	return &Error{Status: resp.StatusCode, Message: msg, Code: strings.TrimSpace(errResp.Code)}
}
