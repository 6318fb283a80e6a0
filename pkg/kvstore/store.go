// Package kvstore persists the client's flat key-value state: access token,
// serialized user profile, and display preferences.
package kvstore

// Well-known keys. Values are plain strings with no schema versioning.
const (
	KeyAccessToken = "access_token"
	KeyUser        = "user"
	KeyLang        = "lang"
	KeyTheme       = "theme"
	KeyDirection   = "dir"
)

// Store is a flat string key-value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// Set writes the value for key, overwriting any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
