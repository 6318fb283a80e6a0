// Package prefs persists display preferences: locale, theme, and layout
// direction. Values are flat strings in the shared key-value state.
package prefs

import (
	"strings"

	"pianostore/pkg/kvstore"
)

const (
	DefaultLocale    = "en"
	DefaultTheme     = "lightTheme"
	DefaultDirection = "ltr"
)

// Store reads and writes display preferences.
type Store struct {
	state kvstore.Store
}

// New wraps the given key-value state.
func New(state kvstore.Store) *Store {
	return &Store{state: state}
}

// Locale returns the persisted locale, or the default.
func (s *Store) Locale() string {
	return s.get(kvstore.KeyLang, DefaultLocale)
}

// SetLocale persists the locale and derives the matching layout direction:
// Arabic renders right-to-left, everything else left-to-right.
func (s *Store) SetLocale(locale string) error {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = DefaultLocale
	}
	if err := s.state.Set(kvstore.KeyLang, locale); err != nil {
		return err
	}
	return s.state.Set(kvstore.KeyDirection, DirectionFor(locale))
}

// Theme returns the persisted theme name, or the default.
func (s *Store) Theme() string {
	return s.get(kvstore.KeyTheme, DefaultTheme)
}

// SetTheme persists the theme name.
func (s *Store) SetTheme(theme string) error {
	return s.state.Set(kvstore.KeyTheme, theme)
}

// Direction returns the persisted layout direction, or the default.
func (s *Store) Direction() string {
	return s.get(kvstore.KeyDirection, DefaultDirection)
}

// DirectionFor maps a locale to its layout direction.
func DirectionFor(locale string) string {
	base := strings.ToLower(locale)
	if i := strings.IndexAny(base, "-_"); i > 0 {
		base = base[:i]
	}
	if base == "ar" {
		return "rtl"
	}
	return "ltr"
}

func (s *Store) get(key, fallback string) string {
	v, ok, err := s.state.Get(key)
	if err != nil || !ok || v == "" {
		return fallback
	}
	return v
}
