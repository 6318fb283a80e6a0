package prefs

import (
	"testing"

	"pianostore/pkg/kvstore"
)

func TestDefaultsWhenNothingPersisted(t *testing.T) {
	s := New(kvstore.NewMemory())
	if s.Locale() != "en" || s.Theme() != "lightTheme" || s.Direction() != "ltr" {
		t.Fatalf("defaults = %q %q %q", s.Locale(), s.Theme(), s.Direction())
	}
}

func TestSetLocaleDerivesDirection(t *testing.T) {
	state := kvstore.NewMemory()
	s := New(state)

	if err := s.SetLocale("ar"); err != nil {
		t.Fatalf("set locale: %v", err)
	}
	if s.Locale() != "ar" || s.Direction() != "rtl" {
		t.Fatalf("arabic: locale=%q dir=%q", s.Locale(), s.Direction())
	}

	if err := s.SetLocale("en"); err != nil {
		t.Fatalf("set locale: %v", err)
	}
	if s.Direction() != "ltr" {
		t.Fatalf("english direction = %q", s.Direction())
	}

	// Region subtags still resolve through the base language.
	if err := s.SetLocale("ar-EG"); err != nil {
		t.Fatalf("set locale: %v", err)
	}
	if s.Direction() != "rtl" {
		t.Fatalf("ar-EG direction = %q", s.Direction())
	}
}

func TestThemeRoundTrip(t *testing.T) {
	s := New(kvstore.NewMemory())
	if err := s.SetTheme("darkTheme"); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if s.Theme() != "darkTheme" {
		t.Fatalf("theme = %q", s.Theme())
	}
}
