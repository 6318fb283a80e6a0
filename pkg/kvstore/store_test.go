package kvstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func runStoreContract(t *testing.T, s Store) {
	t.Helper()

	if _, ok, err := s.Get(KeyAccessToken); err != nil || ok {
		t.Fatalf("get on empty store: ok=%v err=%v", ok, err)
	}
	if err := s.Set(KeyAccessToken, "tok-1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(KeyAccessToken)
	if err != nil || !ok || v != "tok-1" {
		t.Fatalf("get after set: v=%q ok=%v err=%v", v, ok, err)
	}
	if err := s.Set(KeyAccessToken, "tok-2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, _, _ = s.Get(KeyAccessToken)
	if v != "tok-2" {
		t.Fatalf("overwrite not visible, got %q", v)
	}
	if err := s.Delete(KeyAccessToken); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(KeyAccessToken); ok {
		t.Fatal("key still present after delete")
	}
	// Deleting an absent key is a no-op.
	if err := s.Delete("never-set"); err != nil {
		t.Fatalf("delete absent key: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemory())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := NewFile(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	runStoreContract(t, s)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := NewFile(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := s.Set(KeyLang, "ar"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(KeyTheme, "darkTheme"); err != nil {
		t.Fatalf("set: %v", err)
	}

	reopened, err := NewFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, ok, err := reopened.Get(KeyLang)
	if err != nil || !ok || v != "ar" {
		t.Fatalf("lang after reopen: v=%q ok=%v err=%v", v, ok, err)
	}
	v, ok, _ = reopened.Get(KeyTheme)
	if !ok || v != "darkTheme" {
		t.Fatalf("theme after reopen: v=%q ok=%v", v, ok)
	}
}

func TestFileStorePermissionsAndNoTempLeftover(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	s, err := NewFile(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := s.Set(KeyAccessToken, "secret"); err != nil {
		t.Fatalf("set: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("state file permissions = %04o, want 0600", perm)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	s, err := NewFile(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if _, _, err := s.Get(KeyUser); err == nil {
		t.Fatal("expected error reading corrupt state file")
	}
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedis(mr.Addr(), "", "storefront:")
	runStoreContract(t, s)
}

func TestRedisStorePrefixIsolation(t *testing.T) {
	mr := miniredis.RunT(t)
	a := NewRedis(mr.Addr(), "", "a:")
	b := NewRedis(mr.Addr(), "", "b:")

	if err := a.Set(KeyAccessToken, "tok-a"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, _ := b.Get(KeyAccessToken); ok {
		t.Fatal("prefix b sees prefix a's key")
	}
	if !mr.Exists("a:" + KeyAccessToken) {
		t.Fatal("expected prefixed key in redis")
	}
}
