package sqlitekv

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/sidereusnuntius/blogfront/internal/storage"
)

func TestRoundTrip(t *testing.T) {
	kv, err := Open("file:kvtest?mode=memory")
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()

	if _, err := kv.Get("auth_token"); !errors.Is(err, storage.ErrNotExist) {
		t.Errorf("expected ErrNotExist on empty table, got %v", err)
	}

	for _, v := range []string{"first", "second"} {
		if err := kv.Set("auth_token", v); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		got, err := kv.Get("auth_token")
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if got != v {
			t.Errorf("expected %q, got %q", v, got)
		}
	}

	if err := kv.Delete("auth_token"); err != nil {
		t.Fatal(err)
	}
	if _, err := kv.Get("auth_token"); !errors.Is(err, storage.ErrNotExist) {
		t.Errorf("expected ErrNotExist after delete, got %v", err)
	}
	if err := kv.Delete("auth_token"); err != nil {
		t.Errorf("deleting a missing key should succeed, got %s", err)
	}
}

func TestPersistsAcrossOpen(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "session.db")

	kv, err := Open(dsn)
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.Set("current_user", `{"id":3}`); err != nil {
		t.Fatal(err)
	}
	kv.Close()

	kv, err = Open(dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()
	v, err := kv.Get("current_user")
	if err != nil {
		t.Fatal(err)
	}
	if v != `{"id":3}` {
		t.Errorf("unexpected value %q", v)
	}
}
