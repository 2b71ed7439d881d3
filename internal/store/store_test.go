package store

import (
	"context"
	"errors"
	"sort"
	"testing"
)

// Both implementations must behave identically; the suite runs against each.
func stores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite(:memory:) error = %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"sqlite": sqlite,
		"memory": NewMemory(),
	}
}

func TestGet_MissingKey(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(context.Background(), "nope")
			if !errors.Is(err, ErrNoValue) {
				t.Errorf("Get(missing) error = %v, want ErrNoValue", err)
			}
		})
	}
}

func TestSetGet_RoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Set(context.Background(), "catalog", `[{"id":"a"}]`); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			got, err := s.Get(context.Background(), "catalog")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != `[{"id":"a"}]` {
				t.Errorf("Get() = %q, want stored value", got)
			}
		})
	}
}

func TestSet_LastWriteWins(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.Set(ctx, "k", "first"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := s.Set(ctx, "k", "second"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			got, _ := s.Get(ctx, "k")
			if got != "second" {
				t.Errorf("Get() after overwrite = %q, want %q", got, "second")
			}
		})
	}
}

func TestRemove(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.Set(ctx, "k", "v"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := s.Remove(ctx, "k"); err != nil {
				t.Fatalf("Remove() error = %v", err)
			}
			if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNoValue) {
				t.Errorf("Get() after remove error = %v, want ErrNoValue", err)
			}

			// Removing an absent key is not an error.
			if err := s.Remove(ctx, "k"); err != nil {
				t.Errorf("Remove(absent) error = %v, want nil", err)
			}
		})
	}
}

func TestList_Prefix(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			// "ledger:😀trader" exercises a username with a character
			// above U+FFFF; registration accepts any string.
			for _, k := range []string{"ledger:alice", "ledger:bob", "ledger:😀trader", "purchases:alice", "catalog"} {
				if err := s.Set(ctx, k, "{}"); err != nil {
					t.Fatalf("Set(%q) error = %v", k, err)
				}
			}

			keys, err := s.List(ctx, "ledger:")
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			sort.Strings(keys)

			want := []string{"ledger:alice", "ledger:bob", "ledger:😀trader"}
			if len(keys) != len(want) {
				t.Fatalf("List() = %v, want %v", keys, want)
			}
			for i := range want {
				if keys[i] != want[i] {
					t.Errorf("List()[%d] = %q, want %q", i, keys[i], want[i])
				}
			}
		})
	}
}
