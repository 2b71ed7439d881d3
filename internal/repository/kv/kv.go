// Package kv implements the repository interfaces over a store.Store.
//
// KEY LAYOUT (each entry is an independent key; there are no cross-key
// transactions, so multi-key operations like a pick are two separate
// writes with no rollback path):
//
//	catalog              → ordered JSON list of stocks
//	ledger:<username>    → JSON ledger {tier, picksMade, pickedIDs}
//	purchases:<username> → JSON map itemID → {price, date}
//	roster               → JSON list of admin roster rows
//
// Every method is read-full → modify → write-full. A corrupted JSON
// document under a key propagates as an error — there is no schema
// validation and no repair beyond the lazy default for a missing key.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sakif/breakout-edge/internal/store"
)

const (
	catalogKey     = "catalog"
	rosterKey      = "roster"
	ledgerPrefix   = "ledger:"
	purchasePrefix = "purchases:"
)

// getJSON decodes the value under key into out. Returns store.ErrNoValue
// untouched so callers can apply their lazy defaults.
func getJSON(ctx context.Context, s store.Store, key string, out any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNoValue) {
			return err
		}
		return fmt.Errorf("kv: reading %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("kv: decoding %q: %w", key, err)
	}
	return nil
}

// setJSON encodes v and writes it under key, replacing the previous value.
func setJSON(ctx context.Context, s store.Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: encoding %q: %w", key, err)
	}
	if err := s.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("kv: writing %q: %w", key, err)
	}
	return nil
}
