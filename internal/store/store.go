// Package store defines the key-value persistence interface the rest of the
// application is built on.
//
// EVERYTHING IS A KEY:
// All application state lives under independent string keys — the catalog,
// each identity's ledger, each identity's purchase map, the admin roster.
// Values are opaque strings (JSON documents, encoded by the repository
// layer). There are no cross-key transactions: every mutation is
// read-full → compute → write-full, and the last write to a key wins.
//
// WHY AN INTERFACE?
// The store is injected, never ambient. Handlers and services reach state
// only through repositories, which reach it only through a Store. That lets
// tests swap the SQLite-backed store for the in-memory one with one line.
package store

import (
	"context"
	"errors"
)

// ErrNoValue is returned by Get when the key has never been written
// (or has been removed). Callers that lazily create defaults check for it
// with errors.Is.
var ErrNoValue = errors.New("store: no value for key")

// Store is a minimal string key-value store.
//
// List exists for the one consumer that must enumerate keys it did not
// write itself — the pick-counter rollover job, which walks every ledger.
// Nothing else should iterate the store.
type Store interface {
	// Get returns the value stored under key, or ErrNoValue.
	Get(ctx context.Context, key string) (string, error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// List returns all keys with the given prefix, in unspecified order.
	List(ctx context.Context, prefix string) ([]string, error)
}
