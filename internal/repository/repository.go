// Package repository declares the typed data-access interfaces the service
// layer depends on. The kv subpackage implements them over a store.Store.
package repository

import (
	"context"

	"github.com/sakif/breakout-edge/internal/model"
)

// CatalogRepository manages the single, globally shared stock catalog.
type CatalogRepository interface {
	List(ctx context.Context) ([]model.Stock, error)
	GetByID(ctx context.Context, id string) (*model.Stock, error)
	Create(ctx context.Context, stock *model.Stock) error
	Update(ctx context.Context, stock *model.Stock) error
	Delete(ctx context.Context, id string) error
}

// LedgerRepository manages per-identity pick ledgers.
//
// Get returns the default ledger (free tier, zero picks) for an identity
// that has never picked — ledgers are created lazily, never explicitly.
type LedgerRepository interface {
	Get(ctx context.Context, username string) (model.Ledger, error)
	Save(ctx context.Context, username string, ledger model.Ledger) error
	// Usernames returns every identity with a stored ledger. Used by the
	// rollover job; ordinary request paths never enumerate ledgers.
	Usernames(ctx context.Context) ([]string, error)
}

// PurchaseRepository manages per-identity purchase records (item id →
// price and date at pick time). The map grows monotonically; nothing
// deletes entries, including catalog deletion of the underlying item.
type PurchaseRepository interface {
	Map(ctx context.Context, username string) (map[string]model.Purchase, error)
	Record(ctx context.Context, username, itemID string, p model.Purchase) error
}

// RosterRepository manages the admin-visible user roster. List seeds the
// sample rows on first access, mirroring how the roster comes into being.
type RosterRepository interface {
	List(ctx context.Context) ([]model.RosterEntry, error)
	Save(ctx context.Context, entries []model.RosterEntry) error
}
