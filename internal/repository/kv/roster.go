package kv

import (
	"context"
	"errors"

	"github.com/sakif/breakout-edge/internal/model"
	"github.com/sakif/breakout-edge/internal/repository"
	"github.com/sakif/breakout-edge/internal/store"
)

var _ repository.RosterRepository = (*Roster)(nil)

// Roster stores the admin-visible user list under one key.
//
// The roster is a standalone record set: it is never derived from, or
// reconciled with, the per-identity ledgers. Registration does not add rows
// here and the tier toggle here does not touch any ledger.
type Roster struct {
	store store.Store
}

func NewRoster(s store.Store) *Roster {
	return &Roster{store: s}
}

// seedRoster is the fixed sample data written on first access.
func seedRoster() []model.RosterEntry {
	return []model.RosterEntry{
		{ID: "1", Username: "john_trader", Email: "john@example.com", Tier: model.TierPaid, JoinDate: "2024-01-15", StocksPicked: 12, LastActive: "2024-01-20"},
		{ID: "2", Username: "sarah_investor", Email: "sarah@example.com", Tier: model.TierFree, JoinDate: "2024-01-10", StocksPicked: 3, LastActive: "2024-01-19"},
		{ID: "3", Username: "mike_stocks", Email: "mike@example.com", Tier: model.TierPaid, JoinDate: "2024-01-05", StocksPicked: 25, LastActive: "2024-01-20"},
		{ID: "4", Username: "lisa_market", Email: "lisa@example.com", Tier: model.TierFree, JoinDate: "2024-01-12", StocksPicked: 2, LastActive: "2024-01-18"},
		{ID: "5", Username: "david_portfolio", Email: "david@example.com", Tier: model.TierPaid, JoinDate: "2024-01-08", StocksPicked: 18, LastActive: "2024-01-20"},
	}
}

// List returns the roster, seeding and persisting the sample rows the first
// time it is read.
func (r *Roster) List(ctx context.Context) ([]model.RosterEntry, error) {
	var entries []model.RosterEntry
	if err := getJSON(ctx, r.store, rosterKey, &entries); err != nil {
		if errors.Is(err, store.ErrNoValue) {
			entries = seedRoster()
			if err := setJSON(ctx, r.store, rosterKey, entries); err != nil {
				return nil, err
			}
			return entries, nil
		}
		return nil, err
	}
	return entries, nil
}

func (r *Roster) Save(ctx context.Context, entries []model.RosterEntry) error {
	return setJSON(ctx, r.store, rosterKey, entries)
}
