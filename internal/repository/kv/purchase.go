package kv

import (
	"context"
	"errors"

	"github.com/sakif/breakout-edge/internal/model"
	"github.com/sakif/breakout-edge/internal/repository"
	"github.com/sakif/breakout-edge/internal/store"
)

var _ repository.PurchaseRepository = (*Purchases)(nil)

// Purchases stores one itemID→purchase map per identity under
// "purchases:<username>".
type Purchases struct {
	store store.Store
}

func NewPurchases(s store.Store) *Purchases {
	return &Purchases{store: s}
}

// Map returns the identity's purchase records, empty when none exist.
func (p *Purchases) Map(ctx context.Context, username string) (map[string]model.Purchase, error) {
	purchases := make(map[string]model.Purchase)
	if err := getJSON(ctx, p.store, purchasePrefix+username, &purchases); err != nil {
		if errors.Is(err, store.ErrNoValue) {
			return map[string]model.Purchase{}, nil
		}
		return nil, err
	}
	return purchases, nil
}

// Record writes a purchase entry for the item, overwriting any existing
// entry for the same id (picking an item again re-captures its price).
func (p *Purchases) Record(ctx context.Context, username, itemID string, purchase model.Purchase) error {
	purchases, err := p.Map(ctx, username)
	if err != nil {
		return err
	}
	purchases[itemID] = purchase
	return setJSON(ctx, p.store, purchasePrefix+username, purchases)
}
