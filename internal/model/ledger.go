package model

import "time"

// Tier is a user's subscription level. It governs the pick ceiling.
type Tier string

const (
	TierFree Tier = "free"
	TierPaid Tier = "paid"
)

// Pick ceilings per tier. The UI copy describes these as "per week" (free)
// and "per day" (paid); the counter itself is period-less — see the rollover
// package for the optional time-based reset.
const (
	FreePickLimit = 3
	PaidPickLimit = 5
)

// Limit returns the pick ceiling for the tier. Anything that isn't paid is
// treated as free, including a zero-valued Tier from a lazily-created ledger.
func (t Tier) Limit() int {
	if t == TierPaid {
		return PaidPickLimit
	}
	return FreePickLimit
}

// Ledger is the per-identity pick record: subscription tier, how many picks
// the identity has made, and which catalog items it picked.
//
// PickedIDs is an append-only list, not a set: picking the same item twice
// stores the id twice and counts twice. The ceiling is enforced only at the
// moment of picking — nothing re-validates a stored ledger.
type Ledger struct {
	Tier      Tier     `json:"subscription"`
	PicksMade int      `json:"stocksPicked"`
	PickedIDs []string `json:"purchasedStocks"`
}

// DefaultLedger is the lazily-created ledger for an identity's first visit.
func DefaultLedger() Ledger {
	return Ledger{Tier: TierFree, PicksMade: 0, PickedIDs: []string{}}
}

// CanPickMore reports whether the ledger is under its tier's ceiling.
func (l Ledger) CanPickMore() bool {
	return l.PicksMade < l.Tier.Limit()
}

// HasPicked reports whether the item id appears in the picked list.
func (l Ledger) HasPicked(itemID string) bool {
	for _, id := range l.PickedIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

// Purchase records the price an identity paid for a pick and when.
// One entry per item id; picking the same item again overwrites it.
type Purchase struct {
	Price float64   `json:"purchasePrice"`
	Date  time.Time `json:"purchaseDate"`
}

// UserReturn is the individual's return from their own entry point,
// as opposed to Stock.AdminReturn which uses the catalog buy price.
func (p Purchase) UserReturn(currentPrice float64) float64 {
	return PercentReturn(p.Price, currentPrice)
}
