// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

// Stock is an admin-curated stock recommendation (a catalog item).
//
// BuyPrice is the price the admin recommended the stock at; CurrentPrice is
// whatever the admin last entered — there is no market-data feed. Both are
// plain float64: every return in this app is derived arithmetic for display,
// not accounting.
//
// BreakoutScore is a 0–100 confidence score entered by the admin.
type Stock struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	BuyPrice      float64 `json:"buyPrice"`
	CurrentPrice  float64 `json:"currentPrice"`
	Date          string  `json:"date"` // date added, YYYY-MM-DD (admin-entered)
	Reason        string  `json:"reason"`
	BreakoutScore int     `json:"breakoutScore"`
}

// AdminReturn is the catalog's own paper performance — identical for every
// user, computed from the admin's entry point.
func (s Stock) AdminReturn() float64 {
	return PercentReturn(s.BuyPrice, s.CurrentPrice)
}

// PercentReturn maps a reference price and a current price to a signed
// percentage change.
//
// A zero reference is NOT guarded: the division produces IEEE ±Inf (or NaN
// for 0/0) and callers format whatever comes out. That matches how every
// display site treats the value — it is a label, not an input to anything.
func PercentReturn(reference, current float64) float64 {
	return (current - reference) / reference * 100
}
