package model

// RosterEntry is a row in the admin-visible user roster.
//
// The roster is its OWN record set, seeded once with sample rows and mutated
// only by the admin tier toggle. It is deliberately NOT reconciled with the
// per-identity ledgers: flipping a roster entry to paid does not change that
// user's actual pick ceiling, and a ledger upgrade does not appear here.
type RosterEntry struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Tier         Tier   `json:"subscription"`
	JoinDate     string `json:"joinDate"`
	StocksPicked int    `json:"stocksPicked"`
	LastActive   string `json:"lastActive"`
}
