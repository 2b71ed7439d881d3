package kv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/breakout-edge/internal/apperror"
	"github.com/sakif/breakout-edge/internal/model"
	"github.com/sakif/breakout-edge/internal/store"
)

// newTestStore returns an in-memory store. The repository code is identical
// over the SQLite store; the store package's own tests cover that parity.
func newTestStore(t *testing.T) *store.Memory {
	t.Helper()
	return store.NewMemory()
}

func createTestStock(t *testing.T, c *Catalog, symbol string, buy, current float64) *model.Stock {
	t.Helper()
	s := &model.Stock{
		Symbol:        symbol,
		Name:          symbol + " Inc",
		BuyPrice:      buy,
		CurrentPrice:  current,
		Date:          "2024-01-15",
		Reason:        "breakout setup",
		BreakoutScore: 85,
	}
	if err := c.Create(context.Background(), s); err != nil {
		t.Fatalf("failed to create test stock: %v", err)
	}
	return s
}

// =========================================================================
// CATALOG TESTS
// =========================================================================

func TestCatalogCreate_AssignsID(t *testing.T) {
	c := NewCatalog(newTestStore(t))

	s := createTestStock(t, c, "NVDA", 100, 150)
	if s.ID == "" {
		t.Error("Create() did not set stock.ID")
	}
}

func TestCatalogList_EmptyByDefault(t *testing.T) {
	c := NewCatalog(newTestStore(t))

	stocks, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(stocks) != 0 {
		t.Errorf("List() returned %d stocks, want 0", len(stocks))
	}
}

func TestCatalogList_PreservesInsertionOrder(t *testing.T) {
	c := NewCatalog(newTestStore(t))

	first := createTestStock(t, c, "AAPL", 100, 110)
	second := createTestStock(t, c, "MSFT", 200, 190)

	stocks, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(stocks) != 2 {
		t.Fatalf("List() returned %d stocks, want 2", len(stocks))
	}
	if stocks[0].ID != first.ID || stocks[1].ID != second.ID {
		t.Errorf("List() order = [%s %s], want [%s %s]",
			stocks[0].ID, stocks[1].ID, first.ID, second.ID)
	}
}

func TestCatalogGetByID_NotFound(t *testing.T) {
	c := NewCatalog(newTestStore(t))

	_, err := c.GetByID(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestCatalogUpdate(t *testing.T) {
	c := NewCatalog(newTestStore(t))

	s := createTestStock(t, c, "NVDA", 100, 150)
	s.CurrentPrice = 175
	if err := c.Update(context.Background(), s); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := c.GetByID(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.CurrentPrice != 175 {
		t.Errorf("CurrentPrice = %v, want 175", got.CurrentPrice)
	}
}

func TestCatalogDelete(t *testing.T) {
	c := NewCatalog(newTestStore(t))

	s := createTestStock(t, c, "NVDA", 100, 150)
	if err := c.Delete(context.Background(), s.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := c.GetByID(context.Background(), s.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}

	if err := c.Delete(context.Background(), s.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// LEDGER TESTS
// =========================================================================

func TestLedgerGet_LazyDefault(t *testing.T) {
	l := NewLedgers(newTestStore(t))

	ledger, err := l.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ledger.Tier != model.TierFree {
		t.Errorf("Tier = %q, want free", ledger.Tier)
	}
	if ledger.PicksMade != 0 {
		t.Errorf("PicksMade = %d, want 0", ledger.PicksMade)
	}
	if ledger.PickedIDs == nil || len(ledger.PickedIDs) != 0 {
		t.Errorf("PickedIDs = %v, want empty non-nil slice", ledger.PickedIDs)
	}
}

func TestLedgerGet_ReadingDoesNotPersist(t *testing.T) {
	s := newTestStore(t)
	l := NewLedgers(s)

	if _, err := l.Get(context.Background(), "alice"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	names, err := l.Usernames(context.Background())
	if err != nil {
		t.Fatalf("Usernames() error = %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Usernames() after read-only Get = %v, want none", names)
	}
}

func TestLedgerSaveGet_RoundTrip(t *testing.T) {
	l := NewLedgers(newTestStore(t))

	in := model.Ledger{Tier: model.TierPaid, PicksMade: 4, PickedIDs: []string{"a", "b"}}
	if err := l.Save(context.Background(), "bob", in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := l.Get(context.Background(), "bob")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Tier != model.TierPaid || got.PicksMade != 4 || len(got.PickedIDs) != 2 {
		t.Errorf("Get() = %+v, want saved ledger back", got)
	}
}

func TestLedgerUsernames(t *testing.T) {
	l := NewLedgers(newTestStore(t))

	for _, name := range []string{"alice", "bob"} {
		if err := l.Save(context.Background(), name, model.DefaultLedger()); err != nil {
			t.Fatalf("Save(%q) error = %v", name, err)
		}
	}

	names, err := l.Usernames(context.Background())
	if err != nil {
		t.Fatalf("Usernames() error = %v", err)
	}
	if len(names) != 2 {
		t.Errorf("Usernames() = %v, want 2 names", names)
	}
}

// =========================================================================
// PURCHASE TESTS
// =========================================================================

func TestPurchaseMap_EmptyByDefault(t *testing.T) {
	p := NewPurchases(newTestStore(t))

	m, err := p.Map(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if len(m) != 0 {
		t.Errorf("Map() = %v, want empty", m)
	}
}

func TestPurchaseRecord_Overwrites(t *testing.T) {
	p := NewPurchases(newTestStore(t))
	ctx := context.Background()

	first := model.Purchase{Price: 120, Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)}
	second := model.Purchase{Price: 150, Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}

	if err := p.Record(ctx, "alice", "stock-1", first); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := p.Record(ctx, "alice", "stock-1", second); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	m, err := p.Map(ctx, "alice")
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if len(m) != 1 {
		t.Fatalf("Map() has %d entries, want 1 (same item overwrites)", len(m))
	}
	if m["stock-1"].Price != 150 {
		t.Errorf("Price = %v, want the later purchase's 150", m["stock-1"].Price)
	}
}

// =========================================================================
// ROSTER TESTS
// =========================================================================

func TestRosterList_SeedsOnFirstRead(t *testing.T) {
	r := NewRoster(newTestStore(t))

	entries, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("List() seeded %d rows, want 5", len(entries))
	}
	if entries[0].Username != "john_trader" {
		t.Errorf("first seeded row = %q, want john_trader", entries[0].Username)
	}
}

func TestRosterSave_PersistsMutation(t *testing.T) {
	r := NewRoster(newTestStore(t))
	ctx := context.Background()

	entries, err := r.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	entries[1].Tier = model.TierPaid
	if err := r.Save(ctx, entries); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	again, err := r.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if again[1].Tier != model.TierPaid {
		t.Errorf("Tier after save = %q, want paid", again[1].Tier)
	}
}

// A corrupted document must surface as an error, not as a default.
func TestCorruptedValue_PropagatesError(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set(context.Background(), "ledger:alice", "not json"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	l := NewLedgers(s)
	if _, err := l.Get(context.Background(), "alice"); err == nil {
		t.Error("Get() on corrupted value should error")
	}
}
