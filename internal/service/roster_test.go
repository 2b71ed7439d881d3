package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"testing"

	"github.com/sakif/breakout-edge/internal/apperror"
	"github.com/sakif/breakout-edge/internal/model"
	"github.com/sakif/breakout-edge/internal/repository/kv"
)

func newRosterFixture(t *testing.T) (*RosterService, *fixture) {
	t.Helper()
	f := newFixture(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := NewRosterService(kv.NewRoster(f.store), kv.NewCatalog(f.store), logger)
	return svc, f
}

// =========================================================================
// ROSTER TESTS
// =========================================================================

func TestRosterUsers_SeedsSampleRows(t *testing.T) {
	svc, _ := newRosterFixture(t)

	entries, err := svc.Users(context.Background())
	if err != nil {
		t.Fatalf("Users() error = %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("len(entries) = %d, want the 5 seeded rows", len(entries))
	}
	if entries[0].Username != "john_trader" {
		t.Errorf("first username = %q, want %q", entries[0].Username, "john_trader")
	}

	// Second read returns the persisted rows, not a fresh seed.
	again, err := svc.Users(context.Background())
	if err != nil {
		t.Fatalf("second Users() error = %v", err)
	}
	if len(again) != 5 {
		t.Errorf("second read returned %d rows, want 5", len(again))
	}
}

func TestToggleSubscription_FlipsBothWays(t *testing.T) {
	svc, _ := newRosterFixture(t)
	ctx := context.Background()

	entries, _ := svc.Users(ctx)
	target := entries[1] // sarah_investor, free in the seed
	if target.Tier != model.TierFree {
		t.Fatalf("seed assumption broken: %s tier = %q", target.Username, target.Tier)
	}

	flipped, err := svc.ToggleSubscription(ctx, target.ID)
	if err != nil {
		t.Fatalf("ToggleSubscription() error = %v", err)
	}
	if flipped.Tier != model.TierPaid {
		t.Errorf("Tier = %q, want paid after first toggle", flipped.Tier)
	}

	back, err := svc.ToggleSubscription(ctx, target.ID)
	if err != nil {
		t.Fatalf("second ToggleSubscription() error = %v", err)
	}
	if back.Tier != model.TierFree {
		t.Errorf("Tier = %q, want free after second toggle", back.Tier)
	}
}

func TestToggleSubscription_UnknownID(t *testing.T) {
	svc, _ := newRosterFixture(t)

	_, err := svc.ToggleSubscription(context.Background(), "999")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// The roster toggle edits only the roster. A ledger stored under the same
// username keeps its tier and its ceiling.
func TestToggleSubscription_DoesNotTouchLedgers(t *testing.T) {
	svc, f := newRosterFixture(t)
	ctx := context.Background()

	entries, _ := svc.Users(ctx)
	target := entries[0] // john_trader, paid in the seed

	// Give the same username a real ledger on the free tier.
	stock := f.addStock(t, "AAPL", 100, 110)
	if _, err := f.picks.Pick(ctx, target.Username, stock.ID); err != nil {
		t.Fatalf("Pick() error = %v", err)
	}

	if _, err := svc.ToggleSubscription(ctx, target.ID); err != nil {
		t.Fatalf("ToggleSubscription() error = %v", err)
	}

	ledger, err := f.ledgers.Get(ctx, target.Username)
	if err != nil {
		t.Fatalf("Get ledger: %v", err)
	}
	if ledger.Tier != model.TierFree {
		t.Errorf("ledger tier = %q, want free (roster toggle must not leak into ledgers)", ledger.Tier)
	}
	if ledger.PicksMade != 1 {
		t.Errorf("PicksMade = %d, want 1", ledger.PicksMade)
	}
}

// =========================================================================
// ADMIN STATS TESTS
// =========================================================================

func TestStats_FromSeedData(t *testing.T) {
	svc, f := newRosterFixture(t)
	ctx := context.Background()

	f.addStock(t, "AAPL", 100, 110)
	f.addStock(t, "MSFT", 200, 210)

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.TotalStocks != 2 {
		t.Errorf("TotalStocks = %d, want 2", stats.TotalStocks)
	}
	if stats.TotalUsers != 5 {
		t.Errorf("TotalUsers = %d, want 5", stats.TotalUsers)
	}
	// Seed has 3 paid rows; revenue is an advertised-price multiple, not
	// money anyone paid.
	if stats.PaidSubscriptions != 3 {
		t.Errorf("PaidSubscriptions = %d, want 3", stats.PaidSubscriptions)
	}
	if math.Abs(stats.MonthlyRevenue-3*MonthlyPrice) > 1e-9 {
		t.Errorf("MonthlyRevenue = %v, want %v", stats.MonthlyRevenue, 3*MonthlyPrice)
	}
}

func TestStats_TracksToggle(t *testing.T) {
	svc, _ := newRosterFixture(t)
	ctx := context.Background()

	entries, _ := svc.Users(ctx)
	// Flip a free row to paid: 3 paid becomes 4.
	if _, err := svc.ToggleSubscription(ctx, entries[1].ID); err != nil {
		t.Fatalf("ToggleSubscription() error = %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.PaidSubscriptions != 4 {
		t.Errorf("PaidSubscriptions = %d, want 4", stats.PaidSubscriptions)
	}
	if math.Abs(stats.MonthlyRevenue-4*MonthlyPrice) > 1e-9 {
		t.Errorf("MonthlyRevenue = %v, want %v", stats.MonthlyRevenue, 4*MonthlyPrice)
	}
}
