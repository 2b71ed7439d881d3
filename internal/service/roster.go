package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/breakout-edge/internal/apperror"
	"github.com/sakif/breakout-edge/internal/model"
	"github.com/sakif/breakout-edge/internal/repository"
)

// MonthlyPrice is the advertised Pro price, used only for the revenue
// figure on the admin dashboard.
const MonthlyPrice = 29.99

// RosterService handles the admin-facing user roster and headline stats.
//
// The roster is its own record set: toggling a roster entry's tier does not
// touch that user's ledger, and ledger upgrades never show up here. The
// numbers on the admin dashboard are cosmetic.
type RosterService struct {
	roster  repository.RosterRepository
	catalog repository.CatalogRepository
	logger  *slog.Logger
}

func NewRosterService(roster repository.RosterRepository, catalog repository.CatalogRepository, logger *slog.Logger) *RosterService {
	return &RosterService{
		roster:  roster,
		catalog: catalog,
		logger:  logger,
	}
}

// AdminStats are the headline figures on the admin dashboard.
type AdminStats struct {
	TotalStocks       int     `json:"totalStocks"`
	TotalUsers        int     `json:"totalUsers"`
	PaidSubscriptions int     `json:"paidSubscriptions"`
	MonthlyRevenue    float64 `json:"monthlyRevenue"`
}

// Users returns the roster, seeding the sample rows on first access.
func (s *RosterService) Users(ctx context.Context) ([]model.RosterEntry, error) {
	entries, err := s.roster.List(ctx)
	if err != nil {
		s.logger.Error("failed to list roster", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing roster: %w", err)
	}
	return entries, nil
}

// ToggleSubscription flips a roster entry between free and paid. This is
// purely a roster edit; the entry's actual ledger (if one exists under the
// same username) is untouched.
func (s *RosterService) ToggleSubscription(ctx context.Context, id string) (*model.RosterEntry, error) {
	entries, err := s.roster.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing roster: %w", err)
	}

	for i := range entries {
		if entries[i].ID != id {
			continue
		}
		if entries[i].Tier == model.TierPaid {
			entries[i].Tier = model.TierFree
		} else {
			entries[i].Tier = model.TierPaid
		}
		if err := s.roster.Save(ctx, entries); err != nil {
			return nil, fmt.Errorf("saving roster: %w", err)
		}
		s.logger.Info("roster subscription toggled",
			slog.String("id", id),
			slog.String("username", entries[i].Username),
			slog.String("tier", string(entries[i].Tier)),
		)
		return &entries[i], nil
	}

	return nil, apperror.NotFound("user", id)
}

// Stats computes the admin dashboard figures. Revenue is paid roster rows
// times the advertised monthly price; no payment ever happened.
func (s *RosterService) Stats(ctx context.Context) (AdminStats, error) {
	stocks, err := s.catalog.List(ctx)
	if err != nil {
		return AdminStats{}, fmt.Errorf("listing catalog: %w", err)
	}

	entries, err := s.roster.List(ctx)
	if err != nil {
		return AdminStats{}, fmt.Errorf("listing roster: %w", err)
	}

	paid := 0
	for _, e := range entries {
		if e.Tier == model.TierPaid {
			paid++
		}
	}

	return AdminStats{
		TotalStocks:       len(stocks),
		TotalUsers:        len(entries),
		PaidSubscriptions: paid,
		MonthlyRevenue:    float64(paid) * MonthlyPrice,
	}, nil
}
