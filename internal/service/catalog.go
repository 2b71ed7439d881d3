package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/breakout-edge/internal/apperror"
	"github.com/sakif/breakout-edge/internal/model"
	"github.com/sakif/breakout-edge/internal/repository"
)

// BreakoutScore is an admin-entered confidence value on a 0–100 scale.
const (
	MinBreakoutScore = 0
	MaxBreakoutScore = 100
)

// CatalogService handles the admin-curated stock catalog.
//
// Prices are NOT validated: a zero buy price is storable and produces an
// infinite percent return downstream, which the display simply formats.
type CatalogService struct {
	catalog repository.CatalogRepository
	logger  *slog.Logger
}

func NewCatalogService(catalog repository.CatalogRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		logger:  logger,
	}
}

// List returns the full catalog in stored order.
func (s *CatalogService) List(ctx context.Context) ([]model.Stock, error) {
	stocks, err := s.catalog.List(ctx)
	if err != nil {
		s.logger.Error("failed to list catalog", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing catalog: %w", err)
	}
	return stocks, nil
}

// GetByID returns one catalog item. Returns apperror.ErrNotFound if the id
// is unknown.
func (s *CatalogService) GetByID(ctx context.Context, id string) (*model.Stock, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "stock ID is required")
	}
	return s.catalog.GetByID(ctx, id)
}

// Create validates and appends a new catalog item. The repository assigns
// the id. An empty date defaults to today.
func (s *CatalogService) Create(ctx context.Context, stock model.Stock) (*model.Stock, error) {
	if err := validateStock(&stock); err != nil {
		return nil, err
	}

	if err := s.catalog.Create(ctx, &stock); err != nil {
		s.logger.Error("failed to create stock",
			slog.String("symbol", stock.Symbol),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating stock: %w", err)
	}

	s.logger.Info("stock added to catalog",
		slog.String("id", stock.ID),
		slog.String("symbol", stock.Symbol),
	)
	return &stock, nil
}

// Update replaces an existing item's fields wholesale, keeping its id.
func (s *CatalogService) Update(ctx context.Context, id string, stock model.Stock) (*model.Stock, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "stock ID is required")
	}

	// Confirm the item exists so a bad id fails with NotFound, not a
	// silent insert.
	if _, err := s.catalog.GetByID(ctx, id); err != nil {
		return nil, err
	}

	stock.ID = id
	if err := validateStock(&stock); err != nil {
		return nil, err
	}

	if err := s.catalog.Update(ctx, &stock); err != nil {
		s.logger.Error("failed to update stock",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating stock: %w", err)
	}

	s.logger.Info("stock updated", slog.String("id", id), slog.String("symbol", stock.Symbol))
	return &stock, nil
}

// Delete removes an item from the catalog. Ledger picked-ids and purchase
// records pointing at it are left in place; the read paths tolerate the
// orphans.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "stock ID is required")
	}

	if err := s.catalog.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("stock removed from catalog", slog.String("id", id))
	return nil
}

func validateStock(stock *model.Stock) error {
	stock.Symbol = strings.ToUpper(strings.TrimSpace(stock.Symbol))
	stock.Name = strings.TrimSpace(stock.Name)
	stock.Reason = strings.TrimSpace(stock.Reason)

	if stock.Symbol == "" {
		return apperror.ValidationFailed("symbol", "symbol is required")
	}
	if stock.Name == "" {
		return apperror.ValidationFailed("name", "company name is required")
	}
	if stock.BreakoutScore < MinBreakoutScore || stock.BreakoutScore > MaxBreakoutScore {
		return apperror.ValidationFailed("breakoutScore",
			fmt.Sprintf("breakout score must be between %d and %d", MinBreakoutScore, MaxBreakoutScore))
	}
	if stock.Date == "" {
		stock.Date = time.Now().Format("2006-01-02")
	}
	return nil
}
