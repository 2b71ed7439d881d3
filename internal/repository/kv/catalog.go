package kv

import (
	"context"
	"errors"

	"github.com/rs/xid"
	"github.com/sakif/breakout-edge/internal/apperror"
	"github.com/sakif/breakout-edge/internal/model"
	"github.com/sakif/breakout-edge/internal/repository"
	"github.com/sakif/breakout-edge/internal/store"
)

// Compile-time interface check: *Catalog must implement CatalogRepository.
var _ repository.CatalogRepository = (*Catalog)(nil)

// Catalog stores the single shared stock list under one key.
type Catalog struct {
	store store.Store
}

func NewCatalog(s store.Store) *Catalog {
	return &Catalog{store: s}
}

// read loads the full catalog, defaulting to empty when the key has never
// been written.
func (c *Catalog) read(ctx context.Context) ([]model.Stock, error) {
	var stocks []model.Stock
	if err := getJSON(ctx, c.store, catalogKey, &stocks); err != nil {
		if errors.Is(err, store.ErrNoValue) {
			return []model.Stock{}, nil
		}
		return nil, err
	}
	return stocks, nil
}

// List returns the catalog in insertion order.
func (c *Catalog) List(ctx context.Context) ([]model.Stock, error) {
	return c.read(ctx)
}

func (c *Catalog) GetByID(ctx context.Context, id string) (*model.Stock, error) {
	stocks, err := c.read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range stocks {
		if stocks[i].ID == id {
			s := stocks[i]
			return &s, nil
		}
	}
	return nil, apperror.NotFound("stock", id)
}

// Create appends the stock to the catalog and assigns it an id.
//
// xid ids are 20 chars, URL-safe, and sortable by creation time — a step up
// from the original's millisecond-timestamp ids without changing semantics.
func (c *Catalog) Create(ctx context.Context, stock *model.Stock) error {
	stocks, err := c.read(ctx)
	if err != nil {
		return err
	}

	stock.ID = xid.New().String()
	stocks = append(stocks, *stock)

	return setJSON(ctx, c.store, catalogKey, stocks)
}

func (c *Catalog) Update(ctx context.Context, stock *model.Stock) error {
	stocks, err := c.read(ctx)
	if err != nil {
		return err
	}

	for i := range stocks {
		if stocks[i].ID == stock.ID {
			stocks[i] = *stock
			return setJSON(ctx, c.store, catalogKey, stocks)
		}
	}
	return apperror.NotFound("stock", stock.ID)
}

// Delete removes the stock from the catalog. Purchase records and picked-id
// entries referencing the id are left in place — there is no cascade, and
// readers must tolerate the orphan.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	stocks, err := c.read(ctx)
	if err != nil {
		return err
	}

	kept := stocks[:0]
	found := false
	for _, s := range stocks {
		if s.ID == id {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		return apperror.NotFound("stock", id)
	}

	return setJSON(ctx, c.store, catalogKey, kept)
}
