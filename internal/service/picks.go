package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sakif/breakout-edge/internal/apperror"
	"github.com/sakif/breakout-edge/internal/model"
	"github.com/sakif/breakout-edge/internal/repository"
)

// Limit copy shown when a pick is rejected. The wording names the period
// the tier is sold as, even though the counter itself is period-less.
const (
	FreeLimitMessage = "Weekly limit reached! Upgrade to Pro for daily picks."
	PaidLimitMessage = "Daily limit reached! Come back tomorrow."
)

// PickService handles pick accounting, the upgrade, and the merged
// catalog-plus-ledger views behind the dashboard and portfolio.
type PickService struct {
	catalog   repository.CatalogRepository
	ledgers   repository.LedgerRepository
	purchases repository.PurchaseRepository
	logger    *slog.Logger

	now func() time.Time // injected for tests
}

func NewPickService(
	catalog repository.CatalogRepository,
	ledgers repository.LedgerRepository,
	purchases repository.PurchaseRepository,
	logger *slog.Logger,
) *PickService {
	return &PickService{
		catalog:   catalog,
		ledgers:   ledgers,
		purchases: purchases,
		logger:    logger,
		now:       time.Now,
	}
}

// StockView is a catalog item overlaid with the caller's pick state.
// UserReturn is only meaningful when Purchased is true.
type StockView struct {
	model.Stock
	AdminReturn   float64   `json:"adminReturn"`
	Purchased     bool      `json:"purchased"`
	PurchasePrice float64   `json:"purchasePrice,omitempty"`
	PurchaseDate  time.Time `json:"purchaseDate,omitempty"`
	UserReturn    float64   `json:"userReturn,omitempty"`
}

// jsonPercent is a float64 whose non-finite values survive JSON encoding.
// encoding/json rejects ±Inf and NaN outright, but a zero reference price
// is legal catalog input, so a return can be non-finite and the views must
// still render. Non-finite values encode as strings.
type jsonPercent float64

func (p jsonPercent) MarshalJSON() ([]byte, error) {
	f := float64(p)
	switch {
	case math.IsInf(f, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Inf"`), nil
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	}
	return json.Marshal(f)
}

// MarshalJSON keeps the raw float64 returns inside the service and swaps
// in jsonPercent only at the encoding boundary.
func (v StockView) MarshalJSON() ([]byte, error) {
	type plain StockView
	return json.Marshal(struct {
		plain
		AdminReturn jsonPercent `json:"adminReturn"`
		UserReturn  jsonPercent `json:"userReturn,omitempty"`
	}{
		plain:       plain(v),
		AdminReturn: jsonPercent(v.AdminReturn),
		UserReturn:  jsonPercent(v.UserReturn),
	})
}

// PlanUsage describes where the caller stands against their tier ceiling.
type PlanUsage struct {
	Tier      model.Tier `json:"subscription"`
	PicksMade int        `json:"stocksPicked"`
	PickLimit int        `json:"pickLimit"`
	Remaining int        `json:"remaining"`
}

// PortfolioStats are the aggregate figures behind the dashboard charts.
// They are computed over picked items still present in the catalog;
// purchases orphaned by a catalog delete are skipped.
type PortfolioStats struct {
	TotalValue    float64 `json:"totalValue"`
	AverageReturn float64 `json:"averageReturn"`
	WinRate       float64 `json:"winRate"`
	Picked        int     `json:"picked"`
	Profitable    int     `json:"profitable"`
	Losing        int     `json:"losing"`
	BreakEven     int     `json:"breakEven"`
}

// MarshalJSON guards AverageReturn, which inherits non-finiteness from any
// non-finite per-item return it averages over.
func (s PortfolioStats) MarshalJSON() ([]byte, error) {
	type plain PortfolioStats
	return json.Marshal(struct {
		plain
		AverageReturn jsonPercent `json:"averageReturn"`
	}{
		plain:         plain(s),
		AverageReturn: jsonPercent(s.AverageReturn),
	})
}

// DashboardView is the full catalog with the caller's overlay, plan usage,
// and portfolio stats.
type DashboardView struct {
	Stocks []StockView    `json:"stocks"`
	Plan   PlanUsage      `json:"plan"`
	Stats  PortfolioStats `json:"stats"`
}

// PickResult is returned by a successful pick.
type PickResult struct {
	Stock model.Stock `json:"stock"`
	Plan  PlanUsage   `json:"plan"`
	Price float64     `json:"purchasePrice"`
	Date  time.Time   `json:"purchaseDate"`
}

// Pick records the caller picking a catalog item.
//
// Order of operations matters and is deliberately not transactional:
// the ceiling is checked, the ledger is written, then the purchase record
// is written. A failure between the two writes leaves a picked id with no
// purchase entry; nothing repairs that later. There is no duplicate guard:
// re-picking an item counts against the ceiling again and overwrites the
// purchase record with the current price.
func (s *PickService) Pick(ctx context.Context, username, stockID string) (*PickResult, error) {
	stock, err := s.catalog.GetByID(ctx, stockID)
	if err != nil {
		return nil, err
	}

	ledger, err := s.ledgers.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("loading ledger for %s: %w", username, err)
	}

	if !ledger.CanPickMore() {
		msg := FreeLimitMessage
		if ledger.Tier == model.TierPaid {
			msg = PaidLimitMessage
		}
		s.logger.Info("pick rejected at ceiling",
			slog.String("username", username),
			slog.String("tier", string(ledger.Tier)),
			slog.Int("picksMade", ledger.PicksMade),
		)
		return nil, apperror.LimitReached(msg)
	}

	ledger.PicksMade++
	ledger.PickedIDs = append(ledger.PickedIDs, stock.ID)
	if err := s.ledgers.Save(ctx, username, ledger); err != nil {
		return nil, fmt.Errorf("saving ledger for %s: %w", username, err)
	}

	purchase := model.Purchase{Price: stock.CurrentPrice, Date: s.now()}
	if err := s.purchases.Record(ctx, username, stock.ID, purchase); err != nil {
		// The ledger write already landed; the picked id is now orphaned.
		s.logger.Error("purchase record failed after ledger write",
			slog.String("username", username),
			slog.String("stockID", stock.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("recording purchase for %s: %w", username, err)
	}

	s.logger.Info("stock picked",
		slog.String("username", username),
		slog.String("symbol", stock.Symbol),
		slog.Int("picksMade", ledger.PicksMade),
	)

	return &PickResult{
		Stock: *stock,
		Plan:  planUsage(ledger),
		Price: purchase.Price,
		Date:  purchase.Date,
	}, nil
}

// Upgrade flips the caller's ledger to the paid tier and resets the pick
// counter, unconditionally — upgrading while already paid is a free counter
// reset. The plan choice is cosmetic: logged, never stored.
func (s *PickService) Upgrade(ctx context.Context, username, plan string) (PlanUsage, error) {
	ledger, err := s.ledgers.Get(ctx, username)
	if err != nil {
		return PlanUsage{}, fmt.Errorf("loading ledger for %s: %w", username, err)
	}

	ledger.Tier = model.TierPaid
	ledger.PicksMade = 0
	if err := s.ledgers.Save(ctx, username, ledger); err != nil {
		return PlanUsage{}, fmt.Errorf("saving ledger for %s: %w", username, err)
	}

	s.logger.Info("subscription upgraded",
		slog.String("username", username),
		slog.String("plan", plan),
	)
	return planUsage(ledger), nil
}

// Dashboard returns the whole catalog with the caller's overlay.
func (s *PickService) Dashboard(ctx context.Context, username string) (*DashboardView, error) {
	return s.view(ctx, username, false)
}

// Portfolio is Dashboard filtered down to the caller's picked items.
func (s *PickService) Portfolio(ctx context.Context, username string) (*DashboardView, error) {
	return s.view(ctx, username, true)
}

// Stock returns a single catalog item with the caller's overlay.
func (s *PickService) Stock(ctx context.Context, username, stockID string) (*StockView, error) {
	stock, err := s.catalog.GetByID(ctx, stockID)
	if err != nil {
		return nil, err
	}

	purchases, err := s.purchases.Map(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("loading purchases for %s: %w", username, err)
	}

	view := overlay(*stock, purchases)
	return &view, nil
}

func (s *PickService) view(ctx context.Context, username string, pickedOnly bool) (*DashboardView, error) {
	stocks, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing catalog: %w", err)
	}

	ledger, err := s.ledgers.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("loading ledger for %s: %w", username, err)
	}

	purchases, err := s.purchases.Map(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("loading purchases for %s: %w", username, err)
	}

	views := make([]StockView, 0, len(stocks))
	var stats PortfolioStats
	for _, stock := range stocks {
		v := overlay(stock, purchases)
		if v.Purchased {
			stats.Picked++
			stats.TotalValue += v.PurchasePrice
			stats.AverageReturn += v.UserReturn
			switch {
			case v.UserReturn > 0:
				stats.Profitable++
			case v.UserReturn < 0:
				stats.Losing++
			default:
				stats.BreakEven++
			}
		}
		if pickedOnly && !v.Purchased {
			continue
		}
		views = append(views, v)
	}
	if stats.Picked > 0 {
		stats.AverageReturn /= float64(stats.Picked)
		stats.WinRate = float64(stats.Profitable) / float64(stats.Picked) * 100
	}

	return &DashboardView{
		Stocks: views,
		Plan:   planUsage(ledger),
		Stats:  stats,
	}, nil
}

func overlay(stock model.Stock, purchases map[string]model.Purchase) StockView {
	v := StockView{
		Stock:       stock,
		AdminReturn: stock.AdminReturn(),
	}
	if p, ok := purchases[stock.ID]; ok {
		v.Purchased = true
		v.PurchasePrice = p.Price
		v.PurchaseDate = p.Date
		v.UserReturn = p.UserReturn(stock.CurrentPrice)
	}
	return v
}

func planUsage(ledger model.Ledger) PlanUsage {
	limit := ledger.Tier.Limit()
	remaining := limit - ledger.PicksMade
	if remaining < 0 {
		remaining = 0
	}
	return PlanUsage{
		Tier:      ledger.Tier,
		PicksMade: ledger.PicksMade,
		PickLimit: limit,
		Remaining: remaining,
	}
}
