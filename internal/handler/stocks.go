package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/breakout-edge/internal/auth"
	"github.com/sakif/breakout-edge/internal/service"
)

// StockHandler serves the subscriber-facing API: the dashboard and
// portfolio views, single-stock lookups, the pick action, and the upgrade.
// Every route here sits behind the user cookie middleware.
type StockHandler struct {
	picks  *service.PickService
	logger *slog.Logger
}

func NewStockHandler(picks *service.PickService, logger *slog.Logger) *StockHandler {
	return &StockHandler{picks: picks, logger: logger}
}

// username pulls the identity set by the auth middleware. The empty-string
// case only happens if a route is wired without the middleware.
func username(w http.ResponseWriter, r *http.Request) (string, bool) {
	name, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
	}
	return name, ok
}

// HandleDashboard returns the full catalog overlaid with the caller's
// picks, plan usage, and portfolio stats.
//
// HTTP: GET /api/dashboard
func (h *StockHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	name, ok := username(w, r)
	if !ok {
		return
	}

	view, err := h.picks.Dashboard(r.Context(), name)
	if err != nil {
		h.logger.Error("dashboard view failed", slog.String("username", name), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandlePortfolio returns only the caller's picked stocks with the same
// stats block as the dashboard.
//
// HTTP: GET /api/portfolio
func (h *StockHandler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	name, ok := username(w, r)
	if !ok {
		return
	}

	view, err := h.picks.Portfolio(r.Context(), name)
	if err != nil {
		h.logger.Error("portfolio view failed", slog.String("username", name), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleStock returns one catalog item with the caller's overlay.
//
// HTTP: GET /api/stocks/{id}
func (h *StockHandler) HandleStock(w http.ResponseWriter, r *http.Request) {
	name, ok := username(w, r)
	if !ok {
		return
	}

	view, err := h.picks.Stock(r.Context(), name, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandlePick records the caller picking a stock.
//
// HTTP: POST /api/stocks/{id}/pick
//
// Over-ceiling attempts come back as 429 with tier-specific copy. There is
// no duplicate guard: re-picking burns another slot.
func (h *StockHandler) HandlePick(w http.ResponseWriter, r *http.Request) {
	name, ok := username(w, r)
	if !ok {
		return
	}

	result, err := h.picks.Pick(r.Context(), name, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type upgradeRequest struct {
	Plan string `json:"plan"` // "monthly" or "yearly"; cosmetic either way
}

// HandleUpgrade flips the caller to the paid tier and resets their pick
// counter. No payment happens; the plan choice is not recorded.
//
// HTTP: POST /api/upgrade
// Body: {"plan": "monthly"} (optional)
func (h *StockHandler) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	name, ok := username(w, r)
	if !ok {
		return
	}

	var req upgradeRequest
	if r.Body != nil {
		// An empty or absent body is fine; the plan is cosmetic.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	plan, err := h.picks.Upgrade(r.Context(), name, req.Plan)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
