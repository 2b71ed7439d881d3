package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/breakout-edge/internal/model"
	"github.com/sakif/breakout-edge/internal/service"
)

// AdminHandler serves the admin API: catalog CRUD, the user roster, and
// the headline stats. Every route sits behind the admin cookie middleware.
type AdminHandler struct {
	catalog *service.CatalogService
	roster  *service.RosterService
	logger  *slog.Logger
}

func NewAdminHandler(catalog *service.CatalogService, roster *service.RosterService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		catalog: catalog,
		roster:  roster,
		logger:  logger,
	}
}

// HandleListStocks returns the full catalog.
//
// HTTP: GET /api/admin/stocks
func (h *AdminHandler) HandleListStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.catalog.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stocks)
}

// HandleCreateStock adds a stock to the catalog.
//
// HTTP: POST /api/admin/stocks
// Body: the stock fields; the id is assigned server-side.
func (h *AdminHandler) HandleCreateStock(w http.ResponseWriter, r *http.Request) {
	var stock model.Stock
	if err := json.NewDecoder(r.Body).Decode(&stock); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	created, err := h.catalog.Create(r.Context(), stock)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdateStock replaces a catalog item's fields.
//
// HTTP: PUT /api/admin/stocks/{id}
func (h *AdminHandler) HandleUpdateStock(w http.ResponseWriter, r *http.Request) {
	var stock model.Stock
	if err := json.NewDecoder(r.Body).Decode(&stock); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	updated, err := h.catalog.Update(r.Context(), chi.URLParam(r, "id"), stock)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDeleteStock removes a catalog item. User ledgers and purchase
// records that reference it are left alone.
//
// HTTP: DELETE /api/admin/stocks/{id}
func (h *AdminHandler) HandleDeleteStock(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUsers returns the admin roster.
//
// HTTP: GET /api/admin/users
func (h *AdminHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	entries, err := h.roster.Users(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleToggleSubscription flips a roster entry between free and paid.
//
// HTTP: POST /api/admin/users/{id}/subscription
func (h *AdminHandler) HandleToggleSubscription(w http.ResponseWriter, r *http.Request) {
	entry, err := h.roster.ToggleSubscription(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// HandleStats returns the admin dashboard figures.
//
// HTTP: GET /api/admin/stats
func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.roster.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
