package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// pageNames lists every page template. Each page is parsed together with
// base.html so it can fill the base layout's content block.
var pageNames = []string{
	"landing",
	"thank_you",
	"pro_upgrade",
	"login",
	"register",
	"admin_login",
	"dashboard",
	"portfolio",
	"stock",
	"admin_dashboard",
}

// PageHandler renders the HTML pages. Templates are parsed once at
// startup; the pages are thin shells — the data on them is fetched from
// the JSON API by the page scripts.
type PageHandler struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

func NewPageHandler(templateDir string, logger *slog.Logger) (*PageHandler, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, name+".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &PageHandler{pages: pages, logger: logger}, nil
}

func (h *PageHandler) render(w http.ResponseWriter, page string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.pages[page].ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render page",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// HandleLanding serves the marketing page. GET /
func (h *PageHandler) HandleLanding(w http.ResponseWriter, r *http.Request) {
	h.render(w, "landing", map[string]any{"Title": "BreakoutEdge — Beat the Market"})
}

// HandleThankYou serves the post-signup page. GET /thank-you
func (h *PageHandler) HandleThankYou(w http.ResponseWriter, r *http.Request) {
	h.render(w, "thank_you", map[string]any{"Title": "Thank You — BreakoutEdge"})
}

// HandleProUpgrade serves the upgrade pitch page. GET /pro-upgrade
func (h *PageHandler) HandleProUpgrade(w http.ResponseWriter, r *http.Request) {
	h.render(w, "pro_upgrade", map[string]any{"Title": "Go Pro — BreakoutEdge"})
}

// HandleLogin serves the member sign-in form. GET /login
func (h *PageHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login", map[string]any{"Title": "Member Login — BreakoutEdge"})
}

// HandleRegister serves the sign-up form. GET /register
func (h *PageHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	h.render(w, "register", map[string]any{"Title": "Create Account — BreakoutEdge"})
}

// HandleAdminLogin serves the admin sign-in form. GET /admin
func (h *PageHandler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, "admin_login", map[string]any{"Title": "Admin Login — BreakoutEdge"})
}

// HandleDashboard serves the member dashboard shell. GET /dashboard
func (h *PageHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, "dashboard", map[string]any{"Title": "Dashboard — BreakoutEdge"})
}

// HandlePortfolio serves the portfolio shell. GET /portfolio
func (h *PageHandler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	h.render(w, "portfolio", map[string]any{"Title": "My Portfolio — BreakoutEdge"})
}

// HandleStock serves the stock detail shell. GET /stocks/{id}
func (h *PageHandler) HandleStock(w http.ResponseWriter, r *http.Request) {
	h.render(w, "stock", map[string]any{
		"Title":   "Stock Detail — BreakoutEdge",
		"StockID": chi.URLParam(r, "id"),
	})
}

// HandleAdminDashboard serves the admin panel shell. GET /admin/dashboard
func (h *PageHandler) HandleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, "admin_dashboard", map[string]any{"Title": "Admin — BreakoutEdge"})
}
