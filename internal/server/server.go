// Package server is the composition root: it opens the store, wires the
// repository → service → handler chain, lays out the route table, and runs
// the HTTP server with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/breakout-edge/internal/auth"
	"github.com/sakif/breakout-edge/internal/config"
	"github.com/sakif/breakout-edge/internal/handler"
	"github.com/sakif/breakout-edge/internal/middleware"
	"github.com/sakif/breakout-edge/internal/repository/kv"
	"github.com/sakif/breakout-edge/internal/rollover"
	"github.com/sakif/breakout-edge/internal/service"
	"github.com/sakif/breakout-edge/internal/store"
)

// Server owns the router, the store connection, and the optional rollover
// scheduler. The store and scheduler are closed on shutdown.
type Server struct {
	router   *chi.Mux
	cfg      config.Config
	logger   *slog.Logger
	db       *store.SQLite
	rollover *rollover.Job // nil unless picks.rollover is enabled

	templateDir string
	staticDir   string
}

// New assembles the full dependency chain from the loaded config.
func New(cfg config.Config, templateDir, staticDir string, logger *slog.Logger) (*Server, error) {
	db, err := store.OpenSQLite(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	s := &Server{
		router:      chi.NewRouter(),
		cfg:         cfg,
		logger:      logger,
		db:          db,
		templateDir: templateDir,
		staticDir:   staticDir,
	}

	if err := s.setup(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// setup wires repositories, services, handlers, and routes.
//
// Route table:
//
//	GET  /                                  landing page
//	GET  /thank-you, /pro-upgrade           public pages
//	GET  /login, /register                  user auth pages (redirect in when signed in)
//	GET  /admin                             admin auth page (redirect in when signed in)
//	GET  /dashboard, /portfolio,
//	     /stocks/{id}                       user pages (redirect out when anonymous)
//	GET  /admin/dashboard                   admin page (redirect out when anonymous)
//	     /api/...                           JSON API, cookie-gated, 401s instead of redirects
func (s *Server) setup() error {
	passwords := auth.NewPasswordService()
	gate, err := auth.NewGate(passwords,
		s.cfg.Credentials.UserName, s.cfg.Credentials.UserPassword,
		s.cfg.Credentials.AdminName, s.cfg.Credentials.AdminPassword,
	)
	if err != nil {
		return fmt.Errorf("building credential gate: %w", err)
	}

	tokens, err := auth.NewTokenService(s.cfg.Auth.JWTSecret)
	if err != nil {
		return fmt.Errorf("building token service: %w", err)
	}

	catalogRepo := kv.NewCatalog(s.db)
	ledgerRepo := kv.NewLedgers(s.db)
	purchaseRepo := kv.NewPurchases(s.db)
	rosterRepo := kv.NewRoster(s.db)

	auths := service.NewAuthService(gate, tokens, s.logger)
	picks := service.NewPickService(catalogRepo, ledgerRepo, purchaseRepo, s.logger)
	catalog := service.NewCatalogService(catalogRepo, s.logger)
	roster := service.NewRosterService(rosterRepo, catalogRepo, s.logger)

	authHandler := handler.NewAuthHandler(auths, s.logger)
	stockHandler := handler.NewStockHandler(picks, s.logger)
	adminHandler := handler.NewAdminHandler(catalog, roster, s.logger)

	pageHandler, err := handler.NewPageHandler(s.templateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}

	if s.cfg.Picks.Rollover {
		job, err := rollover.New(ledgerRepo, s.logger, s.cfg.Picks.FreeSchedule, s.cfg.Picks.PaidSchedule)
		if err != nil {
			return fmt.Errorf("creating rollover job: %w", err)
		}
		s.rollover = job
	}

	r := s.router
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(s.logger))

	fileServer := http.FileServer(http.Dir(s.staticDir))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// Public pages.
	r.Get("/", pageHandler.HandleLanding)
	r.Get("/thank-you", pageHandler.HandleThankYou)
	r.Get("/pro-upgrade", pageHandler.HandleProUpgrade)

	// Auth pages bounce visitors who are already signed in.
	r.Group(func(r chi.Router) {
		r.Use(auth.RedirectIfSignedIn(tokens, auth.RoleUser, "/dashboard"))
		r.Get("/login", pageHandler.HandleLogin)
		r.Get("/register", pageHandler.HandleRegister)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RedirectIfSignedIn(tokens, auth.RoleAdmin, "/admin/dashboard"))
		r.Get("/admin", pageHandler.HandleAdminLogin)
	})

	// Gated pages redirect anonymous visitors to the sign-in forms.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUserPage(tokens))
		r.Get("/dashboard", pageHandler.HandleDashboard)
		r.Get("/portfolio", pageHandler.HandlePortfolio)
		r.Get("/stocks/{id}", pageHandler.HandleStock)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAdminPage(tokens))
		r.Get("/admin/dashboard", pageHandler.HandleAdminDashboard)
	})

	// JSON API.
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/logout", authHandler.HandleLogout)
		r.Post("/auth/admin/login", authHandler.HandleAdminLogin)
		r.Post("/auth/admin/logout", authHandler.HandleAdminLogout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(tokens))
			r.Get("/me", authHandler.HandleMe)
			r.Get("/dashboard", stockHandler.HandleDashboard)
			r.Get("/portfolio", stockHandler.HandlePortfolio)
			r.Get("/stocks/{id}", stockHandler.HandleStock)
			r.Post("/stocks/{id}/pick", stockHandler.HandlePick)
			r.Post("/upgrade", stockHandler.HandleUpgrade)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin(tokens))
			r.Get("/stocks", adminHandler.HandleListStocks)
			r.Post("/stocks", adminHandler.HandleCreateStock)
			r.Put("/stocks/{id}", adminHandler.HandleUpdateStock)
			r.Delete("/stocks/{id}", adminHandler.HandleDeleteStock)
			r.Get("/users", adminHandler.HandleUsers)
			r.Post("/users/{id}/subscription", adminHandler.HandleToggleSubscription)
			r.Get("/stats", adminHandler.HandleStats)
		})
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, drain in-flight requests, stop the rollover
// scheduler, close the store.
func (s *Server) Start() error {
	defer s.db.Close()

	if s.rollover != nil {
		s.rollover.Start()
		defer s.rollover.Stop()
	}

	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.String("addr", s.cfg.Server.Addr),
			slog.String("store", s.cfg.Store.Path),
			slog.Bool("rollover", s.rollover != nil),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
