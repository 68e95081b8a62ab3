// Package server wires the router, middleware and handlers together
// and owns the HTTP listener lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mquell/listling/internal/auth"
	"github.com/mquell/listling/internal/handler"
	"github.com/mquell/listling/internal/middleware"
	"github.com/mquell/listling/internal/service"
	"github.com/mquell/listling/internal/storage"
)

// Config holds server configuration assembled by main from the
// environment.
type Config struct {
	Port          int
	JWTSecret     string
	TokenDuration time.Duration
}

// Server owns the router and the storage backend it serves from. The
// store is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	store  storage.Store
}

// New wires the dependency chain: store → services → handlers →
// routes. The store is injected so main decides between backends.
func New(cfg Config, store storage.Store) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		store:  store,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	tokens := auth.NewTokenManager(s.config.JWTSecret, s.config.TokenDuration)

	users := handler.NewUserHandler(service.NewUserService(s.store, tokens))
	lists := handler.NewListHandler(service.NewListService(s.store))
	items := handler.NewItemHandler(s.store)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Metrics)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		// Pre-auth: onboarding and login.
		r.Post("/users", users.HandleRegister)
		r.Post("/sessions", users.HandleLogin)

		// Everything else runs as an authenticated user.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens))

			r.Get("/users/me", users.HandleMe)
			r.Patch("/users/me", users.HandleRename)

			r.Post("/lists", lists.HandleCreate)
			r.Get("/lists", lists.HandleOwned)
			r.Get("/lists/shared", lists.HandleShared)
			r.Get("/lists/{listID}", lists.HandleGet)
			r.Patch("/lists/{listID}", lists.HandleRename)
			r.Delete("/lists/{listID}", lists.HandleDelete)

			r.Post("/lists/{listID}/share", lists.HandleShare)
			r.Post("/lists/{listID}/convert", lists.HandleConvert)
			r.Post("/joins", lists.HandleJoin)

			r.Post("/lists/{listID}/items", items.HandleAdd)
			r.Patch("/lists/{listID}/items/{itemID}", items.HandleUpdate)
			r.Delete("/lists/{listID}/items/{itemID}", items.HandleDelete)
		})
	})
}

// Handler returns the fully wired handler, wrapped for HTTP/2 without
// TLS so gRPC-style clients and plain browsers share one port.
func (s *Server) Handler() http.Handler {
	return h2c.NewHandler(s.router, &http2.Server{})
}

// Start serves until SIGINT/SIGTERM, then drains in-flight requests
// and closes the store.
func (s *Server) Start() error {
	defer s.store.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
