// Package api exposes the notification store and business data over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/logging"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/erp"
)

// Server serves the HTTP API for one App.
type Server struct {
	app         *erp.App
	hub         *Hub
	router      chi.Router
	log         zerolog.Logger
	unsubscribe func()
	version     string
}

// New creates a Server and subscribes its websocket hub to the store.
func New(app *erp.App, version string) *Server {
	s := &Server{
		app:     app,
		log:     logging.Component("api"),
		version: version,
	}
	s.hub = NewHub(s.log, originChecker(app.Config.Server.AllowedOrigins))
	s.unsubscribe = app.Notifications.Subscribe(s.hub.Broadcast)
	s.router = s.routes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// MountProfiler exposes net/http/pprof under /debug.
func (s *Server) MountProfiler() {
	s.router.Mount("/debug", chimiddleware.Profiler())
}

// Close detaches the hub from the store and drops websocket clients.
func (s *Server) Close() {
	s.unsubscribe()
	s.hub.Close()
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestContext)
	r.Use(recoverer(s.log))
	r.Use(requestLogger(s.log))
	r.Use(corsHandler(s.app.Config.Server.AllowedOrigins))

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Put("/focus", s.setFocus)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", s.listNotifications)
			r.Post("/", s.addNotification)
			r.Delete("/", s.clearNotifications)
			r.Post("/events", s.emitEvent)
			r.Post("/read-all", s.markAllRead)
			r.Get("/ws", s.streamNotifications)
			r.Post("/{id}/read", s.markRead)
			r.Delete("/{id}", s.removeNotification)
		})

		r.Get("/dashboard", s.dashboard)
		r.Get("/products", s.listProducts)
		r.Get("/products/{id}", s.getProduct)
		r.Get("/orders", s.listOrders)
		r.Get("/orders/{id}", s.getOrder)
		r.Get("/orders/{id}/invoice", s.getInvoice)
		r.Get("/customers", s.listCustomers)
		r.Get("/customers/{id}", s.getCustomer)
		r.Get("/employees", s.listEmployees)
		r.Get("/employees/{id}", s.getEmployee)
		r.Get("/tasks", s.listTasks)
		r.Get("/tasks/{id}", s.getTask)
		r.Post("/inventory/scan", s.scanInventory)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		notFound(w, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		fail(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("api listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	s.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown api: %w", err)
	}
	return nil
}

// originChecker validates websocket Origin headers against the CORS list.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return slices.Contains(allowed, u.Scheme+"://"+u.Host)
	}
}
