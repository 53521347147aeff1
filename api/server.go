/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the storefront frontend

ROUTE GROUPS:
  /api/products/*   Catalog browsing and admin product management
  /api/users/*      Registration and purchase history
  /api/purchases/*  Buying and return requests
  /api/returns/*    Admin return resolution
  /api/admin/*      Audit journal

SECURITY NOTE:
  Identity arrives via trusted headers from an upstream auth proxy
  (see handlers.go). This service must not be exposed directly.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID", "X-Admin-Role"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Catalog
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Get("/{id}", h.GetProduct)
			r.Put("/{id}", h.UpdateProduct)
		})

		// Users
		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.RegisterUser)
			r.Get("/{id}", h.GetUser)
			r.Get("/{id}/purchases", h.ListUserPurchases)
		})

		// Purchases
		r.Route("/purchases", func(r chi.Router) {
			r.Post("/", h.CreatePurchase)
			r.Post("/{id}/returns", h.RequestReturn)
		})

		// Return resolution
		r.Route("/returns", func(r chi.Router) {
			r.Get("/", h.ListReturns)
			r.Post("/{id}/approve", h.ApproveReturn)
			r.Post("/{id}/cancel", h.CancelReturn)
		})

		// Admin
		r.Route("/admin", func(r chi.Router) {
			r.Get("/journal", h.ListJournal)
		})
	})

	return r
}
