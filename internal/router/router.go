package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/lanchonete-pos/api/internal/config"
	"github.com/lanchonete-pos/api/internal/enum"
	"github.com/lanchonete-pos/api/internal/handler"
	mw "github.com/lanchonete-pos/api/internal/middleware"
	"github.com/lanchonete-pos/api/internal/service"
	"github.com/lanchonete-pos/api/internal/store"
	"github.com/lanchonete-pos/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Read routes are open to any authenticated terminal; catalog and
// profile writes and reports are admin-only.
func New(cfg *config.Config, st *store.Store, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // Vite dev server
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(st, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	ledger := service.NewLedger(st, st, st)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		restaurantHandler := handler.NewRestaurantHandler(st)
		restaurantHandler.RegisterRoutes(r)

		tableHandler := handler.NewTableHandler(st)
		tableHandler.RegisterRoutes(r)

		categoryHandler := handler.NewCategoryHandler(st)
		categoryHandler.RegisterRoutes(r)

		productHandler := handler.NewProductHandler(st)
		productHandler.RegisterRoutes(r)

		orderHandler := handler.NewOrderHandler(ledger, st, hub)
		orderHandler.RegisterRoutes(r)

		paymentHandler := handler.NewPaymentHandler(ledger, st, hub)
		paymentHandler.RegisterRoutes(r)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleAdmin))

			categoryHandler.RegisterAdminRoutes(r)
			productHandler.RegisterAdminRoutes(r)
			restaurantHandler.RegisterAdminRoutes(r)

			reportHandler := handler.NewReportHandler(st)
			reportHandler.RegisterRoutes(r)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
