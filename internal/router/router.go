package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/tablelink/api/internal/config"
	"github.com/tablelink/api/internal/handler"
	"github.com/tablelink/api/internal/service"
	"github.com/tablelink/api/internal/store"
)

// New creates a Chi router with all application routes wired up.
func New(cfg *config.Config, db store.DBTX) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS for the menu and staff web apps
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	summaryService := service.NewOrderSummaryService(store.NewOrderItemStore(db))
	orderHandler := handler.NewOrderHandler(summaryService)

	r.Route("/shops/{sid}/orders", orderHandler.RegisterRoutes)
	r.Route("/orders", orderHandler.RegisterSnapshotRoutes)

	log.Println("Router initialized with all handlers")
	return r
}
