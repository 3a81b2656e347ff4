package router

import (
	"net/http"
	"time"

	"cicd-demo/backend/internal/config"
	"cicd-demo/backend/internal/httpapi/handlers"
	appmw "cicd-demo/backend/internal/httpapi/middleware"
	"cicd-demo/backend/internal/httpapi/response"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/gorm"
)

const requestTimeout = 60 * time.Second

// New builds the HTTP handler. db may be nil when the release ledger is
// disabled.
func New(db *gorm.DB, cfg config.Settings) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.StripSlashes)
	r.Use(appmw.RequestID)
	r.Use(appmw.Logger)
	r.Use(appmw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", appmw.RequestIDHeader},
		ExposedHeaders: []string{appmw.RequestIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	systemHandler := handlers.NewSystemHandler(db, cfg)
	statusHandler := handlers.NewStatusHandler(cfg, time.Now())
	releaseHandler := handlers.NewReleaseHandler(db)
	streamHandler := handlers.NewStatusStreamHandler(statusHandler, cfg.HeartbeatInterval)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))

		r.Get("/", systemHandler.Home)
		r.Get("/health", systemHandler.Health)
		r.Get("/ready", systemHandler.Ready)

		r.Route("/api", func(api chi.Router) {
			api.Get("/status", statusHandler.Status)
			api.Get("/version", statusHandler.Version)
			api.Get("/releases", releaseHandler.List)
		})
	})

	// Long lived connections stay outside the request timeout.
	r.Route("/ws", func(ws chi.Router) {
		ws.Get("/status", streamHandler.Connect)
		ws.Get("/stats", streamHandler.Stats)
	})

	return r
}
