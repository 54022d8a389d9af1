package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/prn-tf/zettel-notes/internal/repository"
)

// RouterConfig contains everything the router needs.
type RouterConfig struct {
	Web    *WebHandler
	Health repository.DatabaseHealth
	Logger zerolog.Logger
}

// NewRouter builds the chi router with the full middleware chain.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(Metrics())
	r.Use(RequestLogger(cfg.Logger))

	r.Get("/health", healthHandler(cfg.Health))

	cfg.Web.RegisterRoutes(r)

	return r
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Time     string `json:"time"`
}

func healthHandler(db repository.DatabaseHealth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:   "ok",
			Database: "ok",
			Time:     time.Now().UTC().Format(time.RFC3339),
		}

		status := http.StatusOK
		if err := db.Ping(r.Context()); err != nil {
			resp.Status = "degraded"
			resp.Database = err.Error()
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	}
}
