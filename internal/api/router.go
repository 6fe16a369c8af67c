package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"

	"github.com/mcoot/skylandly/internal/api/apierr"
	"github.com/mcoot/skylandly/internal/api/handler"
	apimiddleware "github.com/mcoot/skylandly/internal/api/middleware"
	"github.com/mcoot/skylandly/internal/api/response"
	"github.com/mcoot/skylandly/internal/metrics"
	"github.com/mcoot/skylandly/internal/middleware"
	"github.com/mcoot/skylandly/internal/services/game"
	"github.com/mcoot/skylandly/internal/services/history"
	"github.com/mcoot/skylandly/internal/services/ledger"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        metrics.Metrics
	MetricsEnabled bool
	AllowedOrigins []string
	GameController *game.Controller
	Ledger         *ledger.Ledger
	History        *history.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Noop{}
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError("Route not found"))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewMethodNotAllowedError())
	})

	// Create handlers
	gameHandler := handler.NewGameHandler(cfg.GameController)
	historyHandler := handler.NewHistoryHandler(cfg.Ledger, cfg.History)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(apimiddleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))
	api.Use(middleware.Metrics(cfg.Metrics))

	// Game routes
	api.HandleFunc("/game/daily", gameHandler.Daily).Methods(http.MethodGet)
	api.HandleFunc("/game/guess", gameHandler.Guess).Methods(http.MethodPost)
	api.HandleFunc("/skylanders", gameHandler.Skylanders).Methods(http.MethodGet)

	// History routes
	hist := api.PathPrefix("/history").Subrouter()
	hist.HandleFunc("/result", historyHandler.UpsertResult).Methods(http.MethodPost)
	hist.HandleFunc("/summary", historyHandler.Summary).Methods(http.MethodGet)
	hist.HandleFunc("/games", historyHandler.Games).Methods(http.MethodGet)
	hist.HandleFunc("/average-guesses", historyHandler.AverageGuesses).Methods(http.MethodGet)
	hist.HandleFunc("/player", historyHandler.ForgetPlayer).Methods(http.MethodDelete)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	if cfg.MetricsEnabled {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	// CORS sits outside mux so preflight requests never reach method matching
	return middleware.CORS(cfg.AllowedOrigins)(gzhttp.GzipHandler(r))
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}
