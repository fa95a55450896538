package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/dotriacontordle/internal/api/handler"
	"github.com/mcoot/dotriacontordle/internal/api/middleware"
	"github.com/mcoot/dotriacontordle/internal/dependencies/clock"
	"github.com/mcoot/dotriacontordle/internal/services/auth"
	"github.com/mcoot/dotriacontordle/internal/services/puzzle"
	"github.com/mcoot/dotriacontordle/internal/services/session"
	"github.com/mcoot/dotriacontordle/internal/services/validation"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Clock       clock.Clock
	AuthService *auth.Service
	Sessions    *session.Manager
	Calendar    *puzzle.Calendar
	Validator   validation.Validator
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	gameHandler := handler.NewGameHandler(cfg.Sessions, cfg.Clock)
	puzzleHandler := handler.NewPuzzleHandler(cfg.Calendar, cfg.Validator, cfg.Clock, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(loggingMiddleware)
	api.Use(recoveryMiddleware)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Puzzle information (no auth)
	api.HandleFunc("/daily", puzzleHandler.Daily).Methods(http.MethodGet)
	api.HandleFunc("/validate", puzzleHandler.Validate).Methods(http.MethodGet)

	// Everything below acts on the authenticated player's game
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/players/me", playerHandler.GetMe).Methods(http.MethodGet)
	protected.HandleFunc("/players/logout", playerHandler.Logout).Methods(http.MethodPost)

	protected.HandleFunc("/game", gameHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/game/new", gameHandler.New).Methods(http.MethodPost)
	protected.HandleFunc("/game/switch", gameHandler.Switch).Methods(http.MethodPost)
	protected.HandleFunc("/game/letters", gameHandler.AddLetter).Methods(http.MethodPost)
	protected.HandleFunc("/game/letters", gameHandler.RemoveLetter).Methods(http.MethodDelete)
	protected.HandleFunc("/game/guess", gameHandler.Guess).Methods(http.MethodPost)
	protected.HandleFunc("/game/timer", gameHandler.ToggleTimer).Methods(http.MethodPost)
	protected.HandleFunc("/game/expanded", gameHandler.SetExpanded).Methods(http.MethodPut)
	protected.HandleFunc("/game/boards/{board}/evaluations/{guess}", gameHandler.Evaluation).Methods(http.MethodGet)
	protected.HandleFunc("/game/events", gameHandler.Events).Methods(http.MethodGet)

	protected.HandleFunc("/stats", gameHandler.Stats).Methods(http.MethodGet)
	protected.HandleFunc("/settings", gameHandler.GetSettings).Methods(http.MethodGet)
	protected.HandleFunc("/settings", gameHandler.PutSettings).Methods(http.MethodPut)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
