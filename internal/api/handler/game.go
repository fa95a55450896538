package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gorilla/mux"

	"github.com/mcoot/dotriacontordle/internal/api/apierr"
	"github.com/mcoot/dotriacontordle/internal/api/middleware"
	"github.com/mcoot/dotriacontordle/internal/api/request"
	"github.com/mcoot/dotriacontordle/internal/api/response"
	"github.com/mcoot/dotriacontordle/internal/dependencies/clock"
	"github.com/mcoot/dotriacontordle/internal/events"
	"github.com/mcoot/dotriacontordle/internal/model"
	"github.com/mcoot/dotriacontordle/internal/services/game"
	"github.com/mcoot/dotriacontordle/internal/services/session"
)

// GameHandler handles the authenticated player's game
type GameHandler struct {
	sessions *session.Manager
	clock    clock.Clock
}

// NewGameHandler creates a new game handler
func NewGameHandler(sessions *session.Manager, clock clock.Clock) *GameHandler {
	return &GameHandler{
		sessions: sessions,
		clock:    clock,
	}
}

func (h *GameHandler) controller(w http.ResponseWriter, r *http.Request) (*game.Controller, bool) {
	playerID, ok := middleware.PlayerID(r.Context())
	if !ok {
		apierr.WriteError(w, apierr.NewUnauthorizedError())
		return nil, false
	}
	c, err := h.sessions.ControllerFor(r.Context(), playerID)
	if err != nil {
		apierr.WriteError(w, err)
		return nil, false
	}
	return c, true
}

func (h *GameHandler) writeGame(w http.ResponseWriter, status int, c *game.Controller) {
	response.JSON(w, status, response.GameFromModel(c.State(), h.clock.Now()))
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return false
	}
	return true
}

// Get handles GET /api/v1/game
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	h.writeGame(w, http.StatusOK, c)
}

// New handles POST /api/v1/game/new
func (h *GameHandler) New(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	var req request.NewGameRequest
	if !decode(w, r, &req) {
		return
	}

	cfg := req.Config(c.State().Config)
	if err := c.NewGame(r.Context(), model.ParseGameMode(req.Mode), req.DailyNumber, cfg); err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeGame(w, http.StatusCreated, c)
}

// Switch handles POST /api/v1/game/switch
func (h *GameHandler) Switch(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	var req request.SwitchModeRequest
	if !decode(w, r, &req) {
		return
	}

	cfg := req.Config(c.State().Config)
	if err := c.SwitchMode(r.Context(), model.ParseGameMode(req.Mode), req.DailyNumber, cfg, req.Resume); err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeGame(w, http.StatusOK, c)
}

// AddLetter handles POST /api/v1/game/letters
func (h *GameHandler) AddLetter(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	var req request.LetterRequest
	if !decode(w, r, &req) {
		return
	}
	if utf8.RuneCountInString(req.Letter) != 1 {
		apierr.WriteError(w, model.ErrInvalidLetter)
		return
	}

	letter, _ := utf8.DecodeRuneInString(req.Letter)
	if err := c.AddLetter(letter); err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeGame(w, http.StatusOK, c)
}

// RemoveLetter handles DELETE /api/v1/game/letters
func (h *GameHandler) RemoveLetter(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	c.RemoveLetter()
	h.writeGame(w, http.StatusOK, c)
}

// Guess handles POST /api/v1/game/guess
func (h *GameHandler) Guess(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	var req request.GuessRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}

	var (
		outcome game.SubmitOutcome
		err     error
	)
	if req.Guess == "" {
		outcome, err = c.SubmitGuess(r.Context())
	} else {
		outcome, err = c.SubmitWord(r.Context(), req.Guess)
	}
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	status := http.StatusOK
	if outcome.Ignored {
		status = http.StatusAccepted
	}
	response.JSON(w, status, response.GuessResultFromOutcome(outcome, c.State(), h.clock.Now()))
}

// ToggleTimer handles POST /api/v1/game/timer
func (h *GameHandler) ToggleTimer(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	c.ToggleTimer()
	h.writeGame(w, http.StatusOK, c)
}

// SetExpanded handles PUT /api/v1/game/expanded
func (h *GameHandler) SetExpanded(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	var req request.ExpandedBoardRequest
	if !decode(w, r, &req) {
		return
	}
	if err := c.SetExpandedBoard(req.Board); err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeGame(w, http.StatusOK, c)
}

// Evaluation handles GET /api/v1/game/boards/{board}/evaluations/{guess}
func (h *GameHandler) Evaluation(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	board, err := strconv.Atoi(vars["board"])
	if err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("board must be a number"))
		return
	}
	guess, err := strconv.Atoi(vars["guess"])
	if err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("guess must be a number"))
		return
	}

	state := c.State()
	if board < 0 || board >= len(state.Boards) {
		apierr.WriteError(w, model.ErrInvalidBoard)
		return
	}
	if guess < 0 || guess >= len(state.Guesses) {
		apierr.WriteError(w, apierr.NewNotFoundError("no such guess"))
		return
	}

	response.JSON(w, http.StatusOK, response.Evaluation{
		Board: board,
		Guess: guess,
		Word:  state.Guesses[guess],
		Tiles: game.EvaluationForBoard(state, board, guess),
	})
}

// Events handles GET /api/v1/game/events
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	state := c.State()
	initial := []model.Event{{
		Type:      model.EventStateLoaded,
		Timestamp: h.clock.Now(),
		GameID:    state.GameID,
		State:     state,
	}}
	events.ServeSSE(w, r, c.Hub(), encodeEvent, initial)
}

func encodeEvent(e model.Event) ([]byte, error) {
	return json.Marshal(response.EventFromModel(e))
}

// Stats handles GET /api/v1/stats
func (h *GameHandler) Stats(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	response.JSON(w, http.StatusOK, response.StatsFromModel(c.Stats(r.Context())))
}

// GetSettings handles GET /api/v1/settings
func (h *GameHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	response.JSON(w, http.StatusOK, response.SettingsFromModel(c.Settings(r.Context())))
}

// PutSettings handles PUT /api/v1/settings
func (h *GameHandler) PutSettings(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	var req request.SettingsRequest
	if !decode(w, r, &req) {
		return
	}

	settings, err := c.UpdateSettings(r.Context(), req.Apply(c.Settings(r.Context())))
	if err != nil {
		apierr.WriteError(w, errors.Join(model.ErrStorageUnavailable, err))
		return
	}
	response.JSON(w, http.StatusOK, response.SettingsFromModel(settings))
}
