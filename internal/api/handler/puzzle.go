package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mcoot/dotriacontordle/internal/api/apierr"
	"github.com/mcoot/dotriacontordle/internal/api/response"
	"github.com/mcoot/dotriacontordle/internal/dependencies/clock"
	"github.com/mcoot/dotriacontordle/internal/services/evaluation"
	"github.com/mcoot/dotriacontordle/internal/services/puzzle"
	"github.com/mcoot/dotriacontordle/internal/services/validation"
)

// PuzzleHandler serves player-independent puzzle information
type PuzzleHandler struct {
	calendar  *puzzle.Calendar
	validator validation.Validator
	clock     clock.Clock
	logger    *slog.Logger
}

// NewPuzzleHandler creates a new puzzle handler
func NewPuzzleHandler(calendar *puzzle.Calendar, validator validation.Validator, clock clock.Clock, logger *slog.Logger) *PuzzleHandler {
	return &PuzzleHandler{
		calendar:  calendar,
		validator: validator,
		clock:     clock,
		logger:    logger,
	}
}

// Daily handles GET /api/v1/daily
func (h *PuzzleHandler) Daily(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	response.JSON(w, http.StatusOK, response.Daily{
		DailyNumber:      h.calendar.DailyNumber(now),
		NextResetAt:      h.calendar.NextReset(now),
		SecondsUntilNext: int64(h.calendar.TimeUntilNext(now).Seconds()),
	})
}

// Validate handles GET /api/v1/validate?word=&length=
// Lookup failures answer not valid.
func (h *PuzzleHandler) Validate(w http.ResponseWriter, r *http.Request) {
	word := evaluation.Upper(strings.TrimSpace(r.URL.Query().Get("word")))
	if word == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("word is required"))
		return
	}

	length := len(word)
	if raw := r.URL.Query().Get("length"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			apierr.WriteError(w, apierr.NewInvalidRequestError("length must be a number"))
			return
		}
		length = n
	}

	valid, err := h.validator.Validate(r.Context(), word, length)
	if err != nil {
		h.logger.Warn("word validation failed", slog.String("word", word), slog.String("error", err.Error()))
		valid = false
	}
	response.JSON(w, http.StatusOK, response.Validation{Word: word, Valid: valid})
}
