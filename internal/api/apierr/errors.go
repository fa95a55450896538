package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/dotriacontordle/internal/model"
	"github.com/mcoot/dotriacontordle/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeWrongLength           = "WRONG_LENGTH"
	CodeDuplicateGuess        = "DUPLICATE_GUESS"
	CodeNotAWord              = "NOT_A_WORD"
	CodeInvalidLetter         = "INVALID_LETTER"
	CodeInvalidBoard          = "INVALID_BOARD"
	CodeNotPlaying            = "NOT_PLAYING"
	CodeValidationUnavailable = "VALIDATION_UNAVAILABLE"
	CodeNoAnswers             = "NO_ANSWERS"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeUsernameExists        = "USERNAME_EXISTS"
	CodePlayerNotFound        = "PLAYER_NOT_FOUND"
	CodeNotFound              = "NOT_FOUND"
	CodeStorageUnavailable    = "STORAGE_UNAVAILABLE"
	CodeInternalError         = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	if he.apiError.Retryable {
		w.Header().Set("Retry-After", "1")
	}
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Guess input rejections
	case errors.Is(err, model.ErrWrongLength):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeWrongLength, Message: err.Error()}}
	case errors.Is(err, model.ErrDuplicateGuess):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeDuplicateGuess, Message: "Word has already been guessed"}}
	case errors.Is(err, model.ErrInvalidLetter):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidLetter, Message: "Letters must be A-Z"}}
	case errors.Is(err, model.ErrInvalidBoard):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidBoard, Message: "Invalid board index"}}
	case errors.Is(err, model.ErrNotPlaying):
		return &httpError{http.StatusConflict, APIError{Code: CodeNotPlaying, Message: "Game is over"}}

	// Word validation
	case errors.Is(err, model.ErrValidationUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{Code: CodeValidationUnavailable, Message: "Could not check the word, try again", Retryable: true}}
	case errors.Is(err, model.ErrNotAWord):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeNotAWord, Message: "Not in word list"}}

	// Puzzle setup
	case errors.Is(err, model.ErrNoAnswers):
		return &httpError{http.StatusUnprocessableEntity, APIError{Code: CodeNoAnswers, Message: "Not enough words for that puzzle shape"}}

	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeInvalidCredentials, Message: "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{Code: CodeUsernameExists, Message: "Username already exists"}}
	case errors.Is(err, auth.ErrInvalidUsername):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: "Username and password are required"}}

	// Lookups
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodePlayerNotFound, Message: "Player not found"}}
	case errors.Is(err, model.ErrNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeNotFound, Message: "Not found"}}

	case errors.Is(err, model.ErrStorageUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{Code: CodeStorageUnavailable, Message: "Storage unavailable", Retryable: true}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Authentication required"}}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) error {
	return &httpError{http.StatusNotFound, APIError{Code: CodeNotFound, Message: message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
