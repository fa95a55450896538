package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/dotriacontordle/internal/api/apierr"
	"github.com/mcoot/dotriacontordle/internal/middleware"
)

// Logging tags each request with an ID and logs it once it completes
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger)
}

// Recovery turns a handler panic into a JSON INTERNAL_ERROR response.
// Install it inside Logging so the panic log carries the request ID.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
