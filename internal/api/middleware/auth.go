package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/dotriacontordle/internal/api/apierr"
	"github.com/mcoot/dotriacontordle/internal/model"
	"github.com/mcoot/dotriacontordle/internal/services/auth"
)

type sessionKey struct{}

// Auth rejects requests without a live session and stores the session on the context.
// The token comes from the Authorization header, the session cookie or the token
// query parameter, in that order.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := authService.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

func extractToken(r *http.Request) string {
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	if cookie, err := r.Cookie("session"); err == nil {
		return cookie.Value
	}

	// EventSource clients cannot set headers
	return r.URL.Query().Get("token")
}

// WithSession returns a context carrying session
func WithSession(ctx context.Context, session *auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// Session returns the authenticated session, or nil outside Auth
func Session(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionKey{}).(*auth.Session)
	return session
}

// Player returns the authenticated player, or nil outside Auth
func Player(ctx context.Context) *model.Player {
	if session := Session(ctx); session != nil {
		return &session.Player
	}
	return nil
}

// PlayerID returns the authenticated player's ID.
// Handlers mounted behind Auth always have one.
func PlayerID(ctx context.Context) (model.PlayerID, bool) {
	player := Player(ctx)
	if player == nil {
		return "", false
	}
	return player.ID, true
}
