package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// sessionCookie carries the dashboard session across requests. Each session
// stages its own inputs and sees its own snapshot.
const sessionCookie = "trialpulse_session"

type sessionKey struct{}

// SessionCtx assigns a session id to every request, minting one for new
// clients and echoing it back as a cookie.
func SessionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := ""
		if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
			if _, err := uuid.Parse(c.Value); err == nil {
				sessionID = c.Value
			}
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID returns the request's session id, empty when SessionCtx did not
// run.
func SessionID(r *http.Request) string {
	if id, ok := r.Context().Value(sessionKey{}).(string); ok {
		return id
	}
	return ""
}
