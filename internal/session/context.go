// Package session carries the authenticated patient/provider context
// explicitly through the request. Components receive it as a value; nothing
// reads identity from ambient state.
package session

import "context"

// Session identifies the signed-in user for the duration of one request.
type Session struct {
	PatientID  string
	ProviderID string
	Name       string
}

type ctxKey string

const sessionKey ctxKey = "console.session"

// WithSession stores the session in context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext extracts the session if present.
func FromContext(ctx context.Context) (Session, bool) {
	val := ctx.Value(sessionKey)
	if val == nil {
		return Session{}, false
	}
	s, ok := val.(Session)
	return s, ok && s.PatientID != ""
}
