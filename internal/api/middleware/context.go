package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	subjectKey   contextKey = "subject"
)

func SetSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// GetSessionID returns the staging session identity set by the auth
// middleware.
func GetSessionID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(sessionIDKey).(string)
	return id, ok && id != ""
}

func setSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, subjectKey, sub)
}

func GetSubject(r *http.Request) (string, bool) {
	sub, ok := r.Context().Value(subjectKey).(string)
	return sub, ok && sub != ""
}
