package testutil

import (
	"context"
	"net/http"
	"time"

	"phonebook/internal/account/models"
	"phonebook/pkg/requestcontext"
)

// WithCaller adds an authenticated account to the request context,
// simulating what the auth middleware does for valid credentials.
func WithCaller(req *http.Request, user *models.User) *http.Request {
	return req.WithContext(requestcontext.WithCaller(req.Context(), user))
}

// CallerContext returns a context carrying an authenticated account, for
// service tests that skip the HTTP layer.
func CallerContext(user *models.User) context.Context {
	return requestcontext.WithCaller(context.Background(), user)
}

// FrozenContext returns a context pinned to a fixed time so created/updated
// timestamps are deterministic.
func FrozenContext(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}
