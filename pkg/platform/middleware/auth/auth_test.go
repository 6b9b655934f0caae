package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonebook/internal/account/models"
	"phonebook/internal/platform/logger"
	"phonebook/internal/token"
	"phonebook/pkg/domain"
	"phonebook/pkg/requestcontext"
)

type stubLoader struct {
	user *models.User
	err  error
}

func (s *stubLoader) LoadByID(context.Context, domain.UserID) (*models.User, error) {
	return s.user, s.err
}

type capturedCaller struct {
	user *models.User
	ok   bool
}

func runMiddleware(t *testing.T, loader AccountLoader, authorization string) (*httptest.ResponseRecorder, *capturedCaller) {
	t.Helper()
	tokens := token.NewService("test-signing-key", "phonebook-test", time.Hour)
	return runMiddlewareWith(t, tokens, loader, authorization)
}

func runMiddlewareWith(t *testing.T, tokens *token.Service, loader AccountLoader, authorization string) (*httptest.ResponseRecorder, *capturedCaller) {
	t.Helper()
	captured := &capturedCaller{}
	handler := ResolveCaller(tokens, loader, logger.New())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.user, captured.ok = requestcontext.Caller(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr, captured
}

func signedToken(t *testing.T, tokens *token.Service, user *models.User) string {
	t.Helper()
	signed, err := tokens.Sign(user.Username, user.ID, time.Now())
	require.NoError(t, err)
	return signed
}

func TestResolveCaller(t *testing.T) {
	user := &models.User{ID: domain.NewUserID(), Username: "mluukkai"}

	t.Run("no header proceeds anonymously", func(t *testing.T) {
		rr, captured := runMiddleware(t, &stubLoader{}, "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, captured.ok)
	})

	t.Run("non-bearer scheme proceeds anonymously", func(t *testing.T) {
		rr, captured := runMiddleware(t, &stubLoader{}, "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, captured.ok)
	})

	t.Run("invalid bearer token rejects the request", func(t *testing.T) {
		rr, _ := runMiddleware(t, &stubLoader{}, "Bearer not.a.token")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "unauthorized")
	})

	t.Run("token signed with another key rejects the request", func(t *testing.T) {
		other := token.NewService("another-key", "phonebook-test", time.Hour)
		rr, _ := runMiddleware(t, &stubLoader{user: user}, "Bearer "+signedToken(t, other, user))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid token resolves the caller", func(t *testing.T) {
		tokens := token.NewService("test-signing-key", "phonebook-test", time.Hour)
		rr, captured := runMiddlewareWith(t, tokens, &stubLoader{user: user}, "Bearer "+signedToken(t, tokens, user))
		assert.Equal(t, http.StatusOK, rr.Code)
		require.True(t, captured.ok)
		assert.Equal(t, "mluukkai", captured.user.Username)
	})

	t.Run("bearer scheme is case-insensitive", func(t *testing.T) {
		tokens := token.NewService("test-signing-key", "phonebook-test", time.Hour)
		_, captured := runMiddlewareWith(t, tokens, &stubLoader{user: user}, "bearer "+signedToken(t, tokens, user))
		assert.True(t, captured.ok)
	})

	t.Run("verified token for a deleted account proceeds anonymously", func(t *testing.T) {
		tokens := token.NewService("test-signing-key", "phonebook-test", time.Hour)
		rr, captured := runMiddlewareWith(t, tokens, &stubLoader{user: nil}, "Bearer "+signedToken(t, tokens, user))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, captured.ok)
	})
}
