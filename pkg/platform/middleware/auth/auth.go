// Package auth resolves the per-request caller from an optional bearer
// credential, before resolution dispatch.
//
// Policy: no Authorization header, or one with a non-bearer scheme, means
// Anonymous. A bearer token that is malformed or fails verification rejects
// the whole request; a token that verifies but references a deleted account
// degrades to Anonymous.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"phonebook/internal/account/models"
	"phonebook/internal/token"
	"phonebook/pkg/domain"
	dErrors "phonebook/pkg/domain-errors"
	"phonebook/pkg/platform/httputil"
	"phonebook/pkg/requestcontext"
)

// AccountLoader fetches the account referenced by a verified credential,
// with friends materialized. A nil result means the account is gone.
type AccountLoader interface {
	LoadByID(ctx context.Context, id domain.UserID) (*models.User, error)
}

const bearerPrefix = "Bearer "

// ResolveCaller returns middleware that builds the caller context. It runs
// once per request and performs a single read; it never mutates state.
func ResolveCaller(tokens *token.Service, accounts AccountLoader, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				logger.WarnContext(ctx, "rejected invalid credential",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, err)
				return
			}
			userID, err := claims.ParsedUserID()
			if err != nil {
				httputil.WriteError(w, err)
				return
			}

			user, err := accounts.LoadByID(ctx, userID)
			if err != nil {
				httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve caller"))
				return
			}
			if user == nil {
				// Verified token for a deleted account: the credential is
				// stale, not forged. Continue anonymously.
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithCaller(ctx, user)))
		})
	}
}

// bearerToken extracts the credential from an Authorization header. A
// malformed scheme prefix is treated the same as an absent header.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(bearerPrefix):])
	if tok == "" {
		return "", false
	}
	return tok, true
}
