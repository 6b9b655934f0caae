// Package httpapi is the thin HTTP layer: middleware chain, the GraphQL
// endpoint, and operational routes. Business logic stays in the services.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"phonebook/internal/token"
	"phonebook/pkg/platform/httputil"
	authmw "phonebook/pkg/platform/middleware/auth"
	"phonebook/pkg/platform/middleware/metadata"
	"phonebook/pkg/platform/middleware/requestid"
	"phonebook/pkg/platform/middleware/requesttime"
)

// NewRouter wires the public endpoints. The caller-resolution middleware
// runs before GraphQL dispatch so every resolver sees the same caller.
func NewRouter(schema *graphql.Schema, tokens *token.Service, accounts authmw.AccountLoader, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(requesttime.Middleware)
	r.Use(requestid.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(authmw.ResolveCaller(tokens, accounts, logger))

	r.Method(http.MethodPost, "/graphql", &relay.Handler{Schema: schema})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
