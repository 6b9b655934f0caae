// Package requestid tags every request with a correlation ID, honoring one
// supplied by the client.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"phonebook/pkg/requestcontext"
)

const headerName = "X-Request-ID"

// Middleware sets the request ID in the context and echoes it in the
// response headers.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerName)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(headerName, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
