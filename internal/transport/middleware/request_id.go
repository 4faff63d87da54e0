package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/scknurr/tritium-v4-sub001/pkg/ctxutil"
)

// RequestIDHeader carries the correlation id between client and server.
const RequestIDHeader = "X-Request-Id"

// RequestID returns middleware that guarantees every request has a
// correlation id: an inbound X-Request-Id is reused, otherwise a fresh UUID
// is minted. The id lands in the request context and on the response header.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			ctx := ctxutil.WithRequestID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
