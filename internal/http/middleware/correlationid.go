package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/openclaw/lister/pkg/correlationid"
)

// CorrelationID propagates the inbound correlation ID header, generating one
// when the caller did not send any, and echoes it on the response.
func CorrelationID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(correlationid.Header)
			if id == "" {
				id = uuid.NewString()
			}

			ctx := correlationid.NewContext(r.Context(), id)
			w.Header().Set(correlationid.Header, id)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
