package middleware

import (
	"context"
	"net/http"
)

const RequesterIDKey contextKey = "requester_id"

// RequesterHeader carries the opaque requester identity already verified by
// the upstream credential layer. This middleware only extracts it; it never
// authenticates.
const RequesterHeader = "X-Requester-ID"

func RequesterIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requesterID := r.Header.Get(RequesterHeader)
			if requesterID != "" {
				ctx := context.WithValue(r.Context(), RequesterIDKey, requesterID)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequesterFromContext returns the extracted requester identity, if any.
func RequesterFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(RequesterIDKey).(string)
	return id, ok && id != ""
}
