package middleware

import (
	"net/http"
)

// DefaultMaxRequestSize caps request bodies at 10MB
const DefaultMaxRequestSize int64 = 10 << 20

// RequestSizeLimitMiddleware answers 413 when the declared body is larger than maxBytes
// and cuts off bodies that grow past it while being read.
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				writeError(w, http.StatusRequestEntityTooLarge, msgRequestTooLarge)
				return
			}
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}

			next.ServeHTTP(w, r)
		})
	}
}
