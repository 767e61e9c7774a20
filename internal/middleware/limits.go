package middleware

import (
	"net/http"
)

// Common size limits
const (
	KB = 1024
	MB = 1024 * KB

	// DefaultMaxBodySize fits any storefront JSON body.
	DefaultMaxBodySize = 1 * MB

	// SmallMaxBodySize is for cart and auth bodies.
	SmallMaxBodySize = 16 * KB
)

// MaxBodySize limits request bodies to maxBytes (DefaultMaxBodySize when
// omitted). Declared oversize bodies are rejected up front; others are cut
// off while reading.
func MaxBodySize(maxBytes ...int64) func(http.Handler) http.Handler {
	limit := int64(DefaultMaxBodySize)
	if len(maxBytes) > 0 && maxBytes[0] > 0 {
		limit = maxBytes[0]
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				respondTooLarge(w, r)
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
