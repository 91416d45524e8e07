package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

const tooManyRequestsBody = `{"status":429,"data":null,"message":"Too many requests, try again later.","error":null}`

// RateLimit limits each client IP to perMinute requests. Zero disables limiting.
func RateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(tooManyRequestsBody))
		}),
	)
}
