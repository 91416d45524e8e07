package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"musiccatalog/internal/metrics"
)

// Metrics records request counts and latency labelled by the matched route template,
// so /artists/{id} is one series regardless of id.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := wrapWriter(w)

		next.ServeHTTP(rw, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		metrics.RecordHTTPRequest(r.Method, route, rw.statusCode, time.Since(start))
	})
}
