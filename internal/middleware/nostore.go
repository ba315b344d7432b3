package middleware

import "net/http"

// NoStore disables caching on routes whose responses feed the visual editor,
// so saved content is visible on the very next fetch.
func NoStore() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-store")
			next.ServeHTTP(w, r)
		})
	}
}
