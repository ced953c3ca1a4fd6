package middleware

import (
	"mime"
	"net/http"
)

// ParseForm eagerly parses application/x-www-form-urlencoded bodies so that
// handlers can read r.PostForm. Other content types pass through untouched.
func ParseForm(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if mediaType != "application/x-www-form-urlencoded" {
			next.ServeHTTP(w, r)
			return
		}

		if err := r.ParseForm(); err != nil {
			if IsBodyTooLarge(err) {
				writeError(w, http.StatusRequestEntityTooLarge, "request entity too large")
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
