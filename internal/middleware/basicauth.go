package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/droplet/service/internal/response"
)

// RequireBasicAuth returns middleware that enforces HTTP basic auth with the
// given credentials. Both values must be non-empty; the caller decides
// whether to install the middleware at all (auth is optional and off by
// default).
func RequireBasicAuth(user, pass string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqUser, reqPass, ok := r.BasicAuth()
			if !ok || !credentialsMatch(reqUser, reqPass, user, pass) {
				w.Header().Set("WWW-Authenticate", `Basic realm="droplet: file upload"`)
				response.Unauthorized(w, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// credentialsMatch compares both fields in constant time.
func credentialsMatch(gotUser, gotPass, wantUser, wantPass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(gotUser), []byte(wantUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(gotPass), []byte(wantPass)) == 1
	return userOK && passOK
}
