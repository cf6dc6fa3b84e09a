package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func protected() http.Handler {
	mw := RequireBasicAuth("uploader", "hunter2")
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestBasicAuthAccepted(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.SetBasicAuth("uploader", "hunter2")
	rec := httptest.NewRecorder()
	protected().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBasicAuthRejected(t *testing.T) {
	cases := map[string]func(r *http.Request){
		"no credentials": func(r *http.Request) {},
		"wrong password": func(r *http.Request) { r.SetBasicAuth("uploader", "wrong") },
		"wrong user":     func(r *http.Request) { r.SetBasicAuth("intruder", "hunter2") },
	}
	for name, apply := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			apply(req)
			rec := httptest.NewRecorder()
			protected().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")
		})
	}
}
