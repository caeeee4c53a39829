package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrSnakeDoc/startpage/internal/logger"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

func serve(h http.Handler, r *http.Request) int {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec.Code
}

func TestEnforceHost(t *testing.T) {
	h := EnforceHost([]string{"start.lan", "*.example.com"}, logger.Nop())(ok)

	tests := []struct {
		host string
		want int
	}{
		{"start.lan", http.StatusNoContent},
		{"START.lan:8080", http.StatusNoContent},
		{"home.example.com", http.StatusNoContent},
		{"example.com", http.StatusForbidden},
		{"evil.lan", http.StatusForbidden},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Host = tt.host
		assert.Equal(t, tt.want, serve(h, r), tt.host)
	}
}

func TestEnforceHostPassthrough(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Host = "anything"
	assert.Equal(t, http.StatusNoContent, serve(EnforceHost(nil, logger.Nop())(ok), r))
}

func TestAllowOnlyCIDRS(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"10.0.0.0/8"}, false, logger.Nop())(ok)

	r := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	r.RemoteAddr = "10.2.3.4:1234"
	assert.Equal(t, http.StatusNoContent, serve(h, r))

	r.RemoteAddr = "192.168.0.1:1234"
	assert.Equal(t, http.StatusForbidden, serve(h, r))

	r.Header.Set("X-Forwarded-For", "10.9.9.9")
	assert.Equal(t, http.StatusForbidden, serve(h, r), "proxy headers are ignored unless trusted")

	trusted := AllowOnlyCIDRS([]string{"10.0.0.0/8"}, true, logger.Nop())(ok)
	assert.Equal(t, http.StatusNoContent, serve(trusted, r))
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(RateLimitConfig{Burst: 2, RefillPerIPPerMin: 1})(ok)

	r := httptest.NewRequest(http.MethodGet, "/api/suggest", nil)
	r.RemoteAddr = "203.0.113.1:999"

	assert.Equal(t, http.StatusNoContent, serve(h, r))
	assert.Equal(t, http.StatusNoContent, serve(h, r))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	other := httptest.NewRequest(http.MethodGet, "/api/suggest", nil)
	other.RemoteAddr = "203.0.113.2:999"
	assert.Equal(t, http.StatusNoContent, serve(h, other), "buckets are per client")
}

func TestRateLimitDisabled(t *testing.T) {
	h := RateLimit(RateLimitConfig{})(ok)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for range 50 {
		assert.Equal(t, http.StatusNoContent, serve(h, r))
	}
}

func TestSameOrigin(t *testing.T) {
	h := SameOrigin(logger.Nop())(ok)

	tests := []struct {
		name    string
		method  string
		headers map[string]string
		want    int
	}{
		{"safe method from anywhere", http.MethodGet, map[string]string{"Sec-Fetch-Site": "cross-site"}, http.StatusNoContent},
		{"no browser headers", http.MethodPost, nil, http.StatusNoContent},
		{"same origin fetch", http.MethodPost, map[string]string{"Sec-Fetch-Site": "same-origin"}, http.StatusNoContent},
		{"typed by the user", http.MethodPost, map[string]string{"Sec-Fetch-Site": "none"}, http.StatusNoContent},
		{"cross site fetch", http.MethodPost, map[string]string{"Sec-Fetch-Site": "cross-site"}, http.StatusForbidden},
		{"same site subdomain", http.MethodDelete, map[string]string{"Sec-Fetch-Site": "same-site"}, http.StatusForbidden},
		{"matching origin", http.MethodPut, map[string]string{"Origin": "http://start.lan:8080"}, http.StatusNoContent},
		{"foreign origin", http.MethodPost, map[string]string{"Origin": "https://attacker.example"}, http.StatusForbidden},
		{"opaque origin", http.MethodPost, map[string]string{"Origin": "null"}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, "/api/pins", nil)
			r.Host = "start.lan:8080"
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, serve(h, r))
		})
	}
}
