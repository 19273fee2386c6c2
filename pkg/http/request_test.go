package http

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractClientAddrs_DirectConnection(t *testing.T) {
	req := httptest.NewRequest("POST", "/system/login", nil)
	req.RemoteAddr = "203.0.113.7:51234"

	addrs := ExtractClientAddrs(req)

	assert.Equal(t, "203.0.113.7", addrs.RemoteIP)
	assert.Empty(t, addrs.ProxyIP)
	assert.Equal(t, "203.0.113.7", addrs.ClientIP())
}

func TestExtractClientAddrs_ForwardedFor(t *testing.T) {
	req := httptest.NewRequest("POST", "/system/login", nil)
	req.RemoteAddr = "10.0.0.5:443"
	req.Header.Set("X-Forwarded-For", "198.51.100.9, 10.0.0.5")

	addrs := ExtractClientAddrs(req)

	assert.Equal(t, "10.0.0.5", addrs.RemoteIP)
	assert.Equal(t, "198.51.100.9", addrs.ProxyIP)
	assert.Equal(t, "198.51.100.9", addrs.ClientIP())
}

func TestExtractClientAddrs_RealIPFallback(t *testing.T) {
	req := httptest.NewRequest("POST", "/system/login", nil)
	req.RemoteAddr = "10.0.0.5:443"
	req.Header.Set("X-Real-IP", "198.51.100.10")

	addrs := ExtractClientAddrs(req)

	assert.Equal(t, "198.51.100.10", addrs.ProxyIP)
}

func TestExtractClientAddrs_InvalidForwardedEntriesSkipped(t *testing.T) {
	req := httptest.NewRequest("POST", "/system/login", nil)
	req.RemoteAddr = "10.0.0.5:443"
	req.Header.Set("X-Forwarded-For", "not-an-ip, 198.51.100.11")

	addrs := ExtractClientAddrs(req)

	assert.Equal(t, "198.51.100.11", addrs.ProxyIP)
}

func TestWriteLocked_SetsRetryAfterHeader(t *testing.T) {
	w := httptest.NewRecorder()
	WriteLocked(w, "Account temporarily locked. Try again in 2 minutes.", 120)

	assert.Equal(t, StatusLocked, w.Code)
	assert.Equal(t, "120", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "account_locked")
}
