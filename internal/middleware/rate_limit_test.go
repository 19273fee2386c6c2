package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dextersy/label-dashboard/internal/auth"
	"github.com/dextersy/label-dashboard/internal/models"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithClaims(userID string) *http.Request {
	req := httptest.NewRequest("POST", "/test", nil)
	claims := &models.TokenClaims{UserID: userID, Scope: models.ScopeSystem}
	return req.WithContext(context.WithValue(req.Context(), auth.UserContextKey, claims))
}

func TestRateLimitByIP_EnforcesLimit(t *testing.T) {
	handler := RateLimitByIP(RateLimitConfig{RequestsPerMinute: 3})(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/system/login", nil)
		req.RemoteAddr = "192.0.2.1:45678"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Errorf("request %d failed with status %d, expected 200", i+1, recorder.Code)
		}
	}

	req := httptest.NewRequest("POST", "/system/login", nil)
	req.RemoteAddr = "192.0.2.1:45678"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusTooManyRequests {
		t.Errorf("expected status %d, got %d", http.StatusTooManyRequests, recorder.Code)
	}
}

func TestRateLimitByIP_IsolatesSources(t *testing.T) {
	handler := RateLimitByIP(RateLimitConfig{RequestsPerMinute: 1})(okHandler())

	first := httptest.NewRequest("POST", "/system/login", nil)
	first.RemoteAddr = "192.0.2.10:1000"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, first)
	if recorder.Code != http.StatusOK {
		t.Fatalf("first source request failed with status %d", recorder.Code)
	}

	// A different source IP gets its own bucket
	second := httptest.NewRequest("POST", "/system/login", nil)
	second.RemoteAddr = "192.0.2.20:1000"
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, second)
	if recorder.Code != http.StatusOK {
		t.Errorf("second source should have an independent limit, got status %d", recorder.Code)
	}
}

func TestRateLimitByUser_KeysOnUserID(t *testing.T) {
	handler := RateLimitByUser(RateLimitConfig{RequestsPerMinute: 2})(okHandler())

	for i := 0; i < 2; i++ {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, requestWithClaims("user-a"))
		if recorder.Code != http.StatusOK {
			t.Errorf("request %d failed with status %d", i+1, recorder.Code)
		}
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, requestWithClaims("user-a"))
	if recorder.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 for user-a, got %d", recorder.Code)
	}

	// Another user is unaffected
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, requestWithClaims("user-b"))
	if recorder.Code != http.StatusOK {
		t.Errorf("user-b should have an independent limit, got %d", recorder.Code)
	}
}

func TestRateLimit_ResponseFormat(t *testing.T) {
	handler := RateLimitByUser(RateLimitConfig{RequestsPerMinute: 1})(okHandler())

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, requestWithClaims("user-fmt"))
	if recorder.Code != http.StatusOK {
		t.Fatalf("first request failed with status %d", recorder.Code)
	}

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, requestWithClaims("user-fmt"))

	if recorder.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", recorder.Code)
	}
	if contentType := recorder.Header().Get("Content-Type"); contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}
	if body := strings.TrimSpace(recorder.Body.String()); body != `{"error":"rate_limit_exceeded","message":"Too many requests"}` {
		t.Errorf("unexpected response body: %s", body)
	}
}

func TestRateLimitByUser_FallsBackToIP(t *testing.T) {
	handler := RateLimitByUser(RateLimitConfig{RequestsPerMinute: 100})(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "192.0.2.30:1000"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", recorder.Code)
	}
}
