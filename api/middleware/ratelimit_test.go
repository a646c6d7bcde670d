package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type stubLimiter struct {
	count  int64
	limit  int64
	err    error
	scopes []string
}

func (s *stubLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	s.scopes = append(s.scopes, scope)
	if s.err != nil {
		return false, 0, s.err
	}
	s.count++
	return s.count <= limit, s.count, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitAllowsUnderLimit(t *testing.T) {
	limiter := &stubLimiter{}
	handler := RateLimit(NewRateLimitPolicy("ai", time.Minute, 2), limiter, nil)(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithUserID(req.Context(), "user-1"))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i+1, resp.Code)
		}
	}
	if limiter.scopes[0] != "ai:user-1" {
		t.Fatalf("expected user-scoped key, got %q", limiter.scopes[0])
	}
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	limiter := &stubLimiter{count: 2}
	handler := RateLimit(NewRateLimitPolicy("ai", time.Minute, 2), limiter, nil)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), "user-1"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	limiter := &stubLimiter{}
	handler := RateLimit(NewRateLimitPolicy("ai", time.Minute, 5), limiter, nil)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.9, 172.16.0.1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if limiter.scopes[0] != "ai:10.0.0.9" {
		t.Fatalf("expected ip-scoped key, got %q", limiter.scopes[0])
	}
}

func TestRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	handler := RateLimit(NewRateLimitPolicy("ai", 0, 0), &stubLimiter{}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
