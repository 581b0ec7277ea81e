package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// recordedRequest はmockCollectorが受け取った記録。
type recordedRequest struct {
	method string
	route  string
	status int
}

// mockCollector はMetricsCollectorのテスト用実装。
type mockCollector struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (m *mockCollector) RecordHTTPRequest(method, route string, statusCode int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, recordedRequest{method: method, route: route, status: statusCode})
}

func (m *mockCollector) RecordStoreError(string, string)         {}
func (m *mockCollector) RecordChallengeGenerated(string, string) {}

// TestRecoveryMiddleware_Returns500OnPanic はpanicを500の統一エラーに変換することを検証する。
func TestRecoveryMiddleware_Returns500OnPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := NewRecoveryMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quotes", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != "INTERNAL_ERROR" {
		t.Errorf("code = %q, want INTERNAL_ERROR", body.Code)
	}
	if !bytes.Contains(buf.Bytes(), []byte("panic recovered")) {
		t.Errorf("panic was not logged: %s", buf.String())
	}
}

// TestSecurityHeadersMiddleware_SetsHeaders はJSON API向けのセキュリティヘッダーが付与されることを検証する。
func TestSecurityHeadersMiddleware_SetsHeaders(t *testing.T) {
	handler := NewSecurityHeadersMiddleware()(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quotes", nil))

	for header, want := range map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
		"Referrer-Policy":         "no-referrer",
	} {
		if got := w.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	// 参照系の応答はキャッシュを禁止しない
	if got := w.Header().Get("Cache-Control"); got != "" {
		t.Errorf("GET Cache-Control = %q, want empty", got)
	}
}

// TestSecurityHeadersMiddleware_NoStoreOnWrites は更新系の応答にno-storeが付くことを検証する。
func TestSecurityHeadersMiddleware_NoStoreOnWrites(t *testing.T) {
	handler := NewSecurityHeadersMiddleware()(okHandler())

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(method, "/api/quotes/1", nil))
		if got := w.Header().Get("Cache-Control"); got != "no-store" {
			t.Errorf("%s Cache-Control = %q, want no-store", method, got)
		}
	}
}

// TestMetricsMiddleware_UsesRoutePattern はルートパターンをラベルとして記録することを検証する。
func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	collector := &mockCollector{}

	r := chi.NewRouter()
	r.Use(NewMetricsMiddleware(collector))
	r.Get("/api/quotes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/quotes/42", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if len(collector.requests) != 2 {
		t.Fatalf("recorded %d requests, want 2", len(collector.requests))
	}
	first := collector.requests[0]
	if first.route != "/api/quotes/{id}" || first.status != http.StatusNotFound || first.method != http.MethodGet {
		t.Errorf("first record = %+v", first)
	}
	if got := collector.requests[1].route; got != unmatchedRoute {
		t.Errorf("unmatched route label = %q, want %q", got, unmatchedRoute)
	}
}

// TestMiddlewareChain_FullStack はミドルウェアチェーン全体がchi.Routerで協調動作することを検証する。
func TestMiddlewareChain_FullStack(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	collector := &mockCollector{}
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     0.01,
		GeneralBurst:    1,
		SubmitRate:      0.01,
		SubmitBurst:     1,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	r := chi.NewRouter()
	r.Use(NewRecoveryMiddleware(logger))
	r.Use(NewRequestIDMiddleware())
	r.Use(NewLoggingMiddleware(logger))
	r.Use(NewSecurityHeadersMiddleware())
	r.Use(NewCORSMiddleware("http://localhost:3000"))
	r.Use(rl.GeneralMiddleware())
	r.Use(NewMetricsMiddleware(collector))
	r.Get("/api/quotes", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// CORS -> RateLimit の順なのでプリフライトはレート制限を消費しない
	preflight := requestFrom(http.MethodOptions, "/api/quotes", "192.0.2.50:1")
	preflight.Header.Set("Origin", "http://localhost:3000")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, preflight)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, requestFrom(http.MethodGet, "/api/quotes", "192.0.2.50:1"))
	if w.Code != http.StatusOK {
		t.Fatalf("first GET status = %d, want 200", w.Code)
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("expected X-Request-ID header")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers")
	}

	limited := requestFrom(http.MethodGet, "/api/quotes", "192.0.2.50:1")
	limited.Header.Set("Origin", "http://localhost:3000")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, limited)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second GET status = %d, want 429", w.Code)
	}
	// CORSヘッダーは429にも付与される
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Error("expected CORS header on rate-limited response")
	}

	// レート制限で弾かれたリクエストはメトリクスに到達しない
	if len(collector.requests) != 1 {
		t.Errorf("metrics recorded %d requests, want 1", len(collector.requests))
	}
}
