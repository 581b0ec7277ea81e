package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

// requestFrom は指定クライアントアドレスからのリクエストを生成する。
func requestFrom(method, path, remoteAddr string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = remoteAddr
	return req
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// --- GeneralMiddleware (API全般) のテスト ---

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     2, // 2 req/sec
		GeneralBurst:    5,
		SubmitRate:      1,
		SubmitBurst:     10,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	handlerCallCount := 0
	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCallCount++
		w.WriteHeader(http.StatusOK)
	}))

	// バースト内の5リクエストは全て通る
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestFrom(http.MethodGet, "/api/quotes", "192.0.2.1:1234"))
		if w.Code != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i, w.Code, http.StatusOK)
		}
	}

	if handlerCallCount != 5 {
		t.Errorf("handler call count = %d, want 5", handlerCallCount)
	}
}

func TestRateLimitMiddleware_Returns429WithRetryAfter(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     0.5, // 2秒で1トークン
		GeneralBurst:    1,
		SubmitRate:      1,
		SubmitBurst:     1,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom(http.MethodGet, "/api/tips", "192.0.2.2:1000"))
	if w.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want %d", w.Code, http.StatusOK)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom(http.MethodGet, "/api/tips", "192.0.2.2:1000"))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	if got := w.Header().Get("Retry-After"); got != strconv.Itoa(2) {
		t.Errorf("Retry-After = %q, want %q", got, "2")
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("code = %q, want %q", body.Code, "RATE_LIMIT_EXCEEDED")
	}
	if body.Category != "system" {
		t.Errorf("category = %q, want %q", body.Category, "system")
	}
}

func TestRateLimitMiddleware_IndependentPerClient(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     0.01,
		GeneralBurst:    1,
		SubmitRate:      0.01,
		SubmitBurst:     1,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	// 同じIPはポートが違っても同じクライアントとして扱う
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom(http.MethodGet, "/", "198.51.100.1:1111"))
	if w.Code != http.StatusOK {
		t.Fatalf("client A first: status = %d", w.Code)
	}
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom(http.MethodGet, "/", "198.51.100.1:2222"))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("client A second: status = %d, want 429", w.Code)
	}

	// 別クライアントは影響を受けない
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom(http.MethodGet, "/", "198.51.100.2:1111"))
	if w.Code != http.StatusOK {
		t.Errorf("client B: status = %d, want 200", w.Code)
	}

	if got := rl.GeneralLimiterCount(); got != 2 {
		t.Errorf("GeneralLimiterCount = %d, want 2", got)
	}
}

// --- SubmitMiddleware (投稿系) のテスト ---

func TestSubmitMiddleware_IndependentFromGeneral(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     100,
		GeneralBurst:    100,
		SubmitRate:      0.01,
		SubmitBurst:     1,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	general := rl.GeneralMiddleware()(okHandler())
	submit := rl.SubmitMiddleware()(okHandler())
	const addr = "203.0.113.5:5000"

	w := httptest.NewRecorder()
	submit.ServeHTTP(w, requestFrom(http.MethodPost, "/api/contact", addr))
	if w.Code != http.StatusOK {
		t.Fatalf("first submit: status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	submit.ServeHTTP(w, requestFrom(http.MethodPost, "/api/contact", addr))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second submit: status = %d, want 429", w.Code)
	}

	// 投稿系の制限に達しても一般APIは通る
	w = httptest.NewRecorder()
	general.ServeHTTP(w, requestFrom(http.MethodGet, "/api/quotes", addr))
	if w.Code != http.StatusOK {
		t.Errorf("general after submit limit: status = %d, want 200", w.Code)
	}

	if got := rl.SubmitLimiterCount(); got != 1 {
		t.Errorf("SubmitLimiterCount = %d, want 1", got)
	}
}

// --- 設定とクリーンアップのテスト ---

func TestNewRateLimiterConfig_PerMinute(t *testing.T) {
	cfg := NewRateLimiterConfig(120, 10)

	if cfg.GeneralRate != 2 {
		t.Errorf("GeneralRate = %v, want 2", cfg.GeneralRate)
	}
	if cfg.GeneralBurst != 120 {
		t.Errorf("GeneralBurst = %d, want 120", cfg.GeneralBurst)
	}
	if cfg.SubmitBurst != 10 {
		t.Errorf("SubmitBurst = %d, want 10", cfg.SubmitBurst)
	}
	if cfg.CleanupInterval != 5*time.Minute {
		t.Errorf("CleanupInterval = %v, want 5m", cfg.CleanupInterval)
	}
	if DefaultRateLimiterConfig() != cfg {
		t.Error("DefaultRateLimiterConfig should equal NewRateLimiterConfig(120, 10)")
	}
}

func TestRateLimiter_CleanupRemovesStaleEntries(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    1,
		SubmitRate:      1,
		SubmitBurst:     1,
		CleanupInterval: time.Hour,
	})
	defer rl.Stop()

	rl.GeneralMiddleware()(okHandler()).ServeHTTP(httptest.NewRecorder(), requestFrom(http.MethodGet, "/", "192.0.2.10:1"))
	rl.SubmitMiddleware()(okHandler()).ServeHTTP(httptest.NewRecorder(), requestFrom(http.MethodPost, "/", "192.0.2.10:1"))

	// TTL内ならエントリは残る
	rl.cleanup(time.Now().Add(time.Hour))
	if rl.GeneralLimiterCount() != 1 || rl.SubmitLimiterCount() != 1 {
		t.Fatalf("entries removed too early: general=%d submit=%d", rl.GeneralLimiterCount(), rl.SubmitLimiterCount())
	}

	// TTL（CleanupIntervalの2倍）を超えると削除される
	rl.cleanup(time.Now().Add(3 * time.Hour))
	if rl.GeneralLimiterCount() != 0 || rl.SubmitLimiterCount() != 0 {
		t.Errorf("stale entries remain: general=%d submit=%d", rl.GeneralLimiterCount(), rl.SubmitLimiterCount())
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	rl.Stop()
	rl.Stop()
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		remoteAddr string
		want       string
	}{
		{"192.0.2.1:8080", "192.0.2.1"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		// RealIPミドルウェアがポートなしのアドレスを設定した場合
		{"203.0.113.9", "203.0.113.9"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remoteAddr
		if got := clientKey(req); got != tt.want {
			t.Errorf("clientKey(%q) = %q, want %q", tt.remoteAddr, got, tt.want)
		}
	}
}
