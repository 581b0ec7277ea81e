package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// findMetric は名前とラベルが一致するメトリクスを返す。
func findMetric(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) *dto.Metric {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelsMatch(m, labels) {
				return m
			}
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return nil
}

func labelsMatch(m *dto.Metric, want map[string]string) bool {
	got := make(map[string]string, len(m.GetLabel()))
	for _, l := range m.GetLabel() {
		got[l.GetName()] = l.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	if c := NewCollector(reg); c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestNewCollector_DoubleRegistrationPanics は同じレジストリへの二重登録がpanicすることを検証する。
func TestNewCollector_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = NewCollector(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	_ = NewCollector(reg)
}

// TestRecordHTTPRequest_CountsByRouteAndStatus はルートとステータス別に集計されることを検証する。
func TestRecordHTTPRequest_CountsByRouteAndStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest(http.MethodGet, "/api/quotes/{id}", 200, 10*time.Millisecond)
	c.RecordHTTPRequest(http.MethodGet, "/api/quotes/{id}", 200, 20*time.Millisecond)
	c.RecordHTTPRequest(http.MethodGet, "/api/quotes/{id}", 404, 5*time.Millisecond)

	ok := findMetric(t, reg, "soulelevate_http_requests_total", map[string]string{
		"method": "GET", "route": "/api/quotes/{id}", "status_code": "200",
	})
	if got := ok.GetCounter().GetValue(); got != 2 {
		t.Errorf("200 count = %v, want 2", got)
	}

	notFound := findMetric(t, reg, "soulelevate_http_requests_total", map[string]string{
		"status_code": "404",
	})
	if got := notFound.GetCounter().GetValue(); got != 1 {
		t.Errorf("404 count = %v, want 1", got)
	}

	latency := findMetric(t, reg, "soulelevate_http_request_duration_seconds", map[string]string{
		"method": "GET", "route": "/api/quotes/{id}",
	})
	if got := latency.GetHistogram().GetSampleCount(); got != 3 {
		t.Errorf("latency sample count = %d, want 3", got)
	}
}

// TestRecordStoreError_IncrementsCounter はストレージ失敗カウンタが増加することを検証する。
func TestRecordStoreError_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordStoreError("create", "quote")
	c.RecordStoreError("create", "quote")
	c.RecordStoreError("list", "tip")

	m := findMetric(t, reg, "soulelevate_store_errors_total", map[string]string{"op": "create", "entity": "quote"})
	if got := m.GetCounter().GetValue(); got != 2 {
		t.Errorf("store_errors_total{create,quote} = %v, want 2", got)
	}
}

// TestRecordChallengeGenerated_IncrementsCounter は生成カウンタがラベル付きで増加することを検証する。
func TestRecordChallengeGenerated_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordChallengeGenerated("Health", "Hard")

	m := findMetric(t, reg, "soulelevate_challenges_generated_total", map[string]string{"category": "Health", "difficulty": "Hard"})
	if got := m.GetCounter().GetValue(); got != 1 {
		t.Errorf("challenges_generated_total = %v, want 1", got)
	}
}

// TestHandler_ServesMetrics はハンドラーがテキスト形式でメトリクスを返すことを検証する。
func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordStoreError("update", "media")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "soulelevate_store_errors_total") {
		t.Error("response should contain soulelevate_store_errors_total metric")
	}
}

// TestNop_ImplementsCollector はNopがインターフェースを満たすことを検証する。
func TestNop_ImplementsCollector(t *testing.T) {
	var c MetricsCollector = Nop{}
	c.RecordHTTPRequest(http.MethodGet, "/", 200, time.Millisecond)
	c.RecordStoreError("get", "quote")
	c.RecordChallengeGenerated("Health", "Easy")
}

var _ MetricsCollector = (*Collector)(nil)
