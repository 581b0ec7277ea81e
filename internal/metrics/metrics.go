// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// HTTPミドルウェアとハンドラー層から利用する。
type MetricsCollector interface {
	RecordHTTPRequest(method, route string, statusCode int, duration time.Duration)
	RecordStoreError(op, entity string)
	RecordChallengeGenerated(category, difficulty string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpRequests        *prometheus.CounterVec
	httpLatency         *prometheus.HistogramVec
	storeErrors         *prometheus.CounterVec
	challengesGenerated *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "soulelevate_http_requests_total",
			Help: "ルートとステータスコード別のHTTPリクエスト数",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "soulelevate_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "soulelevate_store_errors_total",
			Help: "ストレージ操作の失敗数",
		}, []string{"op", "entity"}),
		challengesGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "soulelevate_challenges_generated_total",
			Help: "生成されたパーソナライズドチャレンジの数",
		}, []string{"category", "difficulty"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.storeErrors,
		c.challengesGenerated,
	)

	return c
}

// RecordHTTPRequest はHTTPリクエストの件数と処理時間を記録する。
// routeにはパスそのものではなくルートパターンを渡すこと。
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordStoreError はストレージ操作の失敗を記録する。
func (c *Collector) RecordStoreError(op, entity string) {
	c.storeErrors.WithLabelValues(op, entity).Inc()
}

// RecordChallengeGenerated はパーソナライズドチャレンジの生成を記録する。
func (c *Collector) RecordChallengeGenerated(category, difficulty string) {
	c.challengesGenerated.WithLabelValues(category, difficulty).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop は何も記録しないMetricsCollector。メトリクスを使わないテストで利用する。
type Nop struct{}

func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
func (Nop) RecordStoreError(string, string)                      {}
func (Nop) RecordChallengeGenerated(string, string)              {}
