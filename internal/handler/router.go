package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/soulelevate/internal/metrics"
	"github.com/hitoshi/soulelevate/internal/middleware"
	"github.com/hitoshi/soulelevate/internal/security"
	"github.com/hitoshi/soulelevate/internal/storage"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ストレージ（起動時に選択された1つの実装）
	Storage storage.Storage
	Backend string

	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	// 必須。クリーンアップのgoroutineを止めるため呼び出し側がStopする
	RateLimiter       *middleware.RateLimiter
	RequestTimeout    time.Duration

	// メトリクス。Gathererがnilの場合は/metricsを公開しない
	Metrics  metrics.MetricsCollector
	Gatherer prometheus.Gatherer

	// 自由記述のサニタイズ
	Sanitizer security.TextSanitizer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → RequestID → Logging → SecurityHeaders → CORS → RealIP
//	→ (/api以下) RateLimit(General) → Timeout → Metrics
//
// /healthと/metricsはレート制限の外に配置する。
// deps.RateLimiterがnilの場合はpanicする。
func NewRouter(deps *RouterDeps) http.Handler {
	if deps.RateLimiter == nil {
		panic("handler: RouterDeps.RateLimiter is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.Nop{}
	}
	sanitizer := deps.Sanitizer
	if sanitizer == nil {
		sanitizer = security.NewTextSanitizer()
	}
	rl := deps.RateLimiter

	r := chi.NewRouter()
	r.Use(middleware.NewRecoveryMiddleware(logger))
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(chimw.RealIP)

	quoteHandler := NewQuoteHandler(deps.Storage, logger, collector)
	tipHandler := NewTipHandler(deps.Storage, logger, collector)
	mediaHandler := NewMediaHandler(deps.Storage, logger, collector)
	contactHandler := NewContactHandler(deps.Storage, deps.Storage, sanitizer, logger, collector)
	challengeHandler := NewChallengeHandler(deps.Storage, sanitizer, logger, collector)

	// --- 運用エンドポイント ---
	r.Get("/health", NewHealthHandler(deps.Storage, deps.Backend, logger))
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- API ---
	// ミドルウェアスタック: RateLimit(General) → Timeout → Metrics
	r.Route("/api", func(r chi.Router) {
		r.Use(rl.GeneralMiddleware())
		if deps.RequestTimeout > 0 {
			r.Use(chimw.Timeout(deps.RequestTimeout))
		}
		r.Use(middleware.NewMetricsMiddleware(collector))

		submit := rl.SubmitMiddleware()

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", quoteHandler.List)
			r.Post("/", quoteHandler.Create)
			r.Get("/featured", quoteHandler.Featured)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", quoteHandler.Get)
				r.Put("/", quoteHandler.Update)
				r.Delete("/", quoteHandler.Delete)
			})
		})

		r.Route("/tips", func(r chi.Router) {
			r.Get("/", tipHandler.List)
			r.Post("/", tipHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", tipHandler.Get)
				r.Put("/", tipHandler.Update)
				r.Delete("/", tipHandler.Delete)
			})
		})

		r.Route("/media", func(r chi.Router) {
			r.Get("/", mediaHandler.List)
			r.Post("/", mediaHandler.Create)
			r.Get("/featured/{type}", mediaHandler.Featured)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", mediaHandler.Get)
				r.Put("/", mediaHandler.Update)
				r.Delete("/", mediaHandler.Delete)
			})
		})

		// 投稿系は専用のレート制限を追加する
		r.With(submit).Post("/contact", contactHandler.Contact)
		r.With(submit).Post("/subscribe", contactHandler.Subscribe)

		r.Route("/challenges", func(r chi.Router) {
			r.Get("/", challengeHandler.List)
			r.Post("/", challengeHandler.Create)
			r.With(submit).Post("/generate", challengeHandler.Generate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", challengeHandler.Get)
				r.Put("/", challengeHandler.Update)
				r.Delete("/", challengeHandler.Delete)
			})
		})
	})

	return r
}
