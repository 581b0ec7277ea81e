package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/soulelevate/internal/config"
	"github.com/hitoshi/soulelevate/internal/database"
	"github.com/hitoshi/soulelevate/internal/handler"
	"github.com/hitoshi/soulelevate/internal/logger"
	"github.com/hitoshi/soulelevate/internal/metrics"
	"github.com/hitoshi/soulelevate/internal/middleware"
	"github.com/hitoshi/soulelevate/internal/security"
	"github.com/hitoshi/soulelevate/internal/storage"
	"github.com/hitoshi/soulelevate/internal/storage/memory"
	mongostore "github.com/hitoshi/soulelevate/internal/storage/mongo"
	"github.com/hitoshi/soulelevate/internal/storage/postgres"
	"github.com/hitoshi/soulelevate/internal/storage/seed"
)

// connectTimeout は起動時のバックエンド接続1回あたりに許容する時間。
const connectTimeout = 15 * time.Second

// Init はアプリケーションの初期化を行う。
// JSON構造化ログをセットアップしてから環境変数の設定を読み込み、LOG_LEVELを反映する。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	level := logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. ログレベルの反映（Validate済みのためエラーにはならない）
	lv, _ := cfg.Level()
	level.Set(lv)

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("backend", cfg.StorageBackend),
		slog.String("port", cfg.ServerPort),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case CommandSeed:
		return runSeed(ctx, cfg)
	case CommandMigrate:
		return runMigrate(ctx, cfg)
	default:
		return runServe(ctx, cfg)
	}
}

// NewStorage はSTORAGE_BACKENDに応じたストレージ実装を生成する。
// memoryは初期コンテンツ投入済みの状態で返す。
// 外部バックエンドへの接続はCONNECT_RETRIES回まで指数バックオフで再試行する。
func NewStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		return memory.New(), nil

	case config.BackendPostgres:
		var db *sql.DB
		err := connectWithRetry(ctx, logger, cfg.StorageBackend, cfg.ConnectRetries, func(ctx context.Context) error {
			connCtx, cancel := context.WithTimeout(ctx, connectTimeout)
			defer cancel()

			var err error
			db, err = database.Connect(connCtx, cfg.DatabaseURL, database.PoolConfig{
				MaxOpenConns:    cfg.DBMaxOpenConns,
				MaxIdleConns:    cfg.DBMaxIdleConns,
				ConnMaxLifetime: cfg.DBConnMaxLifetime,
			})
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("postgres storage unavailable: %w", err)
		}
		logger.Info("database connection established",
			slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
		)
		return postgres.New(db, logger), nil

	case config.BackendMongo:
		var store *mongostore.Store
		err := connectWithRetry(ctx, logger, cfg.StorageBackend, cfg.ConnectRetries, func(ctx context.Context) error {
			connCtx, cancel := context.WithTimeout(ctx, connectTimeout)
			defer cancel()

			var err error
			store, err = mongostore.Open(connCtx, cfg.MongoURI, cfg.MongoDatabase, logger)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("mongo storage unavailable: %w", err)
		}
		logger.Info("mongodb connection established",
			slog.String("mongo_uri", maskDatabaseURL(cfg.MongoURI)),
			slog.String("database", cfg.MongoDatabase),
		)
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}

// App はserveモードで組み立てた依存関係を保持する。
type App struct {
	Config   *config.Config
	Storage  storage.Storage
	Registry *prometheus.Registry
	Handler  http.Handler

	rateLimiter *middleware.RateLimiter
}

// New はストレージを開き、メトリクスとルーターをワイヤリングしたAppを返す。
// SEED_ON_STARTが有効な場合は初期コンテンツを投入する。
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := NewStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.SeedOnStart && cfg.StorageBackend != config.BackendMemory {
		res, err := seed.Apply(ctx, store)
		if err != nil {
			_ = store.Close(context.Background())
			return nil, fmt.Errorf("failed to seed storage: %w", err)
		}
		logSeedResult(logger, res)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	rl := middleware.NewRateLimiter(middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitSubmit))

	router := handler.NewRouter(&handler.RouterDeps{
		Storage:           store,
		Backend:           cfg.StorageBackend,
		Logger:            logger,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rl,
		RequestTimeout:    cfg.RequestTimeout,
		Metrics:           collector,
		Gatherer:          reg,
		Sanitizer:         security.NewTextSanitizer(),
	})

	return &App{
		Config:      cfg,
		Storage:     store,
		Registry:    reg,
		Handler:     router,
		rateLimiter: rl,
	}, nil
}

// Close はレート制限のクリーンアップを止め、ストレージの接続を解放する。
func (a *App) Close(ctx context.Context) error {
	a.rateLimiter.Stop()
	if err := a.Storage.Close(ctx); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	return nil
}

// runServe はAPIサーバーモードで起動する。
// ctxがキャンセルされるとグレースフルシャットダウンを行う。
func runServe(ctx context.Context, cfg *config.Config) error {
	log := slog.Default()

	a, err := New(ctx, cfg, log)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      a.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("API server starting",
			slog.String("addr", server.Addr),
			slog.String("backend", cfg.StorageBackend),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down API server...")
	case err := <-errCh:
		serveErr = fmt.Errorf("server listen error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := a.Close(shutdownCtx); err != nil {
		log.Error("failed to release resources", slog.String("error", err.Error()))
	}

	if serveErr != nil {
		return serveErr
	}
	log.Info("API server stopped gracefully")
	return nil
}

// runSeed は初期コンテンツを投入して終了する。
// 既にレコードがあるコレクションはスキップされる。
func runSeed(ctx context.Context, cfg *config.Config) error {
	log := slog.Default()

	store, err := NewStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	res, err := seed.Apply(ctx, store)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	logSeedResult(log, res)
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// postgresは未適用マイグレーションを順番に適用し、mongoはインデックスを作成する。
func runMigrate(ctx context.Context, cfg *config.Config) error {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		slog.Info("running database migrations",
			slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
		)
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		version, dirty, err := database.Version(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to read migration version: %w", err)
		}
		slog.Info("database migrations completed successfully",
			slog.Uint64("version", uint64(version)),
			slog.Bool("dirty", dirty),
		)
		return nil

	case config.BackendMongo:
		// Openがインデックスを作成する
		store, err := NewStorage(ctx, cfg, slog.Default())
		if err != nil {
			return err
		}
		slog.Info("mongodb indexes ensured", slog.String("database", cfg.MongoDatabase))
		return store.Close(context.Background())

	default:
		slog.Info("nothing to migrate", slog.String("backend", cfg.StorageBackend))
		return nil
	}
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

func logSeedResult(logger *slog.Logger, res seed.Result) {
	logger.Info("seed completed",
		slog.Int("quotes", res.Quotes),
		slog.Int("tips", res.Tips),
		slog.Int("media", res.Media),
		slog.Int("challenges", res.Challenges),
	)
}

// maskDatabaseURL は接続URLのパスワードとクエリを伏せる。
// 解析できない場合は全体を伏せる。
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "***"
	}
	u.RawQuery = ""
	return u.Redacted()
}
