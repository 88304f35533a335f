// Package app はアプリケーションの起動、依存関係のワイヤリング、
// グレースフルシャットダウンを提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vstrvlno/tenderubot2/internal/bot"
	"github.com/vstrvlno/tenderubot2/internal/config"
	"github.com/vstrvlno/tenderubot2/internal/database"
	"github.com/vstrvlno/tenderubot2/internal/handler"
	"github.com/vstrvlno/tenderubot2/internal/logger"
	"github.com/vstrvlno/tenderubot2/internal/metrics"
	"github.com/vstrvlno/tenderubot2/internal/middleware"
	"github.com/vstrvlno/tenderubot2/internal/notify"
	"github.com/vstrvlno/tenderubot2/internal/repository"
	"github.com/vstrvlno/tenderubot2/internal/security"
	"github.com/vstrvlno/tenderubot2/internal/source"
	"github.com/vstrvlno/tenderubot2/internal/subscription"
	"github.com/vstrvlno/tenderubot2/internal/tender"
	fetchpkg "github.com/vstrvlno/tenderubot2/internal/worker/fetch"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

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
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はボット、取得ワーカー、HTTPサーバーを1プロセスで起動する。
// DB接続を開き、全依存関係をワイヤリングし、
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	tenderRepo := repository.NewPostgresTenderRepo(db)
	subRepo := repository.NewPostgresSubscriptionRepo(db)

	// 3. セキュリティサービスの初期化
	sourceGuard := security.NewSourceGuard()
	sanitizer := security.NewTextSanitizer()

	// 4. ドメインサービスの初期化
	storeService := tender.NewStoreService(tenderRepo, sanitizer)
	statsService := tender.NewStatsService(tenderRepo, subRepo)
	queryService := tender.NewQueryService(tenderRepo)
	subService := subscription.NewService(subRepo)

	// 5. ソース設定の読み込み
	sources, err := source.LoadSources(cfg.SourcesPath)
	if err != nil {
		return fmt.Errorf("failed to load sources: %w", err)
	}
	slog.Info("sources loaded",
		slog.String("path", cfg.SourcesPath),
		slog.Int("count", len(sources)),
	)

	// 6. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 7. Telegram APIと通知の初期化
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return fmt.Errorf("failed to create telegram bot api: %w", err)
	}
	slog.Info("telegram bot authorized", slog.String("username", api.Self.UserName))

	sender := bot.NewTelegramSender(api)
	notifier := notify.NewNotifier(sender, slog.Default(), cfg.NotifyLimitPerUser, cfg.NotifyRate)

	// 8. 取得パイプラインの初期化
	fetcher := fetchpkg.NewSourceFetcher(sourceGuard, slog.Default(), cfg.FetchTimeout, cfg.FetchMaxSize)
	orchestrator := fetchpkg.NewOrchestrator(fetcher, slog.Default(), cfg.FetchMaxConcurrent, cfg.SourceLimit)
	pipeline := fetchpkg.NewPipeline(
		sources, orchestrator, storeService, subService, notifier, collector, slog.Default(),
	)
	scheduler := fetchpkg.NewScheduler(pipeline, slog.Default(), cfg.PollInterval, cfg.StartupDelay)

	// 9. ボットの初期化
	tgBot := bot.New(api, subService, statsService, pipeline, slog.Default())

	// 10. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(middleware.NewRateLimiterConfig(cfg.RateLimitTrigger))
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:         slog.Default(),
		RateLimiter:    rateLimiter,
		HealthChecker:  db,
		MetricsHandler: metrics.Handler(registry),
		StatsService:   statsService,
		TenderQuery:    queryService,
		FetchTrigger:   pipeline,
	})

	// 11. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// 取得スケジューラをバックグラウンドで起動
	go scheduler.Start(ctx)

	// Telegramボットの受信をバックグラウンドで起動
	go tgBot.Run(ctx)

	go func() {
		slog.Info("HTTP server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
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

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
