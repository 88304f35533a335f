package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vstrvlno/tenderubot2/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger      *slog.Logger
	RateLimiter *middleware.RateLimiter

	// ヘルスチェック
	HealthChecker HealthChecker

	// メトリクス
	MetricsHandler http.Handler

	// 統計
	StatsService StatsServiceInterface

	// テンダー一覧
	TenderQuery TenderQueryInterface

	// オンデマンド取得
	FetchTrigger FetchTriggerInterface
}

// NewRouter は全HTTPエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RecoveryMiddleware → LoggingMiddleware
//
// POST /api/fetch にはIP単位のトリガーレート制限を追加で適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	statusHandler := NewStatusHandler(deps.HealthChecker)
	statsHandler := NewStatsHandler(deps.StatsService)
	tenderHandler := NewTenderHandler(deps.TenderQuery)
	fetchHandler := NewFetchHandler(deps.FetchTrigger)

	// 稼働確認
	r.Get("/", statusHandler.Root)
	r.Get("/health", statusHandler.Health)

	// Prometheusメトリクス
	r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", statsHandler.GetStats)
		r.Get("/tenders", tenderHandler.ListRecent)

		// POST /api/fetch - オンデマンド取得（トリガー専用レート制限を追加）
		r.With(deps.RateLimiter.TriggerMiddleware()).Post("/fetch", fetchHandler.TriggerFetch)
	})

	return r
}
