package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/vstrvlno/tenderubot2/internal/logger"
	"github.com/vstrvlno/tenderubot2/internal/middleware"
	"github.com/vstrvlno/tenderubot2/internal/model"
	"github.com/vstrvlno/tenderubot2/internal/worker/fetch"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	var buf bytes.Buffer
	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		TriggerRate:     rate.Limit(100),
		TriggerBurst:    100,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(rl.Stop)

	return NewRouter(&RouterDeps{
		Logger:         logger.Setup(&buf),
		RateLimiter:    rl,
		HealthChecker:  &mockHealthChecker{},
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("# metrics")) }),
		StatsService: &mockStatsService{
			statsFn: func(ctx context.Context) (*model.Stats, error) {
				return &model.Stats{TenderCount: 1, SubscriberCount: 1}, nil
			},
		},
		TenderQuery: &mockTenderQuery{
			recentFn: func(ctx context.Context, limit int) ([]*model.Tender, error) {
				return nil, nil
			},
		},
		FetchTrigger: &mockFetchTrigger{
			runFn: func(ctx context.Context) (*fetch.CycleResult, error) {
				return &fetch.CycleResult{}, nil
			},
		},
	})
}

// 全エンドポイントがルーティングされていることを検証
func TestNewRouter_Routes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/stats", http.StatusOK},
		{http.MethodGet, "/api/tenders", http.StatusOK},
		{http.MethodPost, "/api/fetch", http.StatusOK},
		{http.MethodGet, "/unknown", http.StatusNotFound},
		{http.MethodDelete, "/api/stats", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		req.RemoteAddr = "203.0.113.1:50000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != tt.want {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, w.Code, tt.want)
		}
	}
}

// ルートページのボディが稼働確認メッセージであることを検証
func TestNewRouter_RootBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), "TenderuBot is running") {
		t.Errorf("body = %q, want running message", w.Body.String())
	}
}

// ハンドラーのpanicがリカバリーされ500が返ることを検証
func TestNewRouter_RecoversFromPanic(t *testing.T) {
	var buf bytes.Buffer
	rl := middleware.NewRateLimiter(middleware.NewRateLimiterConfig(10))
	defer rl.Stop()

	router := NewRouter(&RouterDeps{
		Logger:         logger.Setup(&buf),
		RateLimiter:    rl,
		HealthChecker:  &mockHealthChecker{},
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		StatsService: &mockStatsService{
			statsFn: func(ctx context.Context) (*model.Stats, error) {
				panic("stats exploded")
			},
		},
		TenderQuery: &mockTenderQuery{
			recentFn: func(ctx context.Context, limit int) ([]*model.Tender, error) {
				return nil, nil
			},
		},
		FetchTrigger: &mockFetchTrigger{
			runFn: func(ctx context.Context) (*fetch.CycleResult, error) {
				return &fetch.CycleResult{}, nil
			},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

// POST /api/fetch にトリガーレート制限が適用されることを検証
func TestNewRouter_FetchRateLimited(t *testing.T) {
	var buf bytes.Buffer
	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		TriggerRate:     rate.Limit(0.01),
		TriggerBurst:    1,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	router := NewRouter(&RouterDeps{
		Logger:         logger.Setup(&buf),
		RateLimiter:    rl,
		HealthChecker:  &mockHealthChecker{},
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		StatsService: &mockStatsService{
			statsFn: func(ctx context.Context) (*model.Stats, error) {
				return &model.Stats{}, nil
			},
		},
		TenderQuery: &mockTenderQuery{
			recentFn: func(ctx context.Context, limit int) ([]*model.Tender, error) {
				return nil, nil
			},
		},
		FetchTrigger: &mockFetchTrigger{
			runFn: func(ctx context.Context) (*fetch.CycleResult, error) {
				return &fetch.CycleResult{}, nil
			},
		},
	})

	first := httptest.NewRequest(http.MethodPost, "/api/fetch", nil)
	first.RemoteAddr = "203.0.113.1:50000"
	w1 := httptest.NewRecorder()
	router.ServeHTTP(w1, first)
	if w1.Code != http.StatusOK {
		t.Fatalf("first trigger status = %d, want 200", w1.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/api/fetch", nil)
	second.RemoteAddr = "203.0.113.1:50001"
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, second)
	if w2.Code != http.StatusTooManyRequests {
		t.Errorf("second trigger status = %d, want 429", w2.Code)
	}

	// レート制限はトリガーのみに効き、GETエンドポイントには影響しない
	stats := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	stats.RemoteAddr = "203.0.113.1:50002"
	w3 := httptest.NewRecorder()
	router.ServeHTTP(w3, stats)
	if w3.Code != http.StatusOK {
		t.Errorf("stats status = %d, want 200", w3.Code)
	}
}
