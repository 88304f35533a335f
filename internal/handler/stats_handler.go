package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vstrvlno/tenderubot2/internal/model"
)

// StatsServiceInterface は統計ハンドラーが必要とするサービスインターフェース。
type StatsServiceInterface interface {
	// Stats は蓄積済みテンダー数と購読者数を取得する。
	Stats(ctx context.Context) (*model.Stats, error)
}

// StatsHandler は統計情報のHTTPハンドラー。
type StatsHandler struct {
	service StatsServiceInterface
}

// NewStatsHandler はStatsHandlerを生成する。
func NewStatsHandler(service StatsServiceInterface) *StatsHandler {
	return &StatsHandler{service: service}
}

// statsResponse は統計情報のAPIレスポンス。
type statsResponse struct {
	TenderCount     int `json:"tender_count"`
	SubscriberCount int `json:"subscriber_count"`
}

// errorResponse は統一エラーフォーマットのレスポンス。
type errorResponse struct {
	Error string `json:"error"`
}

// GetStats は統計情報を返す。
// GET /api/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		slog.Error("統計情報の取得に失敗しました", slog.String("error", err.Error()))
		writeErrorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statsResponse{
		TenderCount:     stats.TenderCount,
		SubscriberCount: stats.SubscriberCount,
	})
}

// writeErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}
