package handler

import (
	"context"
	"encoding/json"
	"net/http"
)

// HealthChecker はヘルスチェックのためのインターフェース。
// *sql.DB がそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// StatusHandler はルートページとヘルスチェックのHTTPハンドラー。
type StatusHandler struct {
	checker HealthChecker
}

// NewStatusHandler はStatusHandlerを生成する。
func NewStatusHandler(checker HealthChecker) *StatusHandler {
	return &StatusHandler{checker: checker}
}

// Root は稼働確認用のルートページを返す。
// GET /
func (h *StatusHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("TenderuBot is running ✅"))
}

// healthResponse はヘルスチェックのレスポンス。
type healthResponse struct {
	Status string `json:"status"`
}

// Health はDB接続を確認してヘルス状態を返す。
// GET /health
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.checker.PingContext(r.Context()); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(healthResponse{Status: "unavailable"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(healthResponse{Status: "ok"})
}
