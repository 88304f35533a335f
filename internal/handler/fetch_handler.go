package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vstrvlno/tenderubot2/internal/model"
	"github.com/vstrvlno/tenderubot2/internal/worker/fetch"
)

// FetchTriggerInterface はオンデマンド取得ハンドラーが必要とするインターフェース。
// fetch.Pipeline がそのまま満たす。
type FetchTriggerInterface interface {
	// RunCycleOnce は取得サイクルを1回実行する。
	// 既にサイクルが実行中の場合はmodel.ErrCycleInProgressを返す。
	RunCycleOnce(ctx context.Context) (*fetch.CycleResult, error)
}

// FetchHandler はオンデマンド取得トリガーのHTTPハンドラー。
type FetchHandler struct {
	trigger FetchTriggerInterface
}

// NewFetchHandler はFetchHandlerを生成する。
func NewFetchHandler(trigger FetchTriggerInterface) *FetchHandler {
	return &FetchHandler{trigger: trigger}
}

// sourceReport はソースごとの取得結果。
type sourceReport struct {
	Source  string `json:"source"`
	Status  string `json:"status"`
	Fetched int    `json:"fetched"`
	Error   string `json:"error,omitempty"`
}

// fetchResponse はオンデマンド取得のAPIレスポンス。
type fetchResponse struct {
	Fetched       int            `json:"fetched"`
	New           int            `json:"new"`
	NotifiedUsers int            `json:"notified_users"`
	Sources       []sourceReport `json:"sources"`
}

// TriggerFetch は取得サイクルを即時実行する。
// サイクルが既に実行中の場合は409 Conflictを返す。
// POST /api/fetch
func (h *FetchHandler) TriggerFetch(w http.ResponseWriter, r *http.Request) {
	result, err := h.trigger.RunCycleOnce(r.Context())
	if err != nil {
		if errors.Is(err, model.ErrCycleInProgress) {
			writeErrorResponse(w, http.StatusConflict, "fetch cycle already in progress")
			return
		}
		slog.Error("オンデマンド取得サイクルの実行に失敗しました", slog.String("error", err.Error()))
		writeErrorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toFetchResponse(result))
}

// toFetchResponse はfetch.CycleResultからAPIレスポンスに変換する。
func toFetchResponse(result *fetch.CycleResult) fetchResponse {
	reports := make([]sourceReport, 0, len(result.Reports))
	for _, rep := range result.Reports {
		sr := sourceReport{
			Source:  rep.Source,
			Status:  string(rep.Status),
			Fetched: rep.Fetched,
		}
		if rep.Err != nil {
			sr.Error = rep.Err.Error()
		}
		reports = append(reports, sr)
	}

	return fetchResponse{
		Fetched:       result.Fetched,
		New:           result.New,
		NotifiedUsers: result.NotifiedUsers,
		Sources:       reports,
	}
}
