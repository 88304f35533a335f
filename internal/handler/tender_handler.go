package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/vstrvlno/tenderubot2/internal/model"
)

// TenderQueryInterface はテンダー一覧ハンドラーが必要とするサービスインターフェース。
type TenderQueryInterface interface {
	// Recent は挿入日時の降順でテンダーを返す。
	Recent(ctx context.Context, limit int) ([]*model.Tender, error)
}

// TenderHandler はテンダー一覧のHTTPハンドラー。
type TenderHandler struct {
	service TenderQueryInterface
}

// NewTenderHandler はTenderHandlerを生成する。
func NewTenderHandler(service TenderQueryInterface) *TenderHandler {
	return &TenderHandler{service: service}
}

// tenderResponse はテンダー1件のAPIレスポンス。
type tenderResponse struct {
	PurchaseNumber string    `json:"purchase_number"`
	Name           string    `json:"name"`
	Customer       string    `json:"customer"`
	Amount         float64   `json:"amount"`
	PublishDate    string    `json:"publish_date"`
	Source         string    `json:"source"`
	InsertedAt     time.Time `json:"inserted_at"`
}

// ListRecent は直近に保存されたテンダー一覧を返す。
// limitクエリパラメータで件数を指定できる（未指定時はサービス側のデフォルト）。
// GET /api/tenders
func (h *TenderHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeErrorResponse(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = parsed
	}

	tenders, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		slog.Error("テンダー一覧の取得に失敗しました", slog.String("error", err.Error()))
		writeErrorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := make([]tenderResponse, 0, len(tenders))
	for _, t := range tenders {
		resp = append(resp, tenderResponse{
			PurchaseNumber: t.PurchaseNumber,
			Name:           t.Name,
			Customer:       t.Customer,
			Amount:         t.Amount,
			PublishDate:    t.PublishDate,
			Source:         t.Source,
			InsertedAt:     t.InsertedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
