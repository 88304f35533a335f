package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vstrvlno/tenderubot2/internal/model"
)

// mockStatsService はStatsServiceInterfaceのモック実装。
type mockStatsService struct {
	statsFn func(ctx context.Context) (*model.Stats, error)
}

func (m *mockStatsService) Stats(ctx context.Context) (*model.Stats, error) {
	return m.statsFn(ctx)
}

// 統計情報がJSONで返ることを検証
func TestStatsHandler_GetStats(t *testing.T) {
	h := NewStatsHandler(&mockStatsService{
		statsFn: func(ctx context.Context) (*model.Stats, error) {
			return &model.Stats{TenderCount: 42, SubscriberCount: 7}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	h.GetStats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp statsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if resp.TenderCount != 42 {
		t.Errorf("TenderCount = %d, want 42", resp.TenderCount)
	}
	if resp.SubscriberCount != 7 {
		t.Errorf("SubscriberCount = %d, want 7", resp.SubscriberCount)
	}
}

// サービスエラー時に500と統一エラーフォーマットが返ることを検証
func TestStatsHandler_GetStats_ServiceError(t *testing.T) {
	h := NewStatsHandler(&mockStatsService{
		statsFn: func(ctx context.Context) (*model.Stats, error) {
			return nil, errors.New("db down")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	h.GetStats(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if resp.Error == "" {
		t.Error("error field is empty")
	}
}
