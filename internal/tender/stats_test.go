package tender

import (
	"context"
	"errors"
	"testing"

	"github.com/vstrvlno/tenderubot2/internal/model"
)

// mockSubRepo はSubscriptionRepositoryのモック実装。
type mockSubRepo struct {
	countDistinctUsersFn func(ctx context.Context) (int, error)
}

func (m *mockSubRepo) Create(ctx context.Context, sub *model.Subscription) (bool, error) {
	return false, nil
}

func (m *mockSubRepo) DeleteByUserAndKeyword(ctx context.Context, userID int64, keyword string) (bool, error) {
	return false, nil
}

func (m *mockSubRepo) ListByUserID(ctx context.Context, userID int64) ([]*model.Subscription, error) {
	return nil, nil
}

func (m *mockSubRepo) Snapshot(ctx context.Context) (model.SubscriptionSnapshot, error) {
	return nil, nil
}

func (m *mockSubRepo) CountDistinctUsers(ctx context.Context) (int, error) {
	return m.countDistinctUsersFn(ctx)
}

// テンダー数と購読者数が集計されることを検証
func TestStatsService_Stats(t *testing.T) {
	tenderRepo := &mockTenderRepo{
		countFn: func(ctx context.Context) (int, error) { return 120, nil },
	}
	subRepo := &mockSubRepo{
		countDistinctUsersFn: func(ctx context.Context) (int, error) { return 5, nil },
	}
	s := NewStatsService(tenderRepo, subRepo)

	stats, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v, want nil", err)
	}
	if stats.TenderCount != 120 {
		t.Errorf("TenderCount = %d, want 120", stats.TenderCount)
	}
	if stats.SubscriberCount != 5 {
		t.Errorf("SubscriberCount = %d, want 5", stats.SubscriberCount)
	}
}

// テンダー数の取得失敗がエラーとして返ることを検証
func TestStatsService_Stats_TenderCountError(t *testing.T) {
	repoErr := errors.New("db down")
	tenderRepo := &mockTenderRepo{
		countFn: func(ctx context.Context) (int, error) { return 0, repoErr },
	}
	subRepo := &mockSubRepo{
		countDistinctUsersFn: func(ctx context.Context) (int, error) { return 0, nil },
	}
	s := NewStatsService(tenderRepo, subRepo)

	_, err := s.Stats(context.Background())
	if !errors.Is(err, repoErr) {
		t.Errorf("error = %v, want wrapped %v", err, repoErr)
	}
}

// 購読者数の取得失敗がエラーとして返ることを検証
func TestStatsService_Stats_SubscriberCountError(t *testing.T) {
	repoErr := errors.New("db down")
	tenderRepo := &mockTenderRepo{
		countFn: func(ctx context.Context) (int, error) { return 10, nil },
	}
	subRepo := &mockSubRepo{
		countDistinctUsersFn: func(ctx context.Context) (int, error) { return 0, repoErr },
	}
	s := NewStatsService(tenderRepo, subRepo)

	_, err := s.Stats(context.Background())
	if !errors.Is(err, repoErr) {
		t.Errorf("error = %v, want wrapped %v", err, repoErr)
	}
}
