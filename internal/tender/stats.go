package tender

import (
	"context"
	"fmt"

	"github.com/vstrvlno/tenderubot2/internal/model"
	"github.com/vstrvlno/tenderubot2/internal/repository"
)

// StatsService は運用状況の集計値を提供する。
type StatsService struct {
	tenderRepo repository.TenderRepository
	subRepo    repository.SubscriptionRepository
}

// NewStatsService はStatsServiceの新しいインスタンスを生成する。
func NewStatsService(
	tenderRepo repository.TenderRepository,
	subRepo repository.SubscriptionRepository,
) *StatsService {
	return &StatsService{
		tenderRepo: tenderRepo,
		subRepo:    subRepo,
	}
}

// Stats は保存済みテンダー数と購読ユーザー数を返す。
func (s *StatsService) Stats(ctx context.Context) (*model.Stats, error) {
	tenderCount, err := s.tenderRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("テンダー数の取得に失敗しました: %w", err)
	}

	subscriberCount, err := s.subRepo.CountDistinctUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("購読ユーザー数の取得に失敗しました: %w", err)
	}

	return &model.Stats{
		TenderCount:     tenderCount,
		SubscriberCount: subscriberCount,
	}, nil
}
