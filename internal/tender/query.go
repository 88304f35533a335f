package tender

import (
	"context"
	"fmt"

	"github.com/vstrvlno/tenderubot2/internal/model"
	"github.com/vstrvlno/tenderubot2/internal/repository"
)

// 一覧取得のデフォルト件数と上限。
const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// QueryService は保存済みテンダーの読み取りを提供する。
type QueryService struct {
	tenderRepo repository.TenderRepository
}

// NewQueryService はQueryServiceの新しいインスタンスを生成する。
func NewQueryService(tenderRepo repository.TenderRepository) *QueryService {
	return &QueryService{tenderRepo: tenderRepo}
}

// Recent は挿入日時の降順でテンダーを返す。
// limitが0以下の場合はデフォルト値、上限超過の場合は上限値に丸める。
func (s *QueryService) Recent(ctx context.Context, limit int) ([]*model.Tender, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	tenders, err := s.tenderRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("テンダー一覧の取得に失敗しました: %w", err)
	}
	return tenders, nil
}
