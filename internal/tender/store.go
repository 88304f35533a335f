// Package tender はテンダーの保存と重複排除を提供する。
package tender

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vstrvlno/tenderubot2/internal/model"
	"github.com/vstrvlno/tenderubot2/internal/repository"
	"github.com/vstrvlno/tenderubot2/internal/security"
)

// StoreService はパース済みテンダーのサニタイズと冪等な保存を提供する。
// purchase_numberをキーとした重複排除により、同じテンダーは1回だけ保存され、
// 通知も初回保存時の1回だけ発火する。
type StoreService struct {
	tenderRepo repository.TenderRepository
	sanitizer  security.TextSanitizerService
}

// NewStoreService はStoreServiceの新しいインスタンスを生成する。
func NewStoreService(
	tenderRepo repository.TenderRepository,
	sanitizer security.TextSanitizerService,
) *StoreService {
	return &StoreService{
		tenderRepo: tenderRepo,
		sanitizer:  sanitizer,
	}
}

// StoreNew はテンダー一覧を保存し、新規に挿入されたものだけを返す。
// 処理内容:
//   - 名前、発注者、識別番号をサニタイズする
//   - サニタイズ後に識別番号が空のテンダーは破棄する
//   - 既存のpurchase_numberと重複するテンダーは黙ってスキップする
//
// 返却順は入力順を保持する。
func (s *StoreService) StoreNew(ctx context.Context, source string, tenders []*model.Tender) ([]*model.Tender, error) {
	if len(tenders) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()

	var fresh []*model.Tender
	for _, t := range tenders {
		t.PurchaseNumber = s.sanitizer.Sanitize(t.PurchaseNumber)
		if t.PurchaseNumber == "" {
			continue
		}

		t.Name = s.sanitizer.Sanitize(t.Name)
		t.Customer = s.sanitizer.Sanitize(t.Customer)
		t.ID = uuid.New().String()
		t.Source = source
		t.InsertedAt = now

		inserted, err := s.tenderRepo.Insert(ctx, t)
		if err != nil {
			return fresh, fmt.Errorf("テンダーの保存に失敗しました: %w", err)
		}
		if inserted {
			fresh = append(fresh, t)
		}
	}

	return fresh, nil
}
