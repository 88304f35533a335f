// Package subscription はキーワード購読の管理機能を提供する。
package subscription

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vstrvlno/tenderubot2/internal/model"
	"github.com/vstrvlno/tenderubot2/internal/repository"
)

// Service はキーワード購読の追加、削除、一覧、スナップショット取得を提供する。
// キーワードは保存前に正規化（前後空白の除去と小文字化）され、
// 同一ユーザー・同一キーワードの購読は1件しか存在しない。
type Service struct {
	subRepo repository.SubscriptionRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(subRepo repository.SubscriptionRepository) *Service {
	return &Service{subRepo: subRepo}
}

// NormalizeKeyword はキーワードを正規化する。
// 前後の空白を除去し、小文字に変換する。
func NormalizeKeyword(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}

// Add はユーザーの購読キーワードを冪等に追加する。
// 正規化後に空になるキーワードはErrEmptyKeywordを返す。
// 既に購読済みの場合はエラーにせずfalseを返す。
func (s *Service) Add(ctx context.Context, userID int64, keyword string) (bool, error) {
	normalized := NormalizeKeyword(keyword)
	if normalized == "" {
		return false, model.ErrEmptyKeyword
	}

	sub := &model.Subscription{
		ID:        uuid.New().String(),
		UserID:    userID,
		Keyword:   normalized,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.subRepo.Create(ctx, sub)
	if err != nil {
		return false, fmt.Errorf("購読の追加に失敗しました: %w", err)
	}

	return created, nil
}

// Remove はユーザーの購読キーワードを削除する。
// キーワードは追加時と同じ規則で正規化してから照合する。
// 購読が存在しない場合はエラーにせずfalseを返す。
func (s *Service) Remove(ctx context.Context, userID int64, keyword string) (bool, error) {
	normalized := NormalizeKeyword(keyword)
	if normalized == "" {
		return false, model.ErrEmptyKeyword
	}

	deleted, err := s.subRepo.DeleteByUserAndKeyword(ctx, userID, normalized)
	if err != nil {
		return false, fmt.Errorf("購読の削除に失敗しました: %w", err)
	}

	return deleted, nil
}

// List はユーザーの購読キーワード一覧を追加順で返す。
func (s *Service) List(ctx context.Context, userID int64) ([]string, error) {
	subs, err := s.subRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("購読一覧の取得に失敗しました: %w", err)
	}

	keywords := make([]string, 0, len(subs))
	for _, sub := range subs {
		keywords = append(keywords, sub.Keyword)
	}

	return keywords, nil
}

// Snapshot は全購読をキーワード→ユーザーID集合の形で返す。
// 通知マッチングは取得サイクル開始時点のスナップショットに対して行われる。
func (s *Service) Snapshot(ctx context.Context) (model.SubscriptionSnapshot, error) {
	snapshot, err := s.subRepo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("購読スナップショットの取得に失敗しました: %w", err)
	}
	return snapshot, nil
}
