// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/vstrvlno/tenderubot2/internal/model"
)

// TenderRepository はテンダーデータの永続化インターフェース。
type TenderRepository interface {
	// Insert はテンダーを冪等に挿入する。
	// purchase_numberが既存の場合は何もせずfalseを返し、新規挿入時はtrueを返す。
	Insert(ctx context.Context, tender *model.Tender) (bool, error)

	// Count は保存済みテンダーの総数を返す。
	Count(ctx context.Context) (int, error)

	// ListRecent は挿入日時の降順でテンダーを取得する。
	ListRecent(ctx context.Context, limit int) ([]*model.Tender, error)
}

// SubscriptionRepository は購読データの永続化インターフェース。
type SubscriptionRepository interface {
	// Create は購読を冪等に作成する。
	// 同一の(user_id, keyword)が既存の場合は何もせずfalseを返す。
	Create(ctx context.Context, sub *model.Subscription) (bool, error)

	// DeleteByUserAndKeyword はユーザーIDとキーワードで購読を削除する。
	// 削除対象が存在しない場合はfalseを返す。
	DeleteByUserAndKeyword(ctx context.Context, userID int64, keyword string) (bool, error)

	// ListByUserID はユーザーの購読キーワード一覧を作成日時の昇順で返す。
	ListByUserID(ctx context.Context, userID int64) ([]*model.Subscription, error)

	// Snapshot は全購読をキーワード→ユーザーID集合の形で取得する。
	Snapshot(ctx context.Context) (model.SubscriptionSnapshot, error)

	// CountDistinctUsers は購読を持つユーザー数を返す。
	CountDistinctUsers(ctx context.Context) (int, error)
}
