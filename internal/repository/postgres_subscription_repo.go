package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vstrvlno/tenderubot2/internal/model"
)

// PostgresSubscriptionRepo はPostgreSQLを使用した購読リポジトリ。
type PostgresSubscriptionRepo struct {
	db *sql.DB
}

// NewPostgresSubscriptionRepo はPostgresSubscriptionRepoを生成する。
func NewPostgresSubscriptionRepo(db *sql.DB) *PostgresSubscriptionRepo {
	return &PostgresSubscriptionRepo{db: db}
}

// Create は購読を冪等に作成する。
// (user_id, keyword)のUNIQUE制約に対してON CONFLICT DO NOTHINGを使用し、
// 重複時はエラーにせずfalseを返す。
func (r *PostgresSubscriptionRepo) Create(ctx context.Context, sub *model.Subscription) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions (id, user_id, keyword, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, keyword) DO NOTHING`,
		sub.ID, sub.UserID, sub.Keyword, sub.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("購読の作成に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("作成結果の取得に失敗しました: %w", err)
	}

	return rowsAffected > 0, nil
}

// DeleteByUserAndKeyword はユーザーIDとキーワードで購読を削除する。
// 削除対象が存在しない場合はfalseを返す。
func (r *PostgresSubscriptionRepo) DeleteByUserAndKeyword(ctx context.Context, userID int64, keyword string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE user_id = $1 AND keyword = $2`,
		userID, keyword,
	)
	if err != nil {
		return false, fmt.Errorf("購読の削除に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}

	return rowsAffected > 0, nil
}

// ListByUserID はユーザーの購読キーワード一覧を作成日時の昇順で返す。
func (r *PostgresSubscriptionRepo) ListByUserID(ctx context.Context, userID int64) ([]*model.Subscription, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, keyword, created_at
		 FROM subscriptions WHERE user_id = $1 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("購読一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var subs []*model.Subscription
	for rows.Next() {
		sub := &model.Subscription{}
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Keyword, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("購読行の読み取りに失敗しました: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("購読一覧の走査に失敗しました: %w", err)
	}

	return subs, nil
}

// Snapshot は全購読をキーワード→ユーザーID集合の形で取得する。
// 通知マッチングで使用するインメモリ表現を1クエリで構築する。
func (r *PostgresSubscriptionRepo) Snapshot(ctx context.Context) (model.SubscriptionSnapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT keyword, user_id FROM subscriptions`,
	)
	if err != nil {
		return nil, fmt.Errorf("購読スナップショットの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	snapshot := model.SubscriptionSnapshot{}
	for rows.Next() {
		var keyword string
		var userID int64
		if err := rows.Scan(&keyword, &userID); err != nil {
			return nil, fmt.Errorf("購読スナップショット行の読み取りに失敗しました: %w", err)
		}
		if snapshot[keyword] == nil {
			snapshot[keyword] = map[int64]struct{}{}
		}
		snapshot[keyword][userID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("購読スナップショットの走査に失敗しました: %w", err)
	}

	return snapshot, nil
}

// CountDistinctUsers は購読を持つユーザー数を返す。
func (r *PostgresSubscriptionRepo) CountDistinctUsers(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT user_id) FROM subscriptions`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("購読ユーザー数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ SubscriptionRepository = (*PostgresSubscriptionRepo)(nil)
