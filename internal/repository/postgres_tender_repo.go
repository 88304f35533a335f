package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vstrvlno/tenderubot2/internal/model"
)

// PostgresTenderRepo はPostgreSQLを使用したテンダーリポジトリ。
type PostgresTenderRepo struct {
	db *sql.DB
}

// NewPostgresTenderRepo はPostgresTenderRepoを生成する。
func NewPostgresTenderRepo(db *sql.DB) *PostgresTenderRepo {
	return &PostgresTenderRepo{db: db}
}

// Insert はテンダーを冪等に挿入する。
// purchase_numberのUNIQUE制約に対してON CONFLICT DO NOTHINGを使用し、
// 重複時はエラーにせずfalseを返す。
func (r *PostgresTenderRepo) Insert(ctx context.Context, tender *model.Tender) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO tenders (id, purchase_number, name, customer, amount, publish_date, source, inserted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (purchase_number) DO NOTHING`,
		tender.ID, tender.PurchaseNumber, tender.Name, tender.Customer,
		tender.Amount, tender.PublishDate, tender.Source, tender.InsertedAt,
	)
	if err != nil {
		return false, fmt.Errorf("テンダーの挿入に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("挿入結果の取得に失敗しました: %w", err)
	}

	return rowsAffected > 0, nil
}

// Count は保存済みテンダーの総数を返す。
func (r *PostgresTenderRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tenders`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("テンダー数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// ListRecent は挿入日時の降順でテンダーを取得する。
func (r *PostgresTenderRepo) ListRecent(ctx context.Context, limit int) ([]*model.Tender, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, purchase_number, name, customer, amount, publish_date, source, inserted_at
		 FROM tenders ORDER BY inserted_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("テンダー一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var tenders []*model.Tender
	for rows.Next() {
		tender := &model.Tender{}
		if err := rows.Scan(
			&tender.ID, &tender.PurchaseNumber, &tender.Name, &tender.Customer,
			&tender.Amount, &tender.PublishDate, &tender.Source, &tender.InsertedAt,
		); err != nil {
			return nil, fmt.Errorf("テンダー行の読み取りに失敗しました: %w", err)
		}
		tenders = append(tenders, tender)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("テンダー一覧の走査に失敗しました: %w", err)
	}

	return tenders, nil
}

// compile-time interface check
var _ TenderRepository = (*PostgresTenderRepo)(nil)
