// Package model はドメインモデルを定義する。
package model

import "time"

// Tender は調達プラットフォームから取得した1件の入札公告を表す。
// PurchaseNumberが業務上の自然キーであり、テンダーストア内で一意。
// PurchaseNumberを持たないレコードは永続化前に破棄される
// （重複排除もキーワードマッチングも信頼できないため）。
type Tender struct {
	ID             string
	PurchaseNumber string
	Name           string
	Customer       string
	Amount         float64
	// PublishDate はソースが返した文字列をそのまま保持する。
	// ソース間で日付形式の正規化は信頼できないため変換しない。
	PublishDate string
	Source      string
	InsertedAt  time.Time
}

// Subscription はユーザーとキーワードの購読関係を表す。
// (UserID, Keyword) の組はテーブル制約で一意。Keywordは正規化済み
// （trim + 小文字化）で保存される。
type Subscription struct {
	ID        string
	UserID    int64
	Keyword   string
	CreatedAt time.Time
}

// SubscriptionSnapshot は通知サイクルで1回だけ読み取る購読のスナップショット。
// 正規化済みキーワード → 購読者IDの集合。
type SubscriptionSnapshot map[string]map[int64]struct{}

// Stats はボットの統計情報を表す。
type Stats struct {
	TenderCount     int
	SubscriberCount int
}
