package repository

import (
	"testing"
	"time"

	"github.com/vstrvlno/tenderubot2/internal/model"
)

// PostgresSubscriptionRepoはSubscriptionRepositoryインターフェースを満たすことを検証
func TestPostgresSubscriptionRepo_ImplementsInterface(t *testing.T) {
	var _ SubscriptionRepository = (*PostgresSubscriptionRepo)(nil)
}

// NewPostgresSubscriptionRepoが正しく初期化されることを検証
func TestNewPostgresSubscriptionRepo_Initializes(t *testing.T) {
	repo := NewPostgresSubscriptionRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// Subscriptionモデルのフィールドが正しく構築されることを検証
func TestPostgresSubscriptionRepo_SubscriptionModel_Fields(t *testing.T) {
	now := time.Now()
	sub := &model.Subscription{
		ID:        "sub-id-1",
		UserID:    123456789,
		Keyword:   "ремонт",
		CreatedAt: now,
	}

	if sub.UserID != 123456789 {
		t.Errorf("sub.UserID = %d, want %d", sub.UserID, 123456789)
	}
	if sub.Keyword != "ремонт" {
		t.Errorf("sub.Keyword = %q, want %q", sub.Keyword, "ремонт")
	}
}
