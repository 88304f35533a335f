package bot

import (
	"sync"
	"time"
)

// pendingAction は次のテキスト入力に対して実行する操作を表す。
type pendingAction string

const (
	actionAddKeyword    pendingAction = "add"
	actionRemoveKeyword pendingAction = "remove"
)

// defaultPendingTTL は入力待ち状態の有効期限。
// 期限切れの状態は次のテキスト受信時に破棄され、通常のメッセージとして扱う。
const defaultPendingTTL = 5 * time.Minute

// pendingEntry はユーザーごとの入力待ち状態。
type pendingEntry struct {
	action pendingAction
	setAt  time.Time
}

// conversationState は/addkeywordや/removekeyword後の入力待ち状態を管理する。
type conversationState struct {
	mu      sync.Mutex
	pending map[int64]pendingEntry
	ttl     time.Duration
}

// newConversationState はconversationStateを生成する。
func newConversationState(ttl time.Duration) *conversationState {
	if ttl <= 0 {
		ttl = defaultPendingTTL
	}
	return &conversationState{
		pending: make(map[int64]pendingEntry),
		ttl:     ttl,
	}
}

// Set はユーザーの入力待ち状態を設定する。既存の状態は上書きされる。
func (s *conversationState) Set(userID int64, action pendingAction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[userID] = pendingEntry{action: action, setAt: time.Now()}
}

// Pop はユーザーの入力待ち状態を取り出して削除する。
// 状態が存在しない、または有効期限切れの場合はfalseを返す。
func (s *conversationState) Pop(userID int64) (pendingAction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.pending[userID]
	if !exists {
		return "", false
	}
	delete(s.pending, userID)

	if time.Since(entry.setAt) > s.ttl {
		return "", false
	}
	return entry.action, true
}
