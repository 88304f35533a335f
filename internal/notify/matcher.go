// Package notify は新着テンダーの購読マッチングと通知配信を提供する。
package notify

import (
	"strings"

	"github.com/vstrvlno/tenderubot2/internal/model"
)

// Match は新着テンダーを購読スナップショットと照合し、
// ユーザーIDごとの通知対象テンダー一覧を返す。
// マッチングは小文字化したテンダー名に対するキーワードの部分文字列一致。
// 各ユーザーの一覧はテンダーの入力順を保持し、
// 複数キーワードに一致したテンダーも1回しか含まれない。
func Match(tenders []*model.Tender, snapshot model.SubscriptionSnapshot) map[int64][]*model.Tender {
	matches := map[int64][]*model.Tender{}

	for _, t := range tenders {
		name := strings.ToLower(t.Name)

		// 同一テンダーを同一ユーザーに二重登録しないための集合
		seen := map[int64]struct{}{}
		for keyword, users := range snapshot {
			if keyword == "" || !strings.Contains(name, keyword) {
				continue
			}
			for userID := range users {
				if _, ok := seen[userID]; ok {
					continue
				}
				seen[userID] = struct{}{}
				matches[userID] = append(matches[userID], t)
			}
		}
	}

	return matches
}
