// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService は外部ソース由来のテンダーフィールドをサニタイズし、
// HTMLタグの混入やインジェクションからユーザーを保護する。
// bluemondayのStrictPolicyにより全タグを除去してプレーンテキスト化する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService は外部由来テキストのサニタイズ機能のインターフェースを定義する。
// テンダーの保存前および通知メッセージの組み立て前に使用される。
type TextSanitizerService interface {
	// Sanitize は入力からHTMLタグを全て除去し、プレーンテキストを返す。
	// HTMLエンティティはデコードし、前後の空白を取り除く。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyは全てのタグと属性を除去する。通知はテキストとして送信されるため、
// HTML構造を残す理由がない。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からHTMLタグを全て除去し、プレーンテキストを返す。
func (s *textSanitizer) Sanitize(raw string) string {
	stripped := s.policy.Sanitize(raw)
	// StrictPolicyは &amp; 等のエンティティを残すため、表示用にデコードする。
	return strings.TrimSpace(html.UnescapeString(stripped))
}

// compile-time interface check
var _ TextSanitizerService = (*textSanitizer)(nil)
