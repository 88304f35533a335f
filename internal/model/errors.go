// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// ErrCycleInProgress は取得サイクルの実行中に別のトリガーを受けた場合の
// エラー。ポリシーはキューイングではなく拒否（busy）で、スケジューラと
// オンデマンドトリガーの両方が決定的にこのエラーを返す。
var ErrCycleInProgress = errors.New("取得サイクルは既に実行中です")

// ErrEmptyKeyword は正規化後のキーワードが空の場合のエラー。
var ErrEmptyKeyword = errors.New("キーワードが空です")

// UnknownSourceTypeError は設定に未知のソース種別が含まれる場合のエラー。
type UnknownSourceTypeError struct {
	Name string
	Type SourceType
}

// Error はerrorインターフェースを実装する。
func (e *UnknownSourceTypeError) Error() string {
	return fmt.Sprintf("未知のソース種別です: %s (source=%s)", e.Type, e.Name)
}
