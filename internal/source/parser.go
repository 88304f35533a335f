// Package source はテンダーソースの設定読み込みと形式別パースを提供する。
package source

import (
	"github.com/vstrvlno/tenderubot2/internal/model"
)

// Parser はソースの生レスポンスをテンダー一覧に変換するインターフェース。
// limitは1ソースあたりの最大件数で、超過分は切り捨てる。
// 返却されるテンダーのID、Source、InsertedAtは呼び出し側が設定する。
type Parser interface {
	Parse(data []byte, limit int) ([]*model.Tender, error)
}

// NewParser はソース種別に応じたParserを生成する。
// 未知の種別の場合はUnknownSourceTypeErrorを返す。
func NewParser(cfg model.SourceConfig) (Parser, error) {
	switch cfg.Type {
	case model.SourceTypeJSON:
		return &jsonParser{}, nil
	case model.SourceTypeHTML:
		return &htmlParser{selector: cfg.Selector}, nil
	case model.SourceTypeXML:
		return &xmlParser{}, nil
	case model.SourceTypeRSS:
		return &rssParser{}, nil
	default:
		return nil, &model.UnknownSourceTypeError{Name: cfg.Name, Type: cfg.Type}
	}
}
