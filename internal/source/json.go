package source

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/vstrvlno/tenderubot2/internal/model"
)

// jsonParser はJSON形式のソースをパースする。
// トップレベルが配列の場合はそのまま、オブジェクトの場合は
// results、data、tendersキーの順で配列を探す。
// 各フィールドは別名を順に試す:
//
//	purchase_number, id
//	name_ru, name, title
//	ref_customer_name_ru, customer
//	publish_date, date
type jsonParser struct{}

func (p *jsonParser) Parse(data []byte, limit int) ([]*model.Tender, error) {
	items, err := extractItems(data)
	if err != nil {
		return nil, err
	}

	if len(items) > limit {
		items = items[:limit]
	}

	tenders := make([]*model.Tender, 0, len(items))
	for _, item := range items {
		tenders = append(tenders, &model.Tender{
			PurchaseNumber: firstString(item, "purchase_number", "id"),
			Name:           firstString(item, "name_ru", "name", "title"),
			Customer:       firstString(item, "ref_customer_name_ru", "customer"),
			Amount:         coerceFloat(item["amount"]),
			PublishDate:    firstString(item, "publish_date", "date"),
		})
	}

	return tenders, nil
}

// wrapperKeys はオブジェクト形式の応答でテンダー配列を探すキー。
var wrapperKeys = []string{"results", "data", "tenders"}

// extractItems はJSONデータからテンダーオブジェクトの配列を取り出す。
func extractItems(data []byte) ([]map[string]any, error) {
	var items []map[string]any
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗しました: %w", err)
	}

	for _, key := range wrapperKeys {
		raw, ok := wrapper[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("JSONの%sキーのパースに失敗しました: %w", key, err)
		}
		return items, nil
	}

	// 配列が見つからない場合は空として扱う
	return nil, nil
}

// firstString は指定キーを順に試し、最初に見つかった非空の文字列値を返す。
func firstString(item map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := coerceString(item[key]); s != "" {
			return s
		}
	}
	return ""
}

// coerceString は文字列または数値を文字列に変換する。
// ソースによってはid等が数値で返るため、数値も受け付ける。
func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		return ""
	}
}

// coerceFloat は数値または数値文字列をfloat64に変換する。変換できない場合は0を返す。
func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
