package source

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/vstrvlno/tenderubot2/internal/model"
)

// htmlParser はHTML形式のソースをCSSセレクタでパースする。
// 各要素のテキストをテンダー名とし、識別番号はhref属性を優先、
// hrefがない場合はテキストそのものを使用する。
// hrefのないリスト要素では同一テキスト＝同一テンダーとみなされるため、
// テキストが重複するページでは後続要素が重複として弾かれる。
type htmlParser struct {
	selector string
}

func (p *htmlParser) Parse(data []byte, limit int) ([]*model.Tender, error) {
	if p.selector == "" {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("HTMLのパースに失敗しました: %w", err)
	}

	var tenders []*model.Tender
	doc.Find(p.selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(tenders) >= limit {
			return false
		}

		name := strings.TrimSpace(sel.Text())
		purchaseNumber := name
		if href, ok := sel.Attr("href"); ok && href != "" {
			purchaseNumber = href
		}

		tenders = append(tenders, &model.Tender{
			PurchaseNumber: purchaseNumber,
			Name:           name,
		})
		return true
	})

	return tenders, nil
}
