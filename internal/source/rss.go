package source

import (
	"fmt"

	"github.com/mmcdole/gofeed"

	"github.com/vstrvlno/tenderubot2/internal/model"
)

// rssParser はRSS/Atom形式のソースをgofeedでパースする。
// 記事タイトルをテンダー名、リンクを識別番号として使用する。
// リンクがない記事ではタイトルが識別番号になる。
type rssParser struct{}

func (p *rssParser) Parse(data []byte, limit int) ([]*model.Tender, error) {
	parsed, err := gofeed.NewParser().ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("フィードのパースに失敗しました: %w", err)
	}

	items := parsed.Items
	if len(items) > limit {
		items = items[:limit]
	}

	tenders := make([]*model.Tender, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		purchaseNumber := item.Link
		if purchaseNumber == "" {
			purchaseNumber = item.Title
		}

		tenders = append(tenders, &model.Tender{
			PurchaseNumber: purchaseNumber,
			Name:           item.Title,
			PublishDate:    item.Published,
		})
	}

	return tenders, nil
}
