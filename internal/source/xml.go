package source

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/vstrvlno/tenderubot2/internal/model"
)

// xmlParser はXML形式のソースをパースする。
// 文書中の任意の深さにある<tender>要素を走査し、
// 子要素id、title、customer、amount、dateを読み取る。
// 非UTF-8エンコーディング（windows-1251等）はcharsetリーダーで変換する。
type xmlParser struct{}

// tenderElement は<tender>要素のデコード先。
type tenderElement struct {
	ID       string `xml:"id"`
	Title    string `xml:"title"`
	Customer string `xml:"customer"`
	Amount   string `xml:"amount"`
	Date     string `xml:"date"`
}

func (p *xmlParser) Parse(data []byte, limit int) ([]*model.Tender, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel

	var tenders []*model.Tender
	for len(tenders) < limit {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("XMLのパースに失敗しました: %w", err)
		}

		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "tender" {
			continue
		}

		var elem tenderElement
		if err := decoder.DecodeElement(&elem, &start); err != nil {
			return nil, fmt.Errorf("tender要素のデコードに失敗しました: %w", err)
		}

		amount, _ := strconv.ParseFloat(strings.TrimSpace(elem.Amount), 64)
		tenders = append(tenders, &model.Tender{
			PurchaseNumber: strings.TrimSpace(elem.ID),
			Name:           strings.TrimSpace(elem.Title),
			Customer:       strings.TrimSpace(elem.Customer),
			Amount:         amount,
			PublishDate:    strings.TrimSpace(elem.Date),
		})
	}

	return tenders, nil
}
