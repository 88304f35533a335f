package source

import (
	"testing"
)

// JSONパーサーがトップレベル配列をパースすることを検証
func TestJSONParser_TopLevelArray(t *testing.T) {
	data := []byte(`[
		{"purchase_number": "PN-1", "name_ru": "Поставка бумаги", "ref_customer_name_ru": "Администрация", "amount": 100500.25, "publish_date": "2026-08-01"},
		{"id": "PN-2", "title": "Ремонт кровли", "customer": "Школа №5", "amount": "250000", "date": "2026-08-02"}
	]`)

	p := &jsonParser{}
	tenders, err := p.Parse(data, 50)
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	if len(tenders) != 2 {
		t.Fatalf("len(tenders) = %d, want 2", len(tenders))
	}

	first := tenders[0]
	if first.PurchaseNumber != "PN-1" {
		t.Errorf("PurchaseNumber = %q, want %q", first.PurchaseNumber, "PN-1")
	}
	if first.Name != "Поставка бумаги" {
		t.Errorf("Name = %q, want %q", first.Name, "Поставка бумаги")
	}
	if first.Customer != "Администрация" {
		t.Errorf("Customer = %q, want %q", first.Customer, "Администрация")
	}
	if first.Amount != 100500.25 {
		t.Errorf("Amount = %v, want %v", first.Amount, 100500.25)
	}
	if first.PublishDate != "2026-08-01" {
		t.Errorf("PublishDate = %q, want %q", first.PublishDate, "2026-08-01")
	}

	// 別名フィールドでの取り込み
	second := tenders[1]
	if second.PurchaseNumber != "PN-2" {
		t.Errorf("PurchaseNumber = %q, want %q", second.PurchaseNumber, "PN-2")
	}
	if second.Name != "Ремонт кровли" {
		t.Errorf("Name = %q, want %q", second.Name, "Ремонт кровли")
	}
	if second.Amount != 250000 {
		t.Errorf("Amount = %v, want %v", second.Amount, 250000.0)
	}
	if second.PublishDate != "2026-08-02" {
		t.Errorf("PublishDate = %q, want %q", second.PublishDate, "2026-08-02")
	}
}

// JSONパーサーがラッパーオブジェクトのresults/data/tendersキーを探すことを検証
func TestJSONParser_WrapperKeys(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"resultsキー", `{"results": [{"id": "W-1", "name": "Закупка"}]}`},
		{"dataキー", `{"data": [{"id": "W-1", "name": "Закупка"}]}`},
		{"tendersキー", `{"tenders": [{"id": "W-1", "name": "Закупка"}]}`},
	}

	p := &jsonParser{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenders, err := p.Parse([]byte(tt.data), 50)
			if err != nil {
				t.Fatalf("Parse() error = %v, want nil", err)
			}
			if len(tenders) != 1 {
				t.Fatalf("len(tenders) = %d, want 1", len(tenders))
			}
			if tenders[0].PurchaseNumber != "W-1" {
				t.Errorf("PurchaseNumber = %q, want %q", tenders[0].PurchaseNumber, "W-1")
			}
		})
	}
}

// JSONパーサーが数値のidを文字列に変換することを検証
func TestJSONParser_NumericID(t *testing.T) {
	data := []byte(`[{"id": 12345, "name": "Услуги связи"}]`)

	p := &jsonParser{}
	tenders, err := p.Parse(data, 50)
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	if len(tenders) != 1 {
		t.Fatalf("len(tenders) = %d, want 1", len(tenders))
	}
	if tenders[0].PurchaseNumber != "12345" {
		t.Errorf("PurchaseNumber = %q, want %q", tenders[0].PurchaseNumber, "12345")
	}
}

// JSONパーサーがlimitで件数を打ち切ることを検証
func TestJSONParser_Limit(t *testing.T) {
	data := []byte(`[
		{"id": "1", "name": "a"},
		{"id": "2", "name": "b"},
		{"id": "3", "name": "c"}
	]`)

	p := &jsonParser{}
	tenders, err := p.Parse(data, 2)
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	if len(tenders) != 2 {
		t.Errorf("len(tenders) = %d, want 2", len(tenders))
	}
}

// JSONパーサーが配列のないオブジェクトを空として扱うことを検証
func TestJSONParser_NoArrayKey(t *testing.T) {
	p := &jsonParser{}
	tenders, err := p.Parse([]byte(`{"status": "ok"}`), 50)
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	if len(tenders) != 0 {
		t.Errorf("len(tenders) = %d, want 0", len(tenders))
	}
}

// JSONパーサーが不正なJSONに対してエラーを返すことを検証
func TestJSONParser_InvalidJSON(t *testing.T) {
	p := &jsonParser{}
	_, err := p.Parse([]byte(`not json at all`), 50)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}
