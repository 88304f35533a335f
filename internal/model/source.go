package model

// SourceType はソースのフィード形式を表す。
type SourceType string

const (
	// SourceTypeJSON はJSON APIを返すソース。
	SourceTypeJSON SourceType = "json"
	// SourceTypeHTML はCSSセレクタで抽出するHTMLページのソース。
	SourceTypeHTML SourceType = "html"
	// SourceTypeXML は独自XMLドキュメントを返すソース。
	SourceTypeXML SourceType = "xml"
	// SourceTypeRSS はRSS/Atomフィードを返すソース。
	SourceTypeRSS SourceType = "rss"
)

// SourceConfig は1つの調達プラットフォームの取得設定を表す。
// 設定ファイル（JSON配列）から起動時に読み込まれる。
type SourceConfig struct {
	Name string     `json:"name"`
	Type SourceType `json:"type"`
	URL  string     `json:"url"`
	// Selector はhtmlソースでのみ使用するCSSセレクタ。
	Selector string `json:"selector,omitempty"`
}

// FetchStatus は1ソースの取得結果の分類を表す。
type FetchStatus string

const (
	// FetchStatusOK は取得・パースに成功しレコードを得た状態。
	FetchStatusOK FetchStatus = "ok"
	// FetchStatusEmpty は取得に成功したがレコードが0件だった状態。
	FetchStatusEmpty FetchStatus = "empty"
	// FetchStatusFailed は取得またはパースに失敗した状態。
	// 失敗はソース単位で隔離され、サイクル全体は継続する。
	FetchStatusFailed FetchStatus = "failed"
)

// FetchReport は1ソースの取得結果レポート。
// 失敗を握りつぶさず観測可能にするため、オーケストレータが
// ソースごとに1件ずつ生成して集約する。
type FetchReport struct {
	Source  string
	Status  FetchStatus
	Fetched int
	Err     error
}
