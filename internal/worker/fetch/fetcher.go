// Package fetch はテンダーソースのバックグラウンド取得処理を提供する。
// オーケストレータ、フェッチャー、パイプライン、スケジューラを含む。
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vstrvlno/tenderubot2/internal/model"
)

// SourceValidator はソースURLの検証と安全なHTTPクライアント生成のインターフェース。
type SourceValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
}

// SourceFetcher は個別ソースのHTTP取得を行う。
// SSRF検証済みクライアントでGETし、応答ボディをサイズ制限付きで読み込む。
type SourceFetcher struct {
	guard       SourceValidator
	logger      *slog.Logger
	timeout     time.Duration
	maxBodySize int64
}

// NewSourceFetcher はSourceFetcherの新しいインスタンスを生成する。
func NewSourceFetcher(
	guard SourceValidator,
	logger *slog.Logger,
	timeout time.Duration,
	maxBodySize int64,
) *SourceFetcher {
	return &SourceFetcher{
		guard:       guard,
		logger:      logger,
		timeout:     timeout,
		maxBodySize: maxBodySize,
	}
}

// FetchSource はソースの応答ボディを取得する。
// 2xx以外のステータスはエラーとして扱う。
func (f *SourceFetcher) FetchSource(ctx context.Context, cfg model.SourceConfig) ([]byte, error) {
	if err := f.guard.ValidateURL(cfg.URL); err != nil {
		return nil, fmt.Errorf("URL検証に失敗しました: %w", err)
	}

	client := f.guard.NewSafeClient(f.timeout, f.maxBodySize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエスト作成に失敗しました: %w", err)
	}

	req.Header.Set("User-Agent", "TenderuBot/2.0 Tender Watcher")
	req.Header.Set("Accept", "application/json, application/xml, text/html, application/rss+xml, */*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("予期しないHTTPステータス: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	return body, nil
}
