package fetch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vstrvlno/tenderubot2/internal/model"
	"github.com/vstrvlno/tenderubot2/internal/source"
)

// SourceResult は1ソースの取得・パース結果。
type SourceResult struct {
	Config  model.SourceConfig
	Tenders []*model.Tender
	Report  model.FetchReport
}

// Orchestrator は複数ソースの取得をsemaphoreパターンで並列実行する。
// 1ソースの失敗はそのソースのレポートに隔離され、他のソースの取得は継続する。
// 結果はソース設定の順序で返すため、並列実行でも出力は決定的になる。
type Orchestrator struct {
	fetcher        *SourceFetcher
	logger         *slog.Logger
	maxConcurrency int
	sourceLimit    int
}

// NewOrchestrator はOrchestratorの新しいインスタンスを生成する。
// maxConcurrencyが0以下の場合はデフォルト値4を使用する。
func NewOrchestrator(
	fetcher *SourceFetcher,
	logger *slog.Logger,
	maxConcurrency int,
	sourceLimit int,
) *Orchestrator {
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}
	return &Orchestrator{
		fetcher:        fetcher,
		logger:         logger,
		maxConcurrency: maxConcurrency,
		sourceLimit:    sourceLimit,
	}
}

// Run は全ソースを並列に取得し、ソース順の結果一覧を返す。
func (o *Orchestrator) Run(ctx context.Context, sources []model.SourceConfig) []SourceResult {
	results := make([]SourceResult, len(sources))

	// semaphoreパターンで並列数を制御
	sem := make(chan struct{}, o.maxConcurrency)
	var wg sync.WaitGroup

	for i, cfg := range sources {
		wg.Add(1)
		sem <- struct{}{} // semaphore取得（ブロック）

		go func(idx int, cfg model.SourceConfig) {
			defer wg.Done()
			defer func() { <-sem }() // semaphore解放

			results[idx] = o.fetchOne(ctx, cfg)
		}(i, cfg)
	}

	wg.Wait()

	return results
}

// fetchOne は1ソースを取得・パースし、結果レポート付きで返す。
func (o *Orchestrator) fetchOne(ctx context.Context, cfg model.SourceConfig) SourceResult {
	result := SourceResult{Config: cfg}

	parser, err := source.NewParser(cfg)
	if err != nil {
		o.logger.Error("ソースのパーサー生成に失敗しました",
			slog.String("source", cfg.Name),
			slog.String("type", string(cfg.Type)),
			slog.String("error", err.Error()),
		)
		result.Report = model.FetchReport{Source: cfg.Name, Status: model.FetchStatusFailed, Err: err}
		return result
	}

	data, err := o.fetcher.FetchSource(ctx, cfg)
	if err != nil {
		o.logger.Error("ソースの取得に失敗しました",
			slog.String("source", cfg.Name),
			slog.String("url", cfg.URL),
			slog.String("error", err.Error()),
		)
		result.Report = model.FetchReport{Source: cfg.Name, Status: model.FetchStatusFailed, Err: err}
		return result
	}

	tenders, err := parser.Parse(data, o.sourceLimit)
	if err != nil {
		o.logger.Error("ソースのパースに失敗しました",
			slog.String("source", cfg.Name),
			slog.String("error", err.Error()),
		)
		result.Report = model.FetchReport{Source: cfg.Name, Status: model.FetchStatusFailed, Err: err}
		return result
	}

	status := model.FetchStatusOK
	if len(tenders) == 0 {
		status = model.FetchStatusEmpty
	}

	result.Tenders = tenders
	result.Report = model.FetchReport{Source: cfg.Name, Status: status, Fetched: len(tenders)}
	return result
}
