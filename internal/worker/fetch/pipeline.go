package fetch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vstrvlno/tenderubot2/internal/metrics"
	"github.com/vstrvlno/tenderubot2/internal/model"
	"github.com/vstrvlno/tenderubot2/internal/notify"
)

// TenderStorer はパース済みテンダーの保存インターフェース。
type TenderStorer interface {
	StoreNew(ctx context.Context, source string, tenders []*model.Tender) ([]*model.Tender, error)
}

// SnapshotProvider は購読スナップショットの取得インターフェース。
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (model.SubscriptionSnapshot, error)
}

// UserNotifier はマッチ結果の配信インターフェース。
type UserNotifier interface {
	Notify(ctx context.Context, matches map[int64][]*model.Tender) int
}

// CycleResult は1回の取得サイクルの集計結果。
type CycleResult struct {
	Fetched       int
	New           int
	NotifiedUsers int
	Reports       []model.FetchReport
}

// Pipeline は取得サイクル全体（取得→保存→マッチング→通知）を実行する。
// サイクルは同時に1つしか走らない。実行中に別のトリガーを受けた場合、
// キューイングせずにErrCycleInProgressで即座に拒否する。
// スケジューラ、ボットの/parseコマンド、HTTPのオンデマンドトリガーは
// すべて同じRunCycleOnceを通るため、どの経路でも多重実行は起きない。
type Pipeline struct {
	mu sync.Mutex

	sources      []model.SourceConfig
	orchestrator *Orchestrator
	store        TenderStorer
	subs         SnapshotProvider
	notifier     UserNotifier
	collector    metrics.MetricsCollector
	logger       *slog.Logger
}

// NewPipeline はPipelineの新しいインスタンスを生成する。
func NewPipeline(
	sources []model.SourceConfig,
	orchestrator *Orchestrator,
	store TenderStorer,
	subs SnapshotProvider,
	notifier UserNotifier,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		sources:      sources,
		orchestrator: orchestrator,
		store:        store,
		subs:         subs,
		notifier:     notifier,
		collector:    collector,
		logger:       logger,
	}
}

// RunCycleOnce は取得サイクルを1回実行する。
// 既にサイクルが実行中の場合はErrCycleInProgressを返す。
// 購読スナップショットはサイクル開始時点で1回だけ読み取り、
// サイクル中の購読変更はこのサイクルの通知に影響しない。
func (p *Pipeline) RunCycleOnce(ctx context.Context) (*CycleResult, error) {
	if !p.mu.TryLock() {
		p.collector.RecordCycleRejected()
		return nil, model.ErrCycleInProgress
	}
	defer p.mu.Unlock()

	start := time.Now()
	p.logger.Info("取得サイクルを開始します",
		slog.Int("source_count", len(p.sources)),
	)

	snapshot, err := p.subs.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	results := p.orchestrator.Run(ctx, p.sources)

	cycleResult := &CycleResult{}
	var fresh []*model.Tender

	for _, res := range results {
		cycleResult.Reports = append(cycleResult.Reports, res.Report)

		if res.Report.Status == model.FetchStatusFailed {
			p.collector.RecordSourceFailure(res.Config.Name)
			continue
		}
		p.collector.RecordSourceSuccess(res.Config.Name)
		cycleResult.Fetched += len(res.Tenders)

		stored, err := p.store.StoreNew(ctx, res.Config.Name, res.Tenders)
		if err != nil {
			// 保存失敗もソース単位で隔離し、残りのソースは処理を続ける
			p.logger.Error("ソースのテンダー保存に失敗しました",
				slog.String("source", res.Config.Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		fresh = append(fresh, stored...)
	}

	matches := notify.Match(fresh, snapshot)
	notified := p.notifier.Notify(ctx, matches)

	cycleResult.New = len(fresh)
	cycleResult.NotifiedUsers = notified

	duration := time.Since(start)
	p.collector.RecordTendersFetched(cycleResult.Fetched)
	p.collector.RecordTendersNew(cycleResult.New)
	p.collector.RecordUsersNotified(notified)
	p.collector.RecordCycleDuration(duration)

	p.logger.Info("取得サイクルが完了しました",
		slog.Int("fetched", cycleResult.Fetched),
		slog.Int("new", cycleResult.New),
		slog.Int("notified_users", notified),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return cycleResult, nil
}
