package fetch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vstrvlno/tenderubot2/internal/model"
)

// CycleRunner は取得サイクルの実行インターフェース。
type CycleRunner interface {
	RunCycleOnce(ctx context.Context) (*CycleResult, error)
}

// Scheduler は取得サイクルの定期実行を行う。
// 起動時は依存サービスの立ち上がりを待つため、最初のサイクルの前に
// startupDelayだけ待機し、その後はinterval間隔のティッカーで実行する。
type Scheduler struct {
	pipeline     CycleRunner
	logger       *slog.Logger
	interval     time.Duration
	startupDelay time.Duration
}

// NewScheduler はSchedulerの新しいインスタンスを生成する。
func NewScheduler(
	pipeline CycleRunner,
	logger *slog.Logger,
	interval time.Duration,
	startupDelay time.Duration,
) *Scheduler {
	return &Scheduler{
		pipeline:     pipeline,
		logger:       logger,
		interval:     interval,
		startupDelay: startupDelay,
	}
}

// Start はスケジューラを起動する。
// コンテキストがキャンセルされるまで実行を継続する。
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("取得スケジューラを開始しました",
		slog.Duration("interval", s.interval),
		slog.Duration("startup_delay", s.startupDelay),
	)

	// 起動直後の実行は遅延させる
	select {
	case <-ctx.Done():
		s.logger.Info("取得スケジューラを停止しました")
		return
	case <-time.After(s.startupDelay):
	}

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("取得スケジューラを停止しました")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce はサイクルを1回実行し、結果をログに残す。
// 別経路のトリガーでサイクルが実行中の場合は、このティックをスキップする。
func (s *Scheduler) runOnce(ctx context.Context) {
	_, err := s.pipeline.RunCycleOnce(ctx)
	if errors.Is(err, model.ErrCycleInProgress) {
		s.logger.Warn("サイクルが実行中のためスキップしました")
		return
	}
	if err != nil {
		s.logger.Error("取得サイクルの実行に失敗しました",
			slog.String("error", err.Error()),
		)
	}
}
