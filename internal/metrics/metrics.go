// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ワーカーやサービス層から利用する。
type MetricsCollector interface {
	RecordSourceSuccess(source string)
	RecordSourceFailure(source string)
	RecordTendersFetched(count int)
	RecordTendersNew(count int)
	RecordUsersNotified(count int)
	RecordCycleDuration(duration time.Duration)
	RecordCycleRejected()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	sourceSuccess  *prometheus.CounterVec
	sourceFail     *prometheus.CounterVec
	tendersFetched prometheus.Counter
	tendersNew     prometheus.Counter
	usersNotified  prometheus.Counter
	cycleDuration  prometheus.Histogram
	cycleRejected  prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		sourceSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tenderubot_source_success_total",
			Help: "ソース取得成功の合計数",
		}, []string{"source"}),
		sourceFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tenderubot_source_fail_total",
			Help: "ソース取得失敗の合計数",
		}, []string{"source"}),
		tendersFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tenderubot_tenders_fetched_total",
			Help: "パースされたテンダーの合計数",
		}),
		tendersNew: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tenderubot_tenders_new_total",
			Help: "新規に保存されたテンダーの合計数",
		}),
		usersNotified: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tenderubot_users_notified_total",
			Help: "通知を送ったユーザーの延べ数",
		}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tenderubot_cycle_duration_seconds",
			Help:    "取得サイクルの所要時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		cycleRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tenderubot_cycle_rejected_total",
			Help: "実行中のため拒否されたサイクルトリガーの合計数",
		}),
	}

	reg.MustRegister(
		c.sourceSuccess,
		c.sourceFail,
		c.tendersFetched,
		c.tendersNew,
		c.usersNotified,
		c.cycleDuration,
		c.cycleRejected,
	)

	return c
}

// RecordSourceSuccess はソース取得成功を記録する。
func (c *Collector) RecordSourceSuccess(source string) {
	c.sourceSuccess.WithLabelValues(source).Inc()
}

// RecordSourceFailure はソース取得失敗を記録する。
func (c *Collector) RecordSourceFailure(source string) {
	c.sourceFail.WithLabelValues(source).Inc()
}

// RecordTendersFetched はパースされたテンダー数を記録する。
func (c *Collector) RecordTendersFetched(count int) {
	c.tendersFetched.Add(float64(count))
}

// RecordTendersNew は新規保存されたテンダー数を記録する。
func (c *Collector) RecordTendersNew(count int) {
	c.tendersNew.Add(float64(count))
}

// RecordUsersNotified は通知を送ったユーザー数を記録する。
func (c *Collector) RecordUsersNotified(count int) {
	c.usersNotified.Add(float64(count))
}

// RecordCycleDuration は取得サイクルの所要時間を記録する。
func (c *Collector) RecordCycleDuration(duration time.Duration) {
	c.cycleDuration.Observe(duration.Seconds())
}

// RecordCycleRejected は拒否されたサイクルトリガーを記録する。
func (c *Collector) RecordCycleRejected() {
	c.cycleRejected.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
