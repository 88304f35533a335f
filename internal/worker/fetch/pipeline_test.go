package fetch

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vstrvlno/tenderubot2/internal/logger"
	"github.com/vstrvlno/tenderubot2/internal/model"
)

// noopCollector はMetricsCollectorのテスト用実装。
type noopCollector struct {
	rejected int
}

func (c *noopCollector) RecordSourceSuccess(source string)          {}
func (c *noopCollector) RecordSourceFailure(source string)          {}
func (c *noopCollector) RecordTendersFetched(count int)             {}
func (c *noopCollector) RecordTendersNew(count int)                 {}
func (c *noopCollector) RecordUsersNotified(count int)              {}
func (c *noopCollector) RecordCycleDuration(duration time.Duration) {}
func (c *noopCollector) RecordCycleRejected()                       { c.rejected++ }

// mockStorer はTenderStorerのモック実装。
type mockStorer struct {
	storeFn func(ctx context.Context, source string, tenders []*model.Tender) ([]*model.Tender, error)
}

func (m *mockStorer) StoreNew(ctx context.Context, source string, tenders []*model.Tender) ([]*model.Tender, error) {
	return m.storeFn(ctx, source, tenders)
}

// mockSnapshots はSnapshotProviderのモック実装。
type mockSnapshots struct {
	snapshotFn func(ctx context.Context) (model.SubscriptionSnapshot, error)
}

func (m *mockSnapshots) Snapshot(ctx context.Context) (model.SubscriptionSnapshot, error) {
	return m.snapshotFn(ctx)
}

// mockNotifier はUserNotifierのモック実装。
type mockNotifier struct {
	notifyFn func(ctx context.Context, matches map[int64][]*model.Tender) int
}

func (m *mockNotifier) Notify(ctx context.Context, matches map[int64][]*model.Tender) int {
	if m.notifyFn != nil {
		return m.notifyFn(ctx, matches)
	}
	return len(matches)
}

func passThroughStorer() *mockStorer {
	return &mockStorer{
		storeFn: func(ctx context.Context, source string, tenders []*model.Tender) ([]*model.Tender, error) {
			return tenders, nil
		},
	}
}

func emptySnapshots() *mockSnapshots {
	return &mockSnapshots{
		snapshotFn: func(ctx context.Context) (model.SubscriptionSnapshot, error) {
			return model.SubscriptionSnapshot{}, nil
		},
	}
}

func newTestPipeline(
	sources []model.SourceConfig,
	store TenderStorer,
	subs SnapshotProvider,
	notifier UserNotifier,
	collector *noopCollector,
) *Pipeline {
	var buf bytes.Buffer
	l := logger.Setup(&buf)
	fetcher := NewSourceFetcher(allowAllGuard{}, l, 5*time.Second, 1024*1024)
	orchestrator := NewOrchestrator(fetcher, l, 4, 50)
	return NewPipeline(sources, orchestrator, store, subs, notifier, collector, l)
}

// サイクルが取得・保存・通知を一気通貫で実行することを検証
func TestRunCycleOnce_EndToEnd(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": "PN-1", "name": "ремонт школы"}]`))
	}))
	defer ts.Close()

	sources := []model.SourceConfig{
		{Name: "src", Type: model.SourceTypeJSON, URL: ts.URL},
	}

	subs := &mockSnapshots{
		snapshotFn: func(ctx context.Context) (model.SubscriptionSnapshot, error) {
			return model.SubscriptionSnapshot{"ремонт": {100: {}}}, nil
		},
	}
	var notifiedMatches map[int64][]*model.Tender
	notifier := &mockNotifier{
		notifyFn: func(ctx context.Context, matches map[int64][]*model.Tender) int {
			notifiedMatches = matches
			return len(matches)
		},
	}

	p := newTestPipeline(sources, passThroughStorer(), subs, notifier, &noopCollector{})
	result, err := p.RunCycleOnce(context.Background())
	if err != nil {
		t.Fatalf("RunCycleOnce() error = %v, want nil", err)
	}

	if result.Fetched != 1 {
		t.Errorf("result.Fetched = %d, want 1", result.Fetched)
	}
	if result.New != 1 {
		t.Errorf("result.New = %d, want 1", result.New)
	}
	if result.NotifiedUsers != 1 {
		t.Errorf("result.NotifiedUsers = %d, want 1", result.NotifiedUsers)
	}
	if len(notifiedMatches[100]) != 1 {
		t.Errorf("len(matches[100]) = %d, want 1", len(notifiedMatches[100]))
	}
}

// 実行中のサイクルがあるとErrCycleInProgressで拒否されることを検証
func TestRunCycleOnce_RejectsConcurrentTrigger(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	sources := []model.SourceConfig{
		{Name: "src", Type: model.SourceTypeJSON, URL: ts.URL},
	}

	entered := make(chan struct{})
	release := make(chan struct{})
	subs := &mockSnapshots{
		snapshotFn: func(ctx context.Context) (model.SubscriptionSnapshot, error) {
			close(entered)
			<-release
			return model.SubscriptionSnapshot{}, nil
		},
	}

	collector := &noopCollector{}
	p := newTestPipeline(sources, passThroughStorer(), subs, &mockNotifier{}, collector)

	done := make(chan error, 1)
	go func() {
		_, err := p.RunCycleOnce(context.Background())
		done <- err
	}()

	<-entered
	_, err := p.RunCycleOnce(context.Background())
	if !errors.Is(err, model.ErrCycleInProgress) {
		t.Errorf("second trigger error = %v, want ErrCycleInProgress", err)
	}
	if collector.rejected != 1 {
		t.Errorf("rejected count = %d, want 1", collector.rejected)
	}

	close(release)
	if err := <-done; err != nil {
		t.Errorf("first cycle error = %v, want nil", err)
	}
}

// 1ソースの保存失敗が他のソースの処理を止めないことを検証
func TestRunCycleOnce_IsolatesStoreFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a":
			w.Write([]byte(`[{"id": "A-1", "name": "первый"}]`))
		case "/b":
			w.Write([]byte(`[{"id": "B-1", "name": "второй"}]`))
		}
	}))
	defer ts.Close()

	sources := []model.SourceConfig{
		{Name: "src-a", Type: model.SourceTypeJSON, URL: ts.URL + "/a"},
		{Name: "src-b", Type: model.SourceTypeJSON, URL: ts.URL + "/b"},
	}

	store := &mockStorer{
		storeFn: func(ctx context.Context, source string, tenders []*model.Tender) ([]*model.Tender, error) {
			if source == "src-a" {
				return nil, errors.New("db error")
			}
			return tenders, nil
		},
	}

	p := newTestPipeline(sources, store, emptySnapshots(), &mockNotifier{}, &noopCollector{})
	result, err := p.RunCycleOnce(context.Background())
	if err != nil {
		t.Fatalf("RunCycleOnce() error = %v, want nil", err)
	}

	if result.New != 1 {
		t.Errorf("result.New = %d, want 1 (only src-b)", result.New)
	}
}

// サイクルの2回実行で同じテンダーが重複通知されないことを検証
func TestRunCycleOnce_IdempotentAcrossCycles(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": "PN-1", "name": "ремонт"}]`))
	}))
	defer ts.Close()

	sources := []model.SourceConfig{
		{Name: "src", Type: model.SourceTypeJSON, URL: ts.URL},
	}

	// 2回目の保存では既存として弾く
	seen := map[string]bool{}
	store := &mockStorer{
		storeFn: func(ctx context.Context, source string, tenders []*model.Tender) ([]*model.Tender, error) {
			var fresh []*model.Tender
			for _, t := range tenders {
				if seen[t.PurchaseNumber] {
					continue
				}
				seen[t.PurchaseNumber] = true
				fresh = append(fresh, t)
			}
			return fresh, nil
		},
	}

	p := newTestPipeline(sources, store, emptySnapshots(), &mockNotifier{}, &noopCollector{})

	first, err := p.RunCycleOnce(context.Background())
	if err != nil {
		t.Fatalf("first cycle error = %v", err)
	}
	second, err := p.RunCycleOnce(context.Background())
	if err != nil {
		t.Fatalf("second cycle error = %v", err)
	}

	if first.New != 1 {
		t.Errorf("first.New = %d, want 1", first.New)
	}
	if second.New != 0 {
		t.Errorf("second.New = %d, want 0", second.New)
	}
}
