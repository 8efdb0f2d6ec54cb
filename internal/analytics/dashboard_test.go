package analytics_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/maxrep/maxrep-cli/internal/analytics"
	"github.com/maxrep/maxrep-cli/internal/model"
	"github.com/maxrep/maxrep-cli/internal/tracking"
)

type fakeSource struct {
	mu      sync.Mutex
	points  map[string][]model.AnalyticsPoint
	summary model.TrackingSummary
	calls   int
	before  func()
	err     error
}

func (f *fakeSource) Analytics(_ context.Context, period string) ([]model.AnalyticsPoint, error) {
	f.mu.Lock()
	f.calls++
	before := f.before
	f.mu.Unlock()
	if before != nil {
		before()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.points[period], nil
}

func (f *fakeSource) Summary(context.Context) (model.TrackingSummary, error) {
	return f.summary, nil
}

type mealList []model.MealLog

func (m mealList) All() []model.MealLog { return m }

type memSnapshots struct {
	saved map[string][]model.AnalyticsPoint
	at    time.Time
}

func (m *memSnapshots) Save(period string, points []model.AnalyticsPoint, at time.Time) error {
	if m.saved == nil {
		m.saved = map[string][]model.AnalyticsPoint{}
	}
	m.saved[period] = points
	m.at = at
	return nil
}

func (m *memSnapshots) Load(period string) ([]model.AnalyticsPoint, time.Time, error) {
	return m.saved[period], m.at, nil
}

func TestViewDropsStaleTickets(t *testing.T) {
	t.Parallel()

	v := analytics.NewView(analytics.Weekly)
	first := v.Begin()
	second := v.Begin()
	if v.Commit(first, analytics.Result{Period: analytics.Weekly}) {
		t.Fatalf("expected superseded ticket to be dropped")
	}
	if !v.Commit(second, analytics.Result{Period: analytics.Weekly}) {
		t.Fatalf("expected newest ticket to commit")
	}

	pending := v.Begin()
	v.Select(analytics.Monthly)
	if v.Commit(pending, analytics.Result{Period: analytics.Weekly}) {
		t.Fatalf("expected ticket for previous period to be dropped")
	}
	if _, ok := v.Current(); ok {
		t.Fatalf("expected no result after switching period")
	}
}

func TestDashboardRecomputeMergesAndSnapshots(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		points:  map[string][]model.AnalyticsPoint{"weekly": {{Date: "2024-01-09", CaloriesConsumed: 1800, ConsistencyScore: 60}}},
		summary: model.TrackingSummary{CalorieTarget: 2000, ConsistencyScore: 75},
	}
	snaps := &memSnapshots{}
	d := &analytics.Dashboard{
		Source:    src,
		Meals:     mealList{{Date: "2024-01-10", Calories: 500}, {Date: "2024-01-09", Calories: 1800}},
		Snapshots: snaps,
		View:      analytics.NewView(analytics.Weekly),
		Now:       func() time.Time { return jan10 },
	}

	res, committed, err := d.Recompute(context.Background())
	if err != nil || !committed {
		t.Fatalf("recompute: committed=%v err=%v", committed, err)
	}
	if len(res.Series) != 2 || res.Series[1].CaloriesConsumed != 500 || res.Series[1].ConsistencyScore != 75 {
		t.Fatalf("expected merged today point, got %+v", res.Series)
	}
	if res.Calories.Expected != 4000 || res.Calories.Consumed != 2300 {
		t.Fatalf("expected target over 2 logged days, got %+v", res.Calories)
	}
	if len(snaps.saved["weekly"]) != 2 {
		t.Fatalf("expected snapshot saved, got %+v", snaps.saved)
	}

	again, _, err := d.Recompute(context.Background())
	if err != nil {
		t.Fatalf("second recompute: %v", err)
	}
	if again.Summary != res.Summary || again.Calories != res.Calories {
		t.Fatalf("expected recompute to be idempotent, got %+v vs %+v", again.Summary, res.Summary)
	}

	offline, err := d.Offline(analytics.Weekly)
	if err != nil {
		t.Fatalf("offline: %v", err)
	}
	if !offline.Offline || len(offline.Series) != 2 || offline.Series[1].CaloriesConsumed != 500 {
		t.Fatalf("expected offline result from snapshot, got %+v", offline)
	}
}

func TestDashboardDropsResultForAbandonedPeriod(t *testing.T) {
	t.Parallel()

	view := analytics.NewView(analytics.Weekly)
	src := &fakeSource{points: map[string][]model.AnalyticsPoint{}}
	src.before = func() { view.Select(analytics.Monthly) }
	snaps := &memSnapshots{}
	d := &analytics.Dashboard{Source: src, View: view, Snapshots: snaps, Now: func() time.Time { return jan10 }}

	_, committed, err := d.Recompute(context.Background())
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if committed {
		t.Fatalf("expected stale result to be dropped")
	}
	if snaps.saved != nil {
		t.Fatalf("expected no snapshot for stale result")
	}
	if _, ok := view.Current(); ok {
		t.Fatalf("expected view to stay empty")
	}
}

func TestRefresherRecomputesOnTrackingEvent(t *testing.T) {
	t.Parallel()

	src := &fakeSource{points: map[string][]model.AnalyticsPoint{}}
	d := &analytics.Dashboard{
		Source: src,
		Meals:  mealList{{Date: "2024-01-10", Calories: 250}},
		View:   analytics.NewView(analytics.Daily),
		Now:    func() time.Time { return jan10 },
	}
	bus := tracking.NewBus()
	results := make(chan analytics.Result, 4)
	r := &analytics.Refresher{Target: d, Bus: bus, OnResult: func(res analytics.Result) { results <- res }}
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start refresher: %v", err)
	}
	defer r.Stop()

	bus.Publish(tracking.Event{Kind: tracking.KindMeal, Action: tracking.ActionAdd, ID: 1, Date: "2024-01-10"})
	select {
	case res := <-results:
		if len(res.Series) != 1 || res.Series[0].CaloriesConsumed != 250 {
			t.Fatalf("expected refreshed daily series, got %+v", res.Series)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for refresh")
	}
}

func TestRefresherIgnoresEventsDeliveredAfterStop(t *testing.T) {
	t.Parallel()

	src := &fakeSource{points: map[string][]model.AnalyticsPoint{}}
	d := &analytics.Dashboard{Source: src, View: analytics.NewView(analytics.Daily), Now: func() time.Time { return jan10 }}
	bus := tracking.NewBus()
	r := &analytics.Refresher{Target: d, Bus: bus}

	// Subscribed first, so the publish below has already copied the
	// refresher's handler when Stop runs.
	bus.Subscribe(func(tracking.Event) { r.Stop() })
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start refresher: %v", err)
	}

	bus.Publish(tracking.Event{Kind: tracking.KindMeal, Action: tracking.ActionAdd, ID: 1, Date: "2024-01-10"})
	r.Stop()

	src.mu.Lock()
	calls := src.calls
	src.mu.Unlock()
	if calls != 0 {
		t.Fatalf("expected no recompute after stop, got %d", calls)
	}
}

func TestRefresherReportsErrorsAndRejectsBadSchedule(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	d := &analytics.Dashboard{Source: &fakeSource{err: boom}, View: analytics.NewView(analytics.Daily)}
	var got error
	r := &analytics.Refresher{Target: d, OnError: func(err error) { got = err }}
	r.Trigger(context.Background(), "manual")
	if !errors.Is(got, boom) {
		t.Fatalf("expected source error, got %v", got)
	}

	bad := &analytics.Refresher{Target: d, Schedule: "not a schedule"}
	if err := bad.Start(context.Background()); err == nil {
		t.Fatalf("expected invalid schedule error")
	}
}
