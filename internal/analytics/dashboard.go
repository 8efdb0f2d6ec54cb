package analytics

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/maxrep/maxrep-cli/internal/model"
)

// Source fetches server-computed analytics.
type Source interface {
	Analytics(ctx context.Context, period string) ([]model.AnalyticsPoint, error)
	Summary(ctx context.Context) (model.TrackingSummary, error)
}

type MealSource interface {
	All() []model.MealLog
}

type WorkoutSource interface {
	All() []model.WorkoutLog
}

type SnapshotStore interface {
	Save(period string, points []model.AnalyticsPoint, fetchedAt time.Time) error
	Load(period string) ([]model.AnalyticsPoint, time.Time, error)
}

// Dashboard reconciles server analytics with local entries for the period
// selected in View.
type Dashboard struct {
	Source    Source
	Meals     MealSource
	Workouts  WorkoutSource
	Snapshots SnapshotStore
	View      *View
	Logger    *zap.Logger
	Now       func() time.Time
}

func (d *Dashboard) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d *Dashboard) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func (d *Dashboard) local() ([]model.MealLog, []model.WorkoutLog) {
	var meals []model.MealLog
	var workouts []model.WorkoutLog
	if d.Meals != nil {
		meals = d.Meals.All()
	}
	if d.Workouts != nil {
		workouts = d.Workouts.All()
	}
	return meals, workouts
}

// Recompute fetches the active period and commits the result unless the
// selection changed meanwhile. Calling it again with unchanged inputs yields
// the same result.
func (d *Dashboard) Recompute(ctx context.Context) (Result, bool, error) {
	ticket := d.View.Begin()
	log := d.logger().With(zap.String("period", string(ticket.Period)), zap.String("request_key", ticket.Key))

	points, err := d.Source.Analytics(ctx, string(ticket.Period))
	if err != nil {
		return Result{}, false, fmt.Errorf("fetch %s analytics: %w", ticket.Period, err)
	}
	summary, err := d.Source.Summary(ctx)
	if err != nil {
		return Result{}, false, fmt.Errorf("fetch tracking summary: %w", err)
	}

	meals, workouts := d.local()
	res := Build(ticket.Period, points, summary, meals, workouts, d.now())
	if !d.View.Commit(ticket, res) {
		log.Debug("dropping stale analytics result")
		return res, false, nil
	}
	if d.Snapshots != nil {
		if err := d.Snapshots.Save(string(ticket.Period), res.Series, res.ComputedAt); err != nil {
			log.Warn("save analytics snapshot", zap.Error(err))
		}
	}
	return res, true, nil
}

// Offline builds a result from the last saved snapshot and local entries.
func (d *Dashboard) Offline(p Period) (Result, error) {
	if d.Snapshots == nil {
		return Result{}, fmt.Errorf("no snapshot store configured")
	}
	points, fetchedAt, err := d.Snapshots.Load(string(p))
	if err != nil {
		return Result{}, err
	}
	meals, workouts := d.local()
	var consistency float64
	if n := len(points); n > 0 {
		consistency = points[n-1].ConsistencyScore
	}
	res := Build(p, points, model.TrackingSummary{ConsistencyScore: consistency}, meals, workouts, d.now())
	res.Offline = true
	if !fetchedAt.IsZero() {
		res.ComputedAt = fetchedAt
	}
	return res, nil
}

// Build derives every dashboard figure from fetched and local data.
func Build(p Period, points []model.AnalyticsPoint, summary model.TrackingSummary, meals []model.MealLog, workouts []model.WorkoutLog, now time.Time) Result {
	periodMeals := FilterToPeriod(meals, p, now)
	periodWorkouts := FilterToPeriod(workouts, p, now)

	series := MergeSeries(points, Local{Meals: meals, Workouts: workouts}, summary.ConsistencyScore, p, now)
	return Result{
		Period:     p,
		Series:     series,
		Summary:    Summarize(series),
		Tracking:   summary,
		Calories:   AssessCalories(p, summary.CalorieTarget, periodMeals),
		Cardio:     AssessCardio(periodWorkouts),
		Workouts:   WorkoutSeries(workouts, points, summary.ConsistencyScore, p, now),
		ComputedAt: now,
	}
}
