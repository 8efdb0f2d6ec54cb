package report

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/maxrep/maxrep-cli/internal/analytics"
	"github.com/maxrep/maxrep-cli/internal/model"
)

var ErrNoEntries = errors.New("no entries to analyze")

var Goals = []string{"fat_loss", "muscle_gain", "maintain"}

// Analyzer sends analysis requests, normally the tracking API.
type Analyzer interface {
	PerformanceReport(ctx context.Context, in model.PerformanceAnalysisRequest) (model.PerformanceAnalysisResponse, error)
}

// Options are passed through to the analysis request. Zero values are left
// to the server's defaults.
type Options struct {
	MaintenanceKcal float64
	Goal            string
	BodyWeightKg    float64
	SaveToDailyLog  bool
}

func (o Options) validate() error {
	if o.MaintenanceKcal != 0 && (o.MaintenanceKcal <= 800 || o.MaintenanceKcal >= 6000) {
		return fmt.Errorf("maintenance kcal must be between 800 and 6000")
	}
	if o.BodyWeightKg != 0 && (o.BodyWeightKg <= 30 || o.BodyWeightKg >= 300) {
		return fmt.Errorf("body weight must be between 30 and 300 kg")
	}
	if o.Goal != "" {
		for _, g := range Goals {
			if g == o.Goal {
				return nil
			}
		}
		return fmt.Errorf("invalid goal %q (expected %s)", o.Goal, strings.Join(Goals, ", "))
	}
	return nil
}

type Orchestrator struct {
	Analyzer Analyzer
	Now      func() time.Time
	Logger   *zap.Logger
}

func (o *Orchestrator) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MealEntryText renders meals as "<date> <meal>: <qty> <unit> <food>" joined
// by ". ".
func MealEntryText(meals []model.MealLog) string {
	parts := make([]string, 0, len(meals))
	for _, m := range meals {
		parts = append(parts, fmt.Sprintf("%s %s: %s %s %s", m.Date, m.MealType, formatNumber(m.Quantity), m.Unit, m.FoodName))
	}
	return strings.Join(parts, ". ")
}

func WorkoutEntryText(workouts []model.WorkoutLog) string {
	parts := make([]string, 0, len(workouts))
	for _, w := range workouts {
		var b strings.Builder
		fmt.Fprintf(&b, "%s %s: %s", w.Date, w.Category, w.Name)
		if w.Sets != nil && w.Reps != nil {
			fmt.Fprintf(&b, " %dx%d", *w.Sets, *w.Reps)
		}
		if w.Minutes() > 0 {
			fmt.Fprintf(&b, ", %s min", formatNumber(w.Minutes()))
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, ". ")
}

// SourceEntries picks the entries a report covers: today's for the daily
// period, the period window otherwise.
func SourceEntries[E analytics.Dated](entries []E, p analytics.Period, now time.Time) []E {
	if p == analytics.Daily {
		return analytics.OnDate(entries, analytics.Today(now))
	}
	return analytics.FilterToPeriod(entries, p, now)
}

func (o *Orchestrator) AnalyzeMeals(ctx context.Context, meals []model.MealLog, p analytics.Period, opts Options) (model.PerformanceAnalysisResponse, error) {
	return o.Analyze(ctx, MealEntryText(SourceEntries(meals, p, o.now())), opts)
}

func (o *Orchestrator) AnalyzeWorkouts(ctx context.Context, workouts []model.WorkoutLog, p analytics.Period, opts Options) (model.PerformanceAnalysisResponse, error) {
	return o.Analyze(ctx, WorkoutEntryText(SourceEntries(workouts, p, o.now())), opts)
}

// Analyze sends free text for analysis. Nothing is sent when text is empty.
func (o *Orchestrator) Analyze(ctx context.Context, text string, opts Options) (model.PerformanceAnalysisResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.PerformanceAnalysisResponse{}, ErrNoEntries
	}
	if len(text) < 3 {
		return model.PerformanceAnalysisResponse{}, fmt.Errorf("entry text must be at least 3 characters")
	}
	if err := opts.validate(); err != nil {
		return model.PerformanceAnalysisResponse{}, err
	}

	if o.Logger != nil {
		o.Logger.Debug("requesting performance report", zap.Int("entry_chars", len(text)), zap.Bool("save_to_daily_log", opts.SaveToDailyLog))
	}
	resp, err := o.Analyzer.PerformanceReport(ctx, model.PerformanceAnalysisRequest{
		EntryText:       text,
		MaintenanceKcal: opts.MaintenanceKcal,
		Goal:            opts.Goal,
		BodyWeightKg:    opts.BodyWeightKg,
		SaveToDailyLog:  opts.SaveToDailyLog,
	})
	if err != nil {
		return model.PerformanceAnalysisResponse{}, fmt.Errorf("analyze entries: %w", err)
	}
	return resp, nil
}
