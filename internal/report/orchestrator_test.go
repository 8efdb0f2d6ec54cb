package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maxrep/maxrep-cli/internal/analytics"
	"github.com/maxrep/maxrep-cli/internal/model"
	"github.com/maxrep/maxrep-cli/internal/report"
)

type recordingAnalyzer struct {
	requests []model.PerformanceAnalysisRequest
}

func (r *recordingAnalyzer) PerformanceReport(_ context.Context, in model.PerformanceAnalysisRequest) (model.PerformanceAnalysisResponse, error) {
	r.requests = append(r.requests, in)
	return model.PerformanceAnalysisResponse{Dashboard: model.PerformanceDashboard{OverallPerformanceScore: 81}}, nil
}

var now = time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)

func sampleMeals() []model.MealLog {
	return []model.MealLog{
		{Date: "2024-01-10", MealType: "breakfast", FoodName: "oats", Quantity: 1.5, Unit: "50g"},
		{Date: "2024-01-10", MealType: "lunch", FoodName: "rice", Quantity: 2, Unit: "cup"},
		{Date: "2024-01-08", MealType: "dinner", FoodName: "roti", Quantity: 3, Unit: "piece"},
		{Date: "2023-12-01", MealType: "dinner", FoodName: "fish", Quantity: 1, Unit: "100g"},
	}
}

func TestMealEntryText(t *testing.T) {
	t.Parallel()

	got := report.MealEntryText(sampleMeals()[:2])
	want := "2024-01-10 breakfast: 1.5 50g oats. 2024-01-10 lunch: 2 cup rice"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWorkoutEntryText(t *testing.T) {
	t.Parallel()

	sets, reps, minutes := 4, 8, 45.0
	got := report.WorkoutEntryText([]model.WorkoutLog{
		{Date: "2024-01-10", Category: "strength", Name: "bench press", Sets: &sets, Reps: &reps},
		{Date: "2024-01-10", Category: "cardio", Name: "run", DurationMinutes: &minutes},
	})
	want := "2024-01-10 strength: bench press 4x8. 2024-01-10 cardio: run, 45 min"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestAnalyzeMealsUsesPeriodSource(t *testing.T) {
	t.Parallel()

	analyzer := &recordingAnalyzer{}
	o := &report.Orchestrator{Analyzer: analyzer, Now: func() time.Time { return now }}

	resp, err := o.AnalyzeMeals(context.Background(), sampleMeals(), analytics.Daily, report.Options{})
	if err != nil {
		t.Fatalf("analyze daily: %v", err)
	}
	if resp.Dashboard.OverallPerformanceScore != 81 {
		t.Fatalf("expected analyzer response, got %+v", resp)
	}
	if got := analyzer.requests[0].EntryText; got != "2024-01-10 breakfast: 1.5 50g oats. 2024-01-10 lunch: 2 cup rice" {
		t.Fatalf("expected today's meals only, got %q", got)
	}
	if analyzer.requests[0].SaveToDailyLog {
		t.Fatalf("expected save_to_daily_log to default to false")
	}

	if _, err := o.AnalyzeMeals(context.Background(), sampleMeals(), analytics.Weekly, report.Options{Goal: "fat_loss", MaintenanceKcal: 2200}); err != nil {
		t.Fatalf("analyze weekly: %v", err)
	}
	weekly := analyzer.requests[1]
	if weekly.EntryText != "2024-01-10 breakfast: 1.5 50g oats. 2024-01-10 lunch: 2 cup rice. 2024-01-08 dinner: 3 piece roti" {
		t.Fatalf("expected weekly window entries, got %q", weekly.EntryText)
	}
	if weekly.Goal != "fat_loss" || weekly.MaintenanceKcal != 2200 {
		t.Fatalf("expected options passed through, got %+v", weekly)
	}
}

func TestAnalyzeWithoutEntriesSendsNothing(t *testing.T) {
	t.Parallel()

	analyzer := &recordingAnalyzer{}
	o := &report.Orchestrator{Analyzer: analyzer, Now: func() time.Time { return now.AddDate(0, 0, 3) }}
	if _, err := o.AnalyzeMeals(context.Background(), sampleMeals(), analytics.Daily, report.Options{}); !errors.Is(err, report.ErrNoEntries) {
		t.Fatalf("expected ErrNoEntries, got %v", err)
	}
	if _, err := o.Analyze(context.Background(), "   ", report.Options{}); !errors.Is(err, report.ErrNoEntries) {
		t.Fatalf("expected ErrNoEntries for blank text, got %v", err)
	}
	if _, err := o.Analyze(context.Background(), "2 eggs and a run", report.Options{Goal: "bulk"}); err == nil {
		t.Fatalf("expected invalid goal error")
	}
	if len(analyzer.requests) != 0 {
		t.Fatalf("expected no requests, got %d", len(analyzer.requests))
	}
}
