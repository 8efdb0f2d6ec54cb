package analytics_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/maxrep/maxrep-cli/internal/analytics"
	"github.com/maxrep/maxrep-cli/internal/model"
)

var jan10 = time.Date(2024, 1, 10, 18, 30, 0, 0, time.Local)

func mealsOnDays(from, to int) []model.MealLog {
	var out []model.MealLog
	for d := from; d <= to; d++ {
		out = append(out, model.MealLog{ID: int64(d), Date: fmt.Sprintf("2024-01-%02d", d), MealType: "lunch", FoodName: "rice", Quantity: 1, Unit: "cup", Calories: 205})
	}
	return out
}

func TestWindowFor(t *testing.T) {
	t.Parallel()

	cases := map[analytics.Period]analytics.Window{
		analytics.Daily:   {Start: "2024-01-10", End: "2024-01-10"},
		analytics.Weekly:  {Start: "2024-01-04", End: "2024-01-10"},
		analytics.Monthly: {Start: "2023-12-12", End: "2024-01-10"},
		analytics.Yearly:  {Start: "2023-01-11", End: "2024-01-10"},
	}
	for p, want := range cases {
		if got := analytics.WindowFor(p, jan10); got != want {
			t.Fatalf("%s: expected %+v, got %+v", p, want, got)
		}
	}
	if _, err := analytics.ParsePeriod("fortnightly"); err == nil {
		t.Fatalf("expected invalid period error")
	}
}

func TestFilterToPeriodWeekly(t *testing.T) {
	t.Parallel()

	got := analytics.FilterToPeriod(mealsOnDays(1, 10), analytics.Weekly, jan10)
	if len(got) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(got))
	}
	if got[0].Date != "2024-01-04" || got[6].Date != "2024-01-10" {
		t.Fatalf("expected 2024-01-04..2024-01-10, got %s..%s", got[0].Date, got[6].Date)
	}
}

func TestMergeSeriesSynthesizesToday(t *testing.T) {
	t.Parallel()

	server := []model.AnalyticsPoint{
		{Date: "2024-01-09", CaloriesConsumed: 1900, ConsistencyScore: 70},
		{Date: "2024-01-08", CaloriesConsumed: 2100, ConsistencyScore: 65},
	}
	local := analytics.Local{
		Meals: []model.MealLog{
			{Date: "2024-01-10", Calories: 200, ProteinG: 10},
			{Date: "2024-01-10", Calories: 300, ProteinG: 5.5},
			{Date: "2024-01-09", Calories: 999},
		},
		Workouts: []model.WorkoutLog{{Date: "2024-01-10", Category: "cardio", Name: "run"}},
	}
	got := analytics.MergeSeries(server, local, 72, analytics.Weekly, jan10)
	if len(got) != 3 {
		t.Fatalf("expected 3 points, got %d", len(got))
	}
	if got[0].Date != "2024-01-08" || got[1].Date != "2024-01-09" {
		t.Fatalf("expected ascending order, got %+v", got)
	}
	today := got[2]
	if today.Date != "2024-01-10" || today.CaloriesConsumed != 500 || today.ProteinG != 15.5 {
		t.Fatalf("expected synthesized today point with 500 kcal, got %+v", today)
	}
	if today.ConsistencyScore != 72 || today.WorkoutEntries != 1 || today.WaterMl != 0 {
		t.Fatalf("expected summary consistency and one workout, got %+v", today)
	}
}

func TestMergeSeriesKeepsServerToday(t *testing.T) {
	t.Parallel()

	server := []model.AnalyticsPoint{
		{Date: "2024-01-10", CaloriesConsumed: 800},
		{Date: "2023-12-01", CaloriesConsumed: 1500},
	}
	local := analytics.Local{Meals: []model.MealLog{{Date: "2024-01-10", Calories: 500}}}
	got := analytics.MergeSeries(server, local, 50, analytics.Weekly, jan10)
	if len(got) != 1 || got[0].CaloriesConsumed != 800 {
		t.Fatalf("expected only the server's in-window point, got %+v", got)
	}
	if got := analytics.MergeSeries(nil, analytics.Local{}, 50, analytics.Weekly, jan10); len(got) != 0 {
		t.Fatalf("expected no synthesized point without local entries, got %+v", got)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	if got := analytics.Summarize(nil); got != (analytics.Summary{}) {
		t.Fatalf("expected zero summary, got %+v", got)
	}
	got := analytics.Summarize([]model.AnalyticsPoint{
		{ConsistencyScore: 1, CaloriesConsumed: 2000, WaterMl: 1000},
		{ConsistencyScore: 2, CaloriesConsumed: 1000, WaterMl: 2500},
		{ConsistencyScore: 2, CaloriesConsumed: 1500, WaterMl: 0},
	})
	if got.AvgConsistency != 1.67 || got.AvgCalories != 1500 || got.AvgWater != 1166.67 {
		t.Fatalf("unexpected summary %+v", got)
	}
}

func TestExpectedCaloriesUsesLoggedDays(t *testing.T) {
	t.Parallel()

	meals := append(mealsOnDays(1, 5), mealsOnDays(3, 4)...)
	days := analytics.LoggedDays(meals)
	if days != 5 {
		t.Fatalf("expected 5 distinct days, got %d", days)
	}
	if got := analytics.ExpectedCalories(analytics.Monthly, 2000, days); got != 10000 {
		t.Fatalf("expected 10000, got %v", got)
	}
	if got := analytics.ExpectedCalories(analytics.Daily, 2000, days); got != 2000 {
		t.Fatalf("expected daily target 2000, got %v", got)
	}

	a := analytics.AssessCalories(analytics.Weekly, 200, mealsOnDays(9, 10))
	if a.Expected != 400 || a.Consumed != 410 || a.Label != analytics.LabelGood {
		t.Fatalf("unexpected calorie assessment %+v", a)
	}
	if zero := analytics.AssessCalories(analytics.Weekly, 0, nil); zero.DeltaPercent != 0 || zero.Label != analytics.LabelGood {
		t.Fatalf("expected zero target to grade as good, got %+v", zero)
	}
}

func TestLabelsUseSeparateThresholds(t *testing.T) {
	t.Parallel()

	deviation := map[float64]analytics.Label{-4: analytics.LabelGood, 5: analytics.LabelGood, -10: analytics.LabelModerate, 15: analytics.LabelModerate, 20: analytics.LabelLow}
	for in, want := range deviation {
		if got := analytics.CalorieDeviationLabel(in); got != want {
			t.Fatalf("deviation %v: expected %s, got %s", in, want, got)
		}
	}
	completion := map[float64]analytics.Label{95: analytics.LabelGood, 90: analytics.LabelGood, 60: analytics.LabelModerate, 59.9: analytics.LabelLow, 5: analytics.LabelLow}
	for in, want := range completion {
		if got := analytics.CompletionLabel(in); got != want {
			t.Fatalf("completion %v: expected %s, got %s", in, want, got)
		}
	}
}

func TestAssessCardioAndWorkoutSeries(t *testing.T) {
	t.Parallel()

	thirty, fifteen, forty := 30.0, 15.0, 40.0
	workouts := []model.WorkoutLog{
		{Date: "2024-01-09", Category: "cardio", Name: "run", DurationMinutes: &thirty, CaloriesBurnedKcal: 210},
		{Date: "2024-01-10", Category: "cardio", Name: "bike", DurationMinutes: &fifteen, CaloriesBurnedKcal: 105},
		{Date: "2024-01-10", Category: "strength", Name: "squat", DurationMinutes: &forty, CaloriesBurnedKcal: 280},
	}
	a := analytics.AssessCardio(workouts)
	if a.Minutes != 45 || a.Target != 60 || a.Percent != 75 || a.Label != analytics.LabelModerate {
		t.Fatalf("unexpected cardio assessment %+v", a)
	}

	server := []model.AnalyticsPoint{{Date: "2024-01-09", ConsistencyScore: 64}}
	series := analytics.WorkoutSeries(workouts, server, 80, analytics.Weekly, jan10)
	if len(series) != 2 {
		t.Fatalf("expected 2 days, got %+v", series)
	}
	if series[0].Consistency != 64 || series[0].Sessions != 1 {
		t.Fatalf("expected server consistency for 2024-01-09, got %+v", series[0])
	}
	if series[1].Consistency != 80 || series[1].Sessions != 2 || series[1].Burn != 385 || series[1].Minutes != 55 {
		t.Fatalf("expected aggregated today point, got %+v", series[1])
	}
}
