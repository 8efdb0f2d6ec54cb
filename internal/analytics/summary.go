package analytics

import (
	"github.com/maxrep/maxrep-cli/internal/catalog"
	"github.com/maxrep/maxrep-cli/internal/model"
	"github.com/maxrep/maxrep-cli/internal/tracking"
)

type Summary struct {
	AvgConsistency    float64 `json:"avg_consistency"`
	AvgCalories       float64 `json:"avg_calories"`
	AvgWater          float64 `json:"avg_water_ml"`
	AvgProtein        float64 `json:"avg_protein_g"`
	AvgCarbs          float64 `json:"avg_carbs_g"`
	AvgFats           float64 `json:"avg_fats_g"`
	AvgWorkoutMinutes float64 `json:"avg_workout_minutes"`
}

// Summarize averages each field over points. Empty input yields zeros.
func Summarize(points []model.AnalyticsPoint) Summary {
	if len(points) == 0 {
		return Summary{}
	}
	var s Summary
	for _, p := range points {
		s.AvgConsistency += p.ConsistencyScore
		s.AvgCalories += p.CaloriesConsumed
		s.AvgWater += p.WaterMl
		s.AvgProtein += p.ProteinG
		s.AvgCarbs += p.CarbsG
		s.AvgFats += p.FatsG
		s.AvgWorkoutMinutes += p.WorkoutMinutes
	}
	n := float64(len(points))
	return Summary{
		AvgConsistency:    catalog.Round2(s.AvgConsistency / n),
		AvgCalories:       catalog.Round2(s.AvgCalories / n),
		AvgWater:          catalog.Round2(s.AvgWater / n),
		AvgProtein:        catalog.Round2(s.AvgProtein / n),
		AvgCarbs:          catalog.Round2(s.AvgCarbs / n),
		AvgFats:           catalog.Round2(s.AvgFats / n),
		AvgWorkoutMinutes: catalog.Round2(s.AvgWorkoutMinutes / n),
	}
}

type MealTotalsResult struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein_g"`
	Carbs    float64 `json:"carbs_g"`
	Fats     float64 `json:"fats_g"`
	Entries  int     `json:"entries"`
}

func MealTotals(meals []model.MealLog) MealTotalsResult {
	var t MealTotalsResult
	for _, m := range meals {
		t.Calories += m.Calories
		t.Protein += m.ProteinG
		t.Carbs += m.CarbsG
		t.Fats += m.FatsG
		t.Entries++
	}
	t.Calories = catalog.Round2(t.Calories)
	t.Protein = catalog.Round2(t.Protein)
	t.Carbs = catalog.Round2(t.Carbs)
	t.Fats = catalog.Round2(t.Fats)
	return t
}

type WorkoutTotalsResult struct {
	Burn             float64 `json:"burn_kcal"`
	Minutes          float64 `json:"minutes"`
	Sessions         int     `json:"sessions"`
	CardioMinutes    float64 `json:"cardio_minutes"`
	StrengthSessions int     `json:"strength_sessions"`
}

func WorkoutTotals(workouts []model.WorkoutLog) WorkoutTotalsResult {
	var t WorkoutTotalsResult
	for _, w := range workouts {
		t.Burn += w.CaloriesBurnedKcal
		t.Minutes += w.Minutes()
		t.Sessions++
		switch w.Category {
		case tracking.CategoryCardio:
			t.CardioMinutes += w.Minutes()
		case tracking.CategoryStrength:
			t.StrengthSessions++
		}
	}
	return t
}
