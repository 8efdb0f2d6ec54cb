package analytics

import (
	"math"

	"github.com/maxrep/maxrep-cli/internal/model"
)

type Label string

const (
	LabelGood     Label = "good"
	LabelModerate Label = "moderate"
	LabelLow      Label = "low"
)

// CardioMinutesPerDay is the cardio target for each logged day.
const CardioMinutesPerDay = 30

// CalorieDeviationLabel grades how far intake strayed from target, in
// percent. Sign is ignored.
func CalorieDeviationLabel(deviationPercent float64) Label {
	d := math.Abs(deviationPercent)
	switch {
	case d <= 5:
		return LabelGood
	case d <= 15:
		return LabelModerate
	default:
		return LabelLow
	}
}

// CompletionLabel grades percent-of-target completion.
func CompletionLabel(percent float64) Label {
	switch {
	case percent >= 90:
		return LabelGood
	case percent >= 60:
		return LabelModerate
	default:
		return LabelLow
	}
}

// ExpectedCalories is the intake target for the period. Only logged days
// count toward longer periods.
func ExpectedCalories(p Period, dailyTarget float64, loggedDays int) float64 {
	if p == Daily {
		return dailyTarget
	}
	return dailyTarget * float64(loggedDays)
}

type CalorieAssessment struct {
	Consumed     float64 `json:"consumed"`
	Expected     float64 `json:"expected"`
	Delta        float64 `json:"delta"`
	DeltaPercent float64 `json:"delta_percent"`
	LoggedDays   int     `json:"logged_days"`
	Label        Label   `json:"label"`
}

// AssessCalories compares period meals with the daily target. meals must
// already be filtered to the period.
func AssessCalories(p Period, dailyTarget float64, meals []model.MealLog) CalorieAssessment {
	days := LoggedDays(meals)
	a := CalorieAssessment{
		Consumed:   MealTotals(meals).Calories,
		Expected:   ExpectedCalories(p, dailyTarget, days),
		LoggedDays: days,
	}
	a.Delta = a.Consumed - a.Expected
	if a.Expected > 0 {
		a.DeltaPercent = a.Delta / a.Expected * 100
	}
	a.Label = CalorieDeviationLabel(a.DeltaPercent)
	return a
}

type CardioAssessment struct {
	Minutes    float64 `json:"minutes"`
	Target     float64 `json:"target"`
	Percent    float64 `json:"percent"`
	LoggedDays int     `json:"logged_days"`
	Label      Label   `json:"label"`
}

// AssessCardio compares cardio minutes with 30 minutes per logged day.
// workouts must already be filtered to the period.
func AssessCardio(workouts []model.WorkoutLog) CardioAssessment {
	days := LoggedDays(workouts)
	a := CardioAssessment{
		Minutes:    WorkoutTotals(workouts).CardioMinutes,
		Target:     float64(days * CardioMinutesPerDay),
		LoggedDays: days,
	}
	if a.Target > 0 {
		a.Percent = a.Minutes / a.Target * 100
	}
	a.Label = CompletionLabel(a.Percent)
	return a
}
