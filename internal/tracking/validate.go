package tracking

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/maxrep/maxrep-cli/internal/catalog"
	"github.com/maxrep/maxrep-cli/internal/model"
)

const (
	CategoryStrength = "strength"
	CategoryCardio   = "cardio"
)

// BurnPerMinuteKcal estimates workout burn when none is recorded.
const BurnPerMinuteKcal = 7

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
	}
	return nil
}

// ValidateMeal checks a meal entry before it is saved. Quantities must meet
// the food's minimum and step.
func ValidateMeal(m model.MealLog) error {
	if err := validateDate(m.Date); err != nil {
		return err
	}
	if !catalog.IsMealType(m.MealType) {
		return fmt.Errorf("invalid meal type %q", m.MealType)
	}
	if catalog.NormalizeName(m.FoodName) == "" {
		return fmt.Errorf("food name is required")
	}
	if err := catalog.QuantityConfigFor(m.FoodName, m.Unit).Validate(m.Quantity); err != nil {
		return err
	}
	for name, v := range map[string]float64{"calories": m.Calories, "protein": m.ProteinG, "carbs": m.CarbsG, "fats": m.FatsG} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a finite number >= 0", name)
		}
	}
	return nil
}

func ValidateWorkout(w model.WorkoutLog) error {
	if err := validateDate(w.Date); err != nil {
		return err
	}
	if strings.TrimSpace(w.Category) == "" {
		return fmt.Errorf("workout category is required")
	}
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("workout name is required")
	}
	if w.Minutes() < 0 || w.CaloriesBurnedKcal < 0 {
		return fmt.Errorf("duration and burn must be >= 0")
	}
	if w.Sets != nil && *w.Sets < 0 || w.Reps != nil && *w.Reps < 0 {
		return fmt.Errorf("sets and reps must be >= 0")
	}
	return nil
}

// NormalizeWorkout lowercases the name, drops sets and reps outside strength
// training and fills in an estimated burn from the duration.
func NormalizeWorkout(w model.WorkoutLog) model.WorkoutLog {
	w.Category = strings.TrimSpace(strings.ToLower(w.Category))
	w.Name = strings.TrimSpace(strings.ToLower(w.Name))
	if w.Category != CategoryStrength {
		w.Sets, w.Reps = nil, nil
	}
	if w.CaloriesBurnedKcal <= 0 && w.Minutes() > 0 {
		w.CaloriesBurnedKcal = EstimateBurn(w.Minutes())
	}
	if w.Notes != nil && strings.TrimSpace(*w.Notes) == "" {
		w.Notes = nil
	}
	return w
}

func EstimateBurn(minutes float64) float64 {
	return math.Round(minutes * BurnPerMinuteKcal)
}
