package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/maxrep/maxrep-cli/internal/model"
)

const (
	mealLogsPath    = "/tracking/meals/logs"
	workoutLogsPath = "/tracking/workouts/logs"
)

type mealRequest struct {
	Date     string  `json:"date"`
	MealType string  `json:"meal_type"`
	FoodName string  `json:"food_name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatsG    float64 `json:"fats_g"`
	Source   string  `json:"source,omitempty"`
}

func newMealRequest(m model.MealLog) mealRequest {
	return mealRequest{
		Date:     m.Date,
		MealType: m.MealType,
		FoodName: m.FoodName,
		Quantity: m.Quantity,
		Unit:     m.Unit,
		Calories: m.Calories,
		ProteinG: m.ProteinG,
		CarbsG:   m.CarbsG,
		FatsG:    m.FatsG,
		Source:   m.Source,
	}
}

type workoutRequest struct {
	Date               string   `json:"date"`
	Category           string   `json:"category"`
	Name               string   `json:"name"`
	Sets               *int     `json:"sets"`
	Reps               *int     `json:"reps"`
	DurationMinutes    *float64 `json:"duration_minutes"`
	CaloriesBurnedKcal float64  `json:"calories_burned_kcal"`
	Notes              *string  `json:"notes"`
}

func newWorkoutRequest(w model.WorkoutLog) workoutRequest {
	return workoutRequest{
		Date:               w.Date,
		Category:           w.Category,
		Name:               w.Name,
		Sets:               w.Sets,
		Reps:               w.Reps,
		DurationMinutes:    w.DurationMinutes,
		CaloriesBurnedKcal: w.CaloriesBurnedKcal,
		Notes:              w.Notes,
	}
}

// MealLogs returns every meal log of the last year, the widest window the
// analytics views need.
func (c *Client) MealLogs(ctx context.Context) ([]model.MealLog, error) {
	var out []model.MealLog
	if err := c.do(ctx, http.MethodGet, mealLogsPath, periodQuery("yearly"), nil, &out); err != nil {
		return nil, fmt.Errorf("list meal logs: %w", err)
	}
	return out, nil
}

func (c *Client) WorkoutLogs(ctx context.Context) ([]model.WorkoutLog, error) {
	var out []model.WorkoutLog
	if err := c.do(ctx, http.MethodGet, workoutLogsPath, periodQuery("yearly"), nil, &out); err != nil {
		return nil, fmt.Errorf("list workout logs: %w", err)
	}
	return out, nil
}

// MealBackend adapts the meal log endpoints to tracking.Backend.
type MealBackend struct{ c *Client }

func (c *Client) Meals() MealBackend { return MealBackend{c: c} }

func (b MealBackend) Create(ctx context.Context, m model.MealLog) (model.MealLog, error) {
	var out model.MealLog
	if err := b.c.do(ctx, http.MethodPost, mealLogsPath, nil, newMealRequest(m), &out); err != nil {
		return model.MealLog{}, fmt.Errorf("create meal log: %w", err)
	}
	return out, nil
}

func (b MealBackend) Update(ctx context.Context, id int64, m model.MealLog) (model.MealLog, error) {
	var out model.MealLog
	if err := b.c.do(ctx, http.MethodPut, idPath(mealLogsPath, id), nil, newMealRequest(m), &out); err != nil {
		return model.MealLog{}, fmt.Errorf("update meal log %d: %w", id, err)
	}
	if out.ID == 0 {
		out = m.WithID(id)
	}
	return out, nil
}

func (b MealBackend) Delete(ctx context.Context, id int64) error {
	if err := b.c.do(ctx, http.MethodDelete, idPath(mealLogsPath, id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete meal log %d: %w", id, err)
	}
	return nil
}

// WorkoutBackend adapts the workout log endpoints to tracking.Backend.
type WorkoutBackend struct{ c *Client }

func (c *Client) Workouts() WorkoutBackend { return WorkoutBackend{c: c} }

func (b WorkoutBackend) Create(ctx context.Context, w model.WorkoutLog) (model.WorkoutLog, error) {
	var out model.WorkoutLog
	if err := b.c.do(ctx, http.MethodPost, workoutLogsPath, nil, newWorkoutRequest(w), &out); err != nil {
		return model.WorkoutLog{}, fmt.Errorf("create workout log: %w", err)
	}
	return out, nil
}

func (b WorkoutBackend) Update(ctx context.Context, id int64, w model.WorkoutLog) (model.WorkoutLog, error) {
	var out model.WorkoutLog
	if err := b.c.do(ctx, http.MethodPut, idPath(workoutLogsPath, id), nil, newWorkoutRequest(w), &out); err != nil {
		return model.WorkoutLog{}, fmt.Errorf("update workout log %d: %w", id, err)
	}
	if out.ID == 0 {
		out = w.WithID(id)
	}
	return out, nil
}

func (b WorkoutBackend) Delete(ctx context.Context, id int64) error {
	if err := b.c.do(ctx, http.MethodDelete, idPath(workoutLogsPath, id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete workout log %d: %w", id, err)
	}
	return nil
}
