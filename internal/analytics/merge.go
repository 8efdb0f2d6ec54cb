package analytics

import (
	"sort"
	"time"

	"github.com/maxrep/maxrep-cli/internal/model"
)

// Local holds entries the server may not have folded into its series yet.
type Local struct {
	Meals    []model.MealLog
	Workouts []model.WorkoutLog
}

func (l Local) empty() bool {
	return len(l.Meals) == 0 && len(l.Workouts) == 0
}

// MergeSeries returns the server series clipped to the period window, plus a
// point for today built from local entries when the server has none. The
// synthesized point takes consistency from the latest summary.
func MergeSeries(server []model.AnalyticsPoint, local Local, consistency float64, p Period, now time.Time) []model.AnalyticsPoint {
	w := WindowFor(p, now)
	today := w.End

	out := make([]model.AnalyticsPoint, 0, len(server)+1)
	hasToday := false
	for _, pt := range server {
		if pt.Date == today {
			hasToday = true
		}
		if w.Contains(pt.Date) {
			out = append(out, pt)
		}
	}

	todays := Local{Meals: OnDate(local.Meals, today), Workouts: OnDate(local.Workouts, today)}
	if !hasToday && !todays.empty() {
		out = append(out, synthesize(today, todays, consistency))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func synthesize(date string, local Local, consistency float64) model.AnalyticsPoint {
	pt := model.AnalyticsPoint{Date: date, ConsistencyScore: consistency}
	for _, m := range local.Meals {
		pt.CaloriesConsumed += m.Calories
		pt.ProteinG += m.ProteinG
		pt.CarbsG += m.CarbsG
		pt.FatsG += m.FatsG
	}
	for _, w := range local.Workouts {
		pt.WorkoutMinutes += w.Minutes()
		pt.WorkoutEntries++
	}
	return pt
}

type WorkoutPoint struct {
	Date        string  `json:"date"`
	Burn        float64 `json:"burn_kcal"`
	Minutes     float64 `json:"minutes"`
	Sessions    int     `json:"sessions"`
	Consistency float64 `json:"consistency"`
}

// WorkoutSeries groups period workouts by day and joins the server's
// consistency score for each day. A day the server has not scored yet (today,
// usually) takes the latest summary consistency.
func WorkoutSeries(workouts []model.WorkoutLog, server []model.AnalyticsPoint, consistency float64, p Period, now time.Time) []WorkoutPoint {
	scores := make(map[string]float64, len(server))
	for _, pt := range server {
		scores[pt.Date] = pt.ConsistencyScore
	}
	today := Today(now)

	byDate := map[string]*WorkoutPoint{}
	for _, w := range FilterToPeriod(workouts, p, now) {
		pt, ok := byDate[w.Date]
		if !ok {
			score, scored := scores[w.Date]
			if !scored && w.Date == today {
				score = consistency
			}
			pt = &WorkoutPoint{Date: w.Date, Consistency: score}
			byDate[w.Date] = pt
		}
		pt.Burn += w.CaloriesBurnedKcal
		pt.Minutes += w.Minutes()
		pt.Sessions++
	}

	out := make([]WorkoutPoint, 0, len(byDate))
	for _, pt := range byDate {
		out = append(out, *pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
