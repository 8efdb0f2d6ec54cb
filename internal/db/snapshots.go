package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/maxrep/maxrep-cli/internal/model"
)

// Snapshots caches the last merged analytics series per period so the CLI
// can render analytics offline.
type Snapshots struct {
	DB *sql.DB
}

// Save replaces the stored series for period.
func (s Snapshots) Save(period string, points []model.AnalyticsPoint, fetchedAt time.Time) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM analytics_snapshots WHERE period = ?`, period); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear %s snapshot: %w", period, err)
	}
	stamp := fetchedAt.UTC().Format(time.RFC3339)
	for _, p := range points {
		_, err := tx.Exec(`
INSERT INTO analytics_snapshots(period, date, consistency_score, calories_consumed, water_ml, protein_g, carbs_g, fats_g, workout_minutes, workout_entries, fetched_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			period, p.Date, p.ConsistencyScore, p.CaloriesConsumed, p.WaterMl, p.ProteinG, p.CarbsG, p.FatsG, p.WorkoutMinutes, p.WorkoutEntries, stamp,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert snapshot point %s: %w", p.Date, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s snapshot: %w", period, err)
	}
	return nil
}

// Load returns the stored series in ascending date order and the time it was
// fetched. A period with no snapshot returns no points and a zero time.
func (s Snapshots) Load(period string) ([]model.AnalyticsPoint, time.Time, error) {
	rows, err := s.DB.Query(`
SELECT date, consistency_score, calories_consumed, water_ml, protein_g, carbs_g, fats_g, workout_minutes, workout_entries, fetched_at
FROM analytics_snapshots
WHERE period = ?
ORDER BY date ASC`, period)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load %s snapshot: %w", period, err)
	}
	defer rows.Close()

	var out []model.AnalyticsPoint
	var fetchedAt time.Time
	for rows.Next() {
		var p model.AnalyticsPoint
		var stamp string
		if err := rows.Scan(&p.Date, &p.ConsistencyScore, &p.CaloriesConsumed, &p.WaterMl, &p.ProteinG, &p.CarbsG, &p.FatsG, &p.WorkoutMinutes, &p.WorkoutEntries, &stamp); err != nil {
			return nil, time.Time{}, fmt.Errorf("scan snapshot point: %w", err)
		}
		if fetchedAt.IsZero() {
			t, err := time.Parse(time.RFC3339, stamp)
			if err != nil {
				return nil, time.Time{}, fmt.Errorf("parse snapshot time: %w", err)
			}
			fetchedAt = t
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("iterate snapshot: %w", err)
	}
	return out, fetchedAt, nil
}
