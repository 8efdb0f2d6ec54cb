package db

import (
	"database/sql"
	"fmt"
	"time"
)

type DoctorReport struct {
	ExpiredCookies      int `json:"expired_cookies"`
	InvalidUndoSlots    int `json:"invalid_undo_slots"`
	InvalidSnapshotRows int `json:"invalid_snapshot_rows"`
	FixedRows           int `json:"fixed_rows,omitempty"`
}

func (r DoctorReport) Healthy() bool {
	return r.ExpiredCookies == 0 && r.InvalidUndoSlots == 0 && r.InvalidSnapshotRows == 0
}

const (
	expiredCookiesWhere = `expires_at IS NOT NULL AND expires_at <= ?`
	invalidUndoWhere    = `CASE WHEN json_valid(payload_json) THEN json_type(payload_json) != 'object' ELSE 1 END`
	invalidSnapshotWhere = `period NOT IN ('daily', 'weekly', 'monthly', 'yearly')
  OR date NOT GLOB '[0-9][0-9][0-9][0-9]-[0-1][0-9]-[0-3][0-9]'`
)

// RunDoctor counts local rows that can no longer be used. With fix, those
// rows are deleted in one transaction.
func RunDoctor(sqldb *sql.DB, fix bool) (DoctorReport, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	var report DoctorReport
	checks := []struct {
		table string
		where string
		args  []any
		count *int
	}{
		{"cookies", expiredCookiesWhere, []any{now}, &report.ExpiredCookies},
		{"undo_slots", invalidUndoWhere, nil, &report.InvalidUndoSlots},
		{"analytics_snapshots", invalidSnapshotWhere, nil, &report.InvalidSnapshotRows},
	}
	for _, c := range checks {
		if err := sqldb.QueryRow(`SELECT COUNT(*) FROM `+c.table+` WHERE `+c.where, c.args...).Scan(c.count); err != nil {
			return DoctorReport{}, fmt.Errorf("check %s: %w", c.table, err)
		}
	}
	if !fix || report.Healthy() {
		return report, nil
	}

	tx, err := sqldb.Begin()
	if err != nil {
		return DoctorReport{}, fmt.Errorf("begin doctor fix tx: %w", err)
	}
	for _, c := range checks {
		res, err := tx.Exec(`DELETE FROM `+c.table+` WHERE `+c.where, c.args...)
		if err != nil {
			_ = tx.Rollback()
			return DoctorReport{}, fmt.Errorf("fix %s: %w", c.table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return DoctorReport{}, fmt.Errorf("count fixed %s rows: %w", c.table, err)
		}
		report.FixedRows += int(n)
	}
	if err := tx.Commit(); err != nil {
		return DoctorReport{}, fmt.Errorf("commit doctor fix: %w", err)
	}
	return report, nil
}
