package db_test

import (
	"testing"
	"time"

	"github.com/maxrep/maxrep-cli/internal/db"
)

func TestRunDoctorReportsAndFixesBrokenRows(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	past := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	stmts := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO cookies(origin, name, value, expires_at) VALUES('http://localhost:8000', 'old', 'x', ?)`, []any{past}},
		{`INSERT INTO cookies(origin, name, value) VALUES('http://localhost:8000', 'session', 'y')`, nil},
		{`INSERT INTO undo_slots(kind, payload_json, removed_at) VALUES('meal', '{not json', ?)`, []any{past}},
		{`INSERT INTO undo_slots(kind, payload_json, removed_at) VALUES('workout', '{"id":4}', ?)`, []any{past}},
		{`INSERT INTO analytics_snapshots(period, date, fetched_at) VALUES('fortnightly', '2024-01-10', ?)`, []any{past}},
		{`INSERT INTO analytics_snapshots(period, date, fetched_at) VALUES('weekly', '2024-01-10', ?)`, []any{past}},
	}
	for _, s := range stmts {
		if _, err := sqldb.Exec(s.query, s.args...); err != nil {
			t.Fatalf("seed %q: %v", s.query, err)
		}
	}

	report, err := db.RunDoctor(sqldb, false)
	if err != nil {
		t.Fatalf("run doctor: %v", err)
	}
	if report.ExpiredCookies != 1 || report.InvalidUndoSlots != 1 || report.InvalidSnapshotRows != 1 {
		t.Fatalf("expected one issue per table, got %+v", report)
	}
	if report.Healthy() {
		t.Fatalf("expected unhealthy report")
	}

	fixed, err := db.RunDoctor(sqldb, true)
	if err != nil {
		t.Fatalf("run doctor fix: %v", err)
	}
	if fixed.FixedRows != 3 {
		t.Fatalf("expected 3 fixed rows, got %d", fixed.FixedRows)
	}
	after, err := db.RunDoctor(sqldb, false)
	if err != nil {
		t.Fatalf("re-run doctor: %v", err)
	}
	if !after.Healthy() {
		t.Fatalf("expected healthy state after fix, got %+v", after)
	}

	payload, ok, err := db.UndoSlots{DB: sqldb}.Load("workout")
	if err != nil || !ok || string(payload) != `{"id":4}` {
		t.Fatalf("expected valid undo slot kept, got %q ok=%v err=%v", payload, ok, err)
	}
}
