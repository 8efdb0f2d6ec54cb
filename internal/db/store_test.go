package db_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/maxrep/maxrep-cli/internal/db"
	"github.com/maxrep/maxrep-cli/internal/model"
)

func TestCookieJarPersistsAcrossOpens(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	u, _ := url.Parse("http://localhost:8000/api/v1/auth/login")

	jar, err := db.OpenCookieJar(sqldb, nil)
	if err != nil {
		t.Fatalf("open jar: %v", err)
	}
	jar.SetCookies(u, []*http.Cookie{
		{Name: "maxrep_csrf", Value: "tok", Path: "/"},
		{Name: "maxrep_access", Value: "acc", Path: "/", HttpOnly: true, Expires: time.Now().Add(time.Hour)},
		{Name: "stale", Value: "x", Path: "/", Expires: time.Now().Add(-time.Hour)},
	})

	reopened, err := db.OpenCookieJar(sqldb, nil)
	if err != nil {
		t.Fatalf("reopen jar: %v", err)
	}
	got := map[string]string{}
	for _, c := range reopened.Cookies(u) {
		got[c.Name] = c.Value
	}
	if got["maxrep_csrf"] != "tok" || got["maxrep_access"] != "acc" {
		t.Fatalf("expected persisted session cookies, got %+v", got)
	}
	if _, ok := got["stale"]; ok {
		t.Fatalf("expected expired cookie to be dropped, got %+v", got)
	}

	reopened.SetCookies(u, []*http.Cookie{{Name: "maxrep_csrf", Path: "/", MaxAge: -1}})
	third, err := db.OpenCookieJar(sqldb, nil)
	if err != nil {
		t.Fatalf("third open: %v", err)
	}
	for _, c := range third.Cookies(u) {
		if c.Name == "maxrep_csrf" {
			t.Fatalf("expected deleted csrf cookie to stay deleted")
		}
	}

	if err := third.Clear(); err != nil {
		t.Fatalf("clear jar: %v", err)
	}
	if n := len(third.Cookies(u)); n != 0 {
		t.Fatalf("expected empty jar after clear, got %d cookies", n)
	}
	var rows int
	if err := sqldb.QueryRow(`SELECT COUNT(1) FROM cookies`).Scan(&rows); err != nil {
		t.Fatalf("count cookies: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected no stored cookies after clear, got %d", rows)
	}
}

func TestUndoSlotsRoundTrip(t *testing.T) {
	t.Parallel()

	slots := db.UndoSlots{DB: newTestDB(t)}
	if _, ok, err := slots.Load("meal"); err != nil || ok {
		t.Fatalf("expected empty slot, got ok=%v err=%v", ok, err)
	}
	if err := slots.Save("meal", []byte(`{"id":1}`)); err != nil {
		t.Fatalf("save slot: %v", err)
	}
	if err := slots.Save("meal", []byte(`{"id":7}`)); err != nil {
		t.Fatalf("overwrite slot: %v", err)
	}
	payload, ok, err := slots.Load("meal")
	if err != nil || !ok {
		t.Fatalf("load slot: ok=%v err=%v", ok, err)
	}
	if string(payload) != `{"id":7}` {
		t.Fatalf("expected latest payload, got %s", payload)
	}
	if _, ok, _ := slots.Load("workout"); ok {
		t.Fatalf("expected workout slot to be independent")
	}
	if err := slots.Clear("meal"); err != nil {
		t.Fatalf("clear slot: %v", err)
	}
	if _, ok, _ := slots.Load("meal"); ok {
		t.Fatalf("expected slot cleared")
	}
}

func TestSnapshotsReplacePeriod(t *testing.T) {
	t.Parallel()

	snaps := db.Snapshots{DB: newTestDB(t)}
	fetched := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	first := []model.AnalyticsPoint{{Date: "2024-01-09", CaloriesConsumed: 1800}, {Date: "2024-01-08", CaloriesConsumed: 2000}}
	if err := snaps.Save("weekly", first, fetched); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	second := []model.AnalyticsPoint{{Date: "2024-01-10", CaloriesConsumed: 500, WorkoutEntries: 1}}
	if err := snaps.Save("weekly", second, fetched.Add(time.Hour)); err != nil {
		t.Fatalf("replace snapshot: %v", err)
	}

	points, at, err := snaps.Load("weekly")
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if len(points) != 1 || points[0].Date != "2024-01-10" || points[0].WorkoutEntries != 1 {
		t.Fatalf("expected replaced series, got %+v", points)
	}
	if !at.Equal(fetched.Add(time.Hour)) {
		t.Fatalf("expected fetched time %s, got %s", fetched.Add(time.Hour), at)
	}

	empty, at, err := snaps.Load("monthly")
	if err != nil || len(empty) != 0 || !at.IsZero() {
		t.Fatalf("expected empty monthly snapshot, got %+v %s %v", empty, at, err)
	}
}
