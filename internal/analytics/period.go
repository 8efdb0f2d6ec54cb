package analytics

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

var Periods = []Period{Daily, Weekly, Monthly, Yearly}

func ParsePeriod(v string) (Period, error) {
	p := Period(strings.TrimSpace(strings.ToLower(v)))
	switch p {
	case Daily, Weekly, Monthly, Yearly:
		return p, nil
	}
	return "", fmt.Errorf("invalid period %q (expected daily, weekly, monthly or yearly)", v)
}

// Days is the number of calendar days the period covers, today included.
func (p Period) Days() int {
	switch p {
	case Weekly:
		return 7
	case Monthly:
		return 30
	case Yearly:
		return 365
	default:
		return 1
	}
}

// Window is an inclusive date range in YYYY-MM-DD form.
type Window struct {
	Start string
	End   string
}

func (w Window) Contains(date string) bool {
	return date >= w.Start && date <= w.End
}

// WindowFor returns [today-(days-1), today] in today's location.
func WindowFor(p Period, today time.Time) Window {
	y, m, d := today.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	start := end.AddDate(0, 0, -(p.Days() - 1))
	return Window{Start: start.Format(DateLayout), End: end.Format(DateLayout)}
}

func Today(now time.Time) string {
	return now.Format(DateLayout)
}

type Dated interface {
	LogDate() string
}

// FilterToPeriod keeps entries whose date falls in the period window. Dates
// compare lexically, which holds for canonical YYYY-MM-DD strings.
func FilterToPeriod[E Dated](entries []E, p Period, today time.Time) []E {
	w := WindowFor(p, today)
	out := make([]E, 0, len(entries))
	for _, e := range entries {
		if w.Contains(e.LogDate()) {
			out = append(out, e)
		}
	}
	return out
}

func OnDate[E Dated](entries []E, date string) []E {
	var out []E
	for _, e := range entries {
		if e.LogDate() == date {
			out = append(out, e)
		}
	}
	return out
}

// LoggedDays counts distinct dates among entries.
func LoggedDays[E Dated](entries []E) int {
	seen := map[string]struct{}{}
	for _, e := range entries {
		seen[e.LogDate()] = struct{}{}
	}
	return len(seen)
}
