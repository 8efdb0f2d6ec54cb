package analytics

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maxrep/maxrep-cli/internal/model"
)

type Result struct {
	Period     Period                 `json:"period"`
	Series     []model.AnalyticsPoint `json:"series"`
	Summary    Summary                `json:"summary"`
	Tracking   model.TrackingSummary  `json:"tracking_summary"`
	Calories   CalorieAssessment      `json:"calories"`
	Cardio     CardioAssessment       `json:"cardio"`
	Workouts   []WorkoutPoint         `json:"workouts"`
	ComputedAt time.Time              `json:"computed_at"`
	Offline    bool                   `json:"offline"`
}

// Ticket identifies one analytics request.
type Ticket struct {
	Period Period
	Key    string
}

// View holds the selected period and the last committed result. Each Begin
// issues a fresh key; only the newest ticket for the selected period may
// commit.
type View struct {
	mu     sync.Mutex
	period Period
	key    string
	result Result
	has    bool
}

func NewView(p Period) *View {
	return &View{period: p}
}

func (v *View) Period() Period {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.period
}

// Select switches the active period. Results still in flight for the old
// period will be discarded.
func (v *View) Select(p Period) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if p == v.period {
		return
	}
	v.period = p
	v.key = ""
	v.result, v.has = Result{}, false
}

func (v *View) Begin() Ticket {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.key = uuid.New().String()
	return Ticket{Period: v.period, Key: v.key}
}

// Commit stores r if t is still current and reports whether it did.
func (v *View) Commit(t Ticket, r Result) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if t.Key == "" || t.Key != v.key || t.Period != v.period {
		return false
	}
	v.result, v.has = r, true
	return true
}

func (v *View) Current() (Result, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.result, v.has
}
