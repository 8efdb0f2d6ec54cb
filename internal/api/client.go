package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/maxrep/maxrep-cli/internal/model"
	"github.com/maxrep/maxrep-cli/internal/session"
)

const DefaultInFlightRetries = 3

// Client exposes the backend's tracking and auth endpoints. Calls rejected
// because another call is refreshing the session are retried a few times,
// paced by Limiter.
type Client struct {
	Session         *session.Client
	Limiter         *rate.Limiter
	InFlightRetries int
	Logger          *zap.Logger

	// OnSessionLost runs after a failed refresh, once the cached user has
	// been dropped. The CLI clears the cookie jar here.
	OnSessionLost func(error)

	mu   sync.Mutex
	user *model.AuthUser
}

func New(sc *session.Client) *Client {
	c := &Client{
		Session:         sc,
		Limiter:         rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
		InFlightRetries: DefaultInFlightRetries,
	}
	prev := sc.OnUnauthenticated
	sc.OnUnauthenticated = func(err error) {
		if prev != nil {
			prev(err)
		}
		c.ForgetUser()
		if c.OnSessionLost != nil {
			c.OnSessionLost(err)
		}
	}
	return c
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	for attempt := 0; ; attempt++ {
		req, err := session.NewJSONRequest(method, path, body)
		if err != nil {
			return err
		}
		req.Query = query

		err = c.Session.DoJSON(ctx, req, out)
		if err == nil || !errors.Is(err, session.ErrRefreshInFlight) || attempt >= c.InFlightRetries {
			return err
		}
		c.logger().Debug("session refresh in flight, retrying", zap.String("path", path), zap.Int("attempt", attempt+1))
		if c.Limiter != nil {
			if werr := c.Limiter.Wait(ctx); werr != nil {
				return fmt.Errorf("wait to retry %s %s: %w", method, path, werr)
			}
		}
	}
}

func (c *Client) CachedUser() (model.AuthUser, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return model.AuthUser{}, false
	}
	return *c.user, true
}

func (c *Client) ForgetUser() {
	c.mu.Lock()
	c.user = nil
	c.mu.Unlock()
}

func (c *Client) remember(u model.AuthUser) {
	c.mu.Lock()
	c.user = &u
	c.mu.Unlock()
}

func (c *Client) Me(ctx context.Context) (model.AuthUser, error) {
	var u model.AuthUser
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &u); err != nil {
		return model.AuthUser{}, fmt.Errorf("fetch current user: %w", err)
	}
	c.remember(u)
	return u, nil
}

func (c *Client) Login(ctx context.Context, in model.LoginRequest) (model.AuthUser, error) {
	var u model.AuthUser
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, in, &u); err != nil {
		return model.AuthUser{}, fmt.Errorf("log in: %w", err)
	}
	c.remember(u)
	return u, nil
}

func (c *Client) Register(ctx context.Context, in model.RegisterRequest) (model.AuthUser, error) {
	var u model.AuthUser
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, in, &u); err != nil {
		return model.AuthUser{}, fmt.Errorf("register: %w", err)
	}
	c.remember(u)
	return u, nil
}

func (c *Client) Logout(ctx context.Context) error {
	defer c.ForgetUser()
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil); err != nil {
		return fmt.Errorf("log out: %w", err)
	}
	return nil
}

func (c *Client) DefaultFoods(ctx context.Context) ([]model.CustomFood, error) {
	var out []model.CustomFood
	if err := c.do(ctx, http.MethodGet, "/tracking/foods/default", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list default foods: %w", err)
	}
	return out, nil
}

func (c *Client) CustomFoods(ctx context.Context) ([]model.CustomFood, error) {
	var out []model.CustomFood
	if err := c.do(ctx, http.MethodGet, "/tracking/foods/custom", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list custom foods: %w", err)
	}
	return out, nil
}

type customFoodRequest struct {
	Name            string  `json:"name"`
	Unit            string  `json:"unit"`
	CaloriesPerUnit float64 `json:"calories_per_unit"`
	ProteinPerUnit  float64 `json:"protein_per_unit"`
	CarbsPerUnit    float64 `json:"carbs_per_unit"`
	FatsPerUnit     float64 `json:"fats_per_unit"`
}

// CreateCustomFood satisfies catalog.CustomFoodStore.
func (c *Client) CreateCustomFood(ctx context.Context, f model.CustomFood) (model.CustomFood, error) {
	in := customFoodRequest{
		Name:            f.Name,
		Unit:            f.Unit,
		CaloriesPerUnit: f.CaloriesPerUnit,
		ProteinPerUnit:  f.ProteinPerUnit,
		CarbsPerUnit:    f.CarbsPerUnit,
		FatsPerUnit:     f.FatsPerUnit,
	}
	var out model.CustomFood
	if err := c.do(ctx, http.MethodPost, "/tracking/foods/custom", nil, in, &out); err != nil {
		return model.CustomFood{}, fmt.Errorf("create custom food %q: %w", f.Name, err)
	}
	if out.Name == "" {
		out = f
	}
	return out, nil
}

func periodQuery(period string) url.Values {
	return url.Values{"period": []string{period}}
}

// Analytics satisfies analytics.Source.
func (c *Client) Analytics(ctx context.Context, period string) ([]model.AnalyticsPoint, error) {
	var out []model.AnalyticsPoint
	if err := c.do(ctx, http.MethodGet, "/tracking/analytics", periodQuery(period), nil, &out); err != nil {
		return nil, fmt.Errorf("fetch %s analytics: %w", period, err)
	}
	return out, nil
}

func (c *Client) AdvancedAnalysis(ctx context.Context, period string) (model.AdvancedAnalysis, error) {
	var out model.AdvancedAnalysis
	if err := c.do(ctx, http.MethodGet, "/tracking/advanced-analysis", periodQuery(period), nil, &out); err != nil {
		return model.AdvancedAnalysis{}, fmt.Errorf("fetch %s advanced analysis: %w", period, err)
	}
	return out, nil
}

func (c *Client) Summary(ctx context.Context) (model.TrackingSummary, error) {
	var out model.TrackingSummary
	if err := c.do(ctx, http.MethodGet, "/tracking/summary", nil, nil, &out); err != nil {
		return model.TrackingSummary{}, fmt.Errorf("fetch tracking summary: %w", err)
	}
	return out, nil
}

func (c *Client) Notifications(ctx context.Context) ([]model.Notification, error) {
	var out []model.Notification
	if err := c.do(ctx, http.MethodGet, "/tracking/notifications", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

func (c *Client) PerformanceReport(ctx context.Context, in model.PerformanceAnalysisRequest) (model.PerformanceAnalysisResponse, error) {
	var out model.PerformanceAnalysisResponse
	if err := c.do(ctx, http.MethodPost, "/tracking/performance-report", nil, in, &out); err != nil {
		return model.PerformanceAnalysisResponse{}, fmt.Errorf("request performance report: %w", err)
	}
	return out, nil
}

// DailyUpdate carries the single-value daily trackers. Only the field that
// matches the endpoint is read by the server.
type DailyUpdate struct {
	WaterMl    float64  `json:"water_ml,omitempty"`
	WeightKg   *float64 `json:"weight_kg,omitempty"`
	SleepHours float64  `json:"sleep_hours,omitempty"`
}

func (c *Client) UpdateHydration(ctx context.Context, waterMl float64) error {
	if err := c.do(ctx, http.MethodPut, "/tracking/hydration", nil, DailyUpdate{WaterMl: waterMl}, nil); err != nil {
		return fmt.Errorf("update hydration: %w", err)
	}
	return nil
}

func (c *Client) UpdateWeight(ctx context.Context, weightKg float64) error {
	if err := c.do(ctx, http.MethodPut, "/tracking/weight", nil, DailyUpdate{WeightKg: &weightKg}, nil); err != nil {
		return fmt.Errorf("update weight: %w", err)
	}
	return nil
}

func (c *Client) UpdateSleep(ctx context.Context, hours float64) error {
	if err := c.do(ctx, http.MethodPut, "/tracking/sleep", nil, DailyUpdate{SleepHours: hours}, nil); err != nil {
		return fmt.Errorf("update sleep: %w", err)
	}
	return nil
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}
