package maxrep

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/maxrep/maxrep-cli/internal/analytics"
	"github.com/maxrep/maxrep-cli/internal/api"
	"github.com/maxrep/maxrep-cli/internal/catalog"
	"github.com/maxrep/maxrep-cli/internal/config"
	"github.com/maxrep/maxrep-cli/internal/db"
	"github.com/maxrep/maxrep-cli/internal/logging"
	"github.com/maxrep/maxrep-cli/internal/model"
	"github.com/maxrep/maxrep-cli/internal/session"
	"github.com/maxrep/maxrep-cli/internal/tracking"
)

// env is everything a networked command needs, built once per invocation.
type env struct {
	cfg      config.Config
	logger   *zap.Logger
	db       *sql.DB
	jar      *db.CookieJar
	cookies  *session.CookieStore
	api      *api.Client
	bus      *tracking.Bus
	resolver *catalog.Resolver
	meals    *tracking.Store[model.MealLog]
	workouts *tracking.Store[model.WorkoutLog]
}

func withEnv(cmd *cobra.Command, run func(*env) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logFile, err := cfg.ResolveLogFile()
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		File:    logFile,
		Console: cmd.ErrOrStderr(),
		Verbose: verbose,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("command", cmd.CommandPath()))

	return withDB(func(sqldb *sql.DB) error {
		e, err := newEnv(cmd, cfg, logger, sqldb)
		if err != nil {
			return err
		}
		return run(e)
	})
}

func newEnv(cmd *cobra.Command, cfg config.Config, logger *zap.Logger, sqldb *sql.DB) (*env, error) {
	base, err := cfg.BaseURL()
	if err != nil {
		return nil, err
	}
	jar, err := db.OpenCookieJar(sqldb, logger)
	if err != nil {
		return nil, err
	}

	cookies := session.NewCookieStore(jar, base)
	cookies.CSRFCookie = cfg.CSRFCookieName
	sc := session.NewClient(base, &http.Client{Jar: jar, Timeout: cfg.RequestTimeout}, cookies)
	sc.Logger = logger

	client := api.New(sc)
	client.Logger = logger
	client.OnSessionLost = func(cause error) {
		logger.Warn("session lost, clearing stored cookies", zap.Error(cause))
		if err := jar.Clear(); err != nil {
			logger.Warn("clear cookies", zap.Error(err))
		}
	}

	bus := tracking.NewBus()
	bus.Subscribe(func(ev tracking.Event) {
		logger.Info("tracking updated",
			zap.String("kind", ev.Kind),
			zap.String("action", ev.Action),
			zap.Int64("id", ev.ID),
			zap.String("date", ev.Date),
		)
	})
	slots := db.UndoSlots{DB: sqldb}
	confirm := promptConfirmer{in: cmd.InOrStdin(), out: cmd.ErrOrStderr(), assumeYes: assumeYes}

	meals := tracking.NewStore[model.MealLog](tracking.KindMeal, client.Meals(), bus,
		tracking.WithUndoSlot(tracking.NewJSONSlot[model.MealLog](slots, tracking.KindMeal)),
		tracking.WithValidator(tracking.ValidateMeal),
	)
	workouts := tracking.NewStore[model.WorkoutLog](tracking.KindWorkout, client.Workouts(), bus,
		tracking.WithUndoSlot(tracking.NewJSONSlot[model.WorkoutLog](slots, tracking.KindWorkout)),
		tracking.WithValidator(tracking.ValidateWorkout),
	)

	return &env{
		cfg:      cfg,
		logger:   logger,
		db:       sqldb,
		jar:      jar,
		cookies:  cookies,
		api:      client,
		bus:      bus,
		resolver: catalog.NewResolver(client, confirm),
		meals:    meals,
		workouts: workouts,
	}, nil
}

// syncCatalog loads the account's custom foods into the resolver.
func (e *env) syncCatalog(ctx context.Context) error {
	foods, err := e.api.CustomFoods(ctx)
	if err != nil {
		return err
	}
	e.resolver.ReplaceCustom(foods)
	return nil
}

func (e *env) loadMeals(ctx context.Context) error {
	meals, err := e.api.MealLogs(ctx)
	if err != nil {
		return err
	}
	e.meals.Replace(meals)
	return nil
}

func (e *env) loadWorkouts(ctx context.Context) error {
	workouts, err := e.api.WorkoutLogs(ctx)
	if err != nil {
		return err
	}
	e.workouts.Replace(workouts)
	return nil
}

func (e *env) loadLogs(ctx context.Context) error {
	if err := e.loadMeals(ctx); err != nil {
		return err
	}
	return e.loadWorkouts(ctx)
}

func (e *env) dashboard(p analytics.Period) *analytics.Dashboard {
	return &analytics.Dashboard{
		Source:    e.api,
		Meals:     e.meals,
		Workouts:  e.workouts,
		Snapshots: db.Snapshots{DB: e.db},
		View:      analytics.NewView(p),
		Logger:    e.logger,
	}
}

func (e *env) pollSchedule() string {
	if e.cfg.PollInterval <= 0 {
		return ""
	}
	return fmt.Sprintf("@every %s", e.cfg.PollInterval)
}
