package maxrep

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/maxrep/maxrep-cli/internal/analytics"
	"github.com/maxrep/maxrep-cli/internal/app"
	"github.com/maxrep/maxrep-cli/internal/config"
	"github.com/maxrep/maxrep-cli/internal/db"
)

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

func resolveDBPath() (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.ResolveDBPath()
}

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureParentDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

func parseInt64Arg(name, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

func parseFloatArg(name, value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s must be >= 0", name)
	}
	return v, nil
}

// dateOrToday validates an optional YYYY-MM-DD flag value.
func dateOrToday(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return analytics.Today(time.Now()), nil
	}
	if _, err := time.ParseInLocation(analytics.DateLayout, date, time.Local); err != nil {
		return "", fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", date)
	}
	return date, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// promptConfirmer asks on the command's terminal before creating a custom
// food.
type promptConfirmer struct {
	in        io.Reader
	out       io.Writer
	assumeYes bool
}

func (p promptConfirmer) ConfirmCreate(ctx context.Context, name string) (bool, error) {
	if p.assumeYes {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(p.out, "%q is not in your food catalog. Create it as a custom food? [y/N] ", name)
	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func optionalInt(v int, set bool) *int {
	if !set {
		return nil
	}
	return &v
}

func optionalFloat(v float64, set bool) *float64 {
	if !set {
		return nil
	}
	return &v
}

func optionalString(v string, set bool) *string {
	if !set {
		return nil
	}
	return &v
}
