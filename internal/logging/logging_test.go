package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maxrep/maxrep-cli/internal/logging"
)

func TestNewWritesFileAndConsole(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "maxrep.log")
	console := &bytes.Buffer{}
	logger, err := logging.New(logging.Options{Level: "debug", File: path, Console: console})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("debug only in file")
	logger.Warn("refresh failed")
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), `"msg":"debug only in file"`) || !strings.Contains(string(raw), "refresh failed") {
		t.Fatalf("expected both entries in json log, got %s", raw)
	}
	if strings.Contains(console.String(), "debug only in file") || !strings.Contains(console.String(), "refresh failed") {
		t.Fatalf("expected only warn on console, got %q", console.String())
	}
}

func TestNewVerboseConsoleAndBadLevel(t *testing.T) {
	t.Parallel()

	console := &bytes.Buffer{}
	logger, err := logging.New(logging.Options{Level: "debug", Console: console, Verbose: true})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("verbose line")
	if !strings.Contains(console.String(), "verbose line") {
		t.Fatalf("expected debug line on console, got %q", console.String())
	}

	if _, err := logging.New(logging.Options{Level: "loud"}); err == nil {
		t.Fatalf("expected invalid level error")
	}
}
