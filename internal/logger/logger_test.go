package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// The package logger is initialized once per process, so a single test owns
// Init and the rest assert against the same sink.
func TestLevelHelpers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	Init(Config{Level: "debug", Format: "json", Output: path})

	Debug("debug message", "stage", "classify")
	Info("info message", "keyword", "연말정산")
	Warn("warn message")
	Error("error message", os.ErrNotExist, "keyword", "연말정산")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		`"message":"debug message"`,
		`"stage":"classify"`,
		`"message":"info message"`,
		`"keyword":"연말정산"`,
		`"message":"warn message"`,
		`"message":"error message"`,
		`"error":"file does not exist"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}

	if Get() == nil {
		t.Fatal("Get must return the initialized logger")
	}
}

func TestEvent_SkipsMalformedPairs(t *testing.T) {
	// Odd trailing values and non-string keys are dropped, not panicked on.
	Info("lenient kv", "ok", 1, 42, "ignored", "dangling")
}
