package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/babarot/dlsort/internal/config"
)

func TestLogsShowsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	if err := os.WriteFile(path, []byte("first\nsecond\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Logs(&buf, path, config.Logging{Enabled: true}, false); err != nil {
		t.Fatalf("Logs() error = %v", err)
	}
	if buf.String() != "first\nsecond\n" {
		t.Errorf("Logs() wrote %q", buf.String())
	}
}

func TestLogsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	err := Logs(&bytes.Buffer{}, path, config.Logging{Enabled: true}, false)
	if err == nil || !strings.Contains(err.Error(), "no log file") {
		t.Errorf("Logs() error = %v", err)
	}

	err = Logs(&bytes.Buffer{}, path, config.Logging{Enabled: false}, false)
	if err == nil || !strings.Contains(err.Error(), "not enabled") {
		t.Errorf("Logs() with logging off error = %v", err)
	}
}

func TestLiveLogsRequireLogging(t *testing.T) {
	err := Logs(&bytes.Buffer{}, filepath.Join(t.TempDir(), "debug.log"), config.Logging{}, true)
	if err == nil || !strings.Contains(err.Error(), "not enabled") {
		t.Errorf("Logs(live) error = %v", err)
	}
}
