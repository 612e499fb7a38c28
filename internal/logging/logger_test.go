package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestAllCategoriesLog tests that all categories create log files when debug mode is on
func TestAllCategoriesLog(t *testing.T) {
	tempDir := t.TempDir()
	logsPath := filepath.Join(tempDir, "logs")

	if err := Initialize(logsPath, Options{DebugMode: true, Level: "debug"}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	defer CloseAll()

	if !IsDebugMode() {
		t.Error("Expected debug mode to be enabled")
	}

	for _, cat := range AllCategories {
		if !IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be enabled", cat)
		}
		logger := Get(cat)
		if logger.file == nil {
			t.Errorf("Logger for %s should be enabled", cat)
		}
		logger.Info("Test info message for %s", cat)
		logger.Debug("Test debug message for %s", cat)
		logger.Warn("Test warn message for %s", cat)
		logger.Error("Test error message for %s", cat)
	}

	Boot("Convenience boot log")
	Config("Convenience config log")
	Coordinator("Convenience coordinator log")
	SortDebug("Convenience sort log")
	PacingDebug("Convenience pacing log")
	UI("Convenience ui log")

	CloseAll()

	entries, err := os.ReadDir(logsPath)
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}

	for _, cat := range AllCategories {
		found := false
		for _, entry := range entries {
			if strings.HasSuffix(entry.Name(), "_"+string(cat)+".log") {
				found = true
				content, err := os.ReadFile(filepath.Join(logsPath, entry.Name()))
				if err != nil {
					t.Errorf("Failed to read log file for %s: %v", cat, err)
					continue
				}
				if len(content) == 0 {
					t.Errorf("Log file for %s is empty", cat)
				}
				break
			}
		}
		if !found {
			t.Errorf("No log file found for category: %s", cat)
		}
	}
}

// TestDebugModeDisabled tests that no logs are created when debug mode is off
func TestDebugModeDisabled(t *testing.T) {
	tempDir := t.TempDir()
	logsPath := filepath.Join(tempDir, "logs")

	if err := Initialize(logsPath, Options{DebugMode: false, Level: "debug"}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	defer CloseAll()

	if IsDebugMode() {
		t.Error("Expected debug mode to be disabled")
	}
	for _, cat := range AllCategories {
		if IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be disabled when debug mode is off", cat)
		}
	}

	Boot("This should NOT be logged")
	SortDebug("This should NOT be logged")
	Get(CategoryUI).Error("This should NOT be logged")

	if _, err := os.Stat(logsPath); !os.IsNotExist(err) {
		t.Errorf("Expected logs directory to be absent, stat err = %v", err)
	}
}

// TestCategoryToggle tests individual category enable/disable
func TestCategoryToggle(t *testing.T) {
	tempDir := t.TempDir()
	logsPath := filepath.Join(tempDir, "logs")

	err := Initialize(logsPath, Options{
		DebugMode: true,
		Level:     "info",
		Categories: map[string]bool{
			"sort": true,
			"ui":   false,
		},
	})
	if err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	defer CloseAll()

	if !IsCategoryEnabled(CategorySort) {
		t.Error("sort should be enabled")
	}
	if IsCategoryEnabled(CategoryUI) {
		t.Error("ui should be disabled")
	}
	if !IsCategoryEnabled(CategoryPacing) {
		t.Error("unlisted categories default to enabled")
	}
	if Get(CategoryUI).file != nil {
		t.Error("disabled category should get a no-op logger")
	}
}

func TestJSONFormatAndRunID(t *testing.T) {
	tempDir := t.TempDir()
	logsPath := filepath.Join(tempDir, "logs")

	if err := Initialize(logsPath, Options{DebugMode: true, Level: "debug", JSONFormat: true}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	WithRunID(CategoryCoordinator, "run-123").WithField("kind", "shell").Info("started")
	CloseAll()

	date := time.Now().Format("2006-01-02")
	data, err := os.ReadFile(filepath.Join(logsPath, date+"_coordinator.log"))
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}

	var entry map[string]interface{}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("Expected JSON line, got %q: %v", lines[len(lines)-1], err)
	}
	if entry["run"] != "run-123" || entry["kind"] != "shell" || entry["msg"] != "started" {
		t.Errorf("Unexpected entry: %v", entry)
	}
}

func TestLevelFiltering(t *testing.T) {
	tempDir := t.TempDir()
	logsPath := filepath.Join(tempDir, "logs")

	if err := Initialize(logsPath, Options{DebugMode: true, Level: "warn"}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	Get(CategorySort).Info("hidden info")
	Get(CategorySort).Warn("visible warn")
	CloseAll()

	date := time.Now().Format("2006-01-02")
	data, err := os.ReadFile(filepath.Join(logsPath, date+"_sort.log"))
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if strings.Contains(string(data), "hidden info") {
		t.Error("info line should be filtered at warn level")
	}
	if !strings.Contains(string(data), "visible warn") {
		t.Error("warn line should be written")
	}
}

func TestInitializeRequiresDir(t *testing.T) {
	if err := Initialize("", Options{}); err == nil {
		t.Error("expected error for empty directory")
	}
}

func TestTimer(t *testing.T) {
	timer := StartTimer(CategorySort, "noop")
	time.Sleep(2 * time.Millisecond)
	if d := timer.Stop(); d < 2*time.Millisecond {
		t.Errorf("expected elapsed >= 2ms, got %v", d)
	}
}

func TestSetLevel(t *testing.T) {
	tempDir := t.TempDir()
	logsPath := filepath.Join(tempDir, "logs")

	if err := Initialize(logsPath, Options{DebugMode: true, Level: "warn"}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	PacingDebug("before reload")
	SetLevel("debug")
	PacingDebug("after reload")
	SetLevel("info")
	CloseAll()

	date := time.Now().Format("2006-01-02")
	data, err := os.ReadFile(filepath.Join(logsPath, date+"_pacing.log"))
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if strings.Contains(string(data), "before reload") {
		t.Error("debug line should be filtered at warn level")
	}
	if !strings.Contains(string(data), "after reload") {
		t.Error("debug line should be written after SetLevel(debug)")
	}
}
