package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/corpspeak/stratcomm/config"
)

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0600)
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := config.DefaultConfig()
	if cfg.Execution.MaxCycles == 0 {
		t.Error("expected a nonzero default MaxCycles")
	}
	if cfg.Execution.Seed == 0 {
		t.Error("expected a nonzero default Seed")
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := config.DefaultConfig()
	if cfg.Execution.MaxCycles != want.Execution.MaxCycles {
		t.Errorf("expected default MaxCycles, got %d", cfg.Execution.MaxCycles)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := config.DefaultConfig()
	cfg.Execution.Seed = 42
	cfg.Execution.EnableTrace = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("unexpected error saving: %v", err)
	}

	loaded, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error loading: %v", err)
	}
	if loaded.Execution.Seed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.Execution.Seed)
	}
	if !loaded.Execution.EnableTrace {
		t.Error("expected EnableTrace to round-trip as true")
	}
}

func TestGetLogPathReturnsNonEmptyExistingDir(t *testing.T) {
	dir := config.GetLogPath()
	if dir == "" {
		t.Fatal("expected a non-empty log directory")
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("expected GetLogPath to create the directory, got: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("expected %q to be a directory", dir)
	}
}

func TestLoadFromPartialFileKeepsOtherDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.toml")
	contents := "[execution]\nseed = 99\n"
	if err := writeFile(path, contents); err != nil {
		t.Fatalf("unexpected error writing fixture: %v", err)
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Execution.Seed != 99 {
		t.Errorf("expected overridden seed 99, got %d", cfg.Execution.Seed)
	}
	if cfg.Debugger.HistorySize != config.DefaultConfig().Debugger.HistorySize {
		t.Errorf("expected untouched debugger defaults to survive, got %d", cfg.Debugger.HistorySize)
	}
}
