package config

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Helper function to reset pflag.CommandLine for testing
func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	viper.Reset()
}

// Helper function to clear environment variables
func clearEnvVars() {
	os.Unsetenv("DOCTRAIL_KEYWORDS")
	os.Unsetenv("DOCTRAIL_URLS")
	os.Unsetenv("DOCTRAIL_CACHESIZE")
	os.Unsetenv("DOCTRAIL_DPI")
	os.Unsetenv("DOCTRAIL_ZOOM")
	os.Unsetenv("DOCTRAIL_PAGE")
	os.Unsetenv("DOCTRAIL_OUT")
	os.Unsetenv("DOCTRAIL_LOGLEVEL")
}

func TestLoadFromFlags_DefaultConfig(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	os.Args = []string{"doctrail"}
	resetFlags()
	clearEnvVars()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.CacheSize != DefaultCacheSize {
		t.Errorf("LoadFromFlags() CacheSize = %v, want %v", cfg.CacheSize, DefaultCacheSize)
	}
	if cfg.BaseDPI != DefaultBaseDPI {
		t.Errorf("LoadFromFlags() BaseDPI = %v, want %v", cfg.BaseDPI, DefaultBaseDPI)
	}
	if cfg.Zoom != DefaultZoom {
		t.Errorf("LoadFromFlags() Zoom = %v, want %v", cfg.Zoom, DefaultZoom)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, DefaultLogLevel)
	}
}

func TestLoadFromFlags_CommandLineFlags(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	os.Args = []string{
		"doctrail",
		"--cachesize=64",
		"--dpi=300",
		"--zoom=2.0",
		"--page=4",
		"--out=page4.png",
		"--loglevel=debug",
	}
	resetFlags()
	clearEnvVars()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.CacheSize != 64 {
		t.Errorf("LoadFromFlags() CacheSize = %v, want 64", cfg.CacheSize)
	}
	if cfg.BaseDPI != 300 {
		t.Errorf("LoadFromFlags() BaseDPI = %v, want 300", cfg.BaseDPI)
	}
	if cfg.Zoom != 2.0 {
		t.Errorf("LoadFromFlags() Zoom = %v, want 2.0", cfg.Zoom)
	}
	if cfg.Page != 4 {
		t.Errorf("LoadFromFlags() Page = %v, want 4", cfg.Page)
	}
	if cfg.Output != "page4.png" {
		t.Errorf("LoadFromFlags() Output = %v, want page4.png", cfg.Output)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want debug", cfg.LogLevel)
	}
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	os.Args = []string{"doctrail"}
	resetFlags()
	clearEnvVars()

	os.Setenv("DOCTRAIL_CACHESIZE", "32")
	os.Setenv("DOCTRAIL_LOGLEVEL", "warn")

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.CacheSize != 32 {
		t.Errorf("LoadFromFlags() CacheSize = %v, want 32 (from env)", cfg.CacheSize)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want warn (from env)", cfg.LogLevel)
	}
}

func TestLoadFromFlags_InvalidConfiguration(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	os.Args = []string{"doctrail", "--zoom=99"}
	resetFlags()
	clearEnvVars()

	if _, err := LoadFromFlags(); err == nil {
		t.Error("LoadFromFlags() expected error for out-of-range zoom")
	}
}

func TestLoadFromFlags_VersionFlag(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	os.Args = []string{"doctrail", "--version"}
	resetFlags()
	clearEnvVars()

	if _, err := LoadFromFlags(); err == nil {
		t.Error("LoadFromFlags() expected 'version requested' error")
	}
}
