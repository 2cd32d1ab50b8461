package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Default values
	DefaultCacheSize = 256
	DefaultBaseDPI   = 150.0
	DefaultZoom      = 1.0
	DefaultLogLevel  = "info"
	DefaultOutput    = "annotated.png"

	// Raster limits
	MinDPI  = 36.0
	MaxDPI  = 600.0
	MinZoom = 0.25
	MaxZoom = 5.0
)

// Config holds all configuration for the document annotation pipeline.
type Config struct {
	// Dataset sources
	KeywordsPath string // keyword CSV (keyword, category, color)
	URLsPath     string // URL validation CSV

	// Engine configuration
	CacheSize int // annotation cache capacity (entries)

	// Rendering configuration
	BaseDPI float64 // raster resolution at zoom 1.0
	Zoom    float64
	Page    int    // zero-based page to process
	Output  string // annotated PNG output path

	// Application configuration
	Version  string
	LogLevel string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		CacheSize: DefaultCacheSize,
		BaseDPI:   DefaultBaseDPI,
		Zoom:      DefaultZoom,
		Page:      0,
		Output:    DefaultOutput,
		Version:   "1.0.0",
		LogLevel:  DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand dataset paths if given
	for _, path := range []*string{&cfg.KeywordsPath, &cfg.URLsPath} {
		if *path != "" {
			if expanded, err := filepath.Abs(*path); err == nil {
				*path = expanded
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults.
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("DOCTRAIL")
	viper.AutomaticEnv()

	viper.SetDefault("keywords", cfg.KeywordsPath)
	viper.SetDefault("urls", cfg.URLsPath)
	viper.SetDefault("cachesize", cfg.CacheSize)
	viper.SetDefault("dpi", cfg.BaseDPI)
	viper.SetDefault("zoom", cfg.Zoom)
	viper.SetDefault("page", cfg.Page)
	viper.SetDefault("out", cfg.Output)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags.
func defineCommandLineFlags(cfg *Config) {
	pflag.String("keywords", cfg.KeywordsPath, "Keyword CSV path (columns: keyword, category, color)")
	pflag.String("urls", cfg.URLsPath, "URL validation CSV path")
	pflag.Int("cachesize", cfg.CacheSize, "Annotation cache capacity (entries)")
	pflag.Float64("dpi", cfg.BaseDPI, "Base raster resolution at zoom 1.0")
	pflag.Float64("zoom", cfg.Zoom, "Zoom factor for rendering")
	pflag.Int("page", cfg.Page, "Zero-based page number to process")
	pflag.String("out", cfg.Output, "Annotated PNG output path")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

// bindFlagsToViper binds command line flags to viper configuration.
func bindFlagsToViper() {
	_ = viper.BindPFlag("keywords", pflag.Lookup("keywords"))
	_ = viper.BindPFlag("urls", pflag.Lookup("urls"))
	_ = viper.BindPFlag("cachesize", pflag.Lookup("cachesize"))
	_ = viper.BindPFlag("dpi", pflag.Lookup("dpi"))
	_ = viper.BindPFlag("zoom", pflag.Lookup("zoom"))
	_ = viper.BindPFlag("page", pflag.Lookup("page"))
	_ = viper.BindPFlag("out", pflag.Lookup("out"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
}

// setupUsageMessage configures the custom usage message.
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s: [flags] <document.pdf>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\ndoctrail - keyword and URL-validation annotation overlay for PDF documents\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --keywords=keywords.csv report.pdf\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --keywords=keywords.csv --urls=url_report.csv --page=3 --zoom=2.0 report.pdf\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  DOCTRAIL_KEYWORDS   Keyword CSV path\n")
		fmt.Fprintf(os.Stderr, "  DOCTRAIL_URLS       URL validation CSV path\n")
		fmt.Fprintf(os.Stderr, "  DOCTRAIL_CACHESIZE  Annotation cache capacity\n")
		fmt.Fprintf(os.Stderr, "  DOCTRAIL_DPI        Base raster resolution\n")
		fmt.Fprintf(os.Stderr, "  DOCTRAIL_LOGLEVEL   Log level\n")
	}
}

// checkVersionFlag checks if version flag was requested.
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper.
func populateConfigFromViper(cfg *Config) {
	cfg.KeywordsPath = viper.GetString("keywords")
	cfg.URLsPath = viper.GetString("urls")
	cfg.CacheSize = viper.GetInt("cachesize")
	cfg.BaseDPI = viper.GetFloat64("dpi")
	cfg.Zoom = viper.GetFloat64("zoom")
	cfg.Page = viper.GetInt("page")
	cfg.Output = viper.GetString("out")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.CacheSize <= 0 {
		return errors.New("cache size must be positive")
	}

	if c.BaseDPI < MinDPI || c.BaseDPI > MaxDPI {
		return fmt.Errorf("dpi must be between %.0f and %.0f", MinDPI, MaxDPI)
	}

	if c.Zoom < MinZoom || c.Zoom > MaxZoom {
		return fmt.Errorf("zoom must be between %.2f and %.2f", MinZoom, MaxZoom)
	}

	if c.Page < 0 {
		return errors.New("page must not be negative")
	}

	if c.Output == "" {
		return errors.New("output path cannot be empty")
	}

	// Dataset paths are optional, but when set must exist
	for _, path := range []string{c.KeywordsPath, c.URLsPath} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("cannot access dataset %s: %w", path, err)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Keywords: %s, URLs: %s, CacheSize: %d, BaseDPI: %.0f, Zoom: %.2f, Page: %d, LogLevel: %s}",
		c.KeywordsPath, c.URLsPath, c.CacheSize, c.BaseDPI, c.Zoom, c.Page, c.LogLevel)
}
