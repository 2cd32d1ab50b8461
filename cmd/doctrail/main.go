package main

import (
	"fmt"
	"image/png"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/doctrail/doctrail/internal/annotation"
	"github.com/doctrail/doctrail/internal/config"
	"github.com/doctrail/doctrail/internal/pipeline"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging builds the process logger at the configured level.
func setupLogging(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// buildManager wires the provider/renderer pairs and loads the
// configured datasets. A dataset that fails to load is logged and its
// kind simply finds nothing; document viewing is not blocked.
func buildManager(cfg *config.Config, logger *slog.Logger) *annotation.Manager {
	manager := annotation.NewManager(cfg.CacheSize)

	keywords := annotation.NewKeywordProvider()
	if cfg.KeywordsPath != "" {
		if err := keywords.LoadData(cfg.KeywordsPath); err != nil {
			logger.Warn("keyword dataset load failed", "path", cfg.KeywordsPath, "error", err)
		} else {
			logger.Info("keyword dataset loaded", "path", cfg.KeywordsPath, "categories", keywords.Categories())
		}
	}
	manager.RegisterProvider(annotation.KindKeyword, keywords)
	manager.RegisterRenderer(annotation.KindKeyword, annotation.KeywordRenderer{})

	urls := annotation.NewURLProvider()
	if cfg.URLsPath != "" {
		if err := urls.LoadData(cfg.URLsPath); err != nil {
			logger.Warn("URL dataset load failed", "path", cfg.URLsPath, "error", err)
		} else {
			logger.Info("URL dataset loaded", "path", cfg.URLsPath, "statuses", urls.Categories())
		}
	}
	manager.RegisterProvider(annotation.KindURLValidation, urls)
	manager.RegisterRenderer(annotation.KindURLValidation, annotation.URLRenderer{})

	return manager
}

func printVersion() {
	fmt.Printf("doctrail %s\n", version)
	fmt.Printf("Build time: %s\n", buildTime)
	fmt.Printf("Git commit: %s\n", gitCommit)
}

func run() error {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		if err.Error() == "version requested" {
			printVersion()
			return nil
		}
		return err
	}

	logger := setupLogging(cfg)

	args := pflag.Args()
	if len(args) != 1 {
		pflag.Usage()
		return fmt.Errorf("exactly one document path is required")
	}
	docPath := args[0]

	manager := buildManager(cfg, logger)
	service := pipeline.NewService(manager,
		pipeline.WithLogger(logger),
		pipeline.WithBaseDPI(cfg.BaseDPI),
	)
	defer service.Close()

	if !service.OpenDocument(docPath) {
		return fmt.Errorf("cannot open document: %s", docPath)
	}

	img, err := service.RunAll(cfg.Page, cfg.Zoom)
	if err != nil {
		return err
	}

	summary, err := service.FindAnnotations()
	if err != nil {
		return err
	}
	logger.Info("annotations found",
		"total", summary.Total,
		"keywords", summary.Keywords,
		"urls", summary.URLs,
	)

	out, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("cannot encode output image: %w", err)
	}

	logger.Info("annotated page written", "path", cfg.Output, "page", cfg.Page, "zoom", cfg.Zoom)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
