package main

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/flatpak-node/girgen/internal/config"
	"github.com/flatpak-node/girgen/internal/generate"
	"github.com/flatpak-node/girgen/internal/profile"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to configuration file")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	girPath := flag.String("gir", "", "Path to GIR introspection file")
	nativeOut := flag.String("native", "", "Output path for the C++ N-API source")
	jsOut := flag.String("js", "", "Output path for the JavaScript wrapper")
	dtsOut := flag.String("dts", "", "Output path for the TypeScript declarations")
	reportOut := flag.String("report", "", "Output path for the JSON run report")
	profilePath := flag.String("profile", "", "Path to library profile file")
	flag.Parse()

	// Initialize logger
	logger := zap.L()
	if *logLevel == "debug" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}

	defer logger.Sync()

	logger.Info("Starting girgen",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("date", date),
	)

	// Load configuration; flags override loaded values.
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if *girPath != "" {
		cfg.GirPath = *girPath
	}
	if *nativeOut != "" {
		cfg.Output.Native = *nativeOut
	}
	if *jsOut != "" {
		cfg.Output.JS = *jsOut
	}
	if *dtsOut != "" {
		cfg.Output.DTS = *dtsOut
	}
	if *reportOut != "" {
		cfg.Report = *reportOut
	}
	if *profilePath != "" {
		cfg.Profile = *profilePath
	}

	// Load the library profile
	prof := profile.Default()
	if cfg.Profile != "" {
		prof, err = profile.Load(cfg.Profile)
		if err != nil {
			logger.Fatal("Failed to load profile", zap.Error(err))
		}
	}

	if _, err := os.Stat(cfg.GirPath); err != nil {
		logger.Fatal("GIR file not found", zap.String("path", cfg.GirPath), zap.Error(err))
	}

	gen := generate.New(cfg, prof, logger)
	rep, err := gen.Run(context.Background())
	if err != nil {
		logger.Fatal("Generation failed", zap.Error(err))
	}

	logger.Info("girgen finished",
		zap.String("namespace", rep.Namespace),
		zap.Int("classes", rep.Counts.Classes),
		zap.Int("functions", rep.Counts.Functions),
		zap.Int("skipped", len(rep.Skipped)),
	)
}
