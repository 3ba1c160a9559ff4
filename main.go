package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/soocke/shotgroup-go/app"
	"github.com/soocke/shotgroup-go/config"
)

func main() {
	cfgPath := flag.String("config", "shotgroup.json", "path to the settings file")
	imagePath := flag.String("image", "", "target image to open")
	screen := flag.Bool("screen", false, "start with a screen capture instead of the sample target")
	debugFlag := flag.Bool("debug", false, "verbose logging and runtime stats")
	flag.Parse()

	// Base config from file, defaults when missing
	cfg, err := config.Load(*cfgPath)
	if *debugFlag {
		cfg.Debug = true
	}

	// Set up logger
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	if err != nil {
		logger.Warn("config load failed, using defaults", "path", *cfgPath, "error", err)
	}

	application, err := app.NewApp("Shot Group", cfg, *cfgPath, app.Source{Path: *imagePath, Screen: *screen}, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	application.Start()
}
