package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/weave-visualizer/engine/internal/config"
	"github.com/weave-visualizer/engine/internal/logutil"
	"github.com/weave-visualizer/engine/internal/options"
	"github.com/weave-visualizer/engine/internal/scheduler"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "weave-gallery: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Get the executable's directory for log and config resolution
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	exeDir := filepath.Dir(exePath)

	cfg, err := loadConfig(filepath.Join(exeDir, "weave-gallery.yaml"))
	if err != nil {
		return err
	}

	// The screen owns stdout, so logs go to a file
	logFile, err := os.OpenFile(filepath.Join(exeDir, "weave-gallery.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	logutil.SetLogger(logutil.NewTextLogger(logFile, cfg.Log.Level))
	log := logutil.For("host")
	log.Info("starting", "version", Version, "build_time", BuildTime)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := scheduler.NewLoop(256)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	h := newHost(cfg, screen, loop, loop.Post, options.Default(), rng, cancel)

	loop.Post(h.start)
	go h.pollEvents()

	err = loop.Run(ctx)
	h.close()
	log.Info("stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// loadConfig reads path when it exists and falls back to the defaults.
func loadConfig(path string) (*config.Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg, err := config.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration %s: %w", path, err)
	}
	return cfg, nil
}
