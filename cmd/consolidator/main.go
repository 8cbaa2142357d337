// Command consolidator is the thin binary wrapping the consolidation
// pipeline. It is deliberately not a flag-parsing CLI: invocation
// surface, daemon supervision, and consent/status UX are out of scope
// (spec §1) and belong to whatever external process starts this one.
// It reads a single YAML config path from CONSOLIDATOR_CONFIG, builds
// the Scheduler, and runs cycles on the configured cadence until
// signaled to stop.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/config"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/logging"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/pkg/scheduler"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "consolidator:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("CONSOLIDATOR_CONFIG")
	if configPath == "" {
		return fmt.Errorf("CONSOLIDATOR_CONFIG must name a YAML config file path")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.NewStderr("consolidator", logging.LevelInfo)
	sched, err := scheduler.New(cfg, os.Stderr, logging.LevelInfo)
	if err != nil {
		return fmt.Errorf("building scheduler: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("consolidator starting", "config", configPath, "outputRoot", cfg.OutputRoot)

	for {
		next := sched.NextRun(timeNow())
		timer := newTimer(next)

		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info("consolidator shutting down")
			return nil
		case <-timer.C:
		}

		res, err := sched.RunOneCycle(ctx)
		if err != nil {
			log.Error("cycle failed", "error", err)
			continue
		}
		logCycleResult(log, res)
	}
}
