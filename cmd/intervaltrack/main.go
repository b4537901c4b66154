package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"intervaltrack/internal/app"
)

const version = "1.0"

// main is the application entry point and orchestrator setup
func main() {
	var (
		helpFlag    = flag.Bool("help", false, "Show help message")
		versionFlag = flag.Bool("version", false, "Show version information")
		configFlag  = flag.String("config", "", "Path to the YAML config file (also CONFIG_PATH)")
	)
	flag.Parse()

	if *helpFlag {
		printHelp()
		os.Exit(0)
	}

	if *versionFlag {
		printVersion()
		os.Exit(0)
	}

	if *configFlag != "" {
		os.Setenv("CONFIG_PATH", *configFlag)
	}

	if err := runApplication(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

// runApplication contains the core application logic that can be tested
func runApplication() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("intervaltrack starting up",
		zap.String("component", "main"),
		zap.String("version", version))

	application, err := app.NewApplication()
	if err != nil {
		logger.Error("failed to create application",
			zap.Error(err),
			zap.String("component", "main"))
		return fmt.Errorf("failed to create application: %w", err)
	}

	// Set up context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("received shutdown signal",
			zap.String("signal", sig.String()),
			zap.String("component", "main"))
		cancel()
	}()

	if err := application.Run(ctx); err != nil {
		logger.Error("application runtime error",
			zap.Error(err),
			zap.String("component", "main"))
		return fmt.Errorf("application runtime error: %w", err)
	}

	logger.Info("intervaltrack finished", zap.String("component", "main"))
	return nil
}

// printHelp displays usage information
func printHelp() {
	fmt.Printf(`intervaltrack - interval training audio track assembler

Assembles one audio track per configured output from timed intervals,
looping each interval's source clips to fill its exact duration.

Usage:
  intervaltrack [flags]

Flags:
  -config string   Path to the YAML config file (also CONFIG_PATH env var)
  -help            Show this help message
  -version         Show version information

Environment:
  CONFIG_PATH      Config file path, used when -config is not given
  OUTPUT_DIR       Override settings.output_dir
  OUTPUT_FORMAT    Override settings.format
  FFMPEG_PATH      Override settings.ffmpeg_path
`)
}

// printVersion displays version information
func printVersion() {
	fmt.Printf("intervaltrack version %s\n", version)
}
