package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"intervaltrack/internal/assembler"
	"intervaltrack/internal/clip"
	"intervaltrack/internal/codec"
	"intervaltrack/internal/config"
	"intervaltrack/internal/logger"
	"intervaltrack/internal/pool"
)

// Application wires configuration, codec, clip library and assembler into
// the end-to-end run: load sources, assemble every configured output,
// encode each to the output directory.
type Application struct {
	config    *config.Configuration
	logger    *zap.Logger
	codec     codec.Codec
	assembler *assembler.TrackAssembler
	library   *pool.Library
}

// NewApplication creates an application instance with all components
// initialized. Configuration comes from the file named by CONFIG_PATH if
// set, otherwise from environment variables.
func NewApplication() (*Application, error) {
	var cfg *config.Configuration
	var err error

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		cfg, err = config.NewConfigurationFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.NewConfigurationFromEnv()
		if err != nil {
			return nil, fmt.Errorf("failed to load config from environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	zapLogger := logger.NewLogger()

	ffmpeg := codec.NewFFmpegCodecWithLogger(zapLogger)
	ffmpeg.SetFFmpegPath(cfg.GetFFmpegPath())

	return NewApplicationWithComponents(cfg, zapLogger, ffmpeg), nil
}

// NewApplicationWithComponents creates an application from pre-built
// components. Tests use this to substitute an in-memory codec.
func NewApplicationWithComponents(cfg *config.Configuration, zapLogger *zap.Logger, cdc codec.Codec) *Application {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	return &Application{
		config:    cfg,
		logger:    zapLogger,
		codec:     cdc,
		assembler: assembler.NewTrackAssemblerWithPolicy(true, zapLogger),
		library:   pool.NewLibraryWithLogger(zapLogger),
	}
}

// LoadSources decodes every configured source file into the clip library,
// preserving per-category file order. Any decode failure aborts the run.
func (app *Application) LoadSources() error {
	sources := app.config.GetSources()

	categories := make([]string, 0, len(sources))
	for category := range sources {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		app.logger.Info("loading source files",
			zap.String("category", category),
			zap.Int("files", len(sources[category])))
		for _, path := range sources[category] {
			c, err := app.codec.Decode(path)
			if err != nil {
				return err
			}
			app.library.Add(category, c)
		}
	}
	return nil
}

// AssembleOutput builds the track for one configured output. Sources must
// already be loaded.
func (app *Application) AssembleOutput(name string, specs []config.IntervalSpec) (*clip.Clip, error) {
	intervals := make([]assembler.Interval, len(specs))
	for i, spec := range specs {
		intervals[i] = assembler.Interval{
			Duration: time.Duration(spec.DurationMS) * time.Millisecond,
			Category: strings.ToLower(spec.Source),
		}
	}

	track, err := app.assembler.Assemble(intervals, app.library)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble output %q: %w", name, err)
	}
	return track, nil
}

// Run executes the full pipeline: load sources, then assemble and encode
// every configured output in name order. The first failure aborts the
// whole run; no partial output set is considered a success.
func (app *Application) Run(ctx context.Context) error {
	log, _ := logger.WithRunID(app.logger)
	log.Info("starting interval track assembly")

	select {
	case <-ctx.Done():
		log.Info("context cancelled before startup, shutting down immediately")
		return nil
	default:
	}

	if err := app.LoadSources(); err != nil {
		log.Error("failed to load source audio", zap.Error(err))
		return err
	}

	outputs, err := app.config.GetOutputs()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		select {
		case <-ctx.Done():
			log.Info("context cancelled, stopping before next output",
				zap.String("output", name))
			return ctx.Err()
		default:
		}

		track, err := app.AssembleOutput(name, outputs[name])
		if err != nil {
			log.Error("assembly failed", zap.String("output", name), zap.Error(err))
			return err
		}

		outPath := filepath.Join(app.config.GetOutputDir(),
			fmt.Sprintf("%s.%s", name, app.config.GetOutputFormat()))
		if err := app.codec.Encode(track, outPath); err != nil {
			log.Error("encode failed", zap.String("output", name), zap.Error(err))
			return err
		}

		log.Info("wrote output track",
			zap.String("output", name),
			zap.String("path", outPath),
			zap.Duration("duration", track.Duration()))
	}

	log.Info("assembly run complete", zap.Int("outputs", len(names)))
	return nil
}
