package numerals

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/goliatone/go-numerals/internal/logging"
	"github.com/goliatone/go-numerals/pkg/config"
	"github.com/goliatone/go-numerals/pkg/convert"
	"github.com/goliatone/go-numerals/pkg/history"
	"github.com/goliatone/go-numerals/pkg/service"
)

// AppOption customises Open.
type AppOption func(*appOptions)

type appOptions struct {
	logWriter io.Writer
	logLevel  string
}

// WithLogWriter sends logs to w when the configuration names no log file.
func WithLogWriter(w io.Writer) AppOption {
	return func(o *appOptions) {
		o.logWriter = w
	}
}

// WithLogLevel overrides the configured log level.
func WithLogLevel(level string) AppOption {
	return func(o *appOptions) {
		if level != "" {
			o.logLevel = level
		}
	}
}

// App bundles the collaborators shared by the binaries. Store is nil when
// history is disabled.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Service *service.Service
	Store   *history.Store

	closers []func() error
}

// Open wires logging, the history store, and the conversion service from cfg.
// Callers must Close the returned App.
func Open(ctx context.Context, cfg config.Config, options ...AppOption) (*App, error) {
	opts := appOptions{logLevel: cfg.Log.Level}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&opts)
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:  opts.logLevel,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Writer: opts.logWriter,
	})
	if err != nil {
		return nil, fmt.Errorf("numerals: logging: %w", err)
	}

	app := &App{
		Config:  cfg,
		Logger:  logger,
		closers: []func() error{closeLog},
	}

	svcOpts := []service.Option{
		service.WithLogger(logger),
		service.WithDispatcher(convert.New(convert.WithStrict(cfg.Strict))),
	}
	if cfg.History.Enabled {
		store, err := history.Open(ctx, history.Options{
			LogPath:     cfg.History.LogPath,
			CounterPath: cfg.History.CounterPath,
		})
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("numerals: history: %w", err)
		}
		app.Store = store
		app.closers = append(app.closers, store.Close)
		svcOpts = append(svcOpts, service.WithRecorder(store))
	}
	app.Service = service.New(svcOpts...)

	logger.DebugContext(ctx, "app.opened",
		"strict", cfg.Strict,
		"history", cfg.History.Enabled,
	)
	return app, nil
}

// Close releases the history store and the log output, most recent first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
