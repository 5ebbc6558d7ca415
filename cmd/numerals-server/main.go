package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	numerals "github.com/goliatone/go-numerals"
	"github.com/goliatone/go-numerals/pkg/config"
	"github.com/goliatone/go-numerals/pkg/web"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	addr := flag.String("addr", "", "listen address (overrides configuration)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *addr); err != nil {
		log.Fatalf("numerals-server: %v", err)
	}
}

func run(ctx context.Context, configPath, addr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	app, err := numerals.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			app.Logger.Error("app.close_failed", "error", cerr.Error())
		}
	}()

	opts := []web.Option{
		web.WithLogger(app.Logger),
		web.WithThemeSelector(web.NewSelector(nil, cfg.Server.Theme)),
		web.WithRateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst),
	}
	if app.Store != nil {
		opts = append(opts, web.WithJournal(app.Store))
	}
	handler, err := web.New(ctx, app.Service, opts...)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("server.listening", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	app.Logger.Info("server.shutting_down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
