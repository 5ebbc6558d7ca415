package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	numerals "github.com/goliatone/go-numerals"
	"github.com/goliatone/go-numerals/pkg/config"
	"github.com/goliatone/go-numerals/pkg/console"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	convertValue := flag.String("convert", "", "convert a single value and exit")
	strict := flag.Bool("strict", false, "reject numerals that are not in canonical form")
	logLevel := flag.String("log-level", "", "override the configured log level")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code, err := run(ctx, *configPath, *convertValue, *strict, *logLevel)
	stop()
	if err != nil {
		log.Fatalf("numerals: %v", err)
	}
	os.Exit(code)
}

func run(ctx context.Context, configPath, convertValue string, strict bool, logLevel string) (int, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return 1, err
	}
	if strict {
		cfg.Strict = true
	}
	// Conversion logs would interleave with the prompt on stderr.
	if logLevel == "" && cfg.Log.File == "" {
		logLevel = "warn"
	}

	app, err := numerals.Open(ctx, cfg, numerals.WithLogLevel(logLevel))
	if err != nil {
		return 1, err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			app.Logger.Error("app.close_failed", "error", cerr.Error())
		}
	}()

	if strings.TrimSpace(convertValue) != "" {
		res := app.Service.Convert(ctx, convertValue)
		if !res.OK() {
			fmt.Fprintln(os.Stderr, res.Message)
			return 2, nil
		}
		fmt.Println(res.Message)
		return 0, nil
	}

	opts := []console.Option{console.WithShowHistory(cfg.History.Enabled)}
	if app.Store != nil {
		opts = append(opts, console.WithJournal(app.Store))
	}
	c, err := console.New(app.Service, opts...)
	if err != nil {
		return 1, err
	}
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return 1, err
	}
	return 0, nil
}
