package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-numerals/pkg/service"
)

// Commands recognised by the loop. Anything else is converted.
const (
	CommandExit  = "exit"
	CommandData  = "duom"
	CommandLogs  = "logs"
	CommandClear = "clear"
	CommandRules = "rules"
)

const promptMessage = "Enter a Roman numeral or a decimal number (or 'duom' to print the counters, " +
	"'logs' to print the history, 'rules' to list the rules, 'clear' to clear logs, 'exit' to quit):"

// Journal exposes the history operations the console commands need.
type Journal interface {
	History(ctx context.Context) ([]string, error)
	CountersText(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Option configures a Console.
type Option func(*Console)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(c *Console) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// WithJournal enables the duom, logs and clear commands.
func WithJournal(j Journal) Option {
	return func(c *Console) {
		c.journal = j
	}
}

// WithShowHistory prints the history once before the first prompt.
func WithShowHistory(show bool) Option {
	return func(c *Console) {
		c.showHistory = show
	}
}

// Console is the interactive read-convert-print loop.
type Console struct {
	svc         *service.Service
	driver      PromptDriver
	journal     Journal
	showHistory bool
}

// New constructs a Console with the survey driver unless overridden.
func New(svc *service.Service, options ...Option) (*Console, error) {
	if svc == nil {
		return nil, ErrNoService
	}
	c := &Console{
		svc:         svc,
		driver:      NewSurveyDriver(nil),
		showHistory: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Run prompts until the user exits, aborts, or ctx is cancelled. Aborting the
// prompt ends the loop without error.
func (c *Console) Run(ctx context.Context) error {
	if c.showHistory && c.journal != nil {
		if err := c.printHistory(ctx); err != nil {
			return err
		}
	}

	for {
		line, err := c.driver.Input(ctx, InputConfig{Message: promptMessage})
		if err != nil {
			if errors.Is(err, ErrAborted) {
				return nil
			}
			return err
		}

		done, err := c.Handle(ctx, line)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Handle executes one line of input. It reports done when the user asked to
// exit.
func (c *Console) Handle(ctx context.Context, line string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case CommandExit:
		return true, nil
	case CommandData, "data":
		return false, c.printCounters(ctx)
	case CommandLogs:
		return false, c.printHistory(ctx)
	case CommandClear:
		return false, c.clear(ctx)
	case CommandRules:
		return false, c.driver.Info(ctx, service.RulesText(c.svc.Rules()))
	}

	res := c.svc.Convert(ctx, line)
	return false, c.driver.Info(ctx, res.Message)
}

func (c *Console) printHistory(ctx context.Context) error {
	if c.journal == nil {
		return c.driver.Info(ctx, "History is not enabled.")
	}
	lines, err := c.journal.History(ctx)
	if err != nil {
		return c.driver.Info(ctx, fmt.Sprintf("Error: could not read history: %v", err))
	}
	body := strings.Join(lines, "\n")
	return c.driver.Info(ctx, "Contents of history:\n"+body+"\n")
}

func (c *Console) printCounters(ctx context.Context) error {
	if c.journal == nil {
		return c.driver.Info(ctx, "History is not enabled.")
	}
	text, err := c.journal.CountersText(ctx)
	if err != nil {
		return c.driver.Info(ctx, fmt.Sprintf("Error: could not read counters: %v", err))
	}
	return c.driver.Info(ctx, "Contents of counters:\n"+text)
}

func (c *Console) clear(ctx context.Context) error {
	if c.journal == nil {
		return c.driver.Info(ctx, "History is not enabled.")
	}
	ok, err := c.driver.Confirm(ctx, ConfirmConfig{Message: "Are you sure you want to clear the log files?"})
	if err != nil {
		if errors.Is(err, ErrAborted) {
			return nil
		}
		return err
	}
	if !ok {
		return c.driver.Info(ctx, "Clear cancelled.")
	}
	if err := c.journal.Clear(ctx); err != nil {
		return c.driver.Info(ctx, fmt.Sprintf("Error: could not clear logs: %v", err))
	}
	return c.driver.Info(ctx, "Log files have been cleared.")
}
