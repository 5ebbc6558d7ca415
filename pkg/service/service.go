package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-numerals/internal/logging"
	"github.com/goliatone/go-numerals/pkg/convert"
	"github.com/goliatone/go-numerals/pkg/history"
)

// Result is what front ends display for one request. Exactly one of Outcome
// (when Err is nil) or Err is meaningful. RecordErr reports a history failure;
// the conversion itself is unaffected by it.
type Result struct {
	Input     string
	Outcome   convert.Outcome
	Err       error
	Message   string
	RecordErr error
}

// OK reports whether the conversion succeeded.
func (r Result) OK() bool { return r.Err == nil }

// ConversionType returns the history tag for the result.
func (r Result) ConversionType() string {
	if r.Err != nil {
		return convert.ConversionError
	}
	return r.Outcome.ConversionType()
}

// RuleInfo describes a grammar rule for display.
type RuleInfo struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Option configures a Service.
type Option func(*Service)

// WithDispatcher overrides the dispatcher.
func WithDispatcher(d *convert.Dispatcher) Option {
	return func(s *Service) {
		if d != nil {
			s.dispatcher = d
		}
	}
}

// WithRecorder wires the history collaborator.
func WithRecorder(r history.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// Service converts user input, records it, and formats the reply.
type Service struct {
	dispatcher *convert.Dispatcher
	recorder   history.Recorder
	logger     *slog.Logger
}

// New constructs a Service. Defaults: lenient dispatcher, discarded history,
// discarded logs.
func New(options ...Option) *Service {
	s := &Service{
		dispatcher: convert.New(),
		recorder:   history.Discard,
		logger:     logging.Discard(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Convert handles one raw input end to end.
func (s *Service) Convert(ctx context.Context, raw string) Result {
	outcome, err := s.dispatcher.ParseAndConvert(raw)
	res := Result{Input: raw, Outcome: outcome, Err: err}

	if err != nil {
		res.Message = err.Error()
		s.logger.InfoContext(ctx, "conversion.rejected",
			"input", raw,
			"kind", convert.KindOf(err).String(),
			"error", err.Error(),
		)
	} else {
		res.Message = FormatOutcome(outcome)
		s.logger.InfoContext(ctx, "conversion.ok",
			"input", outcome.Input,
			"type", outcome.ConversionType(),
			"decimal", outcome.Decimal.Int(),
			"roman", outcome.Roman,
		)
	}

	if recErr := s.recorder.Record(ctx, res.Message, res.ConversionType()); recErr != nil {
		res.RecordErr = fmt.Errorf("service: record history: %w", recErr)
		s.logger.ErrorContext(ctx, "history.record_failed", "error", recErr.Error())
	}
	return res
}

// Rules lists the grammar rules checked for Roman input.
func (s *Service) Rules() []RuleInfo {
	rules := s.dispatcher.Validator().Rules()
	out := make([]RuleInfo, len(rules))
	for i, rule := range rules {
		out[i] = RuleInfo{Name: rule.Name(), Message: rule.Message()}
	}
	return out
}

// FormatOutcome renders the user-facing sentence for a successful conversion.
func FormatOutcome(o convert.Outcome) string {
	return fmt.Sprintf("%s is a %s, and its converted value is %s.", o.Input, o.Kind.NumberName(), o.Converted())
}

// RulesText renders rules as "Name: message" lines.
func RulesText(rules []RuleInfo) string {
	lines := make([]string, len(rules))
	for i, rule := range rules {
		lines[i] = rule.Name + ": " + rule.Message
	}
	return strings.Join(lines, "\n")
}
