package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-numerals/internal/logging"
	"github.com/goliatone/go-numerals/pkg/history"
	"github.com/goliatone/go-numerals/pkg/service"
)

// ErrNoService is returned when New is called without a service.
var ErrNoService = errors.New("web: service is required")

// Journal exposes the history operations served over HTTP.
type Journal interface {
	History(ctx context.Context) ([]string, error)
	Counters(ctx context.Context) (history.Counters, error)
	CountersText(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Option configures a Server.
type Option func(*Server)

// WithJournal enables the history views and endpoints.
func WithJournal(j Journal) Option {
	return func(s *Server) {
		s.journal = j
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithThemeSelector overrides the theme selector.
func WithThemeSelector(sel *Selector) Option {
	return func(s *Server) {
		if sel != nil {
			s.themes = sel
		}
	}
}

// WithRateLimit limits requests per client address. Non-positive values
// disable limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.rateRPS = rps
		s.rateBurst = burst
	}
}

// WithRegistry sets where metrics are registered and gathered from.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithClock overrides time.Now for rate limiting and request timing.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// Server is the HTTP front end for the conversion service.
type Server struct {
	svc       *service.Service
	journal   Journal
	logger    *slog.Logger
	themes    *Selector
	registry  *prometheus.Registry
	rateRPS   float64
	rateBurst int
	now       func() time.Time

	page    *pongo2.Template
	doc     *openapi3.T
	metrics *metrics
	limiter *clientLimiter
	mux     *http.ServeMux
}

// New constructs a Server. The page template and API document are loaded
// and validated up front.
func New(ctx context.Context, svc *service.Service, options ...Option) (*Server, error) {
	if svc == nil {
		return nil, ErrNoService
	}
	s := &Server{
		svc:      svc,
		logger:   logging.Discard(),
		themes:   NewSelector(nil, VariantLight),
		registry: prometheus.NewRegistry(),
		now:      time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	page, err := loadPage()
	if err != nil {
		return nil, err
	}
	doc, err := LoadAPIDocument(ctx)
	if err != nil {
		return nil, err
	}
	m, err := newMetrics(s.registry)
	if err != nil {
		return nil, err
	}
	s.page = page
	s.doc = doc
	s.metrics = m
	s.limiter = newClientLimiter(s.rateRPS, s.rateBurst, 0)
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /{$}", s.handleIndex)
	mux.HandleFunc("POST /clear", s.handleClearForm)
	mux.HandleFunc("GET /api/convert", s.handleConvert)
	mux.HandleFunc("GET /api/rules", s.handleRules)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("POST /api/clear", s.handleClear)
	mux.HandleFunc("GET /openapi.json", s.handleOpenAPI)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	s.mux = mux
}

// ServeHTTP applies rate limiting and request logging around the routes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := s.now()
	if !s.limiter.Allow(clientKey(r), start) {
		s.metrics.limited.Inc()
		writeJSON(w, http.StatusTooManyRequests, errorBody{Error: apiError{
			Kind:    "rate_limited",
			Message: "Too many requests. Please slow down.",
		}})
		s.logger.WarnContext(r.Context(), "http.rate_limited", "remote", clientKey(r), "path", r.URL.Path)
		return
	}

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.logger.DebugContext(r.Context(), "http.request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", s.now().Sub(start),
	)
}

// convert runs one conversion and updates the metrics.
func (s *Server) convert(ctx context.Context, raw string) service.Result {
	res := s.svc.Convert(ctx, raw)
	if res.OK() {
		s.metrics.conversions.WithLabelValues(res.ConversionType()).Inc()
	} else {
		s.metrics.rejections.WithLabelValues(errorKindLabel(res.Err)).Inc()
	}
	return res
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
