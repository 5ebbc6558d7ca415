package web

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	conversions *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	limited     prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "numerals",
			Name:      "conversions_total",
			Help:      "Successful conversions by direction.",
		}, []string{"type"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "numerals",
			Name:      "rejections_total",
			Help:      "Rejected inputs by error kind.",
		}, []string{"kind"}),
		limited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "numerals",
			Name:      "rate_limited_total",
			Help:      "Requests refused by the per-client rate limiter.",
		}),
	}
	for _, c := range []prometheus.Collector{m.conversions, m.rejections, m.limited} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("web: register metrics: %w", err)
		}
	}
	return m, nil
}
