// Package metrics provides Prometheus metrics for slate runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/phenomenon0/hoopsedge/core"
	"github.com/phenomenon0/hoopsedge/pkg/pipeline"
	"github.com/phenomenon0/hoopsedge/pkg/policy"
)

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// PipelineMetrics collects pipeline and valuation metrics on a private
// registry. It implements pipeline.Observer.
type PipelineMetrics struct {
	registry *prometheus.Registry

	// Stage metrics
	StagesTotal  *prometheus.CounterVec
	StageLatency *prometheus.HistogramVec

	// Game metrics
	GamesTotal   *prometheus.CounterVec
	GameDuration prometheus.Histogram

	// Valuation metrics
	LinesTotal *prometheus.CounterVec
	BetsTotal  *prometheus.CounterVec
	LineEdge   *prometheus.HistogramVec

	// Slate metrics
	SlateRuns     *prometheus.CounterVec
	SlateDuration prometheus.Histogram
	SlateStaked   prometheus.Gauge
	SlateExposure prometheus.Gauge
}

var _ pipeline.Observer = (*PipelineMetrics)(nil)

// New creates the collectors and registers them.
func New() *PipelineMetrics {
	m := &PipelineMetrics{
		registry: prometheus.NewRegistry(),

		StagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hoopsedge_stages_total",
				Help: "Module runs by module and status",
			},
			[]string{"module", "group", "status"},
		),
		StageLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hoopsedge_stage_duration_seconds",
				Help:    "Module run latency",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
			},
			[]string{"module"},
		),

		GamesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hoopsedge_games_total",
				Help: "Games processed by status",
			},
			[]string{"status"},
		),
		GameDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hoopsedge_game_duration_seconds",
				Help:    "Full pipeline latency per game",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
		),

		LinesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hoopsedge_value_lines_total",
				Help: "Evaluated market legs by market",
			},
			[]string{"market"},
		),
		BetsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hoopsedge_bets_total",
				Help: "Market legs with a positive stake by market",
			},
			[]string{"market"},
		),
		LineEdge: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hoopsedge_line_edge_percent",
				Help:    "Edge of evaluated legs in percentage points",
				Buckets: []float64{-20, -10, -5, -2, -1, 0, 1, 2, 5, 10, 20},
			},
			[]string{"market"},
		),

		SlateRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hoopsedge_slate_runs_total",
				Help: "Slate runs by status",
			},
			[]string{"status"},
		),
		SlateDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hoopsedge_slate_duration_seconds",
				Help:    "Slate run latency",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
		SlateStaked: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "hoopsedge_slate_staked",
				Help: "Bankroll amount allocated by the last slate run",
			},
		),
		SlateExposure: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "hoopsedge_slate_exposure_ratio",
				Help: "Allocated amount over bankroll for the last slate run",
			},
		),
	}

	m.registry.MustRegister(
		m.StagesTotal,
		m.StageLatency,
		m.GamesTotal,
		m.GameDuration,
		m.LinesTotal,
		m.BetsTotal,
		m.LineEdge,
		m.SlateRuns,
		m.SlateDuration,
		m.SlateStaked,
		m.SlateExposure,
	)
	return m
}

// Registry returns the prometheus registry.
func (m *PipelineMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveStage records one module run.
func (m *PipelineMetrics) ObserveStage(r *pipeline.StageResult) {
	m.StagesTotal.WithLabelValues(r.Module, string(r.Group), status(r.Success)).Inc()
	m.StageLatency.WithLabelValues(r.Module).Observe(r.Duration.Seconds())
}

// ObserveGame records one finished game.
func (m *PipelineMetrics) ObserveGame(_ string, d time.Duration, err error) {
	m.GamesTotal.WithLabelValues(status(err == nil)).Inc()
	m.GameDuration.Observe(d.Seconds())
}

// RecordLines records evaluated legs.
func (m *PipelineMetrics) RecordLines(lines []core.ValueLine) {
	for _, l := range lines {
		market := string(l.Market)
		m.LinesTotal.WithLabelValues(market).Inc()
		m.LineEdge.WithLabelValues(market).Observe(l.EdgePct)
		if l.IsBet() {
			m.BetsTotal.WithLabelValues(market).Inc()
		}
	}
}

// RecordSlate records a finished slate run and its allocation.
func (m *PipelineMetrics) RecordSlate(plan *policy.Plan, d time.Duration, err error) {
	m.SlateRuns.WithLabelValues(status(err == nil)).Inc()
	m.SlateDuration.Observe(d.Seconds())
	if plan == nil {
		return
	}
	m.SlateStaked.Set(DecimalToFloat64(plan.Total))
	if !plan.Bankroll.IsZero() {
		m.SlateExposure.Set(DecimalToFloat64(plan.Total.Div(plan.Bankroll)))
	}
}

// DecimalToFloat64 converts decimal.Decimal to float64 for metrics.
func DecimalToFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func status(ok bool) string {
	if ok {
		return StatusOK
	}
	return StatusError
}
