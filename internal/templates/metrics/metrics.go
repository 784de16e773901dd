package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for template conversion and the catalog.
type Metrics struct {
	// Components built by conversions, by node type
	ComponentsConverted *prometheus.CounterVec

	// Failed conversions by the type of the failing node ("unknown" when the
	// discriminator itself was bad)
	ConversionFailures *prometheus.CounterVec

	// Latency of one whole conversion request
	ConversionLatency prometheus.Histogram

	// Templates currently held by the catalog
	TemplatesLoaded prometheus.Gauge

	// Catalog reloads by outcome
	CatalogReloads *prometheus.CounterVec
}

// New creates a Metrics instance registered with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a Metrics instance registered with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ComponentsConverted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "appforms_components_converted_total",
			Help: "Total components built from template documents by node type",
		}, []string{"type"}),

		ConversionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "appforms_conversion_failures_total",
			Help: "Total failed conversions by the type of the failing node",
		}, []string{"type"}),

		ConversionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "appforms_conversion_duration_seconds",
			Help:    "Duration of converting one document into a component tree",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),

		TemplatesLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "appforms_templates_loaded",
			Help: "Number of templates currently served by the catalog",
		}),

		CatalogReloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "appforms_catalog_reloads_total",
			Help: "Total catalog reloads by outcome",
		}, []string{"outcome"}), // outcome: "success", "failure"
	}
}

// IncrementConverted records one built component of the node type.
func (m *Metrics) IncrementConverted(nodeType string) {
	if m != nil {
		m.ComponentsConverted.WithLabelValues(nodeType).Inc()
	}
}

// IncrementFailure records a failed conversion.
func (m *Metrics) IncrementFailure(nodeType string) {
	if m != nil {
		if nodeType == "" {
			nodeType = "unknown"
		}
		m.ConversionFailures.WithLabelValues(nodeType).Inc()
	}
}

// ObserveConversion records the duration of one conversion.
func (m *Metrics) ObserveConversion(d time.Duration) {
	if m != nil {
		m.ConversionLatency.Observe(d.Seconds())
	}
}

// SetTemplatesLoaded records the catalog size.
func (m *Metrics) SetTemplatesLoaded(n int) {
	if m != nil {
		m.TemplatesLoaded.Set(float64(n))
	}
}

// IncrementReload records a catalog reload outcome.
func (m *Metrics) IncrementReload(success bool) {
	if m != nil {
		outcome := "success"
		if !success {
			outcome = "failure"
		}
		m.CatalogReloads.WithLabelValues(outcome).Inc()
	}
}
