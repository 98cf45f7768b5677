package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all Prometheus metrics for the import engine
type Registry struct {
	PreviewsStarted  *prometheus.CounterVec
	PreviewPages     *prometheus.CounterVec
	EditsApplied     *prometheus.CounterVec
	SessionsResident prometheus.Gauge
	CommitsTotal     *prometheus.CounterVec
	CommitRowCounts  *prometheus.HistogramVec
	SnapshotOpsTotal *prometheus.CounterVec
	TemplatesApplied prometheus.Counter
	ProviderLatency  *prometheus.HistogramVec
	ProviderErrors   *prometheus.CounterVec
	ReportsExported  prometheus.Counter
}

// NewRegistry registers all import metrics on the default registerer
func NewRegistry() *Registry {
	return NewRegistryWith(prometheus.DefaultRegisterer)
}

// NewRegistryWith registers all import metrics on the given registerer
func NewRegistryWith(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)
	return &Registry{
		PreviewsStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amo_import_previews_started_total",
				Help: "Preview sessions created, by entity type and mode",
			},
			[]string{"entity_type", "mode"},
		),
		PreviewPages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amo_import_preview_pages_total",
				Help: "Row pages served from preview sessions, by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		EditsApplied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amo_import_edits_applied_total",
				Help: "Cell edits applied to preview rows, by source",
			},
			[]string{"source"},
		),
		SessionsResident: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "amo_import_sessions_resident",
				Help: "Preview sessions currently held in memory",
			},
		),
		CommitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amo_import_commits_total",
				Help: "Commit attempts, by entity type and outcome",
			},
			[]string{"entity_type", "outcome"},
		),
		CommitRowCounts: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "amo_import_commit_rows",
				Help:    "Approved row counts per successful commit",
				Buckets: []float64{1, 10, 50, 100, 500, 1500, 5000, 20000},
			},
			[]string{"entity_type"},
		),
		SnapshotOpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amo_import_snapshot_ops_total",
				Help: "Snapshot history operations, by op and outcome",
			},
			[]string{"op", "outcome"},
		),
		TemplatesApplied: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "amo_import_templates_applied_total",
				Help: "Template default applications across preview sessions",
			},
		),
		ProviderLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "amo_import_provider_latency_seconds",
				Help:    "Latency of outbound preview/commit service calls",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider", "call"},
		),
		ProviderErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amo_import_provider_errors_total",
				Help: "Failed outbound preview/commit service calls",
			},
			[]string{"provider", "call"},
		),
		ReportsExported: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "amo_import_reports_exported_total",
				Help: "Batch audit workbooks exported",
			},
		),
	}
}
