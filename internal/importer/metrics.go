package importer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the import flow. A nil *Metrics
// records nothing.
type Metrics struct {
	previews     *prometheus.CounterVec
	previewTime  prometheus.Histogram
	commits      *prometheus.CounterVec
	commitItems  *prometheus.CounterVec
	fetchedItems prometheus.Counter
}

// NewMetrics registers the import collectors against registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		previews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evcharger_import_previews_total",
			Help: "Import previews partitioned by status.",
		}, []string{"status"}),
		previewTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "evcharger_import_preview_duration_seconds",
			Help:    "Duration of fetch, normalize and diff for an import preview.",
			Buckets: prometheus.DefBuckets,
		}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evcharger_import_commits_total",
			Help: "Import commits partitioned by status.",
		}, []string{"status"}),
		commitItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evcharger_import_commit_items_total",
			Help: "Committed import items partitioned by outcome.",
		}, []string{"outcome"}),
		fetchedItems: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evcharger_import_candidates_total",
			Help: "Normalized candidates produced by import previews.",
		}),
	}
	registerer.MustRegister(m.previews, m.previewTime, m.commits, m.commitItems, m.fetchedItems)
	return m
}

func (m *Metrics) observePreview(start time.Time, candidates int, err error) {
	if m == nil {
		return
	}
	m.previews.WithLabelValues(status(err)).Inc()
	m.previewTime.Observe(time.Since(start).Seconds())
	m.fetchedItems.Add(float64(candidates))
}

func (m *Metrics) observeCommit(summary CommitSummary, err error) {
	if m == nil {
		return
	}
	m.commits.WithLabelValues(status(err)).Inc()
	m.commitItems.WithLabelValues("created").Add(float64(summary.Created))
	m.commitItems.WithLabelValues("updated").Add(float64(summary.Updated))
	m.commitItems.WithLabelValues("skipped").Add(float64(summary.Skipped))
}

func status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
