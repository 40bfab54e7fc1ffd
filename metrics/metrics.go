// Package metrics records per-run counters for a batch job. They are held
// in a private registry and flushed to a textfile for a node exporter to
// collect, since the process exits after one run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"ozon-radar/models"
)

// Recorder collects analysis-run metrics.
type Recorder struct {
	registry            *prometheus.Registry
	runs                *prometheus.CounterVec
	droppedRecords      prometheus.Counter
	translationFailures prometheus.Counter
	listingsScored      prometheus.Gauge
	topScore            prometheus.Gauge
}

// NewRecorder builds a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ozon_radar",
			Name:      "runs_total",
			Help:      "Analysis runs by data mode.",
		}, []string{"mode"}),
		droppedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ozon_radar",
			Name:      "dropped_records_total",
			Help:      "Raw records that could not be normalized.",
		}),
		translationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ozon_radar",
			Name:      "translation_failures_total",
			Help:      "Titles that kept their original text after a failed translation.",
		}),
		listingsScored: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ozon_radar",
			Name:      "listings_scored",
			Help:      "Listings scored in the last run.",
		}),
		topScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ozon_radar",
			Name:      "top_opportunity_score",
			Help:      "Highest opportunity score in the last run.",
		}),
	}
	r.registry.MustRegister(r.runs, r.droppedRecords, r.translationFailures, r.listingsScored, r.topScore)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveReport records the outcome of one completed run.
func (r *Recorder) ObserveReport(rep *models.Report) {
	if rep == nil {
		return
	}
	r.runs.WithLabelValues(string(rep.Mode)).Inc()
	r.droppedRecords.Add(float64(rep.Dropped))
	r.translationFailures.Add(float64(rep.TranslationFails))
	r.listingsScored.Set(float64(len(rep.Listings)))

	top := 0
	for _, l := range rep.Listings {
		top = max(top, l.OpportunityScore)
	}
	r.topScore.Set(float64(top))
}

// WriteTextfile flushes the registry in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("metrics: write textfile %q: %w", path, err)
	}
	return nil
}
