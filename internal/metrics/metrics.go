// Package metrics exports run counters in the Prometheus text format.
package metrics

import (
	"fmt"
	"time"

	"github.com/eykd/barcodegen/internal/domain"
	"github.com/eykd/barcodegen/internal/sampler"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bcgen"

// Recorder counts sampler events on a private registry. It implements
// sampler.Observer and is safe for concurrent use.
type Recorder struct {
	registry *prometheus.Registry
	accepted prometheus.Counter
	rejected *prometheus.CounterVec
	duration prometheus.Gauge
	status   *prometheus.GaugeVec
}

// NewRecorder registers the run metrics on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "barcodes_accepted_total",
			Help:      "Barcodes added to the library.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_rejected_total",
			Help:      "Candidates or partial candidates discarded, by reason.",
		}, []string{"reason"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the generation run.",
		}),
		status: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_status",
			Help:      "Set to 1 for the final status of the run.",
		}, []string{"status"}),
	}
	r.registry.MustRegister(r.accepted, r.rejected, r.duration, r.status)
	// Pre-create every reason so zero counts are exported.
	for _, why := range sampler.Rejections {
		r.rejected.WithLabelValues(string(why))
	}
	return r
}

// Rejected counts one rejection.
func (r *Recorder) Rejected(why sampler.Rejection) {
	r.rejected.WithLabelValues(string(why)).Inc()
}

// Accepted counts one accepted barcode.
func (r *Recorder) Accepted(domain.Barcode, []int) {
	r.accepted.Inc()
}

// Progress is a no-op; the accepted counter carries the same information.
func (r *Recorder) Progress(int) {}

// Finish records the run outcome.
func (r *Recorder) Finish(status sampler.Status, elapsed time.Duration) {
	r.duration.Set(elapsed.Seconds())
	r.status.WithLabelValues(string(status)).Set(1)
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every metric to path in the node_exporter textfile
// format. The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
