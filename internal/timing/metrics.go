package timing

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusOK    = "ok"
	statusError = "error"
)

// Metrics instruments recordings.
type Metrics struct {
	recordingsTotal *prometheus.CounterVec
	blockDuration   *prometheus.GaugeVec
}

// NewMetrics registers the recording metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		recordingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "celltime_recordings_total",
				Help: "Total number of timed blocks",
			},
			[]string{"status"}, // status: ok, error
		),
		blockDuration: newBlockDurationGauge(factory),
	}
}

func newBlockDurationGauge(factory promauto.Factory) *prometheus.GaugeVec {
	return factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "celltime_block_duration_seconds",
			Help: "Wall-clock duration of the last run of a named block",
		},
		[]string{"name"},
	)
}

func (m *Metrics) observe(name string, seconds float64, status string) {
	if m == nil {
		return
	}
	m.recordingsTotal.WithLabelValues(status).Inc()
	m.blockDuration.WithLabelValues(name).Set(seconds)
}

// WriteTextfile writes aggregated timings as a Prometheus textfile that a
// node exporter textfile collector can pick up.
func WriteTextfile(path string, timings map[string]float64) error {
	reg := prometheus.NewRegistry()
	gauge := newBlockDurationGauge(promauto.With(reg))
	for name, seconds := range timings {
		gauge.WithLabelValues(name).Set(seconds)
	}

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
