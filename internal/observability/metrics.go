package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/gravlens/internal/pipeline"
)

// Metrics records frame-loop progress. It implements pipeline.Observer.
type Metrics struct {
	scenario string
	last     time.Time

	frames     *prometheus.CounterVec
	hidden     *prometheus.CounterVec
	brightness *prometheus.GaugeVec
	duration   *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer, scenario string) (*Metrics, error) {
	m := &Metrics{
		scenario: scenario,
		last:     time.Now(),
		frames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gravlens",
				Subsystem: "pipeline",
				Name:      "frames_total",
				Help:      "Frames rendered, lensed and measured.",
			},
			[]string{"scenario"},
		),
		hidden: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gravlens",
				Subsystem: "pipeline",
				Name:      "hidden_bodies_total",
				Help:      "Bodies skipped because a nearer body covered them.",
			},
			[]string{"scenario"},
		),
		brightness: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gravlens",
				Subsystem: "pipeline",
				Name:      "brightness",
				Help:      "Normalised brightness of the latest frame.",
			},
			[]string{"scenario", "series"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gravlens",
				Subsystem: "pipeline",
				Name:      "frame_duration_seconds",
				Help:      "Wall time between consecutive completed frames.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"scenario"},
		),
	}

	for _, c := range []prometheus.Collector{m.frames, m.hidden, m.brightness, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Start resets the frame clock, e.g. after the orbit has been integrated.
func (m *Metrics) Start() { m.last = time.Now() }

func (m *Metrics) OnFrame(f *pipeline.Frame) {
	now := time.Now()
	m.duration.WithLabelValues(m.scenario).Observe(now.Sub(m.last).Seconds())
	m.last = now

	m.frames.WithLabelValues(m.scenario).Inc()
	for _, v := range f.Visible {
		if !v {
			m.hidden.WithLabelValues(m.scenario).Inc()
		}
	}
	m.brightness.WithLabelValues(m.scenario, "raw").Set(f.RawBrightness)
	m.brightness.WithLabelValues(m.scenario, "lensed").Set(f.LensedBrightness)
}

// WriteTextfile dumps everything gathered by g in the node-exporter
// textfile format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
