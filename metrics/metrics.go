package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Realizations counts ornaments realized per kind and outcome, and times
// whole requests.
type Realizations struct {
	Registry  *prometheus.Registry
	ornaments *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	notes     prometheus.Histogram
}

func NewRealizations() *Realizations {
	r := &Realizations{
		Registry: prometheus.NewRegistry(),
		ornaments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ornamentum_ornaments_total",
				Help: "Ornaments seen by the realization driver",
			},
			[]string{"kind", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "ornamentum_realize_duration_seconds",
				Help: "Duration of realize requests",
			},
			[]string{"success"},
		),
		notes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ornamentum_realized_notes",
			Help:    "Notes produced per realize request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	r.Registry.MustRegister(r.ornaments, r.duration, r.notes)
	return r
}

// Ornament records one ornament; outcome is "realized", "skipped" or "failed".
func (r *Realizations) Ornament(kind, outcome string) {
	r.ornaments.WithLabelValues(kind, outcome).Inc()
}

func (r *Realizations) Request(d time.Duration, notes int, success bool) {
	label := "false"
	if success {
		label = "true"
	}
	r.duration.WithLabelValues(label).Observe(d.Seconds())
	if success {
		r.notes.Observe(float64(notes))
	}
}
