package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/hbenali/pfeplan/core/metrics"
)

// PromSink records scheduling run outcomes in Prometheus metrics.
type PromSink struct {
	scheduled     *prometheus.CounterVec
	unscheduled   prometheus.Counter
	roomFallbacks prometheus.Counter
	fairness      prometheus.Gauge
	duration      prometheus.Histogram
}

// NewPromSink registers scheduling metrics on the default Prometheus
// registerer. The scrape server is started separately.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	scheduled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pfe_presentations_scheduled_total",
		Help: "Presentations placed, by placement phase",
	}, []string{"phase"})
	unscheduled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pfe_presentations_unscheduled_total",
		Help: "Presentations neither phase could place",
	})
	roomFallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pfe_room_fallbacks_total",
		Help: "Room allocations outside the department's preferred block",
	})
	fairness := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pfe_fairness_stddev",
		Help: "Standard deviation of total jury participations after the last run",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pfe_run_duration_seconds",
		Help:    "Wall time of one scheduling run",
		Buckets: prometheus.DefBuckets,
	})

	if err := reg.Register(scheduled); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			scheduled = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(unscheduled); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			unscheduled = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(roomFallbacks); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			roomFallbacks = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fairness); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fairness = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		scheduled:     scheduled,
		unscheduled:   unscheduled,
		roomFallbacks: roomFallbacks,
		fairness:      fairness,
		duration:      duration,
	}, nil
}

// RecordRun updates all run metrics.
func (s *PromSink) RecordRun(res coremetrics.RunResult) error {
	s.scheduled.WithLabelValues("grouped").Add(float64(res.GroupPlaced))
	s.scheduled.WithLabelValues("fallback").Add(float64(res.FallbackPlaced))
	s.unscheduled.Add(float64(res.Unscheduled))
	s.roomFallbacks.Add(float64(res.RoomFallbacks))
	s.fairness.Set(res.FairnessStdDev)
	s.duration.Observe(res.Duration.Seconds())
	return nil
}
