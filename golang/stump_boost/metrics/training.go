//Package metrics exposes training progress as Prometheus metrics.
package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tarstars/stump_boosting/golang/stump_boost/sbl"
)

const namespace = "stump_boost"

//Training holds the metrics of one training run in its own registry.
type Training struct {
	registry *prometheus.Registry

	Rounds        prometheus.Counter
	RoundDuration prometheus.Histogram
	TPR           prometheus.Gauge
	FPR           prometheus.Gauge
	DetectionRate prometheus.Gauge
	ErrorRate     prometheus.Gauge
	Alpha         prometheus.Gauge
	Threshold     prometheus.Gauge
	Stumps        *prometheus.CounterVec
}

//NewTraining registers the training metrics. The run label is attached to every series.
func NewTraining(run string) *Training {
	m := &Training{registry: prometheus.NewRegistry()}
	registry := prometheus.WrapRegistererWith(prometheus.Labels{"run": run}, m.registry)

	m.Rounds = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rounds_total",
		Help:      "Number of finished boosting rounds.",
	})
	m.RoundDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "round_duration_seconds",
		Help:      "Duration of one boosting round.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	})
	m.Stumps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stumps_by_polarity_total",
		Help:      "Trained stumps by polarity.",
	}, []string{"polarity"})
	registry.MustRegister(m.Rounds, m.RoundDuration, m.Stumps)

	gauges := []struct {
		target     *prometheus.Gauge
		name, help string
	}{
		{&m.TPR, "tpr", "True positive rate of the ensemble on the training set."},
		{&m.FPR, "fpr", "False positive rate of the ensemble on the training set."},
		{&m.DetectionRate, "detection_rate", "Detection rate at the current threshold."},
		{&m.ErrorRate, "weighted_error", "Weighted error of the last stump after the floor."},
		{&m.Alpha, "alpha", "Voting weight of the last stump."},
		{&m.Threshold, "threshold", "Current decision threshold of the ensemble."},
	}
	for _, g := range gauges {
		*g.target = prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: g.name, Help: g.help})
		registry.MustRegister(*g.target)
	}
	return m
}

//Observe records one round. It has the signature of sbl.RoundObserver.
func (m *Training) Observe(report sbl.RoundReport) {
	m.Rounds.Inc()
	m.RoundDuration.Observe(report.Duration.Seconds())
	m.TPR.Set(report.TPR)
	m.FPR.Set(report.FPR)
	m.DetectionRate.Set(report.DetectionRate)
	m.ErrorRate.Set(report.ErrorRate)
	m.Alpha.Set(report.Alpha)
	m.Threshold.Set(report.Threshold)
	polarity := "positive"
	if report.Stump.Polarity < 0 {
		polarity = "negative"
	}
	m.Stumps.WithLabelValues(polarity).Inc()
}

//Gatherer gives access to the registry.
func (m *Training) Gatherer() prometheus.Gatherer {
	return m.registry
}

//WriteTextfile dumps the metrics in the text exposition format for the node exporter textfile collector.
func (m *Training) WriteTextfile(path string) error {
	return errors.Wrapf(prometheus.WriteToTextfile(path, m.registry), "metrics textfile %s", path)
}
