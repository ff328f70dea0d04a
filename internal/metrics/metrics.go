// Package metrics exposes prometheus counters for the publish pipeline
// and the image relay, served on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// RunsTotal counts publish runs by result ("success" or "failure").
	RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autoposts",
		Name:      "runs_total",
		Help:      "Publish pipeline runs by result.",
	}, []string{"result"})

	// StageFailures counts failed runs by the stage that failed.
	StageFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autoposts",
		Name:      "stage_failures_total",
		Help:      "Publish pipeline failures by stage.",
	}, []string{"stage"})

	// RelayRequests counts image relay requests by outcome class.
	RelayRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autoposts",
		Name:      "relay_requests_total",
		Help:      "Image relay requests by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(RunsTotal, StageFailures, RelayRequests)
}
