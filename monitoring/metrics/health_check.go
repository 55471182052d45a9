package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusNotHealthy = 0
	statusHealthy    = 1
)

var metricsNodeStatus = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "benor:node_status",
	Help: "Status of the operated node (1 healthy, 0 not healthy)",
})

// HealthChecker reports an error while the component is not healthy.
type HealthChecker interface {
	HealthCheck() error
}

// HealthCheckFunc adapts a function to HealthChecker.
type HealthCheckFunc func() error

func (f HealthCheckFunc) HealthCheck() error {
	return f()
}

// ReportNodeHealthiness reports node healthiness.
func ReportNodeHealthiness(healthy bool) {
	if healthy {
		metricsNodeStatus.Set(float64(statusHealthy))
	} else {
		metricsNodeStatus.Set(float64(statusNotHealthy))
	}
}
