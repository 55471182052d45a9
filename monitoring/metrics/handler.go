package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	http_pprof "net/http/pprof"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ssvlabs/benor/logging"
	"github.com/ssvlabs/benor/logging/fields"
)

// Handler handles incoming metrics requests
type Handler interface {
	// Start starts an http server, listening to /metrics requests
	Start(logger *zap.Logger, mux *http.ServeMux, addr string) error
}

type metricsHandler struct {
	enableProf    bool
	healthChecker HealthChecker
}

// NewMetricsHandler returns a new metrics handler.
func NewMetricsHandler(enableProf bool, healthChecker HealthChecker) Handler {
	return &metricsHandler{
		enableProf:    enableProf,
		healthChecker: healthChecker,
	}
}

func (mh *metricsHandler) Start(logger *zap.Logger, mux *http.ServeMux, addr string) error {
	logger = logger.Named(logging.NameMetrics)
	logger.Info("setup collection", fields.Address(addr), zap.Bool("enableProf", mh.enableProf))

	mh.register(mux)

	// Set a high timeout to allow for long-running pprof requests.
	const timeout = 600 * time.Second

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	if err := httpServer.ListenAndServe(); err != nil {
		return fmt.Errorf("listen to %s: %w", addr, err)
	}

	return nil
}

func (mh *metricsHandler) register(mux *http.ServeMux) {
	if mh.enableProf {
		mh.configureProfiling()
		// adding pprof routes manually on an own HTTPMux to avoid lint issue:
		// `G108: Profiling endpoint is automatically exposed on /debug/pprof (gosec)`
		mux.HandleFunc("/debug/pprof/", http_pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", http_pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", http_pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", http_pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", http_pprof.Trace)
	}

	mux.Handle("/metrics", promhttp.HandlerFor(
		prometheus.DefaultGatherer,
		promhttp.HandlerOpts{
			// Opt into OpenMetrics to support exemplars.
			EnableOpenMetrics: true,
		},
	))
	mux.HandleFunc("/health", mh.handleHealth)
}

func (mh *metricsHandler) handleHealth(res http.ResponseWriter, req *http.Request) {
	if err := mh.healthChecker.HealthCheck(); err != nil {
		ReportNodeHealthiness(false)
		result := map[string][]string{
			"errors": {err.Error()},
		}
		if raw, err := json.Marshal(result); err != nil {
			http.Error(res, err.Error(), http.StatusInternalServerError)
		} else {
			http.Error(res, string(raw), http.StatusInternalServerError)
		}
	} else {
		ReportNodeHealthiness(true)
		if _, err := fmt.Fprintln(res, ""); err != nil {
			http.Error(res, err.Error(), http.StatusInternalServerError)
		}
	}
}

func (mh *metricsHandler) configureProfiling() {
	runtime.SetBlockProfileRate(10000)
	runtime.SetMutexProfileFraction(5)
}
