package monitoring

import (
	"errors"
	"net/http"
	"sync"

	"github.com/lightningnetwork/wirestream/wirecfg"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var started sync.Once

// ErrExporterDisabled is returned when the exporter is started with a
// configuration that does not enable it.
var ErrExporterDisabled = errors.New("prometheus exporter is disabled")

// MetricsHandler returns the handler serving the metrics of gatherer.
func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ExportPrometheusMetrics launches the Prometheus exporter on the configured
// address. Only the first call starts a server.
func ExportPrometheusMetrics(cfg wirecfg.Prometheus,
	gatherer prometheus.Gatherer) error {

	if !cfg.Enabled() {
		return ErrExporterDisabled
	}

	started.Do(func() {
		log.Infof("Prometheus exporter started on %v/metrics",
			cfg.Listen)

		mux := http.NewServeMux()
		mux.Handle("/metrics", MetricsHandler(gatherer))
		go func() {
			err := http.ListenAndServe(cfg.Listen, mux)
			if err != nil {
				log.Errorf("Prometheus exporter stopped: %v",
					err)
			}
		}()
	})

	return nil
}
