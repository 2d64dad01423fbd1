package wirecfg

// DefaultPrometheusListen is the default address the Prometheus exporter
// listens on.
const DefaultPrometheusListen = "127.0.0.1:8989"

// Prometheus configures the Prometheus exporter.
//
//nolint:ll
type Prometheus struct {
	// Enable indicates whether to export Prometheus metrics.
	Enable bool `long:"enable" description:"Enable Prometheus exporting of reader metrics."`

	// Listen is the listening address that we should use to allow the
	// main Prometheus server to scrape our metrics.
	Listen string `long:"listen" description:"The address Prometheus exporter will listen on."`
}

// DefaultPrometheus is the default configuration for the Prometheus metrics
// exporter.
func DefaultPrometheus() Prometheus {
	return Prometheus{
		Listen: DefaultPrometheusListen,
	}
}

// Enabled returns whether or not Prometheus monitoring is enabled.
func (p *Prometheus) Enabled() bool {
	return p.Enable
}
