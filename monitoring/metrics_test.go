package monitoring

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lightningnetwork/wirestream/streamreader"
	"github.com/lightningnetwork/wirestream/wirecfg"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// TestPeerObserverCounters checks that each peer feeds its own series.
func TestPeerObserverCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics, err := NewReaderMetrics(reg)
	require.NoError(t, err)

	alice := metrics.ForPeer("alice")
	bob := metrics.ForPeer("bob")

	alice.BytesRead(100)
	alice.BytesRead(26)
	alice.MessagesDecoded(2)
	bob.BytesRead(24)
	bob.Failed(streamreader.FailureMalformed, errors.New("bad magic"))
	alice.Failed(streamreader.FailureClosed, io.EOF)

	require.Equal(t, 126.0, testutil.ToFloat64(
		metrics.bytesRead.WithLabelValues("alice"),
	))
	require.Equal(t, 24.0, testutil.ToFloat64(
		metrics.bytesRead.WithLabelValues("bob"),
	))
	require.Equal(t, 2.0, testutil.ToFloat64(
		metrics.messages.WithLabelValues("alice"),
	))
	require.Equal(t, 1.0, testutil.ToFloat64(
		metrics.failures.WithLabelValues("bob", "malformed"),
	))
	require.Equal(t, 0.0, testutil.ToFloat64(
		metrics.failures.WithLabelValues("bob", "transport"),
	))
	require.Equal(t, 1.0, testutil.ToFloat64(
		metrics.failures.WithLabelValues("alice", "closed"),
	))
	require.Equal(t, 0.0, testutil.ToFloat64(
		metrics.failures.WithLabelValues("alice", "transport"),
	))
}

// TestNewReaderMetricsDuplicate fails when the counters are registered
// twice.
func TestNewReaderMetricsDuplicate(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewReaderMetrics(reg)
	require.NoError(t, err)

	_, err = NewReaderMetrics(reg)
	require.Error(t, err)
}

// TestMetricsHandler serves the counters in the text exposition format.
func TestMetricsHandler(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics, err := NewReaderMetrics(reg)
	require.NoError(t, err)
	metrics.ForPeer("carol").MessagesDecoded(3)

	expected := `
# HELP wirestream_messages_total Messages decoded from the peer connection.
# TYPE wirestream_messages_total counter
wirestream_messages_total{peer="carol"} 3
`
	require.NoError(t, testutil.GatherAndCompare(
		reg, strings.NewReader(expected), "wirestream_messages_total",
	))

	srv := httptest.NewServer(MetricsHandler(reg))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestExportDisabled refuses to start without the enable flag.
func TestExportDisabled(t *testing.T) {
	t.Parallel()

	err := ExportPrometheusMetrics(
		wirecfg.DefaultPrometheus(), prometheus.NewRegistry(),
	)
	require.ErrorIs(t, err, ErrExporterDisabled)
}
