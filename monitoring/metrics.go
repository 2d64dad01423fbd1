package monitoring

import (
	"fmt"

	"github.com/lightningnetwork/wirestream/streamreader"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wirestream"

// ReaderMetrics holds the counters shared by the stream readers of all
// peers. Each counter is partitioned by a peer label.
type ReaderMetrics struct {
	bytesRead *prometheus.CounterVec
	messages  *prometheus.CounterVec
	failures  *prometheus.CounterVec
}

// NewReaderMetrics creates the reader counters and registers them with reg.
func NewReaderMetrics(reg prometheus.Registerer) (*ReaderMetrics, error) {
	m := &ReaderMetrics{
		bytesRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_read_total",
			Help:      "Bytes read from the peer connection.",
		}, []string{"peer"}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Messages decoded from the peer connection.",
		}, []string{"peer"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_failures_total",
			Help:      "Terminal stream reader failures by kind.",
		}, []string{"peer", "kind"}),
	}

	for _, c := range []prometheus.Collector{
		m.bytesRead, m.messages, m.failures,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("unable to register reader "+
				"metrics: %w", err)
		}
	}

	return m, nil
}

// ForPeer returns an observer that records the activity of the stream reader
// of a single peer.
func (m *ReaderMetrics) ForPeer(peer string) *PeerObserver {
	return &PeerObserver{
		metrics:   m,
		peer:      peer,
		bytesRead: m.bytesRead.WithLabelValues(peer),
		messages:  m.messages.WithLabelValues(peer),
	}
}

// PeerObserver feeds the counters of one peer.
type PeerObserver struct {
	metrics *ReaderMetrics
	peer    string

	bytesRead prometheus.Counter
	messages  prometheus.Counter
}

// A compile time check to ensure PeerObserver implements the
// streamreader.Observer interface.
var _ streamreader.Observer = (*PeerObserver)(nil)

// BytesRead adds n to the bytes read counter of the peer.
//
// This is part of the streamreader.Observer interface.
func (p *PeerObserver) BytesRead(n int) {
	p.bytesRead.Add(float64(n))
}

// MessagesDecoded adds n to the messages counter of the peer.
//
// This is part of the streamreader.Observer interface.
func (p *PeerObserver) MessagesDecoded(n int) {
	p.messages.Add(float64(n))
}

// Failed counts the terminal state of the peer's reader by kind. A stream
// that ended at io.EOF is counted as closed.
//
// This is part of the streamreader.Observer interface.
func (p *PeerObserver) Failed(kind streamreader.FailureKind, err error) {
	log.Debugf("Stream reader for %v failed (%v): %v", p.peer, kind, err)

	p.metrics.failures.WithLabelValues(p.peer, kind.String()).Inc()
}
