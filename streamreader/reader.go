package streamreader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/btcsuite/btclog/v2"
	"github.com/lightningnetwork/wirestream/netwire"
)

// DefaultChunkSize is the size of the scratch buffer handed to every
// transport read unless WithChunkSize overrides it.
const DefaultChunkSize = 64 * 1024

// DecodeFunc decodes one message from the head of b. It returns the message
// and the number of bytes it occupied on success, an error satisfying
// netwire.IsIncomplete while b holds only a prefix of a message, and any
// other error once the bytes can never form a valid message. It must not
// retain b.
type DecodeFunc[M any] func(b []byte) (M, int, error)

// FailureKind classifies the terminal failure of a Reader.
type FailureKind uint8

const (
	// FailureTransport means the underlying io.Reader returned an error
	// other than io.EOF.
	FailureTransport FailureKind = iota

	// FailureMalformed means the buffered bytes can never form a valid
	// message.
	FailureMalformed

	// FailureClosed means the underlying io.Reader reached io.EOF. The
	// stream ended, possibly with a partial message still buffered.
	FailureClosed
)

// String returns the label used for the failure kind in logs and metrics.
func (k FailureKind) String() string {
	switch k {
	case FailureTransport:
		return "transport"
	case FailureMalformed:
		return "malformed"
	case FailureClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Observer is notified of the activity of a Reader. All methods are called
// from the goroutine that calls ReadMessages.
type Observer interface {
	// BytesRead is called after every transport read that returned at
	// least one byte.
	BytesRead(n int)

	// MessagesDecoded is called after every parse pass that produced
	// messages.
	MessagesDecoded(n int)

	// Failed is called once, when the Reader enters its terminal state.
	Failed(kind FailureKind, err error)
}

// state is the lifecycle position of a Reader.
type state uint8

const (
	stateIdle state = iota
	stateReading
	stateExtracting
	stateFailed
)

// String returns a human readable name for the state.
func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateReading:
		return "reading"
	case stateExtracting:
		return "extracting"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Option configures a Reader.
type Option func(*config)

type config struct {
	chunkSize int
	observer  Observer
}

func defaultConfig() *config {
	return &config{
		chunkSize: DefaultChunkSize,
	}
}

// WithChunkSize sets the maximum number of bytes requested from the
// transport per read. Values below one are ignored.
func WithChunkSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithObserver attaches an Observer to the Reader.
func WithObserver(o Observer) Option {
	return func(c *config) {
		c.observer = o
	}
}

// Reader turns a byte stream into a sequence of decoded messages. Messages
// may arrive split across any number of reads, or several may arrive in one
// read. Once a Reader fails it stays failed.
//
// NOTE: a Reader must only be used by one goroutine at a time.
type Reader[M any] struct {
	r      io.Reader
	decode DecodeFunc[M]
	cfg    *config

	// scratch receives every transport read before it is appended to
	// pending.
	scratch []byte

	// pending holds exactly the bytes of the stream that have been read
	// but not yet decoded into a message.
	pending bytes.Buffer

	state state

	// deferredErr is a read error that arrived together with bytes. It is
	// reported by the next call once those bytes have been parsed.
	deferredErr error

	// err is the terminal error returned by every call after failure.
	err error
}

// New returns a Reader decoding messages from r with decode.
func New[M any](r io.Reader, decode DecodeFunc[M],
	opts ...Option) *Reader[M] {

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Reader[M]{
		r:       r,
		decode:  decode,
		cfg:     cfg,
		scratch: make([]byte, cfg.chunkSize),
	}
}

// ReadMessages blocks until at least one complete message has been decoded
// or the Reader fails. All messages completed by the data read so far are
// returned together, in stream order. A failed Reader returns its stored
// error without touching the transport again.
func (s *Reader[M]) ReadMessages() ([]M, error) {
	if s.state == stateFailed {
		return nil, s.err
	}

	for {
		if s.deferredErr != nil {
			err := s.deferredErr
			s.deferredErr = nil

			return nil, s.fail(transportFailure(err), err)
		}

		s.state = stateReading
		n, readErr := s.r.Read(s.scratch)
		if n > 0 {
			s.pending.Write(s.scratch[:n])
			if s.cfg.observer != nil {
				s.cfg.observer.BytesRead(n)
			}

			log.TraceS(context.Background(), "Read from transport",
				slog.Int("bytes", n),
				slog.Int("pending", s.pending.Len()))
		}

		s.state = stateExtracting
		msgs, err := s.parse()
		if err != nil {
			return nil, s.fail(FailureMalformed, err)
		}

		switch {
		// Messages are handed out before a read error that arrived
		// with their final bytes is reported.
		case len(msgs) > 0:
			if s.cfg.observer != nil {
				s.cfg.observer.MessagesDecoded(len(msgs))
			}
			s.deferredErr = readErr
			s.state = stateIdle

			return msgs, nil

		case readErr != nil:
			return nil, s.fail(transportFailure(readErr), readErr)
		}

		// Nothing complete yet, or an empty read. Wait for more.
	}
}

// parse decodes every complete message at the head of pending. It stops
// without error as soon as the remaining bytes only hold a partial message.
func (s *Reader[M]) parse() ([]M, error) {
	var msgs []M
	for s.pending.Len() > 0 {
		msg, n, err := s.decode(s.pending.Bytes())
		switch {
		case netwire.IsIncomplete(err):
			return msgs, nil

		case err != nil:
			return nil, err

		case n <= 0 || n > s.pending.Len():
			return nil, fmt.Errorf("decoder consumed %d of %d "+
				"buffered bytes", n, s.pending.Len())
		}

		msgs = append(msgs, msg)
		s.pending.Next(n)
	}

	return msgs, nil
}

// transportFailure classifies an error returned by the transport.
func transportFailure(err error) FailureKind {
	if errors.Is(err, io.EOF) {
		return FailureClosed
	}

	return FailureTransport
}

// fail moves the Reader into its terminal state and returns the error every
// later call will report.
func (s *Reader[M]) fail(kind FailureKind, err error) error {
	if kind != FailureMalformed {
		err = fmt.Errorf("read from transport: %w", err)
	}

	s.state = stateFailed
	s.err = err

	log.DebugS(context.Background(), "Stream reader failed",
		slog.String("kind", kind.String()),
		slog.String("err", err.Error()),
		btclog.HexN("pending", s.pending.Bytes(), 32))

	if s.cfg.observer != nil {
		s.cfg.observer.Failed(kind, err)
	}

	return err
}

// Buffered returns a copy of the bytes read from the transport that have not
// yet been decoded into a message.
func (s *Reader[M]) Buffered() []byte {
	return bytes.Clone(s.pending.Bytes())
}

// Failed reports whether the Reader is in its terminal state.
func (s *Reader[M]) Failed() bool {
	return s.state == stateFailed
}
