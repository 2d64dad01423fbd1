package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/btcsuite/btcd/wire"
	"github.com/klauspost/compress/zstd"
	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/lightningnetwork/lnd/ticker"
	"github.com/lightningnetwork/wirestream/netwire"
	"github.com/lightningnetwork/wirestream/streamreader"
)

// peer dumps the traffic of a single outbound connection. It performs the
// minimal part of the handshake needed to keep the remote side talking: our
// version, a verack for theirs and a pong for every ping.
type peer struct {
	cfg  *Config
	addr string
	conn net.Conn

	reader *streamreader.Reader[*netwire.Envelope]

	// writeMtx guards writeBuf and writes to conn.
	writeMtx sync.Mutex
	writeBuf bytes.Buffer

	// nonce is the nonce of our version message. A version carrying the
	// same nonce means we connected to ourselves.
	nonce uint64

	clock clock.Clock

	// pingTicker paces the keepalive pings. It is nil when pings are
	// disabled.
	pingTicker ticker.Ticker
}

// newPeer creates a peer that reads from r and writes replies to conn. r is
// conn itself unless the traffic is being captured.
func newPeer(cfg *Config, addr string, conn net.Conn, r io.Reader,
	observer streamreader.Observer) *peer {

	dec := netwire.NewEnvelopeDecoder(cfg.net, netwire.ProtocolVersion)

	opts := []streamreader.Option{
		streamreader.WithChunkSize(cfg.Stream.ChunkSize),
	}
	if observer != nil {
		opts = append(opts, streamreader.WithObserver(observer))
	}

	p := &peer{
		cfg:    cfg,
		addr:   addr,
		conn:   conn,
		reader: streamreader.New(r, dec.Decode, opts...),
		nonce:  mustRandomUint64(),
		clock:  clock.NewDefaultClock(),
	}
	if cfg.PingInterval > 0 {
		p.pingTicker = ticker.New(cfg.PingInterval)
	}

	return p
}

// mustRandomUint64 returns a random nonce. A failing system random source is
// not something we can recover from.
func mustRandomUint64() uint64 {
	nonce, err := wire.RandomUint64()
	if err != nil {
		panic(fmt.Sprintf("unable to generate nonce: %v", err))
	}

	return nonce
}

// dialPeer connects to addr, honoring the configured dial timeout and ctx.
func dialPeer(ctx context.Context, cfg *Config, addr string) (net.Conn,
	error) {

	dialer := net.Dialer{Timeout: cfg.DialTimeout}

	return dialer.DialContext(ctx, "tcp", addr)
}

// runPeer connects to addr and dumps its traffic until the connection is
// closed or ctx is cancelled.
func runPeer(ctx context.Context, cfg *Config, addr string,
	observer streamreader.Observer) error {

	conn, err := dialPeer(ctx, cfg, addr)
	if err != nil {
		return fmt.Errorf("unable to connect to %v: %w", addr, err)
	}
	defer conn.Close()

	wdmpLog.InfoS(ctx, "Connected to peer", slog.String("peer", addr))

	var r io.Reader = conn
	if cfg.CaptureDir != "" {
		capture, err := newCapture(cfg.CaptureDir, addr)
		if err != nil {
			return err
		}
		defer capture.Close()

		r = io.TeeReader(conn, capture)
	}

	return newPeer(cfg, addr, conn, r, observer).run(ctx)
}

// run sends our version message and then processes incoming messages until
// the stream ends. A remote that closes the connection is not an error.
func (p *peer) run(ctx context.Context) error {
	// Unblock the reader once we're asked to shut down.
	stop := context.AfterFunc(ctx, func() {
		_ = p.conn.Close()
	})
	defer stop()

	if err := p.writeMessage(ctx, p.localVersion()); err != nil {
		return err
	}

	if p.pingTicker != nil {
		quit := make(chan struct{})
		defer close(quit)

		p.pingTicker.Resume()
		defer p.pingTicker.Stop()

		go p.pingHandler(ctx, quit)
	}

	for {
		envs, err := p.reader.ReadMessages()
		switch {
		case err == nil:

		case ctx.Err() != nil:
			return nil

		case errors.Is(err, io.EOF):
			wdmpLog.InfoS(ctx, "Peer closed the connection",
				slog.String("peer", p.addr))

			return nil

		default:
			return fmt.Errorf("peer %v: %w", p.addr, err)
		}

		for _, env := range envs {
			if err := p.handleMessage(ctx, env.Message); err != nil {
				return err
			}
		}
	}
}

// handleMessage logs msg and answers the messages the remote side waits on.
func (p *peer) handleMessage(ctx context.Context, msg netwire.Message) error {
	logMessage(ctx, p.addr, msg, true)

	switch m := msg.(type) {
	case *netwire.Version:
		if m.Nonce == p.nonce {
			return fmt.Errorf("peer %v: connected to self", p.addr)
		}

		return p.writeMessage(ctx, &netwire.VerAck{})

	case *netwire.VerAck:
		wdmpLog.InfoS(ctx, "Handshake complete",
			slog.String("peer", p.addr))

	case *netwire.Ping:
		return p.writeMessage(ctx, netwire.NewPong(m.Nonce))
	}

	return nil
}

// pingHandler sends a ping on every tick until quit is closed. A failed write
// ends the handler, the read loop notices the broken connection on its own.
//
// NOTE: This method MUST be run as a goroutine.
func (p *peer) pingHandler(ctx context.Context, quit <-chan struct{}) {
	for {
		select {
		case <-p.pingTicker.Ticks():
			ping := netwire.NewPing(mustRandomUint64())
			if err := p.writeMessage(ctx, ping); err != nil {
				wdmpLog.DebugS(ctx, "Unable to send ping",
					slog.String("peer", p.addr),
					slog.String("err", err.Error()))

				return
			}

		case <-quit:
			return

		case <-ctx.Done():
			return
		}
	}
}

// writeMessage frames msg for the configured network and writes it to the
// connection.
func (p *peer) writeMessage(ctx context.Context, msg netwire.Message) error {
	p.writeMtx.Lock()
	defer p.writeMtx.Unlock()

	p.writeBuf.Reset()
	_, err := netwire.WriteMessage(
		&p.writeBuf, p.cfg.net, msg, netwire.ProtocolVersion,
	)
	if err != nil {
		return fmt.Errorf("unable to encode %v: %w", msg.Command(), err)
	}

	logMessage(ctx, p.addr, msg, false)

	if _, err := p.conn.Write(p.writeBuf.Bytes()); err != nil {
		return fmt.Errorf("unable to send %v to %v: %w", msg.Command(),
			p.addr, err)
	}

	return nil
}

// localVersion builds the version message we open the connection with. We
// advertise no services and ask the remote side not to relay transactions.
func (p *peer) localVersion() *netwire.Version {
	return &netwire.Version{
		ProtocolVersion: int32(netwire.ProtocolVersion),
		Timestamp:       p.clock.Now().Unix(),
		AddrRecv:        tcpNetAddress(p.conn.RemoteAddr()),
		AddrFrom:        tcpNetAddress(p.conn.LocalAddr()),
		Nonce:           p.nonce,
		UserAgent:       p.cfg.UserAgent,
		Relay:           fn.Some(false),
	}
}

// tcpNetAddress converts addr into a NetAddress. Addresses that are not TCP
// addresses are left zero.
func tcpNetAddress(addr net.Addr) netwire.NetAddress {
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok {
		return netwire.NetAddress{}
	}

	return netwire.NewNetAddress(tcpAddr, 0)
}

// captureWriter writes the raw bytes of a peer connection to a zstd
// compressed file.
type captureWriter struct {
	file *os.File
	*zstd.Encoder
}

// newCapture creates the capture file of addr in dir.
func newCapture(dir, addr string) (*captureWriter, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("unable to create capture dir: %w", err)
	}

	name := strings.NewReplacer(":", "_", "[", "", "]", "").Replace(addr)
	name = fmt.Sprintf("%s-%d.bin.zst", name, time.Now().Unix())

	file, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("unable to create capture file: %w", err)
	}

	enc, err := zstd.NewWriter(file)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	return &captureWriter{file: file, Encoder: enc}, nil
}

// Close flushes the compressed stream and closes the file.
func (c *captureWriter) Close() error {
	if err := c.Encoder.Close(); err != nil {
		_ = c.file.Close()
		return err
	}

	return c.file.Close()
}
