package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/lightningnetwork/wirestream/netwire"
	"github.com/lightningnetwork/wirestream/streamreader"
)

// zstdSuffix marks replay files written by the capture option.
const zstdSuffix = ".zst"

// replayFile decodes the captured traffic in path and logs every message. It
// returns the per command counts of the messages decoded, also when it fails.
// A file that ends in the middle of a message is reported as an error.
func replayFile(ctx context.Context, cfg *Config, path string,
	observer streamreader.Observer) (*messageStats, error) {

	stats := newMessageStats()

	file, err := os.Open(path)
	if err != nil {
		return stats, fmt.Errorf("unable to open replay file: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(path, zstdSuffix) {
		dec, err := zstd.NewReader(file)
		if err != nil {
			return stats, fmt.Errorf("unable to read %v: %w", path,
				err)
		}
		defer dec.Close()

		r = dec
	}

	opts := []streamreader.Option{
		streamreader.WithChunkSize(cfg.Stream.ChunkSize),
	}
	if observer != nil {
		opts = append(opts, streamreader.WithObserver(observer))
	}

	decoder := netwire.NewEnvelopeDecoder(cfg.net, netwire.ProtocolVersion)
	reader := streamreader.New(r, decoder.Decode, opts...)

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		envs, err := reader.ReadMessages()
		switch {
		case err == nil:

		case errors.Is(err, io.EOF):
			if residual := reader.Buffered(); len(residual) > 0 {
				return stats, fmt.Errorf("%v: %d trailing bytes "+
					"of an incomplete message", path,
					len(residual))
			}

			wdmpLog.InfoS(ctx, "Replay complete",
				slog.String("file", path),
				slog.Int("messages", stats.total))

			return stats, nil

		default:
			return stats, fmt.Errorf("%v: %w", path, err)
		}

		for _, env := range envs {
			logMessage(ctx, path, env.Message, true)
			stats.record(env.Message.Command())
		}
	}
}
