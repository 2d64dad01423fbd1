package wirecfg

import (
	"fmt"

	"github.com/lightningnetwork/wirestream/streamreader"
)

const (
	// DefaultChunkSize is the default number of bytes requested from a
	// connection per read.
	DefaultChunkSize = streamreader.DefaultChunkSize

	// MaxChunkSize bounds the scratch buffer allocated per connection.
	MaxChunkSize = 32 * 1024 * 1024
)

// Stream exposes CLI configuration for the stream readers attached to each
// connection.
//
//nolint:ll
type Stream struct {
	// ChunkSize is the maximum number of bytes requested per read.
	ChunkSize int `long:"chunksize" description:"Maximum number of bytes requested from a connection per read."`
}

// DefaultStream returns the default stream reader configuration.
func DefaultStream() *Stream {
	return &Stream{
		ChunkSize: DefaultChunkSize,
	}
}

// Validate checks that the chunk size is positive and bounded.
func (s *Stream) Validate() error {
	if s.ChunkSize < 1 || s.ChunkSize > MaxChunkSize {
		return fmt.Errorf("stream chunk size must be between 1 and "+
			"%d, got %d", MaxChunkSize, s.ChunkSize)
	}

	return nil
}
