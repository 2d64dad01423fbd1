package build

import (
	"io"
	"os"

	"github.com/btcsuite/btclog/v2"
)

// NewDefaultHandler returns the handler all subsystem loggers of a binary
// share. It writes to stdout, the rotating log file, or both depending on
// which loggers cfg leaves enabled. The console options take precedence when
// both are enabled since the two destinations share one handler.
func NewDefaultHandler(cfg *LogConfig,
	rotator *RotatingLogWriter) btclog.Handler {

	var (
		writers []io.Writer
		opts    []btclog.HandlerOption
	)
	if !cfg.File.Disable && rotator != nil {
		writers = append(writers, rotator)
		opts = cfg.File.HandlerOptions()
	}
	if !cfg.Console.Disable {
		writers = append(writers, os.Stdout)
		opts = cfg.Console.HandlerOptions()
	}

	if len(writers) == 0 {
		return btclog.NewDefaultHandler(io.Discard)
	}

	return btclog.NewDefaultHandler(io.MultiWriter(writers...), opts...)
}
