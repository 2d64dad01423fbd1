//go:build dev
// +build dev

package build

import "os"

// Deployment specifies a development build.
const Deployment = Development

// LogLevel is the level stdout loggers start at in development builds. It
// can be overridden with the WIRESTREAM_LOGLEVEL environment variable.
var LogLevel = defaultDevLogLevel()

func defaultDevLogLevel() string {
	if lvl := os.Getenv("WIRESTREAM_LOGLEVEL"); lvl != "" {
		return lvl
	}

	return "debug"
}
