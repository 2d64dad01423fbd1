package main

import (
	"github.com/btcsuite/btclog/v2"
	"github.com/davecgh/go-spew/spew"
	"github.com/lightningnetwork/wirestream/build"
	"github.com/lightningnetwork/wirestream/monitoring"
	"github.com/lightningnetwork/wirestream/netwire"
	"github.com/lightningnetwork/wirestream/signal"
	"github.com/lightningnetwork/wirestream/streamreader"
)

// Subsystem defines the logging code of the wiredump main package.
const Subsystem = "WDMP"

// wdmpLog is the logger of the main package. It is replaced by a shutdown
// logger once the loggers are set up.
var wdmpLog = build.NewSubLogger(Subsystem, nil)

// SetupLoggers initializes all package-global logger variables.
func SetupLoggers(root *build.SubLoggerManager, interceptor signal.Interceptor) {
	genLogger := genSubLogger(root, interceptor)

	wdmpLog = build.NewSubLogger(Subsystem, genLogger)

	AddSubLogger(root, netwire.Subsystem, interceptor, netwire.UseLogger)
	AddSubLogger(
		root, streamreader.Subsystem, interceptor, streamreader.UseLogger,
	)
	AddSubLogger(
		root, monitoring.Subsystem, interceptor, monitoring.UseLogger,
	)
	AddSubLogger(root, signal.Subsystem, interceptor, signal.UseLogger)
}

// genSubLogger creates a logger for a subsystem. We provide an instance of
// a signal.Interceptor to be able to shutdown in the case of a critical
// error.
func genSubLogger(root *build.SubLoggerManager,
	interceptor signal.Interceptor) func(string) btclog.Logger {

	// Create a shutdown logger which will request shutdown from our
	// interceptor if it is written to.
	return func(tag string) btclog.Logger {
		logger := root.GenSubLogger(tag, nil)

		return build.NewShutdownLogger(logger, interceptor.RequestShutdown)
	}
}

// AddSubLogger is a helper method to conveniently create and register the
// logger of one or more sub systems.
func AddSubLogger(root *build.SubLoggerManager, subsystem string,
	interceptor signal.Interceptor, useLoggers ...func(btclog.Logger)) {

	// Create and register just a single logger to prevent them from
	// overwriting each other internally.
	logger := build.NewSubLogger(subsystem, genSubLogger(root, interceptor))
	for _, useLogger := range useLoggers {
		useLogger(logger)
	}
}

// logClosure is used to provide a closure over expensive logging operations so
// don't have to be performed when the logging level doesn't warrant it.
type logClosure func() string

// String invokes the underlying function and returns the result.
func (c logClosure) String() string {
	return c()
}

// newLogClosure returns a new closure over a function that returns a string
// which itself provides a Stringer interface so that it can be used with the
// logging system.
func newLogClosure(c func() string) logClosure {
	return logClosure(c)
}

// spewMessage dumps every field of msg, only when the trace level is on.
func spewMessage(msg netwire.Message) logClosure {
	return newLogClosure(func() string {
		return spew.Sdump(msg)
	})
}
