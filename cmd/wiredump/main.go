package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/lightningnetwork/wirestream/build"
	"github.com/lightningnetwork/wirestream/monitoring"
	"github.com/lightningnetwork/wirestream/signal"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Hook interceptor for os signals.
	interceptor := signal.Intercept()

	// Load the configuration, and parse any command line options.
	loadedConfig, err := LoadConfig()
	if err != nil {
		var flagErr *flags.Error
		isFlagErr := errors.As(err, &flagErr)
		if !isFlagErr || flagErr.Type != flags.ErrHelp {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		os.Exit(0)
	}

	// Call the "real" main in a nested manner so the defers will properly
	// be executed in the case of a graceful shutdown.
	if err := Main(loadedConfig, interceptor); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main is the true entry point of wiredump. It sets up logging and metrics,
// then dumps every configured peer and replay file concurrently until all of
// them are done or a shutdown is requested.
func Main(cfg *Config, interceptor signal.Interceptor) error {
	logRotator := build.NewRotatingLogWriter()
	if !cfg.LogConfig.File.Disable {
		err := logRotator.InitLogRotator(
			cfg.LogConfig.File, cfg.logFilePath(),
		)
		if err != nil {
			return fmt.Errorf("log rotation setup failed: %w", err)
		}
	}
	defer logRotator.Close()

	logMgr := build.NewSubLoggerManager(
		build.NewDefaultHandler(cfg.LogConfig, logRotator),
	)
	SetupLoggers(logMgr, interceptor)

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems",
			logMgr.SupportedSubsystems())
		return nil
	}

	err := build.ParseAndSetDebugLevels(cfg.DebugLevel, logMgr)
	if err != nil {
		return err
	}

	ctx, cancel := interceptor.Context(context.Background())
	defer cancel()

	wdmpLog.InfoS(ctx, "Starting wiredump",
		slog.String("version", build.Version()),
		slog.String("commit", build.Commit),
		slog.String("network", cfg.Network))

	registry := prometheus.NewRegistry()
	metrics, err := monitoring.NewReaderMetrics(registry)
	if err != nil {
		return err
	}

	if cfg.Prometheus.Enabled() {
		err := monitoring.ExportPrometheusMetrics(
			cfg.Prometheus, registry,
		)
		if err != nil {
			return err
		}
	}

	// A failing peer or file does not stop the others. The first error is
	// reported once all of them are done.
	var g errgroup.Group
	for _, addr := range cfg.Connect {
		g.Go(func() error {
			err := runPeer(ctx, cfg, addr, metrics.ForPeer(addr))
			if err != nil {
				wdmpLog.ErrorS(ctx, "Peer failed", err,
					slog.String("peer", addr))
			}

			return err
		})
	}
	for _, path := range cfg.Replay {
		g.Go(func() error {
			stats, err := replayFile(
				ctx, cfg, path, metrics.ForPeer(path),
			)
			if err != nil {
				wdmpLog.ErrorS(ctx, "Replay failed", err,
					slog.String("file", path))
			}
			fmt.Println(stats.table(path))

			return err
		})
	}

	err = g.Wait()

	interceptor.RequestShutdown()
	<-interceptor.ShutdownChannel()

	wdmpLog.Info("Shutdown complete")

	return err
}
