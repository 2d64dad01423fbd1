package main

import (
	"testing"
	"time"

	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

// testConfig returns a validated default config for the given network.
func testConfig(t *testing.T, network string) *Config {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Network = network
	cfg.Replay = []string{"capture.bin"}

	cleanCfg, err := ValidateConfig(cfg, "")
	require.NoError(t, err)

	return cleanCfg
}

// TestValidateConfigNetwork resolves the network magic and normalizes the
// name used for file paths.
func TestValidateConfigNetwork(t *testing.T) {
	t.Parallel()

	tests := []struct {
		network string
		net     wire.BitcoinNet
		name    string
	}{
		{"mainnet", wire.MainNet, "mainnet"},
		{"testnet3", wire.TestNet3, "testnet"},
		{"regtest", wire.TestNet, "regtest"},
		{"SigNet", wire.SigNet, "signet"},
	}

	for _, test := range tests {
		cfg := testConfig(t, test.network)
		require.Equal(t, test.net, cfg.net, test.network)
		require.Equal(t, test.name, cfg.Network, test.network)
	}
}

// TestValidateConfigConnect adds the default port of the network to peers
// given without one and drops duplicates.
func TestValidateConfigConnect(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Network = "regtest"
	cfg.Connect = []string{
		"127.0.0.1", "[::1]", "::1", "1.2.3.4:9000", "127.0.0.1:18444",
		"example.com",
	}

	cleanCfg, err := ValidateConfig(cfg, "")
	require.NoError(t, err)
	require.Equal(t, []string{
		"127.0.0.1:18444", "[::1]:18444", "1.2.3.4:9000",
		"example.com:18444",
	}, cleanCfg.Connect)
}

// TestValidateConfigErrors rejects configs that cannot be run.
func TestValidateConfigErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{
			name:   "nothing to do",
			mutate: func(cfg *Config) {},
		},
		{
			name: "unknown network",
			mutate: func(cfg *Config) {
				cfg.Replay = []string{"capture.bin"}
				cfg.Network = "litecoin"
			},
		},
		{
			name: "zero dial timeout",
			mutate: func(cfg *Config) {
				cfg.Connect = []string{"127.0.0.1"}
				cfg.DialTimeout = 0
			},
		},
		{
			name: "user agent too long",
			mutate: func(cfg *Config) {
				cfg.Connect = []string{"127.0.0.1"}
				cfg.UserAgent = string(make([]byte, 257))
			},
		},
		{
			name: "zero chunk size",
			mutate: func(cfg *Config) {
				cfg.Connect = []string{"127.0.0.1"}
				cfg.Stream.ChunkSize = 0
			},
		},
		{
			name: "unknown log compressor",
			mutate: func(cfg *Config) {
				cfg.Connect = []string{"127.0.0.1"}
				cfg.LogConfig.File.Compressor = "lz4"
			},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			test.mutate(&cfg)

			_, err := ValidateConfig(cfg, "")
			require.Error(t, err)
		})
	}
}

// TestDefaultConfig checks the values a fresh config starts with.
func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	require.Equal(t, "mainnet", cfg.Network)
	require.Equal(t, 30*time.Second, cfg.DialTimeout)
	require.Contains(t, cfg.UserAgent, "/wiredump:")
	require.NotNil(t, cfg.Stream)
	require.NotNil(t, cfg.LogConfig)
	require.False(t, cfg.Prometheus.Enabled())
}

// TestLogFilePath places the log file in a per network directory.
func TestLogFilePath(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.LogDir = "/tmp/wiredump"
	cfg.Network = "testnet3"
	cfg.Replay = []string{"capture.bin"}

	cleanCfg, err := ValidateConfig(cfg, "")
	require.NoError(t, err)
	require.Equal(t, "/tmp/wiredump/testnet/wiredump.log",
		cleanCfg.logFilePath())
}
