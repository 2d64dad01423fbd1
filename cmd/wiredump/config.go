package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
	"github.com/jessevdk/go-flags"
	"github.com/lightningnetwork/wirestream/build"
	"github.com/lightningnetwork/wirestream/netwire"
	"github.com/lightningnetwork/wirestream/wirecfg"
)

const (
	defaultLogDirname  = "logs"
	defaultLogFilename = "wiredump.log"

	defaultDialTimeout  = 30 * time.Second
	defaultPingInterval = 2 * time.Minute
)

var (
	// DefaultAppDir is the default directory for the config file and
	// logs of wiredump.
	DefaultAppDir = btcutil.AppDataDir("wiredump", false)

	// DefaultConfigFile is the default full path of the config file.
	DefaultConfigFile = filepath.Join(
		DefaultAppDir, wirecfg.DefaultConfigFilename,
	)

	defaultLogDir = filepath.Join(DefaultAppDir, defaultLogDirname)
)

// Config defines the configuration options for wiredump.
//
// See DefaultConfig for default values.
//
//nolint:ll
type Config struct {
	ShowVersion bool `short:"V" long:"version" description:"Display version information and exit"`

	AppDir     string `long:"appdir" description:"The base directory that contains the config file and logs"`
	ConfigFile string `short:"C" long:"configfile" description:"Path to configuration file"`
	LogDir     string `long:"logdir" description:"Directory to log output."`
	CaptureDir string `long:"capturedir" description:"If set, the raw bytes received from each peer are written zstd compressed to a file in this directory"`

	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <global-level>,<subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`

	Network     string        `long:"network" description:"The network the peers are on" choice:"mainnet" choice:"testnet3" choice:"regtest" choice:"simnet" choice:"signet"`
	Connect     []string      `long:"connect" description:"Connect to the peer at this host[:port], send a version message and dump everything it sends. May be specified multiple times"`
	Replay      []string      `long:"replay" description:"Decode a file of captured traffic. Files ending in .zst are decompressed first. May be specified multiple times"`
	DialTimeout time.Duration `long:"dialtimeout" description:"How long to wait for a peer connection to be established"`
	UserAgent   string        `long:"useragent" description:"The user agent advertised in the version message"`

	PingInterval time.Duration `long:"pinginterval" description:"How often to ping a connected peer to keep the connection alive. 0 disables pings"`

	Stream *wirecfg.Stream `group:"stream" namespace:"stream"`

	Prometheus wirecfg.Prometheus `group:"prometheus" namespace:"prometheus"`

	LogConfig *build.LogConfig `group:"logging" namespace:"logging"`

	// net is the magic of the network the peers are on. It is derived
	// from Network during validation.
	net wire.BitcoinNet
}

// DefaultConfig returns all default values for the Config struct.
func DefaultConfig() Config {
	return Config{
		AppDir:       DefaultAppDir,
		ConfigFile:   DefaultConfigFile,
		LogDir:       defaultLogDir,
		DebugLevel:   "info",
		Network:      wirecfg.DefaultNetwork,
		DialTimeout:  defaultDialTimeout,
		UserAgent:    build.UserAgent("wiredump"),
		PingInterval: defaultPingInterval,
		Stream:       wirecfg.DefaultStream(),
		Prometheus:   wirecfg.DefaultPrometheus(),
		LogConfig:    build.DefaultLogConfig(),
	}
}

// LoadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
func LoadConfig() (*Config, error) {
	// Pre-parse the command line options to pick up an alternative config
	// file.
	preCfg := DefaultConfig()
	if _, err := flags.Parse(&preCfg); err != nil {
		return nil, err
	}

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", build.Version(),
			"commit="+build.Commit)
		os.Exit(0)
	}

	// If the user has moved the app dir but kept the default config file,
	// then we'll look for the config file within the new app dir.
	configFileDir := wirecfg.CleanAndExpandPath(preCfg.AppDir)
	configFilePath := wirecfg.CleanAndExpandPath(preCfg.ConfigFile)
	if configFileDir != DefaultAppDir &&
		configFilePath == DefaultConfigFile {

		configFilePath = filepath.Join(
			configFileDir, wirecfg.DefaultConfigFilename,
		)
	}

	// Next, load any additional configuration options from the file.
	var configFileError error
	cfg := preCfg
	if err := flags.IniParse(configFilePath, &cfg); err != nil {
		// If it's a parsing related error, then we'll return
		// immediately, otherwise we can proceed as possibly the config
		// file doesn't exist which is OK.
		var iniErr *flags.IniError
		if errors.As(err, &iniErr) {
			return nil, err
		}

		configFileError = err
	}

	// Finally, parse the remaining command line options again to ensure
	// they take precedence.
	if _, err := flags.Parse(&cfg); err != nil {
		return nil, err
	}

	// Make sure everything we just loaded makes sense.
	cleanCfg, err := ValidateConfig(cfg, usageMessage)
	if err != nil {
		return nil, err
	}

	// Warn about missing config file only after all other configuration is
	// done. Logging is not set up yet, so this goes straight to stderr.
	if configFileError != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", configFileError)
	}

	return cleanCfg, nil
}

// ValidateConfig check the given configuration to be sane. This makes sure no
// illegal values or combination of values are set. All file system paths are
// normalized. The cleaned up config is returned on success.
func ValidateConfig(cfg Config, usageMessage string) (*Config, error) {
	appDir := wirecfg.CleanAndExpandPath(cfg.AppDir)
	if appDir != DefaultAppDir && cfg.LogDir == defaultLogDir {
		cfg.LogDir = filepath.Join(appDir, defaultLogDirname)
	}

	mkErr := func(format string, args ...interface{}) error {
		return fmt.Errorf("validateConfig: "+format, args...)
	}

	bitcoinNet, err := wirecfg.ParseNetwork(cfg.Network)
	if err != nil {
		return nil, mkErr("%v. %s", err, usageMessage)
	}
	cfg.net = bitcoinNet
	cfg.Network = wirecfg.NormalizeNetwork(strings.ToLower(cfg.Network))

	if len(cfg.Connect) == 0 && len(cfg.Replay) == 0 {
		return nil, mkErr("at least one of --connect or --replay must "+
			"be specified. %s", usageMessage)
	}

	if cfg.DialTimeout <= 0 {
		return nil, mkErr("dialtimeout must be positive, got %v",
			cfg.DialTimeout)
	}

	if cfg.PingInterval < 0 {
		return nil, mkErr("pinginterval must not be negative, got %v",
			cfg.PingInterval)
	}

	if len(cfg.UserAgent) > netwire.MaxUserAgentLen {
		return nil, mkErr("useragent exceeds %d bytes",
			netwire.MaxUserAgentLen)
	}

	if err := cfg.Stream.Validate(); err != nil {
		return nil, mkErr("%v", err)
	}

	if err := cfg.LogConfig.Validate(); err != nil {
		return nil, mkErr("%v", err)
	}

	// Add the default port of the network to any peer given without one,
	// and drop duplicates.
	defaultPort := wirecfg.DefaultPort(cfg.Network)
	seen := make(map[string]struct{}, len(cfg.Connect))
	connect := make([]string, 0, len(cfg.Connect))
	for _, addr := range cfg.Connect {
		addr = normalizeAddress(addr, defaultPort)
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		connect = append(connect, addr)
	}
	cfg.Connect = connect

	for i, path := range cfg.Replay {
		cfg.Replay[i] = wirecfg.CleanAndExpandPath(path)
	}

	cfg.LogDir = wirecfg.CleanAndExpandPath(cfg.LogDir)
	if cfg.CaptureDir != "" {
		cfg.CaptureDir = wirecfg.CleanAndExpandPath(cfg.CaptureDir)
	}

	return &cfg, nil
}

// normalizeAddress appends defaultPort to addr if it has no port.
func normalizeAddress(addr, defaultPort string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}

	// Bare IPv6 addresses may come with or without brackets.
	host := strings.TrimSuffix(strings.TrimPrefix(addr, "["), "]")

	return net.JoinHostPort(host, defaultPort)
}

// logFilePath returns the path of the log file for the configured network.
func (c *Config) logFilePath() string {
	return filepath.Join(c.LogDir, c.Network, defaultLogFilename)
}
