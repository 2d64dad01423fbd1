package wirecfg

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/wire"
)

const (
	// DefaultConfigFilename is the default configuration file name
	// wiredump tries to load.
	DefaultConfigFilename = "wiredump.conf"

	// DefaultNetwork is the network used when none is configured.
	DefaultNetwork = "mainnet"
)

// networks maps the configurable network names to their wire magic.
var networks = map[string]wire.BitcoinNet{
	"mainnet":  wire.MainNet,
	"testnet3": wire.TestNet3,
	"regtest":  wire.TestNet,
	"simnet":   wire.SimNet,
	"signet":   wire.SigNet,
}

// ParseNetwork returns the wire magic of the named network.
func ParseNetwork(name string) (wire.BitcoinNet, error) {
	net, ok := networks[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown network %q, supported networks "+
			"are %v", name, SupportedNetworks())
	}

	return net, nil
}

// SupportedNetworks returns the names accepted by ParseNetwork.
func SupportedNetworks() []string {
	return []string{"mainnet", "testnet3", "regtest", "simnet", "signet"}
}

// DefaultPort returns the default P2P port of the named network.
func DefaultPort(name string) string {
	switch NormalizeNetwork(strings.ToLower(name)) {
	case "testnet":
		return "18333"
	case "regtest":
		return "18444"
	case "simnet":
		return "18555"
	case "signet":
		return "38333"
	default:
		return "8333"
	}
}

// CleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
// This function is taken from https://github.com/btcsuite/btcd
func CleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		var homeDir string
		u, err := user.Current()
		if err == nil {
			homeDir = u.HomeDir
		} else {
			homeDir = os.Getenv("HOME")
		}

		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// NormalizeNetwork returns the common name of a network type used to create
// file paths. This allows differently versioned networks to use the same path.
func NormalizeNetwork(network string) string {
	if strings.HasPrefix(network, "testnet") {
		return "testnet"
	}

	return network
}
