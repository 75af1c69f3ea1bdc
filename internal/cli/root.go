// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-confidential.
//
// go-confidential is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"fmt"
	"os"

	"github.com/jeremyhahn/go-confidential/internal/config"
	"github.com/jeremyhahn/go-confidential/pkg/confidential"
	"github.com/jeremyhahn/go-confidential/pkg/logging"
	"github.com/jeremyhahn/go-confidential/pkg/storage"
	"github.com/jeremyhahn/go-confidential/pkg/storage/file"
	"github.com/jeremyhahn/go-confidential/pkg/storage/memory"
	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "confidential",
	Short: "go-confidential CLI - Confidential key management tool",
	Long: `go-confidential CLI manages long-lived RSA credentials inside an
encrypted confidential store. Each key pair is generated exactly once
per identity, persisted encrypted at rest, and only public-key-derived
material (base64/PEM/JWK exports, fingerprints, signatures) is ever
printed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.confidential.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")

	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads the configuration honoring the --config flag.
func loadConfig() (*config.Config, error) {
	path := configFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			candidate := home + "/.confidential.yaml"
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}
	return config.Load(path)
}

// newStore builds the confidential store from the active configuration.
func newStore() (*confidential.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	var backend storage.Backend
	switch cfg.Storage.Backend {
	case "memory":
		backend = memory.New()
	default:
		backend, err = file.New(cfg.Storage.Root)
		if err != nil {
			return nil, err
		}
	}

	passphrase, err := cfg.Passphrase()
	if err != nil {
		return nil, err
	}

	return confidential.NewStore(backend, passphrase)
}

// newLogger builds a logger honoring the --verbose flag.
func newLogger() *logging.Logger {
	return logging.NewLogger(verbose)
}

// handleError prints an error and exits with code 1
func handleError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
