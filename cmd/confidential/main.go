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

// Command confidential is the CLI entry point for the confidential key store.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/jeremyhahn/go-confidential/internal/cli"
	"github.com/jeremyhahn/go-confidential/internal/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Metrics are opt-in and only meaningful for long-running invocations
	// (e.g. batch signing); the endpoint is best-effort.
	if listen := metricsListen(); listen != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			_ = http.ListenAndServe(listen, mux)
		}()
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// metricsListen resolves the metrics listen address from the environment
// without requiring a config file to exist.
func metricsListen() string {
	cfg, err := config.Load("")
	if err != nil || !cfg.Metrics.Enabled {
		return ""
	}
	return cfg.Metrics.Listen
}
