// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "runstats",
		Short:         "Usage analytics for farming runs",
		Long:          "runstats aggregates farming-run events into the usage report shown on the admin dashboard.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file (overrides CONFIG_PATH)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newReportCmd(opts))
	root.AddCommand(newSeedCmd(opts))

	return root
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
