// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command ucdemo drives a queue built on the universal construction.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	config   string
	logLevel string
	logFile  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:          "ucdemo",
		Short:        "Exercise a lock-free queue built on the universal construction",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "YAML configuration file")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFile, "log-file", "", "write logs to a rotated file instead of stderr")

	root.AddCommand(newDemoCmd(), newStressCmd(flags))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
