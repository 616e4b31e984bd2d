// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

// Command tereport generates Teacher Edition reports offline from a saved
// event log and a directory of LARA exports.
//
//	tereport generate --report usageReport \
//	    --events log.json --content-dir exports/ --names teachers.yaml
//
// Exports are read from <content-dir>/<type>_<id>.json, e.g.
// activity_100.json or sequence_55.json. Teacher names come from the
// optional YAML directory; unknown teachers get "Name not available".
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/tereport/internal/logging"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tereport",
		Short:         "Teacher Edition usage reports",
		Long:          "tereport builds Teacher Edition usage and session reports from log-puller event logs.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, _ := cmd.Flags().GetString("log-level")
			logging.Init(logging.Config{
				Level:     level,
				Format:    "console",
				Timestamp: true,
				Output:    cmd.ErrOrStderr(),
			})
		},
	}

	root.PersistentFlags().String("log-level", "warn", "Log level: trace, debug, info, warn, error")
	root.AddCommand(newGenerateCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.Error().Err(err).Msg("tereport failed")
		os.Exit(1)
	}
}
