// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/tereport/internal/logging"
	"github.com/tomtom215/tereport/internal/reportdata"
	"github.com/tomtom215/tereport/internal/reports"
	"github.com/tomtom215/tereport/internal/upstream"
	"github.com/tomtom215/tereport/internal/validation"
)

// generateOptions are the generate command's flags.
type generateOptions struct {
	report     string
	eventsFile string
	contentDir string
	namesFile  string
	out        string
	prefetch   int
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a report CSV from local files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), opts, cmd.OutOrStdout(), time.Now)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.report, "report", string(reports.Usage), "Report to generate: usageReport or sessionReport")
	flags.StringVar(&opts.eventsFile, "events", "", "Event log JSON array, as downloaded from the log puller")
	flags.StringVar(&opts.contentDir, "content-dir", "", "Directory of <type>_<id>.json LARA exports")
	flags.StringVar(&opts.namesFile, "names", "", "Optional YAML map of teacher id to display name")
	flags.StringVar(&opts.out, "out", "", `Output file; "-" writes to stdout (default te-<report>-<millis>.csv)`)
	flags.IntVar(&opts.prefetch, "prefetch", 4, "Concurrent export reads before ingestion; 0 disables")
	_ = cmd.MarkFlagRequired("events")
	_ = cmd.MarkFlagRequired("content-dir")
	return cmd
}

func runGenerate(ctx context.Context, opts *generateOptions, stdout io.Writer, now func() time.Time) error {
	if ctx == nil {
		ctx = context.Background()
	}

	req := validation.GenerateRequest{
		Report:     opts.report,
		EventsFile: opts.eventsFile,
		ContentDir: opts.contentDir,
		NamesFile:  opts.namesFile,
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return fmt.Errorf("invalid arguments: %w", verr)
	}
	kind, err := reports.ParseReportType(opts.report)
	if err != nil {
		return err
	}

	events, err := upstream.FileEventSource{Path: opts.eventsFile}.FetchEvents(ctx, upstream.LogRequest{})
	if err != nil {
		return err
	}

	var identity upstream.IdentitySource
	if opts.namesFile != "" {
		directory, err := upstream.LoadDirectory(opts.namesFile)
		if err != nil {
			return err
		}
		identity = directory
	}

	builder := reportdata.NewBuilder(upstream.DirContentSource{Dir: opts.contentDir}, identity, reportdata.BuildOptions{
		PrefetchConcurrency: opts.prefetch,
		Now:                 now,
	})
	data, err := builder.Build(ctx, events)
	if err != nil {
		return fmt.Errorf("failed to build report data: %w", err)
	}
	if n := len(data.Stats.UnresolvedModules); n > 0 {
		logging.Warn().Strs("modules", data.Stats.UnresolvedModules).Msgf("%d module(s) had no export in %s", n, opts.contentDir)
	}

	if opts.out == "-" {
		return reports.Generate(stdout, kind, data)
	}

	path := opts.out
	if path == "" {
		path = filepath.Join(".", reports.FileName(kind, now()))
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := reports.Generate(f, kind, data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	_, err = fmt.Fprintln(stdout, path)
	return err
}
