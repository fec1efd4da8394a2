package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/oregon-fire-report/internal/adapter/sqlite"
	"github.com/couchcryptid/oregon-fire-report/internal/adapter/xlsx"
	"github.com/couchcryptid/oregon-fire-report/internal/report"
)

func reportCmd(a *app) *cobra.Command {
	var outDir, xlsxPath, sqlitePath string
	var topFires, year int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the static charts and write the optional exports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("out") {
				a.cfg.OutputDir = outDir
			}
			if flags.Changed("xlsx") {
				a.cfg.XLSXPath = xlsxPath
			}
			if flags.Changed("sqlite") {
				a.cfg.SQLitePath = sqlitePath
			}
			if flags.Changed("top") {
				a.cfg.TopFires = topFires
			}
			if flags.Changed("year") {
				a.cfg.ProjectionYear = year
			}
			return a.runReport(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&outDir, "out", "o", "", "chart output directory (overrides OUTPUT_DIR)")
	f.StringVar(&xlsxPath, "xlsx", "", "write the views to this workbook (overrides XLSX_PATH)")
	f.StringVar(&sqlitePath, "sqlite", "", "archive the run in this SQLite database (overrides SQLITE_PATH)")
	f.IntVar(&topFires, "top", 0, "number of largest fires to map (overrides TOP_FIRES)")
	f.IntVar(&year, "year", 0, "year of the density map projection (overrides PROJECTION_YEAR)")
	return cmd
}

func (a *app) runReport(parent context.Context) (err error) {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sinks []report.Sink
	if a.cfg.XLSXPath != "" {
		sinks = append(sinks, xlsx.NewWriter(a.cfg.XLSXPath, a.logger))
	}
	if a.cfg.SQLitePath != "" {
		store, err := sqlite.Open(a.cfg.SQLitePath, a.logger)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, store.Close())
		}()
		sinks = append(sinks, store)
	}

	runner := report.NewRunner(a.loader(), a.geocoder(), sinks, report.Options{
		OutputDir:      a.cfg.OutputDir,
		TopFires:       a.cfg.TopFires,
		ProjectionYear: a.cfg.ProjectionYear,
	}, a.logger, a.metrics)

	rep, err := runner.Run(ctx)
	if err != nil {
		a.logger.Error("report failed", "error", err)
		return err
	}
	a.logger.Info("report written", "run_id", rep.RunID, "charts", len(rep.Charts))
	return nil
}
