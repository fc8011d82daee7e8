package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/studioops/boardpulse/internal/report"
	"github.com/studioops/boardpulse/internal/snapshot"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the board and write a fresh snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSteps(cmd, "fetch")
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render both HTML reports from the existing snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSteps(cmd, "workload-report", "completed-report")
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload the rendered reports to the web host",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSteps(cmd, "upload")
	},
}

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export workload CSV and payment workbook from the existing snapshot",
	RunE:  runExportCmd,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "all", "Export format: csv, xlsx or all")
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "xlsx" && exportFormat != "all" {
		return fmt.Errorf("unknown export format %q (expected csv, xlsx or all)", exportFormat)
	}

	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	snap, err := snapshot.Load(cfg.Output.SnapshotFile)
	if err != nil {
		return err
	}

	lists := report.ListNames{
		Recording: cfg.Lists.Recording,
		Review:    cfg.Lists.Review,
		Done:      cfg.Lists.Done,
	}
	age := time.Since(snap.FetchedAt).Round(time.Minute)
	log.Info("exporting from snapshot of board %q (fetched %s ago)", snap.Board.Name, age)

	if exportFormat == "csv" || exportFormat == "all" {
		path, err := report.NewCSVExporter(cfg.Output.Directory).Export(snap, lists)
		if err != nil {
			return err
		}
		log.Info("workload CSV written to %s", path)
	}
	if exportFormat == "xlsx" || exportFormat == "all" {
		path, err := report.NewExcelExporter(cfg.Output.Directory).Export(snap, lists)
		if err != nil {
			return err
		}
		log.Info("payment workbook written to %s", path)
	}
	return nil
}
