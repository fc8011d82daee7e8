package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/studioops/boardpulse/internal/config"
	"github.com/studioops/boardpulse/internal/report"
	"github.com/studioops/boardpulse/internal/runlog"
	"github.com/studioops/boardpulse/internal/snapshot"
	"github.com/studioops/boardpulse/internal/trello"
	"github.com/studioops/boardpulse/internal/upload"
)

// Options configures a full run.
type Options struct {
	Config *config.Config
	Log    *runlog.Log
	Upload UploadMode

	// Progress enables the terminal progress bar during the fetch.
	Progress bool

	// APIBase overrides the Trello API root, used by tests.
	APIBase string
}

func listNames(cfg *config.Config) report.ListNames {
	return report.ListNames{
		Recording: cfg.Lists.Recording,
		Review:    cfg.Lists.Review,
		Done:      cfg.Lists.Done,
	}
}

// Build assembles the run's steps. When upload is disabled the step is left
// out entirely, so a disabled run writes no upload lines at all.
func Build(opts Options) []Step {
	steps := []Step{
		{Name: "fetch", Run: fetchStep(opts)},
		{Name: "workload-report", Run: workloadStep(opts)},
		{Name: "completed-report", Run: completedStep(opts)},
	}
	if opts.Upload == UploadEnabled {
		steps = append(steps, Step{Name: "upload", Run: uploadStep(opts)})
	}
	return steps
}

// Run is the full pipeline entry point used by the CLI.
func Run(ctx context.Context, opts Options) error {
	p := &Pipeline{Log: opts.Log, Steps: Build(opts)}
	return p.Run(ctx)
}

func fetchStep(opts Options) func(ctx context.Context) Result {
	return func(ctx context.Context) Result {
		cfg := opts.Config
		client := trello.NewClient(cfg.Trello.APIKey, cfg.Trello.Token)
		if opts.APIBase != "" {
			client.SetBaseURL(opts.APIBase)
		}
		if err := client.HealthCheck(ctx); err != nil {
			return Fail(err)
		}

		fetcher := trello.NewFetcher(client, cfg.Trello.Board)
		fetcher.Progress = opts.Progress
		fetcher.Warnf = opts.Log.Warn

		snap, err := fetcher.BuildSnapshot(ctx)
		if err != nil {
			return Fail(err)
		}
		if err := snapshot.Write(cfg.Output.SnapshotFile, snap); err != nil {
			return Fail(err)
		}

		total := 0
		for _, cards := range snap.CardsByList {
			total += len(cards)
		}
		opts.Log.Info("fetched %d cards across %d lists from board %q", total, len(snap.CardsByList), snap.Board.Name)
		return OK()
	}
}

func workloadStep(opts Options) func(ctx context.Context) Result {
	return func(ctx context.Context) Result {
		cfg := opts.Config
		snap, err := snapshot.Load(cfg.Output.SnapshotFile)
		if err != nil {
			return Fail(err)
		}

		workload := report.AnalyzeWorkload(snap, listNames(cfg), time.Now())
		exporter := report.NewHTMLExporter(cfg.Output.Directory)
		path, err := exporter.ExportWorkload(workload, snap.Board.Name)
		if err != nil {
			return Fail(err)
		}
		opts.Log.Info("workload report written to %s (%d speakers, %d warnings)", path, len(workload.Speakers), len(workload.Warnings))
		return OK()
	}
}

func completedStep(opts Options) func(ctx context.Context) Result {
	return func(ctx context.Context) Result {
		cfg := opts.Config
		snap, err := snapshot.Load(cfg.Output.SnapshotFile)
		if err != nil {
			return Fail(err)
		}

		completed := report.AnalyzeCompleted(snap, listNames(cfg))
		exporter := report.NewHTMLExporter(cfg.Output.Directory)
		path, err := exporter.ExportCompleted(completed, snap.Board.Name)
		if err != nil {
			return Fail(err)
		}
		opts.Log.Info("completed projects report written to %s (%d projects)", path, len(completed.Projects))
		return OK()
	}
}

func uploadStep(opts Options) func(ctx context.Context) Result {
	return func(ctx context.Context) Result {
		cfg := opts.Config
		if !cfg.UploadConfigured() {
			return Skip(fmt.Sprintf("missing %s / %s / %s in .env",
				config.EnvSSHHost, config.EnvSSHPassword, config.EnvRemotePath))
		}

		uploader := upload.New(cfg.Upload)
		uploader.Logf = opts.Log.Info

		files := []string{
			filepath.Join(cfg.Output.Directory, report.WorkloadReportFile),
			filepath.Join(cfg.Output.Directory, report.CompletedReportFile),
		}
		status, err := uploader.Upload(files)
		if err != nil {
			return Fail(err)
		}
		if status == upload.StatusSkipped {
			return Skip("upload configuration incomplete")
		}
		return OK()
	}
}
