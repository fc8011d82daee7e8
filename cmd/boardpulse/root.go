package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studioops/boardpulse/internal/config"
	"github.com/studioops/boardpulse/internal/pipeline"
	"github.com/studioops/boardpulse/internal/runlog"
)

var (
	envFile      string
	logFile      string
	outputDir    string
	snapshotFile string
	boardName    string
	quiet        bool

	uploadFlag   bool // legacy enable flag, upload is on by default
	noUploadFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "boardpulse",
	Short: "Generate and publish Trello board reports",
	Long: `BoardPulse pulls the card state of a Trello board, renders the speaker
workload and completed projects reports as HTML, and uploads them to the
web host over SFTP. Designed to run unattended from cron.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPipelineCmd,
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Path to .env file (default: ./.env if present)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "Run log file (default: $PIPELINE_LOG or pipeline.log)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Report output directory (default: $OUTPUT_DIR or reports)")
	rootCmd.PersistentFlags().StringVar(&snapshotFile, "snapshot", "", "Snapshot file path (default: $SNAPSHOT_FILE)")
	rootCmd.PersistentFlags().StringVar(&boardName, "board", "", "Trello board name (default: $TRELLO_BOARD)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress the fetch progress bar")

	rootCmd.Flags().BoolVar(&uploadFlag, "upload", false, "Upload reports after rendering (kept for old cron entries; upload is on by default)")
	rootCmd.Flags().BoolVar(&noUploadFlag, "no-upload", false, "Render reports without uploading them")
}

// setup loads the configuration and opens the run log. When the environment
// is unusable the fatal line still lands in the log before the error is
// returned, so aborted runs leave a trace.
func setup(cmd *cobra.Command) (*config.Config, *runlog.Log, error) {
	cfg, cfgErr := config.Load(envFile)

	logPath := logFile
	if logPath == "" {
		if cfgErr == nil {
			logPath = cfg.Output.LogFile
		} else {
			logPath = "pipeline.log"
		}
	}
	log, err := runlog.Open(logPath)
	if err != nil {
		return nil, nil, err
	}

	if cfgErr == nil {
		cfgErr = cfg.Validate()
	}
	if cfgErr != nil {
		log.Error("environment not loaded: %v", cfgErr)
		return nil, nil, cfgErr
	}

	if outputDir != "" {
		cfg.Output.Directory = outputDir
	}
	if snapshotFile != "" {
		cfg.Output.SnapshotFile = snapshotFile
	}
	if boardName != "" {
		cfg.Trello.Board = boardName
	}

	log.Info("environment loaded")
	return cfg, log, nil
}

func runPipelineCmd(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Config:   cfg,
		Log:      log,
		Upload:   pipeline.ResolveUploadMode(uploadFlag, noUploadFlag),
		Progress: !quiet,
	}
	return pipeline.Run(cmd.Context(), opts)
}

// runSteps executes a named subset of the pipeline, used by the step
// subcommands.
func runSteps(cmd *cobra.Command, names ...string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Config:   cfg,
		Log:      log,
		Upload:   pipeline.UploadEnabled,
		Progress: !quiet,
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var steps []pipeline.Step
	for _, step := range pipeline.Build(opts) {
		if wanted[step.Name] {
			steps = append(steps, step)
		}
	}

	p := &pipeline.Pipeline{Log: log, Steps: steps}
	return p.Run(cmd.Context())
}
