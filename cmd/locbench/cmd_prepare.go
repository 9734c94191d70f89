package main

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/spboyer/locbench/internal/dataset"
	"github.com/spboyer/locbench/internal/instances"
	"github.com/spboyer/locbench/internal/projectconfig"
	"github.com/spboyer/locbench/internal/reporting"
	"github.com/spboyer/locbench/internal/utils"
)

var (
	prepareDatasetPath string
	prepareRepoRoot    string
	prepareOutputPath  string
	prepareImageName   string
	prepareFilter      string
	prepareLimit       int
	prepareSkipMissing bool
)

func newPrepareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Convert a benchmark dataset into agent task instances",
		Long: `Convert a Loc-Bench JSONL dataset into SWE-agent instances.jsonl.

Each benchmark record is paired with its local repository mirror, found
under the repo root by replacing '/' in the repo slug with '_'. Records
whose mirror is missing fail the run unless --skip-missing is set.`,
		Args: cobra.NoArgs,
		RunE: prepareCommandE,
	}

	cmd.Flags().StringVar(&prepareDatasetPath, "dataset", "", "Path to the benchmark JSONL dataset (.jsonl, .jsonl.gz, .jsonl.zst)")
	cmd.Flags().StringVar(&prepareRepoRoot, "repo-root", "", "Root directory holding local repo mirrors")
	cmd.Flags().StringVarP(&prepareOutputPath, "output", "o", "", "Output instances.jsonl path")
	cmd.Flags().StringVar(&prepareImageName, "image-name", "", "Deployment image identifier copied onto instances (opaque)")
	cmd.Flags().StringVar(&prepareFilter, "filter", "", "Optional regex filter on instance_id")
	cmd.Flags().IntVar(&prepareLimit, "limit", 0, "Optional max number of instances to emit")
	cmd.Flags().BoolVar(&prepareSkipMissing, "skip-missing", false, "Skip instances whose repo mirror is missing")

	return cmd
}

func prepareCommandE(_ *cobra.Command, _ []string) error {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return err
	}

	datasetPath := firstNonEmpty(prepareDatasetPath, cfg.Paths.Dataset)
	repoRoot := firstNonEmpty(prepareRepoRoot, cfg.Paths.RepoRoot)
	outputPath := firstNonEmpty(prepareOutputPath, cfg.Paths.Output)
	imageName := firstNonEmpty(prepareImageName, cfg.Defaults.ImageName)
	skipMissing := prepareSkipMissing || (cfg.Defaults.SkipMissing != nil && *cfg.Defaults.SkipMissing)

	if datasetPath == "" {
		return fmt.Errorf("--dataset is required (flag or .locbench.yaml)")
	}
	if outputPath == "" {
		return fmt.Errorf("--output is required (flag or .locbench.yaml)")
	}
	if !utils.FileExists(datasetPath) {
		return &MissingInputError{Path: datasetPath}
	}
	if !utils.DirExists(repoRoot) {
		return &MissingInputError{Path: repoRoot}
	}

	var filter *regexp.Regexp
	if prepareFilter != "" {
		filter, err = regexp.Compile(prepareFilter)
		if err != nil {
			return fmt.Errorf("invalid --filter: %w", err)
		}
	}

	records, err := dataset.LoadRecords(datasetPath)
	if err != nil {
		return err
	}
	slog.Debug("Loaded dataset", "path", datasetPath, "records", len(records))

	w, err := dataset.NewWriter(outputPath)
	if err != nil {
		return err
	}

	summary, buildErr := instances.Build(records, w, instances.BuildOptions{
		RepoRoot:    repoRoot,
		ImageName:   imageName,
		Filter:      filter,
		Limit:       prepareLimit,
		SkipMissing: skipMissing,
	})
	if closeErr := w.Close(); buildErr == nil {
		buildErr = closeErr
	}
	if buildErr != nil {
		return buildErr
	}

	for _, warning := range reporting.BuildWarnings(summary) {
		fmt.Fprintln(os.Stderr, warning)
	}

	// The full missing list is collected before aborting so every
	// absent mirror gets reported in one run.
	if len(summary.MissingRepos) > 0 {
		return &RunAbortedError{Message: summary.FormatMissing()}
	}

	fmt.Println(reporting.FormatBuildSummary(summary, outputPath))
	return nil
}
