package main

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/spboyer/locbench/internal/dataset"
	"github.com/spboyer/locbench/internal/models"
	"github.com/spboyer/locbench/internal/projectconfig"
	"github.com/spboyer/locbench/internal/reporting"
	"github.com/spboyer/locbench/internal/trajectory"
	"github.com/spboyer/locbench/internal/utils"
)

var (
	parseTrajDir     string
	parseDatasetPath string
	parseOutputPath  string
	parseImageName   string
	parseFilter      string
	parseLimit       int
)

func newParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Convert agent trajectories into localization outputs",
		Long: `Convert SWE-agent .traj files into Loc-Bench loc_outputs.jsonl.

Each trajectory is matched to a benchmark record by its file stem;
trajectories for instances outside the dataset are skipped. Steps are
scanned newest-first for the agent's final JSON payload.`,
		Args: cobra.NoArgs,
		RunE: parseCommandE,
	}

	cmd.Flags().StringVar(&parseTrajDir, "traj-dir", "", "Directory containing .traj files (searched recursively)")
	cmd.Flags().StringVar(&parseDatasetPath, "dataset", "", "Path to the benchmark JSONL dataset (for meta_data fields)")
	cmd.Flags().StringVarP(&parseOutputPath, "output", "o", "", "Output loc_outputs.jsonl path")
	cmd.Flags().StringVar(&parseImageName, "image-name", "", "Deployment image identifier (accepted for parity, unused)")
	cmd.Flags().StringVar(&parseFilter, "filter", "", "Optional regex filter on instance_id")
	cmd.Flags().IntVar(&parseLimit, "limit", 0, "Optional max number of records to emit")

	return cmd
}

func parseCommandE(_ *cobra.Command, _ []string) error {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return err
	}

	trajDir := firstNonEmpty(parseTrajDir, cfg.Paths.TrajDir)
	datasetPath := firstNonEmpty(parseDatasetPath, cfg.Paths.Dataset)
	outputPath := firstNonEmpty(parseOutputPath, cfg.Paths.Output)

	if datasetPath == "" {
		return fmt.Errorf("--dataset is required (flag or .locbench.yaml)")
	}
	if outputPath == "" {
		return fmt.Errorf("--output is required (flag or .locbench.yaml)")
	}
	if !utils.DirExists(trajDir) {
		return &MissingInputError{Path: trajDir}
	}
	if !utils.FileExists(datasetPath) {
		return &MissingInputError{Path: datasetPath}
	}

	var filter *regexp.Regexp
	if parseFilter != "" {
		filter, err = regexp.Compile(parseFilter)
		if err != nil {
			return fmt.Errorf("invalid --filter: %w", err)
		}
	}

	records, err := dataset.LoadRecords(datasetPath)
	if err != nil {
		return err
	}
	index, err := models.IndexByInstanceID(records)
	if err != nil {
		return err
	}

	paths, err := trajectory.Discover(trajDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return &RunAbortedError{Message: fmt.Sprintf("No .traj files found under %s", trajDir)}
	}
	slog.Debug("Discovered trajectories", "dir", trajDir, "count", len(paths))

	w, err := dataset.NewWriter(outputPath)
	if err != nil {
		return err
	}

	summary, convertErr := trajectory.ConvertAll(paths, index, w, trajectory.ConvertOptions{
		Filter: filter,
		Limit:  parseLimit,
		Diag:   os.Stderr,
	})
	if closeErr := w.Close(); convertErr == nil {
		convertErr = closeErr
	}
	if convertErr != nil {
		return convertErr
	}

	for _, warning := range reporting.ConvertWarnings(summary) {
		fmt.Fprintln(os.Stderr, warning)
	}
	fmt.Println(reporting.FormatConvertSummary(summary, outputPath))
	return nil
}
