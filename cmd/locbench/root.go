package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locbench",
		Short: "locbench - convert Loc-Bench datasets to and from SWE-agent runs",
		Long: `locbench bridges the Loc-Bench code-localization benchmark and SWE-agent.

It prepares agent-runnable task instances from a benchmark dataset, parses
agent trajectories back into localization output records, and checks output
files against the record schema.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newPrepareCommand())
	cmd.AddCommand(newParseCommand())
	cmd.AddCommand(newCheckCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}

// firstNonEmpty returns the first non-empty string, letting CLI flags
// fall back to project config values.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
