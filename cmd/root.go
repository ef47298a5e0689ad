// Package cmd provides the root command and CLI setup for covmerge.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"covmerge.dev/pkg/covmerge/internal/adapter"
	"covmerge.dev/pkg/covmerge/internal/controller"
	"covmerge.dev/pkg/covmerge/internal/domain"
	m "covmerge.dev/pkg/covmerge/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var parsers map[m.Format]adapter.CoverageParser

// workflow overrides the per-command workflow when set (tests inject mocks here).
var workflow domain.Workflow

// logFileFlag tees log records into a rotating file.
var logFileFlag string

// verboseFlag switches logging to Debug.
var verboseFlag bool

func init() {
	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewReportStore(fsAdapter)
	parsers = adapter.DefaultParsers()
}

const rootLongDescription = `covmerge merges the coverage reports of a test run into a single lcov
tracefile.

Inputs are found by walking a coverage directory or listed in a reports file.
Tracefiles (.dat) and gcov intermediate files (.gcov) are parsed and merged.
When no parseable coverage exists but exactly one .profdata file was found,
that file is copied to the output unchanged.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "covmerge",
		Short:         "Coverage report merger",
		Long:          rootLongDescription,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			configureLogger(cmd.ErrOrStderr(), viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "also write logs to this rotating file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// workflowFor returns the injected workflow or one whose UI writes to cmd.
func workflowFor(cmd *cobra.Command) domain.Workflow {
	if workflow != nil {
		return workflow
	}

	return newWorkflow(cmd, globalLogger)
}

func newWorkflow(cmd *cobra.Command, logger *slog.Logger) domain.Workflow {
	return domain.NewWorkflow(
		fsAdapter,
		reportStore,
		controller.NewSimpleUI(cmd),
		domain.NewDiscovery(fsAdapter, logger),
		domain.NewIngestor(fsAdapter, parsers, logger),
		logger,
	)
}

// ExitCode maps the result of a run to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	return 1
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		globalLogger.Error("covmerge failed", "kind", domain.KindOf(err), "error", err)
		os.Exit(ExitCode(err))
	}
}
