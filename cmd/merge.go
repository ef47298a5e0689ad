package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"covmerge.dev/pkg/covmerge/internal/domain"
	m "covmerge.dev/pkg/covmerge/internal/model"
)

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

const mergeLongDescription = `Merge every coverage report of a run into one lcov tracefile.

Exactly one input source is required:
  --coverage-dir   walk a directory for .dat, .gcov and .profdata files
  --reports-file   read tracefile paths, one per line

baseline_coverage.dat files are always skipped. Sources whose name contains
any --filter-sources substring are dropped, then, when --source-file-manifest
is given, only sources listed in it are kept.`

func newMergeCmd() *cobra.Command {
	var (
		outputFile         string
		coverageDir        string
		reportsFile        string
		filterSources      []string
		sourceFileManifest string
	)

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge coverage reports into a single lcov tracefile",
		Long:  mergeLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			args := mergeArgsFromConfig()

			// viper splits flag values on commas; substrings given on the
			// command line are taken verbatim.
			if cmd.Flags().Changed(filterSourcesFlagName) {
				args.FilterSources = filterSources
			}

			return workflowFor(cmd).Merge(cmd.Context(), args)
		},
	}

	cmd.Flags().StringVarP(&outputFile, outputFileFlagName, "o", viper.GetString(outputFileConfigKey), "path of the merged tracefile")
	bindFlagToConfig(cmd.Flags().Lookup(outputFileFlagName), outputFileConfigKey)

	cmd.Flags().StringVar(&coverageDir, coverageDirFlagName, viper.GetString(coverageDirConfigKey), "directory searched recursively for coverage files")
	bindFlagToConfig(cmd.Flags().Lookup(coverageDirFlagName), coverageDirConfigKey)

	cmd.Flags().StringVar(&reportsFile, reportsFileFlagName, viper.GetString(reportsFileConfigKey), "file listing tracefile paths, one per line")
	bindFlagToConfig(cmd.Flags().Lookup(reportsFileFlagName), reportsFileConfigKey)

	cmd.Flags().StringArrayVarP(&filterSources, filterSourcesFlagName, "x", viper.GetStringSlice(filterSourcesConfigKey), "drop sources containing this substring (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(filterSourcesFlagName), filterSourcesConfigKey)

	cmd.Flags().StringVar(&sourceFileManifest, sourceFileManifestFlagName, viper.GetString(sourceFileManifestConfigKey), "keep only sources listed in this file")
	bindFlagToConfig(cmd.Flags().Lookup(sourceFileManifestFlagName), sourceFileManifestConfigKey)

	return cmd
}

func mergeArgsFromConfig() domain.MergeArgs {
	return domain.MergeArgs{
		Output:             m.Path(viper.GetString(outputFileConfigKey)),
		CoverageDir:        m.Path(viper.GetString(coverageDirConfigKey)),
		ReportsFile:        m.Path(viper.GetString(reportsFileConfigKey)),
		FilterSources:      viper.GetStringSlice(filterSourcesConfigKey),
		SourceFileManifest: m.Path(viper.GetString(sourceFileManifestConfigKey)),
	}
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
