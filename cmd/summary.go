package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"covmerge.dev/pkg/covmerge/internal/controller"
	"covmerge.dev/pkg/covmerge/internal/domain"
	m "covmerge.dev/pkg/covmerge/internal/model"
)

// summaryCmd represents the summary command.
var summaryCmd = newSummaryCmd()

func newSummaryCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "summary TRACEFILE",
		Short: "Show line, function and branch totals of a tracefile",
		Long:  "Parse an lcov tracefile, typically the output of merge, and print per-file and total coverage counts.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summaryFormat, err := controller.ParseSummaryFormat(viper.GetString(summaryFormatConfigKey))
			if err != nil {
				return err
			}

			return workflowFor(cmd).Summary(cmd.Context(), domain.SummaryArgs{
				Tracefile: m.Path(args[0]),
				Format:    summaryFormat,
			})
		},
	}

	cmd.Flags().StringVar(&format, formatFlagName, viper.GetString(summaryFormatConfigKey), "output format: table or yaml")
	bindFlagToConfig(cmd.Flags().Lookup(formatFlagName), summaryFormatConfigKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
