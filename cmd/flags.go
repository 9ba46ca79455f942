package cmd

import (
	"github.com/gnames/cfgrepair/pkg/config"
	"github.com/spf13/cobra"
)

// funcFlag turns a command line flag into a config option.
// Flags that were not set leave the config alone.
type funcFlag func(cmd *cobra.Command)

func dryRunFlag(cmd *cobra.Command) {
	if !cmd.Flags().Changed("dry-run") {
		return
	}
	b, _ := cmd.Flags().GetBool("dry-run")
	opts = append(opts, config.OptRepairDryRun(b))
}

func formatFlag(cmd *cobra.Command) {
	if !cmd.Flags().Changed("format") {
		return
	}
	s, _ := cmd.Flags().GetString("format")
	opts = append(opts, config.OptRepairReportFormat(s))
}

func jobsFlag(cmd *cobra.Command) {
	if !cmd.Flags().Changed("jobs") {
		return
	}
	i, _ := cmd.Flags().GetInt("jobs")
	opts = append(opts, config.OptJobsNumber(i))
}
