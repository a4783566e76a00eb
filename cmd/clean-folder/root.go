package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var dryRun bool

	ctx := newCommandContext(&configFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:   "clean-folder [flags] <root>",
		Short: "Sort a directory into category folders",
		Long: `clean-folder moves every file below <root> into images, documents, audio,
video, archives or others folders directly under <root>, transliterating
Ukrainian names and replacing other unsafe characters. Archives are extracted
into archives/<name>/, empty directories are removed and a FilesList.txt
manifest is written to <root>.

A directory literally named like a subcommand can be passed as ./history.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if dryRun {
				return runPlan(cmd, ctx, args[0])
			}
			return runOrganize(cmd, ctx, args[0])
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override logging.level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show where files would go without changing anything")

	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
