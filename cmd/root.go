package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "bipq",
		Short:         "bipq: feature votes and priority matrices from the terminal",
		Long:          "bipq runs build-in-public questionnaires locally: distribute a point budget across features, sort backlog items into effort/impact quadrants, then submit the final answers.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if verbose {
			app.logLevel.SetLevel(zapcore.DebugLevel)
		}
	}
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		_ = app.logger.Sync()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newNewCmd(app),
		newListCmd(app),
		newShowCmd(app),
		newVoteCmd(app),
		newMatrixCmd(app),
		newSubmitCmd(app),
		newExportCmd(app),
		newDeleteCmd(app),
		newPlayCmd(app),
	)

	return rootCmd
}
