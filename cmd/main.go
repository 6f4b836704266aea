package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "oneprompt",
		Short:         "Website generation backend: prompt in, previewable site out",
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		// serve switches to production logging once its configuration is
		// loaded.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(false)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory containing config.yaml")

	serveCmd := newServeCommand(&configPath)
	rootCmd.AddCommand(serveCmd, newExtractCommand())
	rootCmd.RunE = serveCmd.RunE
	return rootCmd
}

// setupLogger installs the global zap logger used across the service.
func setupLogger(production bool) error {
	var (
		logger *zap.Logger
		err    error
	)
	if production {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}
