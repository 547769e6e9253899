package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "apigen",
		Short:         "apigen - Swagger 2.0 client and documentation generator",
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	root.AddCommand(GenerateCommand(), LangsCommand(), ConfigHelpCommand())

	return root
}

// newLogger writes text logs to the command's stderr.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
