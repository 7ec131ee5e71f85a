package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lucax88x/wentspaces/cmd/cli/config"
	"github.com/lucax88x/wentspaces/cmd/cli/console"
	"github.com/lucax88x/wentspaces/internal/setup"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//nolint:gochecknoglobals // set by the linker
var Version = "dev"

// NewCliExecutor runs the cobra tree with the process arguments.
func NewCliExecutor(viper *viper.Viper, console *console.Console) setup.ProgramExecutor {
	return func(ctx context.Context, logger *slog.Logger) error {
		return NewRootCmd(ctx, logger, viper, console).ExecuteContext(ctx)
	}
}

func NewRootCmd(
	ctx context.Context,
	logger *slog.Logger,
	viper *viper.Viper,
	console *console.Console,
) *cobra.Command {
	config.SetDefaults(viper)

	rootCmd := &cobra.Command{
		Use:           "wentspaces",
		Short:         "macOS menu bar indicator of the current space",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("root: could not bind flags: %w", err)
			}

			if err := setup.SetLogLevel(viper.GetString(config.KeyLogLevel)); err != nil {
				logger.WarnContext(ctx, "root: keeping default log level", slog.Any("error", err))
			}

			return nil
		},
	}

	rootCmd.PersistentFlags().String(config.KeyLogLevel, "info", "debug, info, warn or error")
	rootCmd.PersistentFlags().String(config.KeyPrefsPath, "", "preferences file")
	rootCmd.PersistentFlags().String(config.KeyFifoPath, "", "hook fifo of the running instance")

	rootCmd.SetOut(console.Stdout)
	rootCmd.SetErr(console.Stderr)

	rootCmd.AddCommand(
		NewStartCmd(ctx, logger, viper, console),
		NewCurrentSpaceCmd(ctx, logger, viper, console),
		NewCurrentLabelCmd(ctx, logger, viper, console),
		NewRenderCmd(ctx, logger, viper, console),
		NewSwitchCmd(ctx, logger, viper, console),
		NewPrefsCmd(ctx, logger, viper, console),
		NewHookCmd(ctx, logger, viper, console),
		NewVersionCmd(console),
	)

	return rootCmd
}
