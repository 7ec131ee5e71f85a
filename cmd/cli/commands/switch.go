package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lucax88x/wentspaces/cmd/cli/console"
	"github.com/lucax88x/wentspaces/cmd/cli/runner"
	"github.com/lucax88x/wentspaces/internal/switcher"
	"github.com/lucax88x/wentspaces/internal/wentspaces"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewSwitchCmd(
	ctx context.Context,
	logger *slog.Logger,
	viper *viper.Viper,
	console *console.Console,
) *cobra.Command {
	switchCmd := &cobra.Command{
		Use:   "switch N",
		Short: fmt.Sprintf("switch to desktop N (%d-%d) with its system shortcut", switcher.MinTarget, switcher.MaxTarget),
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runner.RunCmdE(ctx, logger, viper, console, args, runSwitchCmd())
		},
	}

	switchCmd.SetOut(console.Stdout)
	switchCmd.SetErr(console.Stderr)

	return switchCmd
}

func runSwitchCmd() runner.RunE {
	return func(
		ctx context.Context,
		_ *console.Console,
		args []string,
		di *wentspaces.Wentspaces,
	) error {
		target, err := cast.ToIntE(args[0])
		if err != nil {
			return fmt.Errorf("switch: %q is not a desktop number: %w", args[0], err)
		}

		return di.Switcher.Switch(ctx, target)
	}
}
