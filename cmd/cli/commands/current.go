package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/lucax88x/wentspaces/cmd/cli/console"
	"github.com/lucax88x/wentspaces/cmd/cli/runner"
	"github.com/lucax88x/wentspaces/internal/spaces"
	"github.com/lucax88x/wentspaces/internal/wentspaces"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewCurrentSpaceCmd(
	ctx context.Context,
	logger *slog.Logger,
	viper *viper.Viper,
	console *console.Console,
) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "current-space",
		Short: "print the global number of the current space",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return runner.RunCmdE(ctx, logger, viper, console, args, runCurrentCmd(func(s spaces.Snapshot) string {
				return strconv.Itoa(s.CurrentGlobalSpaceIndex)
			}))
		},
	}

	cmd.SetOut(console.Stdout)
	cmd.SetErr(console.Stderr)

	return cmd
}

func NewCurrentLabelCmd(
	ctx context.Context,
	logger *slog.Logger,
	viper *viper.Viper,
	console *console.Console,
) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "current-label",
		Short: "print the label of the current space",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return runner.RunCmdE(ctx, logger, viper, console, args, runCurrentCmd(func(s spaces.Snapshot) string {
				if s.IsEmpty() {
					return spaces.UnknownLabel
				}
				return s.CurrentSpaceLabel
			}))
		},
	}

	cmd.SetOut(console.Stdout)
	cmd.SetErr(console.Stderr)

	return cmd
}

func runCurrentCmd(format func(spaces.Snapshot) string) runner.RunE {
	return func(
		ctx context.Context,
		console *console.Console,
		_ []string,
		di *wentspaces.Wentspaces,
	) error {
		snapshot := CurrentSnapshot(ctx, di)

		_, err := fmt.Fprintln(console.Stdout, format(snapshot))

		return err
	}
}

// CurrentSnapshot queries the spaces once. Failures give the empty snapshot.
func CurrentSnapshot(ctx context.Context, di *wentspaces.Wentspaces) spaces.Snapshot {
	preferences := di.Prefs.Load(ctx)

	result, err := di.Source.Query(ctx)
	if err != nil {
		di.Logger.WarnContext(ctx, "current: could not query spaces", slog.Any("error", err))
		return spaces.Empty
	}

	return spaces.BuildSnapshot(result, preferences.LocalNumbering)
}
