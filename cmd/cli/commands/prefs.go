package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lucax88x/wentspaces/cmd/cli/console"
	"github.com/lucax88x/wentspaces/cmd/cli/runner"
	"github.com/lucax88x/wentspaces/internal/events"
	"github.com/lucax88x/wentspaces/internal/fifo"
	"github.com/lucax88x/wentspaces/internal/wentspaces"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewPrefsCmd(
	ctx context.Context,
	logger *slog.Logger,
	viper *viper.Viper,
	console *console.Console,
) *cobra.Command {
	prefsCmd := &cobra.Command{
		Use:   "prefs",
		Short: "read and change preferences",
	}

	sub := func(use string, short string, args cobra.PositionalArgs, fn runner.RunE) *cobra.Command {
		cmd := &cobra.Command{
			Use:   use,
			Short: short,
			Args:  args,
			RunE: func(_ *cobra.Command, args []string) error {
				return runner.RunCmdE(ctx, logger, viper, console, args, fn)
			},
		}
		cmd.SetOut(console.Stdout)
		cmd.SetErr(console.Stderr)
		return cmd
	}

	prefsCmd.AddCommand(
		sub("get KEY", "print one preference", cobra.ExactArgs(1), runPrefsGet()),
		sub("set KEY VALUE", "change one preference, space_colors.N takes fg,bg hex", cobra.ExactArgs(2), runPrefsSet()),
		sub("remove KEY", "restore the default of one preference", cobra.ExactArgs(1), runPrefsRemove()),
		sub("reset", "restore every default", cobra.NoArgs, runPrefsReset()),
		sub("list", "print every preference", cobra.NoArgs, runPrefsList()),
	)

	prefsCmd.SetOut(console.Stdout)
	prefsCmd.SetErr(console.Stderr)

	return prefsCmd
}

func runPrefsGet() runner.RunE {
	return func(ctx context.Context, console *console.Console, args []string, di *wentspaces.Wentspaces) error {
		value, err := di.Prefs.Get(ctx, args[0])
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(console.Stdout, value)
		return err
	}
}

func runPrefsSet() runner.RunE {
	return func(ctx context.Context, _ *console.Console, args []string, di *wentspaces.Wentspaces) error {
		if err := di.Prefs.Set(ctx, args[0], args[1]); err != nil {
			return err
		}

		notifyRunning(ctx, di)
		return nil
	}
}

func runPrefsRemove() runner.RunE {
	return func(ctx context.Context, _ *console.Console, args []string, di *wentspaces.Wentspaces) error {
		if err := di.Prefs.Remove(args[0]); err != nil {
			return err
		}

		notifyRunning(ctx, di)
		return nil
	}
}

func runPrefsReset() runner.RunE {
	return func(ctx context.Context, _ *console.Console, _ []string, di *wentspaces.Wentspaces) error {
		if err := di.Prefs.Reset(); err != nil {
			return err
		}

		notifyRunning(ctx, di)
		return nil
	}
}

func runPrefsList() runner.RunE {
	return func(ctx context.Context, console *console.Console, _ []string, di *wentspaces.Wentspaces) error {
		for _, line := range di.Prefs.List(ctx) {
			if _, err := fmt.Fprintln(console.Stdout, line); err != nil {
				return err
			}
		}
		return nil
	}
}

// notifyRunning asks a running instance to redraw with the new preferences.
func notifyRunning(ctx context.Context, di *wentspaces.Wentspaces) {
	if err := fifo.Send(di.Cfg.FifoPath, events.Refresh); err != nil {
		di.Logger.DebugContext(ctx, "prefs: no running instance to refresh", slog.Any("error", err))
	}
}
