package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/lucax88x/wentspaces/cmd/cli/console"
	"github.com/lucax88x/wentspaces/cmd/cli/runner"
	"github.com/lucax88x/wentspaces/internal/app"
	"github.com/lucax88x/wentspaces/internal/prefs"
	"github.com/lucax88x/wentspaces/internal/state"
	"github.com/lucax88x/wentspaces/internal/wentspaces"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errNothingRendered = errors.New("render: nothing rendered")

// fileStatus is a status item writing its icon to disk.
type fileStatus struct {
	console *console.Console
	path    string
	err     error
	written bool
}

func (f *fileStatus) SetIcon(png []byte) {
	f.err = os.WriteFile(f.path, png, 0o644)
	f.written = f.err == nil
}

func (f *fileStatus) SetTooltip(text string) {
	fmt.Fprintln(f.console.Stdout, text)
}

func (f *fileStatus) SetTargets(_ []int) {}

func (f *fileStatus) SyncPreferences(_ prefs.Preferences) {}

var _ app.StatusItem = (*fileStatus)(nil)

func NewRenderCmd(
	ctx context.Context,
	logger *slog.Logger,
	viper *viper.Viper,
	console *console.Console,
) *cobra.Command {
	var out string

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render the current status item icon to a png",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return runner.RunCmdE(ctx, logger, viper, console, args, runRenderCmd(out))
		},
	}

	renderCmd.Flags().StringVarP(&out, "out", "o", "wentspaces.png", "png file to write")

	renderCmd.SetOut(console.Stdout)
	renderCmd.SetErr(console.Stderr)

	return renderCmd
}

func runRenderCmd(out string) runner.RunE {
	return func(
		ctx context.Context,
		console *console.Console,
		_ []string,
		di *wentspaces.Wentspaces,
	) error {
		status := &fileStatus{console: console, path: out}

		controller := app.NewController(
			di.Logger,
			di.Source,
			di.Prefs,
			di.Renderer,
			di.Switcher,
			di.Appearance,
			status,
			di.Clock,
			wentspaces.AppSettings(),
		)

		controller.Rebuild(ctx, state.Init)

		if status.err != nil {
			return fmt.Errorf("render: could not write %s: %w", out, status.err)
		}
		if !status.written {
			return errNothingRendered
		}

		return nil
	}
}
