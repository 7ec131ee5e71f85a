package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lucax88x/wentspaces/cmd/cli/config"
	"github.com/lucax88x/wentspaces/cmd/cli/config/args"
	"github.com/lucax88x/wentspaces/cmd/cli/console"
	"github.com/lucax88x/wentspaces/internal/events"
	"github.com/lucax88x/wentspaces/internal/fifo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewHookCmd sends an event to the running instance, or prints the shell
// line doing the same with --print.
func NewHookCmd(
	_ context.Context,
	logger *slog.Logger,
	viper *viper.Viper,
	console *console.Console,
) *cobra.Command {
	var (
		printOnly bool
		x         float64
	)

	hookCmd := &cobra.Command{
		Use:       "hook EVENT",
		Short:     "report an event to the running instance",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: events.All(),
		RunE: func(cmd *cobra.Command, positional []string) error {
			event := positional[0]
			cfg, err := config.Load(viper)
			if err != nil {
				return err
			}
			fifoPath := cfg.FifoPath

			if printOnly {
				hook, err := args.BuildHook(event, fifoPath)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(console.Stdout, hook)
				return err
			}

			var info any
			if event == events.MouseClicked && cmd.Flags().Changed("x") {
				info = events.MouseClickedEventInfo{X: &x}
			}

			msg, err := args.Message(event, info)
			if err != nil {
				return err
			}

			logger.Debug("hook: sending", slog.String("message", msg))

			return fifo.Send(fifoPath, msg)
		},
	}

	hookCmd.Flags().BoolVar(&printOnly, "print", false, "print a shell line instead of sending")
	hookCmd.Flags().Float64Var(&x, "x", 0, "click position for mouse_clicked, from the left edge of the item")

	hookCmd.SetOut(console.Stdout)
	hookCmd.SetErr(console.Stderr)

	return hookCmd
}

func NewVersionCmd(console *console.Console) *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(console.Stdout, Version)
			return err
		},
	}

	versionCmd.SetOut(console.Stdout)
	versionCmd.SetErr(console.Stderr)

	return versionCmd
}
