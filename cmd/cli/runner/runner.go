package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lucax88x/wentspaces/cmd/cli/config"
	"github.com/lucax88x/wentspaces/cmd/cli/console"
	"github.com/lucax88x/wentspaces/internal/wentspaces"
	"github.com/spf13/viper"
)

type RunE func(
	ctx context.Context,
	console *console.Console,
	args []string,
	di *wentspaces.Wentspaces,
) error

// RunCmdE loads the configuration, wires the components and runs fn.
func RunCmdE(
	ctx context.Context,
	logger *slog.Logger,
	viper *viper.Viper,
	console *console.Console,
	args []string,
	fn RunE,
) error {
	cfg, err := config.Load(viper)
	if err != nil {
		return fmt.Errorf("runner: could not load config: %w", err)
	}

	di, err := wentspaces.NewWentspaces(logger, cfg)
	if err != nil {
		return fmt.Errorf("runner: could not wire components: %w", err)
	}

	return fn(ctx, console, args, di)
}
