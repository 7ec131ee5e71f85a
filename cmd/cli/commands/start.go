package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lucax88x/wentspaces/cmd/cli/console"
	"github.com/lucax88x/wentspaces/cmd/cli/runner"
	"github.com/lucax88x/wentspaces/internal/jobs"
	"github.com/lucax88x/wentspaces/internal/wentspaces"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func NewStartCmd(
	ctx context.Context,
	logger *slog.Logger,
	viper *viper.Viper,
	console *console.Console,
) *cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "show the status item until quit",
		RunE: func(_ *cobra.Command, args []string) error {
			return runner.RunCmdE(ctx, logger, viper, console, args, runStartCmd())
		},
	}

	startCmd.SetOut(console.Stdout)
	startCmd.SetErr(console.Stderr)

	return startCmd
}

func runStartCmd() runner.RunE {
	return func(
		ctx context.Context,
		_ *console.Console,
		_ []string,
		di *wentspaces.Wentspaces,
	) error {
		if err := runner.CreatePidFile(di.Cfg.PidPath); err != nil {
			if errors.Is(err, runner.ErrAlreadyRunning) {
				return err
			}
			di.Logger.ErrorContext(ctx, "start: could not create pid file, continuing anyway", slog.Any("error", err))
		}

		defer func() {
			if err := runner.RemovePidFile(di.Cfg.PidPath); err != nil {
				di.Logger.ErrorContext(ctx, "start: could not remove pid file", slog.Any("error", err))
			}
		}()

		startFifoWithRetry(ctx, di)

		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		group, groupCtx := errgroup.WithContext(runCtx)

		// the tray owns the main goroutine, everything else waits for it
		onReady := func() {
			group.Go(func() error {
				return di.Controller.Run(groupCtx)
			})
			group.Go(func() error {
				runServerWithRecovery(groupCtx, di)
				return nil
			})
			group.Go(func() error {
				di.Watcher.Start(groupCtx)
				return nil
			})
			for _, job := range di.Jobs {
				group.Go(func() error {
					runJobWithRecovery(groupCtx, di, job)
					return nil
				})
			}

			go func() {
				<-groupCtx.Done()
				di.Logger.InfoContext(ctx, "start: shutting down")
				di.Tray.Quit()
			}()
		}

		di.Tray.Run(di.Controller, onReady, cancel)

		if err := group.Wait(); err != nil {
			di.Logger.ErrorContext(ctx, "start: stopped with error", slog.Any("error", err))
			return err
		}

		di.Logger.InfoContext(ctx, "start: shutdown complete")

		return nil
	}
}

func startFifoWithRetry(ctx context.Context, di *wentspaces.Wentspaces) {
	maxRetries := 5
	retryDelay := time.Second * 2

	for attempt := 1; attempt <= maxRetries; attempt++ {
		di.Logger.InfoContext(
			ctx,
			"start: starting fifo",
			slog.String("path", di.Cfg.FifoPath),
			slog.Int("attempt", attempt),
		)

		err := di.Fifo.Start(di.Cfg.FifoPath)
		if err == nil {
			di.Logger.InfoContext(ctx, "start: fifo started successfully")
			return
		}

		di.Logger.ErrorContext(ctx, "start: could not start fifo",
			slog.Any("error", err),
			slog.Int("attempt", attempt),
			slog.Int("maxRetries", maxRetries))

		if attempt == maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(retryDelay):
		}
	}

	di.Logger.ErrorContext(ctx, "start: fifo failed to start after all retries, continuing without hooks")
}

// runServerWithRecovery restarts the server until ctx is done.
func runServerWithRecovery(ctx context.Context, di *wentspaces.Wentspaces) {
	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					di.Logger.ErrorContext(ctx, "server: recovered from server panic", slog.Any("panic", r))
				}
			}()

			di.Logger.InfoContext(ctx, "server: starting server instance")
			di.Server.Start(ctx)
			di.Logger.InfoContext(ctx, "server: server instance stopped")
		}()

		select {
		case <-ctx.Done():
			di.Logger.InfoContext(ctx, "server: shutdown")
			return
		case <-time.After(time.Second * 5):
			di.Logger.InfoContext(ctx, "server: restarting server after failure")
		}
	}
}

func runJobWithRecovery(ctx context.Context, di *wentspaces.Wentspaces, job jobs.Job) {
	defer func() {
		if r := recover(); r != nil {
			di.Logger.ErrorContext(ctx, "jobs: recovered from panic", slog.Any("panic", r))
		}
	}()

	job.Start(ctx)
}
