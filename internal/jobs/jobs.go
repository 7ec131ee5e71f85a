package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/lucax88x/wentspaces/internal/state"
)

// Job runs until ctx is done.
type Job interface {
	Start(ctx context.Context)
}

type Notifier interface {
	Notify(kind state.EventKind)
}

type Appearance interface {
	DarkMode(ctx context.Context) bool
}

// AppearanceJob polls the system appearance and reports flips.
type AppearanceJob struct {
	logger     *slog.Logger
	appearance Appearance
	notifier   Notifier
	interval   time.Duration
}

func NewAppearanceJob(logger *slog.Logger, appearance Appearance, notifier Notifier, interval time.Duration) *AppearanceJob {
	return &AppearanceJob{logger, appearance, notifier, interval}
}

func (j *AppearanceJob) Start(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			j.logger.ErrorContext(ctx, "appearance job: recovered from panic", slog.Any("panic", r))
		}
	}()

	if j.interval <= 0 {
		j.logger.InfoContext(ctx, "appearance job: disabled")
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	last := j.appearance.DarkMode(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			current := j.appearance.DarkMode(ctx)
			if current == last {
				continue
			}

			j.logger.InfoContext(ctx, "appearance job: appearance changed", slog.Bool("dark", current))
			j.notifier.Notify(state.AppearanceChange)
			last = current
		}
	}
}

// PollJob is the fallback for changes nothing else reports. Its ticks count
// as fallback clicks, dropped while real notifications keep arriving.
type PollJob struct {
	logger   *slog.Logger
	notifier Notifier
	interval time.Duration
}

func NewPollJob(logger *slog.Logger, notifier Notifier, interval time.Duration) *PollJob {
	return &PollJob{logger, notifier, interval}
}

func (j *PollJob) Start(ctx context.Context) {
	if j.interval <= 0 {
		j.logger.InfoContext(ctx, "poll job: disabled")
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.notifier.Notify(state.FallbackClick)
		}
	}
}

var (
	_ Job = (*AppearanceJob)(nil)
	_ Job = (*PollJob)(nil)
)
