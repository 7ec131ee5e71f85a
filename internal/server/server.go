package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/lucax88x/wentspaces/cmd/cli/config/args"
	"github.com/lucax88x/wentspaces/internal/events"
	"github.com/lucax88x/wentspaces/internal/fifo"
	"github.com/lucax88x/wentspaces/internal/state"
)

// Handler receives what hook scripts report.
type Handler interface {
	Notify(kind state.EventKind)
	Click(x float64)
}

type FifoServer struct {
	logger  *slog.Logger
	fifo    *fifo.Reader
	path    string
	handler Handler
}

func NewFifoServer(
	logger *slog.Logger,
	fifo *fifo.Reader,
	path string,
	handler Handler,
) *FifoServer {
	return &FifoServer{
		logger,
		fifo,
		path,
		handler,
	}
}

func (f FifoServer) Start(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.ErrorContext(ctx, "server: recovered from panic in Start", slog.Any("panic", r))
		}
	}()

	f.logger.InfoContext(ctx, "server: starting FIFO server", slog.String("path", f.path))

	maxRetries := 3
	retryDelay := time.Second * 5

	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := f.listen(ctx)
		if ctx.Err() != nil {
			return
		}

		f.logger.ErrorContext(ctx, "server: FIFO listener failed",
			slog.Any("error", err),
			slog.Int("attempt", attempt))

		if attempt == maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(retryDelay):
		}
	}

	// the other change signals keep the status item alive
	f.logger.ErrorContext(ctx, "server: FIFO listener failed after all retries, hooks are disabled")
}

func (f FifoServer) listen(ctx context.Context) error {
	listenerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan string, 100)
	listenerDone := make(chan error, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.logger.ErrorContext(listenerCtx, "server: recovered from panic in FIFO listener", slog.Any("panic", r))
				listenerDone <- nil
			}
		}()

		listenerDone <- f.fifo.Listen(listenerCtx, f.path, ch)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-listenerDone:
			return err
		case msg := <-ch:
			f.Handle(ctx, msg)
		}
	}
}

// Handle dispatches one hook message, "<event> [json info]".
func (f FifoServer) Handle(ctx context.Context, msg string) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.ErrorContext(ctx, "server: recovered from panic while handling message",
				slog.Any("panic", r),
				slog.String("message", msg))
		}
	}()

	in, err := args.FromMessage(msg)
	if err != nil {
		f.logger.DebugContext(ctx, "server: could not parse message", slog.Any("error", err))
		return
	}

	name, info := in.Event, in.Info

	kind, ok := events.Kind(name)
	if !ok {
		f.logger.DebugContext(ctx, "server: unhandled message", slog.String("message", msg))
		return
	}

	if name != events.MouseClicked {
		f.logger.DebugContext(ctx, "server: handling event", slog.String("event", name))
		f.handler.Notify(kind)
		return
	}

	var data events.MouseClickedEventInfo
	if info != "" {
		if err := json.Unmarshal([]byte(info), &data); err != nil {
			f.logger.ErrorContext(ctx, "server: could not deserialize mouse click data",
				slog.String("message", msg),
				slog.Any("error", err))
		}
	}

	if data.X == nil {
		f.handler.Notify(kind)
		return
	}

	f.handler.Click(*data.X)
}
