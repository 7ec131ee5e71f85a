package fifo

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"
)

const Separator = '¬'

type Reader struct {
	logger *slog.Logger
}

func NewFifoReader(logger *slog.Logger) *Reader {
	return &Reader{
		logger,
	}
}

func (f *Reader) makeSureFifoExists(path string) error {
	stat, err := os.Stat(path)
	if err == nil {
		if stat.Mode()&os.ModeNamedPipe != 0 {
			return nil
		}
		f.logger.Warn("fifo: path exists but is not a named pipe, recreating", slog.String("path", path))
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("fifo: could not remove existing file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("fifo: could not stat file: %w", err)
	}

	if err := syscall.Mkfifo(path, 0o640); err != nil {
		return fmt.Errorf("fifo: could not create fifo file: %w", err)
	}
	f.logger.Info("fifo: created fifo file", slog.String("path", path))
	return nil
}

func (f *Reader) Start(path string) error {
	if err := f.makeSureFifoExists(path); err != nil {
		return fmt.Errorf("fifo: error creating file: %w", err)
	}
	return nil
}

// Listen sends every separated message written to the fifo to ch until ctx
// is done. The fifo is removed on exit.
func (f *Reader) Listen(
	ctx context.Context,
	path string,
	ch chan<- string,
) error {
	if err := f.makeSureFifoExists(path); err != nil {
		return err
	}

	// read-write so the pipe never reports EOF when writers come and go
	pipe, err := os.OpenFile(path, os.O_RDWR, os.ModeNamedPipe)
	if err != nil {
		return fmt.Errorf("fifo: error opening for reading: %w", err)
	}

	go func() {
		<-ctx.Done()
		if err := pipe.Close(); err != nil {
			f.logger.Error("fifo: error closing pipe", slog.Any("error", err))
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			f.logger.Error("fifo: could not remove fifo", slog.Any("error", err))
		}
	}()

	reader := bufio.NewReader(pipe)

	for {
		line, err := reader.ReadString(Separator)

		if message := clean(line); message != "" {
			select {
			case ch <- message:
			case <-ctx.Done():
				return ctx.Err()
			default:
				f.logger.WarnContext(ctx, "fifo: channel full, dropping message", slog.String("message", message))
			}
		}

		if err == nil {
			continue
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, io.EOF) {
			time.Sleep(100 * time.Millisecond)
			continue
		}
		return fmt.Errorf("fifo: read error: %w", err)
	}
}

func clean(line string) string {
	line = strings.TrimRight(line, string(Separator))
	line = strings.TrimLeft(line, "\n")
	return strings.TrimSpace(line)
}

// Send writes one message to a fifo somebody listens on. It fails instead of
// blocking when nobody does.
func Send(path string, message string) error {
	pipe, err := os.OpenFile(path, os.O_WRONLY|syscall.O_NONBLOCK, os.ModeNamedPipe)
	if err != nil {
		return fmt.Errorf("fifo: could not open for writing: %w", err)
	}
	defer pipe.Close()

	if _, err := pipe.WriteString(message + string(Separator)); err != nil {
		return fmt.Errorf("fifo: could not write message: %w", err)
	}

	return nil
}
