package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/lucax88x/wentspaces/cmd/cli/config/settings"
	"github.com/lucax88x/wentspaces/cmd/cli/console"
	"github.com/lucax88x/wentspaces/internal/homedir"
	"github.com/spf13/viper"
)

type ExecutionResult = int

const (
	Ok    ExecutionResult = 0
	NotOk ExecutionResult = -1

	envPrefix = "WENTSPACES"
)

//nolint:gochecknoglobals // ok
var level = new(slog.LevelVar)

func initViper() (*viper.Viper, error) {
	viperInstance := viper.New()

	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	if dir, err := homedir.Get(); err == nil {
		viperInstance.AddConfigPath(filepath.Join(dir, settings.ConfigDir))
	}

	viperInstance.SetEnvPrefix(envPrefix)
	viperInstance.AutomaticEnv()

	if err := viperInstance.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("setup: could not read config: %w", err)
		}
	}

	return viperInstance, nil
}

// SetLogLevel changes the level of the logger handed to the program. Unknown
// names keep the current level.
func SetLogLevel(name string) error {
	var parsed slog.Level
	if err := parsed.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return fmt.Errorf("setup: unknown log level %q: %w", name, err)
	}

	level.Set(parsed)

	return nil
}

type ProgramExecutor func(ctx context.Context, logger *slog.Logger) error

type ExecutorBuilder func(
	viper *viper.Viper,
	console *console.Console,
) ProgramExecutor

func Run(buildExecutor ExecutorBuilder) ExecutionResult {
	start := time.Now()

	logger := slog.New(tint.NewHandler(
		os.Stderr,
		&tint.Options{Level: level, TimeFormat: time.TimeOnly},
	))

	defer func() {
		elapsed := time.Since(start)
		logger.Debug("cli: took", slog.Duration("elapsed", elapsed))
	}()

	viper, err := initViper()

	if err != nil {
		logger.Error("main: could not setup configuration", slog.Any("error", err))
		return NotOk
	}

	console := &console.Console{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = buildExecutor(viper, console)(ctx, logger)

	if err != nil {
		logger.Error("main: failed to execute program", slog.Any("error", err))
		return NotOk
	}

	logger.Debug("main: completed", slog.Int("status_code", Ok))

	return Ok
}
