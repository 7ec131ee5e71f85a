package wentspaces_test

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/lucax88x/wentspaces/cmd/cli/config"
	"github.com/lucax88x/wentspaces/internal/wentspaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCfg(t *testing.T) *config.Cfg {
	dir := t.TempDir()

	return &config.Cfg{
		LogLevel:           "info",
		PrefsPath:          filepath.Join(dir, "preferences.yaml"),
		SpacesPlist:        filepath.Join(dir, "com.apple.spaces.plist"),
		HotKeysPlist:       filepath.Join(dir, "com.apple.symbolichotkeys.plist"),
		FifoPath:           filepath.Join(dir, "fifo"),
		PidPath:            filepath.Join(dir, "pid"),
		PollInterval:       time.Second,
		AppearanceInterval: time.Second,
		Symbols:            map[string]string{"rocket": "^"},
	}
}

func TestNewWentspaces(t *testing.T) {
	di, err := wentspaces.NewWentspaces(slog.New(slog.NewTextHandler(io.Discard, nil)), testCfg(t))

	require.NoError(t, err)
	assert.NotNil(t, di.Source)
	assert.NotNil(t, di.Prefs)
	assert.NotNil(t, di.Renderer)
	assert.NotNil(t, di.Switcher)
	assert.NotNil(t, di.Controller)
	assert.NotNil(t, di.Server)
	assert.NotNil(t, di.Watcher)
	assert.Len(t, di.Jobs, 2)
}

func TestNewWentspaces_QueryCommand(t *testing.T) {
	cfg := testCfg(t)
	cfg.QueryCommand = "/usr/local/bin/spaces-helper"

	di, err := wentspaces.NewWentspaces(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)

	require.NoError(t, err)
	assert.NotNil(t, di.Source)
}

func TestAppSettings(t *testing.T) {
	settings := wentspaces.AppSettings()

	assert.Greater(t, settings.ItemWidth, settings.SeparatorWidth)
}
