package switcher_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lucax88x/wentspaces/internal/switcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeHotKeys struct {
	hotKeys map[int]switcher.HotKey
	enabled []int
	err     error
}

func (f *fakeHotKeys) HotKey(_ context.Context, id int) (switcher.HotKey, bool, error) {
	if f.err != nil {
		return switcher.HotKey{}, false, f.err
	}
	hotKey, ok := f.hotKeys[id]
	return hotKey, ok, nil
}

func (f *fakeHotKeys) Enable(_ context.Context, id int) error {
	f.enabled = append(f.enabled, id)
	hotKey := f.hotKeys[id]
	hotKey.Enabled = true
	f.hotKeys[id] = hotKey
	return nil
}

type fakePoster struct {
	events []switcher.KeyEvent
}

func (f *fakePoster) Post(_ context.Context, event switcher.KeyEvent) error {
	f.events = append(f.events, event)
	return nil
}

func desktopOne(enabled bool) *fakeHotKeys {
	return &fakeHotKeys{hotKeys: map[int]switcher.HotKey{
		118: {ID: 118, Enabled: enabled, Char: switcher.Unset, KeyCode: 18, Modifiers: switcher.ModifierControl},
	}}
}

func TestEventFor_EnablesDisabledHotKeyOnce(t *testing.T) {
	ctx := context.Background()
	hotKeys := desktopOne(false)
	s := switcher.NewSwitcher(discardLogger(), hotKeys, &fakePoster{})

	event := s.EventFor(ctx, 1)

	require.NotNil(t, event)
	assert.Equal(t, switcher.KeyEvent{KeyCode: 18, Modifiers: switcher.ModifierControl}, *event)
	assert.Equal(t, []int{118}, hotKeys.enabled)

	require.NotNil(t, s.EventFor(ctx, 1))
	assert.Equal(t, []int{118}, hotKeys.enabled)
}

func TestEventFor_EnabledHotKeyUntouched(t *testing.T) {
	hotKeys := desktopOne(true)
	s := switcher.NewSwitcher(discardLogger(), hotKeys, &fakePoster{})

	require.NotNil(t, s.EventFor(context.Background(), 1))
	assert.Empty(t, hotKeys.enabled)
}

func TestEventFor_NoEvent(t *testing.T) {
	tests := []struct {
		name    string
		target  int
		hotKeys *fakeHotKeys
	}{
		{name: "above range", target: 17, hotKeys: desktopOne(true)},
		{name: "zero", target: 0, hotKeys: desktopOne(true)},
		{name: "negative", target: -1, hotKeys: desktopOne(true)},
		{name: "not registered", target: 2, hotKeys: desktopOne(true)},
		{
			name:   "no key code",
			target: 1,
			hotKeys: &fakeHotKeys{hotKeys: map[int]switcher.HotKey{
				118: {ID: 118, Char: switcher.Unset, KeyCode: switcher.Unset},
			}},
		},
		{name: "store failure", target: 1, hotKeys: &fakeHotKeys{err: errors.New("boom")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := switcher.NewSwitcher(discardLogger(), tt.hotKeys, &fakePoster{})

			assert.Nil(t, s.EventFor(context.Background(), tt.target))
			assert.Empty(t, tt.hotKeys.enabled)
		})
	}
}

func TestSwitch(t *testing.T) {
	ctx := context.Background()
	poster := &fakePoster{}
	s := switcher.NewSwitcher(discardLogger(), desktopOne(true), poster)

	require.NoError(t, s.Switch(ctx, 1))
	require.ErrorIs(t, s.Switch(ctx, 17), switcher.ErrNoHotKey)

	assert.Len(t, poster.events, 1)
}

func TestScript(t *testing.T) {
	assert.Equal(t,
		`tell application "System Events" to key code 18 using {control down}`,
		switcher.Script(switcher.KeyEvent{KeyCode: 18, Modifiers: switcher.ModifierControl}),
	)
	assert.Equal(t,
		`tell application "System Events" to key code 19 using {command down, option down}`,
		switcher.Script(switcher.KeyEvent{KeyCode: 19, Modifiers: switcher.ModifierCommand | switcher.ModifierOption}),
	)
	assert.Equal(t,
		`tell application "System Events" to key code 20`,
		switcher.Script(switcher.KeyEvent{KeyCode: 20}),
	)
}

type recordingRunner struct {
	calls []string
}

func (r *recordingRunner) Run(_ context.Context, name string, arg ...string) (string, error) {
	r.calls = append(r.calls, strings.Join(append([]string{name}, arg...), " "))
	return "", nil
}

func writeHotKeys(t *testing.T) string {
	t.Helper()

	root := map[string]any{
		"AppleSymbolicHotKeys": map[string]any{
			"118": map[string]any{
				"enabled": false,
				"value": map[string]any{
					"parameters": []any{65535, 18, 262144},
					"type":       "standard",
				},
			},
			"119": map[string]any{
				"enabled": true,
				"value": map[string]any{
					"parameters": []any{65535, 65535, 0},
					"type":       "standard",
				},
			},
		},
	}

	data, err := plist.Marshal(root, plist.XMLFormat)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "com.apple.symbolichotkeys.plist")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func TestPlistHotKeyStore(t *testing.T) {
	ctx := context.Background()
	path := writeHotKeys(t)
	runner := &recordingRunner{}
	store := switcher.NewPlistHotKeyStore(discardLogger(), path, runner)

	hotKey, ok, err := store.HotKey(ctx, 118)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, switcher.HotKey{
		ID:        118,
		Enabled:   false,
		Char:      switcher.Unset,
		KeyCode:   18,
		Modifiers: switcher.ModifierControl,
	}, hotKey)

	_, ok, err = store.HotKey(ctx, 130)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Enable(ctx, 118))
	require.Len(t, runner.calls, 1)
	assert.True(t, strings.HasSuffix(runner.calls[0], "activateSettings -u"))

	hotKey, _, err = store.HotKey(ctx, 118)
	require.NoError(t, err)
	assert.True(t, hotKey.Enabled)
	assert.Equal(t, 18, hotKey.KeyCode)

	// the file keeps its format
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "<?xml"))

	require.Error(t, store.Enable(ctx, 130))
}

func TestSwitcherWithPlistStore(t *testing.T) {
	ctx := context.Background()
	store := switcher.NewPlistHotKeyStore(discardLogger(), writeHotKeys(t), &recordingRunner{})
	s := switcher.NewSwitcher(discardLogger(), store, &fakePoster{})

	assert.NotNil(t, s.EventFor(ctx, 1))
	assert.Nil(t, s.EventFor(ctx, 2))
}
