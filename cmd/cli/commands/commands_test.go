package commands_test

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lucax88x/wentspaces/cmd/cli/commands"
	"github.com/lucax88x/wentspaces/cmd/cli/config"
	"github.com/lucax88x/wentspaces/cmd/cli/console"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	dir    string
	viper  *viper.Viper
	stdout *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	v := viper.New()
	v.Set(config.KeyPrefsPath, filepath.Join(dir, "preferences.yaml"))
	v.Set(config.KeySpacesPlist, filepath.Join(dir, "com.apple.spaces.plist"))
	v.Set(config.KeyHotKeysPlist, filepath.Join(dir, "com.apple.symbolichotkeys.plist"))
	v.Set(config.KeyFifoPath, filepath.Join(dir, "fifo"))
	v.Set(config.KeyPidPath, filepath.Join(dir, "pid"))

	return &harness{dir: dir, viper: v, stdout: &bytes.Buffer{}}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	h.stdout.Reset()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	root := commands.NewRootCmd(context.Background(), logger, h.viper, &console.Console{
		Stdout: h.stdout,
		Stderr: io.Discard,
	})
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())

	return strings.TrimSpace(h.stdout.String()), err
}

// spacesPlist has one display with spaces 1, 2 and a full-screen app, the
// second space active.
const spacesPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>SpacesDisplayConfiguration</key>
	<dict>
		<key>Management Data</key>
		<dict>
			<key>Monitors</key>
			<array>
				<dict>
					<key>Display Identifier</key>
					<string>Main</string>
					<key>Current Space</key>
					<dict>
						<key>ManagedSpaceID</key>
						<integer>4</integer>
					</dict>
					<key>Spaces</key>
					<array>
						<dict>
							<key>ManagedSpaceID</key>
							<integer>3</integer>
							<key>type</key>
							<integer>0</integer>
						</dict>
						<dict>
							<key>ManagedSpaceID</key>
							<integer>4</integer>
							<key>type</key>
							<integer>0</integer>
						</dict>
						<dict>
							<key>ManagedSpaceID</key>
							<integer>9</integer>
							<key>type</key>
							<integer>4</integer>
						</dict>
					</array>
				</dict>
			</array>
		</dict>
	</dict>
</dict>
</plist>
`

func TestVersion(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "version")

	require.NoError(t, err)
	assert.Equal(t, commands.Version, out)
}

func TestCurrent_WithoutData(t *testing.T) {
	h := newHarness(t)

	label, err := h.run(t, "current-label")
	require.NoError(t, err)
	assert.Equal(t, "?", label)

	number, err := h.run(t, "current-space")
	require.NoError(t, err)
	assert.Equal(t, "0", number)
}

func TestCurrent_FromPlist(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "com.apple.spaces.plist"), []byte(spacesPlist), 0o644))

	label, err := h.run(t, "current-label")
	require.NoError(t, err)
	assert.Equal(t, "2", label)

	number, err := h.run(t, "current-space")
	require.NoError(t, err)
	assert.Equal(t, "2", number)
}

func TestRender_WritesPNG(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "com.apple.spaces.plist"), []byte(spacesPlist), 0o644))
	out := filepath.Join(h.dir, "icon.png")

	_, err := h.run(t, "prefs", "set", "show_all_spaces", "true")
	require.NoError(t, err)

	tooltip, err := h.run(t, "render", "--out", out)
	require.NoError(t, err)
	assert.Equal(t, "Space 2 of 1, 2, F", tooltip)

	file, err := os.Open(out)
	require.NoError(t, err)
	defer file.Close()

	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Positive(t, img.Bounds().Dx())
}

func TestPrefs_SetGetList(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "prefs", "set", "size_scale", "300")
	require.NoError(t, err)

	scale, err := h.run(t, "prefs", "get", "size_scale")
	require.NoError(t, err)
	assert.Equal(t, "200", scale)

	_, err = h.run(t, "prefs", "set", "icon_styles.2", "circle")
	require.NoError(t, err)

	list, err := h.run(t, "prefs", "list")
	require.NoError(t, err)
	assert.Contains(t, list, "icon_styles.2=circle")
	assert.Contains(t, list, "size_scale=200")

	_, err = h.run(t, "prefs", "remove", "size_scale")
	require.NoError(t, err)

	scale, err = h.run(t, "prefs", "get", "size_scale")
	require.NoError(t, err)
	assert.Equal(t, "100", scale)

	_, err = h.run(t, "prefs", "reset")
	require.NoError(t, err)

	style, err := h.run(t, "prefs", "get", "icon_styles.2")
	require.NoError(t, err)
	assert.Equal(t, "square", style)
}

func TestPrefs_UnknownKey(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "prefs", "get", "wallpaper")

	require.Error(t, err)
}

func TestSwitch_RejectsBadTarget(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "switch", "three")

	require.Error(t, err)
}

func TestHook_Print(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "hook", "space_change", "--print")

	require.NoError(t, err)
	assert.Equal(t, `[[ -p `+filepath.Join(h.dir, "fifo")+` ]] && echo "space_change ¬" >> `+filepath.Join(h.dir, "fifo"), out)
}

func TestHook_UnknownEvent(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "hook", "workspace_change", "--print")

	require.Error(t, err)
}
