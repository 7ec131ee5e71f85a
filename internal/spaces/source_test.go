package spaces_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/lucax88x/wentspaces/internal/spaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSpacesPlist(t *testing.T, monitors []map[string]any) string {
	t.Helper()

	root := map[string]any{
		"SpacesDisplayConfiguration": map[string]any{
			"Management Data": map[string]any{
				"Monitors": monitors,
			},
		},
	}

	data, err := plist.Marshal(root, plist.BinaryFormat)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "com.apple.spaces.plist")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	return path
}

func TestPlistSource_Query(t *testing.T) {
	path := writeSpacesPlist(t, []map[string]any{
		{
			"Display Identifier": "Main",
			"Current Space":      map[string]any{"ManagedSpaceID": 5, "type": 0},
			"Spaces": []map[string]any{
				{"ManagedSpaceID": 4, "type": 0},
				{"ManagedSpaceID": 5, "type": 0},
				{"ManagedSpaceID": 6, "type": 4, "TileLayoutManager": map[string]any{"Age": 3}},
			},
		},
		{
			"Display Identifier": "Collapsed",
			"Spaces":             []map[string]any{},
		},
	})

	source := spaces.NewPlistSource(discardLogger(), path)

	result, err := source.Query(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Main", result.ActiveDisplay)

	snapshot := spaces.BuildSnapshot(result, false)
	require.Len(t, snapshot.Displays, 1)
	assert.Equal(t, []string{"1", "2", "F"}, snapshot.Displays[0].Labels)
	assert.Equal(t, "2", snapshot.CurrentSpaceLabel)

	withWindows, err := source.SpacesWithWindows(context.Background(), []int{4, 5, 6})
	require.NoError(t, err)
	assert.Nil(t, withWindows)
}

func TestPlistSource_FirstDisplayWithoutMain(t *testing.T) {
	path := writeSpacesPlist(t, []map[string]any{
		{
			"Display Identifier": "37D8832A-2D66-02CA-B9F7-8F30A301B230",
			"Current Space":      map[string]any{"ManagedSpaceID": 1},
			"Spaces":             []map[string]any{{"ManagedSpaceID": 1}},
		},
	})

	result, err := spaces.NewPlistSource(discardLogger(), path).Query(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "37D8832A-2D66-02CA-B9F7-8F30A301B230", result.ActiveDisplay)
}

func TestPlistSource_MissingFile(t *testing.T) {
	source := spaces.NewPlistSource(discardLogger(), filepath.Join(t.TempDir(), "missing.plist"))

	_, err := source.Query(context.Background())

	require.Error(t, err)
}

type fakeRunner struct {
	outputs map[string]string
	calls   []string
}

func (f *fakeRunner) Run(_ context.Context, name string, arg ...string) (string, error) {
	call := strings.Join(append([]string{name}, arg...), " ")
	f.calls = append(f.calls, call)

	out, ok := f.outputs[call]
	if !ok {
		return "", errors.New("unexpected call " + call)
	}
	return out, nil
}

func TestCommandSource(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"spaces-helper spaces": `{
			"active_display": "Main",
			"displays": [{
				"Display Identifier": "Main",
				"Current Space": {"ManagedSpaceID": 2},
				"Spaces": [{"ManagedSpaceID": 1}, {"ManagedSpaceID": 2}, {"ManagedSpaceID": 3}]
			}]
		}`,
		"spaces-helper windows 1 2 3": `[1, 3]`,
	}}

	source := spaces.NewCommandSource(discardLogger(), runner, "spaces-helper")

	result, err := source.Query(context.Background())
	require.NoError(t, err)

	snapshot := spaces.BuildSnapshot(result, false)
	assert.Equal(t, "2", snapshot.CurrentSpaceLabel)

	withWindows, err := source.SpacesWithWindows(context.Background(), spaces.SpaceIDs(result))
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true, 3: true}, withWindows)
}

func TestCommandSource_BadOutput(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{"spaces-helper spaces": "not json"}}

	_, err := spaces.NewCommandSource(discardLogger(), runner, "spaces-helper").Query(context.Background())

	require.Error(t, err)
}

type countingSource struct {
	queries atomic.Int32
}

func (c *countingSource) Query(_ context.Context) (spaces.QueryResult, error) {
	c.queries.Add(1)
	return spaces.QueryResult{ActiveDisplay: "Main"}, nil
}

func (c *countingSource) SpacesWithWindows(_ context.Context, _ []int) (map[int]bool, error) {
	return nil, nil
}

func TestCachedSource_Delegates(t *testing.T) {
	inner := &countingSource{}
	source := spaces.NewCachedSource(inner)

	result, err := source.Query(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Main", result.ActiveDisplay)
	assert.Equal(t, int32(1), inner.queries.Load())
}
