package spaces_test

import (
	"strconv"
	"testing"

	"github.com/lucax88x/wentspaces/internal/spaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func regular(id int) spaces.RawDict {
	return spaces.RawDict{spaces.KeyManagedSpaceID: id, spaces.KeyType: 0}
}

func fullscreen(id int) spaces.RawDict {
	return spaces.RawDict{
		spaces.KeyManagedSpaceID:    id,
		spaces.KeyType:              4,
		spaces.KeyTileLayoutManager: map[string]any{"Age": 1},
	}
}

func display(identifier string, current int, list ...spaces.RawDict) spaces.RawDict {
	items := make([]any, 0, len(list))
	for _, space := range list {
		items = append(items, space)
	}
	return spaces.RawDict{
		spaces.KeyDisplayIdentifier: identifier,
		spaces.KeySpaces:            items,
		spaces.KeyCurrentSpace:      spaces.RawDict{spaces.KeyManagedSpaceID: current},
	}
}

func TestBuildSnapshot_SingleDisplay(t *testing.T) {
	result := spaces.QueryResult{
		Displays:      []spaces.RawDict{display("Main", 11, regular(10), regular(11), regular(12))},
		ActiveDisplay: "Main",
	}

	snapshot := spaces.BuildSnapshot(result, false)

	assert.Equal(t, "2", snapshot.CurrentSpaceLabel)
	assert.Equal(t, 2, snapshot.CurrentGlobalSpaceIndex)
	assert.Equal(t, 11, snapshot.CurrentSpaceID)
	assert.Equal(t, []string{"1", "2", "3"}, snapshot.AllSpaceLabels())
}

func TestBuildSnapshot_FullscreenActive(t *testing.T) {
	result := spaces.QueryResult{
		Displays:      []spaces.RawDict{display("Main", 21, regular(20), fullscreen(21), regular(22))},
		ActiveDisplay: "Main",
	}

	snapshot := spaces.BuildSnapshot(result, false)

	require.Len(t, snapshot.Displays, 1)
	assert.Equal(t, []string{"1", "F", "2"}, snapshot.Displays[0].Labels)
	assert.Equal(t, "F", snapshot.CurrentSpaceLabel)
	assert.Equal(t, 2, snapshot.CurrentGlobalSpaceIndex)
	assert.Nil(t, snapshot.Entries[1].RegularIndex)
	require.NotNil(t, snapshot.Entries[2].RegularIndex)
	assert.Equal(t, 2, *snapshot.Entries[2].RegularIndex)
}

func TestBuildSnapshot_GlobalNumberingAcrossDisplays(t *testing.T) {
	result := spaces.QueryResult{
		Displays: []spaces.RawDict{
			display("Main", 1, regular(1), regular(2)),
			display("DELL-1", 3, regular(3), regular(4), regular(5)),
		},
		ActiveDisplay: "DELL-1",
	}

	snapshot := spaces.BuildSnapshot(result, false)

	require.Len(t, snapshot.Displays, 2)
	assert.Equal(t, "3", snapshot.CurrentSpaceLabel)
	assert.Equal(t, 3, snapshot.CurrentGlobalSpaceIndex)
	assert.Equal(t, 3, snapshot.Displays[1].GlobalStartIndex)
	assert.Equal(t, "DELL-1", snapshot.ActiveDisplayID)
}

func TestBuildSnapshot_LocalNumbering(t *testing.T) {
	result := spaces.QueryResult{
		Displays: []spaces.RawDict{
			display("Main", 1, regular(1), regular(2)),
			display("DELL-1", 4, regular(3), regular(4), regular(5)),
		},
		ActiveDisplay: "DELL-1",
	}

	snapshot := spaces.BuildSnapshot(result, true)

	assert.Equal(t, "2", snapshot.CurrentSpaceLabel)
	assert.Equal(t, 4, snapshot.CurrentGlobalSpaceIndex)
	assert.Equal(t, []string{"1", "2", "1", "2", "3"}, snapshot.AllSpaceLabels())
}

func TestBuildSnapshot_NumberingOnlyChangesLabels(t *testing.T) {
	result := spaces.QueryResult{
		Displays: []spaces.RawDict{
			display("Main", 1, regular(1), regular(2)),
			display("DELL-1", 4, regular(3), regular(4), regular(5)),
		},
		ActiveDisplay: "DELL-1",
	}

	global := spaces.BuildSnapshot(result, false)
	local := spaces.BuildSnapshot(result, true)

	assert.Equal(t, "4", global.CurrentSpaceLabel)
	assert.Equal(t, "2", local.CurrentSpaceLabel)
	assert.Equal(t, global.CurrentLocalLabel, local.CurrentLocalLabel)
	assert.Equal(t, global.Displays, local.Displays)
	assert.Equal(t, global.CurrentSpaceID, local.CurrentSpaceID)
	assert.Equal(t, global.CurrentGlobalSpaceIndex, local.CurrentGlobalSpaceIndex)
}

func TestBuildSnapshot_ActiveDisplayResolution(t *testing.T) {
	tests := []struct {
		name     string
		reported string
		expected string
	}{
		{name: "reported wins over main", reported: "DELL-1", expected: "DELL-1"},
		{name: "main when reported is missing", reported: "LG-2", expected: "Main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := spaces.QueryResult{
				Displays: []spaces.RawDict{
					display("DELL-1", 1, regular(1)),
					display("Main", 2, regular(2)),
				},
				ActiveDisplay: tt.reported,
			}

			snapshot := spaces.BuildSnapshot(result, false)

			assert.Equal(t, tt.expected, snapshot.ActiveDisplayID)
		})
	}

	t.Run("first display when neither exists", func(t *testing.T) {
		result := spaces.QueryResult{
			Displays: []spaces.RawDict{
				display("DELL-1", 1, regular(1)),
				display("LG-2", 2, regular(2)),
			},
			ActiveDisplay: "HP-3",
		}

		snapshot := spaces.BuildSnapshot(result, false)

		assert.Equal(t, "DELL-1", snapshot.ActiveDisplayID)
		assert.Equal(t, "1", snapshot.CurrentSpaceLabel)
	})
}

func TestBuildSnapshot_MalformedInput(t *testing.T) {
	t.Run("no displays", func(t *testing.T) {
		snapshot := spaces.BuildSnapshot(spaces.QueryResult{ActiveDisplay: "Main"}, false)
		assert.True(t, snapshot.IsEmpty())
		assert.Equal(t, spaces.Empty, snapshot)
	})

	t.Run("no active display", func(t *testing.T) {
		result := spaces.QueryResult{Displays: []spaces.RawDict{display("Main", 1, regular(1))}}
		assert.True(t, spaces.BuildSnapshot(result, false).IsEmpty())
	})

	t.Run("malformed displays are skipped", func(t *testing.T) {
		noSpaces := spaces.RawDict{
			spaces.KeyDisplayIdentifier: "Broken",
			spaces.KeyCurrentSpace:      spaces.RawDict{spaces.KeyManagedSpaceID: 9},
		}
		noCurrent := spaces.RawDict{
			spaces.KeyDisplayIdentifier: "NoCurrent",
			spaces.KeySpaces:            []any{regular(8)},
		}
		noIdentifier := spaces.RawDict{
			spaces.KeySpaces:       []any{regular(7)},
			spaces.KeyCurrentSpace: 7,
		}
		result := spaces.QueryResult{
			Displays:      []spaces.RawDict{noSpaces, display("Main", 2, regular(1), regular(2)), noCurrent, noIdentifier, nil},
			ActiveDisplay: "Main",
		}

		snapshot := spaces.BuildSnapshot(result, false)

		require.Len(t, snapshot.Displays, 1)
		assert.Equal(t, "2", snapshot.CurrentSpaceLabel)
	})

	t.Run("spaces without id are skipped", func(t *testing.T) {
		result := spaces.QueryResult{
			Displays:      []spaces.RawDict{display("Main", 3, regular(1), spaces.RawDict{"uuid": "x"}, regular(3))},
			ActiveDisplay: "Main",
		}

		snapshot := spaces.BuildSnapshot(result, false)

		assert.Equal(t, []string{"1", "2"}, snapshot.Displays[0].Labels)
		assert.Equal(t, "2", snapshot.CurrentSpaceLabel)
	})

	t.Run("active space not found", func(t *testing.T) {
		result := spaces.QueryResult{
			Displays:      []spaces.RawDict{display("Main", 99, regular(1))},
			ActiveDisplay: "Main",
		}

		snapshot := spaces.BuildSnapshot(result, false)

		assert.Equal(t, "?", snapshot.CurrentSpaceLabel)
		assert.Equal(t, 0, snapshot.CurrentGlobalSpaceIndex)
	})

	t.Run("loosely typed ids", func(t *testing.T) {
		result := spaces.QueryResult{
			Displays: []spaces.RawDict{{
				spaces.KeyDisplayIdentifier: "Main",
				spaces.KeySpaces: []any{
					map[string]any{spaces.KeyID64: float64(4)},
					map[string]any{spaces.KeyManagedSpaceID: "5"},
					map[string]any{spaces.KeyManagedSpaceID: uint64(6)},
				},
				spaces.KeyCurrentSpace: "5",
			}},
			ActiveDisplay: "Main",
		}

		snapshot := spaces.BuildSnapshot(result, false)

		assert.Equal(t, []int{4, 5, 6}, snapshot.Displays[0].SpaceIDs)
		assert.Equal(t, "2", snapshot.CurrentSpaceLabel)
	})
}

func TestBuildSnapshot_Properties(t *testing.T) {
	layouts := [][]bool{
		{false, true, false, false},
		{true, true},
		{false},
		{true, false, true, false, false},
	}

	// every rotation of the display order
	for rotation := range layouts {
		var raw []spaces.RawDict
		id := 1
		for i := range layouts {
			kinds := layouts[(i+rotation)%len(layouts)]
			var list []spaces.RawDict
			for _, isFullscreen := range kinds {
				if isFullscreen {
					list = append(list, fullscreen(id))
				} else {
					list = append(list, regular(id))
				}
				id++
			}
			raw = append(raw, display("D"+strconv.Itoa(i), id-1, list...))
		}
		result := spaces.QueryResult{Displays: raw, ActiveDisplay: "D0"}

		snapshot := spaces.BuildSnapshot(result, false)

		start := 1
		for _, info := range snapshot.Displays {
			require.Len(t, info.Labels, len(info.SpaceIDs))
			assert.Equal(t, start, info.GlobalStartIndex)

			next := 1
			for _, label := range info.Labels {
				if label == spaces.FullscreenLabel {
					continue
				}
				assert.Equal(t, strconv.Itoa(next), label)
				next++
			}
			assert.Equal(t, next-1, info.RegularCount)
			start += info.RegularCount
		}

		assert.Equal(t, snapshot, spaces.BuildSnapshot(result, false))
	}
}
