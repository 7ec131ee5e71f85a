package spaces

import (
	"github.com/spf13/cast"
)

// Keys of the window-server dictionaries, as found in com.apple.spaces.plist
// and in the managed display spaces output of the query helper.
const (
	KeyDisplayIdentifier = "Display Identifier"
	KeySpaces            = "Spaces"
	KeyCurrentSpace      = "Current Space"
	KeyManagedSpaceID    = "ManagedSpaceID"
	KeyID64              = "id64"
	KeyType              = "type"
	KeyTileLayoutManager = "TileLayoutManager"
)

const (
	MainDisplay     = "Main"
	FullscreenLabel = "F"
	UnknownLabel    = "?"

	fullscreenSpaceType = 4
)

// RawDict is one loosely-typed dictionary as handed over by the query service.
type RawDict = map[string]any

// QueryResult is the raw output of the space/display query service.
// A nil Displays means the service returned nothing.
type QueryResult struct {
	Displays      []RawDict
	ActiveDisplay string
}

type SpaceRecord struct {
	ID         int
	Fullscreen bool
}

type DisplayRecord struct {
	Identifier    string
	Spaces        []SpaceRecord
	ActiveSpaceID int
}

// ParseDisplays keeps the usable displays of a query result, in source order.
func ParseDisplays(raw []RawDict) []DisplayRecord {
	displays := make([]DisplayRecord, 0, len(raw))

	for _, dict := range raw {
		display, ok := parseDisplay(dict)
		if !ok {
			continue
		}
		displays = append(displays, display)
	}

	return displays
}

// SpaceIDs lists every space id of a query result, used to ask the query
// service which spaces currently hold windows.
func SpaceIDs(result QueryResult) []int {
	var ids []int
	for _, display := range ParseDisplays(result.Displays) {
		for _, space := range display.Spaces {
			ids = append(ids, space.ID)
		}
	}
	return ids
}

func parseDisplay(dict RawDict) (DisplayRecord, bool) {
	if dict == nil {
		return DisplayRecord{}, false
	}

	identifier, err := cast.ToStringE(dict[KeyDisplayIdentifier])
	if err != nil || identifier == "" {
		return DisplayRecord{}, false
	}

	rawSpaces, ok := dict[KeySpaces]
	if !ok {
		return DisplayRecord{}, false
	}
	list, err := cast.ToSliceE(rawSpaces)
	if err != nil {
		return DisplayRecord{}, false
	}

	current, ok := parseCurrentSpace(dict[KeyCurrentSpace])
	if !ok {
		return DisplayRecord{}, false
	}

	display := DisplayRecord{
		Identifier:    identifier,
		Spaces:        make([]SpaceRecord, 0, len(list)),
		ActiveSpaceID: current,
	}

	for _, item := range list {
		space, ok := parseSpace(item)
		if !ok {
			continue
		}
		display.Spaces = append(display.Spaces, space)
	}

	return display, true
}

func parseSpace(raw any) (SpaceRecord, bool) {
	dict, err := cast.ToStringMapE(raw)
	if err != nil {
		return SpaceRecord{}, false
	}

	id, ok := spaceID(dict)
	if !ok {
		return SpaceRecord{}, false
	}

	return SpaceRecord{
		ID:         id,
		Fullscreen: isFullscreen(dict),
	}, true
}

// the current space is usually a space dictionary, some sources flatten it to the id
func parseCurrentSpace(raw any) (int, bool) {
	if raw == nil {
		return 0, false
	}

	if dict, err := cast.ToStringMapE(raw); err == nil {
		return spaceID(dict)
	}

	id, err := cast.ToIntE(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func spaceID(dict map[string]any) (int, bool) {
	for _, key := range []string{KeyManagedSpaceID, KeyID64} {
		value, ok := dict[key]
		if !ok {
			continue
		}
		id, err := cast.ToIntE(value)
		if err == nil && id > 0 {
			return id, true
		}
	}
	return 0, false
}

func isFullscreen(dict map[string]any) bool {
	if manager, ok := dict[KeyTileLayoutManager]; ok && manager != nil {
		return true
	}

	kind, err := cast.ToIntE(dict[KeyType])
	return err == nil && kind == fullscreenSpaceType
}
