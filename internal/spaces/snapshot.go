package spaces

import "strconv"

// DisplaySpaceInfo holds the labels of one display, numbered locally.
type DisplaySpaceInfo struct {
	DisplayID string
	Labels    []string
	SpaceIDs  []int
	// 1-based global number of the first regular space of this display.
	GlobalStartIndex int
	RegularCount     int
}

func (d DisplaySpaceInfo) IsFullscreen(i int) bool {
	return d.Labels[i] == FullscreenLabel
}

// SpaceEntry is one space across all displays. RegularIndex is the global
// regular number and stays nil for fullscreen spaces.
type SpaceEntry struct {
	Label        string
	RegularIndex *int
}

// Snapshot is the normalized space state. It is rebuilt from scratch for
// every change and never mutated afterwards.
type Snapshot struct {
	Displays                []DisplaySpaceInfo
	CurrentSpaceLabel       string
	CurrentGlobalSpaceIndex int
	Entries                 []SpaceEntry

	CurrentLocalLabel string
	CurrentSpaceID    int
	ActiveDisplayID   string
}

// Empty means no data is available.
//
//nolint:gochecknoglobals // ok
var Empty = Snapshot{}

func (s Snapshot) IsEmpty() bool {
	return len(s.Displays) == 0
}

func (s Snapshot) ActiveDisplay() (DisplaySpaceInfo, bool) {
	for _, display := range s.Displays {
		if display.DisplayID == s.ActiveDisplayID {
			return display, true
		}
	}
	return DisplaySpaceInfo{}, false
}

func (s Snapshot) AllSpaceLabels() []string {
	labels := make([]string, 0, len(s.Entries))
	for _, entry := range s.Entries {
		labels = append(labels, entry.Label)
	}
	return labels
}

// BuildSnapshot turns a raw query result into a Snapshot. Malformed displays
// and spaces are skipped, a result without displays or without an active
// display yields Empty.
func BuildSnapshot(result QueryResult, localNumbering bool) Snapshot {
	if result.Displays == nil || result.ActiveDisplay == "" {
		return Empty
	}

	displays := ParseDisplays(result.Displays)
	if len(displays) == 0 {
		return Empty
	}

	snapshot := Snapshot{
		Displays: make([]DisplaySpaceInfo, 0, len(displays)),
	}

	start := 1
	for _, display := range displays {
		info := DisplaySpaceInfo{
			DisplayID:        display.Identifier,
			Labels:           make([]string, 0, len(display.Spaces)),
			SpaceIDs:         make([]int, 0, len(display.Spaces)),
			GlobalStartIndex: start,
		}

		regular := 1
		for _, space := range display.Spaces {
			info.SpaceIDs = append(info.SpaceIDs, space.ID)

			if space.Fullscreen {
				info.Labels = append(info.Labels, FullscreenLabel)
				snapshot.Entries = append(snapshot.Entries, SpaceEntry{Label: FullscreenLabel})
				continue
			}

			global := start + regular - 1
			label := strconv.Itoa(global)
			if localNumbering {
				label = strconv.Itoa(regular)
			}

			info.Labels = append(info.Labels, strconv.Itoa(regular))
			snapshot.Entries = append(snapshot.Entries, SpaceEntry{Label: label, RegularIndex: &global})
			regular++
		}

		info.RegularCount = regular - 1
		start += info.RegularCount
		snapshot.Displays = append(snapshot.Displays, info)
	}

	active := activeDisplay(displays, result.ActiveDisplay)
	snapshot.ActiveDisplayID = displays[active].Identifier
	resolveCurrent(&snapshot, displays[active], snapshot.Displays[active], localNumbering)

	return snapshot
}

func activeDisplay(displays []DisplayRecord, reported string) int {
	main := -1
	for i, display := range displays {
		if display.Identifier == reported {
			return i
		}
		if main < 0 && display.Identifier == MainDisplay {
			main = i
		}
	}

	if main >= 0 {
		return main
	}
	return 0
}

func resolveCurrent(snapshot *Snapshot, display DisplayRecord, info DisplaySpaceInfo, localNumbering bool) {
	snapshot.CurrentSpaceLabel = UnknownLabel
	snapshot.CurrentLocalLabel = UnknownLabel

	regularBefore := 0
	for _, space := range display.Spaces {
		if space.ID != display.ActiveSpaceID {
			if !space.Fullscreen {
				regularBefore++
			}
			continue
		}

		snapshot.CurrentSpaceID = space.ID

		if space.Fullscreen {
			// positioned after the regular spaces before it, never numbered as one
			snapshot.CurrentGlobalSpaceIndex = info.GlobalStartIndex + regularBefore
			snapshot.CurrentSpaceLabel = FullscreenLabel
			snapshot.CurrentLocalLabel = FullscreenLabel
			return
		}

		local := regularBefore + 1
		snapshot.CurrentGlobalSpaceIndex = info.GlobalStartIndex + local - 1
		snapshot.CurrentLocalLabel = strconv.Itoa(local)
		snapshot.CurrentSpaceLabel = strconv.Itoa(snapshot.CurrentGlobalSpaceIndex)
		if localNumbering {
			snapshot.CurrentSpaceLabel = snapshot.CurrentLocalLabel
		}
		return
	}
}
