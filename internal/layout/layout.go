package layout

import (
	"strconv"

	"github.com/lucax88x/wentspaces/internal/spaces"
)

type SlotKind int

const (
	SlotSpace SlotKind = iota
	SlotSeparator
)

// Slot is one segment of the status item. Separators and fullscreen spaces
// have no TargetSpace, no desktop hot key reaches them.
type Slot struct {
	Kind        SlotKind
	StartX      float64
	Width       float64
	TargetSpace *int

	Label   string
	SpaceID int
	// global regular number, the key of per-space preferences; 0 when none
	Number     int
	Active     bool
	Fullscreen bool
}

type Layout struct {
	Slots []Slot
}

type Options struct {
	ShowAllSpaces      bool
	ShowAllDisplays    bool
	HideFullscreenApps bool
	HideEmptySpaces    bool
	LocalNumbering     bool
	// nil when the query service cannot tell which spaces hold windows
	SpacesWithWindows map[int]bool

	ItemWidth      float64
	SeparatorWidth float64
}

// Calculate lays out the status item for a snapshot. ShowAllDisplays wins
// when both "show all" flags are set.
func Calculate(snapshot spaces.Snapshot, opts Options) Layout {
	if snapshot.IsEmpty() {
		return Layout{Slots: []Slot{{
			Kind:   SlotSpace,
			Width:  opts.ItemWidth,
			Label:  spaces.UnknownLabel,
			Active: true,
		}}}
	}

	if !opts.ShowAllSpaces && !opts.ShowAllDisplays {
		return single(snapshot, opts)
	}

	displays := snapshot.Displays
	if !opts.ShowAllDisplays {
		active, ok := snapshot.ActiveDisplay()
		if !ok {
			return single(snapshot, opts)
		}
		displays = []spaces.DisplaySpaceInfo{active}
	}

	builder := &builder{}
	for _, display := range displays {
		builder.display(snapshot, display, opts)
	}

	// every space hidden and none of them the current one
	if len(builder.slots) == 0 {
		return single(snapshot, opts)
	}

	return Layout{Slots: builder.slots}
}

func single(snapshot spaces.Snapshot, opts Options) Layout {
	isFullscreen := snapshot.CurrentSpaceLabel == spaces.FullscreenLabel

	number := snapshot.CurrentGlobalSpaceIndex
	if isFullscreen {
		number = 0
	}

	return Layout{Slots: []Slot{{
		Kind:       SlotSpace,
		Width:      opts.ItemWidth,
		Label:      snapshot.CurrentSpaceLabel,
		SpaceID:    snapshot.CurrentSpaceID,
		Number:     number,
		Active:     true,
		Fullscreen: isFullscreen,
	}}}
}

type builder struct {
	slots []Slot
	x     float64
}

func (b *builder) display(snapshot spaces.Snapshot, display spaces.DisplaySpaceInfo, opts Options) {
	first := true
	local := 0

	for i, spaceID := range display.SpaceIDs {
		isFullscreen := display.IsFullscreen(i)
		if !isFullscreen {
			local++
		}

		isActive := display.DisplayID == snapshot.ActiveDisplayID && spaceID == snapshot.CurrentSpaceID
		if !isActive && hidden(spaceID, isFullscreen, opts) {
			continue
		}

		if first && len(b.slots) > 0 {
			b.add(Slot{Kind: SlotSeparator, Width: opts.SeparatorWidth})
		}
		first = false

		slot := Slot{
			Kind:       SlotSpace,
			Width:      opts.ItemWidth,
			SpaceID:    spaceID,
			Active:     isActive,
			Fullscreen: isFullscreen,
			Label:      spaces.FullscreenLabel,
		}

		if !isFullscreen {
			global := display.GlobalStartIndex + local - 1
			target := global
			if opts.LocalNumbering {
				target = local
			}
			slot.Number = global
			slot.Label = strconv.Itoa(target)
			slot.TargetSpace = &target
		}

		b.add(slot)
	}
}

func (b *builder) add(slot Slot) {
	slot.StartX = b.x
	b.x += slot.Width
	b.slots = append(b.slots, slot)
}

func hidden(spaceID int, isFullscreen bool, opts Options) bool {
	if opts.HideFullscreenApps && isFullscreen {
		return true
	}
	if opts.HideEmptySpaces && opts.SpacesWithWindows != nil && !opts.SpacesWithWindows[spaceID] {
		return true
	}
	return false
}

func (l Layout) Width() float64 {
	width := 0.0
	for _, slot := range l.Slots {
		width += slot.Width
	}
	return width
}

// SlotAt resolves an x offset inside the status item to its slot.
func (l Layout) SlotAt(x float64) (Slot, bool) {
	for _, slot := range l.Slots {
		if x >= slot.StartX && x < slot.StartX+slot.Width {
			return slot, true
		}
	}
	return Slot{}, false
}

// Targets lists the click targets in slot order.
func (l Layout) Targets() []int {
	var targets []int
	for _, slot := range l.Slots {
		if slot.TargetSpace != nil {
			targets = append(targets, *slot.TargetSpace)
		}
	}
	return targets
}

// MultiSpace reports whether more than one space is drawn.
func (l Layout) MultiSpace() bool {
	count := 0
	for _, slot := range l.Slots {
		if slot.Kind == SlotSpace {
			count++
		}
	}
	return count > 1
}
