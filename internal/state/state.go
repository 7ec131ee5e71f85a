package state

import (
	"time"

	"github.com/lucax88x/wentspaces/internal/layout"
	"github.com/lucax88x/wentspaces/internal/spaces"
)

// FallbackWindow is how long a real notification silences fallback clicks.
const FallbackWindow = 500 * time.Millisecond

type EventKind int

const (
	Init EventKind = iota
	SpaceChange
	DisplayChange
	AppActivated
	AppearanceChange
	FallbackClick
	PreferencesChanged
)

func (k EventKind) String() string {
	switch k {
	case Init:
		return "init"
	case SpaceChange:
		return "space_change"
	case DisplayChange:
		return "display_change"
	case AppActivated:
		return "app_activated"
	case AppearanceChange:
		return "appearance_change"
	case FallbackClick:
		return "fallback_click"
	case PreferencesChanged:
		return "preferences_changed"
	}
	return "unknown"
}

// Notification reports whether the event comes from the system rather than
// the fallback click monitor.
func (k EventKind) Notification() bool {
	return k != FallbackClick && k != PreferencesChanged
}

// Event carries everything a rebuild needs, read before Apply runs.
type Event struct {
	Kind EventKind
	At   time.Time

	Query    spaces.QueryResult
	DarkMode bool
	Layout   layout.Options
}

// State is what the status item currently shows.
type State struct {
	Snapshot spaces.Snapshot
	Layout   layout.Layout
	DarkMode bool

	LastNotification time.Time
	Revision         int
}

// Suppressed reports whether a fallback click lands within FallbackWindow of
// the last real notification.
func Suppressed(current State, kind EventKind, at time.Time) bool {
	if kind != FallbackClick || current.LastNotification.IsZero() {
		return false
	}
	return at.Sub(current.LastNotification) < FallbackWindow
}

// Apply rebuilds the state for an event. The previous state is returned
// unchanged, with false, when the event is suppressed.
func Apply(current State, event Event) (State, bool) {
	if Suppressed(current, event.Kind, event.At) {
		return current, false
	}

	snapshot := spaces.BuildSnapshot(event.Query, event.Layout.LocalNumbering)

	next := State{
		Snapshot:         snapshot,
		Layout:           layout.Calculate(snapshot, event.Layout),
		DarkMode:         event.DarkMode,
		LastNotification: current.LastNotification,
		Revision:         current.Revision + 1,
	}

	if event.Kind.Notification() {
		next.LastNotification = event.At
	}

	return next, true
}
