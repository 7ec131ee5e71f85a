package events

import "github.com/lucax88x/wentspaces/internal/state"

type Event = string

const (
	Init             Event = "init"
	Refresh          Event = "refresh"
	SpaceChange      Event = "space_change"
	DisplayChange    Event = "display_change"
	AppActivated     Event = "app_activated"
	AppearanceChange Event = "appearance_change"
	MouseClicked     Event = "mouse_clicked"
)

// MouseClickedEventInfo is the payload of MouseClicked. X is absent for
// clicks outside the status item.
type MouseClickedEventInfo struct {
	X *float64 `json:"x"`
}

// Kind maps a hook event to the state transition it triggers.
func Kind(event Event) (state.EventKind, bool) {
	switch event {
	case Init:
		return state.Init, true
	case Refresh, SpaceChange:
		return state.SpaceChange, true
	case DisplayChange:
		return state.DisplayChange, true
	case AppActivated:
		return state.AppActivated, true
	case AppearanceChange:
		return state.AppearanceChange, true
	case MouseClicked:
		return state.FallbackClick, true
	}
	return state.Init, false
}

func All() []Event {
	return []Event{Init, Refresh, SpaceChange, DisplayChange, AppActivated, AppearanceChange, MouseClicked}
}
