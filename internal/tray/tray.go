package tray

import (
	"log/slog"
	"strconv"
	"sync"

	"github.com/getlantern/systray"
	"github.com/lucax88x/wentspaces/internal/prefs"
)

// MaxDesktops matches the number of desktops with a symbolic hot key.
const MaxDesktops = 16

// Handler receives what the menu asks for.
type Handler interface {
	RequestSwitch(target int)
	Toggle(key string)
	ResetPreferences()
}

//nolint:gochecknoglobals // ok
var toggleTitles = map[string]string{
	prefs.KeyShowAllSpaces:       "Show all spaces",
	prefs.KeyShowAllDisplays:     "Show all displays",
	prefs.KeyDimInactiveSpaces:   "Dim inactive spaces",
	prefs.KeyHideFullscreenApps:  "Hide full-screen apps",
	prefs.KeyHideEmptySpaces:     "Hide empty spaces",
	prefs.KeyClickToSwitchSpaces: "Click to switch spaces",
	prefs.KeyLocalNumbering:      "Number spaces per display",
}

// StatusItem is the menu bar item. Updates arriving before the tray is
// ready are kept and applied once it is.
type StatusItem struct {
	logger *slog.Logger

	mu          sync.Mutex
	ready       bool
	icon        []byte
	tooltip     string
	targets     []int
	preferences *prefs.Preferences

	// pre-allocated desktop entries, hidden when unused
	desktops    [MaxDesktops]*systray.MenuItem
	slotTargets [MaxDesktops]int
	toggles     map[string]*systray.MenuItem
}

func NewStatusItem(logger *slog.Logger) *StatusItem {
	return &StatusItem{
		logger:  logger,
		toggles: make(map[string]*systray.MenuItem),
	}
}

// Run blocks the calling goroutine, which must be the main one. onReady is
// called once the menu exists, onExit after Quit.
func (s *StatusItem) Run(handler Handler, onReady func(), onExit func()) {
	systray.Run(func() {
		s.build(handler)

		if onReady != nil {
			onReady()
		}
	}, func() {
		if onExit != nil {
			onExit()
		}
	})
}

func (s *StatusItem) Quit() {
	systray.Quit()
}

func (s *StatusItem) build(handler Handler) {
	for i := range MaxDesktops {
		item := systray.AddMenuItem("", "")
		item.Hide()
		s.desktops[i] = item

		go s.onClick(item, func() {
			if target := s.targetAt(i); target > 0 {
				handler.RequestSwitch(target)
			}
		})
	}

	systray.AddSeparator()

	for _, key := range prefs.BoolKeys() {
		item := systray.AddMenuItem(toggleTitles[key], "")
		s.toggles[key] = item

		go s.onClick(item, func() {
			handler.Toggle(key)
		})
	}

	systray.AddSeparator()

	reset := systray.AddMenuItem("Reset preferences", "Restore the default preferences")
	go s.onClick(reset, handler.ResetPreferences)

	quit := systray.AddMenuItem("Quit", "Quit wentspaces")
	go s.onClick(quit, systray.Quit)

	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()

	s.flush()
}

func (s *StatusItem) onClick(item *systray.MenuItem, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tray: recovered from panic in menu handler", slog.Any("panic", r))
		}
	}()

	for range item.ClickedCh {
		fn()
	}
}

func (s *StatusItem) targetAt(slot int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slotTargets[slot]
}

func (s *StatusItem) flush() {
	s.mu.Lock()
	icon, tooltip, targets, preferences := s.icon, s.tooltip, s.targets, s.preferences
	s.mu.Unlock()

	if icon != nil {
		s.SetIcon(icon)
	}
	if tooltip != "" {
		s.SetTooltip(tooltip)
	}
	s.SetTargets(targets)
	if preferences != nil {
		s.SyncPreferences(*preferences)
	}
}

func (s *StatusItem) SetIcon(png []byte) {
	s.mu.Lock()
	s.icon = png
	ready := s.ready
	s.mu.Unlock()

	if ready {
		systray.SetIcon(png)
	}
}

func (s *StatusItem) SetTooltip(text string) {
	s.mu.Lock()
	s.tooltip = text
	ready := s.ready
	s.mu.Unlock()

	if ready {
		systray.SetTooltip(text)
	}
}

func (s *StatusItem) SetTargets(targets []int) {
	slots := assignSlots(targets)

	s.mu.Lock()
	s.targets = targets
	s.slotTargets = slots
	ready := s.ready
	s.mu.Unlock()

	if !ready {
		return
	}

	for i, target := range slots {
		if target == 0 {
			s.desktops[i].Hide()
			continue
		}

		s.desktops[i].SetTitle(desktopTitle(target))
		s.desktops[i].Show()
	}
}

func (s *StatusItem) SyncPreferences(preferences prefs.Preferences) {
	s.mu.Lock()
	s.preferences = &preferences
	ready := s.ready
	s.mu.Unlock()

	if !ready {
		return
	}

	for key, item := range s.toggles {
		if preferences.Bool(key) {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
}

// assignSlots places the targets in menu order, deduplicated. Zero marks an
// unused slot.
func assignSlots(targets []int) [MaxDesktops]int {
	var slots [MaxDesktops]int

	seen := make(map[int]bool, len(targets))
	i := 0
	for _, target := range targets {
		if i == MaxDesktops {
			break
		}
		if target < 1 || target > MaxDesktops || seen[target] {
			continue
		}

		seen[target] = true
		slots[i] = target
		i++
	}

	return slots
}

func desktopTitle(target int) string {
	return "Switch to Desktop " + strconv.Itoa(target)
}
