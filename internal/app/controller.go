package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lucax88x/wentspaces/internal/clock"
	"github.com/lucax88x/wentspaces/internal/layout"
	"github.com/lucax88x/wentspaces/internal/prefs"
	"github.com/lucax88x/wentspaces/internal/render"
	"github.com/lucax88x/wentspaces/internal/spaces"
	"github.com/lucax88x/wentspaces/internal/state"
)

// StatusItem is the menu bar surface.
type StatusItem interface {
	SetIcon(png []byte)
	SetTooltip(text string)
	// SetTargets lists the desktops offered in the menu.
	SetTargets(targets []int)
	SyncPreferences(preferences prefs.Preferences)
}

type Appearance interface {
	DarkMode(ctx context.Context) bool
}

type Preferences interface {
	Load(ctx context.Context) prefs.Preferences
	SetBool(ctx context.Context, key string, value bool) error
	SetClickToSwitch(ctx context.Context, enabled bool) bool
	Reset() error
}

type Switcher interface {
	Switch(ctx context.Context, target int) error
}

type Settings struct {
	ItemWidth      float64
	SeparatorWidth float64
}

type inputKind int

const (
	inputNotify inputKind = iota
	inputClick
	inputSwitch
	inputToggle
	inputReset
)

type input struct {
	kind   inputKind
	event  state.EventKind
	x      float64
	target int
	key    string
}

// Controller owns the state. Producers hand it inputs, one goroutine applies
// them in order.
type Controller struct {
	logger     *slog.Logger
	source     spaces.Source
	prefs      Preferences
	renderer   *render.Renderer
	switcher   Switcher
	appearance Appearance
	status     StatusItem
	clock      clock.Clock
	settings   Settings

	inputs chan input

	mu      sync.RWMutex
	current state.State
	scale   float64
}

func NewController(
	logger *slog.Logger,
	source spaces.Source,
	preferences Preferences,
	renderer *render.Renderer,
	switcher Switcher,
	appearance Appearance,
	status StatusItem,
	clock clock.Clock,
	settings Settings,
) *Controller {
	return &Controller{
		logger:     logger,
		source:     source,
		prefs:      preferences,
		renderer:   renderer,
		switcher:   switcher,
		appearance: appearance,
		status:     status,
		clock:      clock,
		settings:   settings,
		inputs:     make(chan input, 64),
		scale:      1,
	}
}

func (c *Controller) send(in input) {
	select {
	case c.inputs <- in:
	default:
		c.logger.Warn("app: input queue full, dropping", slog.Int("kind", int(in.kind)))
	}
}

func (c *Controller) Notify(kind state.EventKind) {
	c.send(input{kind: inputNotify, event: kind})
}

// Click handles a click at x, in rendered pixels from the left edge of the
// status item.
func (c *Controller) Click(x float64) {
	c.send(input{kind: inputClick, x: x})
}

func (c *Controller) RequestSwitch(target int) {
	c.send(input{kind: inputSwitch, target: target})
}

func (c *Controller) Toggle(key string) {
	c.send(input{kind: inputToggle, key: key})
}

func (c *Controller) ResetPreferences() {
	c.send(input{kind: inputReset})
}

func (c *Controller) Current() state.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

func (c *Controller) Run(ctx context.Context) error {
	c.logger.InfoContext(ctx, "app: starting controller")

	c.Rebuild(ctx, state.Init)

	for {
		select {
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "app: controller stopped")
			return nil
		case in := <-c.inputs:
			c.handle(ctx, in)
		}
	}
}

func (c *Controller) handle(ctx context.Context, in input) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.ErrorContext(ctx, "app: recovered from panic while handling input", slog.Any("panic", r))
		}
	}()

	switch in.kind {
	case inputNotify:
		c.Rebuild(ctx, in.event)
	case inputClick:
		c.click(ctx, in.x)
	case inputSwitch:
		c.switchTo(ctx, in.target)
	case inputToggle:
		c.toggle(ctx, in.key)
	case inputReset:
		if err := c.prefs.Reset(); err != nil {
			c.logger.ErrorContext(ctx, "app: could not reset preferences", slog.Any("error", err))
		}
		c.Rebuild(ctx, state.PreferencesChanged)
	}
}

// Rebuild queries the spaces, applies the event and presents the result. It
// runs on the goroutine owning the controller and reports false when the
// event was suppressed.
func (c *Controller) Rebuild(ctx context.Context, kind state.EventKind) bool {
	at := c.clock.Now()
	current := c.Current()

	if state.Suppressed(current, kind, at) {
		c.logger.DebugContext(ctx, "app: fallback click suppressed")
		return false
	}

	preferences := c.prefs.Load(ctx)

	result, err := c.source.Query(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "app: could not query spaces", slog.Any("error", err))
		result = spaces.QueryResult{}
	}

	options := layout.Options{
		ShowAllSpaces:      preferences.ShowAllSpaces,
		ShowAllDisplays:    preferences.ShowAllDisplays,
		HideFullscreenApps: preferences.HideFullscreenApps,
		HideEmptySpaces:    preferences.HideEmptySpaces,
		LocalNumbering:     preferences.LocalNumbering,
		ItemWidth:          c.settings.ItemWidth,
		SeparatorWidth:     c.settings.SeparatorWidth,
	}

	if preferences.HideEmptySpaces {
		withWindows, err := c.source.SpacesWithWindows(ctx, spaces.SpaceIDs(result))
		if err != nil {
			c.logger.WarnContext(ctx, "app: could not query windows", slog.Any("error", err))
		}
		options.SpacesWithWindows = withWindows
	}

	next, applied := state.Apply(current, state.Event{
		Kind:     kind,
		At:       at,
		Query:    result,
		DarkMode: c.appearance.DarkMode(ctx),
		Layout:   options,
	})
	if !applied {
		return false
	}

	scale := preferences.SizeScale / 100

	c.mu.Lock()
	c.current = next
	c.scale = scale
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "app: rebuilt",
		slog.String("event", kind.String()),
		slog.String("label", next.Snapshot.CurrentSpaceLabel),
		slog.Int("slots", len(next.Layout.Slots)))

	c.present(ctx, next, preferences, scale)

	return true
}

func (c *Controller) present(ctx context.Context, current state.State, preferences prefs.Preferences, scale float64) {
	img := c.renderer.Render(current.Layout, render.Input{
		DarkMode: current.DarkMode,
		Dim:      preferences.DimInactiveSpaces,
		Scale:    scale,
		Colors:   preferences.Colors,
		Styles:   preferences.Styles,
		Symbols:  preferences.Symbols,
	})

	png, err := render.EncodePNG(img)
	if err != nil {
		c.logger.ErrorContext(ctx, "app: could not encode icon", slog.Any("error", err))
		return
	}

	c.status.SetIcon(png)
	c.status.SetTooltip(render.Tooltip(current.Layout))
	c.status.SetTargets(current.Layout.Targets())
	c.status.SyncPreferences(preferences)
}

func (c *Controller) click(ctx context.Context, x float64) {
	defer c.Rebuild(ctx, state.FallbackClick)

	if !c.prefs.Load(ctx).ClickToSwitchSpaces {
		return
	}

	c.mu.RLock()
	current, scale := c.current, c.scale
	c.mu.RUnlock()

	slot, ok := current.Layout.SlotAt(x / scale)
	if !ok || slot.TargetSpace == nil || slot.Active {
		return
	}

	c.switchTo(ctx, *slot.TargetSpace)
}

func (c *Controller) switchTo(ctx context.Context, target int) {
	c.logger.InfoContext(ctx, "app: switching space", slog.Int("target", target))

	if err := c.switcher.Switch(ctx, target); err != nil {
		c.logger.WarnContext(ctx, "app: could not switch space", slog.Int("target", target), slog.Any("error", err))
	}
}

func (c *Controller) toggle(ctx context.Context, key string) {
	value := !c.prefs.Load(ctx).Bool(key)

	if key == prefs.KeyClickToSwitchSpaces {
		if !c.prefs.SetClickToSwitch(ctx, value) {
			c.logger.WarnContext(ctx, "app: accessibility permission is required to click to switch")
		}
	} else if err := c.prefs.SetBool(ctx, key, value); err != nil {
		c.logger.ErrorContext(ctx, "app: could not toggle preference", slog.String("key", key), slog.Any("error", err))
	}

	c.Rebuild(ctx, state.PreferencesChanged)
}
