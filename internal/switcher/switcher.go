package switcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lucax88x/wentspaces/internal/command"
)

const (
	MinTarget = 1
	MaxTarget = 16

	// "Switch to Desktop 1" is 118, "Switch to Desktop 16" is 133
	hotKeyOffset = 117
)

// modifier masks as stored in the symbolic hot keys
const (
	ModifierShift   = 1 << 17
	ModifierControl = 1 << 18
	ModifierOption  = 1 << 19
	ModifierCommand = 1 << 20
)

var ErrNoHotKey = errors.New("switcher: no hot key for target")

// KeyEvent is the synthetic key press that triggers a desktop hot key.
type KeyEvent struct {
	KeyCode   int
	Modifiers int
}

type Poster interface {
	Post(ctx context.Context, event KeyEvent) error
}

func HotKeyID(target int) int {
	return hotKeyOffset + target
}

type Switcher struct {
	logger  *slog.Logger
	hotKeys HotKeyStore
	poster  Poster
}

func NewSwitcher(logger *slog.Logger, hotKeys HotKeyStore, poster Poster) *Switcher {
	return &Switcher{logger, hotKeys, poster}
}

// EventFor builds the key event switching to desktop target. Targets out of
// 1..16, missing hot keys and hot keys without a key code give nil. A
// disabled hot key is enabled first.
func (s *Switcher) EventFor(ctx context.Context, target int) *KeyEvent {
	if target < MinTarget || target > MaxTarget {
		return nil
	}

	id := HotKeyID(target)

	hotKey, ok, err := s.hotKeys.HotKey(ctx, id)
	if err != nil {
		s.logger.WarnContext(ctx, "switcher: could not read hot key", slog.Int("id", id), slog.Any("error", err))
		return nil
	}
	if !ok || hotKey.KeyCode == Unset {
		s.logger.DebugContext(ctx, "switcher: hot key not configured", slog.Int("id", id))
		return nil
	}

	if !hotKey.Enabled {
		s.logger.InfoContext(ctx, "switcher: enabling hot key", slog.Int("id", id))
		if err := s.hotKeys.Enable(ctx, id); err != nil {
			s.logger.WarnContext(ctx, "switcher: could not enable hot key", slog.Int("id", id), slog.Any("error", err))
		}
	}

	return &KeyEvent{KeyCode: hotKey.KeyCode, Modifiers: hotKey.Modifiers}
}

func (s *Switcher) Switch(ctx context.Context, target int) error {
	event := s.EventFor(ctx, target)
	if event == nil {
		return fmt.Errorf("%w %d", ErrNoHotKey, target)
	}

	if err := s.poster.Post(ctx, *event); err != nil {
		return fmt.Errorf("switcher: could not post key event: %w", err)
	}

	return nil
}

// OsascriptPoster presses keys through System Events.
type OsascriptPoster struct {
	command command.Runner
}

func NewOsascriptPoster(command command.Runner) *OsascriptPoster {
	return &OsascriptPoster{command}
}

func (p *OsascriptPoster) Post(ctx context.Context, event KeyEvent) error {
	_, err := p.command.Run(ctx, "osascript", "-e", Script(event))
	return err
}

// Script is the AppleScript pressing event.
func Script(event KeyEvent) string {
	script := `tell application "System Events" to key code ` + strconv.Itoa(event.KeyCode)

	modifiers := modifierNames(event.Modifiers)
	if len(modifiers) == 0 {
		return script
	}
	return script + " using {" + strings.Join(modifiers, ", ") + "}"
}

func modifierNames(mask int) []string {
	var names []string
	if mask&ModifierCommand != 0 {
		names = append(names, "command down")
	}
	if mask&ModifierControl != 0 {
		names = append(names, "control down")
	}
	if mask&ModifierOption != 0 {
		names = append(names, "option down")
	}
	if mask&ModifierShift != 0 {
		names = append(names, "shift down")
	}
	return names
}

var _ Poster = (*OsascriptPoster)(nil)
