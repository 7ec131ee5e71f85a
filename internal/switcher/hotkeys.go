package switcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/lucax88x/wentspaces/internal/command"
	"github.com/spf13/cast"
	"howett.net/plist"
)

const (
	keySymbolicHotKeys = "AppleSymbolicHotKeys"
	keyEnabled         = "enabled"
	keyValue           = "value"
	keyParameters      = "parameters"

	// a parameter nobody configured
	Unset = 65535

	// re-reads the symbolic hot keys without a logout
	activateSettings = "/System/Library/PrivateFrameworks/SystemAdministration.framework/Resources/activateSettings"
)

// HotKey is one entry of the system symbolic hot keys.
type HotKey struct {
	ID        int
	Enabled   bool
	Char      int
	KeyCode   int
	Modifiers int
}

type HotKeyStore interface {
	// HotKey returns false when the id has no entry.
	HotKey(ctx context.Context, id int) (HotKey, bool, error)
	Enable(ctx context.Context, id int) error
}

// PlistHotKeyStore reads and writes com.apple.symbolichotkeys.plist.
type PlistHotKeyStore struct {
	logger  *slog.Logger
	path    string
	command command.Runner

	mu sync.Mutex
}

func NewPlistHotKeyStore(logger *slog.Logger, path string, command command.Runner) *PlistHotKeyStore {
	return &PlistHotKeyStore{
		logger:  logger,
		path:    path,
		command: command,
	}
}

func (s *PlistHotKeyStore) read() (map[string]any, int, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, 0, fmt.Errorf("switcher: could not read hot keys: %w", err)
	}

	var root map[string]any
	format, err := plist.Unmarshal(data, &root)
	if err != nil {
		return nil, 0, fmt.Errorf("switcher: could not unmarshal hot keys: %w", err)
	}

	return root, format, nil
}

func entries(root map[string]any) map[string]any {
	hotKeys, err := cast.ToStringMapE(root[keySymbolicHotKeys])
	if err != nil {
		return nil
	}
	return hotKeys
}

func (s *PlistHotKeyStore) HotKey(_ context.Context, id int) (HotKey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	root, _, err := s.read()
	if err != nil {
		return HotKey{}, false, err
	}

	entry, err := cast.ToStringMapE(entries(root)[strconv.Itoa(id)])
	if err != nil {
		return HotKey{}, false, nil
	}

	return parseHotKey(id, entry), true, nil
}

func parseHotKey(id int, entry map[string]any) HotKey {
	hotKey := HotKey{
		ID:      id,
		Enabled: toBool(entry[keyEnabled]),
		Char:    Unset,
		KeyCode: Unset,
	}

	value, err := cast.ToStringMapE(entry[keyValue])
	if err != nil {
		return hotKey
	}

	parameters, err := cast.ToSliceE(value[keyParameters])
	if err != nil {
		return hotKey
	}

	targets := []*int{&hotKey.Char, &hotKey.KeyCode, &hotKey.Modifiers}
	for i, target := range targets {
		if i >= len(parameters) {
			break
		}
		if parsed, err := cast.ToIntE(parameters[i]); err == nil {
			*target = parsed
		}
	}

	return hotKey
}

// plist integers decode as uint64
func toBool(value any) bool {
	if enabled, err := cast.ToBoolE(value); err == nil {
		return enabled
	}
	return cast.ToInt(value) != 0
}

// Enable flips the entry on, keeping the file format, and asks the system to
// reload its hot keys.
func (s *PlistHotKeyStore) Enable(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	root, format, err := s.read()
	if err != nil {
		return err
	}

	hotKeys := entries(root)
	entry, err := cast.ToStringMapE(hotKeys[strconv.Itoa(id)])
	if hotKeys == nil || err != nil {
		return fmt.Errorf("switcher: hot key %d is not registered", id)
	}

	entry[keyEnabled] = true
	hotKeys[strconv.Itoa(id)] = entry
	root[keySymbolicHotKeys] = hotKeys

	data, err := plist.Marshal(root, format)
	if err != nil {
		return fmt.Errorf("switcher: could not marshal hot keys: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("switcher: could not write hot keys: %w", err)
	}

	if s.command == nil {
		return nil
	}

	if _, err := s.command.Run(ctx, activateSettings, "-u"); err != nil {
		s.logger.WarnContext(ctx, "switcher: could not reload hot keys", slog.Any("error", err))
	}

	return nil
}

var _ HotKeyStore = (*PlistHotKeyStore)(nil)
