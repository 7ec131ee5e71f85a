package prefs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lucax88x/wentspaces/internal/render"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

const (
	KeyShowAllSpaces       = "show_all_spaces"
	KeyShowAllDisplays     = "show_all_displays"
	KeyDimInactiveSpaces   = "dim_inactive_spaces"
	KeyHideFullscreenApps  = "hide_fullscreen_apps"
	KeyHideEmptySpaces     = "hide_empty_spaces"
	KeyClickToSwitchSpaces = "click_to_switch_spaces"
	KeyLocalNumbering      = "local_numbering"
	KeySizeScale           = "size_scale"
	KeySpaceColors         = "space_colors"
	KeyIconStyles          = "icon_styles"
	KeySymbols             = "symbols"

	DefaultSizeScale = 100.0
	MinSizeScale     = 50.0
	MaxSizeScale     = 200.0

	modTimeGranularity = time.Second
)

var (
	ErrUnknownKey       = errors.New("prefs: unknown key")
	ErrPermissionDenied = errors.New("prefs: accessibility permission not granted")
)

// BoolKeys lists the boolean preferences in display order.
func BoolKeys() []string {
	return []string{
		KeyShowAllSpaces,
		KeyShowAllDisplays,
		KeyDimInactiveSpaces,
		KeyHideFullscreenApps,
		KeyHideEmptySpaces,
		KeyClickToSwitchSpaces,
		KeyLocalNumbering,
	}
}

// PermissionChecker reports whether the process may post synthetic events.
type PermissionChecker interface {
	Trusted(ctx context.Context) bool
}

type data struct {
	ShowAllSpaces       *bool    `yaml:"show_all_spaces,omitempty"`
	ShowAllDisplays     *bool    `yaml:"show_all_displays,omitempty"`
	DimInactiveSpaces   *bool    `yaml:"dim_inactive_spaces,omitempty"`
	HideFullscreenApps  *bool    `yaml:"hide_fullscreen_apps,omitempty"`
	HideEmptySpaces     *bool    `yaml:"hide_empty_spaces,omitempty"`
	ClickToSwitchSpaces *bool    `yaml:"click_to_switch_spaces,omitempty"`
	LocalNumbering      *bool    `yaml:"local_numbering,omitempty"`
	SizeScale           *float64 `yaml:"size_scale,omitempty"`

	// archived color blobs
	SpaceColors map[int]string `yaml:"space_colors,omitempty"`
	IconStyles  map[int]string `yaml:"icon_styles,omitempty"`
	Symbols     map[int]string `yaml:"symbols,omitempty"`
}

func (d *data) boolField(key string) (**bool, bool) {
	switch key {
	case KeyShowAllSpaces:
		return &d.ShowAllSpaces, false
	case KeyShowAllDisplays:
		return &d.ShowAllDisplays, false
	case KeyDimInactiveSpaces:
		return &d.DimInactiveSpaces, true
	case KeyHideFullscreenApps:
		return &d.HideFullscreenApps, false
	case KeyHideEmptySpaces:
		return &d.HideEmptySpaces, false
	case KeyClickToSwitchSpaces:
		return &d.ClickToSwitchSpaces, false
	case KeyLocalNumbering:
		return &d.LocalNumbering, false
	}
	return nil, false
}

// Preferences is a resolved copy of the store, defaults applied.
type Preferences struct {
	ShowAllSpaces       bool
	ShowAllDisplays     bool
	DimInactiveSpaces   bool
	HideFullscreenApps  bool
	HideEmptySpaces     bool
	ClickToSwitchSpaces bool
	LocalNumbering      bool
	// percent
	SizeScale float64

	Colors  map[int]render.SpaceColors
	Styles  map[int]render.IconStyle
	Symbols map[int]string
}

func (p Preferences) Bool(key string) bool {
	switch key {
	case KeyShowAllSpaces:
		return p.ShowAllSpaces
	case KeyShowAllDisplays:
		return p.ShowAllDisplays
	case KeyDimInactiveSpaces:
		return p.DimInactiveSpaces
	case KeyHideFullscreenApps:
		return p.HideFullscreenApps
	case KeyHideEmptySpaces:
		return p.HideEmptySpaces
	case KeyClickToSwitchSpaces:
		return p.ClickToSwitchSpaces
	case KeyLocalNumbering:
		return p.LocalNumbering
	}
	return false
}

// Store keeps the preferences in a yaml file. The file is read lazily and
// read again when it changed on disk since the last read.
type Store struct {
	logger      *slog.Logger
	path        string
	permissions PermissionChecker

	mu      sync.Mutex
	loaded  bool
	modTime time.Time
	size    int64
	data    data
}

func NewStore(logger *slog.Logger, path string, permissions PermissionChecker) *Store {
	return &Store{
		logger:      logger,
		path:        path,
		permissions: permissions,
	}
}

func (s *Store) load() error {
	stat, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.data = data{}
		s.modTime = time.Time{}
		s.size = 0
		s.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("prefs: could not stat file: %w", err)
	}

	if s.unchanged(stat) {
		return nil
	}

	content, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("prefs: could not read file: %w", err)
	}

	var fresh data
	if err := yaml.Unmarshal(content, &fresh); err != nil {
		return fmt.Errorf("prefs: could not unmarshal file: %w", err)
	}

	s.data = fresh
	s.modTime = stat.ModTime()
	s.size = stat.Size()
	s.loaded = true

	return nil
}

func (s *Store) save() error {
	content, err := yaml.Marshal(&s.data)
	if err != nil {
		return fmt.Errorf("prefs: could not marshal file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("prefs: could not create directory: %w", err)
	}

	if err := os.WriteFile(s.path, content, 0o600); err != nil {
		return fmt.Errorf("prefs: could not write file: %w", err)
	}

	if stat, err := os.Stat(s.path); err == nil {
		s.modTime = stat.ModTime()
		s.size = stat.Size()
	}

	return nil
}

// unchanged reports whether the cached data still matches the file. A
// modification time inside the filesystem's granularity cannot tell two
// writes apart, so such files are always read again.
func (s *Store) unchanged(stat os.FileInfo) bool {
	if !s.loaded || stat.Size() != s.size || !stat.ModTime().Equal(s.modTime) {
		return false
	}

	return time.Since(stat.ModTime()) > modTimeGranularity
}

func (s *Store) update(mutate func(d *data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}

	if err := mutate(&s.data); err != nil {
		return err
	}

	return s.save()
}

// Load resolves every preference. A broken file falls back to defaults.
func (s *Store) Load(ctx context.Context) Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		s.logger.WarnContext(ctx, "prefs: using defaults", slog.Any("error", err))
		s.data = data{}
		s.loaded = true
	}

	prefs := Preferences{
		SizeScale: DefaultSizeScale,
		Colors:    make(map[int]render.SpaceColors, len(s.data.SpaceColors)),
		Styles:    make(map[int]render.IconStyle, len(s.data.IconStyles)),
		Symbols:   make(map[int]string, len(s.data.Symbols)),
	}

	prefs.ShowAllSpaces = s.boolValue(KeyShowAllSpaces)
	prefs.ShowAllDisplays = s.boolValue(KeyShowAllDisplays)
	prefs.DimInactiveSpaces = s.boolValue(KeyDimInactiveSpaces)
	prefs.HideFullscreenApps = s.boolValue(KeyHideFullscreenApps)
	prefs.HideEmptySpaces = s.boolValue(KeyHideEmptySpaces)
	prefs.ClickToSwitchSpaces = s.boolValue(KeyClickToSwitchSpaces)
	prefs.LocalNumbering = s.boolValue(KeyLocalNumbering)

	if s.data.SizeScale != nil {
		prefs.SizeScale = clampScale(*s.data.SizeScale)
	}

	for number, blob := range s.data.SpaceColors {
		colors, err := UnarchiveColors(blob)
		if err != nil {
			s.logger.WarnContext(ctx, "prefs: skipping space colors", slog.Int("space", number), slog.Any("error", err))
			continue
		}
		prefs.Colors[number] = colors
	}

	for number, name := range s.data.IconStyles {
		style, err := render.ParseIconStyle(name)
		if err != nil {
			s.logger.WarnContext(ctx, "prefs: skipping icon style", slog.Int("space", number), slog.Any("error", err))
			continue
		}
		prefs.Styles[number] = style
	}

	for number, symbol := range s.data.Symbols {
		prefs.Symbols[number] = symbol
	}

	return prefs
}

func (s *Store) boolValue(key string) bool {
	field, fallback := s.data.boolField(key)
	if field == nil || *field == nil {
		return fallback
	}
	return **field
}

// SetBool writes a boolean preference. Turning one of the two "show all"
// flags on turns the other off.
func (s *Store) SetBool(ctx context.Context, key string, value bool) error {
	if key == KeyClickToSwitchSpaces && value && !s.permissions.Trusted(ctx) {
		return ErrPermissionDenied
	}

	return s.update(func(d *data) error {
		field, _ := d.boolField(key)
		if field == nil {
			return fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		*field = &value

		if value {
			switch key {
			case KeyShowAllSpaces:
				d.ShowAllDisplays = pointer(false)
			case KeyShowAllDisplays:
				d.ShowAllSpaces = pointer(false)
			}
		}
		return nil
	})
}

// SetClickToSwitch enables click to switch only with accessibility permission.
// Disabling always succeeds.
func (s *Store) SetClickToSwitch(ctx context.Context, enabled bool) bool {
	err := s.SetBool(ctx, KeyClickToSwitchSpaces, enabled)
	if err != nil {
		s.logger.WarnContext(ctx, "prefs: could not set click to switch", slog.Any("error", err))
		return false
	}
	return true
}

// SetSizeScale stores a percentage, clamped to 50..200.
func (s *Store) SetSizeScale(value float64) error {
	return s.update(func(d *data) error {
		d.SizeScale = pointer(clampScale(value))
		return nil
	})
}

func (s *Store) SetSpaceColors(number int, colors render.SpaceColors) error {
	blob, err := ArchiveColors(colors)
	if err != nil {
		return err
	}

	return s.update(func(d *data) error {
		if d.SpaceColors == nil {
			d.SpaceColors = make(map[int]string)
		}
		d.SpaceColors[number] = blob
		return nil
	})
}

func (s *Store) SetIconStyle(number int, style render.IconStyle) error {
	return s.update(func(d *data) error {
		if d.IconStyles == nil {
			d.IconStyles = make(map[int]string)
		}
		d.IconStyles[number] = style.String()
		return nil
	})
}

func (s *Store) SetSymbol(number int, symbol string) error {
	return s.update(func(d *data) error {
		if d.Symbols == nil {
			d.Symbols = make(map[int]string)
		}
		d.Symbols[number] = symbol
		return nil
	})
}

// Reset restores every default, also over a file that cannot be parsed.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = data{}
	s.loaded = true

	return s.save()
}

// Get reads one preference as text. Map entries are addressed as
// "space_colors.3".
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	name, number, err := splitKey(key)
	if err != nil {
		return "", err
	}

	prefs := s.Load(ctx)

	switch name {
	case KeySizeScale:
		return strconv.FormatFloat(prefs.SizeScale, 'f', -1, 64), nil
	case KeySpaceColors:
		if colors, ok := prefs.Colors[number]; ok {
			return colors.String(), nil
		}
		return "", nil
	case KeyIconStyles:
		return prefs.Styles[number].String(), nil
	case KeySymbols:
		return prefs.Symbols[number], nil
	}

	if !isBoolKey(name) {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return strconv.FormatBool(s.boolValue(name)), nil
}

// Set writes one preference from text, the counterpart of Get.
func (s *Store) Set(ctx context.Context, key string, value string) error {
	name, number, err := splitKey(key)
	if err != nil {
		return err
	}

	switch name {
	case KeySizeScale:
		scale, err := cast.ToFloat64E(value)
		if err != nil {
			return fmt.Errorf("prefs: could not parse %s: %w", key, err)
		}
		return s.SetSizeScale(scale)
	case KeySpaceColors:
		foreground, background, ok := strings.Cut(value, ",")
		if !ok {
			return fmt.Errorf("prefs: %s expects foreground,background", key)
		}
		colors, err := render.ParseColors(strings.TrimSpace(foreground), strings.TrimSpace(background))
		if err != nil {
			return err
		}
		return s.SetSpaceColors(number, colors)
	case KeyIconStyles:
		style, err := render.ParseIconStyle(value)
		if err != nil {
			return err
		}
		return s.SetIconStyle(number, style)
	case KeySymbols:
		return s.SetSymbol(number, value)
	}

	if !isBoolKey(name) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	enabled, err := cast.ToBoolE(value)
	if err != nil {
		return fmt.Errorf("prefs: could not parse %s: %w", key, err)
	}
	return s.SetBool(ctx, name, enabled)
}

// Remove drops one preference so its default applies again.
func (s *Store) Remove(key string) error {
	name, number, err := splitKey(key)
	if err != nil {
		return err
	}

	return s.update(func(d *data) error {
		switch name {
		case KeySizeScale:
			d.SizeScale = nil
		case KeySpaceColors:
			delete(d.SpaceColors, number)
		case KeyIconStyles:
			delete(d.IconStyles, number)
		case KeySymbols:
			delete(d.Symbols, number)
		default:
			field, _ := d.boolField(name)
			if field == nil {
				return fmt.Errorf("%w: %s", ErrUnknownKey, key)
			}
			*field = nil
		}
		return nil
	})
}

// List renders every preference as "key=value", sorted.
func (s *Store) List(ctx context.Context) []string {
	prefs := s.Load(ctx)

	values := map[string]string{
		KeyShowAllSpaces:       strconv.FormatBool(prefs.ShowAllSpaces),
		KeyShowAllDisplays:     strconv.FormatBool(prefs.ShowAllDisplays),
		KeyDimInactiveSpaces:   strconv.FormatBool(prefs.DimInactiveSpaces),
		KeyHideFullscreenApps:  strconv.FormatBool(prefs.HideFullscreenApps),
		KeyHideEmptySpaces:     strconv.FormatBool(prefs.HideEmptySpaces),
		KeyClickToSwitchSpaces: strconv.FormatBool(prefs.ClickToSwitchSpaces),
		KeyLocalNumbering:      strconv.FormatBool(prefs.LocalNumbering),
		KeySizeScale:           strconv.FormatFloat(prefs.SizeScale, 'f', -1, 64),
	}
	for number, colors := range prefs.Colors {
		values[mapKey(KeySpaceColors, number)] = colors.String()
	}
	for number, style := range prefs.Styles {
		values[mapKey(KeyIconStyles, number)] = style.String()
	}
	for number, symbol := range prefs.Symbols {
		values[mapKey(KeySymbols, number)] = symbol
	}

	lines := make([]string, 0, len(values))
	for key, value := range values {
		lines = append(lines, key+"="+value)
	}
	sort.Strings(lines)

	return lines
}

func isBoolKey(name string) bool {
	field, _ := (&data{}).boolField(name)
	return field != nil
}

func isMapKey(name string) bool {
	return name == KeySpaceColors || name == KeyIconStyles || name == KeySymbols
}

func mapKey(name string, number int) string {
	return name + "." + strconv.Itoa(number)
}

func splitKey(key string) (string, int, error) {
	name, suffix, found := strings.Cut(key, ".")
	if !isMapKey(name) {
		if found {
			return "", 0, fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		return name, 0, nil
	}

	if !found {
		return "", 0, fmt.Errorf("prefs: %s needs a space number, e.g. %s", key, mapKey(name, 1))
	}

	number, err := strconv.Atoi(suffix)
	if err != nil || number < 1 {
		return "", 0, fmt.Errorf("prefs: invalid space number in %s", key)
	}

	return name, number, nil
}

func clampScale(value float64) float64 {
	return min(max(value, MinSizeScale), MaxSizeScale)
}

func pointer[T any](v T) *T {
	return &v
}
