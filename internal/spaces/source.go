package spaces

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/lucax88x/wentspaces/internal/command"
	"github.com/spf13/cast"
	"golang.org/x/sync/singleflight"
	"howett.net/plist"
)

// Source is the space/display query service.
type Source interface {
	Query(ctx context.Context) (QueryResult, error)
	// SpacesWithWindows returns the subset of ids that currently hold
	// windows. A nil map means the source cannot tell.
	SpacesWithWindows(ctx context.Context, spaceIDs []int) (map[int]bool, error)
}

const (
	plistDisplayConfiguration = "SpacesDisplayConfiguration"
	plistManagementData       = "Management Data"
	plistMonitors             = "Monitors"
)

// PlistSource reads the managed display spaces the window server persists
// in com.apple.spaces.plist.
type PlistSource struct {
	logger *slog.Logger
	path   string
}

func NewPlistSource(logger *slog.Logger, path string) *PlistSource {
	return &PlistSource{logger, path}
}

func (s *PlistSource) Query(ctx context.Context) (QueryResult, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return QueryResult{}, fmt.Errorf("spaces: could not read plist: %w", err)
	}

	var root map[string]any
	if _, err := plist.Unmarshal(data, &root); err != nil {
		return QueryResult{}, fmt.Errorf("spaces: could not unmarshal plist: %w", err)
	}

	monitors, ok := lookupMonitors(root)
	if !ok {
		s.logger.WarnContext(ctx, "spaces: plist has no monitors", slog.String("path", s.path))
		return QueryResult{}, nil
	}

	result := QueryResult{Displays: monitors}
	result.ActiveDisplay = menuBarDisplay(monitors)

	return result, nil
}

// SpacesWithWindows is unknown for the plist, nothing gets hidden as empty.
func (s *PlistSource) SpacesWithWindows(_ context.Context, _ []int) (map[int]bool, error) {
	return nil, nil
}

func lookupMonitors(root map[string]any) ([]RawDict, bool) {
	config, err := cast.ToStringMapE(root[plistDisplayConfiguration])
	if err != nil {
		return nil, false
	}
	management, err := cast.ToStringMapE(config[plistManagementData])
	if err != nil {
		return nil, false
	}
	list, err := cast.ToSliceE(management[plistMonitors])
	if err != nil {
		return nil, false
	}

	monitors := make([]RawDict, 0, len(list))
	for _, item := range list {
		dict, err := cast.ToStringMapE(item)
		if err != nil {
			continue
		}
		monitors = append(monitors, dict)
	}
	return monitors, true
}

// the plist does not record which display hosts the menu bar: the primary
// display does unless displays have separate spaces, then the first one listed
func menuBarDisplay(monitors []RawDict) string {
	first := ""
	for _, monitor := range monitors {
		identifier := cast.ToString(monitor[KeyDisplayIdentifier])
		if identifier == MainDisplay {
			return identifier
		}
		if first == "" {
			first = identifier
		}
	}
	return first
}

// CommandSource runs a helper that prints the window-server dictionaries as
// JSON. `<helper> spaces` prints the displays, `<helper> windows <id>...`
// prints the ids holding windows.
type CommandSource struct {
	logger  *slog.Logger
	command command.Runner
	helper  string
}

func NewCommandSource(logger *slog.Logger, command command.Runner, helper string) *CommandSource {
	return &CommandSource{logger, command, helper}
}

type commandOutput struct {
	Displays      []RawDict `json:"displays"`
	ActiveDisplay string    `json:"active_display"`
}

func (s *CommandSource) Query(ctx context.Context) (QueryResult, error) {
	out, err := s.command.Run(ctx, s.helper, "spaces")
	if err != nil {
		return QueryResult{}, fmt.Errorf("spaces: could not query helper: %w", err)
	}

	var data commandOutput
	if err := json.Unmarshal([]byte(out), &data); err != nil {
		return QueryResult{}, fmt.Errorf("spaces: could not deserialize helper output: %w", err)
	}

	return QueryResult{
		Displays:      data.Displays,
		ActiveDisplay: data.ActiveDisplay,
	}, nil
}

func (s *CommandSource) SpacesWithWindows(ctx context.Context, spaceIDs []int) (map[int]bool, error) {
	args := make([]string, 0, len(spaceIDs)+1)
	args = append(args, "windows")
	for _, id := range spaceIDs {
		args = append(args, strconv.Itoa(id))
	}

	out, err := s.command.Run(ctx, s.helper, args...)
	if err != nil {
		return nil, fmt.Errorf("spaces: could not query windows: %w", err)
	}

	var ids []int
	if err := json.Unmarshal([]byte(out), &ids); err != nil {
		return nil, fmt.Errorf("spaces: could not deserialize windows output: %w", err)
	}

	withWindows := make(map[int]bool, len(ids))
	for _, id := range ids {
		withWindows[id] = true
	}
	return withWindows, nil
}

// CachedSource collapses concurrent queries into one call of the wrapped source.
type CachedSource struct {
	source Source
	group  singleflight.Group
}

func NewCachedSource(source Source) *CachedSource {
	return &CachedSource{source: source}
}

func (s *CachedSource) Query(ctx context.Context) (QueryResult, error) {
	value, err, _ := s.group.Do("query", func() (any, error) {
		return s.source.Query(ctx)
	})
	if err != nil {
		return QueryResult{}, err
	}
	//nolint:forcetypeassert // only QueryResult is stored
	return value.(QueryResult), nil
}

func (s *CachedSource) SpacesWithWindows(ctx context.Context, spaceIDs []int) (map[int]bool, error) {
	return s.source.SpacesWithWindows(ctx, spaceIDs)
}

var (
	_ Source = (*PlistSource)(nil)
	_ Source = (*CommandSource)(nil)
	_ Source = (*CachedSource)(nil)
)
