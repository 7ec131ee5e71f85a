package wentspaces

import (
	"fmt"
	"log/slog"
	"maps"

	"github.com/lucax88x/wentspaces/cmd/cli/config"
	"github.com/lucax88x/wentspaces/cmd/cli/config/settings"
	"github.com/lucax88x/wentspaces/cmd/cli/config/settings/icons"
	"github.com/lucax88x/wentspaces/internal/app"
	"github.com/lucax88x/wentspaces/internal/appearance"
	"github.com/lucax88x/wentspaces/internal/clock"
	"github.com/lucax88x/wentspaces/internal/command"
	"github.com/lucax88x/wentspaces/internal/fifo"
	"github.com/lucax88x/wentspaces/internal/jobs"
	"github.com/lucax88x/wentspaces/internal/permission"
	"github.com/lucax88x/wentspaces/internal/prefs"
	"github.com/lucax88x/wentspaces/internal/render"
	"github.com/lucax88x/wentspaces/internal/server"
	"github.com/lucax88x/wentspaces/internal/spaces"
	"github.com/lucax88x/wentspaces/internal/switcher"
	"github.com/lucax88x/wentspaces/internal/tray"
	"github.com/lucax88x/wentspaces/internal/watcher"
)

// Wentspaces wires every component once per command.
type Wentspaces struct {
	Logger     *slog.Logger
	Cfg        *config.Cfg
	Command    command.Runner
	Clock      clock.Clock
	Source     spaces.Source
	Permission *permission.Checker
	Prefs      *prefs.Store
	Renderer   *render.Renderer
	HotKeys    *switcher.PlistHotKeyStore
	Switcher   *switcher.Switcher
	Appearance *appearance.Detector
	Tray       *tray.StatusItem
	Controller *app.Controller
	Fifo       *fifo.Reader
	Server     *server.FifoServer
	Watcher    *watcher.SpacesWatcher
	Jobs       []jobs.Job
}

func NewWentspaces(logger *slog.Logger, cfg *config.Cfg) (*Wentspaces, error) {
	cmd := command.NewCommand(logger)

	var source spaces.Source
	if cfg.QueryCommand != "" {
		source = spaces.NewCommandSource(logger, cmd, cfg.QueryCommand)
	} else {
		source = spaces.NewPlistSource(logger, cfg.SpacesPlist)
	}
	source = spaces.NewCachedSource(source)

	permissions := permission.NewChecker(logger, cmd)
	preferences := prefs.NewStore(logger, cfg.PrefsPath, permissions)

	renderer, err := NewRenderer(logger, cfg)
	if err != nil {
		return nil, err
	}

	hotKeys := switcher.NewPlistHotKeyStore(logger, cfg.HotKeysPlist, cmd)
	spaceSwitcher := switcher.NewSwitcher(logger, hotKeys, switcher.NewOsascriptPoster(cmd))
	detector := appearance.NewDetector(logger, cmd)
	statusItem := tray.NewStatusItem(logger)
	systemClock := clock.NewSystemClock()

	controller := app.NewController(
		logger,
		source,
		preferences,
		renderer,
		spaceSwitcher,
		detector,
		statusItem,
		systemClock,
		AppSettings(),
	)

	fifoReader := fifo.NewFifoReader(logger)

	return &Wentspaces{
		Logger:     logger,
		Cfg:        cfg,
		Command:    cmd,
		Clock:      systemClock,
		Source:     source,
		Permission: permissions,
		Prefs:      preferences,
		Renderer:   renderer,
		HotKeys:    hotKeys,
		Switcher:   spaceSwitcher,
		Appearance: detector,
		Tray:       statusItem,
		Controller: controller,
		Fifo:       fifoReader,
		Server:     server.NewFifoServer(logger, fifoReader, cfg.FifoPath, controller),
		Watcher:    watcher.NewSpacesWatcher(logger, cfg.SpacesPlist, controller),
		Jobs: []jobs.Job{
			jobs.NewAppearanceJob(logger, detector, controller, cfg.AppearanceInterval),
			jobs.NewPollJob(logger, controller, cfg.PollInterval),
		},
	}, nil
}

// NewRenderer builds the renderer from the static settings, symbols from
// the config taking precedence over the built-in table.
func NewRenderer(logger *slog.Logger, cfg *config.Cfg) (*render.Renderer, error) {
	dark, err := render.ParseColors(settings.StatusItem.Dark.Foreground, settings.StatusItem.Dark.Background)
	if err != nil {
		return nil, fmt.Errorf("wentspaces: could not parse dark palette: %w", err)
	}

	light, err := render.ParseColors(settings.StatusItem.Light.Foreground, settings.StatusItem.Light.Background)
	if err != nil {
		return nil, fmt.Errorf("wentspaces: could not parse light palette: %w", err)
	}

	symbols := maps.Clone(icons.Symbols)
	maps.Copy(symbols, cfg.Symbols)

	renderer, err := render.NewRenderer(logger, render.Options{
		ItemHeight: settings.StatusItem.ItemHeight,
		DimAlpha:   settings.StatusItem.DimAlpha,
		Symbols:    symbols,
		Dark:       dark,
		Light:      light,
		ShapeRatio: settings.StatusItem.ShapeRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("wentspaces: could not create renderer: %w", err)
	}

	return renderer, nil
}

func AppSettings() app.Settings {
	return app.Settings{
		ItemWidth:      settings.StatusItem.ItemWidth,
		SeparatorWidth: settings.StatusItem.SeparatorWidth,
	}
}
