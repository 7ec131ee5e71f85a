package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/lucax88x/wentspaces/cmd/cli/config/settings"
	"github.com/lucax88x/wentspaces/internal/homedir"
	"github.com/spf13/viper"
)

const (
	KeyLogLevel           = "log_level"
	KeyPrefsPath          = "prefs_path"
	KeySpacesPlist        = "spaces_plist"
	KeyHotKeysPlist       = "hotkeys_plist"
	// helper printing the window server dictionaries as json, the spaces
	// plist is read when empty
	KeyQueryCommand       = "query_command"
	KeyFifoPath           = "fifo_path"
	KeyPidPath            = "pid_path"
	KeyPollInterval       = "poll_interval"
	KeyAppearanceInterval = "appearance_interval"
	KeySymbols            = "symbols"
)

type Cfg struct {
	LogLevel           string            `mapstructure:"log_level"`
	PrefsPath          string            `mapstructure:"prefs_path"`
	SpacesPlist        string            `mapstructure:"spaces_plist"`
	HotKeysPlist       string            `mapstructure:"hotkeys_plist"`
	QueryCommand       string            `mapstructure:"query_command"`
	FifoPath           string            `mapstructure:"fifo_path"`
	PidPath            string            `mapstructure:"pid_path"`
	PollInterval       time.Duration     `mapstructure:"poll_interval"`
	AppearanceInterval time.Duration     `mapstructure:"appearance_interval"`
	Symbols            map[string]string `mapstructure:"symbols"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyPrefsPath, filepath.Join("~", settings.ConfigDir, "preferences.yaml"))
	v.SetDefault(KeySpacesPlist, "~/Library/Preferences/com.apple.spaces.plist")
	v.SetDefault(KeyHotKeysPlist, "~/Library/Preferences/com.apple.symbolichotkeys.plist")
	v.SetDefault(KeyQueryCommand, "")
	v.SetDefault(KeyFifoPath, settings.FifoPath)
	v.SetDefault(KeyPidPath, settings.PidFilePath)
	v.SetDefault(KeyPollInterval, 2*time.Second)
	v.SetDefault(KeyAppearanceInterval, 5*time.Second)
}

// Load reads the configuration out of viper, paths expanded.
func Load(v *viper.Viper) (*Cfg, error) {
	var cfg Cfg

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: could not unmarshal cfg: %w", err)
	}

	for _, path := range []*string{
		&cfg.PrefsPath,
		&cfg.SpacesPlist,
		&cfg.HotKeysPlist,
		&cfg.FifoPath,
		&cfg.PidPath,
	} {
		expanded, err := homedir.Expand(*path)
		if err != nil {
			return nil, fmt.Errorf("config: could not expand %s: %w", *path, err)
		}
		*path = expanded
	}

	return &cfg, nil
}
