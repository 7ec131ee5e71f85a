package appearance

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lucax88x/wentspaces/internal/command"
)

const darkStyle = "Dark"

// Detector reads the system appearance from the global defaults domain.
type Detector struct {
	logger  *slog.Logger
	command command.Runner
}

func NewDetector(logger *slog.Logger, command command.Runner) *Detector {
	return &Detector{logger, command}
}

// DarkMode is false when the key is absent, which is how light mode is
// stored.
func (d *Detector) DarkMode(ctx context.Context) bool {
	out, err := d.command.Run(ctx, "defaults", "read", "-g", "AppleInterfaceStyle")
	if err != nil {
		d.logger.DebugContext(ctx, "appearance: no interface style, assuming light", slog.Any("error", err))
		return false
	}

	return strings.EqualFold(strings.TrimSpace(out), darkStyle)
}
