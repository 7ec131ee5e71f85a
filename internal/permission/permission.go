package permission

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lucax88x/wentspaces/internal/command"
)

// Checker asks System Events whether assistive access is granted, which is
// what posting synthetic key presses needs.
type Checker struct {
	logger  *slog.Logger
	command command.Runner
}

func NewChecker(logger *slog.Logger, command command.Runner) *Checker {
	return &Checker{logger, command}
}

func (c *Checker) Trusted(ctx context.Context) bool {
	out, err := c.command.Run(ctx, "osascript", "-e", `tell application "System Events" to get UI elements enabled`)
	if err != nil {
		c.logger.WarnContext(ctx, "permission: could not check accessibility", slog.Any("error", err))
		return false
	}

	return strings.TrimSpace(out) == "true"
}
