package args

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lucax88x/wentspaces/internal/events"
	"github.com/lucax88x/wentspaces/internal/fifo"
)

// In is one hook message, "<event> [json info]".
type In struct {
	Event string
	Info  string // raw json, may be empty
}

func FromMessage(msg string) (*In, error) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return nil, errors.New("args: empty message")
	}

	event, info, _ := strings.Cut(msg, " ")

	return &In{
		Event: event,
		Info:  strings.TrimSpace(info),
	}, nil
}

// Message serializes a hook message, info is marshalled to json when not nil.
func Message(event string, info any) (string, error) {
	if info == nil {
		return event, nil
	}

	bytes, err := json.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("args: could not serialize info: %w", err)
	}

	return event + " " + string(bytes), nil
}

// BuildHook returns a shell line that reports event to a running instance,
// to be pasted in the hooks of other tools (yabai signals, skhd, launchd).
func BuildHook(event string, fifoPath string) (string, error) {
	if !slices.Contains(events.All(), event) {
		return "", fmt.Errorf("args: unknown event %q", event)
	}

	return fmt.Sprintf(
		`[[ -p %s ]] && echo "%s %c" >> %s`,
		fifoPath,
		event,
		fifo.Separator,
		fifoPath,
	), nil
}
