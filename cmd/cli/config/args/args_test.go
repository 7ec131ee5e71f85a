package args_test

import (
	"testing"

	"github.com/lucax88x/wentspaces/cmd/cli/config/args"
	"github.com/lucax88x/wentspaces/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMessage(t *testing.T) {
	tests := []struct {
		msg      string
		expected args.In
	}{
		{msg: "space_change", expected: args.In{Event: "space_change"}},
		{msg: "  refresh \n", expected: args.In{Event: "refresh"}},
		{msg: `mouse_clicked {"x": 12}`, expected: args.In{Event: "mouse_clicked", Info: `{"x": 12}`}},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			in, err := args.FromMessage(tt.msg)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, *in)
		})
	}
}

func TestFromMessage_Empty(t *testing.T) {
	_, err := args.FromMessage("  ")

	require.Error(t, err)
}

func TestMessage(t *testing.T) {
	x := 30.5

	plain, err := args.Message(events.SpaceChange, nil)
	require.NoError(t, err)
	assert.Equal(t, "space_change", plain)

	click, err := args.Message(events.MouseClicked, events.MouseClickedEventInfo{X: &x})
	require.NoError(t, err)
	assert.Equal(t, `mouse_clicked {"x":30.5}`, click)
}

func TestBuildHook(t *testing.T) {
	hook, err := args.BuildHook(events.SpaceChange, "/tmp/wentspaces")

	require.NoError(t, err)
	assert.Equal(t, `[[ -p /tmp/wentspaces ]] && echo "space_change ¬" >> /tmp/wentspaces`, hook)

	_, err = args.BuildHook("workspace_change", "/tmp/wentspaces")
	require.Error(t, err)
}
