package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	tests := []struct {
		command string
		want    Event
	}{
		{"left", Event{Kind: Move, DX: -BlockWidth}},
		{"right", Event{Kind: Move, DX: BlockWidth}},
		{"down", Event{Kind: Move, DY: BlockHeight}},
		{"rotate", Event{Kind: Rotate}},
		{"drop", Event{Kind: Drop}},
		{"tick", Event{Kind: Tick}},
		{"restart", Event{Kind: Restart}},
		{"  Left\r", Event{Kind: Move, DX: -BlockWidth}},
		{"DROP", Event{Kind: Drop}},
	}

	for _, test := range tests {
		t.Run(test.command, func(t *testing.T) {
			got, err := ParseEvent(test.command)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestParseEventUnknown(t *testing.T) {
	for _, command := range []string{"", "up", "hold", "left right"} {
		_, err := ParseEvent(command)
		assert.Error(t, err, "command %q", command)
	}
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "move(-20,0)", MoveLeft().String())
	assert.Equal(t, "drop", DropEvent().String())
	assert.Equal(t, "event(9)", EventKind(9).String())
}
