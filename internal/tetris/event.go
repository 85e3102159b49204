package tetris

import (
	"fmt"
	"strings"
)

type EventKind int8

const (
	Move EventKind = iota
	Rotate
	Drop
	Tick
	Restart
)

var eventKindNames = [...]string{
	Move:    "move",
	Rotate:  "rotate",
	Drop:    "drop",
	Tick:    "tick",
	Restart: "restart",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return fmt.Sprintf("event(%d)", k)
	}
	return eventKindNames[k]
}

// Event is an input to [Reduce]. DX and DY are pixel offsets and only
// meaningful for [Move].
type Event struct {
	Kind EventKind
	DX   int
	DY   int
}

func (e Event) String() string {
	if e.Kind == Move {
		return fmt.Sprintf("move(%d,%d)", e.DX, e.DY)
	}
	return e.Kind.String()
}

func MoveLeft() Event     { return Event{Kind: Move, DX: -BlockWidth} }
func MoveRight() Event    { return Event{Kind: Move, DX: BlockWidth} }
func MoveDown() Event     { return Event{Kind: Move, DY: BlockHeight} }
func RotateEvent() Event  { return Event{Kind: Rotate} }
func DropEvent() Event    { return Event{Kind: Drop} }
func TickEvent() Event    { return Event{Kind: Tick} }
func RestartEvent() Event { return Event{Kind: Restart} }

var commands = map[string]func() Event{
	"left":    MoveLeft,
	"right":   MoveRight,
	"down":    MoveDown,
	"rotate":  RotateEvent,
	"drop":    DropEvent,
	"restart": RestartEvent,
	"tick":    TickEvent,
}

// ParseEvent maps a command word, as sent by renderers, to an event.
func ParseEvent(command string) (Event, error) {
	newEvent, ok := commands[strings.ToLower(strings.TrimSpace(command))]
	if !ok {
		return Event{}, fmt.Errorf("unknown command %q", command)
	}
	return newEvent(), nil
}
