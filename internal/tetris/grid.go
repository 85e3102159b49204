package tetris

import (
	"fmt"
	"strings"
)

const (
	CanvasWidth  = 200
	CanvasHeight = 400

	Columns = 10
	Rows    = 20

	BlockWidth  = CanvasWidth / Columns
	BlockHeight = CanvasHeight / Rows
)

type Color int8

const (
	None Color = iota
	Yellow
	Cyan
	Purple
	Orange
	Blue
	Red
	Green
	Black
)

var colorNames = [...]string{
	None:   "none",
	Yellow: "yellow",
	Cyan:   "cyan",
	Purple: "purple",
	Orange: "orange",
	Blue:   "blue",
	Red:    "red",
	Green:  "green",
	Black:  "black",
}

func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return "unknown"
	}
	return colorNames[c]
}

// [Color] implements [encoding.TextMarshaler]
func (c Color) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= len(colorNames) {
		return nil, fmt.Errorf("invalid color %d", c)
	}
	return []byte(colorNames[c]), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	for i, name := range colorNames {
		if name == string(text) {
			*c = Color(i)
			return nil
		}
	}
	return fmt.Errorf("unknown color %q", text)
}

type Cell struct {
	Color Color `json:"color"`
	Value uint8 `json:"value"`
}

func (c Cell) Occupied() bool {
	return c.Value != 0
}

// Grid is indexed as grid[row][column], row 0 being the top of the canvas.
// A grid is never modified in place: every mutator returns a new one, and
// rows a mutator did not touch may be shared with its input.
type Grid [][]Cell

func emptyRow() []Cell {
	return make([]Cell, Columns)
}

func EmptyGrid() Grid {
	grid := make(Grid, Rows)
	for y := range grid {
		grid[y] = emptyRow()
	}
	return grid
}

func (g Grid) inBounds(x, y int) bool {
	return 0 <= y && y < len(g) && 0 <= x && x < len(g[y])
}

func (g Grid) String() string {
	var b strings.Builder
	for _, row := range g {
		for _, cell := range row {
			if cell.Occupied() {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
