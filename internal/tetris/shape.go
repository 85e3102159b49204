package tetris

import "fmt"

// Shape is a 0/1 occupancy matrix relative to the piece's top-left corner.
// Every row of a non-empty shape has the same length.
type Shape [][]int

func (s Shape) Rows() int {
	return len(s)
}

func (s Shape) Cols() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Empty reports whether the shape can never be placed: no rows, or an empty
// first row.
func (s Shape) Empty() bool {
	return len(s) == 0 || len(s[0]) == 0
}

func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for r := range s {
		if len(s[r]) != len(o[r]) {
			return false
		}
		for c := range s[r] {
			if s[r][c] != o[r][c] {
				return false
			}
		}
	}
	return true
}

// RotateClockwise returns a new R x C -> C x R matrix with
// result[c][R-1-r] = s[r][c].
func RotateClockwise(s Shape) Shape {
	rows, cols := s.Rows(), s.Cols()
	rotated := make(Shape, cols)
	for c := range rotated {
		rotated[c] = make([]int, rows)
	}
	for r := range rows {
		for c := range cols {
			rotated[c][rows-1-r] = s[r][c]
		}
	}
	return rotated
}

type Kind int8

// Order matters: the generator picks kinds by index.
const (
	Cube Kind = iota
	Line
	Tee
	L
	ReverseL
	Z
	ReverseZ
	Bomb
	Null
)

const generatedKinds = 8

type kindInfo struct {
	name   string
	shape  Shape
	color  Color
	spawnX int // in columns
}

var kinds = [...]kindInfo{
	Cube: {"cube", Shape{
		{1, 1},
		{1, 1},
	}, Yellow, 4},
	Line: {"line", Shape{
		{1, 1, 1, 1},
	}, Cyan, 3},
	Tee: {"tee", Shape{
		{1, 1, 1},
		{0, 1, 0},
	}, Purple, 3},
	L: {"l", Shape{
		{1, 0},
		{1, 0},
		{1, 1},
	}, Orange, 4},
	ReverseL: {"reverse-l", Shape{
		{0, 1},
		{0, 1},
		{1, 1},
	}, Blue, 4},
	Z: {"z", Shape{
		{1, 1, 0},
		{0, 1, 1},
	}, Red, 3},
	ReverseZ: {"reverse-z", Shape{
		{0, 1, 1},
		{1, 1, 0},
	}, Green, 3},
	Bomb: {"bomb", Shape{
		{1},
	}, Black, 4},
	Null: {"null", Shape{}, None, 0},
}

func (k Kind) valid() bool {
	return 0 <= k && int(k) < len(kinds)
}

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("kind(%d)", k)
	}
	return kinds[k].name
}

// [Kind] implements [encoding.TextMarshaler]
func (k Kind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("invalid kind %d", k)
	}
	return []byte(kinds[k].name), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for i, info := range kinds {
		if info.name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", text)
}

// Shape returns a fresh copy of the kind's spawn orientation. Unknown kinds
// have an empty shape, which is never a valid position.
func (k Kind) Shape() Shape {
	if !k.valid() {
		return Shape{}
	}
	src := kinds[k].shape
	shape := make(Shape, len(src))
	for r := range src {
		shape[r] = append([]int(nil), src[r]...)
	}
	return shape
}

func (k Kind) Color() Color {
	if !k.valid() {
		return None
	}
	return kinds[k].color
}
