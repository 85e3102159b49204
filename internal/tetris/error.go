package tetris

import "fmt"

// AssertionError is raised (as a panic value) when a caller touches grid
// cells outside the fixed 20x10 bounds without validating the position first.
type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}

func assertInBounds(g Grid, x, y int) {
	if !g.inBounds(x, y) {
		panic(AssertionError{fmt.Sprintf("cell %d:%d is outside the grid", x, y)})
	}
}
