package tetris

// copyRows returns a new grid sharing every row with g except the rows in
// [from, to), which are copied so the caller may write into them.
func copyRows(g Grid, from, to int) Grid {
	next := make(Grid, len(g))
	copy(next, g)
	for y := max(from, 0); y < min(to, len(g)); y++ {
		next[y] = append([]Cell(nil), g[y]...)
	}
	return next
}

// StampShape fills the cells under the occupied shape cells with color.
func StampShape(grid Grid, gridX, gridY int, shape Shape, color Color) Grid {
	next := copyRows(grid, gridY, gridY+shape.Rows())
	for r, row := range shape {
		y := gridY + r
		if y < 0 {
			continue
		}
		for c, v := range row {
			if v == 0 {
				continue
			}
			x := gridX + c
			assertInBounds(next, x, y)
			next[y][x] = Cell{Color: color, Value: 1}
		}
	}
	return next
}

// BombRadius is the Chebyshev distance cleared around a settled bomb.
const BombRadius = 1

// StampBomb empties every cell within [BombRadius] of (gridX, gridY),
// leaving the bomb's color behind on the cleared cells.
func StampBomb(grid Grid, gridX, gridY int, color Color) Grid {
	next := copyRows(grid, gridY-BombRadius, gridY+BombRadius+1)
	for dy := -BombRadius; dy <= BombRadius; dy++ {
		for dx := -BombRadius; dx <= BombRadius; dx++ {
			x, y := gridX+dx, gridY+dy
			if next.inBounds(x, y) {
				next[y][x] = Cell{Color: color, Value: 0}
			}
		}
	}
	return next
}

// ClearFilledRowsAndScore drops every filled row and pads the top with empty
// rows, so the grid keeps its height. points is the number of rows removed.
func ClearFilledRowsAndScore(grid Grid) (Grid, int) {
	kept := make(Grid, 0, len(grid))
	for _, row := range grid {
		if !IsRowFilled(row) {
			kept = append(kept, row)
		}
	}
	points := len(grid) - len(kept)
	if points == 0 {
		return grid, 0
	}
	next := make(Grid, 0, len(grid))
	for range points {
		next = append(next, emptyRow())
	}
	return append(next, kept...), points
}

// FindDropY lowers the piece one block at a time until the next step would
// be invalid and returns the grid row of the last valid position. The loop is
// bounded because IsValidPosition rejects anything past the canvas floor.
func FindDropY(grid Grid, x, y int, shape Shape) int {
	for IsValidPosition(x, y+BlockHeight, shape, grid) {
		y += BlockHeight
	}
	return ToGridIndex(y, BlockHeight)
}
