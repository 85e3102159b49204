package tetris

// IsOffScreen checks the left, right and bottom edges of the canvas. The top
// edge is deliberately open: a piece may sit above the visible area.
func IsOffScreen(x, y, width, height int) bool {
	return x < 0 || x+width > CanvasWidth || y+height > CanvasHeight
}

// ToGridIndex converts a block-aligned pixel coordinate to a grid index.
func ToGridIndex(pixel, blockSize int) int {
	return pixel / blockSize
}

// ShapeOverlapsGrid reports whether any occupied cell of shape placed at
// (gridX, gridY) lands on an occupied grid cell. Shape rows above the grid
// never overlap; any other cell outside the grid panics with
// [AssertionError], so callers should go through [IsValidPosition].
func ShapeOverlapsGrid(shape Shape, grid Grid, gridX, gridY int) bool {
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
			assertInBounds(grid, x, y)
			if grid[y][x].Occupied() {
				return true
			}
		}
	}
	return false
}

// IsValidPosition is the placement predicate behind every move, rotation,
// drop and tick decision.
func IsValidPosition(x, y int, shape Shape, grid Grid) bool {
	if shape.Empty() {
		return false
	}
	width := shape.Cols() * BlockWidth
	height := shape.Rows() * BlockHeight
	if IsOffScreen(x, y, width, height) {
		return false
	}
	return !ShapeOverlapsGrid(
		shape, grid, ToGridIndex(x, BlockWidth), ToGridIndex(y, BlockHeight),
	)
}

func IsRowFilled(row []Cell) bool {
	for _, cell := range row {
		if !cell.Occupied() {
			return false
		}
	}
	return true
}
