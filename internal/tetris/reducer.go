package tetris

// Reduce applies one input event to s and returns the resulting state. It is
// pure: s is left untouched and equal inputs always give equal outputs.
func Reduce(s State, e Event) State {
	if s.GameEnd {
		if e.Kind == Restart {
			return newGame(s.HighScore)
		}
		return s
	}
	switch e.Kind {
	case Move:
		return move(s, e.DX, e.DY)
	case Rotate:
		return rotate(s)
	case Drop:
		return drop(s)
	case Tick:
		return tick(s)
	}
	return s
}

// move translates the current piece when the target is free. A blocked
// straight-down nudge settles the piece like a tick would; a blocked sideways
// move is ignored.
func move(s State, dx, dy int) State {
	cur := s.Current
	if IsValidPosition(cur.X+dx, cur.Y+dy, cur.Shape, s.Grid) {
		s.Current = cur.moved(dx, dy)
		return s
	}
	if dx == 0 {
		return tick(s)
	}
	return s
}

func rotate(s State) State {
	cur := s.Current
	rotated := RotateClockwise(cur.Shape)
	if !IsValidPosition(cur.X, cur.Y, rotated, s.Grid) {
		return s
	}
	cur.Shape = rotated
	s.Current = cur
	return s
}

func drop(s State) State {
	cur := s.Current
	return settle(s, FindDropY(s.Grid, cur.X, cur.Y, cur.Shape))
}

func tick(s State) State {
	cur := s.Current
	if !IsValidPosition(cur.X, cur.Y, cur.Shape, s.Grid) {
		return endGame(s)
	}
	if !IsValidPosition(cur.X, cur.Y+BlockHeight, cur.Shape, s.Grid) {
		return settle(s, ToGridIndex(cur.Y, BlockHeight))
	}
	s.Current = cur.moved(0, BlockHeight)
	return s
}

// settle locks the current piece at gridY, clears rows and promotes the next
// piece. Drop and Tick both end up here.
func settle(s State, gridY int) State {
	cur := s.Current
	gridX := ToGridIndex(cur.X, BlockWidth)

	var grid Grid
	if cur.Kind == Bomb {
		grid = StampBomb(s.Grid, gridX, gridY, cur.Color)
	} else {
		grid = StampShape(s.Grid, gridX, gridY, cur.Shape, cur.Color)
	}
	grid, points := ClearFilledRowsAndScore(grid)

	level, tickRate := ComputeLevelAndTickRate(s.Score, points)
	s.Grid = grid
	s.Score += points
	s.Level = level
	s.TickRate = tickRate
	s.HighScore = max(s.HighScore, s.Score)
	s.Current = s.Next
	s.Next = NextPiece(s.Next.ID + 1)
	return s
}

func endGame(s State) State {
	cur := s.Current
	s.Grid = StampShape(
		s.Grid,
		ToGridIndex(cur.X, BlockWidth),
		ToGridIndex(cur.Y, BlockHeight),
		cur.Shape,
		cur.Color,
	)
	s.Current = NullPiece(cur.ID)
	s.Next = NullPiece(s.Next.ID)
	s.GameEnd = true
	s.HighScore = max(s.HighScore, s.Score)
	return s
}
