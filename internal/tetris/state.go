package tetris

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"
)

const (
	BaseTickRateMs = 600
	TickRateStepMs = 30
	MaxLevel       = 15
	PointsPerLevel = 5
)

// Tetromino is a piece instance in pixel coordinates.
type Tetromino struct {
	ID    int   `json:"id"`
	Kind  Kind  `json:"type"`
	Shape Shape `json:"shape"`
	Color Color `json:"color"`
	X     int   `json:"x"`
	Y     int   `json:"y"`
}

func (t Tetromino) Width() int {
	return t.Shape.Cols() * BlockWidth
}

func (t Tetromino) Height() int {
	return t.Shape.Rows() * BlockHeight
}

func (t Tetromino) moved(dx, dy int) Tetromino {
	t.X += dx
	t.Y += dy
	return t
}

// State is an immutable snapshot of a game. Reduce never writes into an
// existing State, its Grid or its pieces' shapes.
type State struct {
	GameEnd   bool      `json:"game_end"`
	Current   Tetromino `json:"current_tetromino"`
	Next      Tetromino `json:"next_tetromino"`
	Grid      Grid      `json:"grid"`
	Score     int       `json:"score"`
	Level     int       `json:"level"`
	HighScore int       `json:"high_score"`
	TickRate  int       `json:"tick_rate"` // ms
}

func InitialState() State {
	return newGame(0)
}

func newGame(highScore int) State {
	level, tickRate := ComputeLevelAndTickRate(0, 0)
	return State{
		Current:   NextPiece(1),
		Next:      NextPiece(2),
		Grid:      EmptyGrid(),
		Level:     level,
		HighScore: highScore,
		TickRate:  tickRate,
	}
}

// ComputeLevelAndTickRate derives the level reached once newPoints are added
// to score, and the tick period that goes with it.
func ComputeLevelAndTickRate(score, newPoints int) (level int, tickRateMs int) {
	level = min((score+newPoints)/PointsPerLevel+1, MaxLevel)
	return level, TickRate(level)
}

func TickRate(level int) int {
	return BaseTickRateMs - TickRateStepMs*level
}

func (s State) TickInterval() time.Duration {
	return time.Duration(s.TickRate) * time.Millisecond
}

func (s State) Playing() bool {
	return !s.GameEnd
}

// Board returns the grid with the current piece drawn on top of it.
func (s State) Board() Grid {
	if s.GameEnd || !IsValidPosition(s.Current.X, s.Current.Y, s.Current.Shape, s.Grid) {
		return s.Grid
	}
	return StampShape(
		s.Grid,
		ToGridIndex(s.Current.X, BlockWidth),
		ToGridIndex(s.Current.Y, BlockHeight),
		s.Current.Shape,
		s.Current.Color,
	)
}

func (s State) String() string {
	status := "playing"
	if s.GameEnd {
		status = "ended"
	}
	return fmt.Sprintf(
		"%s score=%d level=%d high=%d tick=%dms current=%s#%d next=%s#%d\n%s",
		status, s.Score, s.Level, s.HighScore, s.TickRate,
		s.Current.Kind, s.Current.ID, s.Next.Kind, s.Next.ID,
		s.Board(),
	)
}

func DecodeState(buf []byte) (*State, error) {
	var state State
	err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&state)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s State) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(s)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
