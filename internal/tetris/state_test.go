package tetris

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLevelAndTickRate(t *testing.T) {
	tests := []struct {
		score, points int
		level, rate   int
	}{
		{0, 0, 1, 570},
		{3, 1, 1, 570},
		{4, 1, 2, 540},
		{9, 2, 3, 510},
		{69, 1, 15, 150},
		{1000, 4, 15, 150},
	}

	for _, test := range tests {
		level, rate := ComputeLevelAndTickRate(test.score, test.points)
		assert.Equal(t, test.level, level, "score %d + %d", test.score, test.points)
		assert.Equal(t, test.rate, rate, "score %d + %d", test.score, test.points)
	}
}

func TestLevelNeverExceedsMax(t *testing.T) {
	prevRate := TickRate(0)
	for score := 0; score < 500; score++ {
		level, rate := ComputeLevelAndTickRate(score, score%5)
		assert.GreaterOrEqual(t, level, 1)
		assert.LessOrEqual(t, level, MaxLevel)
		assert.Positive(t, rate)
	}
	for level := 1; level <= MaxLevel; level++ {
		rate := TickRate(level)
		assert.Less(t, rate, prevRate, "level %d", level)
		prevRate = rate
	}
}

func TestInitialState(t *testing.T) {
	s := InitialState()

	assert.False(t, s.GameEnd)
	assert.Equal(t, NextPiece(1), s.Current)
	assert.Equal(t, NextPiece(2), s.Next)
	assert.Equal(t, EmptyGrid(), s.Grid)
	assert.Zero(t, s.Score)
	assert.Zero(t, s.HighScore)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, BaseTickRateMs-TickRateStepMs, s.TickRate)
	assert.Equal(t, 570*time.Millisecond, s.TickInterval())
}

func TestStateBytes(t *testing.T) {
	s := Reduce(Reduce(InitialState(), DropEvent()), TickEvent())

	b, err := s.Bytes()
	require.NoError(t, err)

	decoded, err := DecodeState(b)
	require.NoError(t, err)
	assert.Equal(t, s, *decoded)
}

func TestDecodeStateGarbage(t *testing.T) {
	_, err := DecodeState([]byte("not a state"))
	assert.Error(t, err)
}

func TestStateJSON(t *testing.T) {
	b, err := json.Marshal(InitialState())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(b, &fields))
	assert.Equal(t, false, fields["game_end"])
	assert.Equal(t, float64(570), fields["tick_rate"])

	current, ok := fields["current_tetromino"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, NextPiece(1).Kind.String(), current["type"])
	assert.Equal(t, NextPiece(1).Color.String(), current["color"])
}

func TestBoardDrawsCurrentPiece(t *testing.T) {
	s := InitialState()
	board := s.Board()

	cur := s.Current
	x, y := ToGridIndex(cur.X, BlockWidth), ToGridIndex(cur.Y, BlockHeight)
	for r, row := range cur.Shape {
		for c, v := range row {
			assert.Equal(t, v == 1, board[y+r][x+c].Occupied())
		}
	}
	assert.Equal(t, EmptyGrid(), s.Grid)
}
