package main

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/bombtris-server/internal/session"
	"github.com/vancomm/bombtris-server/internal/tetris"
)

type stillTicker struct{}

func (stillTicker) C() <-chan time.Time { return nil }

func (stillTicker) SetPeriod(time.Duration) {}

func (stillTicker) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func runningModel(t *testing.T, opts ...session.Option) model {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	s := session.New(append([]session.Option{session.WithTicker(stillTicker{})}, opts...)...)
	go s.Run(ctx)
	t.Cleanup(s.Close)
	return newModel(ctx, s)
}

func TestEventForKey(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		ended bool
		want  tetris.Event
	}{
		{"left", "left", false, tetris.MoveLeft()},
		{"h", "h", false, tetris.MoveLeft()},
		{"right", "right", false, tetris.MoveRight()},
		{"down", "down", false, tetris.MoveDown()},
		{"up", "up", false, tetris.RotateEvent()},
		{"x", "x", false, tetris.RotateEvent()},
		{"space drops", " ", false, tetris.DropEvent()},
		{"space restarts", " ", true, tetris.RestartEvent()},
		{"r", "r", false, tetris.RestartEvent()},
		{"r when ended", "r", true, tetris.RestartEvent()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := eventForKey(tt.key, tt.ended)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := eventForKey("z", false)
	assert.False(t, ok)
}

func TestModelFollowsSession(t *testing.T) {
	m := runningModel(t)

	msg := m.Init()()
	require.IsType(t, stateMsg{}, msg)
	updated, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	m = updated.(model)
	assert.Equal(t, tetris.InitialState(), m.state)

	_, send := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	require.NotNil(t, send)
	assert.Nil(t, send())

	next := cmd()
	require.IsType(t, stateMsg{}, next)
	updated, _ = m.Update(next)
	m = updated.(model)
	assert.Equal(t, tetris.Reduce(tetris.InitialState(), tetris.DropEvent()), m.state)
}

func TestModelQuits(t *testing.T) {
	m := runningModel(t)
	require.IsType(t, stateMsg{}, m.Init()())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	select {
	case <-m.session.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("session still running")
	}
	assert.Equal(t, sessionDoneMsg{}, waitForState(m.session)())
}

func TestModelView(t *testing.T) {
	m := runningModel(t)
	state := tetris.InitialState()
	state.Score = 7
	state.Level = 2
	m.state = state

	view := m.View()
	assert.Contains(t, view, "BOMBTRIS")
	assert.Contains(t, view, "Score  7")
	assert.Contains(t, view, "Level  2")
	assert.NotContains(t, view, "GAME OVER")

	m.state.GameEnd = true
	assert.Contains(t, m.View(), "GAME OVER")
}

func TestModelRestartsOnSpace(t *testing.T) {
	ended := tetris.InitialState()
	ended.GameEnd = true
	ended.Score = 4
	ended.HighScore = 4

	m := runningModel(t, session.WithState(ended))
	updated, _ := m.Update(m.Init()())
	m = updated.(model)
	require.True(t, m.state.GameEnd)

	_, send := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	require.NotNil(t, send)
	assert.Nil(t, send())

	msg := waitForState(m.session)()
	require.IsType(t, stateMsg{}, msg)
	restarted := tetris.State(msg.(stateMsg))
	assert.False(t, restarted.GameEnd)
	assert.Zero(t, restarted.Score)
	assert.Equal(t, 4, restarted.HighScore)
}
