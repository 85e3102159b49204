package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vancomm/bombtris-server/internal/session"
	"github.com/vancomm/bombtris-server/internal/tetris"
)

type stateMsg tetris.State

type sessionDoneMsg struct{}

type sendErrMsg struct{ err error }

var palette = map[tetris.Color]lipgloss.Color{
	tetris.Yellow: lipgloss.Color("11"),
	tetris.Cyan:   lipgloss.Color("14"),
	tetris.Purple: lipgloss.Color("13"),
	tetris.Orange: lipgloss.Color("208"),
	tetris.Blue:   lipgloss.Color("12"),
	tetris.Red:    lipgloss.Color("9"),
	tetris.Green:  lipgloss.Color("10"),
	tetris.Black:  lipgloss.Color("240"),
}

var (
	boardStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8"))
	panelStyle = lipgloss.NewStyle().PaddingLeft(2)
	titleStyle = lipgloss.NewStyle().Bold(true)
	emptyStyle = lipgloss.NewStyle().Faint(true)
	overStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

const (
	emptyCell  = " ."
	filledCell = "  "
)

type model struct {
	ctx     context.Context
	session *session.Session
	state   tetris.State
	err     error
}

func newModel(ctx context.Context, s *session.Session) model {
	return model{ctx: ctx, session: s, state: s.State()}
}

func waitForState(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		select {
		case state := <-s.States():
			return stateMsg(state)
		case <-s.Done():
			return sessionDoneMsg{}
		}
	}
}

func (m model) send(e tetris.Event) tea.Cmd {
	return func() tea.Msg {
		if err := m.session.Send(m.ctx, e); err != nil {
			return sendErrMsg{err}
		}
		return nil
	}
}

// eventForKey maps a key to an event. Once the game has ended space starts a
// new one.
func eventForKey(key string, ended bool) (tetris.Event, bool) {
	if ended && key == " " {
		return tetris.RestartEvent(), true
	}
	switch key {
	case "left", "h", "a":
		return tetris.MoveLeft(), true
	case "right", "l", "d":
		return tetris.MoveRight(), true
	case "down", "j", "s":
		return tetris.MoveDown(), true
	case "up", "k", "w", "x":
		return tetris.RotateEvent(), true
	case " ", "enter":
		return tetris.DropEvent(), true
	case "r":
		return tetris.RestartEvent(), true
	}
	return tetris.Event{}, false
}

func (m model) Init() tea.Cmd {
	return waitForState(m.session)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.state = tetris.State(msg)
		return m, waitForState(m.session)
	case sessionDoneMsg:
		return m, tea.Quit
	case sendErrMsg:
		m.err = msg.err
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.session.Close()
			return m, tea.Quit
		}
		if e, ok := eventForKey(msg.String(), m.state.GameEnd); ok {
			return m, m.send(e)
		}
	}
	return m, nil
}

func renderCell(c tetris.Cell) string {
	if !c.Occupied() {
		return emptyStyle.Render(emptyCell)
	}
	return lipgloss.NewStyle().Background(palette[c.Color]).Render(filledCell)
}

func renderGrid(g tetris.Grid) string {
	rows := make([]string, len(g))
	for y, row := range g {
		var b strings.Builder
		for _, cell := range row {
			b.WriteString(renderCell(cell))
		}
		rows[y] = b.String()
	}
	return strings.Join(rows, "\n")
}

func renderPiece(p tetris.Tetromino) string {
	if p.Shape.Empty() {
		return ""
	}
	rows := make([]string, p.Shape.Rows())
	for y, line := range p.Shape {
		var b strings.Builder
		for _, v := range line {
			if v == 0 {
				b.WriteString(filledCell)
				continue
			}
			b.WriteString(renderCell(tetris.Cell{Color: p.Color, Value: uint8(v)}))
		}
		rows[y] = b.String()
	}
	return strings.Join(rows, "\n")
}

func (m model) View() string {
	board := boardStyle.Render(renderGrid(m.state.Board()))

	lines := []string{
		titleStyle.Render("BOMBTRIS"),
		"",
		fmt.Sprintf("Score  %d", m.state.Score),
		fmt.Sprintf("Level  %d", m.state.Level),
		fmt.Sprintf("High   %d", m.state.HighScore),
		"",
		"Next",
		renderPiece(m.state.Next),
		"",
	}
	if m.state.GameEnd {
		lines = append(lines, overStyle.Render("GAME OVER"), "")
	}
	if m.err != nil {
		lines = append(lines, m.err.Error(), "")
	}
	lines = append(lines, helpStyle.Render("←→↓ move  ↑ rotate\nspace drop  r restart\nq quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, board, panelStyle.Render(strings.Join(lines, "\n")))
}
