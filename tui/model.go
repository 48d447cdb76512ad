package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"takt/sampler"
)

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#d664a8"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#5f5a72"))
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e8506c"))
	playheadStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f5f0e8"))
)

// Model is a terminal mirror of the pad grid: rows are sample slots,
// columns are steps, with cursor editing on the keyboard.
type Model struct {
	smp      *sampler.Sampler
	updates  <-chan struct{}
	cursorR  int
	cursorS  int
	quitting bool
}

type updateMsg struct{}

func NewModel(smp *sampler.Sampler, updates <-chan struct{}) Model {
	return Model{smp: smp, updates: updates}
}

func listenForUpdates(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-updates
		return updateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.smp.Stop()
			return m, tea.Quit

		case "p":
			if m.smp.Playing() {
				m.smp.Stop()
			} else {
				m.smp.Start()
			}

		case "h", "left":
			if m.cursorS > 0 {
				m.cursorS--
			}
		case "l", "right":
			if m.cursorS < m.smp.Steps()-1 {
				m.cursorS++
			}
		case "k", "up":
			if m.cursorR > 0 {
				m.cursorR--
			}
		case "j", "down":
			if m.cursorR < m.smp.Samples()-1 {
				m.cursorR++
			}
		case " ":
			m.smp.Toggle(m.cursorR, m.cursorS)
		}

	case updateMsg:
		return m, listenForUpdates(m.updates)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	playState := "STOP"
	if m.smp.Playing() {
		playState = "PLAY"
	}
	pos := m.smp.Pos()

	header := headerStyle.Render(fmt.Sprintf("takt  %s  step:%02d", playState, pos))

	var grid strings.Builder
	for row := 0; row < m.smp.Samples(); row++ {
		grid.WriteString(fmt.Sprintf("%2d ", row+1))
		for step := 0; step < m.smp.Steps(); step++ {
			isCursor := row == m.cursorR && step == m.cursorS

			var char string
			var style lipgloss.Style
			switch {
			case m.smp.Playing() && step == pos:
				style = playheadStyle
				if isCursor {
					char = "▷"
				} else {
					char = "▶"
				}
			case m.smp.IsOn(row, step):
				style = activeStyle
				if isCursor {
					char = "◉"
				} else {
					char = "●"
				}
			default:
				style = dimStyle
				if isCursor {
					char = "○"
				} else {
					char = "·"
				}
			}
			grid.WriteString(style.Render(char))
		}
		grid.WriteString("\n")
	}

	help := dimStyle.Render("hjkl:nav  space:toggle  p:play  q:quit")

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(grid.String())
	out.WriteString("\n")
	out.WriteString(help)
	return out.String()
}
