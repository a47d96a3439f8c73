package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/synergy/internal/store"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

// Picker results besides an index into the session list.
const (
	PickNew  = -1
	PickQuit = -2
)

type pickerModel struct {
	sessions []store.SessionInfo
	cursor   int // 0 = new session, i+1 = sessions[i]
	chosen   int
	decided  bool
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.chosen = PickQuit
			m.decided = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.sessions) {
				m.cursor++
			}
		case "enter":
			m.chosen = m.cursor - 1
			m.decided = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	s := pickerTitleStyle.Render("Synergy: select a session")
	s += "\n"

	labels := []string{"+ new session"}
	for _, info := range m.sessions {
		labels = append(labels, fmt.Sprintf("%s  %s  (%d rows)",
			info.ID[:min(8, len(info.ID))], info.CreatedAt.Format("2006-01-02 15:04"), info.Rows))
	}
	for i, label := range labels {
		if i == m.cursor {
			s += pickerSelectedStyle.Render("> "+label) + "\n"
		} else {
			s += pickerItemStyle.Render(label) + "\n"
		}
	}

	s += pickerHintStyle.Render("↑/↓/j/k navigate  enter select  q quit")
	return s
}

// RunSessionPicker lets the user resume a stored session or start a new one.
// It returns an index into sessions, PickNew or PickQuit.
func RunSessionPicker(sessions []store.SessionInfo) (int, error) {
	if len(sessions) == 0 {
		return PickNew, nil
	}
	m := pickerModel{sessions: sessions}

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return PickQuit, err
	}
	final := result.(pickerModel)
	if !final.decided {
		return PickQuit, nil
	}
	return final.chosen, nil
}
