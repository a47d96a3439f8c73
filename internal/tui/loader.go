package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

// ErrCancelled is returned when the user interrupts a running batch.
var ErrCancelled = errors.New("cancelled")

type workDoneMsg struct {
	err error
}

type spinnerTickMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

type loaderModel struct {
	label  string
	ctx    context.Context
	cancel context.CancelFunc
	workFn func(ctx context.Context) error
	frame  int
	err    error
	done   bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doWork(), tick())
}

func (m loaderModel) doWork() tea.Cmd {
	ctx, workFn := m.ctx, m.workFn
	return func() tea.Msg {
		return workDoneMsg{err: workFn(ctx)}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workDoneMsg:
		if m.err == nil {
			m.err = msg.err
		}
		m.done = true
		return m, tea.Quit
	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s...\n", spinnerStyle.Render(spinnerFrames[m.frame]), m.label)
}

// RunLoader shows a spinner labelled label while workFn runs. It renders
// inline (no alt screen). ctrl+c cancels the context passed to workFn.
func RunLoader(ctx context.Context, label string, workFn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := loaderModel{
		label:  label,
		ctx:    ctx,
		cancel: cancel,
		workFn: workFn,
	}
	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	return result.(loaderModel).err
}
