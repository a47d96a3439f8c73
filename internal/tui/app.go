// Package tui is the interactive terminal front end: an input form, the
// session result table and XLSX export.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/synergy/internal/batch"
	"github.com/amishk599/synergy/internal/model"
	"github.com/amishk599/synergy/internal/session"
	"github.com/amishk599/synergy/internal/sheet"
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")) // dim gray

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	activeHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("39"))

	inactiveHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	companyStyle = lipgloss.NewStyle().
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))
)

// BatchRunner runs one pass over a batch of records.
type BatchRunner interface {
	Process(ctx context.Context, records []model.CompanyRecord, firm string,
		prompt model.PromptConfig, table session.Table) (session.Table, batch.Report, error)
}

// NoticeSource hands over the notices raised during a pass.
type NoticeSource interface {
	Drain() []model.Notice
}

// AppConfig holds what the interactive app needs.
type AppConfig struct {
	Runner        BatchRunner
	Notices       NoticeSource
	Session       *session.Session
	Prompt        model.PromptConfig
	CompaniesPath string
	FirmPath      string
	OutPath       string
}

// Focus slots, in tab order.
const (
	focusRole = iota
	focusTemplate
	focusCompanies
	focusFirm
	focusResults
	focusCount
)

type batchDoneMsg struct {
	table   session.Table
	report  batch.Report
	err     error
	notices []model.Notice
}

type exportDoneMsg struct {
	path string
	rows int
	err  error
}

type appModel struct {
	runner  BatchRunner
	notices NoticeSource
	sess    *session.Session
	outPath string

	role      textinput.Model
	template  textarea.Model
	companies textinput.Model
	firm      textinput.Model
	results   viewport.Model
	focus     int

	width  int
	height int
	ready  bool

	running bool
	frame   int
	cancel  context.CancelFunc

	lastNotices []model.Notice
	status      string
	statusErr   bool
}

func newAppModel(cfg AppConfig) appModel {
	role := textinput.New()
	role.Prompt = ""
	role.Placeholder = "VC analyst"
	role.SetValue(cfg.Prompt.RoleLabel)

	tmpl := textarea.New()
	tmpl.ShowLineNumbers = false
	tmpl.Placeholder = "Prompt with COMPANY_NAME, COMPANY_DESCRIPTION, VC_DESCRIPTION"
	tmpl.CharLimit = 0
	tmpl.SetHeight(6)
	tmpl.SetValue(cfg.Prompt.Template)

	companies := textinput.New()
	companies.Prompt = ""
	companies.Placeholder = "companies.csv or companies.xlsx"
	companies.SetValue(cfg.CompaniesPath)

	firm := textinput.New()
	firm.Prompt = ""
	firm.Placeholder = "firm.txt"
	firm.SetValue(cfg.FirmPath)

	outPath := cfg.OutPath
	if outPath == "" {
		outPath = sheet.ExportFileName
	}

	m := appModel{
		runner:    cfg.Runner,
		notices:   cfg.Notices,
		sess:      cfg.Session,
		outPath:   outPath,
		role:      role,
		template:  tmpl,
		companies: companies,
		firm:      firm,
		results:   viewport.New(40, 10),
	}
	m.role.Focus()
	return m
}

func (m appModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case spinnerTickMsg:
		if !m.running {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, tick()

	case batchDoneMsg:
		return m.finishBatch(msg), nil

	case exportDoneMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("export failed: %v", msg.err), true)
		} else {
			m.setStatus(fmt.Sprintf("exported %d rows to %s", msg.rows, msg.path), false)
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m.forward(msg)
}

func (m appModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	case "tab":
		return m.setFocus((m.focus + 1) % focusCount)
	case "shift+tab":
		return m.setFocus((m.focus + focusCount - 1) % focusCount)
	case "ctrl+r":
		return m.startBatch()
	case "ctrl+s":
		return m, m.exportCmd()
	}

	if m.focus == focusResults {
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		}
	}
	return m.forward(msg)
}

// forward hands msg to the focused widget.
func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusRole:
		m.role, cmd = m.role.Update(msg)
	case focusTemplate:
		m.template, cmd = m.template.Update(msg)
	case focusCompanies:
		m.companies, cmd = m.companies.Update(msg)
	case focusFirm:
		m.firm, cmd = m.firm.Update(msg)
	case focusResults:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

func (m appModel) setFocus(focus int) (tea.Model, tea.Cmd) {
	m.role.Blur()
	m.template.Blur()
	m.companies.Blur()
	m.firm.Blur()

	m.focus = focus
	var cmd tea.Cmd
	switch focus {
	case focusRole:
		cmd = m.role.Focus()
	case focusTemplate:
		cmd = m.template.Focus()
	case focusCompanies:
		cmd = m.companies.Focus()
	case focusFirm:
		cmd = m.firm.Focus()
	}
	return m, cmd
}

func (m appModel) prompt() model.PromptConfig {
	role := strings.TrimSpace(m.role.Value())
	if role == "" {
		role = m.role.Placeholder
	}
	return model.PromptConfig{RoleLabel: role, Template: m.template.Value()}
}

func (m appModel) startBatch() (tea.Model, tea.Cmd) {
	if m.running {
		return m, nil
	}
	companiesPath := strings.TrimSpace(m.companies.Value())
	if companiesPath == "" {
		m.setStatus("set a company file first", true)
		return m, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true
	m.lastNotices = nil
	m.setStatus("", false)

	runner, notices := m.runner, m.notices
	table := m.sess.Table()
	prompt := m.prompt()
	firmPath := strings.TrimSpace(m.firm.Value())

	run := func() tea.Msg {
		records, err := sheet.ReadCompaniesFile(companiesPath)
		if err != nil {
			return batchDoneMsg{table: table, err: err}
		}
		firm, err := sheet.ReadFirmDescriptionFile(firmPath)
		if err != nil {
			return batchDoneMsg{table: table, err: err}
		}
		next, report, err := runner.Process(ctx, records, firm, prompt, table)
		return batchDoneMsg{table: next, report: report, err: err, notices: notices.Drain()}
	}
	return m, tea.Batch(run, tick())
}

func (m appModel) finishBatch(msg batchDoneMsg) appModel {
	m.running = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.lastNotices = msg.notices

	if err := m.sess.Commit(msg.table); err != nil {
		m.setStatus(fmt.Sprintf("saving session: %v", err), true)
		m.recalcContent()
		return m
	}

	switch {
	case msg.err != nil && len(msg.report.Rows) > 0:
		m.setStatus(fmt.Sprintf("batch failed after %d rows (kept): %v", len(msg.report.Rows), msg.err), true)
	case msg.err != nil:
		m.setStatus(fmt.Sprintf("batch failed: %v", msg.err), true)
	default:
		m.setStatus(fmt.Sprintf("generated %d rows, skipped %d", len(msg.report.Rows), len(msg.report.Skipped)), false)
	}
	m.recalcContent()
	m.results.GotoBottom()
	return m
}

func (m appModel) exportCmd() tea.Cmd {
	rows := m.sess.Table().Rows()
	path := m.outPath
	return func() tea.Msg {
		if len(rows) == 0 {
			return exportDoneMsg{path: path, err: fmt.Errorf("no results yet")}
		}
		data, err := sheet.Export(rows)
		if err != nil {
			return exportDoneMsg{path: path, err: err}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return exportDoneMsg{path: path, err: err}
		}
		return exportDoneMsg{path: path, rows: len(rows)}
	}
}

func (m *appModel) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *appModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	paneWidth := max((m.width-5)/2, 30)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 10)

	inputWidth := max(paneWidth-2, 10)
	m.role.Width = inputWidth
	m.companies.Width = inputWidth
	m.firm.Width = inputWidth
	m.template.SetWidth(inputWidth)

	m.results.Width = paneWidth
	m.results.Height = paneHeight
	m.ready = true

	m.recalcContent()
}

func (m *appModel) recalcContent() {
	m.results.SetContent(renderRows(m.sess.Table().Rows(), max(m.results.Width-2, 20)))
}

func (m appModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	paneWidth := m.results.Width
	formActive := m.focus != focusResults

	formHeader, resultsHeader := inactiveHeaderStyle, activeHeaderStyle
	formBorder, resultsBorder := inactiveBorderStyle, activeBorderStyle
	if formActive {
		formHeader, resultsHeader = activeHeaderStyle, inactiveHeaderStyle
		formBorder, resultsBorder = activeBorderStyle, inactiveBorderStyle
	}

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(paneWidth+2).Render(formHeader.Render(" Inputs")),
		" ",
		lipgloss.NewStyle().Width(paneWidth+2).Render(
			resultsHeader.Render(fmt.Sprintf(" Results (%d)", m.sess.Table().Len()))),
	)

	form := formBorder.Width(paneWidth).Height(m.results.Height).Render(m.renderForm())
	results := resultsBorder.Width(paneWidth).Render(m.results.View())
	panes := lipgloss.JoinHorizontal(lipgloss.Top, form, " ", results)

	return headerRow + "\n" + panes + "\n" + m.statusBar()
}

func (m appModel) renderForm() string {
	var b strings.Builder
	field := func(label, view string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteByte('\n')
		b.WriteString(view)
		b.WriteString("\n\n")
	}
	field("Role", m.role.View())
	field("Prompt template", m.template.View())
	field("Company file (.csv/.xlsx)", m.companies.View())
	field("Firm description (.txt)", m.firm.View())

	if m.running {
		b.WriteString(spinnerStyle.Render(spinnerFrames[m.frame]) + " generating...\n")
	} else {
		b.WriteString(hintStyle.Render("ctrl+r to generate") + "\n")
	}

	for _, n := range m.lastNotices {
		b.WriteString(noticeStyle.Render("⚠ "+n.Message) + "\n")
	}
	return b.String()
}

func (m appModel) statusBar() string {
	text := fmt.Sprintf(" session %s    tab focus  ctrl+r run  ctrl+s export  ctrl+c quit", m.sess.ID)
	if m.status != "" {
		style := okStyle
		if m.statusErr {
			style = noticeStyle
		}
		text = " " + style.Render(m.status) + "   " + text
	}
	return statusBarStyle.Width(m.width).Render(text)
}

func renderRows(rows []model.ResultRow, width int) string {
	if len(rows) == 0 {
		return hintStyle.Render("  (no results yet)")
	}

	var b strings.Builder
	for i, r := range rows {
		b.WriteString(companyStyle.Render(fmt.Sprintf("%d. %s", i+1, r.CompanyName)))
		b.WriteByte('\n')
		b.WriteString(sectionStyle.Render(wordWrap(r.PersonalizedSection, width)))
		b.WriteByte('\n')
		if i < len(rows)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

// RunApp launches the interactive form in the alternate screen and returns
// when the user quits. Results are committed to cfg.Session as each pass
// completes.
func RunApp(cfg AppConfig) error {
	p := tea.NewProgram(newAppModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
