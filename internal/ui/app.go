// Package ui is the interactive session browser.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TimelordUK/wcstats/internal/analysis"
	"github.com/TimelordUK/wcstats/internal/diff"
	"github.com/TimelordUK/wcstats/internal/render"
	"github.com/TimelordUK/wcstats/internal/replay"
	"github.com/TimelordUK/wcstats/pkg/timefmt"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeList Mode = iota
	ModeFilter
	ModeDetail
)

// Pane is what the detail view shows
type Pane int

const (
	PaneReport Pane = iota
	PaneInitial
	PanePreSave
	PaneFinal
	PaneDiff
	paneCount
)

func (p Pane) String() string {
	switch p {
	case PaneInitial:
		return string(replay.Initial)
	case PanePreSave:
		return string(replay.PreSave)
	case PaneFinal:
		return string(replay.Final)
	case PaneDiff:
		return "diff"
	default:
		return "report"
	}
}

// reserved rows for the status bar and help line
const chromeHeight = 2

// Model is the browser application model
type Model struct {
	all      []*analysis.Session
	visible  []*analysis.Session
	renderer *render.Renderer

	table       table.Model
	detail      viewport.Model
	filterInput textinput.Model

	mode   Mode
	pane   Pane
	width  int
	height int

	filter   string
	sameFile string
}

// NewModel creates a browser over already analyzed sessions
func NewModel(sessions []*analysis.Session, r *render.Renderer) *Model {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	ti := textinput.New()
	ti.Placeholder = "Filter by filename..."
	ti.CharLimit = 256

	m := &Model{
		all:         sessions,
		renderer:    r,
		table:       t,
		detail:      viewport.New(80, 22),
		filterInput: ti,
		mode:        ModeList,
		width:       80,
		height:      24,
	}
	m.refresh()
	return m
}

func columns(width int) []table.Column {
	fixed := 16 + 10 + 8 + 8
	name := width - fixed - 10
	if name < 12 {
		name = 12
	}
	return []table.Column{
		{Title: "Date", Width: 16},
		{Title: "File", Width: name},
		{Title: "Duration", Width: 10},
		{Title: "Words", Width: 8},
		{Title: "Changed", Width: 8},
	}
}

// refresh rebuilds the visible rows from the filters
func (m *Model) refresh() {
	sessions := m.all
	if m.sameFile != "" {
		sessions = analysis.SameFile(sessions, m.sameFile)
	}

	m.visible = m.visible[:0]
	rows := make([]table.Row, 0, len(sessions))
	for _, s := range sessions {
		if m.filter != "" && !strings.Contains(strings.ToLower(s.Filename), strings.ToLower(m.filter)) {
			continue
		}
		m.visible = append(m.visible, s)
		rows = append(rows, table.Row{
			timefmt.FormatSession(s.Date),
			s.Filename,
			timefmt.FormatDuration(s.DurationMs),
			fmt.Sprintf("%+d", s.Changes.Words),
			fmt.Sprintf("%.1f%%", s.ChangePercentage),
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Selected returns the session under the cursor
func (m *Model) Selected() (*analysis.Session, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return nil, false
	}
	return m.visible[i], true
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		body := max(msg.Height-chromeHeight, 1)
		m.table.SetColumns(columns(msg.Width))
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(body)
		m.detail.Width = msg.Width
		m.detail.Height = body
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeFilter:
		return m.handleFilterKey(msg)
	case ModeDetail:
		return m.handleDetailKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "enter":
		if _, ok := m.Selected(); ok {
			m.mode = ModeDetail
			m.pane = PaneReport
			m.showPane()
		}
		return m, nil

	case "/":
		m.mode = ModeFilter
		m.filterInput.SetValue(m.filter)
		m.filterInput.Focus()
		return m, textinput.Blink

	case "a":
		// toggle showing only the selected file's sessions
		if m.sameFile != "" {
			m.sameFile = ""
		} else if s, ok := m.Selected(); ok {
			m.sameFile = s.Filename
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filter = m.filterInput.Value()
		m.mode = ModeList
		m.filterInput.Blur()
		m.refresh()
		return m, nil

	case "esc":
		m.mode = ModeList
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc", "backspace":
		m.mode = ModeList
		return m, nil

	case "tab", "l", "right":
		m.pane = (m.pane + 1) % paneCount
		m.showPane()
		return m, nil

	case "shift+tab", "h", "left":
		m.pane = (m.pane + paneCount - 1) % paneCount
		m.showPane()
		return m, nil
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// showPane loads the current pane of the selected session into the viewport
func (m *Model) showPane() {
	s, ok := m.Selected()
	if !ok {
		return
	}
	m.detail.SetContent(m.paneContent(s))
	m.detail.GotoTop()
}

func (m *Model) paneContent(s *analysis.Session) string {
	switch m.pane {
	case PaneInitial, PanePreSave, PaneFinal:
		name := replay.Name(m.pane.String())
		text, ok := s.Text(name)
		if !ok {
			return m.renderer.Styles().Muted.Render(fmt.Sprintf("no %s checkpoint", name))
		}
		return m.renderer.Checkpoint(name, text)

	case PaneDiff:
		unified, err := diff.Checkpoints(s.Checkpoints, replay.Initial, replay.Final)
		if err != nil {
			return err.Error()
		}
		added, removed := diff.Stat(unified)
		stat := m.renderer.Styles().Muted.Render(fmt.Sprintf("%d added, %d removed", added, removed))
		return stat + "\n" + m.renderer.Diff(unified)

	default:
		same := analysis.SameFile(m.all, s.Filename)
		if len(same) > 1 {
			acc := analysis.Accumulate(same)
			return m.renderer.Session(s, &acc)
		}
		return m.renderer.Session(s, nil)
	}
}

// View implements tea.Model
func (m *Model) View() string {
	var builder strings.Builder

	if m.mode == ModeDetail {
		builder.WriteString(m.detail.View())
	} else {
		builder.WriteString(m.table.View())
	}
	builder.WriteString("\n")

	statusStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("240")).
		Foreground(lipgloss.Color("255")).
		Width(m.width)

	var status string
	switch m.mode {
	case ModeFilter:
		status = "/" + m.filterInput.View()
	case ModeDetail:
		s, _ := m.Selected()
		status = fmt.Sprintf(" %s  [%s]  %.0f%%", s.Filename, m.pane, m.detail.ScrollPercent()*100)
	default:
		status = fmt.Sprintf(" %d sessions", len(m.visible))
		if m.sameFile != "" {
			status += "  file: " + m.sameFile
		}
		if m.filter != "" {
			status += fmt.Sprintf("  filter: %q", m.filter)
		}
	}
	builder.WriteString(statusStyle.Render(status))
	builder.WriteString("\n")

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	help := "j/k:move  enter:open  a:same file  /:filter  q:quit"
	if m.mode == ModeDetail {
		help = "j/k:scroll  tab:next pane  esc:back  q:quit"
	}
	builder.WriteString(helpStyle.Render(help))

	return builder.String()
}
