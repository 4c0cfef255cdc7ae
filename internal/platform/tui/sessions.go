package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vandreev/wiredoom/internal/storage"
)

// maxSessions caps how many records the browser loads.
const maxSessions = 100

// roleFilters cycles all -> feed -> view.
var roleFilters = []string{"", "feed", "view"}

// SessionsKeyMap defines the key bindings for the session browser.
type SessionsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextRole key.Binding
	PrevRole key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SessionsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextRole, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k SessionsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextRole, k.PrevRole, k.Quit},
	}
}

// DefaultSessionsKeyMap returns default key bindings.
func DefaultSessionsKeyMap() SessionsKeyMap {
	return SessionsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextRole: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "filter role"),
		),
		PrevRole: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev filter"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SessionsModel is the Bubble Tea model for browsing recorded bridge
// sessions.
type SessionsModel struct {
	store      *storage.Store
	sessions   []storage.SessionRecord
	roleCursor int
	table      table.Model
	help       help.Model
	keys       SessionsKeyMap
	width      int
	height     int
	quitting   bool
}

// NewSessionsModel creates a session browser over the given store.
func NewSessionsModel(store *storage.Store, width, height int) SessionsModel {
	h := help.New()
	h.ShowAll = false

	m := SessionsModel{
		store:  store,
		keys:   DefaultSessionsKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.loadSessions()
	return m
}

// createTable creates the table with appropriate columns.
func (m *SessionsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Role", Width: 6},
		{Title: "Frames", Width: 8},
		{Title: "Walls", Width: 8},
		{Title: "Sprites", Width: 8},
		{Title: "Trunc", Width: 6},
		{Title: "Bad", Width: 5},
		{Title: "End", Width: 12},
		{Title: "When", Width: 14},
	}

	height := m.height - 6
	if height < 4 {
		height = 4
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadSessions refreshes the rows for the current role filter.
func (m *SessionsModel) loadSessions() {
	if m.store == nil {
		m.sessions = nil
		m.updateTableRows()
		return
	}

	sessions, err := m.store.RecentSessions(maxSessions)
	if err != nil {
		m.sessions = nil
		m.updateTableRows()
		return
	}

	role := roleFilters[m.roleCursor]
	if role == "" {
		m.sessions = sessions
	} else {
		filtered := sessions[:0:0]
		for _, s := range sessions {
			if s.Role == role {
				filtered = append(filtered, s)
			}
		}
		m.sessions = filtered
	}
	m.updateTableRows()
}

// updateTableRows rebuilds the table from the loaded sessions.
func (m *SessionsModel) updateTableRows() {
	rows := make([]table.Row, len(m.sessions))
	for i, s := range m.sessions {
		rows[i] = table.Row{
			fmt.Sprintf("%d", s.ID),
			s.Role,
			fmt.Sprintf("%d", s.Frames),
			fmt.Sprintf("%d", s.Walls),
			fmt.Sprintf("%d", s.Sprites),
			fmt.Sprintf("%d", s.Truncated),
			fmt.Sprintf("%d", s.DecodeErrors),
			s.EndReason,
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the model.
func (m SessionsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the session browser.
func (m SessionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextRole):
			m.roleCursor = (m.roleCursor + 1) % len(roleFilters)
			m.loadSessions()
			return m, nil

		case key.Matches(msg, m.keys.PrevRole):
			m.roleCursor--
			if m.roleCursor < 0 {
				m.roleCursor = len(roleFilters) - 1
			}
			m.loadSessions()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the session browser.
func (m SessionsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "BRIDGE SESSIONS"
	if role := roleFilters[m.roleCursor]; role != "" {
		title = fmt.Sprintf("BRIDGE SESSIONS - %s", role)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if len(m.sessions) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(emptyStyle.Render("No sessions recorded yet.\nRun the feed and view commands to record one."))
	} else {
		tableStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
		b.WriteString(tableStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// RunSessions runs the session browser until the user quits.
func RunSessions(store *storage.Store, width, height int) error {
	model := NewSessionsModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
