package view

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nimdanitro/sensorview/pkg/sensorapi"
	"github.com/nimdanitro/sensorview/pkg/telemetry"
	"go.uber.org/zap"
)

// fetchedMsg carries a fetch outcome back to Update. gen identifies the
// fetch so results of a superseded one can be dropped.
type fetchedMsg struct {
	gen int
	res *sensorapi.Result
	err error
}

// Model is the interactive sensor table.
type Model struct {
	ctx     context.Context
	fetcher sensorapi.Fetcher
	schema  telemetry.Schema
	log     *zap.Logger

	state  State
	gen    int
	cancel context.CancelFunc

	table  table.Model
	keys   keyMap
	help   help.Model
	styles styles
}

func New(ctx context.Context, f sensorapi.Fetcher, schema telemetry.Schema, log *zap.Logger) *Model {
	st := newStyles()

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(draculaPurple)).
		BorderBottom(true).
		Foreground(lipgloss.Color(draculaCyan)).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color(draculaForeground)).
		Background(lipgloss.Color(draculaPurple))

	t := table.New(
		table.WithFocused(true),
		table.WithHeight(telemetry.PageSize+1),
		table.WithStyles(ts),
	)

	return &Model{
		ctx:     ctx,
		fetcher: f,
		schema:  schema,
		log:     log,
		table:   t,
		keys:    defaultKeyMap(),
		help:    help.New(),
		styles:  st,
	}
}

// State returns the current display state.
func (m *Model) State() State { return m.state }

func (m *Model) Init() tea.Cmd {
	return m.reload()
}

// reload cancels any fetch still in flight and starts a new one from the
// empty baseline.
func (m *Model) reload() tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	m.gen++
	gen := m.gen
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel

	m.state = m.state.FetchStarted()
	m.syncTable()

	f := m.fetcher
	return func() tea.Msg {
		res, err := f.Fetch(ctx)
		return fetchedMsg{gen: gen, res: res, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchedMsg:
		return m.handleFetched(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.table.SetWidth(msg.Width - 2)
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *Model) handleFetched(msg fetchedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		m.log.Debug("dropping superseded fetch result", zap.Int("gen", msg.gen))
		return m, nil
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	if msg.err != nil {
		m.log.Error("failed to fetch sensor data", zap.Error(msg.err))
	}
	m.state = m.state.Apply(msg.res, msg.err, m.schema)
	m.log.Info("fetched sensor data",
		zap.Stringer("phase", m.state.Phase()),
		zap.Int("readings", len(m.state.Records)),
		zap.Int("devices", len(m.state.Devices)),
	)
	m.syncTable()
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()
	case key.Matches(msg, m.keys.Next):
		m.state = m.state.NextPage()
		m.syncTable()
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.state = m.state.PrevPage()
		m.syncTable()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.state.Phase() != PhaseLoaded {
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// syncTable rebuilds columns and rows for the visible window.
func (m *Model) syncTable() {
	visible, hasPrev, hasNext := m.state.Window()
	m.keys.Prev.SetEnabled(hasPrev)
	m.keys.Next.SetEnabled(hasNext)

	names := m.state.Columns()
	cells := rows(visible, names)

	columns := make([]table.Column, len(names))
	for i, name := range names {
		w := lipgloss.Width(name)
		for _, row := range cells {
			w = max(w, lipgloss.Width(row[i]))
		}
		columns[i] = table.Column{Title: name, Width: min(w, maxColumnWidth)}
	}

	tableRows := make([]table.Row, len(cells))
	for i, row := range cells {
		tableRows[i] = table.Row(row)
	}

	// every row needs a cell per column, so clear rows before swapping columns
	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(tableRows)
	if len(tableRows) > 0 {
		m.table.SetCursor(0)
	}
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render(title))
	b.WriteString("\n\n")

	switch m.state.Phase() {
	case PhaseError:
		b.WriteString(m.styles.error.Render("❌ " + m.state.Err))
	case PhaseEmpty:
		b.WriteString(m.styles.empty.Render(emptyMessage))
	case PhaseLoaded:
		b.WriteString(m.styles.frame.Render(m.table.View()))
		b.WriteString("\n")
		b.WriteString(m.styles.footer.Render(footer(m.state)))
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
