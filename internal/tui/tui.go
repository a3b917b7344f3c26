// Package tui is an interactive viewer for the version matrix of a query.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/r9s-ai/sdmxrest/pkg/qb"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	detailStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Options configures the viewer. BaseURL, when set, prefixes every URL.
type Options struct {
	BaseURL string
	Short   bool
}

func Run(q qb.Query, opts Options, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(newModel(q, opts), tea.WithInput(in), tea.WithOutput(out))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui run failed: %w", err)
	}
	return nil
}

type model struct {
	q       qb.Query
	baseURL string
	short   bool
	rows    []qb.MatrixRow
	table   table.Model
	width   int
}

func newModel(q qb.Query, opts Options) model {
	t := table.New(
		table.WithColumns(columns(100)),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(s)

	m := model{q: q, baseURL: strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"), short: opts.Short, table: t, width: 100}
	m.refresh()
	return m
}

func columns(width int) []table.Column {
	urlWidth := width - 8 - 6 - 6
	if urlWidth < 20 {
		urlWidth = 20
	}
	return []table.Column{
		{Title: "Version", Width: 8},
		{Title: "OK", Width: 6},
		{Title: "URL / error", Width: urlWidth},
	}
}

func (m *model) refresh() {
	m.rows = qb.Matrix(m.q, m.short)
	out := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, table.Row{r.Version.String(), status(r), m.cell(r)})
	}
	m.table.SetRows(out)
}

func status(r qb.MatrixRow) string {
	if r.OK() {
		return "yes"
	}
	return "no"
}

func (m model) cell(r qb.MatrixRow) string {
	if r.OK() {
		return m.baseURL + r.URL
	}
	return r.Err.Error()
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetColumns(columns(msg.Width))
		if h := msg.Height - 10; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "s":
			m.short = !m.short
			m.refresh()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder
	form := "full"
	if m.short {
		form = "short"
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s query, %s form", m.q.Resource(), form)))
	b.WriteString("\n")
	if v, ok := qb.FirstSupported(m.q); ok {
		b.WriteString(okStyle.Render("first supported: " + v.String()))
	} else {
		b.WriteString(errStyle.Render("not expressible at any version"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move • s toggle short/full • q quit"))
	b.WriteString("\n")
	return b.String()
}

// detail renders the selected row with its Accept header.
func (m model) detail() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return ""
	}
	r := m.rows[i]
	if !r.OK() {
		return detailStyle.Render(errStyle.Render(r.Version.String() + ": " + r.Err.Error()))
	}
	lines := []string{r.Version.String() + ": " + m.baseURL + r.URL}
	if accept, err := qb.AcceptFor(m.q.Resource(), "", r.Version); err == nil {
		lines = append(lines, "Accept: "+accept)
	}
	return detailStyle.Render(strings.Join(lines, "\n"))
}
