package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Render writes the current page of s as a static table.
func Render(w io.Writer, s State) error {
	st := newStyles()

	var b strings.Builder
	b.WriteString(st.title.Render(title))
	b.WriteString("\n\n")

	switch s.Phase() {
	case PhaseError:
		b.WriteString(st.error.Render("❌ " + s.Err))
	case PhaseEmpty:
		b.WriteString(st.empty.Render(emptyMessage))
	case PhaseLoaded:
		visible, _, _ := s.Window()
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(draculaPurple))).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return st.header
				}
				return st.cell
			}).
			Headers(s.Columns()...).
			Rows(rows(visible, s.Columns())...)
		b.WriteString(t.Render())
		b.WriteString("\n")
		b.WriteString(st.footer.Render(footer(s)))
	}
	b.WriteString("\n")

	_, err := fmt.Fprint(w, b.String())
	return err
}
