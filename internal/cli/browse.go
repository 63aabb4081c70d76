package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gtreader/pkg/errors"
	"github.com/matzehuels/gtreader/pkg/graph"
	"github.com/matzehuels/gtreader/pkg/gt"
	gtio "github.com/matzehuels/gtreader/pkg/io"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var flags loadFlags

	cmd := &cobra.Command{
		Use:   "browse <source>",
		Short: "Browse a graph's properties interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.load(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			if len(res.Graph.Properties()) == 0 {
				printInfo("%s has no properties", args[0])
				return nil
			}
			p := tea.NewProgram(NewPropertyBrowser(args[0], res.Graph),
				tea.WithContext(cmd.Context()), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "browser")
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// PropertyBrowser - Interactive property inspection
// =============================================================================

// PropertyBrowser is the bubbletea model for browsing properties. The list
// view selects a property; the detail view pages through its values.
type PropertyBrowser struct {
	Title  string
	Props  []*gt.Property
	Cursor int
	Offset int
	Height int

	// Detail view state; Open is nil in the list view.
	Open        *gt.Property
	values      []any
	ValueOffset int
}

// NewPropertyBrowser creates a browser over g's properties.
func NewPropertyBrowser(title string, g *graph.Graph) PropertyBrowser {
	return PropertyBrowser{
		Title:  title,
		Props:  g.Properties(),
		Height: 15,
	}
}

func (m PropertyBrowser) Init() tea.Cmd {
	return nil
}

func (m PropertyBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Open != nil {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m PropertyBrowser) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			if m.Cursor < m.Offset {
				m.Offset = m.Cursor
			}
		}
	case "down", "j":
		if m.Cursor < len(m.Props)-1 {
			m.Cursor++
			if m.Cursor >= m.Offset+m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case "enter":
		m.Open = m.Props[m.Cursor]
		m.values = gtio.PropertyValues(m.Open)
		m.ValueOffset = 0
	}
	return m, nil
}

func (m PropertyBrowser) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	last := max(len(m.values)-m.Height, 0)
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "backspace", "left", "h":
		m.Open, m.values = nil, nil
	case "up", "k":
		m.ValueOffset = max(m.ValueOffset-1, 0)
	case "down", "j":
		m.ValueOffset = min(m.ValueOffset+1, last)
	case "pgup":
		m.ValueOffset = max(m.ValueOffset-m.Height, 0)
	case "pgdown", " ":
		m.ValueOffset = min(m.ValueOffset+m.Height, last)
	case "home", "g":
		m.ValueOffset = 0
	case "end", "G":
		m.ValueOffset = last
	}
	return m, nil
}

func (m PropertyBrowser) View() string {
	if m.Open != nil {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m PropertyBrowser) viewList() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ values  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Props))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Props[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, p.Name(), p.MapType().String(), p.ValueType().String(), strconv.Itoa(p.Len())})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Map", "Type", "Len").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col >= 2 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Props))))
	return b.String()
}

func (m PropertyBrowser) viewDetail() string {
	var b strings.Builder

	p := m.Open
	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s  %s %s", p.Name(), p.MapType(), p.ValueType())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ scroll  pgup/pgdn page  esc back  q quit"))
	b.WriteString("\n\n")

	end := min(m.ValueOffset+m.Height, len(m.values))
	width := len(strconv.Itoa(max(len(m.values)-1, 0)))
	for i := m.ValueOffset; i < end; i++ {
		idx := listDimStyle.Render(fmt.Sprintf("%*d", width, i))
		b.WriteString(idx + "  " + listNormalStyle.Render(formatValue(m.values[i])) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d-%d/%d]", min(m.ValueOffset+1, end), end, len(m.values))))
	return b.String()
}
