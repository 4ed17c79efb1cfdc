package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/modlaunch/pkg/catalog"
)

var (
	pickerHeader   = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	pickerRow      = lipgloss.NewStyle().Foreground(colorBright)
	pickerSelected = lipgloss.NewStyle().Foreground(colorOK).Bold(true)
)

// ModuleListModel is the bubbletea model for interactive module selection.
// Typing filters the list by substring; the cursor moves within the
// filtered rows.
type ModuleListModel struct {
	Modules  []catalog.Identity
	Filter   string
	Cursor   int
	Selected *catalog.Identity
	Height   int
	Offset   int
}

// NewModuleListModel creates a new module list model.
func NewModuleListModel(ids []catalog.Identity) ModuleListModel {
	return ModuleListModel{
		Modules: ids,
		Height:  15,
	}
}

// visible returns the modules matching the current filter.
func (m ModuleListModel) visible() []catalog.Identity {
	if m.Filter == "" {
		return m.Modules
	}
	var out []catalog.Identity
	for _, id := range m.Modules {
		if strings.Contains(id.String(), m.Filter) {
			out = append(out, id)
		}
	}
	return out
}

func (m ModuleListModel) Init() tea.Cmd {
	return nil
}

func (m ModuleListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		rows := m.visible()
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case tea.KeyDown:
			if m.Cursor < len(rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case tea.KeyEnter:
			if len(rows) == 0 {
				return m, nil
			}
			id := rows[m.Cursor]
			m.Selected = &id
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Filter != "" {
				m.Filter = m.Filter[:len(m.Filter)-1]
				m.Cursor, m.Offset = 0, 0
			}
		case tea.KeyRunes:
			m.Filter += string(msg.Runes)
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 7
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ModuleListModel) View() string {
	rows := m.visible()
	end := min(m.Offset+m.Height, len(rows))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("", "Module", "Version").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return pickerHeader
			case m.Offset+row == m.Cursor:
				return pickerSelected
			default:
				return pickerRow
			}
		})
	for i := m.Offset; i < end; i++ {
		marker := "  "
		if i == m.Cursor {
			marker = "▸ "
		}
		t.Row(marker, rows[i].Name, rows[i].Version)
	}

	pos := 0
	if len(rows) > 0 {
		pos = m.Cursor + 1
	}
	filter := ""
	if m.Filter != "" {
		filter = StyleHighlight.Render("filter: " + m.Filter)
	}
	return strings.Join([]string{
		StyleTitle.Render("Select Module"),
		StyleDim.Render("type to filter  ↑/↓ navigate  ⏎ select  esc quit"),
		filter,
		t.Render(),
		"",
		StyleDim.Render(fmt.Sprintf("  [%d/%d]", pos, len(rows))),
	}, "\n")
}
