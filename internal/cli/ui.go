package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/modlaunch/pkg/catalog"
)

// stdout receives all command output. Tests replace it.
var stdout io.Writer = os.Stdout

var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorBright = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

// Styles shared by the commands.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim       = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue     = lipgloss.NewStyle().Foreground(colorBright)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleFragment    = lipgloss.NewStyle().Foreground(colorLink)
	styleLabel       = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
)

const iconArrow = "→"

// A mark prefixes a status line.
type mark struct {
	icon  string
	style lipgloss.Style
	body  lipgloss.Style // applied to the message; zero value leaves it plain
}

var (
	markOK   = mark{"✓", lipgloss.NewStyle().Foreground(colorOK), lipgloss.Style{}}
	markFail = mark{"✗", lipgloss.NewStyle().Foreground(colorFail), lipgloss.Style{}}
	markWarn = mark{"!", lipgloss.NewStyle().Foreground(colorWarn), lipgloss.NewStyle().Foreground(colorWarn)}
	markNote = mark{"›", lipgloss.NewStyle().Foreground(colorMuted), lipgloss.Style{}}
)

func (m mark) println(format string, args ...any) {
	fmt.Fprintln(stdout, m.style.Render(m.icon)+" "+m.body.Render(fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) { markOK.println(format, args...) }
func printError(format string, args ...any)   { markFail.println(format, args...) }
func printWarning(format string, args ...any) { markWarn.println(format, args...) }
func printInfo(format string, args ...any)    { markNote.println(format, args...) }

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a file a command wrote.
func printFile(path string) {
	fmt.Fprintf(stdout, "  %s %s\n", StyleDim.Render(iconArrow), StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

func printNewline() { fmt.Fprintln(stdout) }

// printNextStep suggests a command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintf(stdout, "%s %s\n", StyleDim.Render(description+":"), lipgloss.NewStyle().Foreground(colorLink).Render(cmd))
}

// printStats prints catalog totals on one line, conflicts highlighted.
func printStats(modules, edges, conflicts int) {
	sep := StyleDim.Render(" · ")
	parts := []string{StyleDim.Render(plural(modules, "module")), StyleDim.Render(plural(edges, "dependency"))}
	if conflicts > 0 {
		parts = append(parts, markWarn.body.Render(plural(conflicts, "conflict")))
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, sep))
}

// plural formats n with the singular or plural form of noun.
func plural(n int, noun string) string {
	switch {
	case n == 1:
	case strings.HasSuffix(noun, "y"):
		noun = strings.TrimSuffix(noun, "y") + "ies"
	default:
		noun += "s"
	}
	return fmt.Sprintf("%d %s", n, noun)
}

// printTable renders rows under headers; the first column is the module name.
func printTable(headers []string, rows [][]string) {
	head := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return head
			case col == 0:
				return StyleHighlight
			default:
				return lipgloss.NewStyle()
			}
		})
	fmt.Fprintln(stdout, t.Render())
}

// moduleLabel renders id, marking fragments.
func moduleLabel(cat *catalog.Catalog, id catalog.Identity) string {
	if rec, ok := cat.Record(id); ok && rec.Fragment {
		return id.String() + " " + styleFragment.Render("(fragment)")
	}
	return id.String()
}
