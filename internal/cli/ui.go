package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/gtreader/pkg/gt"
)

// =============================================================================
// Palette and Styles
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings such as the source name.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleDim renders muted secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue renders values next to their labels.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleNumber renders counts.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)
)

var (
	styleOK          = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarn        = lipgloss.NewStyle().Foreground(colorYellow)
	styleNote        = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleHeader      = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// =============================================================================
// Status Lines
// =============================================================================

func status(icon string, iconStyle lipgloss.Style, msg string) {
	fmt.Println(iconStyle.Render(icon) + " " + msg)
}

func printSuccess(format string, args ...any) {
	status("✓", styleOK, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	status("!", styleWarn, styleWarn.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	status("›", styleNote, fmt.Sprintf(format, args...))
}

// printDetail prints an indented muted line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints an indented "→ path" line for written output.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints "N vertices · M edges · detail · cached|fresh".
func printStats(vertices, edges uint64, detail string, cached bool) {
	sep := StyleDim.Render(" · ")
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d vertices", vertices)),
		StyleDim.Render(fmt.Sprintf("%d edges", edges)),
		StyleDim.Render(detail),
		styleNote.Render("fresh"),
	}
	if cached {
		parts[3] = styleOK.Render("cached")
	}
	fmt.Println("  " + strings.Join(parts, sep))
}

// =============================================================================
// Property Table
// =============================================================================

// propertyTable renders property descriptors as a bordered table.
func propertyTable(props []gt.PropertyInfo) string {
	rows := make([][]string, len(props))
	for i, p := range props {
		rows[i] = []string{p.Name, p.MapType, p.ValueType, strconv.Itoa(p.Len)}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Name", "Map", "Type", "Len").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 0:
				return StyleValue
			case col == 3:
				return StyleNumber
			}
			return styleNote
		}).
		Render()
}
