package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	colorSteel    = lipgloss.Color("#5FAFD7")
	colorBrass    = lipgloss.Color("#D7AF5F")
	colorRust     = lipgloss.Color("#D75F5F")
	colorGraphite = lipgloss.Color("#5F5F5F")
	colorAsh      = lipgloss.Color("#949494")
	colorChalk    = lipgloss.Color("#E4E4E4")
	colorBench    = lipgloss.Color("#262626")
	colorFloor    = lipgloss.Color("#1C1C1C")
)

// cursorMark prefixes the selected list row.
const cursorMark = "▌"

var (
	styleDim  = lipgloss.NewStyle().Foreground(colorGraphite)
	styleBold = lipgloss.NewStyle().Bold(true)
	styleRow  = lipgloss.NewStyle().Foreground(colorAsh)

	styleRowMeta    = styleDim
	styleCursorRow  = styleBold.Foreground(colorChalk)
	styleCursorMark = styleBold.Foreground(colorSteel)

	styleBar      = styleBold.Background(colorBench).Foreground(colorChalk).Padding(0, 1)
	styleBarLabel = styleBold.Foreground(colorSteel)
	styleBarCount = lipgloss.NewStyle().Foreground(colorBrass)
	styleError    = styleBold.Foreground(colorRust)

	styleTreeTitle = styleBold.Foreground(colorSteel)
	styleScrollPos = styleDim.Italic(true)
	styleTreeFrame = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGraphite).Padding(0, 1)

	styleHintBar = lipgloss.NewStyle().Foreground(colorGraphite).Background(colorFloor).
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(colorGraphite)

	styleHintKey  = styleBold.Foreground(colorSteel)
	styleHintSep  = styleDim
	styleHintDesc = styleRow
)
