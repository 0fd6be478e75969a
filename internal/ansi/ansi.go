// Package ansi holds the ANSI escape codes used for plain terminal output.
// Styled views use lipgloss instead.
package ansi

// SGR (Select Graphic Rendition) codes.
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Yellow = "\033[33m"
	Green  = "\033[32m"
	Red    = "\033[31m"
	Cyan   = "\033[36m"
)

// Screen control codes.
const (
	// ClearScreen moves the cursor home and erases the display. Used to
	// redraw a view in place when the catalog changes.
	ClearScreen = "\033[H\033[2J"

	// ClearLine clears the entire current line.
	ClearLine = "\033[2K"
)

// Wrap surrounds s with codes and a trailing reset. It returns s unchanged
// when codes is empty.
func Wrap(codes, s string) string {
	if codes == "" {
		return s
	}
	return codes + s + Reset
}
