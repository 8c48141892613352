package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gitrdm/gocsp/pkg/sudoku"
)

var (
	gridStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	failStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))
)

// renderBoard frames a solved board for terminal output.
func renderBoard(b *sudoku.Board) string {
	return headerStyle.Render("Solved:") + "\n" + gridStyle.Render(b.String())
}

// renderUnsatisfiable formats the no-solution outcome. An over- or
// mis-constrained board is a normal result, so it prints as a
// statement, not an error trace.
func renderUnsatisfiable() string {
	return failStyle.Render("This board has no solution.")
}
