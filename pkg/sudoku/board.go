// Package sudoku reads and writes 9x9 Sudoku boards and builds the
// constraint graph that turns a board into a solvable CSP.
//
// The persistence format is nine lines of nine characters: '0' marks
// an unassigned cell, the digits '1'..'9' mark givens. This is the
// only format the package understands; the solver itself never sees
// the raw text, only the variable/domain list built from it.
package sudoku

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gitrdm/gocsp/pkg/csp"
)

// Size is the board edge length; Box is the edge of one sub-square.
const (
	Size = 9
	Box  = 3
)

// Board is a 9x9 grid of cell values. Zero means unassigned.
type Board struct {
	cells [Size][Size]int
}

// Parse reads a board in the nine-lines-of-nine-characters format.
// Blank lines are skipped, trailing whitespace per line is ignored.
func Parse(r io.Reader) (*Board, error) {
	var b Board
	scanner := bufio.NewScanner(r)
	row := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if row >= Size {
			return nil, fmt.Errorf("parse board: more than %d rows", Size)
		}
		if len(line) != Size {
			return nil, fmt.Errorf("parse board: row %d has %d characters, want %d", row+1, len(line), Size)
		}
		for col, c := range line {
			if c < '0' || c > '9' {
				return nil, fmt.Errorf("parse board: row %d column %d: invalid character %q", row+1, col+1, c)
			}
			b.cells[row][col] = int(c - '0')
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parse board: %w", err)
	}
	if row != Size {
		return nil, fmt.Errorf("parse board: got %d rows, want %d", row, Size)
	}
	return &b, nil
}

// ParseString is Parse over an in-memory board.
func ParseString(s string) (*Board, error) {
	return Parse(strings.NewReader(s))
}

// Cell returns the value at (row, col), zero when unassigned.
func (b *Board) Cell(row, col int) int {
	return b.cells[row][col]
}

// SetCell writes a value at (row, col). Values outside 0..9 are
// rejected.
func (b *Board) SetCell(row, col, value int) error {
	if row < 0 || row >= Size || col < 0 || col >= Size {
		return fmt.Errorf("set cell: position (%d,%d) out of range", row, col)
	}
	if value < 0 || value > Size {
		return fmt.Errorf("set cell: value %d out of range", value)
	}
	b.cells[row][col] = value
	return nil
}

// CellName returns the CSP variable name for a cell position. Cells
// are named "row-col" with zero-based indices.
func CellName(row, col int) string {
	return fmt.Sprintf("%d-%d", row, col)
}

// Graph builds the board's constraint graph: one variable per cell
// whose original domain is either 1..9 or the given's singleton, and
// 27 all-different constraints covering the 9 rows, 9 columns, and 9
// boxes.
func (b *Board) Graph() (*csp.Graph[int], error) {
	g := csp.NewGraph[int]()

	full := make([]int, Size)
	for i := range full {
		full[i] = i + 1
	}

	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			domain := full
			if v := b.cells[row][col]; v != 0 {
				domain = []int{v}
			}
			if err := g.AddVariable(CellName(row, col), domain); err != nil {
				return nil, err
			}
		}
	}

	for row := 0; row < Size; row++ {
		unit := make([]string, Size)
		for col := 0; col < Size; col++ {
			unit[col] = CellName(row, col)
		}
		if err := g.AddAllDifferent(unit); err != nil {
			return nil, err
		}
	}
	for col := 0; col < Size; col++ {
		unit := make([]string, Size)
		for row := 0; row < Size; row++ {
			unit[row] = CellName(row, col)
		}
		if err := g.AddAllDifferent(unit); err != nil {
			return nil, err
		}
	}
	for boxRow := 0; boxRow < Size; boxRow += Box {
		for boxCol := 0; boxCol < Size; boxCol += Box {
			unit := make([]string, 0, Size)
			for dr := 0; dr < Box; dr++ {
				for dc := 0; dc < Box; dc++ {
					unit = append(unit, CellName(boxRow+dr, boxCol+dc))
				}
			}
			if err := g.AddAllDifferent(unit); err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

// FromAssignment converts a complete assignment back into a board.
// Every cell variable must be decided.
func FromAssignment(a *csp.Assignment[int]) (*Board, error) {
	if a == nil {
		return nil, fmt.Errorf("nil assignment")
	}
	var b Board
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			v, ok := a.Value(CellName(row, col))
			if !ok {
				return nil, fmt.Errorf("cell (%d,%d) is not decided", row, col)
			}
			b.cells[row][col] = v
		}
	}
	return &b, nil
}

// String renders the board as a grid with box separators. Unassigned
// cells print as dots.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		if row > 0 && row%Box == 0 {
			sb.WriteString("------+-------+------\n")
		}
		for col := 0; col < Size; col++ {
			if col > 0 && col%Box == 0 {
				sb.WriteString("| ")
			}
			if v := b.cells[row][col]; v == 0 {
				sb.WriteString(". ")
			} else {
				fmt.Fprintf(&sb, "%d ", v)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Text renders the board in the persistence format: nine lines of
// nine digit characters, zero for unassigned.
func (b *Board) Text() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			fmt.Fprintf(&sb, "%d", b.cells[row][col])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Valid reports whether the board is a complete, legal solution:
// every row, column, and box holds each of 1..9 exactly once.
func (b *Board) Valid() bool {
	check := func(cells [Size][2]int) bool {
		var seen [Size + 1]bool
		for _, rc := range cells {
			v := b.cells[rc[0]][rc[1]]
			if v < 1 || v > Size || seen[v] {
				return false
			}
			seen[v] = true
		}
		return true
	}
	for row := 0; row < Size; row++ {
		var unit [Size][2]int
		for col := 0; col < Size; col++ {
			unit[col] = [2]int{row, col}
		}
		if !check(unit) {
			return false
		}
	}
	for col := 0; col < Size; col++ {
		var unit [Size][2]int
		for row := 0; row < Size; row++ {
			unit[row] = [2]int{row, col}
		}
		if !check(unit) {
			return false
		}
	}
	for boxRow := 0; boxRow < Size; boxRow += Box {
		for boxCol := 0; boxCol < Size; boxCol += Box {
			var unit [Size][2]int
			i := 0
			for dr := 0; dr < Box; dr++ {
				for dc := 0; dc < Box; dc++ {
					unit[i] = [2]int{boxRow + dr, boxCol + dc}
					i++
				}
			}
			if !check(unit) {
				return false
			}
		}
	}
	return true
}
