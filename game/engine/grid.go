package engine

import (
	"fmt"
	"strings"
)

// Grid is a square matrix of cell values indexed [row][col]
type Grid [][]int

// NewGrid creates an empty size×size grid
func NewGrid(size int) Grid {
	grid := make(Grid, size)
	for i := range grid {
		grid[i] = make([]int, size)
	}
	return grid
}

// GridFromRows copies rows into a new grid without validating them
func GridFromRows(rows [][]int) Grid {
	grid := make(Grid, len(rows))
	for i, row := range rows {
		grid[i] = append([]int(nil), row...)
	}
	return grid
}

// Size returns the grid's side length
func (g Grid) Size() int {
	return len(g)
}

// Clone returns a deep copy of the grid
func (g Grid) Clone() Grid {
	return GridFromRows(g)
}

// Equal reports whether both grids hold the same values
func (g Grid) Equal(other Grid) bool {
	if len(g) != len(other) {
		return false
	}
	for r := range g {
		if len(g[r]) != len(other[r]) {
			return false
		}
		for c := range g[r] {
			if g[r][c] != other[r][c] {
				return false
			}
		}
	}
	return true
}

// EmptyCells returns the coordinates of every empty cell in row-major order
func (g Grid) EmptyCells() []Position {
	var empty []Position
	for r, row := range g {
		for c, value := range row {
			if value == Empty {
				empty = append(empty, Position{Row: r, Col: c})
			}
		}
	}
	return empty
}

// Validate checks that the grid is square with the expected size and that
// every cell is empty or a power of two.
func (g Grid) Validate(size int) error {
	if len(g) != size {
		return fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidGrid, size, len(g))
	}
	for r, row := range g {
		if len(row) != size {
			return fmt.Errorf("%w: row %d must have %d cells, got %d", ErrInvalidGrid, r, size, len(row))
		}
		for c, value := range row {
			if value != Empty && !isPowerOfTwo(value) {
				return fmt.Errorf("%w: cell (%d,%d) holds %d, not a power of two", ErrInvalidGrid, r, c, value)
			}
		}
	}
	return nil
}

// String renders the grid as space separated rows
func (g Grid) String() string {
	var b strings.Builder
	for r, row := range g {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c, value := range row {
			if c > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d", value)
		}
	}
	return b.String()
}

// isPowerOfTwo reports whether v is 2, 4, 8, ...
func isPowerOfTwo(v int) bool {
	return v > 1 && v&(v-1) == 0
}
