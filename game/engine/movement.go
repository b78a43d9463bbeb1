package engine

// orientation turns a grid so that a direction becomes a slide toward the
// start of each row, and turns it back afterwards.
type orientation struct {
	apply func(Grid) Grid
	undo  func(Grid) Grid
}

var orientations = map[Direction]orientation{
	Left:  {apply: identity, undo: identity},
	Right: {apply: reverseRows, undo: reverseRows},
	Up:    {apply: transpose, undo: transpose},
	Down: {
		apply: func(g Grid) Grid { return reverseRows(transpose(g)) },
		undo:  func(g Grid) Grid { return transpose(reverseRows(g)) },
	},
}

// Move slides every line of the grid in the given direction. It returns the
// resulting grid and whether any cell changed. The input grid is not
// modified. An unknown direction returns an unchanged copy.
func Move(grid Grid, dir Direction) (Grid, bool) {
	o, ok := orientations[dir]
	if !ok {
		return grid.Clone(), false
	}

	oriented := o.apply(grid)
	for r, line := range oriented {
		oriented[r] = SlideLine(line)
	}
	moved := o.undo(oriented)

	return moved, !moved.Equal(grid)
}

// MoveLeft slides all tiles toward column 0
func MoveLeft(grid Grid) (Grid, bool) {
	return Move(grid, Left)
}

// MoveRight slides all tiles toward the last column
func MoveRight(grid Grid) (Grid, bool) {
	return Move(grid, Right)
}

// MoveUp slides all tiles toward row 0
func MoveUp(grid Grid) (Grid, bool) {
	return Move(grid, Up)
}

// MoveDown slides all tiles toward the last row
func MoveDown(grid Grid) (Grid, bool) {
	return Move(grid, Down)
}

// HasWon reports whether any tile has reached the winning value
func HasWon(grid Grid, winningTile int) bool {
	for _, row := range grid {
		for _, value := range row {
			if value >= winningTile {
				return true
			}
		}
	}
	return false
}

// HasLost reports whether the grid is full and no two horizontally or
// vertically adjacent cells are equal, so no move can change it.
func HasLost(grid Grid) bool {
	size := len(grid)
	for r := 0; r < size; r++ {
		for c := 0; c < len(grid[r]); c++ {
			value := grid[r][c]
			if value == Empty {
				return false
			}
			if r < size-1 && c < len(grid[r+1]) && value == grid[r+1][c] {
				return false
			}
			if c < len(grid[r])-1 && value == grid[r][c+1] {
				return false
			}
		}
	}
	return true
}

func identity(g Grid) Grid {
	return g.Clone()
}

func reverseRows(g Grid) Grid {
	out := make(Grid, len(g))
	for r, row := range g {
		out[r] = reverseLine(row)
	}
	return out
}

func transpose(g Grid) Grid {
	size := len(g)
	out := NewGrid(size)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			out[c][r] = g[r][c]
		}
	}
	return out
}
