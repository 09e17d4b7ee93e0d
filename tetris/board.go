package tetris

import (
	"strings"
)

// Board is the playing field, row 0 on top.
// The last row is the floor: always fully occupied and never cleared.
type Board [][]int

// NewBoard creates an empty board with the given number of playable rows
// and columns plus the floor row
func NewBoard(rows, cols int) Board {
	board := make(Board, rows+1)
	for i := 0; i < rows; i++ {
		board[i] = make([]int, cols)
	}
	floor := make([]int, cols)
	for j := range floor {
		floor[j] = 1
	}
	board[rows] = floor
	return board
}

// Rows is the number of rows including the floor
func (b Board) Rows() int {
	return len(b)
}

func (b Board) Cols() int {
	if len(b) == 0 {
		return 0
	}
	return len(b[0])
}

// PlayableRows is the number of rows excluding the floor
func (b Board) PlayableRows() int {
	return len(b) - 1
}

// Clone returns a deep copy of the board
func (b Board) Clone() Board {
	out := make(Board, len(b))
	for i, row := range b {
		out[i] = make([]int, len(row))
		copy(out[i], row)
	}
	return out
}

func (b Board) Equal(other Board) bool {
	if len(b) != len(other) {
		return false
	}
	for i := range b {
		if len(b[i]) != len(other[i]) {
			return false
		}
		for j := range b[i] {
			if b[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}

// String renders the playable rows, '.' for empty and '#' for occupied cells
func (b Board) String() string {
	var sb strings.Builder
	for i := 0; i < b.PlayableRows(); i++ {
		for _, cell := range b[i] {
			if cell == 0 {
				sb.WriteByte('.')
			} else {
				sb.WriteByte('#')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Occupied reports whether the cell at (row, col) is filled.
func (b Board) Occupied(row, col int) bool {
	return b[row][col] != 0
}

func (b Board) rowFull(i int) bool {
	for _, cell := range b[i] {
		if cell == 0 {
			return false
		}
	}
	return true
}

// CheckCollision returns true if the piece placed with its top-left cell at
// (x, y) overlaps an occupied cell or leaves the board
func CheckCollision(board Board, piece Piece, x, y int) bool {
	rows, cols := board.Rows(), board.Cols()
	for cy, row := range piece {
		for cx, cell := range row {
			if cell == 0 {
				continue
			}
			bx, by := cx+x, cy+y
			if bx < 0 || bx >= cols || by < 0 || by >= rows {
				return true
			}
			if board[by][bx] != 0 {
				return true
			}
		}
	}
	return false
}

// Merge overlays the piece onto the board at (x, y).
// The board is modified in place; cells outside the board are dropped.
func Merge(board Board, piece Piece, x, y int) {
	rows, cols := board.Rows(), board.Cols()
	for cy, row := range piece {
		for cx, cell := range row {
			if cell == 0 {
				continue
			}
			bx, by := cx+x, cy+y
			if bx < 0 || bx >= cols || by < 0 || by >= rows {
				continue
			}
			board[by][bx] = cell
		}
	}
}

// RemoveFullRows deletes every fully occupied playable row, inserting an
// empty row on top for each one, until no full row remains.
// Returns the number of rows removed.
func RemoveFullRows(board Board) int {
	cleared := 0
	for {
		full := -1
		for i := 0; i < board.PlayableRows(); i++ {
			if board.rowFull(i) {
				full = i
				break
			}
		}
		if full == -1 {
			return cleared
		}
		// shift everything above the full row down by one
		for i := full; i > 0; i-- {
			board[i] = board[i-1]
		}
		board[0] = make([]int, board.Cols())
		cleared += 1
	}
}
