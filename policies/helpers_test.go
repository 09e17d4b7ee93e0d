package policies

import (
	"testing"

	"github.com/zeu5/tetris-rl/tetris"
)

// parseBoard builds a board from rows of '.' and '#', the floor is added
func parseBoard(rows ...string) tetris.Board {
	board := tetris.NewBoard(len(rows), len(rows[0]))
	for i, row := range rows {
		for j, c := range row {
			if c == '#' {
				board[i][j] = 1
			}
		}
	}
	return board
}

func emptyRows(n, cols int) []string {
	rows := make([]string, n)
	for i := range rows {
		row := make([]byte, cols)
		for j := range row {
			row[j] = '.'
		}
		rows[i] = string(row)
	}
	return rows
}

func spawned(board tetris.Board, piece, next tetris.Piece) tetris.Snapshot {
	return tetris.Snapshot{
		Board: board,
		Piece: piece,
		Next:  next,
		X:     tetris.SpawnX(board.Cols(), piece),
		Y:     0,
	}
}

func occupiedCells(board tetris.Board) int {
	count := 0
	for i := 0; i < board.PlayableRows(); i++ {
		for j := 0; j < board.Cols(); j++ {
			if board.Occupied(i, j) {
				count++
			}
		}
	}
	return count
}

// sameCells compares occupancy, ignoring shape ids
func sameCells(a, b tetris.Board) bool {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false
	}
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			if a.Occupied(i, j) != b.Occupied(i, j) {
				return false
			}
		}
	}
	return true
}

func assertSequences(t *testing.T, got []tetris.Sequence, want ...tetris.Sequence) {
	t.Helper()
	if len(got) < len(want) {
		t.Fatalf("expected at least %d sequences, got %d", len(want), len(got))
	}
	for i, w := range want {
		if !got[i].Equal(w) {
			t.Errorf("sequence %d: got %s, want %s", i, got[i], w)
		}
	}
}

var (
	pieceT = tetris.Shapes[0]
	pieceI = tetris.Shapes[5]
	pieceO = tetris.Shapes[6]
)

const (
	rot   = tetris.Rotate
	left  = tetris.Left
	right = tetris.Right
	cont  = tetris.Continue
)
