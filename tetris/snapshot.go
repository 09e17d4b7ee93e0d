package tetris

import "strings"

// Snapshot is the full game state at one instant.
// Snapshots are values: anything that changes a board must first Clone the
// snapshot so that two snapshots never share a board.
type Snapshot struct {
	Board    Board `json:"board"`
	Piece    Piece `json:"piece"`
	Next     Piece `json:"next,omitempty"`
	X        int   `json:"x"`
	Y        int   `json:"y"`
	GameOver bool  `json:"game_over"`
}

// Clone deep copies the board. Pieces are immutable and shared.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Board:    s.Board.Clone(),
		Piece:    s.Piece,
		Next:     s.Next,
		X:        s.X,
		Y:        s.Y,
		GameOver: s.GameOver,
	}
}

// String draws the board with the current piece overlaid as '@'
func (s Snapshot) String() string {
	var sb strings.Builder
	for i := 0; i < s.Board.PlayableRows(); i++ {
		for j, cell := range s.Board[i] {
			switch {
			case s.covers(i, j):
				sb.WriteByte('@')
			case cell != 0:
				sb.WriteByte('#')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	if !s.Next.Empty() {
		sb.WriteString("next:\n")
		sb.WriteString(s.Next.String())
		sb.WriteByte('\n')
	}
	if s.GameOver {
		sb.WriteString("game over\n")
	}
	return sb.String()
}

func (s Snapshot) covers(row, col int) bool {
	cy, cx := row-s.Y, col-s.X
	if cy < 0 || cy >= s.Piece.Height() || cx < 0 || cx >= s.Piece.Width() {
		return false
	}
	return s.Piece[cy][cx] != 0
}
