package policies

import "github.com/zeu5/tetris-rl/tetris"

// Simulate replays the sequence on a copy of the state and commits the piece
// with a final hard drop. The input state is never modified.
// Rotations and moves that would collide are ignored.
func Simulate(state tetris.Snapshot, seq tetris.Sequence) tetris.Snapshot {
	next := state.Clone()
	for _, a := range seq {
		apply(&next, a)
	}
	hardDrop(&next)
	return next
}

// SimulatePlan simulates both pieces of a lookahead plan
func SimulatePlan(state tetris.Snapshot, plan tetris.Plan) tetris.Snapshot {
	return Simulate(state, plan.Flatten())
}

// apply mutates s, which must own its board
func apply(s *tetris.Snapshot, a tetris.Action) {
	switch a {
	case tetris.Rotate:
		rotate(s)
	case tetris.Left:
		move(s, -1)
	case tetris.Right:
		move(s, 1)
	case tetris.AdvanceToNextPiece:
		hardDrop(s)
	case tetris.Continue:
	}
}

// rotate does not touch the board, so it is safe on a shared snapshot
func rotate(s *tetris.Snapshot) {
	if s.Piece.Empty() {
		return
	}
	rotated := tetris.RotateClockwise(s.Piece)
	if !tetris.CheckCollision(s.Board, rotated, s.X, s.Y) {
		s.Piece = rotated
	}
}

func move(s *tetris.Snapshot, dx int) {
	if s.Piece.Empty() {
		return
	}
	if !tetris.CheckCollision(s.Board, s.Piece, s.X+dx, s.Y) {
		s.X += dx
	}
}

// hardDrop descends until collision, merges one row above, clears full
// rows and brings in the next piece if there is one
func hardDrop(s *tetris.Snapshot) {
	if s.Piece.Empty() {
		return
	}
	y := s.Y
	for !tetris.CheckCollision(s.Board, s.Piece, s.X, y) {
		y += 1
	}
	tetris.Merge(s.Board, s.Piece, s.X, y-1)
	tetris.RemoveFullRows(s.Board)

	if s.Next.Empty() {
		s.Piece = nil
		s.Y = y - 1
		return
	}
	s.Piece = s.Next
	s.Next = nil
	s.X = tetris.SpawnX(s.Board.Cols(), s.Piece)
	s.Y = 0
	if tetris.CheckCollision(s.Board, s.Piece, s.X, s.Y) {
		s.GameOver = true
	}
}
