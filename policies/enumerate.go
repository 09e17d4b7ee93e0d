package policies

import "github.com/zeu5/tetris-rl/tetris"

// LegalSequences enumerates every sequence reachable for the current piece:
// for 0 to 3 clockwise rotations, every horizontal offset that can be reached
// from the current position without passing an illegal offset.
// Order is rotations 0..3, then left offsets inner to outer, then right
// offsets inner to outer.
// A pinned piece yields the single sequence [CONTINUE].
func LegalSequences(state tetris.Snapshot) []tetris.Sequence {
	sequences := make([]tetris.Sequence, 0)
	current := state
	for rotations := 0; rotations < 4; rotations++ {
		for _, offset := range legalOffsets(current) {
			sequences = append(sequences, OffsetSequence(rotations, offset))
		}
		rotate(&current)
	}
	if len(sequences) == 0 {
		return []tetris.Sequence{{tetris.Continue}}
	}
	return sequences
}

// OffsetSequence turns a rotation count and a horizontal offset into actions
func OffsetSequence(rotations, offset int) tetris.Sequence {
	seq := make(tetris.Sequence, 0, rotations+abs(offset)+1)
	for i := 0; i < rotations; i++ {
		seq = append(seq, tetris.Rotate)
	}
	switch {
	case offset == 0:
		seq = append(seq, tetris.Continue)
	case offset < 0:
		for i := 0; i < -offset; i++ {
			seq = append(seq, tetris.Left)
		}
	default:
		for i := 0; i < offset; i++ {
			seq = append(seq, tetris.Right)
		}
	}
	return seq
}

// legalOffsets scans outwards from 0, left first, stopping at the first
// illegal offset in each direction
func legalOffsets(state tetris.Snapshot) []int {
	offsets := make([]int, 0)
	if state.Piece.Empty() {
		return offsets
	}
	cols := state.Board.Cols()
	for dx := 0; dx > -cols; dx-- {
		if !offsetLegal(state, dx) {
			break
		}
		offsets = append(offsets, dx)
	}
	for dx := 1; dx < cols; dx++ {
		if !offsetLegal(state, dx) {
			break
		}
		offsets = append(offsets, dx)
	}
	return offsets
}

func offsetLegal(state tetris.Snapshot, dx int) bool {
	x := state.X + dx
	if x < 0 || x > state.Board.Cols()-state.Piece.Width() {
		return false
	}
	return !tetris.CheckCollision(state.Board, state.Piece, x, state.Y)
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
