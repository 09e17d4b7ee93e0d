package policies

import (
	"testing"

	"github.com/zeu5/tetris-rl/tetris"
)

func TestSimulateDoesNotModifyState(t *testing.T) {
	state := spawned(tetris.NewBoard(6, 10), pieceO, pieceT)
	original := state.Board.Clone()
	Simulate(state, tetris.Sequence{left, left, cont})
	if !state.Board.Equal(original) || !state.Piece.Equal(pieceO) || !state.Next.Equal(pieceT) {
		t.Fatalf("simulation modified its input")
	}
}

func TestSimulateFourRotations(t *testing.T) {
	for i, piece := range tetris.Shapes {
		state := spawned(tetris.NewBoard(8, 10), piece, nil)
		working := state.Clone()
		for r := 0; r < 4; r++ {
			apply(&working, rot)
		}
		if !working.Piece.Equal(piece) {
			t.Errorf("shape %d: four rotations changed the piece", i)
		}
		rotated := Simulate(state, tetris.Sequence{rot, rot, rot, rot})
		plain := Simulate(state, tetris.Sequence{cont})
		if !sameCells(rotated.Board, plain.Board) {
			t.Errorf("shape %d: four rotations landed differently", i)
		}
	}
}

func TestSimulateHardDrop(t *testing.T) {
	state := spawned(tetris.NewBoard(6, 10), pieceO, pieceT)
	next := Simulate(state, tetris.Sequence{cont})

	want := parseBoard(
		"..........",
		"..........",
		"..........",
		"..........",
		"....##....",
		"....##....",
	)
	if !sameCells(next.Board, want) {
		t.Fatalf("board after drop:\n%s\nwant:\n%s", next.Board, want)
	}
	if !next.Piece.Equal(pieceT) || !next.Next.Empty() {
		t.Errorf("next piece was not brought in")
	}
	if next.X != tetris.SpawnX(10, pieceT) || next.Y != 0 || next.GameOver {
		t.Errorf("next piece at (%d, %d), game over %t", next.X, next.Y, next.GameOver)
	}
}

func TestSimulateIgnoresIllegalMoves(t *testing.T) {
	state := tetris.Snapshot{Board: tetris.NewBoard(4, 6), Piece: pieceO, X: 0}
	next := Simulate(state, tetris.Sequence{left, left})
	if !next.Board.Occupied(3, 0) || !next.Board.Occupied(3, 1) {
		t.Fatalf("piece did not stay against the wall:\n%s", next.Board)
	}
}

func TestSimulateClearsMultipleRows(t *testing.T) {
	state := spawned(parseBoard(
		"..........",
		"..........",
		"..........",
		"..........",
		".#########",
		".#########",
	), pieceI, nil)
	next := Simulate(state, tetris.Sequence{rot, left, left, left})

	want := parseBoard(
		"..........",
		"..........",
		"..........",
		"..........",
		"#.........",
		"#.........",
	)
	if !sameCells(next.Board, want) {
		t.Fatalf("board after clearing:\n%s\nwant:\n%s", next.Board, want)
	}
	if !next.Piece.Empty() {
		t.Errorf("without a next piece nothing should be left to play")
	}
}

func TestSimulatePlanStacksNextPiece(t *testing.T) {
	state := spawned(tetris.NewBoard(6, 10), pieceO, pieceO)
	next := SimulatePlan(state, tetris.Plan{
		First:  tetris.Sequence{cont},
		Second: tetris.Sequence{cont},
	})
	if PileHeight(next.Board) != 4 {
		t.Fatalf("expected two stacked squares:\n%s", next.Board)
	}
	if occupiedCells(next.Board) != 8 {
		t.Errorf("expected 8 occupied cells, got %d", occupiedCells(next.Board))
	}
}

func TestSimulateMatchesGame(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		g := tetris.NewGame(12, 8, seed)
		g.Reset()
		for step := 0; step < 40 && !g.GameOver(); step++ {
			state := g.Capture()
			next := Simulate(state, tetris.Sequence{cont})

			removed := occupiedCells(state.Board) + 4 - occupiedCells(next.Board)
			if removed < 0 || removed%state.Board.Cols() != 0 {
				t.Fatalf("seed %d step %d: %d cells vanished", seed, step, removed)
			}

			g.HardDrop()
			if !g.Capture().Board.Equal(next.Board) {
				t.Fatalf("seed %d step %d: simulation and game disagree:\n%s\nvs\n%s", seed, step, next.Board, g.Capture().Board)
			}
		}
	}
}
