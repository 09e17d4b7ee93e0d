package policies

import (
	"testing"

	"github.com/zeu5/tetris-rl/tetris"
)

func TestLegalSequencesOpenBoard(t *testing.T) {
	state := tetris.Snapshot{
		Board: tetris.NewBoard(6, 10),
		Piece: pieceT,
		X:     4,
	}
	sequences := LegalSequences(state)

	assertSequences(t, sequences,
		tetris.Sequence{cont},
		tetris.Sequence{left},
		tetris.Sequence{left, left},
		tetris.Sequence{left, left, left},
		tetris.Sequence{left, left, left, left},
		tetris.Sequence{right},
		tetris.Sequence{right, right},
		tetris.Sequence{right, right, right},
		tetris.Sequence{rot, cont},
	)
	// widths 3, 2, 3, 2 give 8 + 9 + 8 + 9 placements
	if len(sequences) != 34 {
		t.Errorf("expected 34 sequences, got %d", len(sequences))
	}
}

func TestLegalSequencesStopAtObstacle(t *testing.T) {
	rows := emptyRows(6, 10)
	rows[0] = ".#........"
	state := tetris.Snapshot{
		Board: parseBoard(rows...),
		Piece: pieceI,
		X:     3,
	}
	assertSequences(t, LegalSequences(state),
		tetris.Sequence{cont},
		tetris.Sequence{left},
		tetris.Sequence{right},
		tetris.Sequence{right, right},
		tetris.Sequence{right, right, right},
		tetris.Sequence{rot, cont},
	)
}

func TestLegalSequencesContiguousOffsets(t *testing.T) {
	rows := emptyRows(8, 10)
	rows[1] = "#........#"
	rows[2] = "##......##"
	for _, piece := range tetris.Shapes {
		state := spawned(parseBoard(rows...), piece, nil)
		for rotations := 0; rotations < 4; rotations++ {
			offsets := legalOffsets(state)
			for i, dx := range offsets {
				inner := dx + 1
				if dx > 0 {
					inner = dx - 1
				}
				if dx == 0 || dx == 1 {
					continue
				}
				found := false
				for _, other := range offsets[:i] {
					if other == inner {
						found = true
					}
				}
				if !found {
					t.Errorf("offset %d legal without %d", dx, inner)
				}
			}
			rotate(&state)
		}
	}
}

func TestLegalSequencesPinned(t *testing.T) {
	rows := emptyRows(4, 6)
	rows[0] = "#####."
	state := spawned(parseBoard(rows...), pieceO, nil)
	sequences := LegalSequences(state)
	if len(sequences) != 1 || !sequences[0].Equal(tetris.Sequence{cont}) {
		t.Fatalf("expected the [CONTINUE] fallback, got %v", sequences)
	}
}

func TestOffsetSequence(t *testing.T) {
	tests := []struct {
		rotations, offset int
		want              tetris.Sequence
	}{
		{0, 0, tetris.Sequence{cont}},
		{2, 0, tetris.Sequence{rot, rot, cont}},
		{1, -2, tetris.Sequence{rot, left, left}},
		{3, 1, tetris.Sequence{rot, rot, rot, right}},
	}
	for _, tt := range tests {
		if got := OffsetSequence(tt.rotations, tt.offset); !got.Equal(tt.want) {
			t.Errorf("OffsetSequence(%d, %d) = %s, want %s", tt.rotations, tt.offset, got, tt.want)
		}
	}
}
