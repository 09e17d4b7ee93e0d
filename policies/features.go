package policies

import (
	"sort"

	"github.com/zeu5/tetris-rl/tetris"
)

// Feature names a scalar signal of a state transition
type Feature string

const (
	FeaturePileHeight Feature = "PILE_HEIGHT"
	FeatureHoles      Feature = "HOLES"
	FeatureContours   Feature = "CONTOURS"
)

// AllFeatures is the fixed set of features, in a stable order
var AllFeatures = []Feature{FeaturePileHeight, FeatureHoles, FeatureContours}

// IsKnown reports whether f is one of AllFeatures
func IsKnown(f Feature) bool {
	for _, known := range AllFeatures {
		if f == known {
			return true
		}
	}
	return false
}

// Features maps feature names to values
type Features map[Feature]float64

// Names returns the feature names sorted
func (f Features) Names() []Feature {
	names := make([]Feature, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Extract computes the change (successor - state) of every board measure
func Extract(state, successor tetris.Snapshot) Features {
	return Features{
		FeaturePileHeight: float64(PileHeight(successor.Board) - PileHeight(state.Board)),
		FeatureHoles:      float64(Holes(successor.Board) - Holes(state.Board)),
		FeatureContours:   float64(Contours(successor.Board) - Contours(state.Board)),
	}
}

// ColumnHeight is the height of the topmost occupied cell of the column
// above the floor, 0 for an empty column
func ColumnHeight(board tetris.Board, col int) int {
	playable := board.PlayableRows()
	for row := 0; row < playable; row++ {
		if board.Occupied(row, col) {
			return playable - row
		}
	}
	return 0
}

// PileHeight is the height of the tallest column
func PileHeight(board tetris.Board) int {
	height := 0
	for col := 0; col < board.Cols(); col++ {
		if h := ColumnHeight(board, col); h > height {
			height = h
		}
	}
	return height
}

// Holes counts the empty cells covered by an occupied cell. Every empty cell
// directly under an occupied one starts a pocket that extends down the
// contiguous empty run beneath it.
func Holes(board tetris.Board) int {
	playable := board.PlayableRows()
	holes := 0
	for row := 1; row < playable; row++ {
		for col := 0; col < board.Cols(); col++ {
			if board.Occupied(row, col) || !board.Occupied(row-1, col) {
				continue
			}
			holes += 1
			for below := row + 1; below < playable && !board.Occupied(below, col); below++ {
				holes += 1
			}
		}
	}
	return holes
}

// Contours sums the absolute height differences of adjacent columns
func Contours(board tetris.Board) int {
	total := 0
	for col := 1; col < board.Cols(); col++ {
		total += abs(ColumnHeight(board, col) - ColumnHeight(board, col-1))
	}
	return total
}
