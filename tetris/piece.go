package tetris

import "strings"

// Piece is a small grid of cells, 0 for empty and the shape id otherwise.
// Pieces are never modified after creation.
type Piece [][]int

// Shapes is the catalogue of the 7 tetrominoes
var Shapes = []Piece{
	{
		{1, 1, 1},
		{0, 1, 0},
	},
	{
		{0, 2, 2},
		{2, 2, 0},
	},
	{
		{3, 3, 0},
		{0, 3, 3},
	},
	{
		{4, 0, 0},
		{4, 4, 4},
	},
	{
		{0, 0, 5},
		{5, 5, 5},
	},
	{
		{6, 6, 6, 6},
	},
	{
		{7, 7},
		{7, 7},
	},
}

func (p Piece) Width() int {
	if len(p) == 0 {
		return 0
	}
	return len(p[0])
}

func (p Piece) Height() int {
	return len(p)
}

// Empty is true when there is no piece, e.g. the next piece after the
// lookahead has consumed it
func (p Piece) Empty() bool {
	return len(p) == 0
}

func (p Piece) Equal(other Piece) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if len(p[i]) != len(other[i]) {
			return false
		}
		for j := range p[i] {
			if p[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}

func (p Piece) String() string {
	rows := make([]string, len(p))
	for i, row := range p {
		var sb strings.Builder
		for _, cell := range row {
			if cell == 0 {
				sb.WriteByte('.')
			} else {
				sb.WriteByte('#')
			}
		}
		rows[i] = sb.String()
	}
	return strings.Join(rows, "\n")
}

// RotateClockwise returns a new piece turned 90 degrees clockwise
func RotateClockwise(p Piece) Piece {
	h, w := p.Height(), p.Width()
	out := make(Piece, w)
	for r := 0; r < w; r++ {
		out[r] = make([]int, h)
		for c := 0; c < h; c++ {
			out[r][c] = p[h-1-c][r]
		}
	}
	return out
}

// SpawnX is the column a fresh piece enters at
func SpawnX(cols int, p Piece) int {
	return cols/2 - p.Width()/2
}
