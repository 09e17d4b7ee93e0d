package tetris

import (
	"golang.org/x/exp/rand"
)

var lineScores = []int{0, 40, 100, 300, 1200}

// GameStats are the counters of a single game
type GameStats struct {
	Score  int `json:"score"`
	Lines  int `json:"lines"`
	Level  int `json:"level"`
	Pieces int `json:"pieces"`
}

// Game is the live game the agent plays. It only moves in response to
// Execute; there is no gravity timer.
type Game struct {
	Rows int
	Cols int

	board    Board
	piece    Piece
	next     Piece
	x        int
	y        int
	gameOver bool
	stats    GameStats

	// Reset reseeds the generator with seed + resets
	seed   uint64
	resets int
	rand   *rand.Rand
}

// NewGame creates a game with the given number of playable rows and columns.
// Pieces are drawn from a generator seeded with seed.
func NewGame(rows, cols int, seed uint64) *Game {
	g := &Game{
		Rows:     rows,
		Cols:     cols,
		gameOver: true,
		seed:     seed,
		rand:     rand.New(rand.NewSource(seed)),
	}
	g.next = g.randomPiece()
	return g
}

func (g *Game) randomPiece() Piece {
	return Shapes[g.rand.Intn(len(Shapes))]
}

// Reset starts a new game and returns its initial state
func (g *Game) Reset() Snapshot {
	g.rand.Seed(g.seed + uint64(g.resets))
	g.resets += 1
	g.next = g.randomPiece()

	g.board = NewBoard(g.Rows, g.Cols)
	g.stats = GameStats{Level: 1}
	g.gameOver = false
	g.newPiece()
	return g.Capture()
}

func (g *Game) newPiece() {
	g.piece = g.next
	g.next = g.randomPiece()
	g.x = SpawnX(g.Cols, g.piece)
	g.y = 0
	if CheckCollision(g.board, g.piece, g.x, g.y) {
		g.gameOver = true
	}
}

// Capture returns a snapshot that owns a copy of the board
func (g *Game) Capture() Snapshot {
	return Snapshot{
		Board:    g.board.Clone(),
		Piece:    g.piece,
		Next:     g.next,
		X:        g.x,
		Y:        g.y,
		GameOver: g.gameOver,
	}
}

func (g *Game) Stats() GameStats {
	return g.stats
}

func (g *Game) GameOver() bool {
	return g.gameOver
}

// Execute applies one primitive input. Inputs that would collide are ignored.
func (g *Game) Execute(a Action) {
	if g.gameOver {
		return
	}
	switch a {
	case Rotate:
		rotated := RotateClockwise(g.piece)
		if !CheckCollision(g.board, rotated, g.x, g.y) {
			g.piece = rotated
		}
	case Left:
		g.move(-1)
	case Right:
		g.move(1)
	case AdvanceToNextPiece:
		g.HardDrop()
	case Continue:
	}
}

func (g *Game) move(dx int) {
	if !CheckCollision(g.board, g.piece, g.x+dx, g.y) {
		g.x += dx
	}
}

// HardDrop moves the piece down until it rests, locks it, clears full rows
// and spawns the next piece
func (g *Game) HardDrop() {
	if g.gameOver {
		return
	}
	for !CheckCollision(g.board, g.piece, g.x, g.y) {
		g.y += 1
	}
	Merge(g.board, g.piece, g.x, g.y-1)
	g.stats.Pieces += 1
	g.addClearedLines(RemoveFullRows(g.board))
	g.newPiece()
}

func (g *Game) addClearedLines(n int) {
	g.stats.Lines += n
	g.stats.Score += lineScores[min(n, len(lineScores)-1)] * g.stats.Level
	if g.stats.Lines >= g.stats.Level*6 {
		g.stats.Level += 1
	}
}
