package tetris

import "testing"

func TestGameReset(t *testing.T) {
	g := NewGame(22, 10, 1)
	s := g.Reset()
	if s.GameOver {
		t.Fatalf("fresh game is over")
	}
	if s.X != SpawnX(10, s.Piece) || s.Y != 0 {
		t.Errorf("piece spawned at (%d, %d)", s.X, s.Y)
	}
	if s.Next.Empty() {
		t.Errorf("no next piece")
	}
	if stats := g.Stats(); stats.Level != 1 || stats.Pieces != 0 || stats.Score != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestGameCaptureOwnsBoard(t *testing.T) {
	g := NewGame(6, 6, 1)
	s := g.Reset()
	s.Board[0][0] = 9
	if g.Capture().Board.Occupied(0, 0) {
		t.Fatalf("snapshot shares the live board")
	}
}

func TestGameIllegalMoveIgnored(t *testing.T) {
	g := NewGame(6, 6, 3)
	g.Reset()
	for i := 0; i < 10; i++ {
		g.Execute(Left)
	}
	if s := g.Capture(); s.X != 0 {
		t.Fatalf("piece moved past the wall to x=%d", s.X)
	}
}

func TestGameHardDrop(t *testing.T) {
	g := NewGame(6, 6, 5)
	before := g.Reset()
	g.Execute(AdvanceToNextPiece)
	after := g.Capture()
	if g.Stats().Pieces != 1 {
		t.Fatalf("expected one locked piece, got %d", g.Stats().Pieces)
	}
	if !after.Piece.Equal(before.Next) {
		t.Errorf("next piece did not become current")
	}
	occupied := 0
	for i := 0; i < after.Board.PlayableRows(); i++ {
		for j := 0; j < after.Board.Cols(); j++ {
			if after.Board.Occupied(i, j) {
				occupied++
			}
		}
	}
	if occupied != 4 {
		t.Errorf("expected 4 occupied cells, got %d", occupied)
	}
}

func TestGameEndsWhenStacked(t *testing.T) {
	g := NewGame(8, 6, 7)
	g.Reset()
	for i := 0; i < 100 && !g.GameOver(); i++ {
		g.HardDrop()
	}
	if !g.GameOver() {
		t.Fatalf("stacking pieces in the middle never ended the game")
	}
	pieces := g.Stats().Pieces
	g.Execute(AdvanceToNextPiece)
	if g.Stats().Pieces != pieces {
		t.Errorf("input accepted after game over")
	}
}

func TestGameClearsLines(t *testing.T) {
	g := NewGame(4, 4, 11)
	g.Reset()
	g.board = parseBoard(
		"....",
		"....",
		"....",
		"....",
	)
	g.piece = Shapes[5]
	g.x, g.y = 0, 0
	g.HardDrop()
	stats := g.Stats()
	if stats.Lines != 1 || stats.Score != 40 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestGameSameSeedDealsSamePieces(t *testing.T) {
	long := NewGame(22, 10, 13)
	short := NewGame(22, 10, 13)

	for episode := 0; episode < 3; episode++ {
		a := long.Reset()
		b := short.Reset()
		if !a.Piece.Equal(b.Piece) || !a.Next.Equal(b.Next) {
			t.Fatalf("episode %d: games dealt different first pieces", episode)
		}
		// play one game much longer than the other
		for !long.GameOver() {
			long.HardDrop()
		}
		short.HardDrop()
	}

	a := long.Reset()
	b := short.Reset()
	for i := 0; i < 20 && !a.GameOver && !b.GameOver; i++ {
		if !a.Piece.Equal(b.Piece) {
			t.Fatalf("piece %d differs after reset", i)
		}
		long.HardDrop()
		short.HardDrop()
		a = long.Capture()
		b = short.Capture()
	}
}

func TestGameResetsDealDifferentGames(t *testing.T) {
	g := NewGame(22, 10, 13)
	first := make([]Piece, 0)
	s := g.Reset()
	for i := 0; i < 10; i++ {
		first = append(first, s.Piece)
		g.HardDrop()
		s = g.Capture()
	}
	s = g.Reset()
	for i := 0; i < 10; i++ {
		if !s.Piece.Equal(first[i]) {
			return
		}
		g.HardDrop()
		s = g.Capture()
	}
	t.Errorf("two episodes dealt the same 10 pieces")
}
