package chessengine

import (
	"testing"

	"chessengine/board"
)

func TestPerftStartingPositionDepthOne(t *testing.T) {
	p := NewPosition()
	if got := Perft(p, 1); got != 20 {
		t.Fatalf("perft(1) from startpos = %d, want 20", got)
	}
}

func TestDivideSumsToPerft(t *testing.T) {
	p := NewPosition()
	div := Divide(p, 2)
	var sum uint64
	for _, n := range div {
		sum += n
	}
	if want := Perft(p, 2); sum != want {
		t.Fatalf("divide total = %d, want %d", sum, want)
	}
}

func TestFENRoundTrip(t *testing.T) {
	fen := "r3k2r/pp3ppp/8/3pP3/8/8/PPP2PPP/R3K2R w KQkq d6 0 12"
	p, err := PositionFromFEN(fen)
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	if got := p.ToFEN(); got != fen {
		t.Fatalf("ToFEN = %q, want %q", got, fen)
	}
}

func TestMoveFromCoordResolvesLegalMove(t *testing.T) {
	p := NewPosition()
	m, err := MoveFromCoord(p, "e2e4")
	if err != nil {
		t.Fatalf("MoveFromCoord: %v", err)
	}
	if err := p.Make(m); err != nil {
		t.Fatalf("Make(e2e4) failed: %v", err)
	}
}

func TestMoveFromCoordRejectsIllegalMove(t *testing.T) {
	p := NewPosition()
	if _, err := MoveFromCoord(p, "e2e5"); err == nil {
		t.Fatalf("expected an error for an illegal move")
	}
}

func TestMoveFromCoordParsesPromotion(t *testing.T) {
	p, err := PositionFromFEN("8/4P3/6k1/8/8/8/7K/8 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	m, err := MoveFromCoord(p, "e7e8q")
	if err != nil {
		t.Fatalf("MoveFromCoord: %v", err)
	}
	if m.PromotionPiece().Kind() != board.Queen {
		t.Fatalf("expected a queen promotion, got piece kind %v", m.PromotionPiece().Kind())
	}
}

func TestMoveFromCoordRejectsGarbage(t *testing.T) {
	p := NewPosition()
	if _, err := MoveFromCoord(p, "z9z9"); err == nil {
		t.Fatalf("expected an error for an out-of-range square")
	}
	if _, err := MoveFromCoord(p, "e2"); err == nil {
		t.Fatalf("expected an error for a too-short string")
	}
}

func TestEngineSearchReturnsLegalMove(t *testing.T) {
	p := NewPosition()
	engine := NewEngine(DefaultOptions())
	best := engine.Search(p, SearchLimit{Depth: 3}, nil)

	var buf [256]Move
	found := false
	for _, m := range p.LegalMoves(buf[:0]) {
		if m == best {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("Engine.Search returned a move not in the position's legal set: %v", best)
	}
}

func TestEvaluateFavorsMaterialAdvantage(t *testing.T) {
	p, err := PositionFromFEN("4k3/8/8/8/8/8/8/RR2K3 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	if score := Evaluate(p); score <= 0 {
		t.Fatalf("expected white's two extra rooks to score positive for the side to move, got %d", score)
	}
}
