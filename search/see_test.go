package search

import (
	"testing"

	"chessengine/board"
)

func moveFromCoord(t *testing.T, p *board.Position, coord string) board.Move {
	t.Helper()
	var buf [board.MaxMoves]board.Move
	from, to := board.MakeSquare(int(coord[0]-'a'), int(coord[1]-'1')), board.MakeSquare(int(coord[2]-'a'), int(coord[3]-'1'))
	for _, m := range p.LegalMoves(buf[:0]) {
		if m.From() == from && m.To() == to {
			return m
		}
	}
	t.Fatalf("no legal move %s in position %s", coord, p.ToFEN())
	return board.NoMove
}

func TestSEEDefendedEvenTradeScoresZero(t *testing.T) {
	p, err := board.PositionFromFEN("6k1/4q1p1/4n3/8/2B5/8/8/6K1 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}

	move := moveFromCoord(t, p, "c4e6")

	score := SEE(p, move)
	if score != 0 {
		t.Fatalf("expected SEE score 0, got %d", score)
	}
}

func TestSEEHandlesEnPassantCapture(t *testing.T) {
	p, err := board.PositionFromFEN("8/8/8/3pP3/8/8/8/6K1 w - d6 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}

	move := moveFromCoord(t, p, "e5d6")
	if !move.IsEnPassant() {
		t.Fatalf("expected en passant flag to be set, got flag %d", move.Flag())
	}

	score := SEE(p, move)
	if score != seeValue[board.Pawn] {
		t.Fatalf("expected SEE score %d, got %d", seeValue[board.Pawn], score)
	}
}

func TestSEEWinningCaptureIsPositive(t *testing.T) {
	p, err := board.PositionFromFEN("4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}

	move := moveFromCoord(t, p, "e4d5")
	score := SEE(p, move)
	if score <= 0 {
		t.Fatalf("expected a winning pawn-takes-queen capture, got %d", score)
	}
}

func TestSEELosingCaptureIsNegative(t *testing.T) {
	p, err := board.PositionFromFEN("4k3/8/8/2p5/3p4/1N6/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}

	move := moveFromCoord(t, p, "b3d4")
	if score := SEE(p, move); score >= 0 {
		t.Fatalf("expected a losing knight-takes-defended-pawn capture, got %d", score)
	}
}
