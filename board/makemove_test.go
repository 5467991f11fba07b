package board

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMakeUnmakeNormalMove(t *testing.T) {
	p := NewPosition()
	startFEN := p.ToFEN()
	startZ := p.ComputeZobrist()

	m := NewMove(MakeSquare(4, 1), MakeSquare(4, 3), WhitePawn, NoPiece, NoPiece, FlagDoublePush)
	if err := p.Make(m); err != nil {
		t.Fatalf("Make failed for normal move: %v", err)
	}
	if !p.Validate() {
		t.Fatalf("position invalid after Make")
	}
	p.Unmake()
	if !p.Validate() {
		t.Fatalf("position invalid after Unmake")
	}
	if got := p.ToFEN(); got != startFEN {
		t.Fatalf("FEN mismatch after unmake: got %q want %q", got, startFEN)
	}
	if p.ComputeZobrist() != startZ {
		t.Fatalf("zobrist mismatch after unmake")
	}
}

func TestMakeUnmakeCapture(t *testing.T) {
	p, err := PositionFromFEN("8/7r/8/8/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	startZ := p.ComputeZobrist()
	m := NewMove(0, MakeSquare(7, 6), WhiteRook, BlackRook, NoPiece, FlagNone)
	if err := p.Make(m); err != nil {
		t.Fatalf("Make failed for capture: %v", err)
	}
	if !p.Validate() {
		t.Fatalf("position invalid after capture Make")
	}
	p.Unmake()
	if !p.Validate() {
		t.Fatalf("position invalid after capture Unmake")
	}
	if p.ComputeZobrist() != startZ {
		t.Fatalf("zobrist mismatch after capture unmake")
	}
}

func TestMakeUnmakeEnPassant(t *testing.T) {
	p, err := PositionFromFEN("k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
	if err != nil {
		t.Fatal(err)
	}
	startZ := p.ComputeZobrist()
	from := MakeSquare(4, 4) // e5
	to := MakeSquare(3, 5)   // d6
	m := NewMove(from, to, WhitePawn, BlackPawn, NoPiece, FlagEnPassant)
	if err := p.Make(m); err != nil {
		t.Fatalf("Make failed for en passant: %v", err)
	}
	if !p.Validate() {
		t.Fatalf("position invalid after en-passant Make")
	}
	if got := p.PieceAt(MakeSquare(3, 4)); got != NoPiece {
		t.Fatalf("captured pawn still on d5: %v", got)
	}
	p.Unmake()
	if !p.Validate() {
		t.Fatalf("position invalid after en-passant Unmake")
	}
	if p.ComputeZobrist() != startZ {
		t.Fatalf("zobrist mismatch after en-passant unmake")
	}
}

func TestMakeUnmakeCastling(t *testing.T) {
	p, err := PositionFromFEN("4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	startZ := p.ComputeZobrist()
	m := NewMove(4, 6, WhiteKing, NoPiece, NoPiece, FlagCastle)
	if err := p.Make(m); err != nil {
		t.Fatalf("Make failed for castling: %v", err)
	}
	if !p.Validate() {
		t.Fatalf("position invalid after castling Make")
	}
	if got := p.PieceAt(5); got != WhiteRook {
		t.Fatalf("expected rook on f1 after castling, got %v", got)
	}
	p.Unmake()
	if !p.Validate() {
		t.Fatalf("position invalid after castling Unmake")
	}
	if p.ComputeZobrist() != startZ {
		t.Fatalf("zobrist mismatch after castling unmake")
	}
}

func TestMakeRejectsSelfCheck(t *testing.T) {
	p, err := PositionFromFEN("4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	before := p.ToFEN()
	m := NewMove(4, 11, WhiteKing, NoPiece, NoPiece, FlagNone)
	if err := p.Make(m); err == nil {
		t.Fatalf("expected Make to reject a move leaving the king in check")
	}
	if got := p.ToFEN(); got != before {
		t.Fatalf("position mutated despite rejected Make: got %q want %q", got, before)
	}
}

// TestMakeUnmakeRestoresPositionExactly compares the whole struct, field by
// field, rather than the handful of properties the other round-trip tests
// check individually — a cheaper way to catch a field a future change to
// Make/Unmake forgets to restore than growing this file's assertion list
// every time a new field is added to Position.
func TestMakeUnmakeRestoresPositionExactly(t *testing.T) {
	p, err := PositionFromFEN("r3k2r/pp3ppp/8/3pP3/8/8/PPP2PPP/R3K2R w KQkq d6 0 12")
	if err != nil {
		t.Fatal(err)
	}
	before := p.Clone()

	moves := []Move{
		NewMove(MakeSquare(4, 0), MakeSquare(6, 0), WhiteKing, NoPiece, NoPiece, FlagCastle),
		NewMove(MakeSquare(4, 4), MakeSquare(3, 5), WhitePawn, BlackPawn, NoPiece, FlagEnPassant),
		NewMove(MakeSquare(0, 1), MakeSquare(0, 3), WhitePawn, NoPiece, NoPiece, FlagDoublePush),
	}

	for _, m := range moves {
		if err := p.Make(m); err != nil {
			t.Fatalf("Make(%v) failed: %v", m, err)
		}
		p.Unmake()
		if diff := cmp.Diff(before, p, cmp.AllowUnexported(Position{}, zobristTable{})); diff != "" {
			t.Fatalf("position differs from pre-Make snapshot after Make/Unmake(%v):\n%s", m, diff)
		}
	}
}

func TestMakeNullRoundTrip(t *testing.T) {
	p := NewPosition()
	startZ := p.ComputeZobrist()
	p.MakeNull()
	if p.SideToMove() != Black {
		t.Fatalf("MakeNull did not toggle side to move")
	}
	p.UnmakeNull()
	if p.SideToMove() != White || p.ComputeZobrist() != startZ {
		t.Fatalf("UnmakeNull did not restore prior state")
	}
}
