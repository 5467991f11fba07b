package board

import "testing"

func TestLegalMovesNeverLeaveMoverInCheck(t *testing.T) {
	positions := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	}
	var buf [MaxMoves]Move
	for _, fen := range positions {
		p, err := PositionFromFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		mover := p.SideToMove()
		for _, m := range p.LegalMoves(buf[:0]) {
			if err := p.Make(m); err != nil {
				t.Fatalf("Make rejected a move LegalMoves produced: %s: %v", m, err)
			}
			if p.InCheck(mover) {
				t.Fatalf("legal move %s left %s in check", m, mover)
			}
			p.Unmake()
		}
	}
}

func TestLegalCapturesAreSubsetOfLegalMoves(t *testing.T) {
	p, err := PositionFromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var allBuf, capBuf [MaxMoves]Move
	all := p.LegalMoves(allBuf[:0])
	caps := p.LegalCaptures(capBuf[:0])

	allSet := make(map[Move]bool, len(all))
	for _, m := range all {
		allSet[m] = true
	}
	for _, m := range caps {
		if !m.IsCapture() && !m.IsEnPassant() {
			t.Fatalf("LegalCaptures produced a non-capture: %s", m)
		}
		if !allSet[m] {
			t.Fatalf("capture %s missing from full legal move list", m)
		}
	}
}

func TestCheckmateHasNoLegalMoves(t *testing.T) {
	// Fool's mate.
	p, err := PositionFromFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if err != nil {
		t.Fatal(err)
	}
	var buf [MaxMoves]Move
	moves := p.LegalMoves(buf[:0])
	if len(moves) != 0 {
		t.Fatalf("expected no legal moves in checkmate, got %d", len(moves))
	}
	if !p.InCheck(p.SideToMove()) {
		t.Fatalf("expected side to move to be in check")
	}
}

func TestStalemateHasNoLegalMoves(t *testing.T) {
	p, err := PositionFromFEN("k7/8/1Q6/8/8/8/8/7K b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var buf [MaxMoves]Move
	moves := p.LegalMoves(buf[:0])
	if len(moves) != 0 {
		t.Fatalf("expected no legal moves in stalemate, got %d", len(moves))
	}
	if p.InCheck(p.SideToMove()) {
		t.Fatalf("stalemate position should not be in check")
	}
}

func TestPinnedPieceCannotLeavePinLine(t *testing.T) {
	// King e1, bishop pinned on e2 by black rook on e8.
	p, err := PositionFromFEN("4r3/8/8/8/8/8/4B3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var buf [MaxMoves]Move
	moves := p.LegalMoves(buf[:0])
	for _, m := range moves {
		if m.From() == MakeSquare(4, 1) && m.To().File() != 4 {
			t.Fatalf("pinned bishop escaped the pin line via %s", m)
		}
	}
}

func TestOccupancyBitboardsAreDisjointAndConsistent(t *testing.T) {
	p := NewPosition()
	bufs := make([][MaxMoves]Move, 4)
	var walk func(depth int)
	walk = func(depth int) {
		if p.Occupancy(White)&p.Occupancy(Black) != 0 {
			t.Fatalf("white/black occupancy overlap")
		}
		if !p.Validate() {
			t.Fatalf("position failed Validate")
		}
		if depth == 0 {
			return
		}
		buf := &bufs[depth]
		for _, m := range p.LegalMoves(buf[:0]) {
			if err := p.Make(m); err != nil {
				continue
			}
			walk(depth - 1)
			p.Unmake()
		}
	}
	walk(3)
}
