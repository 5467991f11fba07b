package board

// Make applies m to the position, pushing a HistoryEntry that Unmake later
// consumes to reverse it exactly. Grounded on goosemg's MakeMove/UnmakeMove:
// capture removal, the moved piece's placement (or promotion), castling rook
// relocation, castling-rights maintenance (including the case where a rook
// is captured on its own home square), en-passant-square bookkeeping, and
// the side-to-move toggle all mirror that procedure. Unlike the reference
// implementation, double pawn pushes are recognized via the move's
// FlagDoublePush rather than re-deriving it from a rank delta, since the
// generator already has that information when it builds the move.
//
// Make runs a post-hoc legality check (same as the reference MakeMove) as a
// defensive safety net: every move LegalMoves produces is already legal by
// construction, so the check exists to catch misuse from hand-built Move
// values, not to carry the generator's legality burden.
func (p *Position) Make(m Move) error {
	entry := HistoryEntry{
		Move:          m,
		PriorCastling: p.castling,
		PriorEPSquare: p.epSquare,
		PriorHalfmove: p.halfmoveClock,
		PriorZobrist:  p.hash,
	}

	us := p.sideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	moved := m.MovedPiece()

	p.hash ^= p.zt.castle[p.castling]
	if p.epSquare != NoSquare {
		p.hash ^= p.zt.enPassant[p.epSquare.File()]
	}
	p.epSquare = NoSquare

	switch m.Flag() {
	case FlagEnPassant:
		capSq := MakeSquare(to.File(), from.Rank())
		entry.Captured = p.removePiece(capSq)
	default:
		if captured := p.squares[to]; captured != NoPiece {
			entry.Captured = p.removePiece(to)
		}
	}

	p.removePiece(from)
	if promo := m.PromotionPiece(); promo != NoPiece {
		p.addPiece(to, promo)
	} else {
		p.addPiece(to, moved)
	}

	if m.Flag() == FlagCastle {
		if to == 6 {
			entry.CastleRookFrom, entry.CastleRookTo = 7, 5
		} else if to == 2 {
			entry.CastleRookFrom, entry.CastleRookTo = 0, 3
		} else if to == 62 {
			entry.CastleRookFrom, entry.CastleRookTo = 63, 61
		} else {
			entry.CastleRookFrom, entry.CastleRookTo = 56, 59
		}
		rook := p.removePiece(entry.CastleRookFrom)
		p.addPiece(entry.CastleRookTo, rook)
	}

	switch from {
	case 4:
		p.castling &^= CastleWhiteKingside | CastleWhiteQueenside
	case 60:
		p.castling &^= CastleBlackKingside | CastleBlackQueenside
	case 0:
		p.castling &^= CastleWhiteQueenside
	case 7:
		p.castling &^= CastleWhiteKingside
	case 56:
		p.castling &^= CastleBlackQueenside
	case 63:
		p.castling &^= CastleBlackKingside
	}
	switch to {
	case 0:
		p.castling &^= CastleWhiteQueenside
	case 7:
		p.castling &^= CastleWhiteKingside
	case 56:
		p.castling &^= CastleBlackQueenside
	case 63:
		p.castling &^= CastleBlackKingside
	}

	if m.Flag() == FlagDoublePush {
		p.epSquare = MakeSquare(from.File(), (int(from.Rank())+int(to.Rank()))/2)
		p.hash ^= p.zt.enPassant[p.epSquare.File()]
	}

	p.hash ^= p.zt.castle[p.castling]

	if moved.Kind() == Pawn || entry.Captured != NoPiece {
		p.halfmoveClock = 0
	} else {
		p.halfmoveClock++
	}
	if us == Black {
		p.fullmoveNumber++
	}

	p.sideToMove = them
	p.hash ^= p.zt.side

	ks := p.KingSquare(us)
	if ks != NoSquare && p.isAttacked(ks, them, p.OccupancyAll()) {
		p.unmakeTo(entry)
		return &IllegalMove{Move: m, Reason: "leaves own king in check"}
	}

	p.history = append(p.history, entry)
	return nil
}

// Unmake reverses the most recent Make call. Panics if the history stack is
// empty, mirroring the contract that Unmake is only ever called to balance a
// prior successful Make.
func (p *Position) Unmake() {
	n := len(p.history)
	if n == 0 {
		panic("board: Unmake called with empty history")
	}
	entry := p.history[n-1]
	p.history = p.history[:n-1]
	p.unmakeTo(entry)
}

// unmakeTo performs the raw reversal shared by Unmake and Make's own
// failed-legality rollback. It does not touch p.history.
func (p *Position) unmakeTo(entry HistoryEntry) {
	m := entry.Move
	from, to := m.From(), m.To()

	them := p.sideToMove
	us := them.Other()
	p.sideToMove = us

	if promo := m.PromotionPiece(); promo != NoPiece {
		p.removePiece(to)
		p.addPiece(from, m.MovedPiece())
	} else {
		moved := p.removePiece(to)
		p.addPiece(from, moved)
	}

	if m.Flag() == FlagCastle {
		rook := p.removePiece(entry.CastleRookTo)
		p.addPiece(entry.CastleRookFrom, rook)
	}

	if entry.Captured != NoPiece {
		if m.Flag() == FlagEnPassant {
			capSq := MakeSquare(to.File(), from.Rank())
			p.addPiece(capSq, entry.Captured)
		} else {
			p.addPiece(to, entry.Captured)
		}
	}

	p.castling = entry.PriorCastling
	p.epSquare = entry.PriorEPSquare
	p.halfmoveClock = entry.PriorHalfmove
	if us == Black {
		p.fullmoveNumber--
	}
	p.hash = entry.PriorZobrist
}

// MakeNull toggles the side to move and clears the en-passant square without
// moving a piece, pushing a history entry so UnmakeNull can restore it. Used
// by the null-move pruning heuristic in search.
func (p *Position) MakeNull() {
	entry := HistoryEntry{Move: NoMove, PriorCastling: p.castling, PriorEPSquare: p.epSquare, PriorHalfmove: p.halfmoveClock, PriorZobrist: p.hash}
	if p.epSquare != NoSquare {
		p.hash ^= p.zt.enPassant[p.epSquare.File()]
		p.epSquare = NoSquare
	}
	p.sideToMove = p.sideToMove.Other()
	p.hash ^= p.zt.side
	p.history = append(p.history, entry)
}

// UnmakeNull reverses the most recent MakeNull call.
func (p *Position) UnmakeNull() {
	n := len(p.history)
	if n == 0 {
		panic("board: UnmakeNull called with empty history")
	}
	entry := p.history[n-1]
	p.history = p.history[:n-1]
	p.sideToMove = p.sideToMove.Other()
	p.epSquare = entry.PriorEPSquare
	p.hash = entry.PriorZobrist
}
