package search

import (
	"math/bits"

	"chessengine/board"
)

// seeValue mirrors the piece-value table SEE compares exchanges against —
// not the tapered eval's material table, kept separate on purpose so tuning
// one doesn't silently retune the other.
var seeValue = [7]int32{
	board.NoKind: 0,
	board.Pawn:   100,
	board.Knight: 300,
	board.Bishop: 300,
	board.Rook:   500,
	board.Queen:  900,
	board.King:   10000,
}

func bitOf(sq board.Square) board.Bitboard { return board.Bitboard(1) << uint(sq) }

// pawnAttackersOf returns the squares on which a pawn of color by would
// stand to attack target.
func pawnAttackersOf(target board.Square, by board.Color) board.Bitboard {
	file, rank := target.File(), target.Rank()
	var originRank int
	if by == board.White {
		originRank = rank - 1
	} else {
		originRank = rank + 1
	}
	if originRank < 0 || originRank > 7 {
		return 0
	}
	var bb board.Bitboard
	if file > 0 {
		bb |= bitOf(board.MakeSquare(file-1, originRank))
	}
	if file < 7 {
		bb |= bitOf(board.MakeSquare(file+1, originRank))
	}
	return bb
}

// leastValuableAttacker finds the cheapest piece of color side, still present
// in occ, that attacks sq. Sliding attacks are recomputed against occ on
// every call, which is what lets captured/used-up blockers reveal x-ray
// attackers behind them as the exchange unwinds.
func leastValuableAttacker(p *board.Position, sq board.Square, side board.Color, occ board.Bitboard) (board.Square, board.PieceKind, bool) {
	if pawns := pawnAttackersOf(sq, side) & p.Pieces(side, board.Pawn) & occ; pawns != 0 {
		return board.Square(bits.TrailingZeros64(pawns)), board.Pawn, true
	}
	if knights := board.AttacksFrom(board.Knight, sq, occ) & p.Pieces(side, board.Knight) & occ; knights != 0 {
		return board.Square(bits.TrailingZeros64(knights)), board.Knight, true
	}
	if bishops := board.AttacksFrom(board.Bishop, sq, occ) & p.Pieces(side, board.Bishop) & occ; bishops != 0 {
		return board.Square(bits.TrailingZeros64(bishops)), board.Bishop, true
	}
	if rooks := board.AttacksFrom(board.Rook, sq, occ) & p.Pieces(side, board.Rook) & occ; rooks != 0 {
		return board.Square(bits.TrailingZeros64(rooks)), board.Rook, true
	}
	if queens := board.AttacksFrom(board.Queen, sq, occ) & p.Pieces(side, board.Queen) & occ; queens != 0 {
		return board.Square(bits.TrailingZeros64(queens)), board.Queen, true
	}
	if kings := board.AttacksFrom(board.King, sq, occ) & p.Pieces(side, board.King) & occ; kings != 0 {
		return board.Square(bits.TrailingZeros64(kings)), board.King, true
	}
	return board.NoSquare, board.NoKind, false
}

// SEE runs the static exchange evaluation swap algorithm on m and returns the
// material balance of the exchange on m.To(), from the mover's perspective.
// m is assumed to be a capture (or en passant); calling it on a quiet move
// returns 0.
func SEE(p *board.Position, m board.Move) int32 {
	to := m.To()
	from := m.From()
	us := p.SideToMove()
	them := us.Other()

	var gain [32]int32
	depth := 0

	var capturedValue int32
	if m.IsEnPassant() {
		capturedValue = seeValue[board.Pawn]
	} else {
		capturedValue = seeValue[m.CapturedPiece().Kind()]
	}
	if capturedValue == 0 && !m.IsCapture() && !m.IsEnPassant() {
		return 0
	}
	gain[0] = capturedValue

	occ := p.OccupancyAll()
	occ &^= bitOf(from)
	if m.IsEnPassant() {
		capSq := board.MakeSquare(to.File(), from.Rank())
		occ &^= bitOf(capSq)
	}

	attackerKind := m.MovedPiece().Kind()
	side := them
	for {
		depth++
		gain[depth] = seeValue[attackerKind] - gain[depth-1]
		if Max(-gain[depth-1], gain[depth]) < 0 {
			break
		}
		sq, kind, found := leastValuableAttacker(p, to, side, occ)
		if !found {
			break
		}
		occ &^= bitOf(sq)
		attackerKind = kind
		side = side.Other()
		if depth == len(gain)-1 {
			break
		}
	}

	for d := depth - 1; d > 0; d-- {
		gain[d-1] = -Max(-gain[d-1], gain[d])
	}
	return gain[0]
}
