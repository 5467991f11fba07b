package board

import "math/bits"

// MaxMoves bounds the largest possible legal move list in any reachable
// chess position (the true theoretical maximum is 218); callers pass a
// stack-allocated [MaxMoves]Move buffer so no generator call allocates.
const MaxMoves = 256

// genFilter selects which subset of legal moves generateInto produces.
type genFilter int

const (
	genAll genFilter = iota
	genCaptures
	genQuiets
)

// checkState bundles the per-node check/pin information the legality filter
// needs: whether the mover is in check, whether by two pieces at once (in
// which case only the king may move), the set of squares a non-king piece
// may move to when in single check (block or capture the checker), and, per
// square, the line a pinned piece may still move along.
type checkState struct {
	inCheck     bool
	doubleCheck bool
	checkMask   Bitboard
	pinLine     [64]Bitboard
}

// computeCheckState computes pins and checks against the side-to-move's
// king. Grounded on the reference generator's computeCheckAndPins: walking
// the rook/bishop rays from the king once, rather than probing every piece
// individually, to build both the check mask and the pin lines in a single
// pass.
func (p *Position) computeCheckState(side Color, occ Bitboard) checkState {
	var st checkState
	us, them := side, side.Other()

	kingBB := p.pieces[us][King]
	if kingBB == 0 {
		return st
	}
	ksq := lsb(kingBB)

	var checkers Bitboard
	checkers |= pawnAttacks[us][ksq] & p.pieces[them][Pawn]
	checkers |= knightAttacks[ksq] & p.pieces[them][Knight]
	checkers |= bishopAttacks(ksq, occ) & (p.pieces[them][Bishop] | p.pieces[them][Queen])
	checkers |= rookAttacks(ksq, occ) & (p.pieces[them][Rook] | p.pieces[them][Queen])

	st.inCheck = checkers != 0
	st.doubleCheck = st.inCheck && checkers&(checkers-1) != 0

	if st.inCheck && !st.doubleCheck {
		c := lsb(checkers)
		cbb := bitOf(c)
		switch p.squares[c].Kind() {
		case Rook:
			for d := 0; d < 4; d++ {
				if rookRay[ksq][d]&cbb != 0 {
					st.checkMask = rookRay[ksq][d] &^ rookRay[c][d]
					break
				}
			}
		case Bishop:
			for d := 0; d < 4; d++ {
				if bishopRay[ksq][d]&cbb != 0 {
					st.checkMask = bishopRay[ksq][d] &^ bishopRay[c][d]
					break
				}
			}
		case Queen:
			found := false
			for d := 0; d < 4 && !found; d++ {
				if rookRay[ksq][d]&cbb != 0 {
					st.checkMask = rookRay[ksq][d] &^ rookRay[c][d]
					found = true
				} else if bishopRay[ksq][d]&cbb != 0 {
					st.checkMask = bishopRay[ksq][d] &^ bishopRay[c][d]
					found = true
				}
			}
		default:
			st.checkMask = cbb
		}
	}

	rookIncreasing := [4]bool{true, false, true, false}
	for d := 0; d < 4; d++ {
		ray := rookRay[ksq][d]
		blockers := ray & occ
		if blockers == 0 {
			continue
		}
		var first Square
		if rookIncreasing[d] {
			first = lsb(blockers)
		} else {
			first = Square(63 - bits.LeadingZeros64(blockers))
		}
		if bitOf(first)&p.occupancy[us] == 0 {
			continue
		}
		beyond := rookRay[first][d] & occ
		if beyond == 0 {
			continue
		}
		var next Square
		if rookIncreasing[d] {
			next = lsb(beyond)
		} else {
			next = Square(63 - bits.LeadingZeros64(beyond))
		}
		pc := p.squares[next]
		if (pc.Kind() == Rook || pc.Kind() == Queen) && pc.Color() == them {
			st.pinLine[first] = rookRay[ksq][d] &^ rookRay[next][d]
		}
	}

	bishopIncreasing := [4]bool{true, true, false, false}
	for d := 0; d < 4; d++ {
		ray := bishopRay[ksq][d]
		blockers := ray & occ
		if blockers == 0 {
			continue
		}
		var first Square
		if bishopIncreasing[d] {
			first = lsb(blockers)
		} else {
			first = Square(63 - bits.LeadingZeros64(blockers))
		}
		if bitOf(first)&p.occupancy[us] == 0 {
			continue
		}
		beyond := bishopRay[first][d] & occ
		if beyond == 0 {
			continue
		}
		var next Square
		if bishopIncreasing[d] {
			next = lsb(beyond)
		} else {
			next = Square(63 - bits.LeadingZeros64(beyond))
		}
		pc := p.squares[next]
		if (pc.Kind() == Bishop || pc.Kind() == Queen) && pc.Color() == them {
			st.pinLine[first] = bishopRay[ksq][d] &^ bishopRay[next][d]
		}
	}

	return st
}

// generateInto is the core generator: it writes every legal move matching
// filter for the side to move into dst, starting at index 0 (earlier
// contents of dst are overwritten), and returns the filled slice. Pins
// and checks are resolved directly against the precomputed masks for every
// piece but the king; king moves, castling and en-passant fall back to a
// direct isAttacked probe on the post-move occupancy, since a discovered
// check through the king's own square is not captured by an ordinary pin
// line.
func (p *Position) generateInto(dst []Move, filter genFilter) []Move {
	moves := dst[:0]
	us := p.sideToMove
	them := us.Other()

	ownOcc := p.occupancy[us]
	oppOcc := p.occupancy[them]
	allOcc := ownOcc | oppOcc

	st := p.computeCheckState(us, allOcc)

	p.generatePawnMoves(&moves, us, them, allOcc, oppOcc, st, filter)

	if !st.doubleCheck {
		p.generateLeaperOrSlider(&moves, Knight, us, ownOcc, oppOcc, st, filter, func(sq Square, occ Bitboard) Bitboard { return knightAttacks[sq] })
		p.generateLeaperOrSlider(&moves, Bishop, us, ownOcc, oppOcc, st, filter, bishopAttacks)
		p.generateLeaperOrSlider(&moves, Rook, us, ownOcc, oppOcc, st, filter, rookAttacks)
		p.generateLeaperOrSlider(&moves, Queen, us, ownOcc, oppOcc, st, filter, queenAttacks)
	}

	p.generateKingMoves(&moves, us, them, ownOcc, oppOcc, allOcc, st, filter)

	return moves
}

func (p *Position) generateLeaperOrSlider(moves *[]Move, kind PieceKind, us Color, ownOcc, oppOcc Bitboard, st checkState, filter genFilter, attacksFn func(Square, Bitboard) Bitboard) {
	allOcc := ownOcc | oppOcc
	pieces := p.pieces[us][kind]
	for pieces != 0 {
		from := popLSB(&pieces)
		movedPiece := p.squares[from]
		targets := attacksFn(from, allOcc) &^ ownOcc
		if pin := st.pinLine[from]; pin != 0 {
			targets &= pin
		}
		if st.inCheck {
			targets &= st.checkMask
		}
		switch filter {
		case genCaptures:
			targets &= oppOcc
		case genQuiets:
			targets &^= oppOcc
		}
		for targets != 0 {
			to := popLSB(&targets)
			captured := p.squares[to]
			*moves = append(*moves, NewMove(from, to, movedPiece, captured, NoPiece, FlagNone))
		}
	}
}

func (p *Position) generatePawnMoves(moves *[]Move, us, them Color, allOcc, oppOcc Bitboard, st checkState, filter genFilter) {
	pawns := p.pieces[us][Pawn]
	forward := 8
	startRank, promoRank := 1, 7
	if us == Black {
		forward = -8
		startRank, promoRank = 6, 0
	}

	for pawns != 0 {
		from := popLSB(&pawns)
		movedPiece := p.squares[from]
		pin := st.pinLine[from]

		allowed := func(to Square) bool {
			if st.doubleCheck {
				return false
			}
			toBB := bitOf(to)
			if pin != 0 && toBB&pin == 0 {
				return false
			}
			if st.inCheck && toBB&st.checkMask == 0 {
				return false
			}
			return true
		}

		one := Square(int(from) + forward)
		if one >= 0 && one < 64 && allOcc&bitOf(one) == 0 {
			if allowed(one) {
				if one.Rank() == promoRank {
					if filter != genCaptures {
						addPromotions(moves, from, one, movedPiece, NoPiece, us)
					}
				} else if filter != genCaptures {
					*moves = append(*moves, NewMove(from, one, movedPiece, NoPiece, NoPiece, FlagNone))
				}
			}
			if from.Rank() == startRank {
				two := Square(int(from) + 2*forward)
				if allOcc&bitOf(two) == 0 && allowed(two) && filter != genCaptures {
					*moves = append(*moves, NewMove(from, two, movedPiece, NoPiece, NoPiece, FlagDoublePush))
				}
			}
		}

		caps := pawnAttacks[us][from] & oppOcc
		for caps != 0 {
			to := popLSB(&caps)
			if !allowed(to) {
				continue
			}
			captured := p.squares[to]
			if to.Rank() == promoRank {
				if filter != genQuiets {
					addPromotions(moves, from, to, movedPiece, captured, us)
				}
			} else if filter != genQuiets {
				*moves = append(*moves, NewMove(from, to, movedPiece, captured, NoPiece, FlagNone))
			}
		}

		if p.epSquare != NoSquare && filter != genQuiets && !st.doubleCheck {
			epBB := bitOf(p.epSquare)
			capSq := Square(int(p.epSquare) - forward)
			resolvesCheck := !st.inCheck || st.checkMask&(epBB|bitOf(capSq)) != 0
			if pawnAttacks[us][from]&epBB != 0 && resolvesCheck && !(pin != 0 && epBB&pin == 0) {
				simOcc := allOcc
				simOcc &^= bitOf(from)
				simOcc &^= bitOf(capSq)
				simOcc |= epBB
				if ks := p.KingSquare(us); ks != NoSquare {
					if !p.isAttacked(ks, them, simOcc) {
						capturedPawn := MakePiece(them, Pawn)
						*moves = append(*moves, NewMove(from, p.epSquare, movedPiece, capturedPawn, NoPiece, FlagEnPassant))
					}
				}
			}
		}
	}
}

func addPromotions(moves *[]Move, from, to Square, movedPiece, captured Piece, us Color) {
	for _, k := range [4]PieceKind{Queen, Rook, Bishop, Knight} {
		*moves = append(*moves, NewMove(from, to, movedPiece, captured, MakePiece(us, k), FlagNone))
	}
}

func (p *Position) generateKingMoves(moves *[]Move, us, them Color, ownOcc, oppOcc, allOcc Bitboard, st checkState, filter genFilter) {
	kbb := p.pieces[us][King]
	if kbb == 0 {
		return
	}
	from := lsb(kbb)
	movedPiece := p.squares[from]
	targets := kingAttacks[from] &^ ownOcc

	for targets != 0 {
		to := popLSB(&targets)
		isCap := oppOcc&bitOf(to) != 0
		if (filter == genCaptures && !isCap) || (filter == genQuiets && isCap) {
			continue
		}
		simOcc := (allOcc &^ bitOf(from)) | bitOf(to)
		if p.isAttacked(to, them, simOcc) {
			continue
		}
		captured := p.squares[to]
		*moves = append(*moves, NewMove(from, to, movedPiece, captured, NoPiece, FlagNone))
	}

	if filter == genCaptures || st.inCheck {
		return
	}

	if us == White {
		if p.castling&CastleWhiteKingside != 0 &&
			p.squares[5] == NoPiece && p.squares[6] == NoPiece && p.squares[7] == WhiteRook &&
			!p.isAttacked(5, Black, allOcc) && !p.isAttacked(6, Black, allOcc) {
			*moves = append(*moves, NewMove(4, 6, WhiteKing, NoPiece, NoPiece, FlagCastle))
		}
		if p.castling&CastleWhiteQueenside != 0 &&
			p.squares[1] == NoPiece && p.squares[2] == NoPiece && p.squares[3] == NoPiece && p.squares[0] == WhiteRook &&
			!p.isAttacked(3, Black, allOcc) && !p.isAttacked(2, Black, allOcc) {
			*moves = append(*moves, NewMove(4, 2, WhiteKing, NoPiece, NoPiece, FlagCastle))
		}
	} else {
		if p.castling&CastleBlackKingside != 0 &&
			p.squares[61] == NoPiece && p.squares[62] == NoPiece && p.squares[63] == BlackRook &&
			!p.isAttacked(61, White, allOcc) && !p.isAttacked(62, White, allOcc) {
			*moves = append(*moves, NewMove(60, 62, BlackKing, NoPiece, NoPiece, FlagCastle))
		}
		if p.castling&CastleBlackQueenside != 0 &&
			p.squares[57] == NoPiece && p.squares[58] == NoPiece && p.squares[59] == NoPiece && p.squares[56] == BlackRook &&
			!p.isAttacked(59, White, allOcc) && !p.isAttacked(58, White, allOcc) {
			*moves = append(*moves, NewMove(60, 58, BlackKing, NoPiece, NoPiece, FlagCastle))
		}
	}
}

// LegalMoves writes every legal move for the side to move into buf (which
// the caller owns, sized [MaxMoves]Move or larger), starting at index 0, and
// returns the resulting slice. No allocation occurs when cap(buf) is already
// sufficient.
func (p *Position) LegalMoves(buf []Move) []Move { return p.generateInto(buf, genAll) }

// LegalCaptures writes only captures (including en-passant and capturing
// promotions) into buf, starting at index 0 — the quiescence search's move
// source.
func (p *Position) LegalCaptures(buf []Move) []Move { return p.generateInto(buf, genCaptures) }
