package search

import (
	"math/bits"

	"chessengine/board"
)

// Tapered evaluation: material, piece-square tables, bishop pair, basic
// pawn structure (isolated/doubled/passed), mobility, and tempo, all scored
// symmetrically (white minus black) and interpolated between midgame and
// endgame weights by the remaining non-pawn material. Grounded on the
// reference evaluator's Evaluation function, trimmed to its material/PST/
// phase/bishop-pair/pawn-structure/mobility components — king safety, space,
// tropism and the tuner plumbing the reference computes are out of scope
// and not ported.
//
// Material uses the conventional 100/320/330/500/900 centipawn values in both
// phases. The phase and PSQT constants below follow the reference tables
// (same magnitudes, same [64]int layout indexed a1..h8).
const (
	pawnPhase   = 0
	knightPhase = 1
	bishopPhase = 1
	rookPhase   = 2
	queenPhase  = 4
	totalPhase  = pawnPhase*16 + knightPhase*4 + bishopPhase*4 + rookPhase*4 + queenPhase*2
)

var pieceValueMG = [7]int32{0, 100, 320, 330, 500, 900, 0}
var pieceValueEG = [7]int32{0, 100, 320, 330, 500, 900, 0}
var mobilityValueMG = [7]int32{0, 0, 2, 3, 2, 1, 0}
var mobilityValueEG = [7]int32{0, 0, 3, 2, 4, 4, 0}

const (
	bishopPairBonusMG = 10
	bishopPairBonusEG = 50
	isolatedPawnMG    = 6
	isolatedPawnEG    = 7
	doubledPawnMG     = 4
	doubledPawnEG     = 17
	tempoBonus        = 10
)

// passedPawnBonusMG/EG are indexed by rank from the pawn's own side (0 = its
// back rank, 7 = its promotion rank), a flattened stand-in for the reference
// evaluator's full per-square PassedPawnPSQT tables: same shape (bonus grows
// sharply in the last few ranks, bigger in the endgame than the midgame),
// collapsed from 64 entries to 8 since this evaluator doesn't otherwise
// distinguish passed pawns by file.
var passedPawnBonusMG = [8]int32{0, 5, 8, 13, 22, 40, 65, 0}
var passedPawnBonusEG = [8]int32{0, 10, 18, 32, 55, 90, 140, 0}

// flipSquare mirrors a square vertically, for reading a white-oriented PSQT
// from black's perspective.
func flipSquare(sq board.Square) board.Square {
	return board.MakeSquare(sq.File(), 7-sq.Rank())
}

// Row order below follows square index, not board orientation: the first
// row of each table is rank 1 (squares 0-7), the last is rank 8 (56-63).
var psqtMG = [7][64]int32{
	board.Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		-46, -41, -42, -39, -40, -12, 1, -21,
		-51, -52, -45, -45, -37, -37, -20, -30,
		-46, -40, -33, -33, -23, -26, -15, -30,
		-36, -27, -27, -11, 1, 2, -4, -21,
		-33, -6, 7, 13, 27, 57, 19, -11,
		57, 54, 55, 54, 46, 32, 4, 9,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	board.Knight: {
		-24, -28, -46, -30, -25, -21, -27, -40,
		-35, -32, -18, -10, -14, -12, -20, -18,
		-25, -8, -4, 6, 7, -1, -1, -17,
		-14, -1, 8, 5, 13, 10, 26, -1,
		-5, 8, 30, 35, 24, 43, 19, 22,
		-21, 12, 40, 49, 67, 64, 37, 14,
		-17, -12, 20, 33, 33, 37, -8, 3,
		-61, -6, -12, -2, 1, -6, -1, -16,
	},
	board.Bishop: {
		4, -2, -15, -21, -18, -8, -8, 2,
		4, 8, 11, -2, 1, 5, 20, 11,
		-2, 11, 8, 13, 10, 8, 10, 13,
		-7, 10, 15, 21, 26, 11, 10, 7,
		-4, 22, 24, 49, 34, 37, 20, 6,
		4, 18, 36, 36, 47, 55, 37, 24,
		-22, 6, 3, -7, 4, 14, -3, 8,
		-27, -8, -13, -12, -8, -21, 1, -10,
	},
	board.Rook: {
		-46, -41, -37, -34, -36, -40, -19, -42,
		-71, -45, -44, -43, -47, -37, -25, -51,
		-60, -46, -50, -44, -47, -48, -21, -38,
		-49, -45, -43, -35, -37, -34, -13, -29,
		-33, -21, -11, 6, 0, 7, 8, 2,
		-22, 10, 4, 25, 41, 38, 44, 20,
		-3, -5, 16, 28, 31, 37, 9, 30,
		23, 22, 19, 24, 23, 20, 21, 34,
	},
	board.Queen: {
		-6, -17, -12, -3, -6, -28, -27, -12,
		-11, -4, 2, -2, -1, 7, 8, -7,
		-8, -1, -2, -4, -4, -1, 8, 7,
		-5, -3, -2, -6, -6, 10, 7, 16,
		-11, -6, -2, -1, 12, 22, 26, 26,
		-13, -6, -1, 14, 36, 58, 71, 42,
		-11, -40, 5, 5, 20, 44, -2, 27,
		0, 16, 21, 29, 36, 38, 25, 36,
	},
	board.King: {
		-4, 36, -1, -69, -23, -74, 19, 26,
		12, 0, -18, -53, -33, -39, 7, 25,
		-6, -4, -3, -11, -6, -8, 4, -15,
		-1, 8, 16, 10, 15, 12, 23, -9,
		0, 9, 16, 10, 13, 15, 15, -8,
		1, 11, 12, 9, 8, 14, 12, 0,
		-2, 6, 6, 2, 3, 4, 3, -2,
		-1, 0, 0, 2, 0, 0, 0, -2,
	},
}

var psqtEG = [7][64]int32{
	board.Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		-9, -8, -4, -2, 7, 2, -14, -29,
		-16, -17, -13, -12, -9, -12, -26, -29,
		-8, -10, -19, -18, -19, -17, -22, -21,
		3, -2, -5, -23, -16, -14, -10, -12,
		21, 22, 21, 22, 22, 11, 25, 17,
		75, 69, 58, 48, 43, 43, 55, 63,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	board.Knight: {
		-29, -60, -26, -18, -20, -28, -48, -30,
		-28, -13, -13, -6, -4, -16, -18, -31,
		-38, -3, 6, 19, 18, 5, -2, -33,
		-15, 11, 32, 36, 34, 35, 16, -9,
		-11, 14, 28, 43, 48, 36, 28, -1,
		-20, 6, 24, 26, 20, 31, 12, -11,
		-25, -12, 1, 21, 19, -3, -9, -16,
		-41, -11, 2, 0, 1, 4, -4, -17,
	},
	board.Bishop: {
		-28, -16, -38, -14, -19, -24, -21, -20,
		-10, -20, -12, -4, -5, -18, -18, -33,
		-12, -1, 7, 10, 8, 3, -11, -11,
		-5, 6, 17, 18, 15, 14, 4, -10,
		0, 11, 12, 17, 24, 15, 19, 3,
		-5, 8, 11, 11, 13, 19, 12, 3,
		-7, 7, 10, 11, 12, 10, 12, -6,
		1, 5, 5, 8, 4, 0, 2, 2,
	},
	board.Rook: {
		-10, 0, 5, 5, 3, 3, -1, -18,
		-8, -10, -3, -6, -5, -11, -14, -10,
		-2, 7, 8, 5, 4, 3, -1, -8,
		13, 25, 26, 22, 20, 18, 12, 6,
		25, 27, 30, 26, 23, 20, 16, 16,
		34, 24, 32, 25, 17, 24, 14, 18,
		36, 42, 40, 41, 40, 23, 28, 22,
		32, 37, 40, 37, 38, 42, 39, 37,
	},
	board.Queen: {
		-25, -35, -41, -48, -50, -39, -27, -9,
		-26, -24, -44, -27, -36, -62, -57, -17,
		-22, -17, 5, -10, -11, 1, -19, -14,
		-19, 5, 6, 38, 32, 30, 17, 20,
		-11, 14, 13, 42, 52, 57, 49, 33,
		-1, 3, 20, 29, 45, 56, 40, 38,
		7, 31, 25, 36, 57, 44, 28, 25,
		14, 26, 29, 38, 44, 43, 31, 33,
	},
	board.King: {
		-37, -29, -20, -26, -54, -14, -35, -78,
		-15, -9, -3, 4, -2, 1, -15, -35,
		-16, -3, 7, 16, 13, 6, -8, -18,
		-16, 8, 21, 28, 25, 19, 5, -18,
		-2, 22, 29, 30, 29, 26, 20, -5,
		1, 26, 25, 19, 16, 32, 31, -1,
		-12, 14, 11, 3, 5, 10, 20, -9,
		-17, -12, -6, -1, -6, -6, -6, -14,
	},
}

// Evaluate scores the position in centipawns from the side-to-move's
// perspective (negamax convention), symmetric and deterministic.
func Evaluate(p *board.Position) int32 {
	var mg, eg int32
	var phase int

	for sq := board.Square(0); sq < 64; sq++ {
		pc := p.PieceAt(sq)
		if pc == board.NoPiece {
			continue
		}
		kind := pc.Kind()
		tableSquare := sq
		sign := int32(1)
		if pc.Color() == board.Black {
			tableSquare = flipSquare(sq)
			sign = -1
		}
		mg += sign * (pieceValueMG[kind] + psqtMG[kind][tableSquare])
		eg += sign * (pieceValueEG[kind] + psqtEG[kind][tableSquare])

		switch kind {
		case board.Knight:
			phase += knightPhase
		case board.Bishop:
			phase += bishopPhase
		case board.Rook:
			phase += rookPhase
		case board.Queen:
			phase += queenPhase
		}
	}

	mg += mobilityScore(p, mobilityValueMG)
	eg += mobilityScore(p, mobilityValueEG)

	bpMG, bpEG := bishopPairScore(p)
	mg += bpMG
	eg += bpEG

	psMG, psEG := pawnStructureScore(p)
	mg += psMG
	eg += psEG

	if p.SideToMove() == board.White {
		mg += tempoBonus
		eg += tempoBonus
	} else {
		mg -= tempoBonus
		eg -= tempoBonus
	}

	if phase > totalPhase {
		phase = totalPhase
	}
	mgWeight := int32(phase)
	egWeight := int32(totalPhase - phase)
	score := (mg*mgWeight + eg*egWeight) / int32(totalPhase)

	if p.SideToMove() == board.Black {
		score = -score
	}
	return score
}

// mobilityScore sums, for each piece kind, (white move count - black move
// count) * that kind's mobility weight, using raw attack-table popcounts
// rather than full legal-move generation (the reference evaluator's own
// mobility terms are likewise pseudo-legal counts, not legality-filtered).
func mobilityScore(p *board.Position, weight [7]int32) int32 {
	occ := p.OccupancyAll()
	var score int32
	for _, c := range [2]board.Color{board.White, board.Black} {
		sign := int32(1)
		if c == board.Black {
			sign = -1
		}
		own := p.Occupancy(c)
		for _, kind := range [4]board.PieceKind{board.Knight, board.Bishop, board.Rook, board.Queen} {
			bb := p.Pieces(c, kind)
			for bb != 0 {
				sq := board.Square(bits.TrailingZeros64(bb))
				bb &= bb - 1
				count := bits.OnesCount64(board.AttacksFrom(kind, sq, occ) &^ own)
				score += sign * weight[kind] * int32(count)
			}
		}
	}
	return score
}

func bishopPairScore(p *board.Position) (mg, eg int32) {
	wPair := bits.OnesCount64(p.Pieces(board.White, board.Bishop)) >= 2
	bPair := bits.OnesCount64(p.Pieces(board.Black, board.Bishop)) >= 2
	if wPair {
		mg += bishopPairBonusMG
		eg += bishopPairBonusEG
	}
	if bPair {
		mg -= bishopPairBonusMG
		eg -= bishopPairBonusEG
	}
	return mg, eg
}

// pawnStructureScore scores isolated pawns, doubled pawns, and passed pawns
// (bonus scaled by rank), a simplified stand-in for the reference
// evaluator's cached pawn-hash structure term — backward/lever/storm are not
// reproduced.
func pawnStructureScore(p *board.Position) (mg, eg int32) {
	white := p.Pieces(board.White, board.Pawn)
	black := p.Pieces(board.Black, board.Pawn)

	var whiteRanks, blackRanks [8]uint8
	for bb := white; bb != 0; bb &= bb - 1 {
		sq := board.Square(bits.TrailingZeros64(bb))
		whiteRanks[sq.File()] |= 1 << uint(sq.Rank())
	}
	for bb := black; bb != 0; bb &= bb - 1 {
		sq := board.Square(bits.TrailingZeros64(bb))
		blackRanks[sq.File()] |= 1 << uint(sq.Rank())
	}

	for _, c := range [2]board.Color{board.White, board.Black} {
		sign := int32(1)
		own, enemyRanks := white, blackRanks
		if c == board.Black {
			sign = -1
			own, enemyRanks = black, whiteRanks
		}

		var fileCount [8]int
		for bb := own; bb != 0; bb &= bb - 1 {
			sq := board.Square(bits.TrailingZeros64(bb))
			fileCount[sq.File()]++
		}
		for f := 0; f < 8; f++ {
			if fileCount[f] == 0 {
				continue
			}
			if fileCount[f] > 1 {
				mg -= sign * doubledPawnMG * int32(fileCount[f]-1)
				eg -= sign * doubledPawnEG * int32(fileCount[f]-1)
			}
			hasNeighbor := (f > 0 && fileCount[f-1] > 0) || (f < 7 && fileCount[f+1] > 0)
			if !hasNeighbor {
				mg -= sign * isolatedPawnMG
				eg -= sign * isolatedPawnEG
			}
		}

		for bb := own; bb != 0; bb &= bb - 1 {
			sq := board.Square(bits.TrailingZeros64(bb))
			file, rank := sq.File(), sq.Rank()
			if !isPassedPawn(c, file, rank, enemyRanks) {
				continue
			}
			ownRank := rank
			if c == board.Black {
				ownRank = 7 - rank
			}
			mg += sign * passedPawnBonusMG[ownRank]
			eg += sign * passedPawnBonusEG[ownRank]
		}
	}
	return mg, eg
}

// isPassedPawn reports whether no enemy pawn on the pawn's file or an
// adjacent one stands between it and its promotion square.
func isPassedPawn(c board.Color, file, rank int, enemyRanks [8]uint8) bool {
	var ahead uint8
	if c == board.White {
		ahead = uint8(0xFF) << uint(rank+1)
	} else {
		ahead = uint8(0xFF) >> uint(8-rank)
	}
	for _, f := range [3]int{file - 1, file, file + 1} {
		if f < 0 || f > 7 {
			continue
		}
		if enemyRanks[f]&ahead != 0 {
			return false
		}
	}
	return true
}
