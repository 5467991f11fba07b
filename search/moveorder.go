package search

import "chessengine/board"

// MaxPly bounds the search ply and the killer-move table; the history and
// counter-move tables are indexed by side and squares, not by ply. Beyond
// MaxPly no killers are recorded or consulted.
const MaxPly = 128

// Move-ordering score tiers. TT and MVV-LVA/promotion bands are kept far
// apart so a deep history score can never bleed into the capture bands.
const (
	scoreTTMove    int32 = 10_000_000
	scoreCapture   int32 = 1_000_000
	scorePromotion int32 = 900_000
	scoreKiller1   int32 = 800_000
	scoreKiller2   int32 = 700_000
	scoreCounter   int32 = 600_000
)

// MoveScorer holds the killer and history tables used to order moves within
// a single search. It is cleared at the start of each new search but not
// between iterative-deepening iterations, so history carries over and
// sharpens as depth increases.
type MoveScorer struct {
	killers [MaxPly][2]board.Move
	history [2][64][64]int32
	counter [2][64][64]board.Move
}

// NewMoveScorer returns an empty scorer.
func NewMoveScorer() *MoveScorer {
	return &MoveScorer{}
}

// Clear resets killers and history to zero, used at the start of a new
// search (not between iterative-deepening depths).
func (s *MoveScorer) Clear() {
	*s = MoveScorer{}
}

// Score returns m's move-ordering priority. ttMove is the move stored for
// this position in the transposition table, if any; prevMove is the move
// played by the opponent immediately before this node (board.NoMove if
// there isn't one, e.g. at the root or inside quiescence), used to look up
// the counter-move tier.
func (s *MoveScorer) Score(p *board.Position, m, ttMove, prevMove board.Move, ply int) int32 {
	if ttMove != board.NoMove && m == ttMove {
		return scoreTTMove
	}
	if m.IsEnPassant() {
		return scoreCapture + pieceValueMG[board.Pawn]*10 - pieceValueMG[board.Pawn]
	}
	if captured := m.CapturedPiece(); captured != board.NoPiece {
		attacker := m.MovedPiece()
		return scoreCapture + pieceValueMG[captured.Kind()]*10 - pieceValueMG[attacker.Kind()]
	}
	if promo := m.PromotionPiece(); promo != board.NoPiece {
		return scorePromotion + int32(promo.Kind())*100
	}
	if ply < MaxPly {
		if s.killers[ply][0] == m {
			return scoreKiller1
		}
		if s.killers[ply][1] == m {
			return scoreKiller2
		}
	}
	side := p.SideToMove()
	if s.IsCounter(side, prevMove, m) {
		return scoreCounter
	}
	return s.history[side][m.From()][m.To()]
}

// OrderMoves sorts moves in place, highest score first, via a stable
// selection sort — moves lists rarely exceed a few dozen entries. Every move
// is scored up front; moves with equal scores keep their generator order.
func (s *MoveScorer) OrderMoves(p *board.Position, moves []board.Move, ttMove, prevMove board.Move, ply int) {
	var scoreBuf [board.MaxMoves]int32
	scores := scoreBuf[:len(moves)]
	for i, m := range moves {
		scores[i] = s.Score(p, m, ttMove, prevMove, ply)
	}
	for i := range moves {
		best := i
		for j := i + 1; j < len(moves); j++ {
			if scores[j] > scores[best] {
				best = j
			}
		}
		if best != i {
			m, sc := moves[best], scores[best]
			copy(moves[i+1:best+1], moves[i:best])
			copy(scores[i+1:best+1], scores[i:best])
			moves[i], scores[i] = m, sc
		}
	}
}

// UpdateKiller records m as a killer at ply, for quiet moves that caused a
// beta cutoff.
func (s *MoveScorer) UpdateKiller(m board.Move, ply int) {
	if ply >= MaxPly {
		return
	}
	if s.killers[ply][0] != m {
		s.killers[ply][1] = s.killers[ply][0]
		s.killers[ply][0] = m
	}
}

// UpdateHistory strengthens the history score for a quiet move that caused a
// beta cutoff. When an entry reaches the second-killer score band, every
// entry of that side's table is divided by 8.
func (s *MoveScorer) UpdateHistory(side board.Color, m board.Move, depth int) {
	v := &s.history[side][m.From()][m.To()]
	*v += int32(depth * depth)
	if *v >= scoreKiller2 {
		s.ageHistory(side)
	}
}

// DecrementHistory softens the history score for a quiet move tried but
// that did not cause a cutoff, so repeatedly-failing quiet moves sink in
// future orderings.
func (s *MoveScorer) DecrementHistory(side board.Color, m board.Move) {
	v := &s.history[side][m.From()][m.To()]
	if *v > 0 {
		*v /= 4
	}
}

func (s *MoveScorer) ageHistory(side board.Color) {
	for from := 0; from < 64; from++ {
		for to := 0; to < 64; to++ {
			s.history[side][from][to] /= 8
		}
	}
}

// UpdateCounter records m as the reply that refuted prevMove.
func (s *MoveScorer) UpdateCounter(side board.Color, prevMove, m board.Move) {
	if prevMove == board.NoMove {
		return
	}
	s.counter[side][prevMove.From()][prevMove.To()] = m
}

// IsCounter reports whether m is the recorded counter to prevMove.
func (s *MoveScorer) IsCounter(side board.Color, prevMove, m board.Move) bool {
	return prevMove != board.NoMove && s.counter[side][prevMove.From()][prevMove.To()] == m
}
