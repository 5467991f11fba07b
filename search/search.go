package search

import (
	"sync/atomic"
	"time"

	"chessengine/board"
)

// Infinity bounds the root alpha-beta window; wider than MateScore so a
// forced mate is still representable inside it.
const Infinity int32 = 32000

// DrawScore is returned for any position scored as a draw: a repetition, the
// 50-move rule, or stalemate.
const DrawScore int32 = 0

// nodeCheckMask polls the clock/stop-flag every 2048 nodes, the
// specification's own suggested cadence.
const nodeCheckMask uint64 = 2047

// Options gates the search driver's optional pruning and windowing
// behavior. Everything except null-move pruning defaults on: the
// specification singles out null-move and aspiration windows as
// not-required, and leaves the rest of the pruning suite to follow the
// reference engine's "enabled by default" stance.
type Options struct {
	UsePVS            bool
	UseQuiescence     bool
	NullMoveEnabled   bool
	AspirationEnabled bool
	TTSizeMB          int
}

// DefaultOptions returns the specification's default knob settings.
func DefaultOptions() Options {
	return Options{
		UsePVS:            true,
		UseQuiescence:     true,
		NullMoveEnabled:   false,
		AspirationEnabled: true,
		TTSizeMB:          64,
	}
}

// Limits bounds one search call: a target depth, a wall-clock budget, or
// both (whichever is hit first stops the search).
type Limits struct {
	Depth    int
	MoveTime time.Duration
	Nodes    uint64
}

// SearchInfo is the push record emitted once per completed iterative-
// deepening depth.
type SearchInfo struct {
	Depth    int
	SelDepth int
	Score    int32
	Nodes    uint64
	Elapsed  time.Duration
	PV       []board.Move
}

// InfoSink receives one SearchInfo per completed depth. Never a pull
// iterator: the embedder supplies a function value and the search calls it
// synchronously.
type InfoSink func(SearchInfo)

const aspirationWindow int32 = 35

// Searcher owns everything a single search needs that must survive across
// iterative-deepening depths but not across searches: the transposition
// table (which a caller may keep across many searches), move-ordering
// state, and per-call bookkeeping. Not safe for concurrent use — the engine
// core is single-threaded per the specification's concurrency model.
type Searcher struct {
	tt      *Table
	scorer  *MoveScorer
	opts    Options
	stop    atomic.Bool
	nodes   uint64
	seldep  int
	start   time.Time
	soft    time.Duration
	hard    time.Duration
	limited bool

	posHistory []uint64
	nodeLimit  uint64

	buf [MaxPly + 1][board.MaxMoves]board.Move
}

// NewSearcher builds a Searcher around tt (which may be shared across many
// searches) with the given options.
func NewSearcher(tt *Table, opts Options) *Searcher {
	return &Searcher{tt: tt, scorer: NewMoveScorer(), opts: opts}
}

// Stop requests cooperative cancellation; the running search notices at its
// next node-count or leaf poll and unwinds.
func (s *Searcher) Stop() { s.stop.Store(true) }

func (s *Searcher) timeUp() bool {
	if s.stop.Load() {
		return true
	}
	if s.nodeLimit != 0 && s.nodes >= s.nodeLimit {
		return true
	}
	if !s.limited {
		return false
	}
	return time.Since(s.start) >= s.hard
}

// Search runs iterative deepening from depth 1 until limits.Depth (or MaxPly
// if unset) or limits.MoveTime is exhausted, calling sink once per completed
// depth. It always returns a legal move once at least one full iteration at
// depth 1 has completed, taken from the best line of the last fully
// completed iteration.
func (s *Searcher) Search(p *board.Position, limits Limits, sink InfoSink) board.Move {
	s.stop.Store(false)
	s.nodes = 0
	s.scorer.Clear()
	s.start = time.Now()
	s.nodeLimit = limits.Nodes
	s.posHistory = append(s.posHistory[:0], p.HistoryHashes()...)

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > MaxPly {
		maxDepth = MaxPly
	}
	s.limited = limits.MoveTime > 0
	if s.limited {
		s.soft = limits.MoveTime
		s.hard = limits.MoveTime * 3
	}

	var bestMove board.Move
	var bestScore int32
	alpha, beta := -Infinity, Infinity
	window := aspirationWindow

	for depth := 1; depth <= maxDepth; depth++ {
		if depth > 1 && s.limited && time.Since(s.start) >= s.soft {
			break
		}

		if s.opts.AspirationEnabled && depth >= 5 && bestScore != 0 {
			alpha = bestScore - window
			beta = bestScore + window
		} else {
			alpha, beta = -Infinity, Infinity
		}

		var score int32
		for {
			s.seldep = depth
			score = s.negamax(p, depth, 0, alpha, beta, true, board.NoMove, false)
			if s.stop.Load() {
				break
			}
			if score <= alpha || score >= beta {
				window *= 2
				alpha, beta = score-window, score+window
				if alpha < -Infinity {
					alpha = -Infinity
				}
				if beta > Infinity {
					beta = Infinity
				}
				continue
			}
			break
		}

		if s.stop.Load() && depth > 1 {
			break
		}

		pv := s.extractPV(p, depth)
		if len(pv) > 0 {
			bestMove = pv[0]
		}
		bestScore = score
		window = aspirationWindow

		if sink != nil {
			sink(SearchInfo{
				Depth:    depth,
				SelDepth: s.seldep,
				Score:    score,
				Nodes:    s.nodes,
				Elapsed:  time.Since(s.start),
				PV:       pv,
			})
		}

		if abs32(score) > MateScore-int32(MaxPly) {
			break
		}
		if s.stop.Load() {
			break
		}
	}

	return bestMove
}

// negamax is the alpha-beta core, always returning a score from the
// perspective of the side to move at p.
func (s *Searcher) negamax(p *board.Position, depth, ply int, alpha, beta int32, isPV bool, prevMove board.Move, didNull bool) int32 {
	s.nodes++
	if ply > s.seldep {
		s.seldep = ply
	}
	if s.nodes&nodeCheckMask == 0 && s.timeUp() {
		s.stop.Store(true)
	}
	if s.stop.Load() {
		return 0
	}

	s.posHistory = append(s.posHistory, p.Hash())
	defer func() { s.posHistory = s.posHistory[:len(s.posHistory)-1] }()

	isRoot := ply == 0
	if !isRoot {
		if s.isDraw(p) {
			return DrawScore
		}
		if alpha < DrawScore && s.upcomingRepetition(p) {
			alpha = DrawScore
			if alpha >= beta {
				return alpha
			}
		}
		if ply >= MaxPly {
			return Evaluate(p)
		}
	}

	inCheck := p.InCheck(p.SideToMove())
	if inCheck {
		depth++
	}

	if depth <= 0 {
		if s.opts.UseQuiescence {
			return s.quiescence(p, ply, alpha, beta)
		}
		return Evaluate(p)
	}

	hash := p.Hash()
	ttScore, ttMove, ttUsable, _ := s.tt.Probe(hash, depth, alpha, beta, ply)
	if ttUsable && !isRoot && !isPV {
		return ttScore
	}

	staticScore := Evaluate(p)
	improving := ply >= 2 && !inCheck && staticScore > alpha

	side := p.SideToMove()
	sideHasPieces := p.Pieces(side, board.Knight)|p.Pieces(side, board.Bishop)|
		p.Pieces(side, board.Rook)|p.Pieces(side, board.Queen) != 0

	if !inCheck && !isPV && !isRoot && depth <= 7 && abs32(beta) < MateScore {
		margin := rfpMargin[Min(depth, len(rfpMargin)-1)]
		if !improving {
			margin -= 50
		}
		if staticScore-margin >= beta {
			return staticScore - margin
		}
	}

	if s.opts.NullMoveEnabled && !inCheck && !isPV && !didNull && !isRoot && sideHasPieces && depth >= 3 {
		p.MakeNull()
		r := 2 + depth/4
		if r > depth-1 {
			r = depth - 1
		}
		score := -s.negamax(p, depth-1-r, ply+1, -beta, -beta+1, false, board.NoMove, true)
		p.UnmakeNull()
		if !s.stop.Load() && score >= beta && abs32(score) < MateScore {
			return score
		}
	}

	if ttMove == board.NoMove && depth >= 5 && !didNull {
		reduced := depth - 2
		if depth >= 8 {
			reduced = depth - depth/4
		}
		s.negamax(p, reduced, ply, alpha, beta, false, prevMove, didNull)
		_, m, _, hit := s.tt.Probe(hash, 0, -Infinity, Infinity, ply)
		if hit {
			ttMove = m
		}
	}

	buf := s.buf[ply][:0]
	moves := p.LegalMoves(buf)
	if len(moves) == 0 {
		if inCheck {
			return -MateScore + int32(ply)
		}
		return DrawScore
	}

	s.scorer.OrderMoves(p, moves, ttMove, prevMove, ply)

	bestScore := -Infinity
	bestMove := moves[0]
	bound := BoundUpper
	quietTried := make([]board.Move, 0, 16)
	legalIdx := 0

	for _, m := range moves {
		isCapture := m.IsCapture() || m.IsEnPassant()
		isPromo := m.PromotionPiece() != board.NoPiece
		tactical := isCapture || isPromo
		legalIdx++

		if depth <= 8 && !isPV && !isRoot && !tactical && legalIdx > 1 {
			margin := lmpMargin[Min(depth, len(lmpMargin)-1)]
			if !improving {
				margin = margin * 2 / 3
			}
			if margin > 0 && legalIdx > margin {
				continue
			}
		}

		if depth <= 7 && !isPV && !isRoot && !tactical && abs32(alpha) < MateScore {
			margin := futilityMargin[Min(depth, len(futilityMargin)-1)]
			if !improving {
				margin -= 50
			}
			if staticScore+margin <= alpha {
				continue
			}
		}

		if !isCapture {
			quietTried = append(quietTried, m)
		}

		if err := p.Make(m); err != nil {
			continue
		}

		var score int32
		if legalIdx == 1 || !s.opts.UsePVS {
			score = -s.negamax(p, depth-1, ply+1, -beta, -alpha, isPV, m, false)
		} else {
			reduction := 0
			if s.opts.UsePVS && depth >= 3 && legalIdx >= 5 && !tactical {
				reduction = 1 + depth/6 + Min(legalIdx, 30)/12
				if reduction > depth-2 {
					reduction = depth - 2
				}
				if reduction < 0 {
					reduction = 0
				}
			}
			score = -s.negamax(p, depth-1-reduction, ply+1, -alpha-1, -alpha, false, m, false)
			if score > alpha && reduction > 0 {
				score = -s.negamax(p, depth-1, ply+1, -alpha-1, -alpha, false, m, false)
			}
			if score > alpha && score < beta {
				score = -s.negamax(p, depth-1, ply+1, -beta, -alpha, true, m, false)
			}
		}
		p.Unmake()

		if s.stop.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
			bound = BoundExact
		}
		if score >= beta {
			bound = BoundLower
			if !isCapture {
				s.scorer.UpdateKiller(m, ply)
				s.scorer.UpdateCounter(side, prevMove, m)
				s.scorer.UpdateHistory(side, m, depth)
				for _, failed := range quietTried {
					if failed != m {
						s.scorer.DecrementHistory(side, failed)
					}
				}
			}
			break
		}
	}

	if !s.stop.Load() {
		s.tt.Store(hash, depth, ply, bestMove, bestScore, bound)
	}
	return bestScore
}

// quiescence searches only captures (including capturing promotions; quiet
// promotions are not searched), or every legal move when the side to move is
// in check, with SEE and delta pruning discarding exchanges too bad to
// matter, until the position is "quiet" — a stand-pat leaf with no more
// profitable captures.
func (s *Searcher) quiescence(p *board.Position, ply int, alpha, beta int32) int32 {
	s.nodes++
	if ply > s.seldep {
		s.seldep = ply
	}
	if s.nodes&nodeCheckMask == 0 && s.timeUp() {
		s.stop.Store(true)
	}
	if s.stop.Load() || ply >= MaxPly {
		return Evaluate(p)
	}

	s.posHistory = append(s.posHistory, p.Hash())
	defer func() { s.posHistory = s.posHistory[:len(s.posHistory)-1] }()

	inCheck := p.InCheck(p.SideToMove())
	if inCheck && s.isDraw(p) {
		return DrawScore
	}
	standPat := Evaluate(p)

	if !inCheck {
		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	bestScore := standPat
	if inCheck {
		bestScore = -Infinity
	}

	buf := s.buf[ply][:0]
	var moves []board.Move
	if inCheck {
		moves = p.LegalMoves(buf)
	} else {
		moves = p.LegalCaptures(buf)
	}
	if len(moves) == 0 {
		if inCheck {
			return -MateScore + int32(ply)
		}
		return bestScore
	}

	s.scorer.OrderMoves(p, moves, board.NoMove, board.NoMove, ply)

	for _, m := range moves {
		if !inCheck {
			if SEE(p, m) < -quiescenceSEEMargin {
				continue
			}
			gain := pieceValueMG[board.Pawn]
			if captured := m.CapturedPiece(); captured != board.NoPiece {
				gain = pieceValueMG[captured.Kind()]
			}
			if promo := m.PromotionPiece(); promo != board.NoPiece {
				gain += pieceValueMG[promo.Kind()] - pieceValueMG[board.Pawn]
			}
			if standPat+gain+deltaMargin < alpha {
				continue
			}
		}

		if err := p.Make(m); err != nil {
			continue
		}
		score := -s.quiescence(p, ply+1, -beta, -alpha)
		p.Unmake()

		if s.stop.Load() {
			return 0
		}
		if score > bestScore {
			bestScore = score
		}
		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
		}
	}

	return bestScore
}

var rfpMargin = [8]int32{0, 100, 200, 300, 400, 500, 600, 700}
var futilityMargin = [8]int32{0, 120, 220, 320, 420, 520, 620, 720}
var lmpMargin = [9]int{0, 3, 5, 9, 14, 20, 27, 35, 44}

const quiescenceSEEMargin int32 = 100
const deltaMargin int32 = 200

// isDraw reports the halfmove clock reaching 100 or the current position's
// hash having occurred at least twice before in the retained history
// (threefold counting the current occurrence), matching the specification's
// resolution of the draw-claim open question: scored inline, no claim API.
func (s *Searcher) isDraw(p *board.Position) bool {
	if p.HalfmoveClock() >= 100 {
		return true
	}
	hash := p.Hash()
	n := len(s.posHistory)
	count := 0
	for i := 0; i < n-1; i++ {
		if s.posHistory[i] == hash {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

// upcomingRepetition reports whether the position on top of the search path
// (root game history plus every Make call still on the stack) already
// occurred earlier within the current halfmove-clock window — one
// occurrence away from the threefold isDraw triggers on. Used to clamp alpha
// toward DrawScore a ply before the repetition would otherwise surface,
// matching the reference engine's own repetition-avoidance heuristic.
func (s *Searcher) upcomingRepetition(p *board.Position) bool {
	n := len(s.posHistory)
	if n < 2 {
		return false
	}
	hash := s.posHistory[n-1]
	limit := int(p.HalfmoveClock())
	start := n - 1 - limit
	if start < 0 {
		start = 0
	}
	for i := start; i < n-1; i++ {
		if s.posHistory[i] == hash {
			return true
		}
	}
	return false
}

// extractPV walks TT best_moves from the root, making each and verifying it
// is still legal (Make itself enforces that) and does not repeat a position
// already on the line, rather than threading an explicit PV-line structure
// through the recursion.
func (s *Searcher) extractPV(p *board.Position, maxDepth int) []board.Move {
	var pv []board.Move
	seen := map[uint64]bool{p.Hash(): true}
	made := 0
	for len(pv) < maxDepth {
		_, m, _, hit := s.tt.Probe(p.Hash(), 0, -Infinity, Infinity, 0)
		if !hit || m == board.NoMove {
			break
		}
		if err := p.Make(m); err != nil {
			break
		}
		made++
		if seen[p.Hash()] {
			p.Unmake()
			made--
			break
		}
		seen[p.Hash()] = true
		pv = append(pv, m)
	}
	for i := 0; i < made; i++ {
		p.Unmake()
	}
	return pv
}
