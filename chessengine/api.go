// Package chessengine is the embedding surface over the board and search
// packages: FEN/move I/O, the legal-move/make-unmake cycle, perft, and the
// iterative-deepening search, wired together the way uci.go once wired the
// reference engine's board and search packages to a UCI front end, but as
// direct function calls rather than a protocol loop.
package chessengine

import (
	"strings"

	"chessengine/board"
	"chessengine/search"
)

// Position, Move, and the three error kinds are re-exported verbatim from
// the board package so an embedder never needs to import it directly.
type (
	Position       = board.Position
	Move           = board.Move
	FenParseError  = board.FenParseError
	IllegalMove    = board.IllegalMove
	MoveParseError = board.MoveParseError
)

// SearchLimit bounds one Search call: a target depth, a wall-clock budget,
// a node budget, or any combination (whichever is hit first stops it).
type SearchLimit = search.Limits

// SearchInfo is the record emitted once per completed iterative-deepening
// depth.
type SearchInfo = search.SearchInfo

// InfoSink receives one SearchInfo per completed depth, called synchronously
// from inside Search.
type InfoSink = search.InfoSink

// NewPosition returns the standard starting position.
func NewPosition() *Position { return board.NewPosition() }

// PositionFromFEN parses a six-field FEN string.
func PositionFromFEN(fen string) (*Position, error) { return board.PositionFromFEN(fen) }

// Perft counts the leaf nodes of the legal-move tree rooted at p to depth.
func Perft(p *Position, depth int) uint64 { return board.Perft(p, depth) }

// Divide breaks a Perft count down by the first move played.
func Divide(p *Position, depth int) map[Move]uint64 { return board.Divide(p, depth) }

// Evaluate returns the static evaluation of p in centipawns, positive for
// the side to move.
func Evaluate(p *Position) int32 { return search.Evaluate(p) }

// MoveFromCoord parses coordinate ("long algebraic") notation — e.g. "e2e4",
// "e7e8q" — against p's current legal moves, so the returned Move always
// carries the capture/promotion/castle/en-passant metadata the board package
// needs to Make it directly, and an ambiguous or illegal string is rejected
// up front rather than surfacing later as an IllegalMove from Make.
func MoveFromCoord(p *Position, s string) (Move, error) {
	raw := strings.TrimSpace(s)
	if len(raw) != 4 && len(raw) != 5 {
		return board.NoMove, &board.MoveParseError{Input: s, Reason: "expected 4 or 5 characters"}
	}
	from, ok := parseSquare(raw[0:2])
	if !ok {
		return board.NoMove, &board.MoveParseError{Input: s, Reason: "invalid origin square"}
	}
	to, ok := parseSquare(raw[2:4])
	if !ok {
		return board.NoMove, &board.MoveParseError{Input: s, Reason: "invalid destination square"}
	}
	promo := board.NoKind
	if len(raw) == 5 {
		k, ok := board.PromotionKindFromLetter(raw[4])
		if !ok {
			return board.NoMove, &board.MoveParseError{Input: s, Reason: "invalid promotion letter"}
		}
		promo = k
	}

	var buf [board.MaxMoves]board.Move
	for _, m := range p.LegalMoves(buf[:0]) {
		if m.From() != from || m.To() != to {
			continue
		}
		if m.PromotionPiece().Kind() != promo {
			continue
		}
		return m, nil
	}
	return board.NoMove, &board.MoveParseError{Input: s, Reason: "no legal move matches"}
}

func parseSquare(s string) (board.Square, bool) {
	file, rank := s[0], s[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return board.NoSquare, false
	}
	return board.MakeSquare(int(file-'a'), int(rank-'1')), true
}
