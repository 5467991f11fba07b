package board

import "math/rand"

// zobristTable holds the deterministic random keys used for incremental
// position hashing. Built once by newZobristTable and treated as read-only
// thereafter; a Position keeps a pointer to the table it was built with so
// that a non-default Seed (see chessengine.Options) does not require global
// mutable state.
type zobristTable struct {
	piece    [16][64]uint64 // indexed by Piece value (0..15), then square
	castle   [16]uint64     // indexed by the 4-bit CastlingRights mask
	enPassant [8]uint64     // indexed by file; "no ep" is the XOR identity (0)
	side     uint64
}

// DefaultZobristSeed is the fixed PRNG seed used when no explicit seed is
// configured, so that two engines built with default options hash
// identically and produce the same search given the same position.
const DefaultZobristSeed = 0xC0DE

var defaultZobrist = newZobristTable(DefaultZobristSeed)

// SetZobristSeed rebuilds the table every Position created afterward will
// use. Exists so chessengine.Options's Seed field can be honored without
// threading a table pointer through the embedding surface; like the
// reference engine's own global mutable search state, it is meant to be set
// once before play begins, not toggled mid-game — positions already built
// keep the table they were built with.
func SetZobristSeed(seed int64) {
	defaultZobrist = newZobristTable(seed)
}

func newZobristTable(seed int64) *zobristTable {
	r := rand.New(rand.NewSource(seed))
	t := &zobristTable{}
	for p := 0; p < 16; p++ {
		for sq := 0; sq < 64; sq++ {
			t.piece[p][sq] = r.Uint64()
		}
	}
	for cr := 0; cr < 16; cr++ {
		t.castle[cr] = r.Uint64()
	}
	for f := 0; f < 8; f++ {
		t.enPassant[f] = r.Uint64()
	}
	t.side = r.Uint64()
	return t
}

// ComputeZobrist recomputes the position's hash from scratch, independent of
// the incrementally maintained value. Used by Validate and by tests to
// assert the "incremental == recomputed" invariant.
func (p *Position) ComputeZobrist() uint64 {
	z := p.zt
	var key uint64
	for sq := 0; sq < 64; sq++ {
		if pc := p.squares[sq]; pc != NoPiece {
			key ^= z.piece[pc][sq]
		}
	}
	if p.sideToMove == Black {
		key ^= z.side
	}
	key ^= z.castle[p.castling]
	if p.epSquare != NoSquare {
		key ^= z.enPassant[p.epSquare.File()]
	}
	return key
}
