package search

import (
	"unsafe"

	"chessengine/board"
)

// Bound records which side of the search window a stored score is tight
// against.
type Bound uint8

const (
	BoundExact Bound = iota
	BoundLower
	BoundUpper
)

// MateScore is the score magnitude beyond which a value is treated as a
// mate distance rather than a material evaluation, and therefore gets
// ply-shifted on store/probe so that a mate found deep in one search tree
// compares correctly against one found at a different ply in another.
const MateScore int32 = 30000

type ttEntry struct {
	hash  uint64
	depth int8
	score int32
	move  board.Move
	bound Bound
}

// Table is a single-slot, power-of-two-sized transposition table indexed by
// the low bits of the zobrist key; each slot stores the full key so a probe
// can detect index collisions between unrelated positions.
type Table struct {
	entries []ttEntry
	mask    uint64
}

// NewTable allocates a table sized to approximately sizeMB megabytes,
// rounded down to the nearest power of two entry count.
func NewTable(sizeMB int) *Table {
	if sizeMB <= 0 {
		sizeMB = 64
	}
	entrySize := uint64(unsafe.Sizeof(ttEntry{}))
	if entrySize == 0 {
		entrySize = 1
	}
	totalBytes := uint64(sizeMB) * 1024 * 1024
	count := totalBytes / entrySize
	if count == 0 {
		count = 1
	}
	size := uint64(1)
	for size*2 <= count {
		size <<= 1
	}
	return &Table{entries: make([]ttEntry, size), mask: size - 1}
}

func (t *Table) index(hash uint64) uint64 { return hash & t.mask }

// Clear resets every slot to empty.
func (t *Table) Clear() {
	for i := range t.entries {
		t.entries[i] = ttEntry{}
	}
}

// Probe looks up hash and, if depth is sufficient to satisfy the requested
// alpha-beta window at ply, returns a usable score. The returned move is the
// slot's best move regardless of whether the score itself was usable, so
// move ordering can still benefit from a shallow hit.
func (t *Table) Probe(hash uint64, depth int, alpha, beta int32, ply int) (score int32, move board.Move, usable bool, hit bool) {
	e := &t.entries[t.index(hash)]
	if e.hash != hash {
		return 0, board.NoMove, false, false
	}
	move = e.move
	hit = true
	if int(e.depth) < depth {
		return 0, move, false, true
	}
	s := unshiftMateScore(e.score, ply)
	switch e.bound {
	case BoundExact:
		return s, move, true, true
	case BoundLower:
		if s >= beta {
			return s, move, true, true
		}
	case BoundUpper:
		if s <= alpha {
			return s, move, true, true
		}
	}
	return 0, move, false, true
}

// Store records a search result. An existing entry for the same key is kept
// only when it was searched deeper than the new result; an entry for a
// different key in the same slot is always overwritten.
func (t *Table) Store(hash uint64, depth int, ply int, m board.Move, score int32, bound Bound) {
	idx := t.index(hash)
	e := &t.entries[idx]
	if e.hash == hash && int(e.depth) > depth {
		return
	}
	e.hash = hash
	e.depth = int8(clampDepth(depth))
	e.move = m
	e.score = shiftMateScore(score, ply)
	e.bound = bound
}

func clampDepth(depth int) int {
	if depth > 127 {
		return 127
	}
	if depth < 0 {
		return 0
	}
	return depth
}

// nearMateScore is the threshold above (below the negation of) which a score
// is treated as a mate distance rather than a positional evaluation. Mate
// scores returned by negamax/quiescence carry magnitude MateScore-ply, so
// the band has to reach down by MaxPly to catch every mate score the search
// can actually produce, not just MateScore itself.
const nearMateScore = MateScore - int32(MaxPly)

// shiftMateScore converts a mate score from root-relative (distance from the
// current ply) to a ply-independent value safe to store and later reuse at a
// different ply; unshiftMateScore reverses it on probe.
func shiftMateScore(score int32, ply int) int32 {
	if score > nearMateScore {
		return score + int32(ply)
	}
	if score < -nearMateScore {
		return score - int32(ply)
	}
	return score
}

func unshiftMateScore(score int32, ply int) int32 {
	if score > nearMateScore {
		return score - int32(ply)
	}
	if score < -nearMateScore {
		return score + int32(ply)
	}
	return score
}
