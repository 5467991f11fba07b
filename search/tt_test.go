package search

import (
	"testing"

	"chessengine/board"
)

func TestTableStoreProbeRoundTrip(t *testing.T) {
	tt := NewTable(1)
	var m board.Move = board.NewMove(board.MakeSquare(4, 1), board.MakeSquare(4, 3), board.WhitePawn, board.NoPiece, board.NoPiece, board.FlagDoublePush)

	tt.Store(0xABCD, 6, 2, m, 125, BoundExact)

	score, move, usable, hit := tt.Probe(0xABCD, 6, -Infinity, Infinity, 2)
	if !hit {
		t.Fatalf("expected a hit")
	}
	if !usable {
		t.Fatalf("expected the exact-bound entry to be immediately usable")
	}
	if score != 125 {
		t.Fatalf("score = %d, want 125", score)
	}
	if move != m {
		t.Fatalf("move mismatch")
	}
}

func TestTableProbeMissOnKeyCollisionAtSameIndex(t *testing.T) {
	tt := NewTable(1)
	var m board.Move = board.NewMove(board.MakeSquare(0, 0), board.MakeSquare(0, 1), board.WhitePawn, board.NoPiece, board.NoPiece, board.FlagNone)
	tt.Store(1, 4, 0, m, 10, BoundExact)

	// Same index (mask keeps low bits), different hash — Probe must treat it
	// as a miss rather than returning the colliding entry's stale score.
	collidingHash := 1 + (tt.mask + 1)
	_, _, _, hit := tt.Probe(collidingHash, 0, -Infinity, Infinity, 0)
	if hit {
		t.Fatalf("expected no hit for a different key sharing the same index")
	}
}

func TestTableShallowerStoreDoesNotOverwriteDeeperEntry(t *testing.T) {
	tt := NewTable(1)
	var deepMove board.Move = board.NewMove(board.MakeSquare(1, 0), board.MakeSquare(1, 1), board.WhitePawn, board.NoPiece, board.NoPiece, board.FlagNone)
	var shallowMove board.Move = board.NewMove(board.MakeSquare(2, 0), board.MakeSquare(2, 1), board.WhitePawn, board.NoPiece, board.NoPiece, board.FlagNone)

	tt.Store(42, 10, 0, deepMove, 50, BoundExact)
	tt.Store(42, 3, 0, shallowMove, -50, BoundExact)

	_, move, _, hit := tt.Probe(42, 0, -Infinity, Infinity, 0)
	if !hit {
		t.Fatalf("expected a hit")
	}
	if move != deepMove {
		t.Fatalf("a shallower store overwrote a deeper entry for the same key")
	}
}

func TestShiftMateScoreRoundTrips(t *testing.T) {
	cases := []int32{MateScore + 1, MateScore + 50, -(MateScore + 1), -(MateScore + 50), 0, 37, -37}
	for _, score := range cases {
		shifted := shiftMateScore(score, 5)
		back := unshiftMateScore(shifted, 5)
		if back != score {
			t.Fatalf("shiftMateScore/unshiftMateScore round trip failed for %d: got %d", score, back)
		}
	}
}

// TestShiftMateScoreActuallyShiftsRealMateScores exercises the scores
// negamax itself returns for mate (magnitude MateScore-ply), not just
// synthetic out-of-range inputs — a mate found N plies deep must be stored
// and later reinterpreted at a different ply.
func TestShiftMateScoreActuallyShiftsRealMateScores(t *testing.T) {
	foundAtPly := 3
	score := -MateScore + int32(foundAtPly)

	stored := shiftMateScore(score, foundAtPly)
	if stored == score {
		t.Fatalf("a mate score found at ply %d should be shifted before storage, stayed %d", foundAtPly, stored)
	}

	probedAtPly := 1
	reinterpreted := unshiftMateScore(stored, probedAtPly)
	wantAtProbe := -MateScore + int32(probedAtPly)
	if reinterpreted != wantAtProbe {
		t.Fatalf("mate score reinterpreted at ply %d = %d, want %d", probedAtPly, reinterpreted, wantAtProbe)
	}
}

func TestProbeRejectsBoundsOutsideWindow(t *testing.T) {
	tt := NewTable(1)
	tt.Store(7, 5, 0, board.NoMove, 100, BoundLower)

	// A lower-bound entry is only usable when the stored score already
	// satisfies beta.
	if _, _, usable, _ := tt.Probe(7, 5, -Infinity, 150, 0); usable {
		t.Fatalf("lower-bound entry with score below beta should not be usable")
	}
	if _, _, usable, _ := tt.Probe(7, 5, -Infinity, 50, 0); !usable {
		t.Fatalf("lower-bound entry with score >= beta should be usable")
	}
}
