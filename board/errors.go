package board

import "strconv"

// FenParseError reports a malformed FEN field encountered while parsing.
type FenParseError struct {
	Field  string
	Reason string
}

func (e *FenParseError) Error() string {
	return "fen parse error in field " + e.Field + ": " + e.Reason
}

// IllegalMove reports a Make that was rolled back because the move would
// leave the mover's own king in check. The position is left unchanged. Make
// does not otherwise check that a move is in the legal set for the position.
type IllegalMove struct {
	Move   Move
	Reason string
}

func (e *IllegalMove) Error() string {
	return "illegal move " + e.Move.String() + ": " + e.Reason
}

// MoveParseError reports coordinate-notation text that does not denote a
// syntactically valid move.
type MoveParseError struct {
	Input  string
	Reason string
}

func (e *MoveParseError) Error() string {
	return "cannot parse move " + strconv.Quote(e.Input) + ": " + e.Reason
}
