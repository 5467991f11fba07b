package board

import (
	"strconv"
	"strings"
)

// StartFEN is the FEN for the standard initial chess position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var pieceFromChar = map[rune]Piece{
	'P': WhitePawn, 'N': WhiteKnight, 'B': WhiteBishop, 'R': WhiteRook, 'Q': WhiteQueen, 'K': WhiteKing,
	'p': BlackPawn, 'n': BlackKnight, 'b': BlackBishop, 'r': BlackRook, 'q': BlackQueen, 'k': BlackKing,
}

var charFromPiece = map[Piece]rune{
	WhitePawn: 'P', WhiteKnight: 'N', WhiteBishop: 'B', WhiteRook: 'R', WhiteQueen: 'Q', WhiteKing: 'K',
	BlackPawn: 'p', BlackKnight: 'n', BlackBishop: 'b', BlackRook: 'r', BlackQueen: 'q', BlackKing: 'k',
}

// PositionFromFEN parses a FEN string into a fresh Position. Four to six
// fields are accepted; a missing halfmove clock defaults to 0 and a missing
// fullmove number to 1. On
// any malformed field it returns a *FenParseError and no partially built
// Position (the zero-value *Position is never returned on error).
func PositionFromFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, &FenParseError{Field: "fen", Reason: "expected at least 4 space-separated fields"}
	}

	p := &Position{epSquare: NoSquare, zt: defaultZobrist}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, &FenParseError{Field: "placement", Reason: "expected 8 ranks separated by '/'"}
	}
	for i, rankStr := range ranks {
		rankIdx := 7 - i
		file := 0
		for _, ch := range rankStr {
			switch {
			case ch >= '1' && ch <= '8':
				file += int(ch - '0')
			default:
				piece, ok := pieceFromChar[ch]
				if !ok {
					return nil, &FenParseError{Field: "placement", Reason: "unrecognized piece character '" + string(ch) + "'"}
				}
				if file >= 8 {
					return nil, &FenParseError{Field: "placement", Reason: "too many squares in a rank"}
				}
				sq := MakeSquare(file, rankIdx)
				p.addPiece(sq, piece)
				file++
			}
		}
		if file != 8 {
			return nil, &FenParseError{Field: "placement", Reason: "rank does not sum to 8 files"}
		}
	}

	switch fields[1] {
	case "w":
		p.sideToMove = White
	case "b":
		p.sideToMove = Black
		p.hash ^= p.zt.side
	default:
		return nil, &FenParseError{Field: "active color", Reason: "must be 'w' or 'b'"}
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				p.castling |= CastleWhiteKingside
			case 'Q':
				p.castling |= CastleWhiteQueenside
			case 'k':
				p.castling |= CastleBlackKingside
			case 'q':
				p.castling |= CastleBlackQueenside
			default:
				return nil, &FenParseError{Field: "castling", Reason: "invalid character '" + string(ch) + "'"}
			}
		}
	}
	p.hash ^= p.zt.castle[p.castling]

	if fields[3] != "-" {
		sq, err := squareFromAlgebraic(fields[3])
		if err != nil {
			return nil, &FenParseError{Field: "en passant", Reason: err.Error()}
		}
		if sq.Rank() != 2 && sq.Rank() != 5 {
			return nil, &FenParseError{Field: "en passant", Reason: "target must be on rank 3 or rank 6"}
		}
		p.epSquare = sq
		p.hash ^= p.zt.enPassant[sq.File()]
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, &FenParseError{Field: "halfmove clock", Reason: "not a non-negative integer"}
		}
		p.halfmoveClock = uint16(n)
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, &FenParseError{Field: "fullmove number", Reason: "not a positive integer"}
		}
		p.fullmoveNumber = uint16(n)
	} else {
		p.fullmoveNumber = 1
	}

	return p, nil
}

func squareFromAlgebraic(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, &FenParseError{Field: "square", Reason: "expected two characters"}
	}
	file := s[0]
	rank := s[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return NoSquare, &FenParseError{Field: "square", Reason: "out of range"}
	}
	return MakeSquare(int(file-'a'), int(rank-'1')), nil
}

// ToFEN serializes the position back to a six-field FEN string. Round-trips
// byte-for-byte with PositionFromFEN for any canonical input.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.squares[MakeSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteRune(charFromPiece[piece])
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	if p.castling == 0 {
		sb.WriteByte('-')
	} else {
		if p.castling&CastleWhiteKingside != 0 {
			sb.WriteByte('K')
		}
		if p.castling&CastleWhiteQueenside != 0 {
			sb.WriteByte('Q')
		}
		if p.castling&CastleBlackKingside != 0 {
			sb.WriteByte('k')
		}
		if p.castling&CastleBlackQueenside != 0 {
			sb.WriteByte('q')
		}
	}

	sb.WriteByte(' ')
	if p.epSquare == NoSquare {
		sb.WriteByte('-')
	} else {
		sb.WriteString(p.epSquare.String())
	}

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(int(p.halfmoveClock)))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(int(p.fullmoveNumber)))

	return sb.String()
}
