package board

import "strings"

// Move packs a chess move into a single 32-bit value: 6 bits from, 6 bits
// to, 4 bits moved-piece, 4 bits captured-piece, 4 bits promotion-piece, 2
// bits of special-move flag. Wider than the 16-bit minimum the move-encoding
// contract allows, to carry the captured piece kind inline (used by SEE and
// move ordering without a board lookup; Unmake restores the captured piece
// from its history entry instead).
type Move uint32

const (
	moveFromShift    = 0
	moveToShift      = 6
	movePieceShift   = 12
	moveCaptureShift = 16
	movePromoteShift = 20
	moveFlagShift    = 24
)

// Special move flags, orthogonal to promotion (which is signaled by a
// non-zero promotion piece field).
const (
	FlagNone       uint8 = 0
	FlagCastle     uint8 = 1
	FlagEnPassant  uint8 = 2
	FlagDoublePush uint8 = 3
)

// NoMove is the zero value, never produced by the generator.
const NoMove Move = 0

// NewMove assembles a Move from its components.
func NewMove(from, to Square, piece, captured, promotion Piece, flag uint8) Move {
	return Move(uint32(from&0x3F) |
		uint32(to&0x3F)<<moveToShift |
		uint32(piece&0xF)<<movePieceShift |
		uint32(captured&0xF)<<moveCaptureShift |
		uint32(promotion&0xF)<<movePromoteShift |
		uint32(flag&0x3)<<moveFlagShift)
}

func (m Move) From() Square           { return Square(uint32(m) >> moveFromShift & 0x3F) }
func (m Move) To() Square             { return Square(uint32(m) >> moveToShift & 0x3F) }
func (m Move) MovedPiece() Piece      { return Piece(uint32(m) >> movePieceShift & 0xF) }
func (m Move) CapturedPiece() Piece   { return Piece(uint32(m) >> moveCaptureShift & 0xF) }
func (m Move) PromotionPiece() Piece  { return Piece(uint32(m) >> movePromoteShift & 0xF) }
func (m Move) Flag() uint8            { return uint8(uint32(m) >> moveFlagShift & 0x3) }
func (m Move) IsCapture() bool        { return m.CapturedPiece() != NoPiece }
func (m Move) IsPromotion() bool      { return m.PromotionPiece() != NoPiece }
func (m Move) IsCastle() bool         { return m.Flag() == FlagCastle }
func (m Move) IsEnPassant() bool      { return m.Flag() == FlagEnPassant }

var promotionLetter = map[PieceKind]byte{
	Queen:  'q',
	Rook:   'r',
	Bishop: 'b',
	Knight: 'n',
}

var letterPromotion = map[byte]PieceKind{
	'q': Queen,
	'r': Rook,
	'b': Bishop,
	'n': Knight,
}

// PromotionKindFromLetter maps a promotion letter (q, r, b, n, case-
// insensitive) to its PieceKind, for parsing coordinate-notation move text.
func PromotionKindFromLetter(b byte) (PieceKind, bool) {
	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	k, ok := letterPromotion[b]
	return k, ok
}

// String renders the move in coordinate ("long algebraic") notation, e.g.
// "e2e4", "e7e8q".
func (m Move) String() string {
	var sb strings.Builder
	sb.WriteString(m.From().String())
	sb.WriteString(m.To().String())
	if promo := m.PromotionPiece(); promo != NoPiece {
		sb.WriteByte(promotionLetter[promo.Kind()])
	}
	return sb.String()
}
