package board

// Move packs a move into 16 bits: destination in bits 0-5, origin in
// bits 6-11 and the flag in bits 12-15.
type Move uint16

type MoveFlag uint8

const (
	FlagQuiet MoveFlag = iota
	FlagCapture
	FlagDoublePush
	FlagEnPassant
	FlagCastleQueenside
	FlagCastleKingside
	FlagPromoteKnight
	FlagPromoteBishop
	FlagPromoteRook
	FlagPromoteQueen
	FlagPromoteKnightCapture
	FlagPromoteBishopCapture
	FlagPromoteRookCapture
	FlagPromoteQueenCapture
	flagLimit
)

const NoMove Move = 0

func NewMove(from, to Square, flag MoveFlag) Move {
	return Move(uint16(to)&0x3F | (uint16(from)&0x3F)<<6 | uint16(flag)<<12)
}

func (m Move) To() Square     { return Square(m & 0x3F) }
func (m Move) From() Square   { return Square((m >> 6) & 0x3F) }
func (m Move) Flag() MoveFlag { return MoveFlag(m >> 12) }

// Valid reports whether the encoding decodes to a real move kind.
func (m Move) Valid() bool {
	if m.Flag() >= flagLimit {
		return false
	}
	return m.From() != m.To() || m.IsCastle()
}

func (m Move) IsCapture() bool {
	f := m.Flag()
	return f == FlagCapture || f == FlagEnPassant || f >= FlagPromoteKnightCapture
}

func (m Move) IsPromotion() bool { return m.Flag() >= FlagPromoteKnight }

func (m Move) IsCastle() bool {
	f := m.Flag()
	return f == FlagCastleQueenside || f == FlagCastleKingside
}

// IsQuiet reports moves that neither capture nor promote.
func (m Move) IsQuiet() bool { return !m.IsCapture() && !m.IsPromotion() }

// PromotionType returns the piece type promoted to, or NoPieceType.
func (m Move) PromotionType() PieceType {
	f := m.Flag()
	switch {
	case f >= FlagPromoteKnightCapture:
		return Knight + PieceType(f-FlagPromoteKnightCapture)
	case f >= FlagPromoteKnight:
		return Knight + PieceType(f-FlagPromoteKnight)
	}
	return NoPieceType
}

func promotionFlag(pt PieceType, capture bool) MoveFlag {
	f := FlagPromoteKnight + MoveFlag(pt-Knight)
	if capture {
		f += FlagPromoteKnightCapture - FlagPromoteKnight
	}
	return f
}

const promotionChars = "nbrq"

// String returns coordinate notation. Castling prints the king's origin
// and destination squares.
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if pt := m.PromotionType(); pt != NoPieceType {
		s += promotionChars[pt-Knight : pt-Knight+1]
	}
	return s
}
