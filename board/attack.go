package board

import "magic-engine/attacks"

// IsSquareAttacked reports whether any piece of color by attacks sq.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	return p.IsSquareAttackedWithOcc(sq, by, p.all)
}

// IsSquareAttackedWithOcc is IsSquareAttacked with sliders blocked by occ
// instead of the current occupancy.
func (p *Position) IsSquareAttackedWithOcc(sq Square, by Color, occ uint64) bool {
	if sq < 0 {
		return false
	}
	// A pawn of color by attacks sq iff a pawn of the other color on sq
	// would attack the pawn's square.
	if attacks.PawnAttacks[by.Other()][sq]&p.pieces[NewPiece(by, Pawn)] != 0 {
		return true
	}
	if attacks.KnightAttacks[sq]&p.pieces[NewPiece(by, Knight)] != 0 {
		return true
	}
	queens := p.pieces[NewPiece(by, Queen)]
	if diag := p.pieces[NewPiece(by, Bishop)] | queens; diag != 0 && p.tables.BishopAttacks(int(sq), occ)&diag != 0 {
		return true
	}
	if orth := p.pieces[NewPiece(by, Rook)] | queens; orth != 0 && p.tables.RookAttacks(int(sq), occ)&orth != 0 {
		return true
	}
	return attacks.KingAttacks[sq]&p.pieces[NewPiece(by, King)] != 0
}

// AttackersTo returns the pieces of both colors attacking sq, with sliders
// blocked by occ.
func (p *Position) AttackersTo(sq Square, occ uint64) uint64 {
	diag := p.pieces[WhiteBishop] | p.pieces[BlackBishop] | p.pieces[WhiteQueen] | p.pieces[BlackQueen]
	orth := p.pieces[WhiteRook] | p.pieces[BlackRook] | p.pieces[WhiteQueen] | p.pieces[BlackQueen]
	return (attacks.PawnAttacks[Black][sq] & p.pieces[WhitePawn]) |
		(attacks.PawnAttacks[White][sq] & p.pieces[BlackPawn]) |
		(attacks.KnightAttacks[sq] & (p.pieces[WhiteKnight] | p.pieces[BlackKnight])) |
		(attacks.KingAttacks[sq] & (p.pieces[WhiteKing] | p.pieces[BlackKing])) |
		(p.tables.BishopAttacks(int(sq), occ) & diag) |
		(p.tables.RookAttacks(int(sq), occ) & orth)
}

// InCheck reports whether c's king is attacked.
func (p *Position) InCheck(c Color) bool {
	return p.IsSquareAttacked(p.kingSq[c], c.Other())
}

// OurKingInCheck reports whether the side to move is in check.
func (p *Position) OurKingInCheck() bool {
	return p.InCheck(p.side)
}
