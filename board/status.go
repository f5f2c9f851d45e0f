package board

import "math/bits"

func (p *Position) InCheckmate() bool {
	return p.OurKingInCheck() && !p.HasLegalMoves()
}

func (p *Position) InStalemate() bool {
	return !p.OurKingInCheck() && !p.HasLegalMoves()
}

// IsDrawBy50 applies the fifty-move rule.
func (p *Position) IsDrawBy50() bool { return p.halfmove >= 100 }

// IsInsufficientMaterial reports the dead positions: bare kings, a single
// minor piece, or bishops that all stand on one square color.
func (p *Position) IsInsufficientMaterial() bool {
	heavy := p.pieces[WhitePawn] | p.pieces[BlackPawn] |
		p.pieces[WhiteRook] | p.pieces[BlackRook] |
		p.pieces[WhiteQueen] | p.pieces[BlackQueen]
	if heavy != 0 {
		return false
	}
	knights := p.pieces[WhiteKnight] | p.pieces[BlackKnight]
	bishops := p.pieces[WhiteBishop] | p.pieces[BlackBishop]
	minors := bits.OnesCount64(knights | bishops)
	if minors <= 1 {
		return true
	}
	if knights != 0 {
		return false
	}
	const darkSquares = 0xAA55AA55AA55AA55
	return bishops&darkSquares == 0 || bishops&^darkSquares == 0
}

// IsDrawByRepetition reports a threefold repetition. history holds the
// hashes of earlier positions of the game; a trailing entry equal to the
// current hash is taken to be the current position itself.
func (p *Position) IsDrawByRepetition(history []uint64) bool {
	n := len(history)
	if n > 0 && history[n-1] == p.hash {
		n--
	}
	seen := 0
	for _, h := range history[:n] {
		if h == p.hash {
			seen++
			if seen >= 2 {
				return true
			}
		}
	}
	return false
}

// GivesCheck reports whether m is legal and checks the opponent.
func (p *Position) GivesCheck(m Move) bool {
	ok, st := p.MakeMove(m)
	if !ok {
		return false
	}
	check := p.OurKingInCheck()
	p.UnmakeMove(m, st)
	return check
}
