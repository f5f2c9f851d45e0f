package board

import "magic-engine/attacks"

const MaxMoves = 256

// MoveList is a fixed-capacity move buffer that lives on the stack.
type MoveList struct {
	Moves [MaxMoves]Move
	Count int
}

// Add appends m. Invalid encodings and overflow are dropped.
func (l *MoveList) Add(m Move) {
	if !m.Valid() || l.Count >= MaxMoves {
		return
	}
	l.Moves[l.Count] = m
	l.Count++
}

func (l *MoveList) Clear() { l.Count = 0 }

func (l *MoveList) Slice() []Move { return l.Moves[:l.Count] }

type genMode uint8

const (
	genAll genMode = iota
	genCaptures
	genQuiets
)

// GeneratePseudoMovesInto fills ml with pseudo-legal moves: moves that obey
// piece movement but may leave the mover's king attacked. Castling moves
// are fully checked.
func (p *Position) GeneratePseudoMovesInto(ml *MoveList) {
	ml.Clear()
	p.generate(ml, genAll)
}

// GeneratePseudoCapturesInto fills ml with pseudo-legal captures and
// promotions.
func (p *Position) GeneratePseudoCapturesInto(ml *MoveList) {
	ml.Clear()
	p.generate(ml, genCaptures)
}

func (p *Position) GeneratePseudoMoves() []Move {
	var ml MoveList
	p.GeneratePseudoMovesInto(&ml)
	return append([]Move(nil), ml.Slice()...)
}

// GenerateLegalMovesInto fills ml with the legal moves.
func (p *Position) GenerateLegalMovesInto(ml *MoveList) {
	p.generateLegal(ml, genAll)
}

func (p *Position) GenerateLegalMoves() []Move {
	var ml MoveList
	p.generateLegal(&ml, genAll)
	return append([]Move(nil), ml.Slice()...)
}

// GenerateCapturesInto fills ml with legal captures and promotions.
func (p *Position) GenerateCapturesInto(ml *MoveList) {
	p.generateLegal(ml, genCaptures)
}

// GenerateQuietsInto fills ml with legal moves that neither capture nor
// promote, castling included.
func (p *Position) GenerateQuietsInto(ml *MoveList) {
	p.generateLegal(ml, genQuiets)
}

func (p *Position) generateLegal(ml *MoveList, mode genMode) {
	var pseudo MoveList
	p.generate(&pseudo, mode)
	ml.Clear()
	for _, m := range pseudo.Slice() {
		if ok, st := p.MakeMove(m); ok {
			p.UnmakeMove(m, st)
			ml.Add(m)
		}
	}
}

// HasLegalMoves stops at the first legal move.
func (p *Position) HasLegalMoves() bool {
	var pseudo MoveList
	p.generate(&pseudo, genAll)
	for _, m := range pseudo.Slice() {
		if ok, st := p.MakeMove(m); ok {
			p.UnmakeMove(m, st)
			return true
		}
	}
	return false
}

func (p *Position) generate(ml *MoveList, mode genMode) {
	us, them := p.side, p.side.Other()
	// Kings are never capture targets.
	enemy := p.occupied[them] &^ p.pieces[NewPiece(them, King)]
	empty := ^p.all

	p.genPawnMoves(ml, mode, enemy)

	var targets uint64
	switch mode {
	case genAll:
		targets = enemy | empty
	case genCaptures:
		targets = enemy
	case genQuiets:
		targets = empty
	}
	for pt := Knight; pt <= King; pt++ {
		for bb := p.pieces[NewPiece(us, pt)]; bb != 0; {
			from := popLSB(&bb)
			for att := p.pieceAttacks(pt, from) & targets; att != 0; {
				to := popLSB(&att)
				flag := FlagQuiet
				if p.squares[to] != NoPiece {
					flag = FlagCapture
				}
				ml.Add(NewMove(from, to, flag))
			}
		}
	}

	if mode != genCaptures {
		p.genCastling(ml)
	}
}

func (p *Position) pieceAttacks(pt PieceType, sq Square) uint64 {
	switch pt {
	case Knight:
		return attacks.KnightAttacks[sq]
	case Bishop:
		return p.tables.BishopAttacks(int(sq), p.all)
	case Rook:
		return p.tables.RookAttacks(int(sq), p.all)
	case Queen:
		return p.tables.QueenAttacks(int(sq), p.all)
	case King:
		return attacks.KingAttacks[sq]
	}
	return 0
}

func (p *Position) genPawnMoves(ml *MoveList, mode genMode, enemy uint64) {
	us := p.side
	push, startRank, promoRank := Square(8), 1, 7
	if us == Black {
		push, startRank, promoRank = -8, 6, 0
	}
	for bb := p.pieces[NewPiece(us, Pawn)]; bb != 0; {
		from := popLSB(&bb)

		if to := from + push; p.squares[to] == NoPiece {
			if to.Rank() == promoRank {
				if mode != genQuiets {
					addPromotions(ml, from, to, false)
				}
			} else if mode != genCaptures {
				ml.Add(NewMove(from, to, FlagQuiet))
				if from.Rank() == startRank && p.squares[to+push] == NoPiece {
					ml.Add(NewMove(from, to+push, FlagDoublePush))
				}
			}
		}

		if mode == genQuiets {
			continue
		}
		caps := attacks.PawnAttacks[us][from]
		for c := caps & enemy; c != 0; {
			to := popLSB(&c)
			if to.Rank() == promoRank {
				addPromotions(ml, from, to, true)
			} else {
				ml.Add(NewMove(from, to, FlagCapture))
			}
		}
		if p.epSquare != NoSquare && caps&(uint64(1)<<p.epSquare) != 0 {
			ml.Add(NewMove(from, p.epSquare, FlagEnPassant))
		}
	}
}

func addPromotions(ml *MoveList, from, to Square, capture bool) {
	for pt := Queen; pt >= Knight; pt-- {
		ml.Add(NewMove(from, to, promotionFlag(pt, capture)))
	}
}

// genCastling emits castling moves that are legal in full. The squares
// between king and rook, and both destination squares, must be empty apart
// from the castling pieces; no square the king crosses, its origin and
// destination included, may be attacked.
func (p *Position) genCastling(ml *MoveList) {
	us, them := p.side, p.side.Other()
	king := p.kingSq[us]
	for _, kingside := range [2]bool{false, true} {
		i := castleIndex(us, kingside)
		if p.castling&(1<<i) == 0 {
			continue
		}
		rookSq := p.rookFrom[i]
		if rookSq == NoSquare || p.squares[rookSq] != NewPiece(us, Rook) {
			continue
		}
		kingTo, rookTo := castleKingTargets[i], p.rookTo[i]
		occ := p.all &^ (uint64(1)<<king | uint64(1)<<rookSq)
		if between(king, rookSq)&occ != 0 {
			continue
		}
		if (span(king, kingTo)|span(rookSq, rookTo))&occ != 0 {
			continue
		}
		safe := true
		for path := span(king, kingTo); path != 0; {
			if p.IsSquareAttacked(popLSB(&path), them) {
				safe = false
				break
			}
		}
		if !safe {
			continue
		}
		flag := FlagCastleQueenside
		if kingside {
			flag = FlagCastleKingside
		}
		ml.Add(NewMove(king, kingTo, flag))
	}
}

// span returns the squares from a to b inclusive; both lie on one rank.
func span(a, b Square) uint64 {
	if a > b {
		a, b = b, a
	}
	var bb uint64
	for sq := a; sq <= b; sq++ {
		bb |= uint64(1) << sq
	}
	return bb
}

// between returns the squares strictly between a and b on one rank.
func between(a, b Square) uint64 {
	return span(a, b) &^ (uint64(1)<<a | uint64(1)<<b)
}
