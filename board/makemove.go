package board

// MoveState records everything MakeMove overwrites. It must be handed back
// to UnmakeMove together with the same move, in LIFO order.
type MoveState struct {
	Moved     Piece
	Captured  Piece
	Promoted  Piece
	CaptureSq Square
	EpSquare  Square
	Castling  CastlingRights
	Halfmove  int
	Fullmove  int
	KingSq    [2]Square
	RookFrom  [4]Square
	Castled   bool
	Hash      uint64
}

// NullState is the undo record of MakeNullMove.
type NullState struct {
	EpSquare Square
	Halfmove int
	Hash     uint64
}

var castleKingTargets = [4]Square{C1, G1, C8, G8}

// MakeMove applies m. It returns ok == false, with the position unchanged,
// when m does not fit the board (wrong mover, capture of a king, a flag
// that disagrees with the target square) or leaves the mover in check.
func (p *Position) MakeMove(m Move) (ok bool, st MoveState) {
	if !m.Valid() {
		return false, st
	}
	from, to, flag := m.From(), m.To(), m.Flag()
	moved := p.squares[from]
	if moved == NoPiece || moved.Color() != p.side {
		return false, st
	}
	us, them := p.side, p.side.Other()

	st = MoveState{
		Moved:     moved,
		Captured:  NoPiece,
		Promoted:  NoPiece,
		CaptureSq: NoSquare,
		EpSquare:  p.epSquare,
		Castling:  p.castling,
		Halfmove:  p.halfmove,
		Fullmove:  p.fullmove,
		KingSq:    p.kingSq,
		RookFrom:  p.rookFrom,
		Hash:      p.hash,
	}

	castleIdx := -1
	switch {
	case m.IsCastle():
		if moved.Type() != King {
			return false, st
		}
		castleIdx = castleIndex(us, flag == FlagCastleKingside)
		rookSq := p.rookFrom[castleIdx]
		if p.castling&(1<<castleIdx) == 0 || rookSq == NoSquare ||
			p.squares[rookSq] != NewPiece(us, Rook) || to != castleKingTargets[castleIdx] {
			return false, st
		}
	case flag == FlagEnPassant:
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		if moved.Type() != Pawn || to != p.epSquare || p.squares[to] != NoPiece ||
			p.squares[capSq] != NewPiece(them, Pawn) {
			return false, st
		}
		st.Captured, st.CaptureSq = p.squares[capSq], capSq
	case m.IsCapture():
		target := p.squares[to]
		if target == NoPiece || target.Color() != them || target.Type() == King {
			return false, st
		}
		st.Captured, st.CaptureSq = target, to
	default:
		if p.squares[to] != NoPiece {
			return false, st
		}
	}
	if moved.Type() == Pawn {
		lastRank := to.Rank() == 0 || to.Rank() == 7
		if lastRank != m.IsPromotion() {
			return false, st
		}
		if flag == FlagDoublePush && (to-from != 16 && from-to != 16) {
			return false, st
		}
	} else if m.IsPromotion() || flag == FlagDoublePush {
		return false, st
	}

	h := p.hash ^ Keys.Castling[p.castling]
	if p.epSquare != NoSquare {
		h ^= Keys.EnPassant[p.epSquare.File()]
		p.epSquare = NoSquare
	}

	if castleIdx >= 0 {
		rook := NewPiece(us, Rook)
		rookFrom, rookTo := p.rookFrom[castleIdx], p.rookTo[castleIdx]
		p.removePiece(moved, from)
		p.removePiece(rook, rookFrom)
		p.addPiece(moved, to)
		p.addPiece(rook, rookTo)
		h ^= Keys.Pieces[moved][from] ^ Keys.Pieces[moved][to] ^
			Keys.Pieces[rook][rookFrom] ^ Keys.Pieces[rook][rookTo]
		st.Castled = true
		p.halfmove++
	} else {
		if st.Captured != NoPiece {
			p.removePiece(st.Captured, st.CaptureSq)
			h ^= Keys.Pieces[st.Captured][st.CaptureSq]
		}
		placed := moved
		if m.IsPromotion() {
			placed = NewPiece(us, m.PromotionType())
			st.Promoted = placed
		}
		p.removePiece(moved, from)
		p.addPiece(placed, to)
		h ^= Keys.Pieces[moved][from] ^ Keys.Pieces[placed][to]

		if moved.Type() == Pawn || st.Captured != NoPiece {
			p.halfmove = 0
		} else {
			p.halfmove++
		}
		if flag == FlagDoublePush {
			p.epSquare = (from + to) / 2
			h ^= Keys.EnPassant[p.epSquare.File()]
		}
	}

	if moved.Type() == King {
		for _, i := range [2]int{castleIndex(us, false), castleIndex(us, true)} {
			p.castling &^= 1 << i
			p.rookFrom[i] = NoSquare
		}
	}
	for i := 0; i < 4; i++ {
		if p.castling&(1<<i) != 0 && (p.rookFrom[i] == from || p.rookFrom[i] == to) {
			p.castling &^= 1 << i
			p.rookFrom[i] = NoSquare
		}
	}
	h ^= Keys.Castling[p.castling]

	if us == Black {
		p.fullmove++
	}
	p.side = them
	p.hash = h ^ Keys.SideToMove

	if p.IsSquareAttacked(p.kingSq[us], them) {
		p.UnmakeMove(m, st)
		return false, st
	}
	return true, st
}

// UnmakeMove reverts m using the state MakeMove returned for it.
func (p *Position) UnmakeMove(m Move, st MoveState) {
	us := st.Moved.Color()
	from, to := m.From(), m.To()
	if st.Castled {
		i := castleIndex(us, m.Flag() == FlagCastleKingside)
		rook := NewPiece(us, Rook)
		p.removePiece(rook, p.rookTo[i])
		p.removePiece(st.Moved, to)
		p.addPiece(st.Moved, from)
		p.addPiece(rook, st.RookFrom[i])
	} else {
		placed := st.Moved
		if st.Promoted != NoPiece {
			placed = st.Promoted
		}
		p.removePiece(placed, to)
		p.addPiece(st.Moved, from)
		if st.Captured != NoPiece {
			p.addPiece(st.Captured, st.CaptureSq)
		}
	}
	p.side = us
	p.epSquare = st.EpSquare
	p.castling = st.Castling
	p.halfmove = st.Halfmove
	p.fullmove = st.Fullmove
	p.kingSq = st.KingSq
	p.rookFrom = st.RookFrom
	p.hash = st.Hash
}

// MakeNullMove passes the turn. The en-passant target is cleared.
func (p *Position) MakeNullMove() NullState {
	st := NullState{EpSquare: p.epSquare, Halfmove: p.halfmove, Hash: p.hash}
	h := p.hash
	if p.epSquare != NoSquare {
		h ^= Keys.EnPassant[p.epSquare.File()]
		p.epSquare = NoSquare
	}
	p.side = p.side.Other()
	p.halfmove++
	p.hash = h ^ Keys.SideToMove
	return st
}

func (p *Position) UnmakeNullMove(st NullState) {
	p.side = p.side.Other()
	p.epSquare = st.EpSquare
	p.halfmove = st.Halfmove
	p.hash = st.Hash
}
