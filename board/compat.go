package board

import (
	"strings"

	"github.com/pkg/errors"
)

// ParseMove decodes coordinate notation (e2e4, e7e8q, 0000) without
// consulting a position. Flags other than the promotion are left unset, so
// the result is only useful for matching against generated moves.
func ParseMove(movestr string) (Move, error) {
	movestr = strings.TrimSpace(strings.ToLower(movestr))
	if movestr == "0000" {
		return NoMove, nil
	}
	if len(movestr) < 4 || len(movestr) > 5 {
		return NoMove, errors.Wrapf(ErrInvalidMove, "%q has bad length", movestr)
	}
	from, err := parseSquare(movestr[0:2])
	if err != nil {
		return NoMove, errors.Wrap(ErrInvalidMove, err.Error())
	}
	to, err := parseSquare(movestr[2:4])
	if err != nil {
		return NoMove, errors.Wrap(ErrInvalidMove, err.Error())
	}
	flag := FlagQuiet
	if len(movestr) == 5 {
		idx := strings.IndexByte(promotionChars, movestr[4])
		if idx < 0 {
			return NoMove, errors.Wrapf(ErrInvalidMove, "promotion piece %q", movestr[4])
		}
		flag = promotionFlag(Knight+PieceType(idx), false)
	}
	return NewMove(from, to, flag), nil
}

// ParseMove resolves coordinate notation to the matching legal move. In
// Chess960 mode castling is written king-to-rook; the king-to-destination
// form is accepted too when nothing else matches it.
func (p *Position) ParseMove(movestr string) (Move, error) {
	movestr = strings.TrimSpace(strings.ToLower(movestr))
	if _, err := ParseMove(movestr); err != nil {
		return NoMove, err
	}
	legal := p.GenerateLegalMoves()
	for _, m := range legal {
		if p.MoveToUCI(m) == movestr {
			return m, nil
		}
	}
	for _, m := range legal {
		if m.String() == movestr {
			return m, nil
		}
	}
	return NoMove, errors.Wrapf(ErrIllegalMove, "%s in %s", movestr, p.ToFEN())
}

// MoveToUCI formats m for a UCI client. Chess960 castling prints the king's
// origin and the castling rook's square.
func (p *Position) MoveToUCI(m Move) string {
	if !m.IsCastle() || !p.chess960 {
		return m.String()
	}
	i := castleIndex(p.side, m.Flag() == FlagCastleKingside)
	if p.rookFrom[i] == NoSquare {
		return m.String()
	}
	return m.From().String() + p.rookFrom[i].String()
}

// Apply plays a legal move and returns the closure that takes it back.
// It panics on an illegal move.
func (p *Position) Apply(m Move) func() {
	ok, st := p.MakeMove(m)
	if !ok {
		panic("board.Apply: illegal move " + m.String())
	}
	return func() { p.UnmakeMove(m, st) }
}

func (p *Position) ApplyNullMove() func() {
	st := p.MakeNullMove()
	return func() { p.UnmakeNullMove(st) }
}

// Undo pairs a played move with its state for PopMove.
type Undo struct {
	Move  Move
	State MoveState
}

// PushMove makes m and, when legal, records the undo and the new hash.
// On failure nothing changes.
func (p *Position) PushMove(m Move, stack *[]Undo, history *[]uint64) bool {
	ok, st := p.MakeMove(m)
	if !ok {
		return false
	}
	*stack = append(*stack, Undo{Move: m, State: st})
	*history = append(*history, p.hash)
	return true
}

// PopMove reverts the last PushMove. It panics on an empty stack.
func (p *Position) PopMove(stack *[]Undo, history *[]uint64) {
	n := len(*stack)
	if n == 0 {
		panic("PopMove: empty stack")
	}
	u := (*stack)[n-1]
	*stack = (*stack)[:n-1]
	p.UnmakeMove(u.Move, u.State)
	if len(*history) > 0 {
		*history = (*history)[:len(*history)-1]
	}
}

// Copy returns an independent copy of the position.
func (p *Position) Copy() *Position {
	c := *p
	return &c
}
