package engine

import "magic-engine/board"

// PVLine is a triangular principal variation: each node copies its best
// child's line behind its own move.
type PVLine struct {
	Moves []board.Move
}

func (pv *PVLine) Clear() { pv.Moves = pv.Moves[:0] }

func (pv *PVLine) Update(move board.Move, child PVLine) {
	pv.Moves = append(pv.Moves[:0], move)
	pv.Moves = append(pv.Moves, child.Moves...)
}

func (pv *PVLine) GetPVMove() board.Move {
	if len(pv.Moves) == 0 {
		return board.NoMove
	}
	return pv.Moves[0]
}

func (pv PVLine) Clone() PVLine {
	return PVLine{Moves: append([]board.Move(nil), pv.Moves...)}
}

// validatePV replays moves on a copy of p and cuts the line at the first
// move that is not legal there.
func validatePV(p *board.Position, moves []board.Move) []board.Move {
	c := p.Copy()
	for i, m := range moves {
		if ok, _ := c.MakeMove(m); !ok {
			return moves[:i]
		}
	}
	return moves
}
