package engine

import (
	"strings"

	"github.com/samber/lo"

	"magic-engine/board"
)

const historyMax int32 = 1000 // Ensure we stay below killers, castling, etc

/*
HISTORY/COUNTER MOVES
If a move was a cut-node (above beta), and not a capture, we keep track of two things:
The move that countered us (previous move made) - a counter move
A historical score of the move - since we know it was a good move to keep track of, we make sure we can use this for move ordering later
*/
type historyTable [2][64][64]int32

type counterTable [2][64][64]board.Move

func (h *historyTable) Score(side board.Color, m board.Move) int32 {
	return h[side][m.From()][m.To()]
}

// Increment the history score for the given move if it caused a beta-cutoff and is quiet.
func (h *historyTable) increment(side board.Color, m board.Move, depth int8) {
	cell := &h[side][m.From()][m.To()]
	*cell += int32(depth) * int32(depth)
	if *cell >= historyMax {
		h.age(side)
	}
}

// Decrement the history score for a quiet move searched before the cutoff move.
func (h *historyTable) decrement(side board.Color, m board.Move, depth int8) {
	cell := &h[side][m.From()][m.To()]
	*cell -= int32(depth)
	if *cell < 0 {
		*cell = 0
	}
}

// Age the values in the history table by halving them.
func (h *historyTable) age(side board.Color) {
	for sq1 := 0; sq1 < 64; sq1++ {
		for sq2 := 0; sq2 < 64; sq2++ {
			h[side][sq1][sq2] /= 2
		}
	}
}

func (h *historyTable) clear() { *h = historyTable{} }

func (c *counterTable) store(side board.Color, prevMove, move board.Move) {
	if prevMove == board.NoMove {
		return
	}
	c[side][prevMove.From()][prevMove.To()] = move
}

func (c *counterTable) clear() { *c = counterTable{} }

// lmrReduction looks up the late move reduction for a quiet move and
// adjusts it for killers and well-scoring history.
func lmrReduction(depth int8, legalMoves int, isKiller bool, historyScore int32) int8 {
	d := Clamp(int(depth), 0, MaxPly)
	m := Clamp(legalMoves-1, 0, len(LMR[d])-1)
	r := LMR[d][m]
	if isKiller {
		r--
	}
	if historyScore > historyMax/2 {
		r--
	}
	return Max(r, 0)
}

// calculateSearchDepth computes the search depth for a move, accounting for reductions
func calculateSearchDepth(baseDepth int8, reduction int8) int8 {
	return baseDepth - reduction
}

// PVString renders a line played from p as space separated UCI strings.
func PVString(p *board.Position, moves []board.Move) string {
	c := p.Copy()
	return strings.Join(lo.Map(moves, func(m board.Move, _ int) string {
		s := c.MoveToUCI(m)
		c.MakeMove(m)
		return s
	}), " ")
}
