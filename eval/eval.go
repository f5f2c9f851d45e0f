// Package eval is the static evaluation: material, piece-square tables and
// a few pawn and piece terms, tapered between middlegame and endgame.
package eval

import (
	"math/bits"

	"magic-engine/board"
	"magic-engine/engine"
)

// Params holds every tunable number of the evaluation. Tables are indexed
// a1 = 0 from White's side; Black reads the vertically mirrored square.
type Params struct {
	PieceValueMG [6]int     `json:"piece_value_mg"`
	PieceValueEG [6]int     `json:"piece_value_eg"`
	PSTMG        [6][64]int `json:"pst_mg"`
	PSTEG        [6][64]int `json:"pst_eg"`
	PassedPawnMG [64]int    `json:"passed_pawn_mg"`
	PassedPawnEG [64]int    `json:"passed_pawn_eg"`

	BishopPairMG   int `json:"bishop_pair_mg"`
	BishopPairEG   int `json:"bishop_pair_eg"`
	IsolatedPawnMG int `json:"isolated_pawn_mg"`
	IsolatedPawnEG int `json:"isolated_pawn_eg"`
	DoubledPawnMG  int `json:"doubled_pawn_mg"`
	DoubledPawnEG  int `json:"doubled_pawn_eg"`
	RookOpenMG     int `json:"rook_open_mg"`
	RookSemiOpenMG int `json:"rook_semi_open_mg"`
}

// Evaluator implements engine.Evaluator.
type Evaluator struct {
	params Params
}

var _ engine.Evaluator = (*Evaluator)(nil)

func New(params Params) *Evaluator {
	return &Evaluator{params: params}
}

func (e *Evaluator) Params() Params { return e.params }

var (
	fileMask     [8]uint64
	adjacentMask [8]uint64
	// passedMask[c][sq] covers the squares in front of a pawn of color c
	// on its own and the adjacent files.
	passedMask [2][64]uint64
)

func init() {
	for f := 0; f < 8; f++ {
		fileMask[f] = 0x0101010101010101 << f
	}
	for f := 0; f < 8; f++ {
		if f > 0 {
			adjacentMask[f] |= fileMask[f-1]
		}
		if f < 7 {
			adjacentMask[f] |= fileMask[f+1]
		}
	}
	for sq := 0; sq < 64; sq++ {
		f, r := sq&7, sq>>3
		span := fileMask[f] | adjacentMask[f]
		for rank := r + 1; rank < 8; rank++ {
			passedMask[board.White][sq] |= span & (0xFF << (8 * rank))
		}
		for rank := r - 1; rank >= 0; rank-- {
			passedMask[board.Black][sq] |= span & (0xFF << (8 * rank))
		}
	}
}

// relative maps sq to White's point of view.
func relative(c board.Color, sq int) int {
	if c == board.Black {
		return sq ^ 56
	}
	return sq
}

// Evaluate returns the score in centipawns for the side to move.
func (e *Evaluator) Evaluate(p *board.Position) int {
	var mg, eg int
	for c := board.White; c <= board.Black; c++ {
		cmg, ceg := e.side(p, c)
		if c == board.White {
			mg += cmg
			eg += ceg
		} else {
			mg -= cmg
			eg -= ceg
		}
	}

	phase := engine.GetPiecePhase(p)
	score := (mg*phase + eg*(engine.TotalPhase-phase)) / engine.TotalPhase
	score = engine.Clamp(score, -int(engine.MaxEval), int(engine.MaxEval))

	if p.SideToMove() == board.Black {
		return -score
	}
	return score
}

// side scores the pieces of color c from c's point of view.
func (e *Evaluator) side(p *board.Position, c board.Color) (mg, eg int) {
	prm := &e.params
	for pt := board.Pawn; pt <= board.King; pt++ {
		for bb := p.PiecesOf(c, pt); bb != 0; bb &= bb - 1 {
			sq := relative(c, bits.TrailingZeros64(bb))
			mg += prm.PieceValueMG[pt] + prm.PSTMG[pt][sq]
			eg += prm.PieceValueEG[pt] + prm.PSTEG[pt][sq]
		}
	}

	pawnMG, pawnEG := e.pawns(p, c)
	mg += pawnMG
	eg += pawnEG

	if bits.OnesCount64(p.PiecesOf(c, board.Bishop)) > 1 {
		mg += prm.BishopPairMG
		eg += prm.BishopPairEG
	}

	ours := p.PiecesOf(c, board.Pawn)
	all := ours | p.PiecesOf(c.Other(), board.Pawn)
	for bb := p.PiecesOf(c, board.Rook); bb != 0; bb &= bb - 1 {
		file := fileMask[bits.TrailingZeros64(bb)&7]
		switch {
		case all&file == 0:
			mg += prm.RookOpenMG
		case ours&file == 0:
			mg += prm.RookSemiOpenMG
		}
	}
	return mg, eg
}

func (e *Evaluator) pawns(p *board.Position, c board.Color) (mg, eg int) {
	prm := &e.params
	ours := p.PiecesOf(c, board.Pawn)
	theirs := p.PiecesOf(c.Other(), board.Pawn)

	for f := 0; f < 8; f++ {
		if n := bits.OnesCount64(ours & fileMask[f]); n > 1 {
			mg -= (n - 1) * prm.DoubledPawnMG
			eg -= (n - 1) * prm.DoubledPawnEG
		}
	}

	for bb := ours; bb != 0; bb &= bb - 1 {
		sq := bits.TrailingZeros64(bb)
		if ours&adjacentMask[sq&7] == 0 {
			mg -= prm.IsolatedPawnMG
			eg -= prm.IsolatedPawnEG
		}
		if theirs&passedMask[c][sq] == 0 {
			rel := relative(c, sq)
			mg += prm.PassedPawnMG[rel]
			eg += prm.PassedPawnEG[rel]
		}
	}
	return mg, eg
}
