package engine

import (
	"math/bits"
	"testing"

	"magic-engine/board"
)

var materialValues = [6]int{100, 300, 300, 500, 900, 0}

// materialEval counts material from the side to move's point of view.
type materialEval struct{}

func (materialEval) Evaluate(p *board.Position) int {
	score := 0
	for pt := board.Pawn; pt < board.King; pt++ {
		score += bits.OnesCount64(p.PiecesOf(board.White, pt)) * materialValues[pt]
		score -= bits.OnesCount64(p.PiecesOf(board.Black, pt)) * materialValues[pt]
	}
	if p.SideToMove() == board.Black {
		return -score
	}
	return score
}

func mustParse(t *testing.T, fen string) *board.Position {
	t.Helper()
	p, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return p
}

func mustMove(t *testing.T, p *board.Position, uci string) board.Move {
	t.Helper()
	m, err := p.ParseMove(uci)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", uci, err)
	}
	return m
}

func newTestSearcher() *Searcher {
	opts := DefaultOptions()
	opts.HashMB = 4
	return NewSearcher(opts, materialEval{})
}
