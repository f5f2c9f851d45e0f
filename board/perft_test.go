package board_test

import (
	"testing"

	"magic-engine/board"
)

type perftCase struct {
	name  string
	fen   string
	nodes []uint64 // nodes[i] is perft(i+1)
}

var perftCases = []perftCase{
	{"startpos", board.FENStartPos, []uint64{20, 400, 8902, 197281}},
	{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", []uint64{48, 2039, 97862}},
	{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", []uint64{14, 191, 2812, 43238}},
	{"position4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []uint64{6, 264, 9467}},
	{"position5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []uint64{44, 1486, 62379}},
	{"chess960-1", "bqnb1rkr/pp3ppp/3ppn2/2p5/5P2/P2P4/NPP1P1PP/BQ1BNRKR w HFhf - 2 9", []uint64{21, 528, 12189}},
	{"chess960-2", "2nnrbkr/p1qppppp/8/1ppb4/6PP/3PP3/PPP2P2/BQNNRBKR w HEhe - 1 9", []uint64{21, 807, 18002}},
}

func TestPerft(t *testing.T) {
	for _, tc := range perftCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := board.ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN failed: %v", err)
			}
			before := p.ToFEN()
			for i, want := range tc.nodes {
				depth := i + 1
				if testing.Short() && want > 50000 {
					continue
				}
				if got := board.Perft(p, depth); got != want {
					t.Fatalf("perft depth%d: got %d want %d", depth, got, want)
				}
			}
			if p.ToFEN() != before {
				t.Fatalf("position changed by perft: got %q want %q", p.ToFEN(), before)
			}
		})
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	p, err := board.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	div := board.PerftDivide(p, 2)
	if len(div) != 48 {
		t.Fatalf("divide root moves: got %d want 48", len(div))
	}
	var sum uint64
	for _, n := range div {
		sum += n
	}
	if sum != 2039 {
		t.Fatalf("divide sum: got %d want 2039", sum)
	}
	if !p.Validate() {
		t.Fatalf("position invalid after divide")
	}
}

func TestPerftDepthZero(t *testing.T) {
	p, _ := board.ParseFEN(board.FENStartPos)
	if got := board.Perft(p, 0); got != 1 {
		t.Fatalf("perft(0): got %d want 1", got)
	}
	if got := board.PerftDivide(p, 0); len(got) != 0 {
		t.Fatalf("divide(0): got %d entries want 0", len(got))
	}
}
