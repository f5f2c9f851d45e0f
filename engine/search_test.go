package engine

import (
	"context"
	"testing"
	"time"

	"magic-engine/board"
)

func TestSearchFindsMateInOne(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		want string
	}{
		{"back rank", "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", "a1a8"},
		{"scholar's mate", "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4", "h5f7"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := mustParse(t, tc.fen)
			res := newTestSearcher().Search(context.Background(), p, Limits{Depth: 4})
			if got := p.MoveToUCI(res.Move); got != tc.want {
				t.Fatalf("best move = %s, want %s", got, tc.want)
			}
			if res.MateIn != 1 {
				t.Fatalf("MateIn = %d (score %d), want 1", res.MateIn, res.Score)
			}
			if len(res.PV) == 0 || res.PV[0] != res.Move {
				t.Fatalf("PV %v does not start with the best move", res.PV)
			}
		})
	}
}

func TestSearchSeesForcedMateAgainstItself(t *testing.T) {
	p := mustParse(t, "k7/8/1K6/8/8/8/8/7R b - - 0 1")
	res := newTestSearcher().Search(context.Background(), p, Limits{Depth: 4})
	if got := p.MoveToUCI(res.Move); got != "a8b8" {
		t.Fatalf("best move = %s, want the only move a8b8", got)
	}
	if res.MateIn >= 0 {
		t.Fatalf("MateIn = %d (score %d), want a negative mate", res.MateIn, res.Score)
	}
}

func TestSearchWinsHangingQueen(t *testing.T) {
	p := mustParse(t, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
	res := newTestSearcher().Search(context.Background(), p, Limits{Depth: 3})
	if got := p.MoveToUCI(res.Move); got != "d2d5" {
		t.Fatalf("best move = %s, want d2d5", got)
	}
	if res.Score < 400 {
		t.Fatalf("score = %d, want a winning material score", res.Score)
	}
}

func TestSearchWithoutLegalMoves(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		score int32
	}{
		{"checkmated", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", -MaxScore},
		{"stalemated", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", DrawScore},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := mustParse(t, tc.fen)
			res := newTestSearcher().Search(context.Background(), p, Limits{Depth: 3})
			if res.Move != board.NoMove {
				t.Fatalf("move = %v, want NoMove", res.Move)
			}
			if res.Score != tc.score {
				t.Fatalf("score = %d, want %d", res.Score, tc.score)
			}
		})
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	a := newTestSearcher().Search(context.Background(), mustParse(t, fen), Limits{Depth: 4})
	b := newTestSearcher().Search(context.Background(), mustParse(t, fen), Limits{Depth: 4})
	if a.Move != b.Move || a.Score != b.Score || a.Nodes != b.Nodes {
		t.Fatalf("searches differ: (%v, %d, %d) vs (%v, %d, %d)", a.Move, a.Score, a.Nodes, b.Move, b.Score, b.Nodes)
	}
}

func TestSearchLeavesPositionUntouched(t *testing.T) {
	p := mustParse(t, board.FENStartPos)
	before := *p
	newTestSearcher().Search(context.Background(), p, Limits{Depth: 3})
	if *p != before {
		t.Fatalf("search modified its input position")
	}
}

func TestSearchHonorsCancellation(t *testing.T) {
	p := mustParse(t, board.FENStartPos)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := newTestSearcher().Search(ctx, p, Limits{Infinite: true})
	if res.Move == board.NoMove {
		t.Fatalf("cancelled search returned no move")
	}
	if ok, _ := p.Copy().MakeMove(res.Move); !ok {
		t.Fatalf("cancelled search returned illegal move %v", res.Move)
	}
}

func TestSearchHonorsStop(t *testing.T) {
	p := mustParse(t, board.FENStartPos)
	s := newTestSearcher()
	done := make(chan Result, 1)
	go func() { done <- s.Search(context.Background(), p, Limits{Infinite: true}) }()

	time.Sleep(50 * time.Millisecond)
	s.Stop()
	select {
	case res := <-done:
		if res.Move == board.NoMove {
			t.Fatalf("stopped search returned no move")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("search did not stop")
	}
}

func TestSearchHonorsNodeLimit(t *testing.T) {
	p := mustParse(t, board.FENStartPos)
	res := newTestSearcher().Search(context.Background(), p, Limits{Nodes: 2000})
	if res.Nodes > 2000 {
		t.Fatalf("searched %d nodes, limit was 2000", res.Nodes)
	}
	if res.Move == board.NoMove {
		t.Fatalf("node limited search returned no move")
	}
}

func TestSearchReportsEachIteration(t *testing.T) {
	opts := DefaultOptions()
	opts.HashMB = 4
	var depths []int
	opts.OnInfo = func(info Info) { depths = append(depths, info.Depth) }

	p := mustParse(t, board.FENStartPos)
	NewSearcher(opts, materialEval{}).Search(context.Background(), p, Limits{Depth: 4})
	if len(depths) != 4 {
		t.Fatalf("got %d info records, want 4", len(depths))
	}
	for i, d := range depths {
		if d != i+1 {
			t.Fatalf("info depths = %v", depths)
		}
	}
}

func TestSearchScoresRepetitionAsDraw(t *testing.T) {
	// White is a queen down and can only shuffle; the position after
	// Kh1-g1 was already seen twice.
	p := mustParse(t, "k7/8/8/8/8/8/q7/7K w - - 10 40")
	afterKg1 := p.Copy()
	afterKg1.MakeMove(mustMove(t, afterKg1, "h1g1"))

	s := newTestSearcher()
	s.SetHistory([]uint64{afterKg1.Hash(), p.Hash(), afterKg1.Hash(), p.Hash()}, 9)
	res := s.Search(context.Background(), p, Limits{Depth: 1})
	// The repetition is scored from Black's side, who stands better.
	if res.Score != s.opts.Contempt {
		t.Fatalf("score = %d, want %d", res.Score, s.opts.Contempt)
	}
}

func TestSearchPlaysOnAfterSingleRepetition(t *testing.T) {
	// Same shuffle, but Kg1 has only been seen once: no draw to claim yet.
	p := mustParse(t, "k7/8/8/8/8/8/q7/7K w - - 10 40")
	afterKg1 := p.Copy()
	afterKg1.MakeMove(mustMove(t, afterKg1, "h1g1"))

	s := newTestSearcher()
	s.SetHistory([]uint64{afterKg1.Hash(), p.Hash()}, 9)
	res := s.Search(context.Background(), p, Limits{Depth: 1})
	if res.Score >= -400 {
		t.Fatalf("score = %d, want White's material deficit", res.Score)
	}
}

func TestSearchStoppedInFirstIterationKeepsRootScore(t *testing.T) {
	p := mustParse(t, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
	for n := uint64(2); n <= 64; n++ {
		res := newTestSearcher().Search(context.Background(), p, Limits{Nodes: n})
		if res.Depth == 0 || p.MoveToUCI(res.Move) != "d2d5" {
			continue
		}
		if res.Score < 400 {
			t.Fatalf("nodes %d: d2d5 reported with score %d", n, res.Score)
		}
	}
}

func TestNewGameClearsTables(t *testing.T) {
	s := newTestSearcher()
	p := mustParse(t, board.FENStartPos)
	s.Search(context.Background(), p, Limits{Depth: 3})
	if s.TT().ProbeMove(p.Hash()) == board.NoMove {
		t.Fatalf("search stored no root entry")
	}
	s.NewGame()
	if m := s.TT().ProbeMove(p.Hash()); m != board.NoMove {
		t.Fatalf("NewGame kept root move %v", m)
	}
}
