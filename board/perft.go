package board

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Perft counts the leaf nodes of the legal move tree to depth.
func Perft(p *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	lists := make([]MoveList, depth)
	return perft(p, depth, lists)
}

func perft(p *Position, depth int, lists []MoveList) uint64 {
	ml := &lists[depth-1]
	ml.Clear()
	p.generate(ml, genAll)
	var nodes uint64
	for _, m := range ml.Slice() {
		ok, st := p.MakeMove(m)
		if !ok {
			continue
		}
		if depth == 1 {
			nodes++
		} else {
			nodes += perft(p, depth-1, lists)
		}
		p.UnmakeMove(m, st)
	}
	return nodes
}

// PerftDivide returns the subtree size below each legal root move. Root
// moves are counted in parallel on copies of the position.
func PerftDivide(p *Position, depth int) map[Move]uint64 {
	out := make(map[Move]uint64)
	if depth < 1 {
		return out
	}
	moves := p.GenerateLegalMoves()
	counts := make([]uint64, len(moves))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, m := range moves {
		i, m := i, m
		g.Go(func() error {
			child := *p
			child.MakeMove(m)
			counts[i] = Perft(&child, depth-1)
			return nil
		})
	}
	_ = g.Wait()

	for i, m := range moves {
		out[m] = counts[i]
	}
	return out
}
