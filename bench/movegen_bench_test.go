package bench

import (
	"testing"

	"magic-engine/attacks"
	"magic-engine/board"
)

const (
	kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	pos6     = "r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10"
)

func mustParse(b *testing.B, fen string) *board.Position {
	b.Helper()
	p, err := board.ParseFEN(fen)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	return p
}

func benchGenerateMoves(b *testing.B, fen string) {
	p := mustParse(b, fen)
	var ml board.MoveList
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.GeneratePseudoMovesInto(&ml)
	}
}

func BenchmarkGenerateMoves_Initial(b *testing.B) {
	benchGenerateMoves(b, board.FENStartPos)
}

func BenchmarkGenerateMoves_Kiwipete(b *testing.B) {
	benchGenerateMoves(b, kiwipete)
}

func BenchmarkGenerateMoves_Pos6(b *testing.B) {
	benchGenerateMoves(b, pos6)
}

func BenchmarkGenerateLegalMoves_Kiwipete(b *testing.B) {
	p := mustParse(b, kiwipete)
	var ml board.MoveList
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.GenerateLegalMovesInto(&ml)
	}
}

func BenchmarkGenerateCaptures_EP(b *testing.B) {
	p := mustParse(b, "k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
	var ml board.MoveList
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.GeneratePseudoCapturesInto(&ml)
	}
}

func BenchmarkGenerateQuiets_Initial(b *testing.B) {
	p := mustParse(b, board.FENStartPos)
	var ml board.MoveList
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.GenerateQuietsInto(&ml)
	}
}

func BenchmarkMakeUnmake_AllMoves_Kiwipete(b *testing.B) {
	p := mustParse(b, kiwipete)
	moves := p.GenerateLegalMoves()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, m := range moves {
			ok, st := p.MakeMove(m)
			if !ok {
				b.Fatalf("illegal move in cached list: %v", m)
			}
			p.UnmakeMove(m, st)
		}
	}
}

func BenchmarkSliderLookup(b *testing.B) {
	t := attacks.Default()
	occ := mustParse(b, kiwipete).AllOccupied()
	var sink uint64
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sq := i & 63
		sink ^= t.RookAttacks(sq, occ) ^ t.BishopAttacks(sq, occ)
	}
	_ = sink
}
