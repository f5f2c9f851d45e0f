package engine

import "testing"

func TestSEE(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		move string
		want int
	}{
		{"revealed slider", "6k1/4q1p1/4n3/8/2B5/8/8/6K1 w - - 0 1", "c4e6", 0},
		{"en passant", "k7/8/8/3pP3/8/8/8/6K1 w - d6 0 1", "e5d6", 100},
		{"free pawn", "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", "e4d5", 100},
		{"rook takes defended pawn", "4k3/8/2p5/3p4/8/8/3R4/4K3 w - - 0 1", "d2d5", -400},
		{"x-ray rook behind rook", "4k3/3r4/8/3p4/8/8/3R4/3RK3 w - - 0 1", "d2d5", 100},
		{"pawn takes defended knight", "4k3/8/2p5/3n4/4P3/8/8/4K3 w - - 0 1", "e4d5", 200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := mustParse(t, tc.fen)
			m := mustMove(t, p, tc.move)
			if got := see(p, m); got != tc.want {
				t.Fatalf("see(%s) = %d, want %d", tc.move, got, tc.want)
			}
		})
	}
}
