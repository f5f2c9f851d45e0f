package board_test

import (
	"math/rand"
	"testing"

	"magic-engine/board"
)

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

func TestMakeUnmakeRestoresPosition(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		move string
	}{
		{"quiet", board.FENStartPos, "g1f3"},
		{"double push", board.FENStartPos, "e2e4"},
		{"capture", "8/r7/8/8/8/8/8/R3K2k w - - 0 1", "a1a7"},
		{"en passant", "k7/8/8/3pP3/8/8/8/7K w - d6 0 2", "e5d6"},
		{"promotion", "k7/4P3/8/8/8/8/8/7K w - - 0 1", "e7e8q"},
		{"promotion capture", "k4r2/4P3/8/8/8/8/8/7K w - - 0 1", "e7f8n"},
		{"castle kingside", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1"},
		{"castle queenside", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := mustParse(t, tc.fen)
			startFEN, startHash := p.ToFEN(), p.Hash()
			m := mustMove(t, p, tc.move)
			ok, st := p.MakeMove(m)
			if !ok {
				t.Fatalf("MakeMove(%s) rejected", tc.move)
			}
			if !p.Validate() {
				t.Fatalf("position invalid after MakeMove")
			}
			p.UnmakeMove(m, st)
			if !p.Validate() {
				t.Fatalf("position invalid after UnmakeMove")
			}
			if p.ToFEN() != startFEN {
				t.Fatalf("FEN mismatch after unmake: got %q want %q", p.ToFEN(), startFEN)
			}
			if p.Hash() != startHash {
				t.Fatalf("hash mismatch after unmake")
			}
		})
	}
}

func TestMakeMoveEffects(t *testing.T) {
	p := mustParse(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 5 10")
	p.Apply(mustMove(t, p, "e1g1"))
	if got := p.PieceAt(board.G1); got != board.WhiteKing {
		t.Fatalf("king not on g1: %v", got)
	}
	if got := p.PieceAt(board.F1); got != board.WhiteRook {
		t.Fatalf("rook not on f1: %v", got)
	}
	if p.CastlingRights()&(board.WhiteKingside|board.WhiteQueenside) != 0 {
		t.Fatalf("white castling rights kept after castling")
	}
	if p.HalfmoveClock() != 6 {
		t.Fatalf("halfmove: got %d want 6", p.HalfmoveClock())
	}

	p.Apply(mustMove(t, p, "a8a1"))
	if p.CastlingRights() != board.BlackKingside {
		t.Fatalf("rights after rook trade: got %d want %d", p.CastlingRights(), board.BlackKingside)
	}
	if p.HalfmoveClock() != 0 || p.FullmoveNumber() != 11 {
		t.Fatalf("clocks after capture: half %d full %d", p.HalfmoveClock(), p.FullmoveNumber())
	}

	q := mustParse(t, board.FENStartPos)
	q.Apply(mustMove(t, q, "e2e4"))
	if q.EnPassantSquare() != board.NewSquare(4, 2) {
		t.Fatalf("ep square: got %v want e3", q.EnPassantSquare())
	}
	q.Apply(mustMove(t, q, "g8f6"))
	if q.EnPassantSquare() != board.NoSquare {
		t.Fatalf("ep square survived a reply: %v", q.EnPassantSquare())
	}
}

func TestMakeMoveRejects(t *testing.T) {
	p := mustParse(t, "4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")
	fen := p.ToFEN()
	cases := []struct {
		name string
		m    board.Move
	}{
		{"empty origin", board.NewMove(board.A1, board.NewSquare(0, 1), board.FlagQuiet)},
		{"enemy piece", board.NewMove(board.E8, board.D8, board.FlagQuiet)},
		{"leaves king in check", board.NewMove(board.E1, board.NewSquare(3, 1), board.FlagQuiet)},
		{"capture flag on empty square", board.NewMove(board.E1, board.D1, board.FlagCapture)},
		{"quiet flag onto a piece", board.NewMove(board.E1, board.NewSquare(4, 1), board.FlagQuiet)},
		{"castle without rights", board.NewMove(board.E1, board.G1, board.FlagCastleKingside)},
		{"no move", board.NoMove},
	}
	for _, tc := range cases {
		ok, _ := p.MakeMove(tc.m)
		if ok {
			t.Fatalf("%s: move %v accepted", tc.name, tc.m)
		}
		if p.ToFEN() != fen || !p.Validate() {
			t.Fatalf("%s: position changed by rejected move", tc.name)
		}
	}

	k := mustParse(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	if ok, _ := k.MakeMove(board.NewMove(board.A1, board.A8, board.FlagCapture)); ok {
		t.Fatalf("capture onto empty square accepted")
	}
}

func TestNullMove(t *testing.T) {
	p := mustParse(t, "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2")
	fen, hash := p.ToFEN(), p.Hash()
	st := p.MakeNullMove()
	if p.SideToMove() != board.Black || p.EnPassantSquare() != board.NoSquare {
		t.Fatalf("null move did not pass the turn cleanly")
	}
	if p.Hash() != p.ComputeZobrist() {
		t.Fatalf("incremental hash wrong after null move")
	}
	p.UnmakeNullMove(st)
	if p.ToFEN() != fen || p.Hash() != hash {
		t.Fatalf("null move not undone: got %q", p.ToFEN())
	}
}

// Random playouts check the incremental hash and the undo path on every ply.
func TestRandomPlayoutsKeepInvariants(t *testing.T) {
	fens := []string{
		board.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"bqnb1rkr/pp3ppp/3ppn2/2p5/5P2/P2P4/NPP1P1PP/BQ1BNRKR w HFhf - 2 9",
	}
	rng := rand.New(rand.NewSource(7))
	for _, fen := range fens {
		for game := 0; game < 20; game++ {
			p := mustParse(t, fen)
			var stack []board.Undo
			var hist []uint64
			var fenStack []string
			for ply := 0; ply < 80; ply++ {
				moves := p.GenerateLegalMoves()
				if len(moves) == 0 {
					break
				}
				fenStack = append(fenStack, p.ToFEN())
				m := moves[rng.Intn(len(moves))]
				if !p.PushMove(m, &stack, &hist) {
					t.Fatalf("legal move %v rejected in %s", m, fenStack[len(fenStack)-1])
				}
				if p.Hash() != p.ComputeZobrist() {
					t.Fatalf("hash drift after %v from %s", m, fenStack[len(fenStack)-1])
				}
				if !p.Validate() {
					t.Fatalf("invalid position after %v from %s", m, fenStack[len(fenStack)-1])
				}
			}
			for i := len(stack) - 1; i >= 0; i-- {
				p.PopMove(&stack, &hist)
				if got := p.ToFEN(); got != fenStack[i] {
					t.Fatalf("unwind mismatch at ply %d: got %q want %q", i, got, fenStack[i])
				}
			}
		}
	}
}

func TestChess960CastlingRookOnKingDestination(t *testing.T) {
	// King b1, rook a1: queenside castling swaps them onto c1 and d1.
	p := mustParse(t, "4k3/8/8/8/8/8/8/RK6 w A - 0 1")
	if !p.Chess960() {
		t.Fatalf("Shredder castling field should enable Chess960")
	}
	m := mustMove(t, p, "b1a1")
	if !m.IsCastle() {
		t.Fatalf("b1a1 should resolve to castling, got %v", m)
	}
	if got := p.MoveToUCI(m); got != "b1a1" {
		t.Fatalf("MoveToUCI: got %s want b1a1", got)
	}
	undo := p.Apply(m)
	if p.PieceAt(board.C1) != board.WhiteKing || p.PieceAt(board.D1) != board.WhiteRook {
		t.Fatalf("castling result wrong: %s", p.ToFEN())
	}
	if p.PieceAt(board.A1) != board.NoPiece || p.PieceAt(board.B1) != board.NoPiece {
		t.Fatalf("origin squares not cleared: %s", p.ToFEN())
	}
	undo()
	if p.ToFEN() != "4k3/8/8/8/8/8/8/RK6 w A - 0 1" {
		t.Fatalf("undo castling: got %q", p.ToFEN())
	}
}

func TestChess960CastlingThroughAttackRejected(t *testing.T) {
	// Black rook on c8 covers c1, the king's destination.
	p := mustParse(t, "2r1k3/8/8/8/8/8/8/RK6 w A - 0 1")
	for _, m := range p.GenerateLegalMoves() {
		if m.IsCastle() {
			t.Fatalf("castled onto an attacked square: %v", m)
		}
	}
}
