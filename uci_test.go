package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"magic-engine/board"
	"magic-engine/engine"
	"magic-engine/eval"
)

func runUCI(t *testing.T, input string) (*uci, string) {
	t.Helper()
	var out bytes.Buffer
	u := newUCI(&out)
	if err := u.run(strings.NewReader(input)); err != nil {
		t.Fatalf("run: %v", err)
	}
	return u, out.String()
}

func lastBestMove(t *testing.T, out string) string {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if f := strings.Fields(lines[i]); len(f) == 2 && f[0] == "bestmove" {
			return f[1]
		}
	}
	t.Fatalf("no bestmove in output:\n%s", out)
	return ""
}

func TestHandshake(t *testing.T) {
	_, out := runUCI(t, "uci\nisready\n")
	for _, want := range []string{
		"id name ", "option name Hash type spin", "option name UCI_Chess960 type check",
		"option name MagicCache", "option name EvalFile", "uciok", "readyok",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestGoDepthPrintsInfoAndLegalBestMove(t *testing.T) {
	_, out := runUCI(t, "position startpos moves e2e4 e7e5\ngo depth 3\n")
	for _, want := range []string{"info depth 1 ", "info depth 3 ", " score cp ", " pv "} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	best := lastBestMove(t, out)
	p, _ := board.ParseFEN(board.FENStartPos)
	for _, s := range []string{"e2e4", "e7e5"} {
		m, err := p.ParseMove(s)
		if err != nil {
			t.Fatalf("ParseMove(%s): %v", s, err)
		}
		p.MakeMove(m)
	}
	if _, err := p.ParseMove(best); err != nil {
		t.Fatalf("bestmove %s is not legal: %v", best, err)
	}
}

func TestGoFindsMate(t *testing.T) {
	_, out := runUCI(t, "position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1\ngo depth 4\n")
	if best := lastBestMove(t, out); best != "a1a8" {
		t.Fatalf("bestmove = %s, want a1a8", best)
	}
	if !strings.Contains(out, "score mate 1") {
		t.Fatalf("no mate score in:\n%s", out)
	}
}

func TestGoWithoutLegalMoves(t *testing.T) {
	_, out := runUCI(t, "position fen k7/1Q6/1K6/8/8/8/8/8 b - - 0 1\ngo depth 2\n")
	if best := lastBestMove(t, out); best != "0000" {
		t.Fatalf("bestmove = %s, want 0000", best)
	}
}

func TestStopEndsInfiniteSearch(t *testing.T) {
	pr, pw := io.Pipe()
	var out bytes.Buffer
	u := newUCI(&out)

	done := make(chan error, 1)
	go func() { done <- u.run(pr) }()

	io.WriteString(pw, "position startpos\ngo infinite\n")
	time.Sleep(100 * time.Millisecond)
	io.WriteString(pw, "stop\nquit\n")
	pw.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("search did not stop")
	}
	if strings.Count(out.String(), "bestmove ") != 1 {
		t.Fatalf("want exactly one bestmove:\n%s", out.String())
	}
}

func TestPositionErrorsKeepState(t *testing.T) {
	u, out := runUCI(t, "position startpos moves e2e4\nposition startpos moves e2e5\nposition fen nonsense\n")
	if strings.Count(out, "info string ") != 2 {
		t.Fatalf("want two errors:\n%s", out)
	}
	if got := u.pos.ToFEN(); got != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1" &&
		got != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1" {
		t.Fatalf("position changed to %s", got)
	}
	if len(u.history) != 1 {
		t.Fatalf("history length = %d, want 1", len(u.history))
	}
}

func TestPositionRecordsHistory(t *testing.T) {
	u, _ := runUCI(t, "position startpos moves g1f3 g8f6 f3g1 f6g8\n")
	if len(u.history) != 4 {
		t.Fatalf("history length = %d, want 4", len(u.history))
	}
	if u.history[0] != u.pos.Hash() {
		t.Fatal("repeated position has a different hash")
	}
}

func TestParseGo(t *testing.T) {
	tests := []struct {
		args string
		want engine.Limits
	}{
		{"depth 7", engine.Limits{Depth: 7}},
		{"nodes 5000", engine.Limits{Nodes: 5000}},
		{"movetime 250", engine.Limits{MoveTime: 250 * time.Millisecond}},
		{"infinite", engine.Limits{Infinite: true}},
		{"wtime 60000 btime 59000 winc 1000 binc 900 movestogo 30", engine.Limits{
			WTime: time.Minute, BTime: 59 * time.Second,
			WInc: time.Second, BInc: 900 * time.Millisecond, MovesToGo: 30,
		}},
		{"ponder depth 3", engine.Limits{Depth: 3}},
	}
	for _, tt := range tests {
		got, err := parseGo(strings.Fields(tt.args))
		if err != nil {
			t.Fatalf("parseGo(%q): %v", tt.args, err)
		}
		if got != tt.want {
			t.Fatalf("parseGo(%q) = %+v, want %+v", tt.args, got, tt.want)
		}
	}

	for _, bad := range []string{"depth", "depth x", "nodes -1"} {
		if _, err := parseGo(strings.Fields(bad)); err == nil {
			t.Fatalf("parseGo(%q) accepted", bad)
		}
	}
}

func TestSetOption(t *testing.T) {
	u, out := runUCI(t, "setoption name Hash value 8\nsetoption name Contempt value 10\nsetoption name UCI_Chess960 value true\nsetoption name Bogus value 1\n")
	opts := u.searcher.Options()
	if opts.HashMB != 8 || opts.Contempt != 10 {
		t.Fatalf("options = %d MB contempt %d", opts.HashMB, opts.Contempt)
	}
	if !u.chess960 || !u.pos.Chess960() {
		t.Fatal("UCI_Chess960 not applied")
	}
	if strings.Count(out, "info string ") != 1 {
		t.Fatalf("want one error for the unknown option:\n%s", out)
	}
}

func TestSetOptionEvalFile(t *testing.T) {
	params := eval.DefaultParams()
	params.BishopPairMG = 77
	path := filepath.Join(t.TempDir(), "params.json")
	if err := eval.SaveParams(path, params); err != nil {
		t.Fatalf("SaveParams: %v", err)
	}

	u, out := runUCI(t, "setoption name EvalFile value "+path+"\n")
	if strings.Contains(out, "info string") {
		t.Fatalf("unexpected error:\n%s", out)
	}
	if got := u.evaluator.Params().BishopPairMG; got != 77 {
		t.Fatalf("BishopPairMG = %d, want 77", got)
	}

	_, out = runUCI(t, "setoption name EvalFile value "+filepath.Join(t.TempDir(), "missing.json")+"\n")
	if !strings.Contains(out, "info string setoption EvalFile") {
		t.Fatalf("missing file not reported:\n%s", out)
	}
}

func TestSetOptionMagicCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "magic.bin")
	_, out := runUCI(t, "setoption name MagicCache value "+path+"\nposition startpos\nperft 2\n")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("cache not written: %v", err)
	}
	if !strings.Contains(out, "Nodes searched: 400") {
		t.Fatalf("perft with cached tables:\n%s", out)
	}
}

func TestPerftDisplayAndEval(t *testing.T) {
	_, out := runUCI(t, "perft 3\nd\neval\ngo depth 2\nstats\n")
	for _, want := range []string{
		"e2e4: 600", "Nodes searched: 8902",
		"Fen: " + board.FENStartPos,
		"info string eval cp 0",
		"info string Cut statistics:",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestNewGameResetsPosition(t *testing.T) {
	u, _ := runUCI(t, "position startpos moves e2e4\nucinewgame\n")
	if u.pos.ToFEN() != board.FENStartPos || len(u.history) != 0 {
		t.Fatalf("ucinewgame left %s", u.pos.ToFEN())
	}
}

func TestParseSetOption(t *testing.T) {
	name, value, err := parseSetOption(strings.Fields("name Eval File value /tmp/a b.json"))
	if err != nil || name != "Eval File" || value != "/tmp/a b.json" {
		t.Fatalf("got %q %q %v", name, value, err)
	}
	if _, _, err := parseSetOption([]string{"Hash"}); err == nil {
		t.Fatal("missing name accepted")
	}
}

func BenchmarkGoDepth6(b *testing.B) {
	for i := 0; i < b.N; i++ {
		u := newUCI(io.Discard)
		u.run(strings.NewReader("position startpos\ngo depth 6\n"))
	}
}
