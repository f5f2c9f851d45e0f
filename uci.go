package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"magic-engine/attacks"
	"magic-engine/board"
	"magic-engine/engine"
	"magic-engine/eval"
)

const (
	engineName   = "MagicEngine 0.3"
	engineAuthor = "Goose"

	cacheEnv = "MAGIC_ENGINE_CACHE"

	minHashMB = 1
	maxHashMB = 4096
)

func main() {
	logLevel := flag.String("loglevel", "warn", "log level: debug, info, warn, error")
	magicCache := flag.String("magiccache", os.Getenv(cacheEnv), "magic attack table cache file")
	hashMB := flag.Int("hash", engine.DefaultOptions().HashMB, "transposition table size in MB")
	evalFile := flag.String("evalfile", "", "JSON file with evaluation parameters")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	u := newUCI(os.Stdout)
	startup := [][2]string{
		{"MagicCache", *magicCache},
		{"Hash", strconv.Itoa(*hashMB)},
		{"EvalFile", *evalFile},
	}
	for _, opt := range startup {
		if opt[1] == "" {
			continue
		}
		if err := u.setOption(opt[0], opt[1]); err != nil {
			log.Error().Err(err).Str("option", opt[0]).Msg("startup-option-failed")
		}
	}

	if err := u.run(os.Stdin); err != nil {
		log.Error().Err(err).Msg("uci-input-failed")
		os.Exit(1)
	}
}

// uci holds the protocol state between commands. Output from the search
// goroutine and the command loop is serialized through mu.
type uci struct {
	out io.Writer
	mu  sync.Mutex

	searcher  *engine.Searcher
	evaluator *eval.Evaluator
	pos       *board.Position
	history   []uint64
	chess960  bool
	session   uuid.UUID

	root     *board.Position
	cancel   context.CancelFunc
	done     chan struct{}
	infinite bool
}

func newUCI(out io.Writer) *uci {
	u := &uci{
		out:       out,
		evaluator: eval.New(eval.DefaultParams()),
		session:   uuid.New(),
	}
	u.pos, _ = board.ParseFEN(board.FENStartPos)
	opts := engine.DefaultOptions()
	opts.OnInfo = u.printInfo
	u.searcher = engine.NewSearcher(opts, u.evaluator)
	return u
}

// run reads commands until quit or end of input. At end of input a
// running search is allowed to finish.
func (u *uci) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		if !u.handle(tokens) {
			u.stopSearch()
			return nil
		}
	}
	u.settle()
	return scanner.Err()
}

func (u *uci) handle(tokens []string) bool {
	args := tokens[1:]
	switch strings.ToLower(tokens[0]) {
	case "uci":
		u.identify()
	case "isready":
		u.printf("readyok")
	case "ucinewgame":
		u.settle()
		u.newGame()
	case "position":
		u.settle()
		if err := u.position(args); err != nil {
			u.printf("info string %v", err)
		}
	case "go":
		u.settle()
		limits, err := parseGo(args)
		if err != nil {
			u.printf("info string %v", err)
			return true
		}
		u.startSearch(limits)
	case "stop":
		u.stopSearch()
	case "quit":
		return false
	case "setoption":
		u.settle()
		name, value, err := parseSetOption(args)
		if err == nil {
			err = u.setOption(name, value)
		}
		if err != nil {
			u.printf("info string %v", err)
		}
	case "d":
		u.display()
	case "perft":
		u.perft(args)
	case "eval":
		u.printf("info string eval %s", engine.FormatScore(int32(u.evaluator.Evaluate(u.pos))))
	case "stats":
		u.settle()
		var buf bytes.Buffer
		u.searcher.Stats().Dump(&buf)
		u.write(buf.Bytes())
	default:
		u.printf("info string unknown command %s", tokens[0])
	}
	return true
}

func (u *uci) identify() {
	def := engine.DefaultOptions()
	u.printf("id name %s", engineName)
	u.printf("id author %s", engineAuthor)
	u.printf("option name Hash type spin default %d min %d max %d", def.HashMB, minHashMB, maxHashMB)
	u.printf("option name Contempt type spin default %d min -200 max 200", def.Contempt)
	u.printf("option name UCI_Chess960 type check default false")
	u.printf("option name MagicCache type string default <empty>")
	u.printf("option name EvalFile type string default <empty>")
	u.printf("uciok")
}

func (u *uci) newGame() {
	u.searcher.NewGame()
	u.pos, _ = board.ParseFEN(board.FENStartPos)
	u.pos.SetChess960(u.chess960)
	u.history = nil
	u.session = uuid.New()
	log.Info().Str("session", u.session.String()).Msg("new-game")
}

// position replaces the current position only when the whole command
// parses and every move is legal.
func (u *uci) position(args []string) error {
	if len(args) == 0 {
		return errors.New("position needs startpos or fen")
	}
	var fen string
	rest := args[1:]
	switch strings.ToLower(args[0]) {
	case "startpos":
		fen = board.FENStartPos
	case "fen":
		end := lo.IndexOf(rest, "moves")
		if end < 0 {
			end = len(rest)
		}
		fen = strings.Join(rest[:end], " ")
		rest = rest[end:]
	default:
		return errors.Errorf("position: unknown argument %q", args[0])
	}

	p, err := board.ParseFEN(fen)
	if err != nil {
		return errors.Wrap(err, "position")
	}
	if u.chess960 {
		p.SetChess960(true)
	}

	var hashes []uint64
	if len(rest) > 0 {
		if rest[0] != "moves" {
			return errors.Errorf("position: unexpected %q", rest[0])
		}
		for _, s := range rest[1:] {
			m, err := p.ParseMove(s)
			if err != nil {
				return errors.Wrap(err, "position")
			}
			hashes = append(hashes, p.Hash())
			p.MakeMove(m)
		}
	}
	u.pos, u.history = p, hashes
	return nil
}

func parseGo(args []string) (engine.Limits, error) {
	var limits engine.Limits
	for i := 0; i < len(args); i++ {
		key := strings.ToLower(args[i])
		switch key {
		case "infinite":
			limits.Infinite = true
			continue
		case "depth", "nodes", "movetime", "wtime", "btime", "winc", "binc", "movestogo":
		default:
			log.Warn().Str("param", key).Msg("go-param-ignored")
			continue
		}

		if i+1 >= len(args) {
			return limits, errors.Errorf("go: missing value for %s", key)
		}
		i++
		n, err := strconv.ParseInt(args[i], 10, 64)
		if err != nil {
			return limits, errors.Wrapf(err, "go: bad value for %s", key)
		}
		ms := time.Duration(n) * time.Millisecond
		switch key {
		case "depth":
			limits.Depth = int(n)
		case "nodes":
			if n < 0 {
				return limits, errors.Errorf("go: negative nodes %d", n)
			}
			limits.Nodes = uint64(n)
		case "movetime":
			limits.MoveTime = ms
		case "wtime":
			limits.WTime = ms
		case "btime":
			limits.BTime = ms
		case "winc":
			limits.WInc = ms
		case "binc":
			limits.BInc = ms
		case "movestogo":
			limits.MovesToGo = int(n)
		}
	}
	return limits, nil
}

func (u *uci) startSearch(limits engine.Limits) {
	root := u.pos.Copy()
	u.searcher.SetHistory(u.history, engine.Max(root.HalfmoveClock()-1, 0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	// A bare "go" runs until stopped, like "go infinite".
	u.root, u.cancel, u.done = root, cancel, done
	u.infinite = limits.Infinite || limits == engine.Limits{}

	go func() {
		defer close(done)
		defer cancel()
		res := u.searcher.Search(ctx, root, limits)
		best := "0000"
		if res.Move != board.NoMove {
			best = root.MoveToUCI(res.Move)
		}
		u.printf("bestmove %s", best)
	}()
}

// stopSearch aborts a running search and waits for its bestmove.
func (u *uci) stopSearch() {
	if u.done == nil {
		return
	}
	u.searcher.Stop()
	u.cancel()
	u.wait()
}

// settle lets a bounded search finish and stops an infinite one, so that
// state can be changed safely.
func (u *uci) settle() {
	if u.done == nil {
		return
	}
	if u.infinite {
		u.stopSearch()
		return
	}
	u.wait()
}

func (u *uci) wait() {
	<-u.done
	u.cancel, u.done, u.infinite = nil, nil, false
}

func (u *uci) printInfo(info engine.Info) {
	u.printf("info depth %d seldepth %d score %s nodes %d nps %d hashfull %d time %d pv %s",
		info.Depth, info.SelDepth, engine.FormatScore(info.Score), info.Nodes, info.NPS,
		info.Hashfull, info.Time.Milliseconds(), engine.PVString(u.root, info.PV))
}

func parseSetOption(args []string) (name, value string, err error) {
	if len(args) < 2 || !strings.EqualFold(args[0], "name") {
		return "", "", errors.New("setoption: expected name")
	}
	args = args[1:]
	split := len(args)
	for i, a := range args {
		if strings.EqualFold(a, "value") {
			split = i
			break
		}
	}
	name = strings.Join(args[:split], " ")
	if split < len(args) {
		value = strings.Join(args[split+1:], " ")
	}
	return name, value, nil
}

func (u *uci) setOption(name, value string) error {
	opts := u.searcher.Options()
	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrap(err, "setoption Hash")
		}
		opts.HashMB = engine.Clamp(mb, minHashMB, maxHashMB)
		u.searcher.SetOptions(opts)
	case "contempt":
		c, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrap(err, "setoption Contempt")
		}
		opts.Contempt = int32(engine.Clamp(c, -200, 200))
		u.searcher.SetOptions(opts)
	case "uci_chess960":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrap(err, "setoption UCI_Chess960")
		}
		u.chess960 = on
		u.pos.SetChess960(on)
	case "magiccache":
		t, err := attacks.LoadOrBuild(value)
		if err != nil {
			return errors.Wrap(err, "setoption MagicCache")
		}
		attacks.SetDefault(t)
		// Positions bind their tables when parsed.
		p, err := board.ParseFEN(u.pos.ToFEN())
		if err != nil {
			return errors.Wrap(err, "setoption MagicCache")
		}
		p.SetChess960(u.pos.Chess960())
		u.pos = p
	case "evalfile":
		params, err := eval.LoadParams(value)
		if err != nil {
			return errors.Wrap(err, "setoption EvalFile")
		}
		u.evaluator = eval.New(params)
		u.searcher.SetEvaluator(u.evaluator)
	default:
		return errors.Errorf("setoption: unknown option %q", name)
	}
	log.Debug().Str("option", name).Str("value", value).Msg("option-set")
	return nil
}

func (u *uci) display() {
	var buf bytes.Buffer
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&buf, "%d ", rank+1)
		for file := 0; file < 8; file++ {
			fmt.Fprintf(&buf, " %s", u.pos.PieceAt(board.NewSquare(file, rank)))
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("   a b c d e f g h\n\n")
	fmt.Fprintf(&buf, "Fen: %s\n", u.pos.ToFEN())
	fmt.Fprintf(&buf, "Key: %016X\n", u.pos.Hash())
	fmt.Fprintf(&buf, "In check: %v\n", u.pos.OurKingInCheck())
	fmt.Fprintf(&buf, "Legal moves: %d\n", len(u.pos.GenerateLegalMoves()))
	u.write(buf.Bytes())
}

func (u *uci) perft(args []string) {
	if len(args) == 0 {
		u.printf("info string perft needs a depth")
		return
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 1 {
		u.printf("info string bad perft depth %q", args[0])
		return
	}

	start := time.Now()
	divide := board.PerftDivide(u.pos, depth)
	elapsed := time.Since(start)

	lines := lo.MapToSlice(divide, func(m board.Move, n uint64) string {
		return fmt.Sprintf("%s: %d", u.pos.MoveToUCI(m), n)
	})
	sort.Strings(lines)
	total := lo.Sum(lo.Values(divide))

	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	fmt.Fprintf(&buf, "\nNodes searched: %d\n", total)
	fmt.Fprintf(&buf, "Time: %d ms\n", elapsed.Milliseconds())
	u.write(buf.Bytes())
}

func (u *uci) printf(format string, args ...interface{}) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, format+"\n", args...)
}

func (u *uci) write(b []byte) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.out.Write(b)
}
