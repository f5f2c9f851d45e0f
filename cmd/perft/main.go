package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"magic-engine/attacks"
	"magic-engine/board"
)

func main() {
	fen := flag.String("fen", board.FENStartPos, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	repeat := flag.Int("repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	cpuProf := flag.String("cpuprofile", "", "Write CPU profile to file during run")
	memProf := flag.String("memprofile", "", "Write heap profile to file after run")
	magicCache := flag.String("magiccache", "", "Load (or build and write) magic tables from this file")
	logLevel := flag.String("loglevel", "info", "Log level")
	flag.Parse()

	setupLogging(*logLevel)

	if *depth <= 0 {
		log.Fatal().Int("depth", *depth).Msg("depth-must-be-positive")
	}
	if *magicCache != "" {
		t, err := attacks.LoadOrBuild(*magicCache)
		if err != nil {
			log.Fatal().Err(err).Msg("magic-tables-failed")
		}
		attacks.SetDefault(t)
	}

	pos, err := board.ParseFEN(*fen)
	if err != nil {
		log.Fatal().Err(err).Str("fen", *fen).Msg("parse-fen-failed")
	}

	if *divide {
		div := board.PerftDivide(pos, *depth)
		moves := maps.Keys(div)
		byName := make(map[string]uint64, len(moves))
		for _, m := range moves {
			byName[pos.MoveToUCI(m)] = div[m]
		}
		names := maps.Keys(byName)
		slices.Sort(names)
		var sum uint64
		for _, name := range names {
			fmt.Printf("%s: %d\n", name, byName[name])
			sum += byName[name]
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			log.Fatal().Err(err).Msg("cpuprofile-create-failed")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("cpuprofile-start-failed")
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		totalNodes += board.Perft(pos, *depth)
	}
	elapsed := time.Since(start)
	nps := float64(totalNodes) / elapsed.Seconds()

	// Single line: Label Depth Nodes Time NPS
	fmt.Printf("%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *depth, totalNodes, elapsed, nps)
	log.Debug().Uint64("nodes", totalNodes).Dur("elapsed", elapsed).Msg("perft-done")

	if *memProf != "" {
		f, err := os.Create(*memProf)
		if err != nil {
			log.Fatal().Err(err).Msg("memprofile-create-failed")
		}
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal().Err(err).Msg("memprofile-write-failed")
		}
		_ = f.Close()
	}
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}
