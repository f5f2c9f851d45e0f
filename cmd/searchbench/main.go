package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"magic-engine/board"
	"magic-engine/engine"
	"magic-engine/eval"
)

func main() {
	depthFlag := flag.Int("depth", 10, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	fenFlag := flag.String("fen", "", "FEN to search (empty = startpos)")
	hashFlag := flag.Int("hash", engine.DefaultOptions().HashMB, "transposition table size in MB")
	evalFile := flag.String("evalfile", "", "JSON evaluation parameters")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	logLevel := flag.String("loglevel", "info", "log level")
	flag.Parse()

	lvl, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if *depthFlag <= 0 {
		log.Fatal().Int("depth", *depthFlag).Msg("depth-must-be-positive")
	}

	if *cpuProfile != "" {
		cpuFile, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("cpuprofile-create-failed")
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			log.Fatal().Err(err).Msg("cpuprofile-start-failed")
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	params := eval.DefaultParams()
	if *evalFile != "" {
		if params, err = eval.LoadParams(*evalFile); err != nil {
			log.Fatal().Err(err).Str("path", *evalFile).Msg("evalfile-load-failed")
		}
	}

	fen := board.FENStartPos
	if *fenFlag != "" {
		fen = *fenFlag
	}
	pos, err := board.ParseFEN(fen)
	if err != nil {
		log.Fatal().Err(err).Str("fen", fen).Msg("parse-fen-failed")
	}

	opts := engine.DefaultOptions()
	opts.HashMB = *hashFlag
	opts.OnInfo = func(info engine.Info) {
		fmt.Printf("  depth %2d seldepth %2d score %-9s nodes %10d nps %9d hashfull %4d pv %s\n",
			info.Depth, info.SelDepth, engine.FormatScore(info.Score), info.Nodes, info.NPS,
			info.Hashfull, engine.PVString(pos, info.PV))
	}
	searcher := engine.NewSearcher(opts, eval.New(params))

	fmt.Printf("searchbench: fen=%q depth=%d repeat=%d\n", fen, *depthFlag, *repeatFlag)

	var totalNodes uint64
	startAll := time.Now()
	for i := 0; i < *repeatFlag; i++ {
		searcher.NewGame()

		iterStart := time.Now()
		res := searcher.Search(context.Background(), pos, engine.Limits{Depth: *depthFlag})
		iterElapsed := time.Since(iterStart)
		totalNodes += res.Nodes

		fmt.Printf("iteration %d: bestmove %s score %s nodes %d time=%v\n",
			i+1, pos.MoveToUCI(res.Move), engine.FormatScore(res.Score), res.Nodes, iterElapsed)
		log.Debug().Object("cuts", searcher.Stats()).Msg("searchbench-cuts")
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total time: %v nodes: %d nps: %.0f\n", totalElapsed, totalNodes, float64(totalNodes)/totalElapsed.Seconds())

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("memprofile-create-failed")
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal().Err(err).Msg("memprofile-write-failed")
		}
	}
}
