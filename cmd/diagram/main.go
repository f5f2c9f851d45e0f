// Command diagram writes an SVG diagram of a position. With -depth the
// engine's best move is searched and drawn as an arrow.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"magic-engine/board"
	"magic-engine/diagram"
	"magic-engine/engine"
	"magic-engine/eval"
)

func main() {
	fen := flag.String("fen", board.FENStartPos, "position to draw")
	out := flag.String("out", "", "output file (default stdout)")
	depth := flag.Int("depth", 0, "search depth for the highlighted best move, 0 for none")
	move := flag.String("move", "", "highlight this move instead of searching")
	logLevel := flag.String("loglevel", "info", "log level")
	flag.Parse()

	lvl, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	pos, err := board.ParseFEN(*fen)
	if err != nil {
		log.Fatal().Err(err).Str("fen", *fen).Msg("parse-fen-failed")
	}

	highlight := board.NoMove
	switch {
	case *move != "":
		if highlight, err = pos.ParseMove(*move); err != nil {
			log.Fatal().Err(err).Msg("parse-move-failed")
		}
	case *depth > 0:
		s := engine.NewSearcher(engine.DefaultOptions(), eval.New(eval.DefaultParams()))
		res := s.Search(context.Background(), pos, engine.Limits{Depth: *depth})
		highlight = res.Move
		log.Info().
			Str("move", pos.MoveToUCI(res.Move)).
			Str("score", engine.FormatScore(res.Score)).
			Uint64("nodes", res.Nodes).
			Msg("best-move")
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatal().Err(err).Str("path", *out).Msg("create-failed")
		}
		defer f.Close()
		w = f
	}
	if err := diagram.Write(w, pos, highlight); err != nil {
		log.Fatal().Err(err).Msg("write-failed")
	}
}
