// Command magicgen builds the slider attack tables and writes them to a
// cache file. With -search it looks for fresh magic multipliers instead
// and prints them as Go source.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"magic-engine/attacks"
)

func main() {
	out := flag.String("out", os.Getenv("MAGIC_ENGINE_CACHE"), "cache file to write")
	search := flag.Bool("search", false, "search new magic numbers and print them")
	samples := flag.Int("verify", 64, "random occupancies checked per square")
	logLevel := flag.String("loglevel", "info", "log level")
	flag.Parse()

	lvl, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if *search {
		if err := searchMagics(); err != nil {
			log.Fatal().Err(err).Msg("magic-search-failed")
		}
		return
	}

	if *out == "" {
		log.Fatal().Msg("out-required")
	}

	start := time.Now()
	t, err := attacks.Build()
	if err != nil {
		log.Fatal().Err(err).Msg("build-failed")
	}
	if err := t.Verify(*samples); err != nil {
		log.Fatal().Err(err).Msg("verify-failed")
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal().Err(err).Str("path", *out).Msg("create-failed")
	}
	if err := t.Save(f); err != nil {
		f.Close()
		log.Fatal().Err(err).Msg("save-failed")
	}
	if err := f.Close(); err != nil {
		log.Fatal().Err(err).Msg("close-failed")
	}
	log.Info().Str("path", *out).Dur("elapsed", time.Since(start)).Msg("magic-cache-written")
}

func searchMagics() error {
	var found [2][64]uint64
	sliders := [2]attacks.Slider{attacks.Rook, attacks.Bishop}

	start := time.Now()
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, s := range sliders {
		for sq := 0; sq < 64; sq++ {
			i, s, sq := i, s, sq
			g.Go(func() error {
				magic, err := attacks.FindMagic(sq, s)
				found[i][sq] = magic
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("magic-search-done")

	for i, s := range sliders {
		fmt.Printf("var %sMagics = [64]uint64{\n", s)
		for sq := 0; sq < 64; sq += 4 {
			fmt.Printf("\t0x%016x, 0x%016x, 0x%016x, 0x%016x,\n",
				found[i][sq], found[i][sq+1], found[i][sq+2], found[i][sq+3])
		}
		fmt.Println("}")
	}
	return nil
}
