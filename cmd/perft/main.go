// Command perft counts move-generation leaf nodes from a position, checks
// the embedded magic numbers, or searches for new ones.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	"github.com/hailam/chesscore/internal/board"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

type options struct {
	fen        string
	depth      int
	divide     bool
	verify     bool
	findMagics bool
	cpuprofile string
}

func main() {
	var opts options
	flag.StringVar(&opts.fen, "fen", board.StartFEN, "position to count from")
	flag.IntVar(&opts.depth, "depth", 5, "perft depth")
	flag.BoolVar(&opts.divide, "divide", false, "print the count below each root move")
	flag.BoolVar(&opts.verify, "verify", false, "check the embedded magic numbers and exit")
	flag.BoolVar(&opts.findMagics, "find-magics", false, "search for fresh magic numbers and print them")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("bad log level")
	}
	log = log.Level(level)

	// CPU profiling via flag or environment variable
	opts.cpuprofile = *cpuprofile
	if opts.cpuprofile == "" {
		opts.cpuprofile = os.Getenv("CPUPROFILE")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, opts, os.Stdout, log)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("perft failed")
		os.Exit(1)
	}
}

// run does the work of main. Deferred cleanup, the CPU profile included,
// has finished by the time it returns.
func run(ctx context.Context, opts options, out io.Writer, log zerolog.Logger) error {
	if opts.cpuprofile != "" {
		f, err := os.Create(opts.cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", opts.cpuprofile).Msg("CPU profiling enabled")
	}

	switch {
	case opts.verify:
		if err := board.VerifyMagics(); err != nil {
			return fmt.Errorf("magic verification failed: %w", err)
		}
		log.Info().Msg("all 128 magics verified")
		return nil
	case opts.findMagics:
		return printMagics(out, log)
	}

	pos, err := board.ParseFEN(opts.fen)
	if err != nil {
		return err
	}
	if opts.depth < 1 {
		return errors.New("depth must be at least 1")
	}

	start := time.Now()
	var nodes uint64
	if opts.divide {
		entries, err := board.Divide(ctx, pos, opts.depth)
		if err != nil {
			return fmt.Errorf("perft interrupted: %w", err)
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%s: %d\n", e.Move, e.Nodes)
			nodes += e.Nodes
		}
		fmt.Fprintln(out)
	} else {
		nodes = board.Perft(pos, opts.depth)
	}
	elapsed := time.Since(start)

	fmt.Fprintf(out, "Nodes searched: %d\n", nodes)
	log.Info().
		Int("depth", opts.depth).
		Uint64("nodes", nodes).
		Dur("elapsed", elapsed).
		Float64("mnps", float64(nodes)/elapsed.Seconds()/1e6).
		Msg("perft complete")
	return nil
}

func printMagics(out io.Writer, log zerolog.Logger) error {
	rng := frand.New()
	for _, pt := range []board.PieceType{board.Bishop, board.Rook} {
		fmt.Fprintf(out, "var %sMagics = [64]uint64{\n", pt)
		for sq := board.A1; sq <= board.H8; sq++ {
			magic, err := board.FindMagic(pt, sq, rng)
			if err != nil {
				return fmt.Errorf("magic search failed: %w", err)
			}
			log.Debug().Str("piece", pt.String()).Str("square", sq.String()).Msgf("%#016x", magic)
			fmt.Fprintf(out, "\t%#016x,\n", magic)
		}
		fmt.Fprintln(out, "}")
	}
	return nil
}
