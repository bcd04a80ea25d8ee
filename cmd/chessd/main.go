// Command chessd serves the engine over HTTP and websocket, caching
// search results in a local database.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/server"
	"github.com/hailam/chesscore/internal/storage"
)

func main() {
	def := server.DefaultConfig()
	var (
		addr      = flag.String("addr", def.Addr, "listen address")
		depth     = flag.Int("depth", def.DefaultDepth, "search depth when a request names none")
		maxDepth  = flag.Int("max-depth", def.MaxDepth, "deepest search a request may ask for")
		perft     = flag.Int("max-perft", def.MaxPerftDepth, "deepest perft a request may ask for")
		moveTime  = flag.Duration("movetime", 0, "wall-clock limit per search, 0 for none")
		ttEntries = flag.Int("tt", engine.DefaultTableSize, "transposition table entries")
		dataDir   = flag.String("data", "", "analysis database directory (default: user data dir)")
		noCache   = flag.Bool("no-cache", false, "disable the analysis database")
		logLevel  = flag.String("log-level", "info", "log level: trace, debug, info, warn, error")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("bad log level")
	}
	log = log.Level(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *storage.Storage
	if !*noCache {
		dir := *dataDir
		if dir == "" {
			if dir, err = storage.DatabaseDir(); err != nil {
				log.Fatal().Err(err).Msg("locate data directory")
			}
		}
		store, err = storage.Open(dir, log)
		if err != nil {
			log.Fatal().Err(err).Msg("open analysis database")
		}
		log.Info().Str("dir", dir).Msg("analysis cache enabled")
	}

	eng := engine.New(engine.WithTableSize(*ttEntries), engine.WithLogger(log))
	cfg := server.Config{
		Addr:          *addr,
		DefaultDepth:  *depth,
		MaxDepth:      *maxDepth,
		MaxPerftDepth: *perft,
		MoveTime:      *moveTime,
	}
	err = server.New(cfg, eng, store, log).Run(ctx)
	if store != nil {
		if cerr := store.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("close analysis database")
		}
	}
	if err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("bye")
}
