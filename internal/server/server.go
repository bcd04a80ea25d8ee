// Package server exposes the engine over HTTP: legal moves, cached
// searches, perft, and a websocket that streams search progress.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

const shutdownTimeout = 5 * time.Second

// Config holds the server settings.
type Config struct {
	Addr          string
	DefaultDepth  int           // search depth when a request names none
	MaxDepth      int           // requested search depths are capped here
	MaxPerftDepth int           // perft requests deeper than this are rejected
	MoveTime      time.Duration // wall-clock bound per search, zero for none
}

// DefaultConfig returns the settings used when flags are not given.
func DefaultConfig() Config {
	return Config{
		Addr:          ":8080",
		DefaultDepth:  4,
		MaxDepth:      8,
		MaxPerftDepth: 5,
	}
}

// Server serves the HTTP API. The engine is used by one request at a time.
type Server struct {
	cfg      Config
	router   *mux.Router
	upgrader websocket.Upgrader
	log      zerolog.Logger

	engineMu sync.Mutex
	engine   *engine.Engine

	store *storage.Storage // nil disables the analysis cache
}

// New builds a server around eng. store may be nil.
func New(cfg Config, eng *engine.Engine, store *storage.Storage, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		router: mux.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log:    logger,
		engine: eng,
		store:  store,
	}

	s.router.NotFoundHandler = s.accessLog(http.HandlerFunc(s.notFoundHandler))
	s.router.Use(s.accessLog)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/moves", s.movesHandler).Methods(http.MethodGet)
	api.HandleFunc("/search", s.searchHandler).Methods(http.MethodGet)
	api.HandleFunc("/perft", s.perftHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.wsHandler)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on cfg.Addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// search runs one engine search while holding the engine lock. onInfo may
// be nil.
func (s *Server) search(ctx context.Context, pos *board.Position, depth int, onInfo func(engine.Result)) (engine.Result, error) {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()

	s.engine.OnInfo = onInfo
	defer func() { s.engine.OnInfo = nil }()

	if s.cfg.MoveTime > 0 {
		return s.engine.SearchTime(ctx, pos, depth, s.cfg.MoveTime)
	}
	return s.engine.Search(ctx, pos, depth)
}

func (s *Server) legalMoves(pos *board.Position) []board.Move {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	return s.engine.LegalMoves(pos)
}

// accessLog writes one Apache-style line per request through the logger.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return handlers.LoggingHandler(logWriter{s.log}, next)
}

// logWriter adapts a zerolog logger to the io.Writer the gorilla logging
// handler expects.
type logWriter struct {
	log zerolog.Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	w.log.Info().Str("component", "http").Msg(strings.TrimSpace(string(p)))
	return len(p), nil
}

func (s *Server) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusNotFound, errors.New("not found"))
}
