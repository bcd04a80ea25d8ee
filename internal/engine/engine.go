package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
)

// Result is the outcome of a completed search iteration.
type Result struct {
	Move    board.Move // best root move, NoMove when the side to move has none
	Score   int        // centipawns, positive when White is better
	Depth   int
	Nodes   uint64
	PV      []board.Move
	Elapsed time.Duration
}

// Engine searches positions with a transposition table and killer moves
// that persist between searches until Clear. An Engine must not be used
// from more than one goroutine at a time.
type Engine struct {
	tt       *TranspositionTable
	killers  killerTable
	evaluate func(*board.Position) int
	log      zerolog.Logger

	// OnInfo, if set, is called after every completed iteration.
	OnInfo func(Result)
}

// Option configures an Engine.
type Option func(*Engine)

// WithTableSize sets the number of transposition table entries.
func WithTableSize(entries int) Option {
	return func(e *Engine) {
		e.tt = NewTranspositionTable(entries)
	}
}

// WithLogger sets the logger for per-iteration debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithMaterialOnly switches evaluation to the material balance alone.
func WithMaterialOnly() Option {
	return func(e *Engine) {
		e.evaluate = EvaluateMaterial
	}
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		evaluate: Evaluate,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.tt == nil {
		e.tt = NewTranspositionTable(DefaultTableSize)
	}
	return e
}

// LegalMoves returns the legal moves of pos in search order: the stored
// TT move, the root killers, then captures, checks and promotions.
func (e *Engine) LegalMoves(pos *board.Position) []board.Move {
	moves := pos.LegalMoves()
	ttMove := board.NoMove
	if entry, ok := e.tt.Probe(pos.Hash); ok {
		ttMove = entry.Move
	}
	e.killers.orderMoves(moves, ttMove, 0)
	return moves
}

// Evaluate returns the engine's static evaluation of pos, White-positive.
func (e *Engine) Evaluate(pos *board.Position) int {
	return e.evaluate(pos)
}

// Search runs iterative deepening on pos up to depth plies and returns the
// deepest completed iteration. ctx is checked between root moves; if it is
// done before the first iteration completes, Search returns ctx.Err().
// pos is not modified.
func (e *Engine) Search(ctx context.Context, pos *board.Position, depth int) (Result, error) {
	return e.search(ctx, pos, depth, newTimeManager(0))
}

// SearchTime is Search bounded by moveTime as well as depth. An iteration
// cut off by the clock is discarded, and no iteration starts once half of
// moveTime has passed. At least one iteration always completes.
func (e *Engine) SearchTime(ctx context.Context, pos *board.Position, depth int, moveTime time.Duration) (Result, error) {
	return e.search(ctx, pos, depth, newTimeManager(moveTime))
}

func (e *Engine) search(parent context.Context, pos *board.Position, depth int, tm *timeManager) (Result, error) {
	if depth < 0 {
		return Result{}, fmt.Errorf("invalid depth %d", depth)
	}
	depth = min(depth, MaxPly-1)

	s := &searcher{
		pos:      pos.Clone(),
		tt:       e.tt,
		killers:  &e.killers,
		evaluate: e.evaluate,
	}
	sign := 1
	if !pos.WhiteToMove {
		sign = -1
	}

	moves := s.pos.LegalMoves()
	if depth == 0 || len(moves) == 0 {
		score := s.negamax(0, 0, -Infinity, Infinity)
		if len(moves) == 0 && !pos.InCheck() {
			score = 0
		}
		return Result{Score: sign * score, Nodes: s.nodes, Elapsed: tm.elapsed()}, nil
	}

	ctx, cancel := tm.withDeadline(parent)
	defer cancel()

	var result Result
	for d := 1; d <= depth; d++ {
		rootCtx := ctx
		if d == 1 {
			// The clock never cuts the first iteration short.
			rootCtx = parent
		}
		move, score, err := s.searchRoot(rootCtx, moves, d)
		if err != nil {
			if result.Move == board.NoMove {
				return Result{}, err
			}
			e.log.Debug().Err(err).Int("depth", result.Depth).Msg("search stopped")
			break
		}

		result = Result{
			Move:    move,
			Score:   sign * score,
			Depth:   d,
			Nodes:   s.nodes,
			PV:      principalVariation(s.pos, e.tt, d),
			Elapsed: tm.elapsed(),
		}
		e.log.Debug().
			Int("depth", d).
			Int("score", result.Score).
			Uint64("nodes", result.Nodes).
			Str("move", move.String()).
			Int("hashfull", e.tt.HashFull()).
			Dur("elapsed", result.Elapsed).
			Msg("iteration complete")
		if e.OnInfo != nil {
			e.OnInfo(result)
		}

		// A mate found at this depth is the shortest there is.
		if score > mateThreshold || score < -mateThreshold {
			break
		}
		if ctx.Err() != nil || !tm.canStartIteration() {
			break
		}
	}
	return result, nil
}

// Clear empties the transposition table and the killer moves.
func (e *Engine) Clear() {
	e.tt.Clear()
	e.killers.clear()
}

// TranspositionTable returns the engine's table.
func (e *Engine) TranspositionTable() *TranspositionTable {
	return e.tt
}

// MateIn converts a mate score to a move count: positive when the score's
// owner mates, negative when it is mated.
func MateIn(score int) (int, bool) {
	switch {
	case score > mateThreshold:
		return (Mate - score + 1) / 2, true
	case score < -mateThreshold:
		return -(Mate + score + 1) / 2, true
	}
	return 0, false
}

// FormatScore renders a White-positive score as pawns ("+0.35") or as a
// mate distance ("#3", "#-2").
func FormatScore(score int) string {
	if n, ok := MateIn(score); ok {
		return fmt.Sprintf("#%d", n)
	}
	sign := "+"
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}
