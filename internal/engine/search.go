package engine

import (
	"context"

	"github.com/hailam/chesscore/internal/board"
)

// Search constants
const (
	Mate     = 100000
	Infinity = Mate + 1
	MaxPly   = 128

	// Scores beyond this magnitude are mates, at most MaxPly plies away.
	mateThreshold = Mate - MaxPly
)

// searcher runs one search on a position it owns.
type searcher struct {
	pos      *board.Position
	tt       *TranspositionTable
	killers  *killerTable
	evaluate func(*board.Position) int
	nodes    uint64
}

// negamax returns the score of s.pos from the side to move's point of
// view. Make and Unmake are always paired, including on cutoffs.
func (s *searcher) negamax(depth, ply, alpha, beta int) int {
	s.nodes++
	pos := s.pos

	if depth <= 0 || ply >= MaxPly-1 {
		if pos.InCheck() && !pos.HasLegalMoves() {
			return -Mate + ply
		}
		return relative(pos, s.evaluate(pos))
	}

	ttMove := board.NoMove
	if e, ok := s.tt.Probe(pos.Hash); ok {
		ttMove = e.Move
	}
	if score, ok := s.tt.Lookup(pos.Hash, depth, ply, alpha, beta); ok {
		return score
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if pos.InCheck() {
			return -Mate + ply
		}
		return 0
	}
	s.killers.orderMoves(moves, ttMove, ply)

	alphaOrig := alpha
	best, bestMove := -Infinity, board.NoMove
	for _, m := range moves {
		pos.Make(m)
		score := -s.negamax(depth-1, ply+1, -beta, -alpha)
		pos.Unmake(m)

		if score > best {
			best, bestMove = score, m
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			s.killers.add(ply, m)
			break
		}
	}

	typ := Exact
	switch {
	case best <= alphaOrig:
		typ = Alpha
	case best >= beta:
		typ = Beta
	}
	s.tt.Store(pos.Hash, bestMove, depth, ply, best, typ)
	return best
}

// searchRoot searches every root move to depth with a full window and
// returns the best move and its score for the side to move. The TT is
// consulted for ordering only. ctx is checked before each root move.
func (s *searcher) searchRoot(ctx context.Context, moves []board.Move, depth int) (board.Move, int, error) {
	pos := s.pos

	ttMove := board.NoMove
	if e, ok := s.tt.Probe(pos.Hash); ok {
		ttMove = e.Move
	}
	s.killers.orderMoves(moves, ttMove, 0)

	alpha, beta := -Infinity, Infinity
	best, bestMove := -Infinity, board.NoMove
	for _, m := range moves {
		if err := ctx.Err(); err != nil {
			return board.NoMove, 0, err
		}
		pos.Make(m)
		score := -s.negamax(depth-1, 1, -beta, -alpha)
		pos.Unmake(m)

		if score > best {
			best, bestMove = score, m
		}
		if score > alpha {
			alpha = score
		}
	}

	s.tt.Store(pos.Hash, bestMove, depth, 0, best, Exact)
	return bestMove, best, nil
}

// principalVariation follows best moves through the TT from pos, stopping
// at a missing or illegal entry, a repeated position, or maxLen moves.
func principalVariation(pos *board.Position, tt *TranspositionTable, maxLen int) []board.Move {
	pos = pos.Clone()
	seen := map[uint64]bool{}
	var pv []board.Move
	for len(pv) < maxLen && !seen[pos.Hash] {
		seen[pos.Hash] = true
		e, ok := tt.Probe(pos.Hash)
		if !ok || e.Move == board.NoMove {
			break
		}
		m, ok := findMove(pos.LegalMoves(), e.Move)
		if !ok {
			break
		}
		pv = append(pv, m)
		pos.Make(m)
	}
	return pv
}

// findMove returns the move in moves with the same identity as m.
func findMove(moves []board.Move, m board.Move) (board.Move, bool) {
	id := m.Identity()
	for _, c := range moves {
		if c.Identity() == id {
			return c, true
		}
	}
	return board.NoMove, false
}
