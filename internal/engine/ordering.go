package engine

import (
	"cmp"
	"slices"

	"github.com/hailam/chesscore/internal/board"
)

// Move ordering priorities. Everything else scores board.OrderScore, which
// stays far below these.
const (
	ttMoveScore  = 1 << 30
	killerScore1 = ttMoveScore - 1
	killerScore2 = ttMoveScore - 2
)

// killerTable keeps, per ply, the two most recent moves that caused a
// cutoff, newest first.
type killerTable [MaxPly][2]board.Move

func (k *killerTable) add(ply int, m board.Move) {
	if ply >= MaxPly {
		return
	}
	m = m.Identity()
	if k[ply][0] == m {
		return
	}
	k[ply][1] = k[ply][0]
	k[ply][0] = m
}

func (k *killerTable) get(ply int) (board.Move, board.Move) {
	if ply >= MaxPly {
		return board.NoMove, board.NoMove
	}
	return k[ply][0], k[ply][1]
}

func (k *killerTable) clear() {
	*k = killerTable{}
}

// moveScore ranks m for search: the TT move, then the killers, then the
// static score of captures, checks and promotions.
func (k *killerTable) moveScore(m, ttMove board.Move, ply int) int {
	id := m.Identity()
	if ttMove != board.NoMove && id == ttMove.Identity() {
		return ttMoveScore
	}
	k1, k2 := k.get(ply)
	switch id {
	case board.NoMove:
	case k1:
		return killerScore1
	case k2:
		return killerScore2
	}
	return board.OrderScore(m)
}

type scoredMove struct {
	move  board.Move
	score int
}

// orderMoves sorts moves in place, best first. Ties keep their input order.
func (k *killerTable) orderMoves(moves []board.Move, ttMove board.Move, ply int) {
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		scored[i] = scoredMove{m, k.moveScore(m, ttMove, ply)}
	}
	slices.SortStableFunc(scored, func(a, b scoredMove) int {
		return cmp.Compare(b.score, a.score)
	})
	for i, s := range scored {
		moves[i] = s.move
	}
}
