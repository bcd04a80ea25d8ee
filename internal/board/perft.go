package board

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(p *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := p.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		p.Make(m)
		nodes += Perft(p, depth-1)
		p.Unmake(m)
	}
	return nodes
}

// DivideEntry is the perft count below one root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// Divide runs perft below each root move on its own goroutine, each on a
// clone of p. Entries come back sorted by UCI string.
func Divide(ctx context.Context, p *Position, depth int) ([]DivideEntry, error) {
	if depth < 1 {
		return nil, nil
	}
	moves := p.LegalMoves()
	entries := make([]DivideEntry, len(moves))

	g, ctx := errgroup.WithContext(ctx)
	for i, m := range moves {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			q := p.Clone()
			q.Make(m)
			entries[i] = DivideEntry{Move: m, Nodes: Perft(q, depth-1)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b DivideEntry) int {
		return strings.Compare(a.Move.String(), b.Move.String())
	})
	return entries, nil
}
