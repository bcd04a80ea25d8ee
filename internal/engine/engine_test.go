package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

const (
	backRankMateFEN = "R6k/6pp/8/8/8/8/8/K7 b - - 0 1"
	foolsMateFEN    = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	stalemateFEN    = "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"
	mateInOneFEN    = "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"
	hangingQueenFEN = "4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1"
	kiwipeteFEN     = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	endgameFEN      = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
)

func newTestEngine(opts ...Option) *Engine {
	return New(append([]Option{WithTableSize(1 << 16)}, opts...)...)
}

func mustParse(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestSearchTerminalPositions(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		score int
	}{
		{"black mated", backRankMateFEN, Mate},
		{"white mated", foolsMateFEN, -Mate},
		{"stalemate", stalemateFEN, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			eng := newTestEngine()
			pos := mustParse(t, tc.fen)
			for depth := 0; depth <= 3; depth++ {
				res, err := eng.Search(context.Background(), pos, depth)
				if err != nil {
					t.Fatalf("Search(%d): %v", depth, err)
				}
				if res.Score != tc.score {
					t.Errorf("Search(%d) score = %d, want %d", depth, res.Score, tc.score)
				}
				if res.Move != board.NoMove {
					t.Errorf("Search(%d) move = %s, want none", depth, res.Move)
				}
			}
		})
	}
}

func TestSearchMateInOne(t *testing.T) {
	for depth := 1; depth <= 4; depth++ {
		eng := newTestEngine()
		res, err := eng.Search(context.Background(), mustParse(t, mateInOneFEN), depth)
		if err != nil {
			t.Fatalf("Search(%d): %v", depth, err)
		}
		if res.Move.String() != "a1a8" {
			t.Errorf("Search(%d) move = %s, want a1a8", depth, res.Move)
		}
		if res.Score != Mate-1 {
			t.Errorf("Search(%d) score = %d, want %d", depth, res.Score, Mate-1)
		}
		if n, ok := MateIn(res.Score); !ok || n != 1 {
			t.Errorf("MateIn(%d) = %d, %v", res.Score, n, ok)
		}
	}
}

func TestSearchSideToMoveGetsMated(t *testing.T) {
	// Kb8 is forced, then Rh8 mates.
	pos := mustParse(t, "k7/8/1K6/8/8/8/8/7R b - - 0 1")
	res, err := newTestEngine().Search(context.Background(), pos, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Move.String() != "a8b8" {
		t.Errorf("move = %s, want a8b8", res.Move)
	}
	if res.Score != Mate-2 {
		t.Errorf("score = %d (%s), want %d", res.Score, FormatScore(res.Score), Mate-2)
	}
}

func TestSearchWinsHangingQueen(t *testing.T) {
	eng := newTestEngine()
	res, err := eng.Search(context.Background(), mustParse(t, hangingQueenFEN), 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Move.String() != "d1d5" {
		t.Errorf("move = %s, want d1d5", res.Move)
	}
	if res.Score < 400 {
		t.Errorf("score = %d, want a rook's worth for white", res.Score)
	}
}

// minimax is a plain full-width reference search, side-to-move relative.
func minimax(pos *board.Position, depth, ply int, eval func(*board.Position) int) int {
	if depth == 0 {
		if pos.IsCheckmate() {
			return -Mate + ply
		}
		return relative(pos, eval(pos))
	}
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if pos.InCheck() {
			return -Mate + ply
		}
		return 0
	}
	best := -Infinity
	for _, m := range moves {
		pos.Make(m)
		best = max(best, -minimax(pos, depth-1, ply+1, eval))
		pos.Unmake(m)
	}
	return best
}

func TestSearchMatchesMinimax(t *testing.T) {
	for _, fen := range []string{board.StartFEN, kiwipeteFEN, endgameFEN, hangingQueenFEN} {
		for depth := 1; depth <= 3; depth++ {
			pos := mustParse(t, fen)
			eng := newTestEngine()
			res, err := eng.Search(context.Background(), pos, depth)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			want := relative(pos, minimax(pos, depth, 0, Evaluate))
			if res.Score != want {
				t.Errorf("%s depth %d: score %d, minimax %d", fen, depth, res.Score, want)
			}
		}
	}
}

func TestSearchResult(t *testing.T) {
	pos := mustParse(t, kiwipeteFEN)
	before := pos.FEN()

	eng := newTestEngine()
	var depths []int
	eng.OnInfo = func(r Result) {
		depths = append(depths, r.Depth)
	}

	res, err := eng.Search(context.Background(), pos, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if pos.FEN() != before || pos.Ply() != 0 {
		t.Errorf("search modified the position: %s", pos.FEN())
	}
	if res.Depth != 3 {
		t.Errorf("depth = %d, want 3", res.Depth)
	}
	if len(depths) != 3 || depths[0] != 1 || depths[2] != 3 {
		t.Errorf("info depths = %v, want [1 2 3]", depths)
	}
	if res.Nodes == 0 {
		t.Error("no nodes counted")
	}

	if len(res.PV) == 0 || res.PV[0] != res.Move {
		t.Fatalf("PV %v does not start with %s", res.PV, res.Move)
	}
	walk := pos.Clone()
	for _, m := range res.PV {
		if _, err := walk.ParseMove(m.String()); err != nil {
			t.Fatalf("PV move %s illegal in %s", m, walk.FEN())
		}
		walk.Make(m)
	}
}

func TestSearchCancelled(t *testing.T) {
	eng := newTestEngine()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := eng.Search(ctx, board.NewPosition(), 4); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}

	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()
	eng.OnInfo = func(r Result) {
		if r.Depth == 1 {
			cancel()
		}
	}
	res, err := eng.Search(ctx, board.NewPosition(), 10)
	if err != nil {
		t.Fatalf("Search after first iteration: %v", err)
	}
	if res.Depth != 1 || res.Move == board.NoMove {
		t.Errorf("got depth %d move %s, want the depth 1 result", res.Depth, res.Move)
	}
}

func TestSearchInvalidDepth(t *testing.T) {
	if _, err := newTestEngine().Search(context.Background(), board.NewPosition(), -1); err == nil {
		t.Error("expected an error for a negative depth")
	}
}

func TestEngineClear(t *testing.T) {
	eng := newTestEngine()
	pos := board.NewPosition()
	res, err := eng.Search(context.Background(), pos, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	e, ok := eng.TranspositionTable().Probe(pos.Hash)
	if !ok || e.Move != res.Move.Identity() {
		t.Fatalf("root entry %+v, %v; want move %s", e, ok, res.Move)
	}
	if moves := eng.LegalMoves(pos); moves[0] != res.Move {
		t.Errorf("LegalMoves()[0] = %s, want the stored move %s", moves[0], res.Move)
	}

	eng.Clear()
	if _, ok := eng.TranspositionTable().Probe(pos.Hash); ok {
		t.Error("entry survived Clear")
	}
	if k1, k2 := eng.killers.get(1); k1 != board.NoMove || k2 != board.NoMove {
		t.Error("killers survived Clear")
	}
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "+0.00"},
		{35, "+0.35"},
		{-250, "-2.50"},
		{Mate - 1, "#1"},
		{Mate - 5, "#3"},
		{-Mate + 2, "#-1"},
	}
	for _, tc := range tests {
		if got := FormatScore(tc.score); got != tc.want {
			t.Errorf("FormatScore(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestSearchTime(t *testing.T) {
	eng := newTestEngine()

	res, err := eng.SearchTime(context.Background(), board.NewPosition(), 20, time.Nanosecond)
	if err != nil {
		t.Fatalf("SearchTime: %v", err)
	}
	if res.Depth != 1 || res.Move == board.NoMove {
		t.Errorf("got depth %d move %s, want only the first iteration", res.Depth, res.Move)
	}

	res, err = eng.SearchTime(context.Background(), board.NewPosition(), 3, time.Minute)
	if err != nil {
		t.Fatalf("SearchTime: %v", err)
	}
	if res.Depth != 3 {
		t.Errorf("depth = %d, want 3", res.Depth)
	}
}
