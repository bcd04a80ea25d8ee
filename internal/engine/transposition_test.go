package engine

import (
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func TestTranspositionExactRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1024)
	key := board.NewPosition().Hash
	move := board.NewMove(board.E2, board.E4)

	tt.Store(key, move, 4, 0, 37, Exact)

	for _, window := range [][2]int{{-Infinity, Infinity}, {100, 200}, {-50, -40}} {
		got, ok := tt.Lookup(key, 4, 0, window[0], window[1])
		if !ok || got != 37 {
			t.Errorf("Lookup window %v = %d, %v; want 37, true", window, got, ok)
		}
	}
	if _, ok := tt.Lookup(key, 3, 0, -Infinity, Infinity); !ok {
		t.Error("shallower request should hit")
	}
	if _, ok := tt.Lookup(key, 5, 0, -Infinity, Infinity); ok {
		t.Error("deeper request should miss")
	}

	e, ok := tt.Probe(key)
	if !ok || e.Move != move || e.Type != Exact || e.Depth != 4 {
		t.Errorf("Probe = %+v, %v", e, ok)
	}
}

func TestTranspositionBounds(t *testing.T) {
	tt := NewTranspositionTable(1024)
	const key = 0xDEADBEEF

	tests := []struct {
		typ         NodeType
		alpha, beta int
		hit         bool
	}{
		{Alpha, 20, 60, true},  // upper bound 10 <= alpha
		{Alpha, 5, 60, false},  // upper bound above alpha decides nothing
		{Beta, -40, 5, true},   // lower bound 10 >= beta
		{Beta, -40, 15, false}, // lower bound below beta decides nothing
	}

	for _, tc := range tests {
		tt.Store(key, board.NoMove, 2, 0, 10, tc.typ)
		got, ok := tt.Lookup(key, 2, 0, tc.alpha, tc.beta)
		if ok != tc.hit {
			t.Errorf("%s [%d,%d]: hit = %v, want %v", tc.typ, tc.alpha, tc.beta, ok, tc.hit)
		}
		if ok && got != 10 {
			t.Errorf("%s [%d,%d]: score = %d, want 10", tc.typ, tc.alpha, tc.beta, got)
		}
	}
}

func TestTranspositionReplacement(t *testing.T) {
	tt := NewTranspositionTable(16)
	const key = 5

	tt.Store(key, board.NoMove, 8, 0, 1, Exact)
	tt.Store(key+16, board.NoMove, 1, 0, 2, Exact)

	if _, ok := tt.Probe(key); ok {
		t.Error("colliding store should replace the deeper entry")
	}
	if got, ok := tt.Lookup(key+16, 1, 0, -Infinity, Infinity); !ok || got != 2 {
		t.Errorf("Lookup = %d, %v; want 2, true", got, ok)
	}
	if _, ok := tt.Probe(key + 32); ok {
		t.Error("a key sharing the slot must not hit")
	}
}

func TestTranspositionMateAdjust(t *testing.T) {
	tt := NewTranspositionTable(64)
	const key = 77

	// Mate found 5 plies from the root at a node 3 plies deep.
	tt.Store(key, board.NoMove, 2, 3, Mate-5, Exact)
	if got, _ := tt.Lookup(key, 2, 1, -Infinity, Infinity); got != Mate-3 {
		t.Errorf("mate score at ply 1 = %d, want %d", got, Mate-3)
	}

	tt.Store(key, board.NoMove, 2, 3, -Mate+5, Exact)
	if got, _ := tt.Lookup(key, 2, 4, -Infinity, Infinity); got != -Mate+6 {
		t.Errorf("mated score at ply 4 = %d, want %d", got, -Mate+6)
	}

	tt.Store(key, board.NoMove, 2, 3, 250, Exact)
	if got, _ := tt.Lookup(key, 2, 9, -Infinity, Infinity); got != 250 {
		t.Errorf("plain score moved to %d", got)
	}
}

func TestTranspositionClear(t *testing.T) {
	tt := NewTranspositionTable(2000)
	for k := uint64(1); k <= 500; k++ {
		tt.Store(k, board.NoMove, 1, 0, 0, Exact)
	}
	if got := tt.HashFull(); got != 500 {
		t.Errorf("HashFull = %d, want 500", got)
	}
	tt.Clear()
	if got := tt.HashFull(); got != 0 {
		t.Errorf("HashFull after Clear = %d", got)
	}
	if tt.Size() != 2000 {
		t.Errorf("Size = %d", tt.Size())
	}
}
