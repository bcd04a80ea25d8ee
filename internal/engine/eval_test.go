package engine

import (
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		material int
		full     int
	}{
		{"start", board.StartFEN, 0, 0},
		{"extra pawn", "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", 100, 100},
		{"doubled pawns", "4k3/8/8/8/8/4P3/4P3/4K3 w - - 0 1", 200, 190},
		{"pawn chain", "4k3/8/8/8/8/3P4/4P3/4K3 w - - 0 1", 200, 210},
		{"knight in the corner", "4k3/8/8/8/8/8/8/N3K3 w - - 0 1", 300, 305},
		{"knight in the centre", "4k3/8/8/8/3N4/8/8/4K3 w - - 0 1", 300, 320},
		{"black tripled", "4k3/4p3/4p3/4p3/8/8/8/4K3 b - - 0 1", -300, -280},
		{"queen against rook", "3qk3/8/8/8/8/8/8/3RK3 w - - 0 1", -400, -400},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := board.ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			if got := EvaluateMaterial(pos); got != tc.material {
				t.Errorf("EvaluateMaterial = %d, want %d", got, tc.material)
			}
			if got := Evaluate(pos); got != tc.full {
				t.Errorf("Evaluate = %d, want %d", got, tc.full)
			}
		})
	}
}

func TestEvaluateSymmetry(t *testing.T) {
	fens := []string{
		board.StartFEN,
		kiwipeteFEN,
		endgameFEN,
		hangingQueenFEN,
		"rnbqkb1r/pp3ppp/4pn2/2pp4/3P4/2P1PN2/PP3PPP/RNBQKB1R w KQkq - 0 5",
		"6k1/pp4pp/2n5/3p4/3P4/2PN4/PP3PPP/6K1 b - - 0 30",
	}

	for _, fen := range fens {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		m := pos.Mirror()
		if a, b := EvaluateMaterial(pos), EvaluateMaterial(m); a != -b {
			t.Errorf("%s: material %d, mirrored %d", fen, a, b)
		}
		if a, b := Evaluate(pos), Evaluate(m); a != -b {
			t.Errorf("%s: evaluation %d, mirrored %d", fen, a, b)
		}
	}
}

func TestMaterialOnlyEngine(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/3N4/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got := newTestEngine(WithMaterialOnly()).Evaluate(pos); got != 300 {
		t.Errorf("material-only evaluation = %d, want 300", got)
	}
	if got := newTestEngine().Evaluate(pos); got != 320 {
		t.Errorf("default evaluation = %d, want 320", got)
	}
}
