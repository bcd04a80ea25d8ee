package notation

import (
	"errors"
	"slices"
	"testing"

	"github.com/corentings/chess/v2"

	"github.com/hailam/chesscore/internal/board"
)

// line parses a sequence of UCI moves from fen into engine moves.
func line(t *testing.T, fen string, uci ...string) []board.Move {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	var moves []board.Move
	for _, s := range uci {
		m, err := pos.ParseMove(s)
		if err != nil {
			t.Fatalf("ParseMove(%s): %v", s, err)
		}
		pos.Make(m)
		moves = append(moves, m)
	}
	return moves
}

func TestSAN(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		uci  []string
		want []string
	}{
		{"opening", board.StartFEN, []string{"e2e4", "e7e5", "g1f3", "b8c6"}, []string{"e4", "e5", "Nf3", "Nc6"}},
		{"castles", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", []string{"e1g1", "e8c8"}, []string{"O-O", "O-O-O"}},
		{"mate", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", []string{"a1a8"}, []string{"Ra8#"}},
		{"promotion", "8/P1k5/K7/8/8/8/8/8 w - - 0 1", []string{"a7a8q"}, []string{"a8=Q"}},
		{"en passant", "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3", []string{"e5f6"}, []string{"exf6"}},
		{"check", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", []string{"a1a8"}, []string{"Ra8+"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SAN(tc.fen, line(t, tc.fen, tc.uci...))
			if err != nil {
				t.Fatalf("SAN: %v", err)
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("SAN = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSANErrors(t *testing.T) {
	if _, err := SAN("not a fen", nil); err == nil {
		t.Error("expected an error for a bad FEN")
	}

	// e2e4 is legal from the start position but not for black.
	fen := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	_, err := SAN(fen, []board.Move{board.NewMove(board.E2, board.E4)})
	if !errors.Is(err, board.ErrNoSuchMove) {
		t.Errorf("err = %v, want ErrNoSuchMove", err)
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		fen  string
		uci  []string
		want string
	}{
		{board.StartFEN, []string{"e2e4", "e7e5", "g1f3"}, "1. e4 e5 2. Nf3"},
		{"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", []string{"e7e5", "g1f3"}, "1... e5 2. Nf3"},
		{board.StartFEN, nil, ""},
	}

	for _, tc := range tests {
		got, err := Line(tc.fen, line(t, tc.fen, tc.uci...))
		if err != nil {
			t.Fatalf("Line: %v", err)
		}
		if got != tc.want {
			t.Errorf("Line = %q, want %q", got, tc.want)
		}
	}
}

// TestLegalMovesMatchReference compares legal move lists with an
// independent implementation, move by move in SAN.
func TestLegalMovesMatchReference(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}

	for _, fen := range fens {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN: %v", err)
		}
		opt, err := chess.FEN(fen)
		if err != nil {
			t.Fatalf("chess.FEN: %v", err)
		}
		ref := chess.NewGame(opt)

		var want []string
		for _, m := range ref.ValidMoves() {
			want = append(want, chess.AlgebraicNotation{}.Encode(ref.Position(), &m))
		}

		var got []string
		for _, m := range pos.LegalMoves() {
			san, err := MoveSAN(fen, m)
			if err != nil {
				t.Fatalf("%s: MoveSAN(%s): %v", fen, m, err)
			}
			got = append(got, san)
		}

		slices.Sort(want)
		slices.Sort(got)
		if !slices.Equal(got, want) {
			t.Errorf("%s:\n got %v\nwant %v", fen, got, want)
		}
	}
}
