package board

import (
	"errors"
	"testing"
)

func TestLegalMovesNeverLeaveKingInCheck(t *testing.T) {
	for _, fen := range roundTripFENs {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		walk(t, pos, 2, func(m Move, before snapshot) {
			mover := White
			if !before.whiteToMove {
				mover = Black
			}
			if pos.IsAttacked(pos.KingSquare(mover), mover.Other()) {
				t.Fatalf("%s: %s leaves the %s king in check", fen, m, mover)
			}
			if m.GivesCheck() != pos.InCheck() {
				t.Fatalf("%s: %s check flag %v, opponent in check %v", fen, m, m.GivesCheck(), pos.InCheck())
			}
		})
	}
}

func TestCastlingThroughCheck(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		short bool
		long  bool
	}{
		{"both open", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", true, true},
		{"f1 attacked", "r3k2r/8/8/8/8/8/5r2/R3K2R w KQkq - 0 1", false, true},
		{"d1 attacked", "r3k2r/8/8/8/8/8/3r4/R3K2R w KQkq - 0 1", true, false},
		{"in check", "r3k2r/8/8/8/8/8/4r3/R3K2R w KQkq - 0 1", false, false},
		{"b1 attacked only", "r3k2r/8/8/8/8/8/1r6/R3K2R w KQkq - 0 1", true, true},
		{"g1 attacked", "r3k2r/8/8/8/8/8/6r1/R3K2R w KQkq - 0 1", false, true},
		{"no rights", "r3k2r/8/8/8/8/8/8/R3K2R w kq - 0 1", false, false},
		{"path blocked", "r3k2r/8/8/8/8/8/8/RN2K1NR w KQkq - 0 1", false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			var short, long bool
			for _, m := range pos.LegalMoves() {
				switch m.CaptureTag() {
				case TagShortCastle:
					short = true
				case TagLongCastle:
					long = true
				}
			}
			if short != tc.short || long != tc.long {
				t.Errorf("short %v long %v, want %v %v", short, long, tc.short, tc.long)
			}
		})
	}
}

func TestPromotionsGenerated(t *testing.T) {
	pos, err := ParseFEN("8/P1k5/K7/8/8/8/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	kinds := map[PieceType]bool{}
	for _, m := range pos.LegalMoves() {
		if m.From() == A7 && m.To() == A8 {
			if !m.IsPromotion() {
				t.Errorf("a7a8 without promotion")
			}
			kinds[m.Promotion()] = true
		}
	}
	for _, pt := range []PieceType{Queen, Rook, Bishop, Knight} {
		if !kinds[pt] {
			t.Errorf("missing promotion to %s", pt)
		}
	}
	if len(kinds) != 4 {
		t.Errorf("got %d promotion kinds, want 4", len(kinds))
	}
}

func TestLegalMovesOrdered(t *testing.T) {
	for _, fen := range []string{kiwipeteFEN, position4FEN, position5FEN} {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		moves := pos.LegalMoves()
		for i := 1; i < len(moves); i++ {
			if OrderScore(moves[i-1]) < OrderScore(moves[i]) {
				t.Errorf("%s: %s (%d) ordered before %s (%d)", fen,
					moves[i-1], OrderScore(moves[i-1]), moves[i], OrderScore(moves[i]))
			}
		}
	}
}

func TestOrderScore(t *testing.T) {
	tests := []struct {
		name string
		move Move
		want int
	}{
		{"quiet", NewMove(E2, E4), 0},
		{"takes pawn", NewCapture(E4, D5, Pawn), 200},
		{"takes queen", NewCapture(E4, D5, Queen), 1800},
		{"promotes", NewPromotion(A7, A8, NoPieceType, Queen), 900},
		{"promotes with capture", NewPromotion(A7, B8, Rook, Knight), 1300},
		{"check", NewMove(E2, E4) | flagCheck, CheckBonus},
		{"en passant", NewEnPassant(E5, D6), 200},
		{"castle", NewCastle(White, true), 0},
	}

	for _, tc := range tests {
		if got := OrderScore(tc.move); got != tc.want {
			t.Errorf("%s: OrderScore(%s) = %d, want %d", tc.name, tc.move, got, tc.want)
		}
	}
}

func TestParseMove(t *testing.T) {
	pos := NewPosition()

	m, err := pos.ParseMove("e2e4")
	if err != nil {
		t.Fatalf("ParseMove(e2e4): %v", err)
	}
	if m.From() != E2 || m.To() != E4 {
		t.Errorf("e2e4 parsed as %s", m)
	}

	for _, s := range []string{"e2e5", "e7e5", "e1g1", "e7e8q"} {
		if _, err := pos.ParseMove(s); !errors.Is(err, ErrNoSuchMove) {
			t.Errorf("ParseMove(%q) error = %v, want ErrNoSuchMove", s, err)
		}
	}
	for _, s := range []string{"", "zz", "e2e4qq"} {
		if _, err := pos.ParseMove(s); err == nil {
			t.Errorf("ParseMove(%q) succeeded", s)
		}
	}
}
