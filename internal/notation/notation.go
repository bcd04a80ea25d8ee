// Package notation renders engine moves in Standard Algebraic Notation.
package notation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/corentings/chess/v2"

	"github.com/hailam/chesscore/internal/board"
)

// SAN renders moves, played in order from the position fen, in SAN.
func SAN(fen string, moves []board.Move) ([]string, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("invalid FEN %q: %w", fen, err)
	}
	pos := chess.NewGame(opt).Position()

	out := make([]string, 0, len(moves))
	for i, m := range moves {
		cm, err := resolve(pos, m.String())
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		out = append(out, chess.AlgebraicNotation{}.Encode(pos, cm))
		pos = pos.Update(cm)
	}
	return out, nil
}

// MoveSAN renders a single move from fen in SAN.
func MoveSAN(fen string, m board.Move) (string, error) {
	san, err := SAN(fen, []board.Move{m})
	if err != nil {
		return "", err
	}
	return san[0], nil
}

// Line renders moves from fen as a numbered line, e.g. "12... Nf6 13. e5".
func Line(fen string, moves []board.Move) (string, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return "", err
	}
	san, err := SAN(fen, moves)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	number, white := pos.FullMoveNumber, pos.WhiteToMove
	for i, s := range san {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch {
		case white:
			sb.WriteString(strconv.Itoa(number) + ". ")
		case i == 0:
			sb.WriteString(strconv.Itoa(number) + "... ")
		}
		sb.WriteString(s)
		if !white {
			number++
		}
		white = !white
	}
	return sb.String(), nil
}

// resolve finds the legal move written as uci in pos.
func resolve(pos *chess.Position, uci string) (*chess.Move, error) {
	want, err := chess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return nil, err
	}
	for _, m := range pos.ValidMoves() {
		if m.S1() == want.S1() && m.S2() == want.S2() && m.Promo() == want.Promo() {
			return &m, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", uci, board.ErrNoSuchMove)
}
