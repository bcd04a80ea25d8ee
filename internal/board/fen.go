package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses fen into a position on the default tables.
func ParseFEN(fen string) (*Position, error) {
	return NewPositionFromFEN(DefaultTables(), fen)
}

// NewPositionFromFEN parses fen into a position on t. The half-move and
// full-move fields are optional.
func NewPositionFromFEN(t *Tables, fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(fields))
	}

	p := &Position{tables: t, FullMoveNumber: 1}

	if err := p.parsePlacement(fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		p.WhiteToMove = true
	case "b":
	default:
		return nil, fmt.Errorf("invalid side to move: %q", fields[1])
	}

	if fields[2] != "-" {
		for _, c := range fields[2] {
			i := strings.IndexRune("KQkq", c)
			if i < 0 {
				return nil, fmt.Errorf("invalid castling rights: %q", fields[2])
			}
			p.Castling |= 1 << i
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %w", err)
		}
		if want := epTargetRank(p.WhiteToMove); sq.Rank() != want {
			return nil, fmt.Errorf("en passant square %s not on rank %d", sq, want+1)
		}
		p.EnPassantFiles = 1 << sq.File()
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid half-move clock: %q", fields[4])
		}
		p.HalfMoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid full-move number: %q", fields[5])
		}
		p.FullMoveNumber = n
	}

	p.Hash = p.ComputeHash()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid FEN %q: %w", fen, err)
	}
	return p, nil
}

func (p *Position) parsePlacement(s string) error {
	ranks := strings.Split(s, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			pc := PieceFromChar(c)
			if pc == NoPiece {
				return fmt.Errorf("invalid piece %q in rank %d", c, rank+1)
			}
			if file > 7 {
				return fmt.Errorf("rank %d overflows", rank+1)
			}
			p.toggle(pc.Color(), pc.Type(), NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return fmt.Errorf("rank %d has %d files", rank+1, file)
		}
	}
	return nil
}

// epTargetRank is the rank of the square a pawn skipped over, seen from the
// side that may capture it.
func epTargetRank(whiteToMove bool) int {
	if whiteToMove {
		return 5
	}
	return 2
}

// FEN returns the position in Forsyth-Edwards notation.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.PieceAt(NewSquare(file, rank))
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pc.Char())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if p.WhiteToMove {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
	sb.WriteString(p.Castling.String())

	ep := "-"
	for f := 0; f < 8; f++ {
		if p.EnPassantFiles&(1<<f) != 0 {
			ep = NewSquare(f, epTargetRank(p.WhiteToMove)).String()
			break
		}
	}
	fmt.Fprintf(&sb, " %s %d %d", ep, p.HalfMoveClock, p.FullMoveNumber)
	return sb.String()
}
