package board

import (
	"errors"
	"fmt"
)

// Move is a 32-bit tagged move:
//
//	bits  0-5   origin square
//	bits  6-11  destination square
//	bits 12-14  capture tag: 0 none, 1-5 captured kind (pawn..queen), 6 short castle, 7 long castle
//	bits 15-17  promotion kind, 0 for none
//	bit  18     en passant
//	bit  19     gives check (set by the legal filter)
//
// Tags are filled in by the generator from the board it ran against and are
// never re-derived afterwards.
type Move uint32

const (
	toShift      = 6
	captureShift = 12
	promoShift   = 15

	squareMask = 0x3F
	tagMask    = 0x7

	flagEnPassant Move = 1 << 18
	flagCheck     Move = 1 << 19

	// identityMask keeps the bits that name a move independently of the
	// position it is played in.
	identityMask Move = 1<<18 - 1
)

// Capture tags beyond the captured piece kinds.
const (
	TagShortCastle = 6
	TagLongCastle  = 7
)

// NoMove is the zero move.
const NoMove Move = 0

// ErrNoSuchMove is returned when a UCI string matches no legal move.
var ErrNoSuchMove = errors.New("no such legal move")

func newMove(from, to Square, capture, promo PieceType) Move {
	m := Move(from) | Move(to)<<toShift
	if capture != NoPieceType {
		m |= Move(capture) << captureShift
	}
	if promo != NoPieceType {
		m |= Move(promo) << promoShift
	}
	return m
}

// NewMove builds a quiet move.
func NewMove(from, to Square) Move {
	return newMove(from, to, NoPieceType, NoPieceType)
}

// NewCapture builds a move taking a piece of kind victim.
func NewCapture(from, to Square, victim PieceType) Move {
	return newMove(from, to, victim, NoPieceType)
}

// NewPromotion builds a pawn promotion; victim is NoPieceType when quiet.
func NewPromotion(from, to Square, victim, promo PieceType) Move {
	return newMove(from, to, victim, promo)
}

// NewEnPassant builds an en-passant capture.
func NewEnPassant(from, to Square) Move {
	return newMove(from, to, Pawn, NoPieceType) | flagEnPassant
}

// NewCastle builds the king move of a castle for color c.
func NewCastle(c Color, short bool) Move {
	from, to, tag := E1, G1, TagShortCastle
	if !short {
		to, tag = C1, TagLongCastle
	}
	if c == Black {
		from, to = from.Mirror(), to.Mirror()
	}
	return Move(from) | Move(to)<<toShift | Move(tag)<<captureShift
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & squareMask)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square(m >> toShift & squareMask)
}

// CaptureTag returns the raw capture tag.
func (m Move) CaptureTag() int {
	return int(m >> captureShift & tagMask)
}

// IsCapture reports whether the move removes an enemy piece.
func (m Move) IsCapture() bool {
	tag := m.CaptureTag()
	return tag >= int(Pawn) && tag <= int(Queen)
}

// Captured returns the captured kind, or NoPieceType.
func (m Move) Captured() PieceType {
	if !m.IsCapture() {
		return NoPieceType
	}
	return PieceType(m.CaptureTag())
}

// IsCastle reports whether the move is a castle.
func (m Move) IsCastle() bool {
	tag := m.CaptureTag()
	return tag == TagShortCastle || tag == TagLongCastle
}

// Promotion returns the promoted kind, or NoPieceType.
func (m Move) Promotion() PieceType {
	tag := PieceType(m >> promoShift & tagMask)
	if tag < Bishop || tag > Queen {
		return NoPieceType
	}
	return tag
}

// IsPromotion reports whether a pawn promotes on the move.
func (m Move) IsPromotion() bool {
	return m.Promotion() != NoPieceType
}

// IsEnPassant reports whether the move is an en-passant capture.
func (m Move) IsEnPassant() bool {
	return m&flagEnPassant != 0
}

// GivesCheck reports whether the move was found to check the opponent.
// Only moves returned by LegalMoves carry this bit.
func (m Move) GivesCheck() bool {
	return m&flagCheck != 0
}

// Identity strips position-dependent annotation (the check bit), so moves
// found in sibling positions can be compared.
func (m Move) Identity() Move {
	return m & identityMask
}

// String returns the UCI form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if promo := m.Promotion(); promo != NoPieceType {
		s += string(NewPiece(Black, promo).Char())
	}
	return s
}

// ParseMove resolves a UCI move string against the legal moves of p.
func (p *Position) ParseMove(s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move string: %q", s)
	}
	for _, m := range p.LegalMoves() {
		if m.String() == s {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%s: %w", s, ErrNoSuchMove)
}
