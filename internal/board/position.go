package board

import (
	"fmt"
	"strings"

	"github.com/hailam/chesscore/internal/bitops"
)

// CastlingRights holds the four castling permissions as bits.
type CastlingRights uint8

const (
	WhiteShort CastlingRights = 1 << iota // K
	WhiteLong                             // Q
	BlackShort                            // k
	BlackLong                             // q

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteShort | WhiteLong | BlackShort | BlackLong
)

func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, c := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

func shortRight(c Color) CastlingRights {
	if c == White {
		return WhiteShort
	}
	return BlackShort
}

func longRight(c Color) CastlingRights {
	if c == White {
		return WhiteLong
	}
	return BlackLong
}

// castlingKeep[sq] is the set of rights that survive a move touching sq.
var castlingKeep = func() [64]CastlingRights {
	var keep [64]CastlingRights
	for i := range keep {
		keep[i] = AllCastling
	}
	keep[E1] &^= WhiteShort | WhiteLong
	keep[H1] &^= WhiteShort
	keep[A1] &^= WhiteLong
	keep[E8] &^= BlackShort | BlackLong
	keep[H8] &^= BlackShort
	keep[A8] &^= BlackLong
	return keep
}()

// undo is one entry of the history stack: the state a move cannot restore
// from its own encoding.
type undo struct {
	castling       CastlingRights
	enPassantFiles uint8
	halfMoveClock  int
}

// Position is a mutable game state. Make and Unmake update it in place; a
// Position must not be shared between goroutines without Clone.
type Position struct {
	// Pieces holds the 15 bitboards: AllPieces, WhitePieces and BlackPieces
	// unions plus one board per color and kind (see pieceBoard).
	Pieces [numBoards]Bitboard

	WhiteToMove    bool
	Castling       CastlingRights
	EnPassantFiles uint8 // files on which an en-passant capture is possible next move
	HalfMoveClock  int
	FullMoveNumber int

	Hash uint64

	tables  *Tables
	history []undo
}

// NewPosition returns the starting position on the default tables.
func NewPosition() *Position {
	return NewPositionFrom(DefaultTables())
}

// NewPositionFrom returns the starting position on the given tables.
func NewPositionFrom(t *Tables) *Position {
	p, err := NewPositionFromFEN(t, StartFEN)
	if err != nil {
		panic(err)
	}
	return p
}

// Tables returns the lookup tables the position was built with.
func (p *Position) Tables() *Tables {
	return p.tables
}

// Clone returns an independent deep copy, history included.
func (p *Position) Clone() *Position {
	q := *p
	q.history = append(make([]undo, 0, cap(p.history)), p.history...)
	return &q
}

// SideToMove returns the color whose turn it is.
func (p *Position) SideToMove() Color {
	if p.WhiteToMove {
		return White
	}
	return Black
}

// Occupied returns all pieces of color c.
func (p *Position) Occupied(c Color) Bitboard {
	return p.Pieces[colorBoard(c)]
}

// PiecesOf returns the bitboard of pt pieces of color c.
func (p *Position) PiecesOf(c Color, pt PieceType) Bitboard {
	return p.Pieces[pieceBoard(c, pt)]
}

// KingSquare returns the square of c's king, or NoSquare if it has none.
func (p *Position) KingSquare(c Color) Square {
	return p.PiecesOf(c, King).LSB()
}

// PieceAt returns the piece on sq, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece {
	b := SquareBB(sq)
	if p.Pieces[AllPieces]&b == 0 {
		return NoPiece
	}
	c := White
	if p.Pieces[BlackPieces]&b != 0 {
		c = Black
	}
	return NewPiece(c, p.kindAt(c, sq))
}

// kindAt scans c's piece boards for sq.
func (p *Position) kindAt(c Color, sq Square) PieceType {
	b := SquareBB(sq)
	for pt := King; pt <= Queen; pt++ {
		if p.Pieces[pieceBoard(c, pt)]&b != 0 {
			return pt
		}
	}
	return NoPieceType
}

// toggle flips a piece on sq in its own board, its color union and the
// all-pieces union, and updates the hash to match.
func (p *Position) toggle(c Color, pt PieceType, sq Square) {
	b := SquareBB(sq)
	p.Pieces[pieceBoard(c, pt)] ^= b
	p.Pieces[colorBoard(c)] ^= b
	p.Pieces[AllPieces] ^= b
	p.Hash ^= p.tables.pieceKey(NewPiece(c, pt), sq)
}

// Validate checks the structural invariants of the position.
func (p *Position) Validate() error {
	var colors [2]Bitboard
	for c := White; c <= Black; c++ {
		for pt := King; pt <= Queen; pt++ {
			bb := p.PiecesOf(c, pt)
			if colors[c]&bb != 0 {
				return fmt.Errorf("%s %s overlaps another %s piece", c, pt, c)
			}
			colors[c] |= bb
		}
		if p.Occupied(c) != colors[c] {
			return fmt.Errorf("%s union out of sync with its piece boards", c)
		}
		if n := p.PiecesOf(c, King).Count(); n != 1 {
			return fmt.Errorf("%s has %d kings", c, n)
		}
	}
	if colors[White]&colors[Black] != 0 {
		return fmt.Errorf("white and black pieces share a square")
	}
	if p.Pieces[AllPieces] != colors[White]|colors[Black] {
		return fmt.Errorf("all-pieces union out of sync")
	}
	if (p.PiecesOf(White, Pawn)|p.PiecesOf(Black, Pawn))&(Rank1|Rank8) != 0 {
		return fmt.Errorf("pawn on a back rank")
	}
	if h := p.ComputeHash(); h != p.Hash {
		return fmt.Errorf("hash %#016x does not match recomputed %#016x", p.Hash, h)
	}
	us := p.SideToMove()
	if p.IsAttacked(p.KingSquare(us.Other()), us) {
		return fmt.Errorf("%s king in check with %s to move", us.Other(), us)
	}
	return p.validateEnPassant()
}

// validateEnPassant checks that an en-passant file names a pawn that has
// just made a double push: the pawn stands in front of the target square,
// and the target and the square the pawn left are empty.
func (p *Position) validateEnPassant() error {
	if p.EnPassantFiles == 0 {
		return nil
	}
	if p.EnPassantFiles&(p.EnPassantFiles-1) != 0 {
		return fmt.Errorf("en passant on more than one file: %08b", p.EnPassantFiles)
	}
	us := p.SideToMove()
	file := bitops.CountTrailingZeroes(uint64(p.EnPassantFiles))
	target := NewSquare(file, epTargetRank(p.WhiteToMove))
	pawn, origin := target-8, target+8
	if us == Black {
		pawn, origin = target+8, target-8
	}
	if !p.PiecesOf(us.Other(), Pawn).IsSet(pawn) {
		return fmt.Errorf("en passant square %s without a %s pawn on %s", target, us.Other(), pawn)
	}
	if occ := p.Pieces[AllPieces]; occ.IsSet(target) || occ.IsSet(origin) {
		return fmt.Errorf("en passant square %s: %s or %s is occupied", target, target, origin)
	}
	return nil
}

// Mirror returns the color-flipped position: ranks reversed, colors swapped,
// side to move and castling rights exchanged. History is not carried over.
func (p *Position) Mirror() *Position {
	q := &Position{
		WhiteToMove:    !p.WhiteToMove,
		Castling:       (p.Castling&(WhiteShort|WhiteLong))<<2 | (p.Castling&(BlackShort|BlackLong))>>2,
		EnPassantFiles: p.EnPassantFiles,
		HalfMoveClock:  p.HalfMoveClock,
		FullMoveNumber: p.FullMoveNumber,
		tables:         p.tables,
	}
	for c := White; c <= Black; c++ {
		for pt := King; pt <= Queen; pt++ {
			bb := p.PiecesOf(c, pt).FlipVertical()
			for bb != 0 {
				q.toggle(c.Other(), pt, bb.PopLSB())
			}
		}
	}
	q.Hash = q.ComputeHash()
	return q
}

// String draws the position, rank 8 first, followed by the FEN.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		for file := 0; file < 8; file++ {
			sb.WriteByte(' ')
			sb.WriteByte(p.PieceAt(NewSquare(file, rank)).Char())
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	sb.WriteString(p.FEN())
	return sb.String()
}
