package board

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType is the kind of a piece. The order (king first, then by rising
// value) fixes the bitboard layout, the capture and promotion tags of a Move,
// and the Zobrist piece index.
type PieceType uint8

const (
	King PieceType = iota
	Pawn
	Bishop
	Knight
	Rook
	Queen
	NoPieceType
)

var pieceTypeNames = [...]string{"king", "pawn", "bishop", "knight", "rook", "queen", "none"}

func (pt PieceType) String() string {
	if pt > NoPieceType {
		return "invalid"
	}
	return pieceTypeNames[pt]
}

// Value returns the material value of the piece type in centipawns.
// The king carries no material value.
func (pt PieceType) Value() int {
	return pieceValues[pt]
}

var pieceValues = [7]int{0, 100, 300, 300, 500, 900, 0}

// Bitboard slots of Position.Pieces.
const (
	AllPieces   = 0
	WhitePieces = 1
	BlackPieces = 8

	numBoards = 15
)

// colorBoard is the union slot for c.
func colorBoard(c Color) int {
	return 1 + 7*int(c)
}

// pieceBoard is the slot of the bitboard holding pt pieces of color c.
func pieceBoard(c Color, pt PieceType) int {
	return 2 + 7*int(c) + int(pt)
}

// Piece is a colored piece, kind + 6*color, in the order used by the
// Zobrist table. NoPiece marks an empty square.
type Piece uint8

const NoPiece Piece = 12

// NewPiece combines a color and a kind.
func NewPiece(c Color, pt PieceType) Piece {
	return Piece(pt) + 6*Piece(c)
}

// Type returns the kind of p, or NoPieceType for NoPiece.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color returns the side p belongs to.
func (p Piece) Color() Color {
	return Color(p / 6)
}

const pieceChars = "KPBNRQkpbnrq"

// Char returns the FEN letter of the piece, upper case for White.
func (p Piece) Char() byte {
	if p >= NoPiece {
		return '.'
	}
	return pieceChars[p]
}

// PieceFromChar maps a FEN letter to a piece, or NoPiece.
func PieceFromChar(c byte) Piece {
	for i := 0; i < len(pieceChars); i++ {
		if pieceChars[i] == c {
			return Piece(i)
		}
	}
	return NoPiece
}
