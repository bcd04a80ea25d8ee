package board

import (
	"strings"

	"github.com/hailam/chesscore/internal/bitops"
)

// Bitboard is a 64-bit set of squares. Bit 0 is a1, bit 7 is h1, bit 63 is h8.
type Bitboard uint64

// File masks
const (
	FileA Bitboard = 0x0101010101010101
	FileB Bitboard = FileA << 1
	FileC Bitboard = FileA << 2
	FileD Bitboard = FileA << 3
	FileE Bitboard = FileA << 4
	FileF Bitboard = FileA << 5
	FileG Bitboard = FileA << 6
	FileH Bitboard = FileA << 7
)

// Rank masks
const (
	Rank1 Bitboard = 0xFF
	Rank2 Bitboard = Rank1 << (8 * 1)
	Rank3 Bitboard = Rank1 << (8 * 2)
	Rank4 Bitboard = Rank1 << (8 * 3)
	Rank5 Bitboard = Rank1 << (8 * 4)
	Rank6 Bitboard = Rank1 << (8 * 5)
	Rank7 Bitboard = Rank1 << (8 * 6)
	Rank8 Bitboard = Rank1 << (8 * 7)
)

// Edge masks used to stop shifts from wrapping around the board.
const (
	Empty Bitboard = 0

	NotFileA  Bitboard = ^FileA
	NotFileH  Bitboard = ^FileH
	NotFileAB Bitboard = ^(FileA | FileB)
	NotFileGH Bitboard = ^(FileG | FileH)
	NotRank1  Bitboard = ^Rank1
	NotRank8  Bitboard = ^Rank8
)

// FileMask indexes the file masks by file number (0 = a).
var FileMask = [8]Bitboard{FileA, FileB, FileC, FileD, FileE, FileF, FileG, FileH}

// RankMask indexes the rank masks by rank number (0 = first rank).
var RankMask = [8]Bitboard{Rank1, Rank2, Rank3, Rank4, Rank5, Rank6, Rank7, Rank8}

// SquareBB returns a bitboard with only sq set.
func SquareBB(sq Square) Bitboard {
	return 1 << sq
}

// IsSet reports whether sq is in the set.
func (b Bitboard) IsSet(sq Square) bool {
	return b&(1<<sq) != 0
}

// Count returns the number of squares in the set.
func (b Bitboard) Count() int {
	return bitops.CountSetBits(uint64(b))
}

// LSB returns the lowest square in the set, or NoSquare for an empty set.
func (b Bitboard) LSB() Square {
	return Square(bitops.CountTrailingZeroes(uint64(b)))
}

// PopLSB removes and returns the lowest square.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// North shifts every square one rank up.
func (b Bitboard) North() Bitboard { return b << 8 }

// South shifts every square one rank down.
func (b Bitboard) South() Bitboard { return b >> 8 }

// East shifts every square one file toward h.
func (b Bitboard) East() Bitboard { return (b << 1) & NotFileA }

// West shifts every square one file toward a.
func (b Bitboard) West() Bitboard { return (b >> 1) & NotFileH }

// NorthEast shifts every square one step diagonally toward h8.
func (b Bitboard) NorthEast() Bitboard { return (b << 9) & NotFileA }

// NorthWest shifts every square one step diagonally toward a8.
func (b Bitboard) NorthWest() Bitboard { return (b << 7) & NotFileH }

// SouthEast shifts every square one step diagonally toward h1.
func (b Bitboard) SouthEast() Bitboard { return (b >> 7) & NotFileA }

// SouthWest shifts every square one step diagonally toward a1.
func (b Bitboard) SouthWest() Bitboard { return (b >> 9) & NotFileH }

// FlipVertical mirrors the set across the horizontal mid line (a1 <-> a8).
func (b Bitboard) FlipVertical() Bitboard {
	var out Bitboard
	for b != 0 {
		out |= SquareBB(b.PopLSB().Mirror())
	}
	return out
}

// String draws the set as an 8x8 grid, rank 8 first.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			if b.IsSet(NewSquare(file, rank)) {
				sb.WriteString("1 ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
