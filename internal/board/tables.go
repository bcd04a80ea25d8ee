package board

import "sync"

// Tables holds every precomputed lookup used by move generation, attack
// detection and hashing. It is immutable once built and safe to share
// between positions and goroutines.
type Tables struct {
	King   [64]Bitboard
	Knight [64]Bitboard
	Pawn   [2][64]Bitboard // capture targets of a pawn of the given color

	CardinalMasks [64]Bitboard
	DiagonalMasks [64]Bitboard

	bishopAttacks [64][512]Bitboard
	rookAttacks   [64][4096]Bitboard

	Zobrist [zobristSize]uint64
}

// NewTables builds the attack tables and the Zobrist constants.
func NewTables() *Tables {
	t := new(Tables)
	t.initLeapers()
	t.initSliders()
	t.initZobrist(zobristSeed)
	return t
}

var defaultTables = sync.OnceValue(NewTables)

// DefaultTables returns a process-wide Tables, built on first use.
func DefaultTables() *Tables {
	return defaultTables()
}

func (t *Tables) initLeapers() {
	for sq := A1; sq <= H8; sq++ {
		b := SquareBB(sq)

		t.King[sq] = b.North() | b.South() | b.East() | b.West() |
			b.NorthEast() | b.NorthWest() | b.SouthEast() | b.SouthWest()

		t.Knight[sq] = (b<<17)&NotFileA | (b<<15)&NotFileH |
			(b<<10)&NotFileAB | (b<<6)&NotFileGH |
			(b>>6)&NotFileAB | (b>>10)&NotFileGH |
			(b>>15)&NotFileA | (b>>17)&NotFileH

		t.Pawn[White][sq] = b.NorthEast() | b.NorthWest()
		t.Pawn[Black][sq] = b.SouthEast() | b.SouthWest()
	}
}

func (t *Tables) initSliders() {
	for sq := A1; sq <= H8; sq++ {
		dmask := relevanceMask(sq, diagonalDirs)
		cmask := relevanceMask(sq, cardinalDirs)
		t.DiagonalMasks[sq] = dmask
		t.CardinalMasks[sq] = cmask

		forEachSubset(dmask, func(occ Bitboard) {
			idx := magicIndex(occ, dmask, bishopMagics[sq], relevantBitsBishop[sq])
			t.bishopAttacks[sq][idx] = rayAttacks(sq, occ, diagonalDirs)
		})
		forEachSubset(cmask, func(occ Bitboard) {
			idx := magicIndex(occ, cmask, rookMagics[sq], relevantBitsRook[sq])
			t.rookAttacks[sq][idx] = rayAttacks(sq, occ, cardinalDirs)
		})
	}
}

// BishopAttacks returns the squares a bishop on sq attacks given occ.
func (t *Tables) BishopAttacks(sq Square, occ Bitboard) Bitboard {
	return t.bishopAttacks[sq][magicIndex(occ, t.DiagonalMasks[sq], bishopMagics[sq], relevantBitsBishop[sq])]
}

// RookAttacks returns the squares a rook on sq attacks given occ.
func (t *Tables) RookAttacks(sq Square, occ Bitboard) Bitboard {
	return t.rookAttacks[sq][magicIndex(occ, t.CardinalMasks[sq], rookMagics[sq], relevantBitsRook[sq])]
}

// QueenAttacks is the union of bishop and rook attacks.
func (t *Tables) QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return t.BishopAttacks(sq, occ) | t.RookAttacks(sq, occ)
}
