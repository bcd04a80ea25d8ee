package board

import (
	"fmt"
	"math"

	"lukechampine.com/frand"
)

// Plain magic bitboards: every square owns a full 2^bits slot of the attack
// table, indexed by (occupancy & mask) * magic >> (64 - bits).

var relevantBitsBishop = [64]uint8{
	6, 5, 5, 5, 5, 5, 5, 6,
	5, 5, 5, 5, 5, 5, 5, 5,
	5, 5, 7, 7, 7, 7, 5, 5,
	5, 5, 7, 9, 9, 7, 5, 5,
	5, 5, 7, 9, 9, 7, 5, 5,
	5, 5, 7, 7, 7, 7, 5, 5,
	5, 5, 5, 5, 5, 5, 5, 5,
	6, 5, 5, 5, 5, 5, 5, 6,
}

var relevantBitsRook = [64]uint8{
	12, 11, 11, 11, 11, 11, 11, 12,
	11, 10, 10, 10, 10, 10, 10, 11,
	11, 10, 10, 10, 10, 10, 10, 11,
	11, 10, 10, 10, 10, 10, 10, 11,
	11, 10, 10, 10, 10, 10, 10, 11,
	11, 10, 10, 10, 10, 10, 10, 11,
	11, 10, 10, 10, 10, 10, 10, 11,
	12, 11, 11, 11, 11, 11, 11, 12,
}

// Generated with FindMagic and checked by VerifyMagics.
var bishopMagics = [64]uint64{
	0x2240440420404101, 0x0030443104202008, 0x00104400A2200500, 0x0064240180800800,
	0x0201104000000024, 0x0184222010002000, 0x0C80410420200428, 0x2209250110102200,
	0x0000202102020048, 0x801010014A408201, 0x0009100102002800, 0x0040191401080010,
	0x0002020210002440, 0x4000208884400800, 0x5001250450020912, 0x001082828401A010,
	0x8840000608480100, 0x0010006830210071, 0x2008043048840012, 0x0008000A2028C001,
	0x8012000422010020, 0x0020800248044000, 0x103A001111300232, 0x0002020030960801,
	0x0008405408311100, 0x0001082005101400, 0x0414280404074C00, 0x0040040012009210,
	0x20A1010084104000, 0x010A42800100A000, 0x0002408960480801, 0x0060404084820800,
	0x0004104000040440, 0xAC08022800102181, 0x0204040200012200, 0x2040200500480090,
	0x0084200200022080, 0x8010100820284402, 0x0030040100004111, 0x0002008202802210,
	0x1104010840008902, 0x0000841032000800, 0x08101108010A0800, 0x4001004204800808,
	0x1C01081010108100, 0x0020108102000110, 0x0024288604000048, 0x4C12021041011208,
	0x0000982110100000, 0x0020320110080200, 0x00C1114214902000, 0x00C0102084040180,
	0x0800092012440624, 0x61888810A1020100, 0x11281004888C0080, 0x8020020445012888,
	0x9212020200820880, 0x4042002602226000, 0x0080400210420824, 0x20A0000000420200,
	0x4402008028112402, 0x0008544008010910, 0x0601088288420404, 0x8004102081140280,
}

var rookMagics = [64]uint64{
	0x0880001080400020, 0x0840400020001000, 0x0100084411002000, 0x8880100008000480,
	0x0080040008008003, 0x5A000A0024095008, 0x0380020001800100, 0x0080028008412500,
	0x0005800240008434, 0x1840804000200080, 0x0901002000104103, 0x0002000812002040,
	0x18A3000800850090, 0x0201808006000400, 0x005A008200014804, 0x0060800061000080,
	0x008002C000422000, 0x0000810040010021, 0x0800110045002000, 0x4008420008102201,
	0x0000808008000400, 0x0002010100080400, 0x0300140001482290, 0x010802000041049C,
	0x464120818000C000, 0x0010460200288300, 0x0401004100102000, 0x0000080280500080,
	0xA000100500080100, 0x4480040080020080, 0x2400286400100241, 0x1200108200005104,
	0x1010304000800084, 0x0800802000804001, 0xE020001000802080, 0x0010000800801080,
	0x00A4000800800480, 0x0082000280800400, 0x4043000401000200, 0x024040811A000044,
	0x0680400080008024, 0x6440002810002000, 0x0800200041090010, 0x2241100021050008,
	0x20460020100A0004, 0x0002001004020008, 0x0020040200010100, 0x6040092080420014,
	0x3021004200208A00, 0x0000400100902100, 0x2D01802000100180, 0x0810001084080080,
	0x1080040008008080, 0x0020100440200801, 0x0101000200140500, 0x00008104008C4600,
	0x0100409021068001, 0x4249004000201081, 0x040020000C104101, 0x0010010110082005,
	0x0001000408000211, 0x00C2001084381102, 0x2015000092004421, 0x2000108044002102,
}

var (
	diagonalDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	cardinalDirs = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
)

// rayAttacks casts a ray from sq in each direction, stopping after the first
// occupied square or at the edge. Only used while building tables.
func rayAttacks(sq Square, occ Bitboard, dirs [4][2]int) Bitboard {
	var attacks Bitboard
	for _, d := range dirs {
		f, r := sq.File()+d[0], sq.Rank()+d[1]
		for f >= 0 && f <= 7 && r >= 0 && r <= 7 {
			to := SquareBB(NewSquare(f, r))
			attacks |= to
			if occ&to != 0 {
				break
			}
			f += d[0]
			r += d[1]
		}
	}
	return attacks
}

// relevanceMask is the set of squares whose occupancy can change a slider's
// attacks from sq: the empty-board rays without their final edge square.
func relevanceMask(sq Square, dirs [4][2]int) Bitboard {
	var mask Bitboard
	for _, d := range dirs {
		f, r := sq.File()+d[0], sq.Rank()+d[1]
		for {
			nf, nr := f+d[0], r+d[1]
			if nf < 0 || nf > 7 || nr < 0 || nr > 7 {
				break
			}
			mask |= SquareBB(NewSquare(f, r))
			f, r = nf, nr
		}
	}
	return mask
}

func magicIndex(occ, mask Bitboard, magic uint64, bits uint8) uint64 {
	return (uint64(occ&mask) * magic) >> (64 - bits)
}

// forEachSubset calls fn for every subset of mask, the empty set included.
func forEachSubset(mask Bitboard, fn func(Bitboard)) {
	var s Bitboard
	for {
		fn(s)
		s = (s - mask) & mask
		if s == 0 {
			return
		}
	}
}

func sliderParams(pt PieceType, sq Square) (dirs [4][2]int, bits uint8, magic uint64, err error) {
	switch pt {
	case Bishop:
		return diagonalDirs, relevantBitsBishop[sq], bishopMagics[sq], nil
	case Rook:
		return cardinalDirs, relevantBitsRook[sq], rookMagics[sq], nil
	}
	return dirs, 0, 0, fmt.Errorf("%s is not a magic slider", pt)
}

// checkMagic reports whether magic maps every blocker subset of mask to a
// slot that no subset with different attacks also maps to.
func checkMagic(sq Square, mask Bitboard, dirs [4][2]int, bits uint8, magic uint64) bool {
	used := make([]Bitboard, 1<<bits)
	filled := make([]bool, 1<<bits)
	ok := true
	forEachSubset(mask, func(occ Bitboard) {
		if !ok {
			return
		}
		idx := magicIndex(occ, mask, magic, bits)
		attacks := rayAttacks(sq, occ, dirs)
		if filled[idx] && used[idx] != attacks {
			ok = false
			return
		}
		used[idx] = attacks
		filled[idx] = true
	})
	return ok
}

// VerifyMagics checks every embedded magic constant against every blocker
// permutation of its square.
func VerifyMagics() error {
	for _, pt := range []PieceType{Bishop, Rook} {
		for sq := A1; sq <= H8; sq++ {
			dirs, bits, magic, err := sliderParams(pt, sq)
			if err != nil {
				return err
			}
			mask := relevanceMask(sq, dirs)
			if mask.Count() != int(bits) {
				return fmt.Errorf("%s mask on %s has %d bits, table says %d", pt, sq, mask.Count(), bits)
			}
			if !checkMagic(sq, mask, dirs, bits, magic) {
				return fmt.Errorf("%s magic %#016x collides on %s", pt, magic, sq)
			}
		}
	}
	return nil
}

const maxMagicTries = 100_000_000

// FindMagic searches for a collision-free magic for a bishop or rook on sq,
// trying sparse random candidates drawn from rng.
func FindMagic(pt PieceType, sq Square, rng *frand.RNG) (uint64, error) {
	dirs, bits, _, err := sliderParams(pt, sq)
	if err != nil {
		return 0, err
	}
	mask := relevanceMask(sq, dirs)
	for i := 0; i < maxMagicTries; i++ {
		magic := rng.Uint64n(math.MaxUint64) & rng.Uint64n(math.MaxUint64) & rng.Uint64n(math.MaxUint64)
		// Candidates that spread the mask thinly over the top byte rarely work.
		if Bitboard((uint64(mask)*magic)&0xFF00000000000000).Count() < 6 {
			continue
		}
		if checkMagic(sq, mask, dirs, bits, magic) {
			return magic, nil
		}
	}
	return 0, fmt.Errorf("no %s magic found for %s after %d tries", pt, sq, maxMagicTries)
}
