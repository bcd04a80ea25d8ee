package board

// Zobrist table layout: 12 piece values per square (index 12*sq + piece),
// then the turn, the en-passant files and the four castling rights.
const (
	zobristTurn      = 768
	zobristEnPassant = 769
	zobristCastling  = 777
	zobristSize      = 781
)

const zobristSeed uint64 = 8752137612383702536

// lcg is a 64-bit linear congruential generator using the multiplier from
// Steele and Vigna, "Computationally easy, spectrally good multipliers for
// congruential pseudorandom number generators" (2022). The low bits of an LCG
// have short periods, so the output folds the high half into the low half.
type lcg struct {
	state uint64
}

func (g *lcg) next() uint64 {
	g.state = g.state*0xd1342543de82ef95 + 1
	x := g.state
	x ^= x >> 32
	x *= 0xd6e8feb86659fd93
	x ^= x >> 32
	return x
}

func (t *Tables) initZobrist(seed uint64) {
	g := lcg{state: seed}
	for i := range t.Zobrist {
		t.Zobrist[i] = g.next()
	}
}

func (t *Tables) pieceKey(p Piece, sq Square) uint64 {
	return t.Zobrist[12*int(sq)+int(p)]
}

// enPassantKeys XORs together the keys of every file set in files.
func (t *Tables) enPassantKeys(files uint8) uint64 {
	var h uint64
	for f := 0; f < 8; f++ {
		if files&(1<<f) != 0 {
			h ^= t.Zobrist[zobristEnPassant+f]
		}
	}
	return h
}

// castlingKeys XORs together the keys of every right set in cr.
func (t *Tables) castlingKeys(cr CastlingRights) uint64 {
	var h uint64
	for i := 0; i < 4; i++ {
		if cr&(1<<i) != 0 {
			h ^= t.Zobrist[zobristCastling+i]
		}
	}
	return h
}

// ComputeHash rebuilds the Zobrist hash of p from scratch.
func (p *Position) ComputeHash() uint64 {
	t := p.tables
	var h uint64
	for c := White; c <= Black; c++ {
		for pt := King; pt <= Queen; pt++ {
			bb := p.Pieces[pieceBoard(c, pt)]
			for bb != 0 {
				h ^= t.pieceKey(NewPiece(c, pt), bb.PopLSB())
			}
		}
	}
	if p.WhiteToMove {
		h ^= t.Zobrist[zobristTurn]
	}
	h ^= t.enPassantKeys(p.EnPassantFiles)
	h ^= t.castlingKeys(p.Castling)
	return h
}
