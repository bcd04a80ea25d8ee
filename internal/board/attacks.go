package board

// IsAttacked reports whether any piece of color by attacks sq. It runs the
// attack tables backwards from sq and intersects with by's pieces.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	t := p.tables
	occ := p.Pieces[AllPieces]
	queens := p.PiecesOf(by, Queen)
	return t.Pawn[by.Other()][sq]&p.PiecesOf(by, Pawn) != 0 ||
		t.Knight[sq]&p.PiecesOf(by, Knight) != 0 ||
		t.King[sq]&p.PiecesOf(by, King) != 0 ||
		t.BishopAttacks(sq, occ)&(p.PiecesOf(by, Bishop)|queens) != 0 ||
		t.RookAttacks(sq, occ)&(p.PiecesOf(by, Rook)|queens) != 0
}

// AttackersOf returns every piece of color by that attacks sq.
func (p *Position) AttackersOf(sq Square, by Color) Bitboard {
	t := p.tables
	occ := p.Pieces[AllPieces]
	queens := p.PiecesOf(by, Queen)
	return t.Pawn[by.Other()][sq]&p.PiecesOf(by, Pawn) |
		t.Knight[sq]&p.PiecesOf(by, Knight) |
		t.King[sq]&p.PiecesOf(by, King) |
		t.BishopAttacks(sq, occ)&(p.PiecesOf(by, Bishop)|queens) |
		t.RookAttacks(sq, occ)&(p.PiecesOf(by, Rook)|queens)
}

// Checkers returns the enemy pieces giving check to the side to move.
func (p *Position) Checkers() Bitboard {
	us := p.SideToMove()
	return p.AttackersOf(p.KingSquare(us), us.Other())
}

// AttackedBy returns every square attacked by color c, used by evaluation
// and the analysis service.
func (p *Position) AttackedBy(c Color) Bitboard {
	t := p.tables
	occ := p.Pieces[AllPieces]
	var attacked Bitboard
	for b := p.PiecesOf(c, Pawn); b != 0; {
		attacked |= t.Pawn[c][b.PopLSB()]
	}
	for b := p.PiecesOf(c, Knight); b != 0; {
		attacked |= t.Knight[b.PopLSB()]
	}
	for b := p.PiecesOf(c, Bishop) | p.PiecesOf(c, Queen); b != 0; {
		attacked |= t.BishopAttacks(b.PopLSB(), occ)
	}
	for b := p.PiecesOf(c, Rook) | p.PiecesOf(c, Queen); b != 0; {
		attacked |= t.RookAttacks(b.PopLSB(), occ)
	}
	if k := p.PiecesOf(c, King); k != 0 {
		attacked |= t.King[k.LSB()]
	}
	return attacked
}
