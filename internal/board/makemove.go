package board

import "fmt"

// Make plays m, which must have been generated for the current position.
// Every piece, castling, en-passant and turn change is XORed into the hash
// as it happens; the hash is never rebuilt. The pre-move castling rights,
// en-passant files and half-move clock are pushed on the history stack for
// Unmake.
//
// A move that does not fit the position (no own piece on the origin, a
// capture tag naming a piece that is not there) is a programming error and
// panics.
func (p *Position) Make(m Move) {
	t := p.tables
	us := p.SideToMove()
	them := us.Other()
	from, to := m.From(), m.To()

	mover := p.kindAt(us, from)
	if mover == NoPieceType {
		panic(fmt.Sprintf("board: make %s: no %s piece on %s", m, us, from))
	}

	p.history = append(p.history, undo{
		castling:       p.Castling,
		enPassantFiles: p.EnPassantFiles,
		halfMoveClock:  p.HalfMoveClock,
	})

	if m.IsCapture() {
		sq := captureSquare(m)
		victim := m.Captured()
		if !p.PiecesOf(them, victim).IsSet(sq) {
			panic(fmt.Sprintf("board: make %s: no %s %s on %s", m, them, victim, sq))
		}
		p.toggle(them, victim, sq)
	} else if p.Pieces[AllPieces].IsSet(to) {
		panic(fmt.Sprintf("board: make %s: destination %s occupied", m, to))
	}

	p.toggle(us, mover, from)
	if promo := m.Promotion(); promo != NoPieceType {
		if mover != Pawn {
			panic(fmt.Sprintf("board: make %s: %s cannot promote", m, mover))
		}
		p.toggle(us, promo, to)
	} else {
		p.toggle(us, mover, to)
	}
	if m.IsCastle() {
		rookFrom, rookTo := castleRookSquares(m)
		p.toggle(us, Rook, rookFrom)
		p.toggle(us, Rook, rookTo)
	}

	// Rights only ever shrink: anything moving from or to a king or rook
	// home square clears the rights tied to it.
	rights := p.Castling & castlingKeep[from] & castlingKeep[to]
	p.Hash ^= t.castlingKeys(p.Castling ^ rights)
	p.Castling = rights

	p.Hash ^= t.enPassantKeys(p.EnPassantFiles)
	p.EnPassantFiles = 0
	if mover == Pawn && (int(to)-int(from) == 16 || int(from)-int(to) == 16) {
		p.EnPassantFiles = 1 << to.File()
		p.Hash ^= t.enPassantKeys(p.EnPassantFiles)
	}

	if mover == Pawn || m.IsCapture() {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if !p.WhiteToMove {
		p.FullMoveNumber++
	}
	p.WhiteToMove = !p.WhiteToMove
	p.Hash ^= t.Zobrist[zobristTurn]
}

// Unmake reverts m, which must be the last move passed to Make.
func (p *Position) Unmake(m Move) {
	t := p.tables
	n := len(p.history)
	if n == 0 {
		panic(fmt.Sprintf("board: unmake %s: empty history", m))
	}
	prev := p.history[n-1]
	p.history = p.history[:n-1]

	p.WhiteToMove = !p.WhiteToMove
	p.Hash ^= t.Zobrist[zobristTurn]
	if !p.WhiteToMove {
		p.FullMoveNumber--
	}
	us := p.SideToMove()
	them := us.Other()
	from, to := m.From(), m.To()

	p.Hash ^= t.castlingKeys(p.Castling ^ prev.castling)
	p.Castling = prev.castling
	p.Hash ^= t.enPassantKeys(p.EnPassantFiles ^ prev.enPassantFiles)
	p.EnPassantFiles = prev.enPassantFiles
	p.HalfMoveClock = prev.halfMoveClock

	if m.IsCastle() {
		rookFrom, rookTo := castleRookSquares(m)
		p.toggle(us, Rook, rookTo)
		p.toggle(us, Rook, rookFrom)
	}
	if promo := m.Promotion(); promo != NoPieceType {
		if !p.PiecesOf(us, promo).IsSet(to) {
			panic(fmt.Sprintf("board: unmake %s: no %s %s on %s", m, us, promo, to))
		}
		p.toggle(us, promo, to)
		p.toggle(us, Pawn, from)
	} else {
		mover := p.kindAt(us, to)
		if mover == NoPieceType {
			panic(fmt.Sprintf("board: unmake %s: no %s piece on %s", m, us, to))
		}
		p.toggle(us, mover, to)
		p.toggle(us, mover, from)
	}
	if m.IsCapture() {
		p.toggle(them, m.Captured(), captureSquare(m))
	}
}

// Ply returns the number of moves on the history stack.
func (p *Position) Ply() int {
	return len(p.history)
}

// captureSquare is where the captured piece stands: the destination, or for
// en passant the square the capturing pawn passes beside.
func captureSquare(m Move) Square {
	if m.IsEnPassant() {
		return NewSquare(m.To().File(), m.From().Rank())
	}
	return m.To()
}

func castleRookSquares(m Move) (from, to Square) {
	king := m.From()
	if m.CaptureTag() == TagShortCastle {
		return king + 3, king + 1
	}
	return king - 4, king - 1
}
