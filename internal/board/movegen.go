package board

import (
	"cmp"
	"slices"
)

// CheckBonus is the ordering weight of a checking move.
const CheckBonus = 100

// OrderScore is the static ordering score of a legal move: twice the value
// of a captured piece, plus CheckBonus for a check, plus the value of a
// promoted piece.
func OrderScore(m Move) int {
	score := 0
	if victim := m.Captured(); victim != NoPieceType {
		score += 2 * victim.Value()
	}
	if m.GivesCheck() {
		score += CheckBonus
	}
	if promo := m.Promotion(); promo != NoPieceType {
		score += promo.Value()
	}
	return score
}

// LegalMoves returns every legal move for the side to move, annotated with
// the check bit and stably sorted by OrderScore, best first.
func (p *Position) LegalMoves() []Move {
	us := p.SideToMove()
	them := us.Other()

	pseudo := p.PseudoLegalMoves()
	legal := pseudo[:0]
	for _, m := range pseudo {
		if m.IsCastle() && !p.castlePathSafe(m, them) {
			continue
		}
		p.Make(m)
		if !p.IsAttacked(p.KingSquare(us), them) {
			if p.IsAttacked(p.KingSquare(them), us) {
				m |= flagCheck
			}
			legal = append(legal, m)
		}
		p.Unmake(m)
	}

	slices.SortStableFunc(legal, func(a, b Move) int {
		return cmp.Compare(OrderScore(b), OrderScore(a))
	})
	return legal
}

// HasLegalMoves reports whether the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	us := p.SideToMove()
	them := us.Other()
	for _, m := range p.PseudoLegalMoves() {
		if m.IsCastle() && !p.castlePathSafe(m, them) {
			continue
		}
		p.Make(m)
		ok := !p.IsAttacked(p.KingSquare(us), them)
		p.Unmake(m)
		if ok {
			return true
		}
	}
	return false
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	us := p.SideToMove()
	return p.IsAttacked(p.KingSquare(us), us.Other())
}

// IsCheckmate reports whether the side to move is mated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move has no legal move and is
// not in check.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// castlePathSafe checks that the king neither starts in nor passes through
// an attacked square. The destination is checked after the move is made.
func (p *Position) castlePathSafe(m Move, them Color) bool {
	from := m.From()
	transit := from + 1
	if m.CaptureTag() == TagLongCastle {
		transit = from - 1
	}
	return !p.IsAttacked(from, them) && !p.IsAttacked(transit, them)
}

// PseudoLegalMoves returns moves that follow piece movement rules but may
// leave the mover's king in check.
func (p *Position) PseudoLegalMoves() []Move {
	moves := make([]Move, 0, 64)
	us := p.SideToMove()
	own := p.Occupied(us)
	occ := p.Pieces[AllPieces]
	t := p.tables

	moves = p.appendPawnMoves(moves, us)

	for knights := p.PiecesOf(us, Knight); knights != 0; {
		from := knights.PopLSB()
		moves = p.appendTargets(moves, us, from, t.Knight[from]&^own)
	}
	for bishops := p.PiecesOf(us, Bishop); bishops != 0; {
		from := bishops.PopLSB()
		moves = p.appendTargets(moves, us, from, t.BishopAttacks(from, occ)&^own)
	}
	for rooks := p.PiecesOf(us, Rook); rooks != 0; {
		from := rooks.PopLSB()
		moves = p.appendTargets(moves, us, from, t.RookAttacks(from, occ)&^own)
	}
	for queens := p.PiecesOf(us, Queen); queens != 0; {
		from := queens.PopLSB()
		moves = p.appendTargets(moves, us, from, t.QueenAttacks(from, occ)&^own)
	}
	if kings := p.PiecesOf(us, King); kings != 0 {
		from := kings.LSB()
		moves = p.appendTargets(moves, us, from, t.King[from]&^own)
	}

	return p.appendCastles(moves, us)
}

// appendTargets adds a move from from to every square in targets, tagging
// captures with the kind found on the destination.
func (p *Position) appendTargets(moves []Move, us Color, from Square, targets Bitboard) []Move {
	them := us.Other()
	enemies := p.Occupied(them)
	for targets != 0 {
		to := targets.PopLSB()
		if enemies.IsSet(to) {
			moves = append(moves, NewCapture(from, to, p.kindAt(them, to)))
		} else {
			moves = append(moves, NewMove(from, to))
		}
	}
	return moves
}

var promotionKinds = [4]PieceType{Queen, Rook, Bishop, Knight}

func appendPromotions(moves []Move, from, to Square, victim PieceType) []Move {
	for _, promo := range promotionKinds {
		moves = append(moves, NewPromotion(from, to, victim, promo))
	}
	return moves
}

func (p *Position) appendPawnMoves(moves []Move, us Color) []Move {
	t := p.tables
	them := us.Other()
	pawns := p.PiecesOf(us, Pawn)
	empty := ^p.Pieces[AllPieces]
	enemies := p.Occupied(them)

	var push1, push2, lastRank Bitboard
	var forward int
	var epRank int
	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		lastRank, forward, epRank = Rank8, 8, 5
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		lastRank, forward, epRank = Rank1, -8, 2
	}

	for b := push1; b != 0; {
		to := b.PopLSB()
		from := Square(int(to) - forward)
		if lastRank.IsSet(to) {
			moves = appendPromotions(moves, from, to, NoPieceType)
		} else {
			moves = append(moves, NewMove(from, to))
		}
	}
	for b := push2; b != 0; {
		to := b.PopLSB()
		moves = append(moves, NewMove(Square(int(to)-2*forward), to))
	}

	for b := pawns; b != 0; {
		from := b.PopLSB()
		for targets := t.Pawn[us][from] & enemies; targets != 0; {
			to := targets.PopLSB()
			victim := p.kindAt(them, to)
			if lastRank.IsSet(to) {
				moves = appendPromotions(moves, from, to, victim)
			} else {
				moves = append(moves, NewCapture(from, to, victim))
			}
		}
	}

	for f := 0; f < 8; f++ {
		if p.EnPassantFiles&(1<<f) == 0 {
			continue
		}
		target := NewSquare(f, epRank)
		for b := t.Pawn[them][target] & pawns; b != 0; {
			moves = append(moves, NewEnPassant(b.PopLSB(), target))
		}
	}

	return moves
}

func (p *Position) appendCastles(moves []Move, us Color) []Move {
	king, rookShort, rookLong := E1, H1, A1
	shortPath := SquareBB(F1) | SquareBB(G1)
	longPath := SquareBB(B1) | SquareBB(C1) | SquareBB(D1)
	if us == Black {
		king, rookShort, rookLong = E8, H8, A8
		shortPath, longPath = shortPath.FlipVertical(), longPath.FlipVertical()
	}
	if !p.PiecesOf(us, King).IsSet(king) {
		return moves
	}
	occ := p.Pieces[AllPieces]
	rooks := p.PiecesOf(us, Rook)
	if p.Castling&shortRight(us) != 0 && occ&shortPath == 0 && rooks.IsSet(rookShort) {
		moves = append(moves, NewCastle(us, true))
	}
	if p.Castling&longRight(us) != 0 && occ&longPath == 0 && rooks.IsSet(rookLong) {
		moves = append(moves, NewCastle(us, false))
	}
	return moves
}
