// Package engine implements the alpha-beta search, its transposition table
// and killer moves, move ordering and static evaluation.
package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Evaluation constants
const (
	pawnChainBonus     = 10 // per pawn defended by a friendly pawn
	doubledPawnPenalty = 10 // per pawn with a friendly pawn behind it
)

// knightHeat holds the centipawn bonus for a knight on each square: 20
// times a centralization weight of 0.25 (corner) up to 1.0 (centre),
// rounded. The table is symmetric under a rank flip.
var knightHeat = [64]int{
	5, 8, 10, 10, 10, 10, 8, 5,
	8, 13, 15, 15, 15, 15, 13, 8,
	10, 15, 20, 20, 20, 20, 15, 10,
	10, 15, 20, 20, 20, 20, 15, 10,
	10, 15, 20, 20, 20, 20, 15, 10,
	10, 15, 20, 20, 20, 20, 15, 10,
	8, 13, 15, 15, 15, 15, 13, 8,
	5, 8, 10, 10, 10, 10, 8, 5,
}

// Evaluate returns the static score of pos in centipawns, positive when
// White is better: material plus knight placement and pawn structure.
func Evaluate(pos *board.Position) int {
	return EvaluateMaterial(pos) + evaluateKnights(pos) + evaluatePawnStructure(pos)
}

// EvaluateMaterial returns the material balance only.
func EvaluateMaterial(pos *board.Position) int {
	score := 0
	for pt := board.Pawn; pt <= board.Queen; pt++ {
		n := pos.PiecesOf(board.White, pt).Count() - pos.PiecesOf(board.Black, pt).Count()
		score += n * pt.Value()
	}
	return score
}

func evaluateKnights(pos *board.Position) int {
	score := 0
	for bb := pos.PiecesOf(board.White, board.Knight); bb != 0; {
		score += knightHeat[bb.PopLSB()]
	}
	for bb := pos.PiecesOf(board.Black, board.Knight); bb != 0; {
		score -= knightHeat[bb.PopLSB()]
	}
	return score
}

func evaluatePawnStructure(pos *board.Position) int {
	white := pos.PiecesOf(board.White, board.Pawn)
	black := pos.PiecesOf(board.Black, board.Pawn)

	score := 0

	// Chains: pawns standing on a square a friendly pawn attacks.
	score += pawnChainBonus * (white & (white.NorthEast() | white.NorthWest())).Count()
	score -= pawnChainBonus * (black & (black.SouthEast() | black.SouthWest())).Count()

	// Doubled pawns: every pawn with a friendly pawn behind it on its file.
	score -= doubledPawnPenalty * (white & fillNorth(white.North())).Count()
	score += doubledPawnPenalty * (black & fillSouth(black.South())).Count()

	return score
}

func fillNorth(b board.Bitboard) board.Bitboard {
	b |= b << 8
	b |= b << 16
	b |= b << 32
	return b
}

func fillSouth(b board.Bitboard) board.Bitboard {
	b |= b >> 8
	b |= b >> 16
	b |= b >> 32
	return b
}

// relative converts a White-positive score to the side to move's view.
func relative(pos *board.Position, score int) int {
	if pos.WhiteToMove {
		return score
	}
	return -score
}
