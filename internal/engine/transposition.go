package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// DefaultTableSize is the default number of transposition table entries.
const DefaultTableSize = 0x222222

// NodeType indicates the type of bound stored in the transposition table.
type NodeType uint8

const (
	Exact NodeType = iota // score is the true value
	Alpha                 // failed low: score is an upper bound
	Beta                  // failed high: score is a lower bound
)

func (t NodeType) String() string {
	switch t {
	case Exact:
		return "exact"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	}
	return "unknown"
}

// Entry is one transposition table slot.
type Entry struct {
	Key   uint64     // full Zobrist hash, compared on probe
	Move  board.Move // best or refutation move, NoMove when none was found
	Score int32      // stored from the node's own point of view, mate scores ply-adjusted
	Depth int16
	Type  NodeType
}

// TranspositionTable is a fixed-size hash table of search results indexed
// by key modulo size. A store always replaces the slot's previous
// occupant. It is not safe for concurrent use.
type TranspositionTable struct {
	entries []Entry
}

// NewTranspositionTable creates a table with size entries.
func NewTranspositionTable(size int) *TranspositionTable {
	if size < 1 {
		size = 1
	}
	return &TranspositionTable{entries: make([]Entry, size)}
}

func (tt *TranspositionTable) slot(key uint64) *Entry {
	return &tt.entries[key%uint64(len(tt.entries))]
}

// Probe returns the entry stored for key, if any.
func (tt *TranspositionTable) Probe(key uint64) (Entry, bool) {
	e := *tt.slot(key)
	if e.Key != key || e.Depth <= 0 {
		return Entry{}, false
	}
	return e, true
}

// Lookup returns a score usable at a node searched to depth with window
// [alpha, beta] at distance ply from the root. It succeeds only when the
// key matches, the stored depth is sufficient, and the bound type allows
// a decision for this window.
func (tt *TranspositionTable) Lookup(key uint64, depth, ply, alpha, beta int) (int, bool) {
	e, ok := tt.Probe(key)
	if !ok || int(e.Depth) < depth {
		return 0, false
	}
	score := scoreFromTT(int(e.Score), ply)
	switch e.Type {
	case Exact:
		return score, true
	case Alpha:
		if score <= alpha {
			return score, true
		}
	case Beta:
		if score >= beta {
			return score, true
		}
	}
	return 0, false
}

// Store saves a search result for key.
func (tt *TranspositionTable) Store(key uint64, move board.Move, depth, ply, score int, typ NodeType) {
	*tt.slot(key) = Entry{
		Key:   key,
		Move:  move.Identity(),
		Score: int32(scoreToTT(score, ply)),
		Depth: int16(depth),
		Type:  typ,
	}
}

// Clear empties the table.
func (tt *TranspositionTable) Clear() {
	clear(tt.entries)
}

// Size returns the number of entries in the table.
func (tt *TranspositionTable) Size() int {
	return len(tt.entries)
}

// HashFull returns the permille of the first thousand slots in use.
func (tt *TranspositionTable) HashFull() int {
	sample := min(1000, len(tt.entries))
	used := 0
	for _, e := range tt.entries[:sample] {
		if e.Depth > 0 {
			used++
		}
	}
	return used * 1000 / sample
}

// Mate scores are stored relative to the node rather than the root so an
// entry stays valid when the position is reached at another ply.
func scoreToTT(score, ply int) int {
	if score > mateThreshold {
		return score + ply
	}
	if score < -mateThreshold {
		return score - ply
	}
	return score
}

func scoreFromTT(score, ply int) int {
	if score > mateThreshold {
		return score - ply
	}
	if score < -mateThreshold {
		return score + ply
	}
	return score
}
