package engine

import (
	"unsafe"

	"github.com/hailam/stiker/internal/board"
)

// Bound tells how a stored score relates to the true value.
type Bound uint8

const (
	BoundNone  Bound = iota // empty slot
	BoundExact              // score inside the window
	BoundLower              // failed high, true value >= score
	BoundUpper              // failed low, true value <= score
)

func (b Bound) String() string {
	switch b {
	case BoundExact:
		return "exact"
	case BoundLower:
		return "lower"
	case BoundUpper:
		return "upper"
	}
	return "none"
}

// TTEntry is one slot of the transposition table.
type TTEntry struct {
	Key   uint64
	Move  board.Move
	Score int32
	Depth int16
	Bound Bound
}

// TranspositionTable is a fixed array of entries addressed by key modulo
// capacity. It is not safe for concurrent use.
type TranspositionTable struct {
	entries []TTEntry

	probes uint64
	hits   uint64
}

// NewTranspositionTable allocates a table that fits in sizeMB megabytes.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	if sizeMB < 1 {
		sizeMB = 1
	}
	n := uint64(sizeMB) << 20 / uint64(unsafe.Sizeof(TTEntry{}))
	return &TranspositionTable{entries: make([]TTEntry, n)}
}

// Capacity returns the number of slots.
func (tt *TranspositionTable) Capacity() int {
	return len(tt.entries)
}

func (tt *TranspositionTable) slot(key uint64) *TTEntry {
	return &tt.entries[key%uint64(len(tt.entries))]
}

// Store writes a result unless the slot holds a deeper one.
func (tt *TranspositionTable) Store(key uint64, depth, score int, bound Bound, move board.Move, ply int) {
	e := tt.slot(key)
	if e.Bound != BoundNone && depth < int(e.Depth) {
		return
	}
	*e = TTEntry{
		Key:   key,
		Move:  move,
		Score: int32(scoreToTT(score, ply)),
		Depth: int16(depth),
		Bound: bound,
	}
}

// Probe looks key up. The stored move is returned whenever the key matches;
// ok is true only when the entry is deep enough and its bound settles the
// score against the alpha-beta window.
func (tt *TranspositionTable) Probe(key uint64, depth, alpha, beta, ply int) (score int, move board.Move, ok bool) {
	tt.probes++
	e := tt.slot(key)
	if e.Bound == BoundNone || e.Key != key {
		return 0, board.NoMove, false
	}
	tt.hits++
	move = e.Move
	if int(e.Depth) < depth {
		return 0, move, false
	}
	s := scoreFromTT(int(e.Score), ply)
	switch {
	case e.Bound == BoundExact:
		return s, move, true
	case e.Bound == BoundUpper && s <= alpha:
		return alpha, move, true
	case e.Bound == BoundLower && s >= beta:
		return beta, move, true
	}
	return 0, move, false
}

// Clear empties every slot and the statistics.
func (tt *TranspositionTable) Clear() {
	clear(tt.entries)
	tt.probes, tt.hits = 0, 0
}

// HashFull returns the used fraction of the first thousand slots, in permille.
func (tt *TranspositionTable) HashFull() int {
	sample := min(1000, len(tt.entries))
	used := 0
	for i := 0; i < sample; i++ {
		if tt.entries[i].Bound != BoundNone {
			used++
		}
	}
	return used * 1000 / sample
}

// HitRate returns the percentage of probes that matched a stored key.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// Mate scores are stored relative to the node, not the root.
func scoreToTT(score, ply int) int {
	switch {
	case score > MateScore-MaxPly:
		return score + ply
	case score < -MateScore+MaxPly:
		return score - ply
	}
	return score
}

func scoreFromTT(score, ply int) int {
	switch {
	case score > MateScore-MaxPly:
		return score - ply
	case score < -MateScore+MaxPly:
		return score + ply
	}
	return score
}
