package engine

import "github.com/hailam/stiker/internal/board"

// Ordering scores. Every capture outranks both killers, and history scores
// are capped below the second killer.
const (
	ttMoveScore  = 10_000_000
	captureBase  = 1_000_000
	killerScore1 = 900_000
	killerScore2 = 800_000
	historyCap   = 700_000

	// historyCeiling is the value past which a history entry is halved.
	historyCeiling = 20_000
)

// KillerPlies is the number of plies that keep killer moves.
const KillerPlies = 20

// MoveOrderer holds the killer and history tables of one search call.
type MoveOrderer struct {
	killers [KillerPlies][2]board.Move
	history [64][64]int
}

// Clear resets both tables.
func (mo *MoveOrderer) Clear() {
	for i := range mo.killers {
		mo.killers[i] = [2]board.Move{board.NoMove, board.NoMove}
	}
	mo.history = [64][64]int{}
}

// mvvLva scores a capture: base plus ten times the victim minus the attacker.
func mvvLva(pos *board.Position, m board.Move) int {
	victim := board.Pawn
	if !m.EnPassant {
		victim, _ = pos.PieceAt(m.To)
	}
	attacker, _ := pos.PieceAt(m.From)
	return captureBase + 10*PieceValues[victim] - PieceValues[attacker]
}

// ScoreMoves returns one ordering score per move in moves.
func (mo *MoveOrderer) ScoreMoves(pos *board.Position, moves *board.MoveList, ply int, ttMove board.Move) []int {
	scores := make([]int, moves.Len())
	for i := range scores {
		scores[i] = mo.scoreMove(pos, moves.Get(i), ply, ttMove)
	}
	return scores
}

func (mo *MoveOrderer) scoreMove(pos *board.Position, m board.Move, ply int, ttMove board.Move) int {
	if !ttMove.IsNone() && m.Equal(ttMove) {
		return ttMoveScore
	}
	if pos.IsCapture(m) {
		return mvvLva(pos, m)
	}
	if ply < KillerPlies {
		if m.Equal(mo.killers[ply][0]) {
			return killerScore1
		}
		if m.Equal(mo.killers[ply][1]) {
			return killerScore2
		}
	}
	return min(mo.history[m.From][m.To], historyCap)
}

// ScoreCaptures orders quiescence moves by MVV-LVA alone.
func ScoreCaptures(pos *board.Position, moves *board.MoveList) []int {
	scores := make([]int, moves.Len())
	for i := range scores {
		scores[i] = mvvLva(pos, moves.Get(i))
	}
	return scores
}

// PickMove brings the best-scored move at or after index to index.
func PickMove(moves *board.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < moves.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}

// RecordCutoff credits a quiet move that caused a beta cutoff.
func (mo *MoveOrderer) RecordCutoff(m board.Move, ply, depth int) {
	if ply < KillerPlies && !m.Equal(mo.killers[ply][0]) {
		mo.killers[ply][1] = mo.killers[ply][0]
		mo.killers[ply][0] = m
	}
	h := &mo.history[m.From][m.To]
	*h += depth * depth
	if *h > historyCeiling {
		*h /= 2
	}
}

// Killers returns the two killer slots for ply, most recent first.
func (mo *MoveOrderer) Killers(ply int) [2]board.Move {
	if ply >= KillerPlies {
		return [2]board.Move{board.NoMove, board.NoMove}
	}
	return mo.killers[ply]
}

// History returns the history score of a from-to pair.
func (mo *MoveOrderer) History(from, to board.Square) int {
	return mo.history[from][to]
}
