package engine

import (
	"sync/atomic"
	"time"

	"github.com/hailam/stiker/internal/board"
)

// Search constants
const (
	Infinity  = 1_000_000
	MateScore = 900_000
	MaxPly    = 128

	// QuiescenceDepth is the capture budget below the nominal horizon.
	QuiescenceDepth = 4

	// The clock is read once every checkInterval+1 nodes.
	checkInterval = 2047
)

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	return score > MateScore-MaxPly || score < -MateScore+MaxPly
}

// searcher is the mutable state of one top-level search call: the move
// ordering tables, the clock and the node counter. The transposition table
// and the stop flag are borrowed from the engine.
type searcher struct {
	tt       *TranspositionTable
	stop     *atomic.Bool
	orderer  MoveOrderer
	start    time.Time
	budget   time.Duration // zero means no time limit
	nodes    uint64
	rootBest board.Move
}

func newSearcher(tt *TranspositionTable, stop *atomic.Bool, budget time.Duration) *searcher {
	s := &searcher{tt: tt, stop: stop, budget: budget, start: time.Now(), rootBest: board.NoMove}
	s.orderer.Clear()
	return s
}

// tick counts a node and polls the clock at fixed intervals.
func (s *searcher) tick() bool {
	s.nodes++
	if s.nodes&checkInterval == 0 && s.budget > 0 && time.Since(s.start) > s.budget {
		s.stop.Store(true)
	}
	return s.stop.Load()
}

// negamax searches pos to depth and returns the score for the side to move.
// Once the stop flag is set it unwinds with 0 and the result is discarded.
func (s *searcher) negamax(pos *board.Position, depth, ply, alpha, beta int) int {
	if s.tick() {
		return 0
	}

	ttScore, ttMove, hit := s.tt.Probe(pos.Hash, depth, alpha, beta, ply)
	if hit && ply > 0 {
		return ttScore
	}

	if depth <= 0 {
		return s.quiescence(pos, alpha, beta, QuiescenceDepth)
	}

	inCheck := pos.InCheck()
	moves := pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	scores := s.orderer.ScoreMoves(pos, moves, ply, ttMove)
	best, bestMove := -Infinity, board.NoMove
	bound := BoundUpper
	searched := 0
	lmpLimit := 5 + depth*depth

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		m := moves.Get(i)
		capture := pos.IsCapture(m)

		// Late move pruning of quiet moves near the horizon. Root moves are
		// always searched.
		if ply > 0 && !inCheck && depth <= 3 && !capture && searched > lmpLimit {
			continue
		}

		pos.MakeMoveUnchecked(m)
		score := -s.negamax(pos, depth-1, ply+1, -beta, -alpha)
		pos.UnmakeMove()
		if s.stop.Load() {
			return 0
		}
		searched++

		if score > best {
			best, bestMove = score, m
			if ply == 0 {
				s.rootBest = m
			}
		}
		if score > alpha {
			alpha = score
			bound = BoundExact
		}
		if alpha >= beta {
			if !capture {
				s.orderer.RecordCutoff(m, ply, depth)
			}
			bound = BoundLower
			break
		}
	}

	s.tt.Store(pos.Hash, depth, best, bound, bestMove, ply)
	return best
}

// quiescence resolves captures past the horizon, at most budget plies deep.
// It is fail-hard and never touches the transposition table.
func (s *searcher) quiescence(pos *board.Position, alpha, beta, budget int) int {
	if s.tick() {
		return 0
	}

	standPat := EvaluateRelative(pos)
	if budget <= 0 {
		return standPat
	}
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	captures := pos.GenerateCaptures()
	scores := ScoreCaptures(pos, captures)
	for i := 0; i < captures.Len(); i++ {
		PickMove(captures, scores, i)
		pos.MakeMoveUnchecked(captures.Get(i))
		score := -s.quiescence(pos, -beta, -alpha, budget-1)
		pos.UnmakeMove()
		if s.stop.Load() {
			return 0
		}
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}
