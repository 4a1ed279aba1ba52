package engine

import (
	"time"

	"github.com/hailam/stiker/internal/board"
)

// Clock is the time control state sent with a UCI "go" command.
type Clock struct {
	Time      [2]time.Duration // remaining time per color
	Inc       [2]time.Duration // increment per color
	MovesToGo int              // 0 means sudden death
}

// minMoveTime keeps a flagging side from asking for a zero budget.
const minMoveTime = 10 * time.Millisecond

// Allocate returns the budget for the side us. The remaining time is split
// over the expected number of moves, most of the increment is added, and
// the result never exceeds 90% of the clock.
func (c Clock) Allocate(us board.Color, pos *board.Position) time.Duration {
	left, inc := c.Time[us], c.Inc[us]
	if left <= 0 {
		return 0
	}

	mtg := c.MovesToGo
	if mtg <= 0 {
		mtg = estimateMovesToGo(pos)
	}

	budget := left/time.Duration(mtg) + inc*9/10
	budget = min(budget, left*9/10)
	return max(budget, minMoveTime)
}

// estimateMovesToGo guesses the moves left from the material on the board.
func estimateMovesToGo(pos *board.Position) int {
	switch n := pos.All.PopCount(); {
	case n > 24:
		return 40
	case n > 12:
		return 30
	}
	return 20
}
