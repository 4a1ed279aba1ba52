package engine

import (
	"testing"

	"github.com/hailam/stiker/internal/board"
)

func TestOrderingPriorities(t *testing.T) {
	// White can take a queen with a pawn or a rook, or play quiet moves.
	pos := mustFEN(t, "4k3/8/8/3q4/4P3/8/8/3RK3 w - - 0 1")
	var mo MoveOrderer
	mo.Clear()

	ttMove := board.NewMove(board.E1, board.F1)
	killer := board.NewMove(board.D1, board.A1)
	mo.RecordCutoff(killer, 0, 1)

	moves := pos.GenerateLegalMoves()
	scores := mo.ScoreMoves(pos, moves, 0, ttMove)
	order := make([]board.Move, 0, 4)
	for i := 0; i < 4; i++ {
		PickMove(moves, scores, i)
		order = append(order, moves.Get(i))
	}

	want := []board.Move{
		ttMove,
		board.NewMove(board.E4, board.D5),
		board.NewMove(board.D1, board.D5),
		killer,
	}
	for i := range want {
		if !order[i].Equal(want[i]) {
			t.Errorf("order[%d] = %s, want %s (order %v)", i, order[i], want[i], order)
		}
	}
}

func TestKillersShift(t *testing.T) {
	var mo MoveOrderer
	mo.Clear()
	a := board.NewMove(board.B1, board.C3)
	b := board.NewMove(board.G1, board.F3)

	mo.RecordCutoff(a, 3, 2)
	mo.RecordCutoff(a, 3, 2)
	if k := mo.Killers(3); !k[0].Equal(a) || !k[1].IsNone() {
		t.Errorf("repeated killer filled both slots: %v", k)
	}
	mo.RecordCutoff(b, 3, 2)
	if k := mo.Killers(3); !k[0].Equal(b) || !k[1].Equal(a) {
		t.Errorf("killers = %v, want [%s %s]", k, b, a)
	}
	if k := mo.Killers(KillerPlies + 1); !k[0].IsNone() {
		t.Errorf("killers past the table = %v", k)
	}
}

func TestHistoryGrowsAndHalves(t *testing.T) {
	var mo MoveOrderer
	mo.Clear()
	m := board.NewMove(board.E2, board.E4)

	mo.RecordCutoff(m, 0, 3)
	if got := mo.History(board.E2, board.E4); got != 9 {
		t.Errorf("history = %d, want 9", got)
	}

	mo.Clear()
	for i := 0; i < 3; i++ {
		mo.RecordCutoff(m, 0, 100)
	}
	// 10000, 20000, then 30000 crosses the ceiling and is halved.
	if got := mo.History(board.E2, board.E4); got != 15000 {
		t.Errorf("history = %d, want 15000", got)
	}
}

func TestMVVLVA(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/3q4/4P3/8/8/3RK3 w - - 0 1")
	byPawn := mvvLva(pos, board.NewMove(board.E4, board.D5))
	byRook := mvvLva(pos, board.NewMove(board.D1, board.D5))
	if byPawn <= byRook {
		t.Errorf("pawn takes queen (%d) should outrank rook takes queen (%d)", byPawn, byRook)
	}
	if byRook <= killerScore1 {
		t.Errorf("capture score %d does not outrank killers", byRook)
	}
}
