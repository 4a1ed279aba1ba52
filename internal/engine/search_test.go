package engine

import (
	"sync/atomic"
	"testing"

	"github.com/hailam/stiker/internal/board"
)

func freshSearcher() *searcher {
	return newSearcher(NewTranspositionTable(4), new(atomic.Bool), 0)
}

func TestNegamaxDeterministic(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range fens {
		a := freshSearcher().negamax(mustFEN(t, fen), 3, 0, -Infinity, Infinity)
		b := freshSearcher().negamax(mustFEN(t, fen), 3, 0, -Infinity, Infinity)
		if a != b {
			t.Errorf("%s: scores %d and %d differ", fen, a, b)
		}
	}
}

func TestNegamaxLeavesPositionUnchanged(t *testing.T) {
	pos := board.NewPosition()
	before := pos.FEN()
	freshSearcher().negamax(pos, 3, 0, -Infinity, Infinity)
	if pos.FEN() != before || pos.Hash != pos.ComputeHash() || pos.History() != 0 {
		t.Errorf("position changed by search: %s", pos.FEN())
	}
}

func TestNegamaxTerminalScores(t *testing.T) {
	mated := mustFEN(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if got := freshSearcher().negamax(mated, 2, 3, -Infinity, Infinity); got != -MateScore+3 {
		t.Errorf("mated score = %d, want %d", got, -MateScore+3)
	}
	stalemate := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if got := freshSearcher().negamax(stalemate, 2, 0, -Infinity, Infinity); got != 0 {
		t.Errorf("stalemate score = %d, want 0", got)
	}
}

func TestNegamaxFindsMateInOne(t *testing.T) {
	pos := mustFEN(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	s := freshSearcher()
	score := s.negamax(pos, 2, 0, -Infinity, Infinity)
	if score != MateScore-1 {
		t.Errorf("score = %d, want %d", score, MateScore-1)
	}
	if want := board.NewMove(board.A1, board.A8); !s.rootBest.Equal(want) {
		t.Errorf("root move = %s, want %s", s.rootBest, want)
	}
}

func TestQuiescenceMonotonic(t *testing.T) {
	// The rook can take an undefended queen.
	pos := mustFEN(t, "4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1")
	prev := -Infinity
	for budget := 0; budget <= QuiescenceDepth; budget++ {
		got := freshSearcher().quiescence(pos, -Infinity, Infinity, budget)
		if got < prev {
			t.Errorf("budget %d: score %d below budget %d score %d", budget, got, budget-1, prev)
		}
		prev = got
	}
	if stand := EvaluateRelative(pos); prev <= stand {
		t.Errorf("quiescence %d did not improve on stand pat %d", prev, stand)
	}
}

func TestQuiescenceFailHard(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1")
	if got := freshSearcher().quiescence(pos, -50, 50, QuiescenceDepth); got != 50 {
		t.Errorf("quiescence above beta = %d, want 50", got)
	}
}

func TestSearchStopsOnFlag(t *testing.T) {
	s := freshSearcher()
	s.stop.Store(true)
	if got := s.negamax(board.NewPosition(), 5, 0, -Infinity, Infinity); got != 0 {
		t.Errorf("stopped search = %d, want 0", got)
	}
	if s.nodes != 1 {
		t.Errorf("stopped search visited %d nodes", s.nodes)
	}
}
