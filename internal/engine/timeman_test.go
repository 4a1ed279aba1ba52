package engine

import (
	"testing"
	"time"

	"github.com/hailam/stiker/internal/board"
)

func TestClockAllocate(t *testing.T) {
	start := board.NewPosition()
	ending := mustFEN(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")

	tests := []struct {
		name  string
		clock Clock
		pos   *board.Position
		want  time.Duration
	}{
		{
			name:  "sudden death opening",
			clock: Clock{Time: [2]time.Duration{40 * time.Second, 40 * time.Second}},
			pos:   start,
			want:  time.Second,
		},
		{
			name: "increment",
			clock: Clock{
				Time: [2]time.Duration{20 * time.Second, 0},
				Inc:  [2]time.Duration{time.Second, 0},
			},
			pos:  ending,
			want: time.Second + 900*time.Millisecond,
		},
		{
			name:  "moves to go",
			clock: Clock{Time: [2]time.Duration{10 * time.Second}, MovesToGo: 5},
			pos:   start,
			want:  2 * time.Second,
		},
		{
			name:  "never most of the clock",
			clock: Clock{Time: [2]time.Duration{time.Second}, Inc: [2]time.Duration{5 * time.Second}},
			pos:   start,
			want:  900 * time.Millisecond,
		},
		{
			name:  "floor",
			clock: Clock{Time: [2]time.Duration{100 * time.Millisecond}},
			pos:   start,
			want:  minMoveTime,
		},
		{
			name:  "no clock",
			clock: Clock{},
			pos:   start,
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.clock.Allocate(board.White, tt.pos); got != tt.want {
				t.Errorf("Allocate = %v, want %v", got, tt.want)
			}
		})
	}
}
