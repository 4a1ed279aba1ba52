// Package engine chooses moves: material and positional evaluation, a
// transposition table, move ordering and an iterative-deepening negamax.
package engine

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/stiker/internal/board"
)

// Options configure an Engine.
type Options struct {
	HashMB   int
	MoveTime time.Duration // default budget when Limits give none
	MaxDepth int           // iterative deepening cap
	// CacheMinDepth is the depth a cached analysis needs to be reused.
	CacheMinDepth int
}

// DefaultOptions returns 64 MB of hash, 1.5 s per move and depth 20.
func DefaultOptions() Options {
	return Options{HashMB: 64, MoveTime: 1500 * time.Millisecond, MaxDepth: 20, CacheMinDepth: 8}
}

// Limits bound one search. Zero fields fall back to the engine options.
type Limits struct {
	Depth    int
	MoveTime time.Duration
	Infinite bool // ignore the clock and run until Stop or the depth cap
}

// SearchInfo is reported after every completed depth.
type SearchInfo struct {
	Depth    int
	Score    int
	Move     board.Move
	Nodes    uint64
	Elapsed  time.Duration
	HashFull int
}

// String formats the progress line: "info depth D score cp S pv M".
func (si SearchInfo) String() string {
	return fmt.Sprintf("info depth %d score cp %d pv %s", si.Depth, si.Score, si.Move)
}

// Result is the outcome of a search call.
type Result struct {
	Move    board.Move
	Score   int
	Depth   int
	Nodes   uint64
	Elapsed time.Duration
	Cached  bool
}

// Analysis is a finished search result kept across sessions.
type Analysis struct {
	FEN   string `json:"fen"`
	Move  string `json:"move"`
	Score int    `json:"score"`
	Depth int    `json:"depth"`
}

// AnalysisCache persists analyses keyed by position hash.
type AnalysisCache interface {
	LookupAnalysis(key uint64) (Analysis, bool, error)
	RecordAnalysis(key uint64, a Analysis) error
}

// Engine searches positions for the best move. Searches are serialized;
// Stop may be called from any goroutine.
type Engine struct {
	mu   sync.Mutex
	opts Options
	tt   *TranspositionTable
	stop atomic.Bool

	lastScore atomic.Int64
	cache     AnalysisCache
	log       zerolog.Logger

	// OnInfo, if set, receives a report after each completed depth.
	OnInfo func(SearchInfo)
}

// New creates an engine. A zero field in opts takes its default.
func New(opts Options) *Engine {
	def := DefaultOptions()
	if opts.HashMB <= 0 {
		opts.HashMB = def.HashMB
	}
	if opts.MoveTime <= 0 {
		opts.MoveTime = def.MoveTime
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = def.MaxDepth
	}
	if opts.CacheMinDepth <= 0 {
		opts.CacheMinDepth = def.CacheMinDepth
	}
	return &Engine{
		opts: opts,
		tt:   NewTranspositionTable(opts.HashMB),
		log:  zerolog.Nop(),
	}
}

// SetLogger replaces the engine's logger.
func (e *Engine) SetLogger(l zerolog.Logger) {
	e.log = l
}

// SetCache attaches a persistent analysis cache; nil detaches it.
func (e *Engine) SetCache(c AnalysisCache) {
	e.cache = c
}

// Options returns the current configuration.
func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

// SetMoveTime changes the default time budget.
func (e *Engine) SetMoveTime(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if d > 0 {
		e.opts.MoveTime = d
	}
}

// SetMaxDepth changes the iterative deepening cap.
func (e *Engine) SetMaxDepth(depth int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if depth > 0 {
		e.opts.MaxDepth = min(depth, MaxPly/2)
	}
}

// Resize reallocates the transposition table, discarding its contents.
func (e *Engine) Resize(sizeMB int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.HashMB = sizeMB
	e.tt = NewTranspositionTable(sizeMB)
}

// Clear empties the transposition table.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tt.Clear()
}

// Stop asks a running search to finish. The move of the last completed depth
// is returned.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// LastScore returns the score of the last completed depth, from the point of
// view of the side that was to move.
func (e *Engine) LastScore() int {
	return int(e.lastScore.Load())
}

// BestMove searches with the default budget and depth cap.
func (e *Engine) BestMove(pos *board.Position) board.Move {
	return e.Search(pos, Limits{}).Move
}

// Search runs iterative deepening on a copy of pos. With no legal move the
// result holds board.NoMove.
func (e *Engine) Search(pos *board.Position, limits Limits) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stop.Store(false)
	return e.search(pos.Copy(), limits)
}

// search runs with e.mu held and the stop flag cleared by the caller.
func (e *Engine) search(root *board.Position, limits Limits) Result {
	maxDepth := e.opts.MaxDepth
	if limits.Depth > 0 {
		maxDepth = min(limits.Depth, MaxPly/2)
	} else if limits.Infinite {
		maxDepth = MaxPly / 2
	}
	budget := e.opts.MoveTime
	if limits.MoveTime > 0 {
		budget = limits.MoveTime
	}
	if limits.Infinite {
		budget = 0
	}

	legal := root.GenerateLegalMoves()
	if legal.Len() == 0 {
		return Result{Move: board.NoMove}
	}

	if res, ok := e.cached(root, legal, maxDepth); ok {
		return res
	}

	s := newSearcher(e.tt, &e.stop, budget)
	res := Result{Move: legal.Get(0)}

	for depth := 1; depth <= maxDepth; depth++ {
		score := s.negamax(root, depth, 0, -Infinity, Infinity)
		if e.stop.Load() {
			break
		}
		if !s.rootBest.IsNone() {
			res.Move = s.rootBest
		}
		res.Score, res.Depth = score, depth
		e.lastScore.Store(int64(score))

		info := SearchInfo{
			Depth:    depth,
			Score:    score,
			Move:     res.Move,
			Nodes:    s.nodes,
			Elapsed:  time.Since(s.start),
			HashFull: e.tt.HashFull(),
		}
		e.log.Debug().
			Int("depth", depth).
			Int("score", score).
			Uint64("nodes", s.nodes).
			Dur("elapsed", info.Elapsed).
			Str("move", res.Move.String()).
			Msg("depth complete")
		if e.OnInfo != nil {
			e.OnInfo(info)
		}

		if IsMateScore(score) {
			break
		}
		if budget > 0 && time.Since(s.start) > budget {
			break
		}
	}

	res.Nodes = s.nodes
	res.Elapsed = time.Since(s.start)
	e.log.Info().
		Str("move", res.Move.String()).
		Int("score", res.Score).
		Int("depth", res.Depth).
		Uint64("nodes", res.Nodes).
		Dur("elapsed", res.Elapsed).
		Float64("tt_hit_rate", e.tt.HitRate()).
		Msg("search finished")

	e.remember(root, res)
	return res
}

// cached returns a stored analysis for root when it is deep enough and its
// move is legal here.
func (e *Engine) cached(root *board.Position, legal *board.MoveList, maxDepth int) (Result, bool) {
	if e.cache == nil {
		return Result{}, false
	}
	a, ok, err := e.cache.LookupAnalysis(root.Hash)
	if err != nil {
		e.log.Warn().Err(err).Msg("analysis lookup failed")
		return Result{}, false
	}
	if !ok || a.FEN != root.FEN() || a.Depth < min(maxDepth, e.opts.CacheMinDepth) {
		return Result{}, false
	}
	m, ok := legal.Find(board.ParseMove(a.Move))
	if !ok {
		return Result{}, false
	}
	e.lastScore.Store(int64(a.Score))
	e.log.Debug().Str("move", a.Move).Int("depth", a.Depth).Msg("analysis cache hit")
	return Result{Move: m, Score: a.Score, Depth: a.Depth, Cached: true}, true
}

func (e *Engine) remember(root *board.Position, res Result) {
	if e.cache == nil || res.Depth < e.opts.CacheMinDepth {
		return
	}
	a := Analysis{FEN: root.FEN(), Move: res.Move.String(), Score: res.Score, Depth: res.Depth}
	if err := e.cache.RecordAnalysis(root.Hash, a); err != nil {
		e.log.Warn().Err(err).Msg("analysis record failed")
	}
}

// RandomMove returns a uniformly chosen legal move, or NoMove.
func (e *Engine) RandomMove(pos *board.Position) board.Move {
	moves := pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		return board.NoMove
	}
	return moves.Get(rand.IntN(moves.Len()))
}

// Job is a search running on its own goroutine.
type Job struct {
	done   atomic.Bool
	ch     chan struct{}
	result Result
}

// Start launches a search on a copy of pos and returns once any earlier
// search has finished. The caller may keep using pos; poll Done or block in
// Wait for the move.
func (e *Engine) Start(pos *board.Position, limits Limits) *Job {
	// The lock is taken here and released by the search goroutine, so a Stop
	// issued after Start returns always reaches this job.
	e.mu.Lock()
	e.stop.Store(false)
	root := pos.Copy()
	j := &Job{ch: make(chan struct{})}
	go func() {
		defer e.mu.Unlock()
		j.result = e.search(root, limits)
		j.done.Store(true)
		close(j.ch)
	}()
	return j
}

// Done reports whether the search has finished.
func (j *Job) Done() bool {
	return j.done.Load()
}

// Wait blocks until the search finishes and returns its result.
func (j *Job) Wait() Result {
	<-j.ch
	return j.result
}

// FormatScore renders a score as pawns, or as a mate distance in moves.
func FormatScore(score int) string {
	switch {
	case score > MateScore-MaxPly:
		return fmt.Sprintf("mate in %d", (MateScore-score+1)/2)
	case score < -MateScore+MaxPly:
		return fmt.Sprintf("mated in %d", (MateScore+score+1)/2)
	}
	return fmt.Sprintf("%+.2f", float64(score)/100)
}
