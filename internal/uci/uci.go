// Package uci speaks the subset of the Universal Chess Interface the engine
// supports: positions, timed or fixed-depth searches, stop, and a few options.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/stiker/internal/board"
	"github.com/hailam/stiker/internal/engine"
)

// Engine identification sent in reply to "uci".
const (
	EngineName   = "Stiker"
	EngineAuthor = "the Stiker authors"
)

// UCI implements the protocol loop over a reader and a writer.
type UCI struct {
	engine   *engine.Engine
	position *board.Position
	log      zerolog.Logger

	outMu sync.Mutex
	out   io.Writer

	// Search state
	searchDone chan struct{}
	infinite   bool
}

// New creates a protocol handler that writes replies to out.
func New(eng *engine.Engine, out io.Writer, log zerolog.Logger) *UCI {
	u := &UCI{
		engine:   eng,
		position: board.NewPosition(),
		log:      log,
		out:      out,
	}
	eng.OnInfo = u.sendInfo
	return u
}

// Run reads commands until "quit" or the end of input. On quit a running
// search is stopped; at the end of input a bounded search is allowed to
// finish and an infinite one is stopped. Run returns after the last bestmove.
func (u *UCI) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.println(u.position.String())
			u.printf("Fen: %s\nKey: %016X\n", u.position.FEN(), u.position.Hash)
		case "perft":
			u.handlePerft(args)
		default:
			u.log.Debug().Str("cmd", cmd).Msg("unknown command")
		}
	}
	u.finishSearch()
	return scanner.Err()
}

func (u *UCI) printf(format string, args ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

func (u *UCI) println(s string) {
	u.printf("%s\n", s)
}

func (u *UCI) searching() bool {
	if u.searchDone == nil {
		return false
	}
	select {
	case <-u.searchDone:
		return false
	default:
		return true
	}
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	opts := u.engine.Options()
	u.printf("id name %s\n", EngineName)
	u.printf("id author %s\n", EngineAuthor)
	u.println("")
	u.printf("option name Hash type spin default %d min 1 max 4096\n", opts.HashMB)
	u.printf("option name MoveTime type spin default %d min 10 max 600000\n", opts.MoveTime.Milliseconds())
	u.printf("option name Depth type spin default %d min 1 max %d\n", opts.MaxDepth, engine.MaxPly/2)
	u.println("uciok")
}

// handleNewGame resets the engine for a new game.
func (u *UCI) handleNewGame() {
	u.handleStop()
	u.engine.Clear()
	u.position = board.NewPosition()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos [moves e2e4 e7e5 ...]
//   - position fen <fen> [moves ...]
//
// Moves are applied until the first one that is illegal.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		var err error
		pos, err = board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			u.log.Warn().Err(err).Msg("position rejected")
			u.printf("info string invalid fen: %v\n", err)
			return
		}
	default:
		return
	}

	if movesAt < len(args) {
		for _, text := range args[movesAt+1:] {
			if !pos.MakeMove(board.ParseMove(text)) {
				u.log.Warn().Str("move", text).Str("fen", pos.FEN()).Msg("illegal move in position command")
				u.printf("info string illegal move: %s\n", text)
				break
			}
		}
	}
	u.position = pos
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth    int
	MoveTime time.Duration
	Infinite bool
	Clock    engine.Clock
}

// handleGo starts a search. The bestmove line is written when it ends.
func (u *UCI) handleGo(args []string) {
	if u.searching() {
		u.log.Warn().Msg("go while searching ignored")
		return
	}

	limits := u.calculateLimits(ParseGoOptions(args))
	u.log.Debug().
		Int("depth", limits.Depth).
		Dur("movetime", limits.MoveTime).
		Bool("infinite", limits.Infinite).
		Str("fen", u.position.FEN()).
		Msg("go")

	done := make(chan struct{})
	u.searchDone = done
	u.infinite = limits.Infinite
	job := u.engine.Start(u.position, limits)

	go func() {
		defer close(done)
		res := job.Wait()
		u.printf("bestmove %s\n", res.Move)
	}()
}

func parseMillis(s string) time.Duration {
	ms, _ := strconv.Atoi(s)
	return time.Duration(ms) * time.Millisecond
}

// ParseGoOptions parses "go" command arguments. Unknown tokens and
// malformed numbers are ignored.
func ParseGoOptions(args []string) GoOptions {
	var opts GoOptions

	for i := 0; i < len(args); i++ {
		if args[i] == "infinite" {
			opts.Infinite = true
			continue
		}
		if i+1 >= len(args) {
			break
		}
		val := args[i+1]
		switch args[i] {
		case "depth":
			opts.Depth, _ = strconv.Atoi(val)
		case "movetime":
			opts.MoveTime = parseMillis(val)
		case "wtime":
			opts.Clock.Time[board.White] = parseMillis(val)
		case "btime":
			opts.Clock.Time[board.Black] = parseMillis(val)
		case "winc":
			opts.Clock.Inc[board.White] = parseMillis(val)
		case "binc":
			opts.Clock.Inc[board.Black] = parseMillis(val)
		case "movestogo":
			opts.Clock.MovesToGo, _ = strconv.Atoi(val)
		default:
			continue
		}
		i++
	}

	return opts
}

// calculateLimits converts GoOptions to engine limits for the current
// position.
func (u *UCI) calculateLimits(opts GoOptions) engine.Limits {
	limits := engine.Limits{Depth: opts.Depth}

	if opts.Infinite {
		limits.Infinite = true
		return limits
	}

	if opts.MoveTime > 0 {
		limits.MoveTime = opts.MoveTime
	} else if opts.Clock.Time[board.White] > 0 || opts.Clock.Time[board.Black] > 0 {
		us := u.position.SideToMove
		limits.MoveTime = opts.Clock.Allocate(us, u.position)
		u.log.Debug().
			Dur("allocated", limits.MoveTime).
			Dur("left", opts.Clock.Time[us]).
			Dur("inc", opts.Clock.Inc[us]).
			Msg("time allocated")
	}

	return limits
}

// FormatScore renders a score in UCI form: "cp N" or "mate N".
func FormatScore(score int) string {
	switch {
	case score > engine.MateScore-engine.MaxPly:
		return fmt.Sprintf("mate %d", (engine.MateScore-score+1)/2)
	case score < -engine.MateScore+engine.MaxPly:
		return fmt.Sprintf("mate %d", -(engine.MateScore+score+1)/2)
	}
	return fmt.Sprintf("cp %d", score)
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		"score " + FormatScore(info.Score),
		fmt.Sprintf("nodes %d", info.Nodes),
		fmt.Sprintf("time %d", info.Elapsed.Milliseconds()),
	}
	if info.Elapsed > 0 {
		nps := uint64(float64(info.Nodes) / info.Elapsed.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if info.HashFull > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %d", info.HashFull))
	}
	if !info.Move.IsNone() {
		parts = append(parts, "pv "+info.Move.String())
	}
	u.printf("info %s\n", strings.Join(parts, " "))
}

// handleStop stops the current search and waits for its bestmove line.
func (u *UCI) handleStop() {
	if u.searchDone == nil {
		return
	}
	u.engine.Stop()
	<-u.searchDone
	u.searchDone = nil
}

// finishSearch waits for a bounded search and stops an infinite one.
func (u *UCI) finishSearch() {
	if u.searchDone == nil {
		return
	}
	if u.infinite {
		u.handleStop()
		return
	}
	<-u.searchDone
	u.searchDone = nil
}

// handleSetOption processes "setoption name <name> value <value>".
func (u *UCI) handleSetOption(args []string) {
	var name, value []string
	var target *[]string
	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				*target = append(*target, arg)
			}
		}
	}

	key := strings.ToLower(strings.Join(name, " "))
	n, err := strconv.Atoi(strings.Join(value, " "))
	if err != nil || n <= 0 {
		u.printf("info string bad value for %s\n", key)
		return
	}

	u.handleStop()
	switch key {
	case "hash":
		u.engine.Resize(n)
	case "movetime":
		u.engine.SetMoveTime(time.Duration(n) * time.Millisecond)
	case "depth":
		u.engine.SetMaxDepth(n)
	default:
		u.printf("info string unknown option %s\n", key)
		return
	}
	u.log.Info().Str("option", key).Int("value", n).Msg("option set")
}

// handlePerft counts leaf nodes below the current position, per root move.
func (u *UCI) handlePerft(args []string) {
	depth := 4
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d > 0 {
			depth = d
		}
	}

	start := time.Now()
	var nodes uint64
	for _, e := range u.position.Divide(depth) {
		u.printf("%s: %d\n", e.Move, e.Nodes)
		nodes += e.Nodes
	}
	elapsed := time.Since(start)

	u.printf("\nNodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		u.printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}
