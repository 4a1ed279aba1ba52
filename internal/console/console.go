// Package console is an interactive text front end: it prints the board,
// accepts moves in coordinate or algebraic form and can ask the engine to
// reply.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hailam/stiker/internal/board"
	"github.com/hailam/stiker/internal/engine"
)

const helpText = `Commands:
  e2e4, e7e8q     play a move in coordinate form
  Nf3, exd5, O-O  play a move in algebraic form
  moves           list the legal moves
  undo, u         take back the last move
  go              let the engine move
  fen             print the position as FEN
  setfen <fen>    load a position
  perft <n>       count leaf nodes at depth n
  board           print the board
  help, h         show this text
  quit, q, exit   leave
`

// Console runs the interactive loop over one position.
type Console struct {
	pos    *board.Position
	engine *engine.Engine
	out    io.Writer
	log    zerolog.Logger
}

// New creates a console on the starting position. eng may be nil, which
// disables the go command.
func New(eng *engine.Engine, out io.Writer, log zerolog.Logger) *Console {
	c := &Console{pos: board.NewPosition(), engine: eng, out: out, log: log}
	if eng != nil {
		eng.OnInfo = func(si engine.SearchInfo) {
			fmt.Fprintln(c.out, si.String())
		}
	}
	return c
}

// Position returns the position being played.
func (c *Console) Position() *board.Position {
	return c.pos
}

// Run reads commands until quit or the end of input.
func (c *Console) Run(in io.Reader) error {
	fmt.Fprintln(c.out, "Type 'help' for the list of commands.")
	c.printState()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !c.execute(line) {
			fmt.Fprintln(c.out, "Bye.")
			return nil
		}
	}
}

// execute runs one command line and reports whether the loop continues.
func (c *Console) execute(line string) bool {
	fields := strings.Fields(line)
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "q", "exit":
		return false
	case "help", "h":
		fmt.Fprint(c.out, helpText)
	case "board":
		c.printState()
	case "moves":
		c.printMoves()
	case "fen":
		fmt.Fprintf(c.out, "FEN: %s\n", c.pos.FEN())
	case "undo", "u":
		if c.pos.History() == 0 {
			fmt.Fprintln(c.out, "No move to take back.")
			return true
		}
		c.pos.UnmakeMove()
		fmt.Fprintln(c.out, "Move taken back.")
		c.printState()
	case "setfen":
		if err := c.pos.SetFEN(strings.Join(args, " ")); err != nil {
			fmt.Fprintf(c.out, "Invalid FEN: %v\n", err)
			return true
		}
		c.printState()
	case "perft":
		c.perft(args)
	case "go":
		c.engineMove()
	default:
		c.playMove(fields[0])
	}
	return true
}

func (c *Console) playMove(text string) {
	if c.pos.IsGameOver() {
		fmt.Fprintln(c.out, "The game is over. Use undo, setfen or quit.")
		return
	}

	m := board.ParseMove(strings.ToLower(text))
	if m.IsNone() {
		var err error
		if m, err = board.ParseSAN(text, c.pos); err != nil {
			fmt.Fprintf(c.out, "Unknown command or move %q. Type 'help'.\n", text)
			return
		}
	}

	legal, ok := c.pos.GenerateLegalMoves().Find(m)
	if !ok {
		fmt.Fprintf(c.out, "Illegal move %s.\n", m)
		return
	}
	san := legal.SAN(c.pos)
	c.pos.MakeMoveUnchecked(legal)
	c.log.Debug().Str("move", legal.String()).Str("fen", c.pos.FEN()).Msg("move played")
	fmt.Fprintf(c.out, "Played %s (%s).\n", legal, san)
	c.printState()
}

func (c *Console) engineMove() {
	if c.engine == nil {
		fmt.Fprintln(c.out, "No engine attached.")
		return
	}
	res := c.engine.Search(c.pos, engine.Limits{})
	if res.Move.IsNone() {
		fmt.Fprintln(c.out, "No legal move.")
		return
	}
	san := res.Move.SAN(c.pos)
	c.pos.MakeMove(res.Move)
	fmt.Fprintf(c.out, "Engine plays %s (%s), score %s for the side that moved.\n",
		res.Move, san, engine.FormatScore(res.Score))
	c.printState()
}

func (c *Console) perft(args []string) {
	depth := 3
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			fmt.Fprintf(c.out, "Bad depth %q.\n", args[0])
			return
		}
		depth = d
	}
	fmt.Fprintf(c.out, "perft(%d) = %d\n", depth, c.pos.Perft(depth))
}

func (c *Console) printMoves() {
	moves := c.pos.GenerateLegalMoves()
	fmt.Fprintf(c.out, "Legal moves (%d): %s\n", moves.Len(), strings.Join(moves.Strings(), " "))
}

// printState shows the board and the game status.
func (c *Console) printState() {
	fmt.Fprintln(c.out, c.pos.String())

	us := c.pos.SideToMove
	switch c.pos.Outcome() {
	case board.Checkmate:
		fmt.Fprintf(c.out, "Checkmate. %s wins.\n", colorName(us.Other()))
		return
	case board.Stalemate:
		fmt.Fprintln(c.out, "Stalemate. The game is drawn.")
		return
	}

	fmt.Fprintf(c.out, "%s to move, move %d.\n", colorName(us), c.pos.FullMoveNumber)
	if c.pos.IsCheck(us) {
		fmt.Fprintln(c.out, "Check.")
	}
	c.printMoves()
}

func colorName(c board.Color) string {
	if c == board.White {
		return "White"
	}
	return "Black"
}
