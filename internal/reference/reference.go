// Package reference compares the engine with an external UCI engine.
package reference

import (
	"errors"
	"fmt"

	"github.com/notnil/chess"
	"github.com/notnil/chess/uci"
	"github.com/rs/zerolog"

	"github.com/hailam/stiker/internal/board"
	"github.com/hailam/stiker/internal/engine"
)

// ErrNoResult is returned when the reference engine ends a search without
// a best move.
var ErrNoResult = errors.New("reference: engine returned no move")

// Verdict is one analysis, with Score from the side to move's view.
type Verdict struct {
	Move  string
	Score int
	Depth int
}

// Evaluator analyses a FEN to a fixed depth.
type Evaluator interface {
	Evaluate(fen string, depth int) (Verdict, error)
}

// Referee drives an external engine process.
type Referee struct {
	eng *uci.Engine
}

// Open starts the engine binary at path and performs the UCI handshake.
func Open(path string) (*Referee, error) {
	eng, err := uci.New(path)
	if err != nil {
		return nil, fmt.Errorf("start reference engine %s: %w", path, err)
	}
	if err := eng.Run(uci.CmdUCI, uci.CmdIsReady, uci.CmdUCINewGame); err != nil {
		eng.Close()
		return nil, fmt.Errorf("reference handshake: %w", err)
	}
	return &Referee{eng: eng}, nil
}

// Close shuts the engine process down.
func (r *Referee) Close() error {
	return r.eng.Close()
}

// Evaluate searches fen to depth with the reference engine.
func (r *Referee) Evaluate(fen string, depth int) (Verdict, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", board.ErrInvalidFEN, err)
	}
	game := chess.NewGame(opt)

	cmdPos := uci.CmdPosition{Position: game.Position()}
	cmdGo := uci.CmdGo{Depth: depth}
	if err := r.eng.Run(uci.CmdIsReady, cmdPos, cmdGo); err != nil {
		return Verdict{}, err
	}

	res := r.eng.SearchResults()
	if res.BestMove == nil {
		return Verdict{}, ErrNoResult
	}
	return Verdict{
		Move:  res.BestMove.String(),
		Score: scoreFromUCI(res.Info.Score.CP, res.Info.Score.Mate),
		Depth: res.Info.Depth,
	}, nil
}

// scoreFromUCI maps a UCI score onto the engine's scale. "mate N" becomes a
// mate score 2N-1 plies away; "mate -N" is mated in 2N plies.
func scoreFromUCI(cp, mate int) int {
	switch {
	case mate > 0:
		return engine.MateScore - (2*mate - 1)
	case mate < 0:
		return -engine.MateScore + 2*-mate
	}
	return cp
}

// Comparison holds both engines' answers for one position. Scores are from
// White's point of view.
type Comparison struct {
	FEN      string
	Move     string
	Score    int
	RefMove  string
	RefScore int
	Agree    bool
}

// Compare searches every FEN with eng and ref at depth and logs the results.
// Positions that fail to parse or to evaluate are logged and skipped.
func Compare(eng *engine.Engine, ref Evaluator, fens []string, depth int, log zerolog.Logger) []Comparison {
	var out []Comparison
	for _, fen := range fens {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			log.Warn().Err(err).Str("fen", fen).Msg("skipping position")
			continue
		}
		if !pos.HasLegalMoves() {
			log.Info().Str("fen", fen).Str("outcome", pos.Outcome().String()).Msg("no move to compare")
			continue
		}

		res := eng.Search(pos, engine.Limits{Depth: depth})
		v, err := ref.Evaluate(fen, depth)
		if err != nil {
			log.Warn().Err(err).Str("fen", fen).Msg("reference evaluation failed")
			continue
		}

		sign := 1
		if pos.SideToMove == board.Black {
			sign = -1
		}
		c := Comparison{
			FEN:      fen,
			Move:     res.Move.String(),
			Score:    sign * res.Score,
			RefMove:  v.Move,
			RefScore: sign * v.Score,
		}
		c.Agree = c.Move == c.RefMove
		log.Info().
			Str("fen", fen).
			Str("move", c.Move).
			Int("score", c.Score).
			Str("ref_move", c.RefMove).
			Int("ref_score", c.RefScore).
			Bool("agree", c.Agree).
			Msg("compared")
		out = append(out, c)
	}
	return out
}

// Agreement returns the fraction of comparisons where both engines chose
// the same move.
func Agreement(cs []Comparison) float64 {
	if len(cs) == 0 {
		return 0
	}
	n := 0
	for _, c := range cs {
		if c.Agree {
			n++
		}
	}
	return float64(n) / float64(len(cs))
}
