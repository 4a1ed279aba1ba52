package board

// asMover returns p itself when c is to move, otherwise a scratch copy with
// c to move. Legality depends on whose moves are generated.
func (p *Position) asMover(c Color) *Position {
	if p.SideToMove == c {
		return p
	}
	scratch := *p
	scratch.history = nil
	scratch.SideToMove = c
	return &scratch
}

// IsCheck reports whether c's king is attacked, whoever is to move.
func (p *Position) IsCheck(c Color) bool {
	return p.IsSquareAttacked(p.KingSquare(c), c.Other())
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return p.IsCheck(p.SideToMove)
}

// IsCheckmate reports whether c is in check with no legal move.
func (p *Position) IsCheckmate(c Color) bool {
	return p.IsCheck(c) && !p.asMover(c).HasLegalMoves()
}

// IsStalemate reports whether c is not in check but has no legal move.
func (p *Position) IsStalemate(c Color) bool {
	return !p.IsCheck(c) && !p.asMover(c).HasLegalMoves()
}

// IsGameOver reports checkmate or stalemate for the side to move. The
// half-move clock and repetitions never end the game.
func (p *Position) IsGameOver() bool {
	return !p.HasLegalMoves()
}

// Outcome describes how the game stands for the side to move.
type Outcome uint8

const (
	Ongoing Outcome = iota
	Checkmate
	Stalemate
)

func (o Outcome) String() string {
	switch o {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return "ongoing"
}

// Outcome classifies the position for the side to move.
func (p *Position) Outcome() Outcome {
	if p.HasLegalMoves() {
		return Ongoing
	}
	if p.InCheck() {
		return Checkmate
	}
	return Stalemate
}
