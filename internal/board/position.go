package board

import (
	"fmt"
	"strings"
)

// CastlingRights is a bitmask of the four castling permissions.
type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// String returns the FEN castling field.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, ch := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

// Has reports whether color c may still castle on the given wing.
func (cr CastlingRights) Has(c Color, kingSide bool) bool {
	return cr&castleRight(c, kingSide) != 0
}

func castleRight(c Color, kingSide bool) CastlingRights {
	r := WhiteQueenSide
	if kingSide {
		r = WhiteKingSide
	}
	if c == Black {
		r <<= 2
	}
	return r
}

// UndoRecord holds what one move changed, enough to reverse it exactly.
type UndoRecord struct {
	Move           Move
	Moved          PieceType
	Captured       PieceType // NoPieceType when nothing was taken
	CapturedSquare Square    // differs from Move.To for en passant
	EnPassant      Square
	Castling       CastlingRights
	HalfMoveClock  int
	Hash           uint64
}

// Position is a full game state. The exported fields are readable; mutate
// only through SetFEN, MakeMove, MakeMoveUnchecked and UnmakeMove so that
// the derived boards stay the union of Pieces.
type Position struct {
	Pieces   [2][6]Bitboard
	Occupied [2]Bitboard
	All      Bitboard

	SideToMove     Color
	EnPassant      Square
	Castling       CastlingRights
	HalfMoveClock  int
	FullMoveNumber int
	Hash           uint64

	history []UndoRecord
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	p, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return p
}

// Copy returns an independent copy, including the undo history.
func (p *Position) Copy() *Position {
	c := *p
	if p.history != nil {
		c.history = make([]UndoRecord, len(p.history), cap(p.history))
		copy(c.history, p.history)
	}
	return &c
}

// History returns the number of moves that can be undone.
func (p *Position) History() int {
	return len(p.history)
}

// LastMove returns the most recently applied move, or NoMove.
func (p *Position) LastMove() Move {
	if len(p.history) == 0 {
		return NoMove
	}
	return p.history[len(p.history)-1].Move
}

// PieceAt returns the kind and color on sq, or (NoPieceType, NoColor).
func (p *Position) PieceAt(sq Square) (PieceType, Color) {
	if !p.All.IsSet(sq) {
		return NoPieceType, NoColor
	}
	c := White
	if p.Occupied[Black].IsSet(sq) {
		c = Black
	}
	return p.kindAt(c, sq), c
}

// kindAt returns the kind of color c's piece on sq.
func (p *Position) kindAt(c Color, sq Square) PieceType {
	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[c][pt].IsSet(sq) {
			return pt
		}
	}
	return NoPieceType
}

// KingSquare returns the square of c's king, or NoSquare if it has none.
func (p *Position) KingSquare(c Color) Square {
	return p.Pieces[c][King].LSB()
}

func (p *Position) updateOccupied() {
	for c := White; c <= Black; c++ {
		var occ Bitboard
		for pt := Pawn; pt <= King; pt++ {
			occ |= p.Pieces[c][pt]
		}
		p.Occupied[c] = occ
	}
	p.All = p.Occupied[White] | p.Occupied[Black]
}

// reset empties the board and every counter.
func (p *Position) reset() {
	*p = Position{EnPassant: NoSquare, FullMoveNumber: 1}
}

// ComputeHash recomputes the Zobrist key from scratch.
func (p *Position) ComputeHash() uint64 {
	t := LookupTables()
	var h uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for bb := p.Pieces[c][pt]; bb != 0; {
				h ^= t.zobristPiece[c][pt][bb.PopLSB()]
			}
		}
	}
	h ^= t.zobristCastling[p.Castling]
	if p.EnPassant != NoSquare {
		h ^= t.zobristEP[p.EnPassant.File()]
	}
	if p.SideToMove == Black {
		h ^= t.zobristSide
	}
	return h
}

// IsInsufficientMaterial reports bare kings, or a lone minor piece against a
// bare king. It is informational and never ends a game.
func (p *Position) IsInsufficientMaterial() bool {
	for c := White; c <= Black; c++ {
		if p.Pieces[c][Pawn]|p.Pieces[c][Rook]|p.Pieces[c][Queen] != 0 {
			return false
		}
	}
	minors := (p.Pieces[White][Knight] | p.Pieces[White][Bishop] |
		p.Pieces[Black][Knight] | p.Pieces[Black][Bishop]).PopCount()
	return minors <= 1
}

// String draws the board the way the console shows it.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n  a b c d e f g h\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d ", rank+1)
		for file := 0; file < 8; file++ {
			pt, c := p.PieceAt(NewSquare(file, rank))
			if pt == NoPieceType {
				sb.WriteString(". ")
				continue
			}
			sb.WriteByte(pieceChar(pt, c))
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d\n", rank+1)
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
