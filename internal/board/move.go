package board

import "strings"

// Move is a single chess move. Identity is (From, To, Promotion); the
// Castle and EnPassant flags describe the move but never distinguish two moves.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
	Castle    bool
	EnPassant bool
}

// NoMove is the sentinel for "no move": both squares are NoSquare.
var NoMove = Move{From: NoSquare, To: NoSquare, Promotion: NoPieceType}

// NewMove returns a plain move without promotion.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to, Promotion: NoPieceType}
}

// NewPromotion returns a pawn move that promotes to pt.
func NewPromotion(from, to Square, pt PieceType) Move {
	return Move{From: from, To: to, Promotion: pt}
}

// promo normalizes the promotion field: anything but N, B, R, Q means none.
func (m Move) promo() PieceType {
	if m.Promotion >= Knight && m.Promotion <= Queen {
		return m.Promotion
	}
	return NoPieceType
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.promo() != NoPieceType
}

// IsNone reports whether m is the NoMove sentinel or otherwise off the board.
func (m Move) IsNone() bool {
	return m.From >= NoSquare || m.To >= NoSquare
}

// Equal compares from, to and promotion only.
func (m Move) Equal(o Move) bool {
	return m.From == o.From && m.To == o.To && m.promo() == o.promo()
}

// String returns coordinate notation such as "e2e4" or "e7e8q".
// NoMove prints as "0000".
func (m Move) String() string {
	if m.IsNone() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if pt := m.promo(); pt != NoPieceType {
		s += string(pt.Char())
	}
	return s
}

// ParseMove parses coordinate notation. Anything malformed yields NoMove;
// the result says nothing about legality.
func ParseMove(s string) Move {
	if len(s) < 4 || len(s) > 5 {
		return NoMove
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove
	}
	m := NewMove(from, to)
	if len(s) == 5 {
		switch strings.ToLower(s[4:]) {
		case "n":
			m.Promotion = Knight
		case "b":
			m.Promotion = Bishop
		case "r":
			m.Promotion = Rook
		case "q":
			m.Promotion = Queen
		}
	}
	return m
}

// MoveList is a fixed-capacity move buffer. No legal position has more than
// 218 moves.
type MoveList struct {
	moves [256]Move
	count int
}

// Add appends m.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the i-th move.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Swap exchanges two entries.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Find returns the stored move equal to m, with its flags filled in.
func (ml *MoveList) Find(m Move) (Move, bool) {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i].Equal(m) {
			return ml.moves[i], true
		}
	}
	return NoMove, false
}

// Contains reports whether a move equal to m is in the list.
func (ml *MoveList) Contains(m Move) bool {
	_, ok := ml.Find(m)
	return ok
}

// Slice returns the moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// Strings returns every move in coordinate notation.
func (ml *MoveList) Strings() []string {
	out := make([]string, ml.count)
	for i := 0; i < ml.count; i++ {
		out[i] = ml.moves[i].String()
	}
	return out
}
