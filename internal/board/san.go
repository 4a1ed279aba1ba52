package board

import (
	"fmt"
	"strings"
)

// SAN renders m, legal in pos, in standard algebraic notation. The castle
// and en passant flags are taken from the matching legal move.
func (m Move) SAN(pos *Position) string {
	if m.IsNone() {
		return "-"
	}
	if legal, ok := pos.GenerateLegalMoves().Find(m); ok {
		m = legal
	}
	pt, _ := pos.PieceAt(m.From)
	if pt == NoPieceType {
		return m.String()
	}

	var sb strings.Builder
	switch {
	case m.Castle && m.To.File() == 6:
		sb.WriteString("O-O")
	case m.Castle:
		sb.WriteString("O-O-O")
	default:
		capture := pos.IsCapture(m)
		if pt == Pawn {
			if capture {
				sb.WriteByte(byte('a' + m.From.File()))
			}
		} else {
			sb.WriteByte(pieceChar(pt, White))
			sb.WriteString(disambiguation(pos, m, pt))
		}
		if capture {
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(pieceChar(m.Promotion, White))
		}
	}

	after := pos.Copy()
	after.MakeMoveUnchecked(m)
	switch {
	case after.IsCheckmate(after.SideToMove):
		sb.WriteByte('#')
	case after.InCheck():
		sb.WriteByte('+')
	}
	return sb.String()
}

// disambiguation returns the origin file, rank or square needed when another
// piece of the same kind can reach the same target.
func disambiguation(pos *Position, m Move, pt PieceType) string {
	legal := pos.GenerateLegalMoves()
	var sameFile, sameRank, ambiguous bool
	for _, o := range legal.Slice() {
		if o.To != m.To || o.From == m.From {
			continue
		}
		if k, _ := pos.PieceAt(o.From); k != pt {
			continue
		}
		ambiguous = true
		sameFile = sameFile || o.From.File() == m.From.File()
		sameRank = sameRank || o.From.Rank() == m.From.Rank()
	}
	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(rune('a' + m.From.File()))
	case !sameRank:
		return string(rune('1' + m.From.Rank()))
	}
	return m.From.String()
}

// ParseSAN finds the legal move written as s in standard algebraic notation.
func ParseSAN(s string, pos *Position) (Move, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "+#!?")
	legal := pos.GenerateLegalMoves()

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		kingSide := len(s) == 3
		for _, m := range legal.Slice() {
			if m.Castle && (m.To.File() == 6) == kingSide {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("castling %q is not legal here", s)
	}

	promo := NoPieceType
	if i := strings.IndexByte(s, '='); i >= 0 && i+1 < len(s) {
		if pt, _, ok := pieceFromChar(s[i+1]); ok {
			promo = pt
		}
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && strings.IndexByte("NBRQK", s[0]) >= 0 {
		pt, _, _ = pieceFromChar(s[0])
		s = s[1:]
	}
	if len(s) < 2 {
		return NoMove, fmt.Errorf("malformed SAN %q", s)
	}
	to, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, err
	}
	hint := s[:len(s)-2]

	for _, m := range legal.Slice() {
		if m.To != to || m.promo() != promo {
			continue
		}
		if k, _ := pos.PieceAt(m.From); k != pt {
			continue
		}
		if !matchesHint(m.From, hint) {
			continue
		}
		return m, nil
	}
	return NoMove, fmt.Errorf("no legal move matches %q", s)
}

func matchesHint(from Square, hint string) bool {
	for i := 0; i < len(hint); i++ {
		switch ch := hint[i]; {
		case ch >= 'a' && ch <= 'h':
			if from.File() != int(ch-'a') {
				return false
			}
		case ch >= '1' && ch <= '8':
			if from.Rank() != int(ch-'1') {
				return false
			}
		}
	}
	return true
}
