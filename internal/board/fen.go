package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN builds a position from FEN text. The two move counters may be
// omitted and default to 0 and 1.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return nil, fmt.Errorf("%w: want 4 to 6 fields, got %d", ErrInvalidFEN, len(fields))
	}

	p := &Position{}
	p.reset()

	if err := p.parsePlacement(fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		p.SideToMove = White
	case "b":
		p.SideToMove = Black
	default:
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			i := strings.IndexRune("KQkq", ch)
			if i < 0 {
				return nil, fmt.Errorf("%w: castling %q", ErrInvalidFEN, fields[2])
			}
			p.Castling |= 1 << i
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: en passant: %w", ErrInvalidFEN, err)
		}
		if sq.Rank() != 2 && sq.Rank() != 5 {
			return nil, fmt.Errorf("%w: en passant square %s", ErrInvalidFEN, sq)
		}
		p.EnPassant = sq
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: half-move clock %q", ErrInvalidFEN, fields[4])
		}
		p.HalfMoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: full-move number %q", ErrInvalidFEN, fields[5])
		}
		p.FullMoveNumber = n
	}

	p.updateOccupied()
	for c := White; c <= Black; c++ {
		if n := p.Pieces[c][King].PopCount(); n != 1 {
			return nil, fmt.Errorf("%w: %s has %d kings", ErrInvalidFEN, c, n)
		}
	}
	p.Hash = p.ComputeHash()
	return p, nil
}

func (p *Position) parsePlacement(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: want 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for i, row := range ranks {
		rank, file := 7-i, 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
			} else {
				pt, c, ok := pieceFromChar(ch)
				if !ok {
					return fmt.Errorf("%w: piece %q", ErrInvalidFEN, ch)
				}
				if file > 7 {
					return fmt.Errorf("%w: rank %d has more than 8 files", ErrInvalidFEN, rank+1)
				}
				p.Pieces[c][pt] = p.Pieces[c][pt].Set(NewSquare(file, rank))
				file++
			}
			if file > 8 {
				break
			}
		}
		if file != 8 {
			return fmt.Errorf("%w: rank %d does not cover 8 files", ErrInvalidFEN, rank+1)
		}
	}
	return nil
}

// SetFEN replaces the whole position, history included. On error the
// position is left as it was.
func (p *Position) SetFEN(fen string) error {
	np, err := ParseFEN(fen)
	if err != nil {
		return err
	}
	*p = *np
	return nil
}

// FEN serializes the position.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pt, c := p.PieceAt(NewSquare(file, rank))
			if pt == NoPieceType {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pieceChar(pt, c))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	side := "w"
	if p.SideToMove == Black {
		side = "b"
	}
	fmt.Fprintf(&sb, " %s %s %s %d %d", side, p.Castling, p.EnPassant, p.HalfMoveClock, p.FullMoveNumber)
	return sb.String()
}
