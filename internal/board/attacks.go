package board

// KnightAttacks returns the squares a knight on sq attacks.
func KnightAttacks(sq Square) Bitboard {
	return LookupTables().Knight[sq]
}

// KingAttacks returns the squares a king on sq attacks.
func KingAttacks(sq Square) Bitboard {
	return LookupTables().King[sq]
}

// PawnAttacks returns the capture squares of a pawn of color c on sq.
func PawnAttacks(sq Square, c Color) Bitboard {
	return LookupTables().PawnAttacks[c][sq]
}

// rayAttacks walks one direction and stops at the first occupied square,
// which is included.
func rayAttacks(t *Tables, sq Square, d int, occ Bitboard) Bitboard {
	ray := t.Rays[d][sq]
	blockers := ray & occ
	if blockers == 0 {
		return ray
	}
	var first Square
	if d < dirSouth {
		first = blockers.LSB()
	} else {
		first = blockers.MSB()
	}
	return ray &^ t.Rays[d][first]
}

// BishopAttacks returns the diagonal attacks from sq given the occupancy.
func BishopAttacks(sq Square, occ Bitboard) Bitboard {
	t := LookupTables()
	return rayAttacks(t, sq, dirNorthEast, occ) | rayAttacks(t, sq, dirNorthWest, occ) |
		rayAttacks(t, sq, dirSouthEast, occ) | rayAttacks(t, sq, dirSouthWest, occ)
}

// RookAttacks returns the orthogonal attacks from sq given the occupancy.
func RookAttacks(sq Square, occ Bitboard) Bitboard {
	t := LookupTables()
	return rayAttacks(t, sq, dirNorth, occ) | rayAttacks(t, sq, dirSouth, occ) |
		rayAttacks(t, sq, dirEast, occ) | rayAttacks(t, sq, dirWest, occ)
}

// QueenAttacks is the union of bishop and rook attacks.
func QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return BishopAttacks(sq, occ) | RookAttacks(sq, occ)
}

// AttacksBy returns the squares a piece of kind pt and color c standing on sq
// attacks in this position. Sliders stop at the first occupied square of
// either color; squares holding own pieces are not filtered out here.
func (p *Position) AttacksBy(sq Square, pt PieceType, c Color) Bitboard {
	switch pt {
	case Pawn:
		return PawnAttacks(sq, c)
	case Knight:
		return KnightAttacks(sq)
	case Bishop:
		return BishopAttacks(sq, p.All)
	case Rook:
		return RookAttacks(sq, p.All)
	case Queen:
		return QueenAttacks(sq, p.All)
	case King:
		return KingAttacks(sq)
	}
	return Empty
}

// AttacksTo returns the pieces of color by that attack sq.
func (p *Position) AttacksTo(sq Square, by Color) Bitboard {
	if sq >= NoSquare {
		return Empty
	}
	pc := &p.Pieces[by]
	// A pawn of color by attacks sq exactly when a pawn of the other color
	// on sq would attack the pawn's square.
	attackers := PawnAttacks(sq, by.Other()) & pc[Pawn]
	attackers |= KnightAttacks(sq) & pc[Knight]
	attackers |= KingAttacks(sq) & pc[King]
	attackers |= BishopAttacks(sq, p.All) & (pc[Bishop] | pc[Queen])
	attackers |= RookAttacks(sq, p.All) & (pc[Rook] | pc[Queen])
	return attackers
}

// IsSquareAttacked reports whether any piece of color by attacks sq.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	return p.AttacksTo(sq, by) != 0
}
