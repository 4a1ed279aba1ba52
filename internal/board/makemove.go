package board

// rookCastleSquares returns the rook's origin and target for a castling
// king move landing on kingTo.
func rookCastleSquares(kingTo Square) (from, to Square) {
	if kingTo.File() == 6 {
		return kingTo + 1, kingTo - 1
	}
	return kingTo - 2, kingTo + 1
}

// rightsLost[sq] holds the castling rights cleared when a move touches sq.
var rightsLost = func() (r [64]CastlingRights) {
	r[E1] = WhiteKingSide | WhiteQueenSide
	r[H1] = WhiteKingSide
	r[A1] = WhiteQueenSide
	r[E8] = BlackKingSide | BlackQueenSide
	r[H8] = BlackKingSide
	r[A8] = BlackQueenSide
	return r
}()

// MakeMove plays m if it is legal here and reports whether it did. The
// castle and en passant flags are taken from the generated legal move, so
// a move parsed from text needs only from, to and promotion.
func (p *Position) MakeMove(m Move) bool {
	legal, ok := p.GenerateLegalMoves().Find(m)
	if !ok {
		return false
	}
	p.MakeMoveUnchecked(legal)
	return true
}

// MakeMoveUnchecked plays m without verifying legality and records it for
// UnmakeMove. Callers must pass a move taken from GenerateLegalMoves.
func (p *Position) MakeMoveUnchecked(m Move) {
	p.history = append(p.history, p.apply(m))
}

// UnmakeMove reverts the most recent move. With no history it does nothing.
func (p *Position) UnmakeMove() {
	n := len(p.history)
	if n == 0 {
		return
	}
	rec := p.history[n-1]
	p.history = p.history[:n-1]

	p.SideToMove = p.SideToMove.Other()
	us := p.SideToMove
	m := rec.Move

	placed := rec.Moved
	if m.IsPromotion() {
		placed = m.Promotion
	}
	p.Pieces[us][placed] = p.Pieces[us][placed].Clear(m.To)
	p.Pieces[us][rec.Moved] = p.Pieces[us][rec.Moved].Set(m.From)

	if rec.Captured != NoPieceType {
		them := us.Other()
		p.Pieces[them][rec.Captured] = p.Pieces[them][rec.Captured].Set(rec.CapturedSquare)
	}
	if m.Castle {
		rookFrom, rookTo := rookCastleSquares(m.To)
		p.Pieces[us][Rook] = p.Pieces[us][Rook].Clear(rookTo).Set(rookFrom)
	}

	p.EnPassant = rec.EnPassant
	p.Castling = rec.Castling
	p.HalfMoveClock = rec.HalfMoveClock
	p.Hash = rec.Hash
	if us == Black {
		p.FullMoveNumber--
	}
	p.updateOccupied()
}

// apply mutates the position by m and returns the record that reverses it.
// It does not touch the history stack.
func (p *Position) apply(m Move) UndoRecord {
	t := LookupTables()
	us, them := p.SideToMove, p.SideToMove.Other()
	moved := p.kindAt(us, m.From)

	// Derive the flags from the board so callers cannot get them wrong.
	m.Castle = moved == King && (int(m.To)-int(m.From) == 2 || int(m.From)-int(m.To) == 2)
	m.EnPassant = moved == Pawn && m.To == p.EnPassant && m.From.File() != m.To.File() &&
		!p.All.IsSet(m.To)
	if moved != Pawn || (m.To.Rank() != 0 && m.To.Rank() != 7) {
		m.Promotion = NoPieceType
	}

	rec := UndoRecord{
		Move:           m,
		Moved:          moved,
		Captured:       NoPieceType,
		CapturedSquare: NoSquare,
		EnPassant:      p.EnPassant,
		Castling:       p.Castling,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
	}
	h := p.Hash

	capSq := m.To
	if m.EnPassant {
		if us == White {
			capSq = m.To - 8
		} else {
			capSq = m.To + 8
		}
	}
	if victim := p.kindAt(them, capSq); victim != NoPieceType {
		rec.Captured, rec.CapturedSquare = victim, capSq
		p.Pieces[them][victim] = p.Pieces[them][victim].Clear(capSq)
		h ^= t.zobristPiece[them][victim][capSq]
	}

	placed := moved
	if m.IsPromotion() {
		placed = m.Promotion
	}
	p.Pieces[us][moved] = p.Pieces[us][moved].Clear(m.From)
	p.Pieces[us][placed] = p.Pieces[us][placed].Set(m.To)
	h ^= t.zobristPiece[us][moved][m.From] ^ t.zobristPiece[us][placed][m.To]

	if m.Castle {
		rookFrom, rookTo := rookCastleSquares(m.To)
		p.Pieces[us][Rook] = p.Pieces[us][Rook].Clear(rookFrom).Set(rookTo)
		h ^= t.zobristPiece[us][Rook][rookFrom] ^ t.zobristPiece[us][Rook][rookTo]
	}

	if p.EnPassant != NoSquare {
		h ^= t.zobristEP[p.EnPassant.File()]
	}
	p.EnPassant = NoSquare
	if moved == Pawn && (int(m.To)-int(m.From) == 16 || int(m.From)-int(m.To) == 16) {
		p.EnPassant = Square((int(m.From) + int(m.To)) / 2)
		h ^= t.zobristEP[p.EnPassant.File()]
	}

	h ^= t.zobristCastling[p.Castling]
	p.Castling &^= rightsLost[m.From] | rightsLost[m.To]
	h ^= t.zobristCastling[p.Castling]

	if moved == Pawn || rec.Captured != NoPieceType {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}
	p.SideToMove = them
	h ^= t.zobristSide
	p.Hash = h

	p.updateOccupied()
	return rec
}
