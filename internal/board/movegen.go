package board

// GenerateLegalMoves returns every legal move for the side to move.
func (p *Position) GenerateLegalMoves() *MoveList {
	pseudo := p.GeneratePseudoLegalMoves()
	legal := &MoveList{}
	for i := 0; i < pseudo.Len(); i++ {
		if m := pseudo.Get(i); p.isLegal(m) {
			legal.Add(m)
		}
	}
	return legal
}

// GenerateCaptures returns the legal moves that take a piece, en passant
// included.
func (p *Position) GenerateCaptures() *MoveList {
	all := p.GenerateLegalMoves()
	caps := &MoveList{}
	for i := 0; i < all.Len(); i++ {
		if m := all.Get(i); p.IsCapture(m) {
			caps.Add(m)
		}
	}
	return caps
}

// HasLegalMoves reports whether the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	pseudo := p.GeneratePseudoLegalMoves()
	for i := 0; i < pseudo.Len(); i++ {
		if p.isLegal(pseudo.Get(i)) {
			return true
		}
	}
	return false
}

// IsCapture reports whether m takes a piece in this position.
func (p *Position) IsCapture(m Move) bool {
	return m.EnPassant || p.Occupied[p.SideToMove.Other()].IsSet(m.To)
}

// GeneratePseudoLegalMoves returns moves that obey piece movement but may
// leave the mover's king in check.
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := &MoveList{}
	us := p.SideToMove
	p.generatePawnMoves(ml, us)
	for _, pt := range [...]PieceType{Knight, Bishop, Rook, Queen, King} {
		p.generatePieceMoves(ml, us, pt)
	}
	p.generateCastlingMoves(ml, us)
	return ml
}

// isLegal applies m to a scratch copy and checks the mover's king.
func (p *Position) isLegal(m Move) bool {
	scratch := *p
	scratch.history = nil
	us := p.SideToMove
	scratch.apply(m)
	return !scratch.IsSquareAttacked(scratch.KingSquare(us), us.Other())
}

func (p *Position) generatePawnMoves(ml *MoveList, us Color) {
	t := LookupTables()
	enemies := p.Occupied[us.Other()]
	startRank, lastRank := 1, 7
	if us == Black {
		startRank, lastRank = 6, 0
	}

	for pawns := p.Pieces[us][Pawn]; pawns != 0; {
		from := pawns.PopLSB()

		if push := t.PawnPush[us][from] &^ p.All; push != 0 {
			to := push.LSB()
			if to.Rank() == lastRank {
				addPromotions(ml, from, to)
			} else {
				ml.Add(NewMove(from, to))
				if from.Rank() == startRank {
					if double := t.PawnPush[us][to] &^ p.All; double != 0 {
						ml.Add(NewMove(from, double.LSB()))
					}
				}
			}
		}

		attacks := t.PawnAttacks[us][from]
		for caps := attacks & enemies; caps != 0; {
			to := caps.PopLSB()
			if to.Rank() == lastRank {
				addPromotions(ml, from, to)
			} else {
				ml.Add(NewMove(from, to))
			}
		}

		if p.EnPassant != NoSquare && attacks.IsSet(p.EnPassant) {
			m := NewMove(from, p.EnPassant)
			m.EnPassant = true
			ml.Add(m)
		}
	}
}

func addPromotions(ml *MoveList, from, to Square) {
	for pt := Knight; pt <= Queen; pt++ {
		ml.Add(NewPromotion(from, to, pt))
	}
}

// generatePieceMoves covers knights, sliders and the king's ordinary steps.
func (p *Position) generatePieceMoves(ml *MoveList, us Color, pt PieceType) {
	own := p.Occupied[us]
	for pieces := p.Pieces[us][pt]; pieces != 0; {
		from := pieces.PopLSB()
		for targets := p.AttacksBy(from, pt, us) &^ own; targets != 0; {
			ml.Add(NewMove(from, targets.PopLSB()))
		}
	}
}

// castlePath describes one castling option for one color.
type castlePath struct {
	king, rook Square
	kingTo     Square
	transit    Square
	between    Bitboard // squares strictly between king and rook
}

var castlePaths = [2][2]castlePath{
	White: {
		{king: E1, rook: H1, kingTo: G1, transit: F1, between: SquareBB(F1) | SquareBB(G1)},
		{king: E1, rook: A1, kingTo: C1, transit: D1, between: SquareBB(B1) | SquareBB(C1) | SquareBB(D1)},
	},
	Black: {
		{king: E8, rook: H8, kingTo: G8, transit: F8, between: SquareBB(F8) | SquareBB(G8)},
		{king: E8, rook: A8, kingTo: C8, transit: D8, between: SquareBB(B8) | SquareBB(C8) | SquareBB(D8)},
	},
}

func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	if p.Castling&(castleRight(us, true)|castleRight(us, false)) == 0 {
		return
	}
	them := us.Other()
	home := castlePaths[us][0].king
	if !p.Pieces[us][King].IsSet(home) || p.IsSquareAttacked(home, them) {
		return
	}
	for wing, path := range castlePaths[us] {
		if !p.Castling.Has(us, wing == 0) {
			continue
		}
		if !p.Pieces[us][Rook].IsSet(path.rook) || p.All&path.between != 0 {
			continue
		}
		if p.IsSquareAttacked(path.transit, them) || p.IsSquareAttacked(path.kingTo, them) {
			continue
		}
		m := NewMove(path.king, path.kingTo)
		m.Castle = true
		ml.Add(m)
	}
}
