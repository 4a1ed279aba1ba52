package board

import "testing"

func mustFEN(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestFoolsMate(t *testing.T) {
	pos := mustFEN(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if !pos.IsCheck(White) {
		t.Error("white should be in check")
	}
	if !pos.IsCheckmate(White) {
		t.Error("IsCheckmate(White) = false, want true")
	}
	if pos.IsStalemate(White) {
		t.Error("a mated side is not stalemated")
	}
	if pos.IsCheckmate(Black) {
		t.Error("IsCheckmate(Black) = true, want false")
	}
	if !pos.IsGameOver() || pos.Outcome() != Checkmate {
		t.Errorf("Outcome() = %v, want checkmate", pos.Outcome())
	}
}

func TestFoolsMateByMoves(t *testing.T) {
	pos := NewPosition()
	for _, s := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		if !pos.MakeMove(ParseMove(s)) {
			t.Fatalf("MakeMove(%s) failed at %s", s, pos.FEN())
		}
	}
	if got, want := pos.FEN(), "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"; got != want {
		t.Errorf("FEN = %q, want %q", got, want)
	}
	if !pos.IsCheckmate(White) {
		t.Error("expected checkmate")
	}
}

func TestStalemate(t *testing.T) {
	pos := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if !pos.IsStalemate(Black) {
		t.Error("IsStalemate(Black) = false, want true")
	}
	if pos.IsCheckmate(Black) {
		t.Error("stalemate is not checkmate")
	}
	if pos.Outcome() != Stalemate {
		t.Errorf("Outcome() = %v, want stalemate", pos.Outcome())
	}
	// Queried for the side not on move, with the same board.
	white := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 w - - 0 1")
	if !white.IsStalemate(Black) {
		t.Error("IsStalemate(Black) with white to move = false, want true")
	}
	if white.SideToMove != White {
		t.Error("querying the other color must not change the side to move")
	}
}

func TestCastlingRules(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move Move
		want bool
	}{
		{"kingside open", "4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1", NewMove(E1, G1), true},
		{"queenside open", "4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1", NewMove(E1, C1), true},
		{"no right", "4k3/8/8/8/8/8/8/R3K2R w Q - 0 1", NewMove(E1, G1), false},
		{"in check", "4k3/8/8/8/8/8/4r3/R3K2R w KQ - 0 1", NewMove(E1, G1), false},
		{"transit attacked", "4k3/8/8/8/8/8/5r2/R3K2R w KQ - 0 1", NewMove(E1, G1), false},
		{"destination attacked", "4k3/8/8/8/8/8/6r1/R3K2R w KQ - 0 1", NewMove(E1, G1), false},
		{"blocked", "4k3/8/8/8/8/8/8/RN2K2R w KQ - 0 1", NewMove(E1, C1), false},
		{"b-file attacked is fine", "4k3/8/8/8/8/8/1r6/R3K2R w Q - 0 1", NewMove(E1, C1), true},
		{"rook missing", "4k3/8/8/8/8/8/8/4K2R w KQ - 0 1", NewMove(E1, C1), false},
		{"black kingside", "r3k2r/8/8/8/8/8/8/4K3 b kq - 0 1", NewMove(E8, G8), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustFEN(t, tc.fen)
			if got := pos.GenerateLegalMoves().Contains(tc.move); got != tc.want {
				t.Errorf("castle %s legal = %v, want %v", tc.move, got, tc.want)
			}
		})
	}
}

func TestCastlingMovesRook(t *testing.T) {
	pos := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if !pos.MakeMove(ParseMove("e1g1")) {
		t.Fatal("e1g1 rejected")
	}
	if pt, c := pos.PieceAt(F1); pt != Rook || c != White {
		t.Errorf("f1 holds %v %v, want white rook", c, pt)
	}
	if pos.Castling != BlackKingSide|BlackQueenSide {
		t.Errorf("castling = %s, want kq", pos.Castling)
	}
	if !pos.LastMove().Castle {
		t.Error("recorded move lacks the castle flag")
	}
	if !pos.MakeMove(ParseMove("e8c8")) {
		t.Fatal("e8c8 rejected")
	}
	if pt, _ := pos.PieceAt(D8); pt != Rook {
		t.Errorf("d8 holds %v, want rook", pt)
	}
	pos.UnmakeMove()
	pos.UnmakeMove()
	if got := pos.FEN(); got != "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1" {
		t.Errorf("FEN after undo = %q", got)
	}
}

func TestRookCaptureClearsRights(t *testing.T) {
	pos := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if !pos.MakeMove(ParseMove("a1a8")) {
		t.Fatal("a1a8 rejected")
	}
	if got := pos.Castling.String(); got != "Kk" {
		t.Errorf("castling = %s, want Kk", got)
	}
}

func TestEnPassant(t *testing.T) {
	pos := NewPosition()
	for _, s := range []string{"e2e4", "a7a6", "e4e5", "d7d5"} {
		if !pos.MakeMove(ParseMove(s)) {
			t.Fatalf("MakeMove(%s) failed", s)
		}
	}
	if pos.EnPassant != D6 {
		t.Fatalf("en passant square = %s, want d6", pos.EnPassant)
	}
	if !pos.MakeMove(ParseMove("e5d6")) {
		t.Fatal("e5d6 en passant rejected")
	}
	if !pos.LastMove().EnPassant {
		t.Error("recorded move lacks the en passant flag")
	}
	if pt, _ := pos.PieceAt(D5); pt != NoPieceType {
		t.Errorf("captured pawn still on d5: %v", pt)
	}
	if pos.HalfMoveClock != 0 {
		t.Errorf("half-move clock = %d, want 0", pos.HalfMoveClock)
	}
	pos.UnmakeMove()
	if pt, c := pos.PieceAt(D5); pt != Pawn || c != Black {
		t.Errorf("d5 holds %v %v after undo, want black pawn", c, pt)
	}
	if pos.EnPassant != D6 {
		t.Errorf("en passant square = %s after undo, want d6", pos.EnPassant)
	}
}

func TestPromotion(t *testing.T) {
	pos := mustFEN(t, "1r5k/P7/8/8/8/8/8/K7 w - - 0 1")
	moves := pos.GenerateLegalMoves()
	for _, pt := range []PieceType{Knight, Bishop, Rook, Queen} {
		if !moves.Contains(NewPromotion(A7, A8, pt)) {
			t.Errorf("missing push promotion to %v", pt)
		}
		if !moves.Contains(NewPromotion(A7, B8, pt)) {
			t.Errorf("missing capture promotion to %v", pt)
		}
	}
	if moves.Contains(NewMove(A7, A8)) {
		t.Error("a pawn reaching the last rank must promote")
	}
	if !pos.MakeMove(ParseMove("a7b8n")) {
		t.Fatal("a7b8n rejected")
	}
	if pt, _ := pos.PieceAt(B8); pt != Knight {
		t.Errorf("b8 holds %v, want knight", pt)
	}
	pos.UnmakeMove()
	if pt, c := pos.PieceAt(B8); pt != Rook || c != Black {
		t.Errorf("b8 holds %v %v after undo, want black rook", c, pt)
	}
	if pt, _ := pos.PieceAt(A7); pt != Pawn {
		t.Errorf("a7 holds %v after undo, want pawn", pt)
	}
}

func TestCounters(t *testing.T) {
	pos := NewPosition()
	pos.MakeMove(ParseMove("g1f3"))
	if pos.HalfMoveClock != 1 || pos.FullMoveNumber != 1 {
		t.Errorf("after g1f3: clock %d move %d, want 1 1", pos.HalfMoveClock, pos.FullMoveNumber)
	}
	pos.MakeMove(ParseMove("g8f6"))
	if pos.HalfMoveClock != 2 || pos.FullMoveNumber != 2 {
		t.Errorf("after g8f6: clock %d move %d, want 2 2", pos.HalfMoveClock, pos.FullMoveNumber)
	}
	pos.MakeMove(ParseMove("e2e4"))
	if pos.HalfMoveClock != 0 {
		t.Errorf("pawn move left clock at %d", pos.HalfMoveClock)
	}
}

// A half-move clock past 100 does not end the game.
func TestFiftyMoveCounterNotTerminal(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/8/8/8/8/4K2R w K - 150 120")
	if pos.IsGameOver() {
		t.Error("game over with legal moves available")
	}
}

func TestAttackQueries(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/3p4/8/1B6/8/R3K3 w - - 0 1")
	// The bishop's ray stops at d5 and does not continue to e6.
	bishop := pos.AttacksBy(B3, Bishop, White)
	if !bishop.IsSet(D5) || bishop.IsSet(E6) {
		t.Errorf("bishop attacks:\n%s", bishop)
	}
	// The rook's ray includes its own king's square but not beyond.
	rook := pos.AttacksBy(A1, Rook, White)
	if !rook.IsSet(E1) || rook.IsSet(F1) {
		t.Errorf("rook attacks:\n%s", rook)
	}
	if got := pos.AttacksTo(D5, White); got != SquareBB(B3) {
		t.Errorf("attackers of d5 = %v, want b3", got.Squares())
	}
	if !pos.IsSquareAttacked(E4, Black) {
		t.Error("the d5 pawn attacks e4")
	}
	if pos.IsSquareAttacked(D4, Black) {
		t.Error("a pawn does not attack the square in front of it")
	}
}

func TestInsufficientMaterial(t *testing.T) {
	if !mustFEN(t, "4k3/8/8/8/8/8/8/4KN2 w - - 0 1").IsInsufficientMaterial() {
		t.Error("K+N v K is insufficient")
	}
	if mustFEN(t, "4k3/8/8/8/8/8/8/4KR2 w - - 0 1").IsInsufficientMaterial() {
		t.Error("K+R v K is sufficient")
	}
}

func TestSANOfParsedMoves(t *testing.T) {
	tests := []struct {
		fen  string
		move string
		want string
	}{
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", "O-O-O"},
		{"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8g8", "O-O"},
		{"rnbqkbnr/pp1ppppp/8/2pP4/8/8/PPP1PPPP/RNBQKBNR w KQkq c6 0 2", "d5c6", "dxc6"},
		{"4k3/8/8/8/8/8/8/R3K3 w Q - 0 1", "a1a8", "Ra8+"},
	}
	for _, tt := range tests {
		t.Run(tt.move, func(t *testing.T) {
			pos := mustFEN(t, tt.fen)
			if got := ParseMove(tt.move).SAN(pos); got != tt.want {
				t.Errorf("SAN(%s) = %q, want %q", tt.move, got, tt.want)
			}
		})
	}
}
