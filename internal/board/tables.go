package board

import "sync"

// Ray directions. The first four step toward higher square indexes.
const (
	dirNorth = iota
	dirEast
	dirNorthEast
	dirNorthWest
	dirSouth
	dirWest
	dirSouthEast
	dirSouthWest
	numDirs
)

// Tables holds the precomputed masks and hash keys shared by every position.
// It is built once and never mutated afterwards.
type Tables struct {
	Knight [64]Bitboard
	King   [64]Bitboard
	// PawnAttacks[c][sq] is the capture set of a pawn of color c on sq.
	PawnAttacks [2][64]Bitboard
	// PawnPush[c][sq] is the single-push target of a pawn of color c on sq.
	PawnPush [2][64]Bitboard
	// Rays[d][sq] is every square from sq in direction d, sq excluded.
	Rays [numDirs][64]Bitboard

	zobristPiece    [2][6][64]uint64
	zobristEP       [8]uint64
	zobristCastling [16]uint64
	zobristSide     uint64
}

// LookupTables returns the process-wide tables, building them on first use.
var LookupTables = sync.OnceValue(buildTables)

func buildTables() *Tables {
	t := &Tables{}
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		t.Knight[sq] = (bb<<17)&NotFileA | (bb<<15)&NotFileH |
			(bb>>17)&NotFileH | (bb>>15)&NotFileA |
			(bb<<10)&NotFileAB | (bb<<6)&NotFileGH |
			(bb>>10)&NotFileGH | (bb>>6)&NotFileAB

		t.King[sq] = bb.North() | bb.South() | bb.East() | bb.West() |
			bb.NorthEast() | bb.NorthWest() | bb.SouthEast() | bb.SouthWest()

		t.PawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		t.PawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()
		t.PawnPush[White][sq] = bb.North()
		t.PawnPush[Black][sq] = bb.South()

		for d := 0; d < numDirs; d++ {
			t.Rays[d][sq] = walkRay(sq, d)
		}
	}
	t.initZobrist()
	return t
}

// walkRay steps from sq in direction d until it falls off the board.
func walkRay(sq Square, d int) Bitboard {
	step := [numDirs]func(Bitboard) Bitboard{
		dirNorth:     Bitboard.North,
		dirEast:      Bitboard.East,
		dirNorthEast: Bitboard.NorthEast,
		dirNorthWest: Bitboard.NorthWest,
		dirSouth:     Bitboard.South,
		dirWest:      Bitboard.West,
		dirSouthEast: Bitboard.SouthEast,
		dirSouthWest: Bitboard.SouthWest,
	}[d]
	var ray Bitboard
	for bb := step(SquareBB(sq)); bb != 0; bb = step(bb) {
		ray |= bb
	}
	return ray
}

// xorshift64* with a fixed seed, so keys are identical across runs.
type prng struct {
	state uint64
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func (t *Tables) initZobrist() {
	rng := &prng{state: 0x5171CE4B0A2D9E37}
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				t.zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}
	for f := range t.zobristEP {
		t.zobristEP[f] = rng.next()
	}
	for i := range t.zobristCastling {
		t.zobristCastling[i] = rng.next()
	}
	t.zobristSide = rng.next()
}
