package board

import (
	"math/bits"
	"math/rand"
)

const zobristSeed = 0xC0DE

// ZobristKeys holds one random key per hashed feature.
type ZobristKeys struct {
	Pieces     [12][64]uint64
	Castling   [16]uint64
	EnPassant  [8]uint64
	SideToMove uint64
}

// Keys is seeded once with a fixed seed so hashes are reproducible across
// runs.
var Keys ZobristKeys

func init() {
	r := rand.New(rand.NewSource(zobristSeed))
	for pc := 0; pc < 12; pc++ {
		for sq := 0; sq < 64; sq++ {
			Keys.Pieces[pc][sq] = r.Uint64()
		}
	}
	// Castling keys are per right; a rights mask hashes as the XOR of its bits.
	var single [4]uint64
	for i := range single {
		single[i] = r.Uint64()
	}
	for mask := 0; mask < 16; mask++ {
		var k uint64
		for i := 0; i < 4; i++ {
			if mask&(1<<i) != 0 {
				k ^= single[i]
			}
		}
		Keys.Castling[mask] = k
	}
	for f := 0; f < 8; f++ {
		Keys.EnPassant[f] = r.Uint64()
	}
	Keys.SideToMove = r.Uint64()
}

// ComputeZobrist recomputes the hash of the position from scratch.
func (p *Position) ComputeZobrist() uint64 {
	var h uint64
	for pc := WhitePawn; pc < NoPiece; pc++ {
		for bb := p.pieces[pc]; bb != 0; bb &= bb - 1 {
			h ^= Keys.Pieces[pc][bits.TrailingZeros64(bb)]
		}
	}
	h ^= Keys.Castling[p.castling]
	if p.epSquare != NoSquare {
		h ^= Keys.EnPassant[p.epSquare.File()]
	}
	if p.side == Black {
		h ^= Keys.SideToMove
	}
	return h
}
