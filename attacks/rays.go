package attacks

import "math/bits"

type direction struct{ dr, df int }

var (
	rookDirections   = [4]direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirections = [4]direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

func trace(sq int, occ uint64, dirs [4]direction) uint64 {
	var attacks uint64
	rank, file := sq/8, sq%8
	for _, d := range dirs {
		for r, f := rank+d.dr, file+d.df; r >= 0 && r < 8 && f >= 0 && f < 8; r, f = r+d.dr, f+d.df {
			s := uint64(1) << (r*8 + f)
			attacks |= s
			if occ&s != 0 {
				break
			}
		}
	}
	return attacks
}

// RookRays ray-traces rook attacks from sq. The first blocker in each
// direction is included.
func RookRays(sq int, occ uint64) uint64 {
	return trace(sq, occ, rookDirections)
}

// BishopRays ray-traces bishop attacks from sq.
func BishopRays(sq int, occ uint64) uint64 {
	return trace(sq, occ, bishopDirections)
}

// RookMask returns the squares whose occupancy can change a rook's attack
// set from sq. The last square of every ray is left out.
func RookMask(sq int) uint64 {
	var mask uint64
	rank, file := sq/8, sq%8
	for r := rank + 1; r <= 6; r++ {
		mask |= 1 << (r*8 + file)
	}
	for r := rank - 1; r >= 1; r-- {
		mask |= 1 << (r*8 + file)
	}
	for f := file + 1; f <= 6; f++ {
		mask |= 1 << (rank*8 + f)
	}
	for f := file - 1; f >= 1; f-- {
		mask |= 1 << (rank*8 + f)
	}
	return mask
}

// BishopMask returns the relevant blocker squares for a bishop on sq.
func BishopMask(sq int) uint64 {
	return BishopRays(sq, 0) &^ (Rank1 | Rank8 | FileA | FileH)
}

// OccupancyFromIndex spreads the low bits of index over the set bits of
// mask, lowest square first.
func OccupancyFromIndex(index int, mask uint64) uint64 {
	var occ uint64
	for i := 0; mask != 0; i++ {
		sq := bits.TrailingZeros64(mask)
		mask &= mask - 1
		if index&(1<<i) != 0 {
			occ |= 1 << sq
		}
	}
	return occ
}
