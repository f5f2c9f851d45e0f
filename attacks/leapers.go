package attacks

const (
	FileA uint64 = 0x0101010101010101
	FileB uint64 = FileA << 1
	FileG uint64 = FileA << 6
	FileH uint64 = FileA << 7
	Rank1 uint64 = 0xFF
	Rank2 uint64 = Rank1 << 8
	Rank7 uint64 = Rank1 << 48
	Rank8 uint64 = Rank1 << 56
)

// Leaper attack sets, indexed by square. PawnAttacks is indexed by the
// color of the attacking pawn (0 white, 1 black).
var (
	KnightAttacks [64]uint64
	KingAttacks   [64]uint64
	PawnAttacks   [2][64]uint64
)

func init() {
	for sq := 0; sq < 64; sq++ {
		bb := uint64(1) << sq

		KnightAttacks[sq] = ((bb << 17) &^ FileA) |
			((bb << 15) &^ FileH) |
			((bb << 10) &^ (FileA | FileB)) |
			((bb << 6) &^ (FileG | FileH)) |
			((bb >> 17) &^ FileH) |
			((bb >> 15) &^ FileA) |
			((bb >> 10) &^ (FileG | FileH)) |
			((bb >> 6) &^ (FileA | FileB))

		KingAttacks[sq] = (bb << 8) | (bb >> 8) |
			((bb << 1) &^ FileA) | ((bb >> 1) &^ FileH) |
			((bb << 9) &^ FileA) | ((bb << 7) &^ FileH) |
			((bb >> 7) &^ FileA) | ((bb >> 9) &^ FileH)

		PawnAttacks[0][sq] = ((bb << 9) &^ FileA) | ((bb << 7) &^ FileH)
		PawnAttacks[1][sq] = ((bb >> 7) &^ FileA) | ((bb >> 9) &^ FileH)
	}
}
