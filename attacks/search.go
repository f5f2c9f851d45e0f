package attacks

import (
	"math"
	"math/bits"

	"github.com/pkg/errors"
	"lukechampine.com/frand"
)

// MaxMagicTries bounds the random search for a single square.
const MaxMagicTries = 100_000_000

var ErrMagicNotFound = errors.New("no magic found")

func sparseRandom() uint64 {
	return frand.Uint64n(math.MaxUint64) & frand.Uint64n(math.MaxUint64) & frand.Uint64n(math.MaxUint64)
}

// FindMagic searches for a multiplier that hashes every blocker subset of
// the slider's mask on sq without destructive collisions.
func FindMagic(sq int, s Slider) (uint64, error) {
	mask := s.Mask(sq)
	n := bits.OnesCount64(mask)
	size := 1 << n
	occs := make([]uint64, size)
	refs := make([]uint64, size)
	for i := range occs {
		occs[i] = OccupancyFromIndex(i, mask)
		refs[i] = s.Rays(sq, occs[i])
	}

	used := make([]uint64, size)
	epoch := make([]int, size)
	shift := uint(64 - n)
	for try := 1; try <= MaxMagicTries; try++ {
		magic := sparseRandom()
		// Weak candidates leave the top byte of the product nearly empty.
		if bits.OnesCount64((mask*magic)&0xFF00000000000000) < 6 {
			continue
		}
		ok := true
		for i := 0; i < size; i++ {
			idx := (occs[i] * magic) >> shift
			if epoch[idx] != try {
				epoch[idx] = try
				used[idx] = refs[i]
			} else if used[idx] != refs[i] {
				ok = false
				break
			}
		}
		if ok {
			return magic, nil
		}
	}
	return 0, errors.Wrapf(ErrMagicNotFound, "%s on square %d", s, sq)
}

// Verify checks every square's lookup against ray tracing for the empty
// board, the full mask and samples random occupancies.
func (t *Tables) Verify(samples int) error {
	for _, s := range []Slider{Rook, Bishop} {
		table := t.magics(s)
		for sq := 0; sq < 64; sq++ {
			m := &table[sq]
			if m.Mask != s.Mask(sq) {
				return errors.Errorf("%s square %d: mask mismatch", s, sq)
			}
			if len(m.Attacks) != 1<<(64-int(m.Shift)) {
				return errors.Errorf("%s square %d: table size %d", s, sq, len(m.Attacks))
			}
			check := func(occ uint64) error {
				if got, want := m.Attacks[m.index(occ)], s.Rays(sq, occ); got != want {
					return errors.Errorf("%s square %d occupancy %#x: got %#x want %#x", s, sq, occ, got, want)
				}
				return nil
			}
			if err := check(0); err != nil {
				return err
			}
			if err := check(m.Mask); err != nil {
				return err
			}
			for i := 0; i < samples; i++ {
				if err := check(frand.Uint64n(math.MaxUint64)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
