package attacks

import (
	"math/bits"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Slider selects which sliding piece a table serves.
type Slider uint8

const (
	Rook Slider = iota
	Bishop
)

func (s Slider) String() string {
	if s == Rook {
		return "rook"
	}
	return "bishop"
}

// Mask returns the blocker mask of the slider on sq.
func (s Slider) Mask(sq int) uint64 {
	if s == Rook {
		return RookMask(sq)
	}
	return BishopMask(sq)
}

// Rays ray-traces the slider's attacks from sq.
func (s Slider) Rays(sq int, occ uint64) uint64 {
	if s == Rook {
		return RookRays(sq, occ)
	}
	return BishopRays(sq, occ)
}

func (s Slider) constants() *[64]uint64 {
	if s == Rook {
		return &rookMagics
	}
	return &bishopMagics
}

// Magic is the perfect-hash entry for one square.
type Magic struct {
	Mask    uint64
	Magic   uint64
	Shift   uint8
	Attacks []uint64
}

func (m *Magic) index(occ uint64) uint64 {
	return ((occ & m.Mask) * m.Magic) >> m.Shift
}

// Tables holds the magic lookup data for both sliders. It is never
// modified after Build or Load returns.
type Tables struct {
	Rook   [64]Magic
	Bishop [64]Magic
}

func (t *Tables) RookAttacks(sq int, occ uint64) uint64 {
	m := &t.Rook[sq]
	return m.Attacks[m.index(occ)]
}

func (t *Tables) BishopAttacks(sq int, occ uint64) uint64 {
	m := &t.Bishop[sq]
	return m.Attacks[m.index(occ)]
}

func (t *Tables) QueenAttacks(sq int, occ uint64) uint64 {
	return t.RookAttacks(sq, occ) | t.BishopAttacks(sq, occ)
}

func (t *Tables) magics(s Slider) *[64]Magic {
	if s == Rook {
		return &t.Rook
	}
	return &t.Bishop
}

// Build constructs the tables from the precomputed constants. A constant
// that does not verify is replaced by a freshly searched one.
func Build() (*Tables, error) {
	t := &Tables{}
	var g errgroup.Group
	for _, s := range []Slider{Rook, Bishop} {
		s := s
		g.Go(func() error {
			return t.buildSlider(s)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tables) buildSlider(s Slider) error {
	consts := s.constants()
	table := t.magics(s)
	for sq := 0; sq < 64; sq++ {
		mask := s.Mask(sq)
		entry, ok := fill(s, sq, mask, consts[sq])
		if !ok {
			log.Warn().Str("slider", s.String()).Int("square", sq).Msg("magic-constant-rejected")
			magic, err := FindMagic(sq, s)
			if err != nil {
				return errors.Wrapf(err, "building %s table", s)
			}
			entry, _ = fill(s, sq, mask, magic)
		}
		table[sq] = entry
	}
	return nil
}

// fill enumerates every blocker subset of mask and places its attack set
// at the hashed slot. It reports false on a destructive collision.
func fill(s Slider, sq int, mask, magic uint64) (Magic, bool) {
	n := bits.OnesCount64(mask)
	m := Magic{
		Mask:    mask,
		Magic:   magic,
		Shift:   uint8(64 - n),
		Attacks: make([]uint64, 1<<n),
	}
	used := make([]bool, 1<<n)
	for i := 0; i < 1<<n; i++ {
		occ := OccupancyFromIndex(i, mask)
		att := s.Rays(sq, occ)
		idx := m.index(occ)
		if used[idx] && m.Attacks[idx] != att {
			return Magic{}, false
		}
		used[idx] = true
		m.Attacks[idx] = att
	}
	return m, true
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
	defaultMu     sync.Mutex
)

// Default returns the process-wide tables, building them on first use.
func Default() *Tables {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultOnce.Do(func() {
		if defaultTables != nil {
			return
		}
		t, err := Build()
		if err != nil {
			panic(errors.Wrap(err, "attack tables"))
		}
		defaultTables = t
	})
	return defaultTables
}

// SetDefault installs t as the process-wide tables. It must be called
// before positions are created to have any effect on them.
func SetDefault(t *Tables) {
	if t == nil {
		return
	}
	defaultMu.Lock()
	defaultTables = t
	defaultMu.Unlock()
}
