package engine

import (
	"unsafe"

	"magic-engine/board"
)

const (
	// Flags. An empty slot carries NoFlag.
	NoFlag int8 = iota
	AlphaFlag
	BetaFlag
	ExactFlag
)

type TTEntry struct {
	Hash  uint64
	Move  board.Move
	Score int16
	Depth int8
	Flag  int8
}

// TransTable is a direct-mapped table indexed by the low bits of the key.
type TransTable struct {
	entries []TTEntry
	mask    uint64
}

func NewTransTable(megabytes int) *TransTable {
	tt := &TransTable{}
	tt.Resize(megabytes)
	return tt
}

func roundPowerOfTwo(size uint64) uint64 {
	x := uint64(1)
	for (x << 1) <= size {
		x <<= 1
	}
	return x
}

// Resize reallocates the table, dropping every entry.
func (tt *TransTable) Resize(megabytes int) {
	if megabytes < 1 {
		megabytes = 1
	}
	entrySize := uint64(unsafe.Sizeof(TTEntry{}))
	count := roundPowerOfTwo(uint64(megabytes) * 1024 * 1024 / entrySize)
	tt.entries = make([]TTEntry, count)
	tt.mask = count - 1
}

func (tt *TransTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
}

func (tt *TransTable) Len() int { return len(tt.entries) }

// Probe looks up hash. The score is usable only when the stored depth
// covers depth and the bound fits the window: exact entries return their
// score, lower bounds return beta when score >= beta, upper bounds return
// alpha when score <= alpha. The stored move is returned on any key match.
func (tt *TransTable) Probe(hash uint64, depth, ply int8, alpha, beta int32) (usable bool, score int32, move board.Move) {
	e := &tt.entries[hash&tt.mask]
	if e.Flag == NoFlag || e.Hash != hash {
		return false, 0, board.NoMove
	}
	move = e.Move
	if e.Depth < depth {
		return false, 0, move
	}
	norm := int32(e.Score)
	if norm > Checkmate {
		norm -= int32(ply)
	} else if norm < -Checkmate {
		norm += int32(ply)
	}
	switch e.Flag {
	case ExactFlag:
		return true, norm, move
	case BetaFlag:
		if norm >= beta {
			return true, beta, move
		}
	case AlphaFlag:
		if norm <= alpha {
			return true, alpha, move
		}
	}
	return false, 0, move
}

// ProbeMove returns the stored move for hash, if any.
func (tt *TransTable) ProbeMove(hash uint64) board.Move {
	e := &tt.entries[hash&tt.mask]
	if e.Flag == NoFlag || e.Hash != hash {
		return board.NoMove
	}
	return e.Move
}

// Store writes an entry when the slot is empty or depth is at least the
// stored depth. Mate scores are stored relative to the node, not the root.
func (tt *TransTable) Store(hash uint64, depth, ply int8, score int32, move board.Move, flag int8) {
	e := &tt.entries[hash&tt.mask]
	if e.Flag != NoFlag && depth < e.Depth {
		return
	}
	if score > Checkmate {
		score += int32(ply)
	} else if score < -Checkmate {
		score -= int32(ply)
	}
	*e = TTEntry{Hash: hash, Move: move, Score: int16(score), Depth: depth, Flag: flag}
}

// Hashfull reports the permille of used slots among the first thousand.
func (tt *TransTable) Hashfull() int {
	n := 1000
	if len(tt.entries) < n {
		n = len(tt.entries)
	}
	used := 0
	for i := 0; i < n; i++ {
		if tt.entries[i].Flag != NoFlag {
			used++
		}
	}
	return used * 1000 / n
}
