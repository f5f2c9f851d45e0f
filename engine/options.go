package engine

import (
	"time"

	"magic-engine/board"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	MaxScore  int32 = 32500
	Checkmate int32 = 20000
	DrawScore int32 = 0

	// Static evaluations are clamped to this so they never read as mates.
	MaxEval int32 = 10000

	MaxPly = 100
)

// Evaluator scores a position in centipawns from the side to move's point
// of view. It must be deterministic.
type Evaluator interface {
	Evaluate(p *board.Position) int
}

// Options are the tunable knobs of a Searcher. The Searcher copies them at
// construction.
type Options struct {
	HashMB   int
	Contempt int32

	FutilityMargins        [8]int32
	RFPMargins             [8]int32
	RazoringMargins        [4]int32
	LateMovePruningMargins [9]int

	NullMoveMinDepth     int8
	LMRDepthLimit        int8
	LMRMoveLimit         int
	AspirationWindow     int32
	MaxAspirationRetries int
	DeltaMargin          int32
	QuiescenceSeeMargin  int

	MoveOverhead time.Duration

	// OnInfo, when set, receives one record per completed iteration.
	OnInfo func(Info)
}

func DefaultOptions() Options {
	return Options{
		HashMB:                 64,
		Contempt:               50,
		FutilityMargins:        [8]int32{0, 120, 220, 320, 420, 520, 620, 720},
		RFPMargins:             [8]int32{0, 100, 200, 300, 400, 500, 600, 700},
		RazoringMargins:        [4]int32{0, 125, 225, 325},
		LateMovePruningMargins: [9]int{0, 3, 5, 9, 14, 20, 27, 35, 44},
		NullMoveMinDepth:       2,
		LMRDepthLimit:          3,
		LMRMoveLimit:           2,
		AspirationWindow:       35,
		MaxAspirationRetries:   4,
		DeltaMargin:            200,
		QuiescenceSeeMargin:    0,
		MoveOverhead:           30 * time.Millisecond,
	}
}

// Limits bound one search. Zero values mean "no limit" except that a
// search with no limit at all runs to MaxPly or until stopped.
type Limits struct {
	Depth     int
	Nodes     uint64
	MoveTime  time.Duration
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
	Infinite  bool
}

// Result is the outcome of a search. Move is board.NoMove when the root
// has no legal move.
type Result struct {
	Move     board.Move
	Score    int32
	Depth    int
	SelDepth int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	// MateIn is the signed number of moves to mate, 0 without a forced mate.
	MateIn int
}

// Info describes one completed iteration.
type Info struct {
	Depth    int
	SelDepth int
	Score    int32
	MateIn   int
	Nodes    uint64
	NPS      uint64
	Time     time.Duration
	Hashfull int
	PV       []board.Move
}
