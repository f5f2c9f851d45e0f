package engine

import (
	"math/bits"
	"time"

	"magic-engine/board"
)

const (
	KnightPhase = 1
	BishopPhase = 1
	RookPhase   = 2
	QueenPhase  = 4
	TotalPhase  = 24
)

// TimeHandler turns the clock into a soft limit, checked between
// iterations, and a hard deadline, checked inside the search.
type TimeHandler struct {
	start        time.Time
	softDeadline time.Time
	hardDeadline time.Time
	softBudget   time.Duration
	limited      bool
	extended     bool
}

func (th *TimeHandler) StartTime(p *board.Position, limits Limits, overhead time.Duration) {
	th.start = time.Now()
	th.limited = false
	th.extended = false

	if limits.Infinite {
		return
	}

	if limits.MoveTime > 0 {
		moveTime := limits.MoveTime - overhead
		if moveTime < minMoveTime {
			moveTime = minMoveTime
		}
		th.set(moveTime, moveTime)
		return
	}

	rem, inc := limits.WTime, limits.WInc
	if p.SideToMove() == board.Black {
		rem, inc = limits.BTime, limits.BInc
	}
	if rem <= 0 && inc <= 0 {
		return
	}

	movesLeft := limits.MovesToGo
	if movesLeft <= 0 {
		// Estimate moves left from phase
		movesLeft = estimateMovesRemaining(GetPiecePhase(p)) // 20..45
	}

	hard := allocate(rem, inc, movesLeft, overhead)
	th.set(hard*6/10, hard)
}

// Engine-side safety knobs
const (
	minMoveTime   = 5 * time.Millisecond // never less than this
	maxFrac       = 0.7                  // never spend >70% of remaining time
	panicThresh   = time.Second
	panicFrac     = 0.90 // use 90% of inc in panic
	fallbackMoves = 40
)

func allocate(rem, inc time.Duration, movesLeft int, overhead time.Duration) time.Duration {
	var moveTime time.Duration
	if inc > 0 {
		if rem < panicThresh {
			// Panic: try to "bank" a little time
			moveTime = time.Duration(float64(inc) * panicFrac)
		} else {
			// Normal: spend a fraction of remaining + take (most of) the inc
			moveTime = rem/time.Duration(movesLeft) + inc
		}
	} else {
		moveTime = rem / fallbackMoves
	}

	// Apply overhead and clamps
	if moveTime < minMoveTime {
		moveTime = minMoveTime
	}
	if ceiling := time.Duration(float64(rem) * maxFrac); moveTime > ceiling {
		moveTime = ceiling
	}
	if moveTime > rem-overhead {
		moveTime = rem - overhead
	}
	if moveTime < minMoveTime {
		moveTime = minMoveTime
	} // re-check after ceiling
	return moveTime
}

func (th *TimeHandler) set(soft, hard time.Duration) {
	th.limited = true
	th.softBudget = soft
	th.softDeadline = th.start.Add(soft)
	th.hardDeadline = th.start.Add(hard)
}

// TimeStatus is true once the hard deadline has passed.
func (th *TimeHandler) TimeStatus() bool {
	return th.limited && time.Now().After(th.hardDeadline)
}

// SoftTimeExceeded is true when another iteration should not be started.
func (th *TimeHandler) SoftTimeExceeded() bool {
	return th.limited && time.Now().After(th.softDeadline)
}

// ExtendTime grants the soft limit half its budget again, once per
// search, bounded by the hard deadline.
func (th *TimeHandler) ExtendTime() {
	if !th.limited || th.extended {
		return
	}
	th.extended = true
	th.softDeadline = th.softDeadline.Add(th.softBudget / 2)
	if th.softDeadline.After(th.hardDeadline) {
		th.softDeadline = th.hardDeadline
	}
}

func (th *TimeHandler) Elapsed() time.Duration { return time.Since(th.start) }

func GetPiecePhase(p *board.Position) (phase int) {
	for c := board.White; c <= board.Black; c++ {
		phase += bits.OnesCount64(p.PiecesOf(c, board.Knight)) * KnightPhase
		phase += bits.OnesCount64(p.PiecesOf(c, board.Bishop)) * BishopPhase
		phase += bits.OnesCount64(p.PiecesOf(c, board.Rook)) * RookPhase
		phase += bits.OnesCount64(p.PiecesOf(c, board.Queen)) * QueenPhase
	}
	return Min(phase, TotalPhase)
}

func estimateMovesRemaining(phase int) int {
	// Linearly interpolate between 20 (endgame) and 45 (opening/midgame)
	return (phase*25)/TotalPhase + 20 // result ∈ [20, 45]
}
