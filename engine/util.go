package engine

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Min returns the smaller of x or y.
func Min[T constraints.Ordered](x, y T) T {
	if x < y {
		return x
	}
	return y
}

// Max returns the larger of x or y.
func Max[T constraints.Ordered](x, y T) T {
	if x > y {
		return x
	}
	return y
}

func Abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp restricts f to the inclusive range [low, high].
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int32) bool {
	return score > Checkmate || score < -Checkmate
}

// MateIn converts a mate score to signed moves to mate; 0 otherwise.
func MateIn(score int32) int {
	switch {
	case score > Checkmate:
		return int(MaxScore-score+1) / 2
	case score < -Checkmate:
		return -int(MaxScore+score+1) / 2
	}
	return 0
}

// FormatScore renders a score for UCI: "cp N" or "mate N".
func FormatScore(score int32) string {
	if IsMateScore(score) {
		return fmt.Sprintf("mate %d", MateIn(score))
	}
	return fmt.Sprintf("cp %d", score)
}
