package engine

import "math"

// LMR[d][m] is the late move reduction at depth d for the m-th move.
var LMR [MaxPly + 1][100]int8

func init() {
	InitLMRTable()
}

// InitLMRTable fills LMR with a logarithmic reduction that always leaves
// at least one ply of search below the reduced move.
func InitLMRTable() {
	for d := 1; d <= MaxPly; d++ {
		for m := 1; m < len(LMR[d]); m++ {
			r := int(0.75 + math.Log(float64(d))*math.Log(float64(m))/2.25)
			LMR[d][m] = int8(Clamp(r, 0, Max(d-2, 0)))
		}
	}
}
