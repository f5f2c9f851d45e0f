package engine

import "magic-engine/board"

type KillerStruct struct {
	KillerMoves [MaxPly + 1][2]board.Move
}

func (k *KillerStruct) InsertKiller(move board.Move, ply int8) {
	if move != k.KillerMoves[ply][0] {
		k.KillerMoves[ply][1] = k.KillerMoves[ply][0]
		k.KillerMoves[ply][0] = move
	}
}

// IsKiller reports which killer slot holds move: 0, 1, or -1 for none.
func (k *KillerStruct) IsKiller(move board.Move, ply int8) int {
	switch move {
	case board.NoMove:
		return -1
	case k.KillerMoves[ply][0]:
		return 0
	case k.KillerMoves[ply][1]:
		return 1
	}
	return -1
}

// Clear the killer moves table.
func (k *KillerStruct) ClearKillers() {
	for ply := range k.KillerMoves {
		k.KillerMoves[ply][0] = board.NoMove
		k.KillerMoves[ply][1] = board.NoMove
	}
}
