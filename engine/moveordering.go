package engine

import (
	"magic-engine/board"
)

type scoredMove struct {
	move  board.Move
	score int32
}

// Most Valuable Victim - Least Valuable Aggressor; used to score & sort captures
var mvvLva = [6][6]int32{
	{14, 13, 12, 11, 10, 10}, // victim Pawn
	{24, 23, 22, 21, 20, 20}, // victim Knight
	{34, 33, 32, 31, 30, 30}, // victim Bishop
	{44, 43, 42, 41, 40, 40}, // victim Rook
	{54, 53, 52, 51, 50, 50}, // victim Queen
	{0, 0, 0, 0, 0, 0},       // victim King
}

/*
Move ordering offsets:
  - The TT/PV move first.
  - Promotions, then captures that do not lose material.
  - Killers, then losing captures, then castling.
  - The remaining quiets by counter move and history.
*/
const (
	pvOffset            int32 = 25000
	promotionOffset     int32 = 20000
	captureOffset       int32 = 15000
	killerOffset        int32 = 3000
	losingCaptureOffset int32 = 2600
	castleOffset        int32 = 2500
	counterOffset       int32 = 1000
)

func capturedType(p *board.Position, m board.Move) board.PieceType {
	if m.Flag() == board.FlagEnPassant {
		return board.Pawn
	}
	return p.PieceAt(m.To()).Type()
}

// scoreMoves fills buf with the moves of ml and their ordering scores.
func (s *Searcher) scoreMoves(p *board.Position, ml *board.MoveList, buf []scoredMove, ply int8, pvMove, prevMove board.Move) []scoredMove {
	side := p.SideToMove()
	buf = buf[:0]
	for _, m := range ml.Slice() {
		var score int32
		switch {
		case m == pvMove:
			score = pvOffset
		case m.IsPromotion():
			score = promotionOffset + int32(SeePieceValue[m.PromotionType()])
		case m.IsCapture():
			lva := mvvLva[capturedType(p, m)][p.PieceAt(m.From()).Type()]
			if see(p, m) >= 0 {
				score = captureOffset + lva
			} else {
				score = losingCaptureOffset + lva
			}
		default:
			switch s.killers.IsKiller(m, ply) {
			case 0:
				score = killerOffset + 200
			case 1:
				score = killerOffset
			default:
				if m.IsCastle() {
					score = castleOffset
				} else {
					score = s.history.Score(side, m)
					if prevMove != board.NoMove && s.counters[side][prevMove.From()][prevMove.To()] == m {
						score += counterOffset
					}
				}
			}
		}
		buf = append(buf, scoredMove{move: m, score: score})
	}
	return buf
}

// scoreCaptures orders quiescence moves by MVV-LVA with promotions first.
func scoreCaptures(p *board.Position, ml *board.MoveList, buf []scoredMove) []scoredMove {
	buf = buf[:0]
	for _, m := range ml.Slice() {
		var score int32
		if m.IsPromotion() {
			score = captureOffset + int32(SeePieceValue[m.PromotionType()])
		}
		if m.IsCapture() {
			score += mvvLva[capturedType(p, m)][p.PieceAt(m.From()).Type()]
		}
		buf = append(buf, scoredMove{move: m, score: score})
	}
	return buf
}

// Ordering the moves one at a time, at index given
func orderNextMove(currIndex int, moves []scoredMove) {
	bestIndex := currIndex
	bestScore := moves[bestIndex].score

	for index := bestIndex + 1; index < len(moves); index++ {
		if moves[index].score > bestScore {
			bestIndex = index
			bestScore = moves[index].score
		}
	}
	moves[currIndex], moves[bestIndex] = moves[bestIndex], moves[currIndex]
}
