package engine

import (
	"magic-engine/board"
)

var SeePieceValue = [7]int{
	board.Pawn:   100,
	board.Knight: 300,
	board.Bishop: 300,
	board.Rook:   500,
	board.Queen:  900,
	board.King:   5000,
}

// see returns the material balance of the capture sequence started by
// move on its destination square, both sides always recapturing with
// their least valuable attacker and free to stop. Sliders uncovered by a
// capture join the sequence.
func see(p *board.Position, move board.Move) int {
	var gain [32]int
	depth := 0

	from, to := move.From(), move.To()
	occ := p.AllOccupied()
	tables := p.Tables()

	if move.Flag() == board.FlagEnPassant {
		victim := to - 8
		if p.SideToMove() == board.Black {
			victim = to + 8
		}
		occ &^= uint64(1) << victim
		gain[0] = SeePieceValue[board.Pawn]
	} else if captured := p.PieceAt(to); captured != board.NoPiece {
		gain[0] = SeePieceValue[captured.Type()]
	}

	attackerValue := SeePieceValue[p.PieceAt(from).Type()]
	if pt := move.PromotionType(); pt != board.NoPieceType {
		gain[0] += SeePieceValue[pt] - SeePieceValue[board.Pawn]
		attackerValue = SeePieceValue[pt]
	}

	diag := p.PiecesOf(board.White, board.Bishop) | p.PiecesOf(board.Black, board.Bishop) |
		p.PiecesOf(board.White, board.Queen) | p.PiecesOf(board.Black, board.Queen)
	orth := p.PiecesOf(board.White, board.Rook) | p.PiecesOf(board.Black, board.Rook) |
		p.PiecesOf(board.White, board.Queen) | p.PiecesOf(board.Black, board.Queen)

	attadef := p.AttackersTo(to, occ) & occ
	fromBB := uint64(1) << from
	side := p.SideToMove()

	for {
		depth++
		gain[depth] = attackerValue - gain[depth-1]
		if depth == len(gain)-1 {
			break
		}

		occ &^= fromBB
		attadef &^= fromBB
		attadef |= (tables.BishopAttacks(int(to), occ)&diag | tables.RookAttacks(int(to), occ)&orth) & occ

		side = side.Other()
		var pt board.PieceType
		fromBB, pt = leastValuableAttacker(p, attadef&p.Occupied(side))
		if fromBB == 0 {
			break
		}
		attackerValue = SeePieceValue[pt]
	}

	for depth--; depth > 0; depth-- {
		gain[depth-1] = -Max(-gain[depth-1], gain[depth])
	}
	return gain[0]
}

func leastValuableAttacker(p *board.Position, attackers uint64) (uint64, board.PieceType) {
	if attackers == 0 {
		return 0, board.NoPieceType
	}
	for pt := board.Pawn; pt <= board.King; pt++ {
		var subset uint64
		for c := board.White; c <= board.Black; c++ {
			subset |= attackers & p.PiecesOf(c, pt)
		}
		if subset != 0 {
			return subset & -subset, pt
		}
	}
	return 0, board.NoPieceType
}
