package board

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func fenError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidFEN, format, args...)
}

// ParseFEN builds a position from a FEN string. The castling field accepts
// KQkq, X-FEN and Shredder file letters. On error no position is returned.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fenError("expected at least 4 fields, got %d", len(fields))
	}
	p := newEmptyPosition()

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fenError("expected 8 ranks, got %d", len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range row {
			switch {
			case ch >= '1' && ch <= '8':
				file += int(ch - '0')
			default:
				idx := strings.IndexRune(pieceChars, ch)
				if idx < 0 {
					return nil, fenError("unknown piece %q", ch)
				}
				if file > 7 {
					return nil, fenError("rank %d overflows", rank+1)
				}
				pc := Piece(idx)
				if pc.Type() == Pawn && (rank == 0 || rank == 7) {
					return nil, fenError("pawn on back rank")
				}
				if pc.Type() == King && p.kingSq[pc.Color()] != NoSquare {
					return nil, fenError("more than one %s king", pc.Color())
				}
				p.addPiece(pc, NewSquare(file, rank))
				file++
			}
		}
		if file != 8 {
			return nil, fenError("rank %d has %d files", rank+1, file)
		}
	}
	if p.kingSq[White] == NoSquare || p.kingSq[Black] == NoSquare {
		return nil, fenError("missing king")
	}

	switch fields[1] {
	case "w":
		p.side = White
	case "b":
		p.side = Black
	default:
		return nil, fenError("side to move %q", fields[1])
	}

	if err := p.parseCastling(fields[2]); err != nil {
		return nil, err
	}

	if fields[3] != "-" {
		sq, err := parseSquare(fields[3])
		if err != nil {
			return nil, fenError("en passant square %q", fields[3])
		}
		wantRank := 5
		if p.side == Black {
			wantRank = 2
		}
		if sq.Rank() != wantRank {
			return nil, fenError("en passant square %s on wrong rank", sq)
		}
		p.epSquare = sq
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fenError("halfmove clock %q", fields[4])
		}
		p.halfmove = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fenError("fullmove number %q", fields[5])
		}
		p.fullmove = n
	}

	if p.IsSquareAttacked(p.kingSq[p.side.Other()], p.side) {
		return nil, fenError("side not to move is in check")
	}
	p.hash = p.ComputeZobrist()
	return p, nil
}

func (p *Position) parseCastling(field string) error {
	if field == "-" {
		return nil
	}
	for _, ch := range field {
		var c Color
		var upper rune
		switch {
		case ch >= 'A' && ch <= 'Z':
			c, upper = White, ch
		case ch >= 'a' && ch <= 'z':
			c, upper = Black, ch-'a'+'A'
		default:
			return fenError("castling field %q", field)
		}
		backRank := 0
		if c == Black {
			backRank = 7
		}
		king := p.kingSq[c]
		if king.Rank() != backRank {
			continue
		}
		rook := NewPiece(c, Rook)

		rookSq := NoSquare
		switch upper {
		case 'K':
			for f := 7; f > king.File(); f-- {
				if sq := NewSquare(f, backRank); p.squares[sq] == rook {
					rookSq = sq
					break
				}
			}
		case 'Q':
			for f := 0; f < king.File(); f++ {
				if sq := NewSquare(f, backRank); p.squares[sq] == rook {
					rookSq = sq
					break
				}
			}
		default:
			if upper < 'A' || upper > 'H' {
				return fenError("castling field %q", field)
			}
			sq := NewSquare(int(upper-'A'), backRank)
			if p.squares[sq] == rook {
				rookSq = sq
			}
			p.chess960 = true
		}
		if rookSq == NoSquare || rookSq == king {
			continue
		}
		i := castleIndex(c, rookSq.File() > king.File())
		p.castling |= 1 << i
		p.rookFrom[i] = rookSq
	}
	for i, sq := range p.rookFrom {
		if sq == NoSquare {
			continue
		}
		standard := [4]Square{A1, H1, A8, H8}
		if sq != standard[i] || p.kingSq[i/2].File() != 4 {
			p.chess960 = true
		}
	}
	return nil
}

func parseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, errors.Errorf("bad square %q", s)
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}

// ToFEN serializes the position. Chess960 positions write Shredder file
// letters for castling.
func (p *Position) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.squares[NewSquare(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(pc.String())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(p.side.String())
	sb.WriteByte(' ')
	sb.WriteString(p.castlingString())
	sb.WriteByte(' ')
	sb.WriteString(p.epSquare.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.halfmove))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fullmove))
	return sb.String()
}

func (p *Position) castlingString() string {
	if p.castling == NoCastling {
		return "-"
	}
	var sb strings.Builder
	order := [4]int{WhiteKingsideRook, WhiteQueensideRook, BlackKingsideRook, BlackQueensideRook}
	for _, i := range order {
		if p.castling&(1<<i) == 0 {
			continue
		}
		var ch byte
		if p.chess960 {
			ch = byte('A' + p.rookFrom[i].File())
		} else if i%2 == 1 {
			ch = 'K'
		} else {
			ch = 'Q'
		}
		if i >= BlackQueensideRook {
			ch += 'a' - 'A'
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}
