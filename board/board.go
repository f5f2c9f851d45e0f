package board

import (
	"math/bits"

	"magic-engine/attacks"
)

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "w"
	}
	return "b"
}

type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

// Piece is color*6 + type.
type Piece uint8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
	NoPiece
)

func NewPiece(c Color, pt PieceType) Piece { return Piece(uint8(c)*6 + uint8(pt)) }

func (p Piece) Type() PieceType {
	if p == NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

func (p Piece) Color() Color { return Color(p / 6) }

const pieceChars = "PNBRQKpnbrqk"

func (p Piece) String() string {
	if p >= NoPiece {
		return "."
	}
	return pieceChars[p : p+1]
}

type Square int

const NoSquare Square = -1

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
)

const (
	A8 Square = iota + 56
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

func NewSquare(file, rank int) Square { return Square(rank*8 + file) }

func (s Square) File() int { return int(s) & 7 }
func (s Square) Rank() int { return int(s) >> 3 }

func (s Square) String() string {
	if s < 0 || s > 63 {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// CastlingRights is a bitmask; bit i also indexes the rook tables.
type CastlingRights uint8

const (
	WhiteQueenside CastlingRights = 1 << iota
	WhiteKingside
	BlackQueenside
	BlackKingside

	NoCastling  CastlingRights = 0
	AllCastling CastlingRights = 15
)

// Indexes into Position.rookFrom / rookTo.
const (
	WhiteQueensideRook = iota
	WhiteKingsideRook
	BlackQueensideRook
	BlackKingsideRook
)

// castleIndex returns the rook-table index for color c and side.
func castleIndex(c Color, kingside bool) int {
	i := int(c) * 2
	if kingside {
		i++
	}
	return i
}

// Position is the mutable game state. Copying the struct duplicates the
// position; the attack tables are shared.
type Position struct {
	pieces   [12]uint64
	occupied [2]uint64
	all      uint64
	squares  [64]Piece

	side     Color
	castling CastlingRights
	epSquare Square
	halfmove int
	fullmove int
	kingSq   [2]Square
	rookFrom [4]Square
	rookTo   [4]Square
	chess960 bool
	hash     uint64

	tables *attacks.Tables
}

func newEmptyPosition() *Position {
	p := &Position{
		epSquare: NoSquare,
		fullmove: 1,
		kingSq:   [2]Square{NoSquare, NoSquare},
		rookFrom: [4]Square{NoSquare, NoSquare, NoSquare, NoSquare},
		rookTo:   [4]Square{D1, F1, D8, F8},
		tables:   attacks.Default(),
	}
	for i := range p.squares {
		p.squares[i] = NoPiece
	}
	return p
}

func (p *Position) SideToMove() Color              { return p.side }
func (p *Position) CastlingRights() CastlingRights { return p.castling }
func (p *Position) EnPassantSquare() Square        { return p.epSquare }
func (p *Position) HalfmoveClock() int             { return p.halfmove }
func (p *Position) FullmoveNumber() int            { return p.fullmove }
func (p *Position) Hash() uint64                   { return p.hash }
func (p *Position) KingSquare(c Color) Square      { return p.kingSq[c] }
func (p *Position) Chess960() bool                 { return p.chess960 }
func (p *Position) SetChess960(on bool)            { p.chess960 = on }
func (p *Position) Tables() *attacks.Tables        { return p.tables }

// RookOrigin returns the recorded origin of the castling rook for the
// given right index, or NoSquare once the right is gone.
func (p *Position) RookOrigin(i int) Square { return p.rookFrom[i] }

func (p *Position) PieceAt(sq Square) Piece { return p.squares[sq] }

func (p *Position) Pieces(pc Piece) uint64 { return p.pieces[pc] }

func (p *Position) PiecesOf(c Color, pt PieceType) uint64 { return p.pieces[NewPiece(c, pt)] }

func (p *Position) Occupied(c Color) uint64 { return p.occupied[c] }

func (p *Position) AllOccupied() uint64 { return p.all }

// NonPawnMaterial reports whether c has a knight, bishop, rook or queen.
func (p *Position) NonPawnMaterial(c Color) bool {
	return p.occupied[c]&^(p.PiecesOf(c, Pawn)|p.PiecesOf(c, King)) != 0
}

func (p *Position) addPiece(pc Piece, sq Square) {
	bb := uint64(1) << sq
	p.pieces[pc] |= bb
	p.occupied[pc.Color()] |= bb
	p.all |= bb
	p.squares[sq] = pc
	if pc.Type() == King {
		p.kingSq[pc.Color()] = sq
	}
}

func (p *Position) removePiece(pc Piece, sq Square) {
	bb := uint64(1) << sq
	p.pieces[pc] &^= bb
	p.occupied[pc.Color()] &^= bb
	p.all &^= bb
	p.squares[sq] = NoPiece
}

// Validate checks the structural invariants of the position.
func (p *Position) Validate() bool {
	var union [2]uint64
	var seen uint64
	for pc := WhitePawn; pc < NoPiece; pc++ {
		bb := p.pieces[pc]
		if bb&seen != 0 {
			return false
		}
		seen |= bb
		union[pc.Color()] |= bb
		for b := bb; b != 0; b &= b - 1 {
			if p.squares[bits.TrailingZeros64(b)] != pc {
				return false
			}
		}
	}
	if union != p.occupied || union[White]|union[Black] != p.all {
		return false
	}
	for sq := 0; sq < 64; sq++ {
		if p.squares[sq] == NoPiece && p.all&(uint64(1)<<sq) != 0 {
			return false
		}
	}
	for c := White; c <= Black; c++ {
		kings := p.pieces[NewPiece(c, King)]
		if bits.OnesCount64(kings) != 1 || Square(bits.TrailingZeros64(kings)) != p.kingSq[c] {
			return false
		}
	}
	return p.hash == p.ComputeZobrist()
}

func popLSB(bb *uint64) Square {
	sq := bits.TrailingZeros64(*bb)
	*bb &= *bb - 1
	return Square(sq)
}
