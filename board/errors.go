package board

import "github.com/pkg/errors"

var (
	ErrInvalidFEN  = errors.New("invalid FEN")
	ErrInvalidMove = errors.New("invalid move string")
	ErrIllegalMove = errors.New("illegal move")
)
