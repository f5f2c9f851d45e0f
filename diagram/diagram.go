// Package diagram renders positions as SVG board diagrams.
package diagram

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"magic-engine/board"
)

const (
	squareSize = 45
	margin     = 20
	boardSize  = 8 * squareSize
)

var (
	lightStyle  = "fill:#f0d9b5"
	darkStyle   = "fill:#b58863"
	whiteStyle  = "font-family:sans-serif;font-size:28px;font-weight:bold;text-anchor:middle;fill:#ffffff;stroke:#000000;stroke-width:1"
	blackStyle  = "font-family:sans-serif;font-size:28px;font-weight:bold;text-anchor:middle;fill:#000000"
	coordStyle  = "font-family:sans-serif;font-size:12px;text-anchor:middle;fill:#333333"
	arrowStyle  = "stroke:#15781b;stroke-width:6;stroke-opacity:0.7;stroke-linecap:round"
	targetStyle = "fill:#15781b;fill-opacity:0.7"
)

// Write renders p with White at the bottom. A highlight other than
// board.NoMove is drawn as an arrow from its origin to its destination.
func Write(w io.Writer, p *board.Position, highlight board.Move) error {
	canvas := svg.New(w)
	size := boardSize + 2*margin
	canvas.Start(size, size)
	canvas.Title(p.ToFEN())

	for sq := board.Square(0); sq < 64; sq++ {
		x, y := origin(sq)
		style := lightStyle
		if (sq.File()+sq.Rank())%2 == 0 {
			style = darkStyle
		}
		canvas.Rect(x, y, squareSize, squareSize, style)

		pc := p.PieceAt(sq)
		if pc == board.NoPiece {
			continue
		}
		style = whiteStyle
		if pc.Color() == board.Black {
			style = blackStyle
		}
		canvas.Text(x+squareSize/2, y+squareSize*2/3+2, pc.String(), style)
	}

	for i := 0; i < 8; i++ {
		file := string(rune('a' + i))
		rank := fmt.Sprint(i + 1)
		canvas.Text(margin+i*squareSize+squareSize/2, size-margin/3, file, coordStyle)
		canvas.Text(margin/2, margin+(7-i)*squareSize+squareSize/2+4, rank, coordStyle)
	}

	if highlight != board.NoMove {
		fx, fy := center(highlight.From())
		tx, ty := center(highlight.To())
		canvas.Line(fx, fy, tx, ty, arrowStyle)
		canvas.Circle(tx, ty, squareSize/6, targetStyle)
	}

	canvas.End()
	return nil
}

// origin is the top-left corner of sq on the canvas.
func origin(sq board.Square) (int, int) {
	return margin + sq.File()*squareSize, margin + (7-sq.Rank())*squareSize
}

func center(sq board.Square) (int, int) {
	x, y := origin(sq)
	return x + squareSize/2, y + squareSize/2
}
