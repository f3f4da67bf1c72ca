package engine

import (
	"fmt"
	"strings"
)

// PieceType names a kind of chess piece.
type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) symbol() byte {
	switch p {
	case King:
		return 'k'
	case Queen:
		return 'q'
	case Rook:
		return 'r'
	case Bishop:
		return 'b'
	case Knight:
		return 'n'
	case Pawn:
		return 'p'
	}
	return '?'
}

// Color is the side a piece belongs to.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opposite returns the other side.
func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

// homeRow is the back rank a colour starts on.
func (c Color) homeRow() int {
	if c == White {
		return 7
	}
	return 0
}

// forward is the row delta of a pawn advance.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

// promotionRow is the farthest row from the colour's start.
func (c Color) promotionRow() int {
	if c == White {
		return 0
	}
	return 7
}

const boardSize = 8

// Square is a (row, col) coordinate. Row 0 is Black's back rank.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < boardSize && s.Col >= 0 && s.Col < boardSize
}

func (s Square) offset(dRow, dCol int) Square {
	return Square{Row: s.Row + dRow, Col: s.Col + dCol}
}

func (s Square) String() string {
	return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
}

// Piece is one man on the board along with the history the rules need.
type Piece struct {
	Type      PieceType `json:"type"`
	Color     Color     `json:"color"`
	FirstMove bool      `json:"firstMove"`
	// DoubleStepTurn is the move counter at the pawn's double step, -1 if none.
	DoubleStepTurn int `json:"doubleStepTurn"`
}

// NewPiece returns an unmoved piece.
func NewPiece(t PieceType, c Color) *Piece {
	return &Piece{Type: t, Color: c, FirstMove: true, DoubleStepTurn: -1}
}

// BoardState is the 8x8 grid, indexed [row][col] with Black on row 0.
type BoardState struct {
	Board [boardSize][boardSize]*Piece `json:"board"`
}

// At returns the piece on s, or nil when s is empty or off the board.
func (b *BoardState) At(s Square) *Piece {
	if !s.InBounds() {
		return nil
	}
	return b.Board[s.Row][s.Col]
}

func (b *BoardState) set(s Square, p *Piece) {
	b.Board[s.Row][s.Col] = p
}

// isEmpty is false for off-board squares.
func (b *BoardState) isEmpty(s Square) bool {
	return s.InBounds() && b.Board[s.Row][s.Col] == nil
}

// isCapturable reports whether s holds a piece of the other colour.
func (b *BoardState) isCapturable(s Square, mover Color) bool {
	if !s.InBounds() {
		return false
	}
	p := b.Board[s.Row][s.Col]
	return p != nil && p.Color != mover
}

func (b *BoardState) findKing(c Color) (Square, bool) {
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			p := b.Board[row][col]
			if p != nil && p.Type == King && p.Color == c {
				return Square{Row: row, Col: col}, true
			}
		}
	}
	return Square{}, false
}

func (b *BoardState) clear() {
	b.Board = [boardSize][boardSize]*Piece{}
}

// clone copies the grid and every piece record.
func (b *BoardState) clone() *BoardState {
	out := &BoardState{}
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			if p := b.Board[row][col]; p != nil {
				cp := *p
				out.Board[row][col] = &cp
			}
		}
	}
	return out
}

func newBoard() *BoardState {
	board := &BoardState{}
	backRank := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col, t := range backRank {
		board.Board[0][col] = NewPiece(t, Black)
		board.Board[7][col] = NewPiece(t, White)
	}
	for col := 0; col < boardSize; col++ {
		board.Board[1][col] = NewPiece(Pawn, Black)
		board.Board[6][col] = NewPiece(Pawn, White)
	}
	return board
}

// String renders the board as 64 symbols, row 0 first. White pieces are upper case.
func (b *BoardState) String() string {
	var sb strings.Builder
	sb.Grow(boardSize * boardSize)
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			p := b.Board[row][col]
			switch {
			case p == nil:
				sb.WriteByte('.')
			case p.Color == White:
				sb.WriteByte(p.Type.symbol() - 'a' + 'A')
			default:
				sb.WriteByte(p.Type.symbol())
			}
		}
	}
	return sb.String()
}
