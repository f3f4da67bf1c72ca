package model

import (
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
)

type WSMove struct {
	From engine.Square `json:"from"`
	To   engine.Square `json:"to"`
}

type PromotionRequest struct {
	Square engine.Square    `json:"square"`
	Piece  engine.PieceType `json:"piece"`
}

type SelectRequest struct {
	Square engine.Square `json:"square"`
}

type LegalMovesResponse struct {
	From  engine.Square   `json:"from"`
	Moves []engine.Square `json:"moves"`
}

// PlacedPiece is a piece to put on the board during setup.
type PlacedPiece struct {
	Type  engine.PieceType `json:"type"`
	Color engine.Color     `json:"color"`
}

// Placement puts Piece on Square, or empties the square when Piece is nil.
type Placement struct {
	Square engine.Square `json:"square"`
	Piece  *PlacedPiece  `json:"piece"`
}

type SetupRequest struct {
	Clear      bool         `json:"clear"`
	Placements []Placement  `json:"placements"`
	ToMove     engine.Color `json:"toMove"`
}

func (r SetupRequest) validate() error {
	if r.ToMove != "" && r.ToMove != engine.White && r.ToMove != engine.Black {
		return fmt.Errorf("%w: side to move %q", ErrInvalidSetup, r.ToMove)
	}
	for _, pl := range r.Placements {
		if !pl.Square.InBounds() {
			return fmt.Errorf("%w: square %v off the board", ErrInvalidSetup, pl.Square)
		}
		if pl.Piece == nil {
			continue
		}
		switch pl.Piece.Type {
		case engine.King, engine.Queen, engine.Rook, engine.Bishop, engine.Knight, engine.Pawn:
		default:
			return fmt.Errorf("%w: piece type %q", ErrInvalidSetup, pl.Piece.Type)
		}
		if pl.Piece.Color != engine.White && pl.Piece.Color != engine.Black {
			return fmt.Errorf("%w: piece colour %q", ErrInvalidSetup, pl.Piece.Color)
		}
	}
	return nil
}
