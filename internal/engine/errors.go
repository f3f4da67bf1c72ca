package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engine. Use errors.Is to classify them.
var (
	// ErrIllegalMove indicates a destination not among the legal moves of the square.
	ErrIllegalMove = errors.New("illegal move")

	// ErrOutOfBounds indicates a coordinate outside the 8x8 grid.
	ErrOutOfBounds = errors.New("square out of bounds")

	// ErrNoPieceAtSquare indicates an operation on an empty square.
	ErrNoPieceAtSquare = errors.New("no piece at square")

	// ErrPromotionPending indicates a move attempted while a pawn awaits its promotion piece.
	ErrPromotionPending = errors.New("promotion pending")

	// ErrNoPromotionPending indicates a promotion choice with nothing to promote.
	ErrNoPromotionPending = errors.New("no promotion pending")

	// ErrInvalidPromotion indicates a pawn or king chosen as promotion piece.
	ErrInvalidPromotion = errors.New("invalid promotion piece")

	// ErrNotYourTurn indicates a piece of the side not on move.
	ErrNotYourTurn = errors.New("not your turn")
)

// MoveError wraps an engine error with the operation and squares involved.
// The position is unchanged whenever a MoveError is returned.
type MoveError struct {
	Op   string
	From Square
	To   *Square
	Err  error
}

func (e *MoveError) Error() string {
	if e.To != nil {
		return fmt.Sprintf("%s %v->%v: %v", e.Op, e.From, *e.To, e.Err)
	}
	return fmt.Sprintf("%s %v: %v", e.Op, e.From, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

func moveErr(op string, from Square, to *Square, err error) error {
	return &MoveError{Op: op, From: from, To: to, Err: err}
}
