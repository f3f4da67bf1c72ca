package engine

// candidateMoves returns the pseudo-legal moves of the piece on from. With
// checkForChecks set, moves leaving the mover's king attacked are dropped.
// Check detection calls this with checkForChecks false, which is what stops
// the filter from recursing into itself.
func (e *Engine) candidateMoves(from Square, checkForChecks bool) []Square {
	moves := pseudoMoves(e.board, from, e.moveCounter)
	if !checkForChecks {
		return moves
	}
	legal := moves[:0]
	for _, to := range moves {
		if e.isKingSafeAfterMove(from, to) {
			legal = append(legal, to)
		}
	}
	return legal
}

// isKingSafeAfterMove plays from->to in place, asks whether the mover's king
// is attacked, and puts the touched squares back. The restore is deferred so
// a panic during detection still leaves the board as it was. An en passant
// capture also lifts the passed pawn for the duration of the trial.
func (e *Engine) isKingSafeAfterMove(from, to Square) bool {
	piece := e.board.At(from)
	if piece == nil {
		return true
	}
	captured := e.board.At(to)
	passed := Square{Row: from.Row, Col: to.Col}
	var passedPawn *Piece
	enPassant := isEnPassantCapture(e.board, piece, from, to)
	if enPassant {
		passedPawn = e.board.At(passed)
	}
	defer func() {
		e.board.set(from, piece)
		e.board.set(to, captured)
		if enPassant {
			e.board.set(passed, passedPawn)
		}
	}()

	e.board.set(to, piece)
	e.board.set(from, nil)
	if enPassant {
		e.board.set(passed, nil)
	}
	return !e.isKingUnderCheck(piece.Color)
}
