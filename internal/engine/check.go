package engine

// isKingUnderCheck reports whether any opposing piece has a pseudo-legal move
// onto the king of c. A board without that king is never in check.
func (e *Engine) isKingUnderCheck(c Color) bool {
	king, ok := e.board.findKing(c)
	if !ok {
		return false
	}
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			from := Square{Row: row, Col: col}
			p := e.board.At(from)
			if p == nil || p.Color == c {
				continue
			}
			for _, to := range e.candidateMoves(from, false) {
				if to == king {
					return true
				}
			}
		}
	}
	return false
}

// refreshChecks re-evaluates both kings.
func (e *Engine) refreshChecks() {
	e.whiteInCheck = e.isKingUnderCheck(White)
	e.blackInCheck = e.isKingUnderCheck(Black)
}

// IsCheck reports the check flag of c as of the last committed move.
func (e *Engine) IsCheck(c Color) bool {
	if c == White {
		return e.whiteInCheck
	}
	return e.blackInCheck
}
