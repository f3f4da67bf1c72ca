package engine

// CastleSide is the wing a king castles toward.
type CastleSide string

const (
	ShortCastle CastleSide = "short"
	LongCastle  CastleSide = "long"
)

// CastlingState tracks one castling right of one colour.
type CastlingState string

const (
	CastlingEligible  CastlingState = "eligible"
	CastlingForfeited CastlingState = "forfeited"
	CastlingExecuted  CastlingState = "executed"
)

// PromotionState is where the most recent promoting pawn stands in its lifecycle.
type PromotionState string

const (
	PromotionNone              PromotionState = "none"
	PromotionAwaitingSelection PromotionState = "awaitingSelection"
	PromotionResolved          PromotionState = "resolved"
)

const (
	kingHomeCol      = 4
	shortRookCol     = 7
	shortKingCol     = 6
	shortRookDestCol = 5
	longRookCol      = 0
	longKingCol      = 2
	longRookDestCol  = 3
)

// CastleRookMove is the rook relocation that accompanies a castle.
type CastleRookMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

func kingHome(c Color) Square {
	return Square{Row: c.homeRow(), Col: kingHomeCol}
}

func castleTarget(c Color, side CastleSide) Square {
	if side == ShortCastle {
		return Square{Row: c.homeRow(), Col: shortKingCol}
	}
	return Square{Row: c.homeRow(), Col: longKingCol}
}

func castleRookMove(c Color, side CastleSide) CastleRookMove {
	row := c.homeRow()
	if side == ShortCastle {
		return CastleRookMove{From: Square{Row: row, Col: shortRookCol}, To: Square{Row: row, Col: shortRookDestCol}}
	}
	return CastleRookMove{From: Square{Row: row, Col: longRookCol}, To: Square{Row: row, Col: longRookDestCol}}
}

// castlePathClear reports whether king and rook are unmoved on their home
// squares with nothing between them. Attacks on the path are not considered.
func castlePathClear(b *BoardState, c Color, side CastleSide) bool {
	king := b.At(kingHome(c))
	if king == nil || king.Type != King || king.Color != c || !king.FirstMove {
		return false
	}
	rm := castleRookMove(c, side)
	rook := b.At(rm.From)
	if rook == nil || rook.Type != Rook || rook.Color != c || !rook.FirstMove {
		return false
	}
	lo, hi := rm.From.Col, kingHomeCol
	if lo > hi {
		lo, hi = hi, lo
	}
	for col := lo + 1; col < hi; col++ {
		if !b.isEmpty(Square{Row: c.homeRow(), Col: col}) {
			return false
		}
	}
	return true
}

// CanCastle reports whether the king of c would currently be offered the
// castling destination on side.
func (e *Engine) CanCastle(c Color, side CastleSide) bool {
	return castlePathClear(e.board, c, side)
}

// CastlingState reports where the castle of c on side stands.
func (e *Engine) CastlingState(c Color, side CastleSide) CastlingState {
	if e.castled[castleKey{c, side}] {
		return CastlingExecuted
	}
	king := e.board.At(kingHome(c))
	rook := e.board.At(castleRookMove(c, side).From)
	if king == nil || king.Type != King || king.Color != c || !king.FirstMove {
		return CastlingForfeited
	}
	if rook == nil || rook.Type != Rook || rook.Color != c || !rook.FirstMove {
		return CastlingForfeited
	}
	return CastlingEligible
}

type castleKey struct {
	color Color
	side  CastleSide
}

// castleSideFor returns the castle a king move from->to performs, if any,
// judged on the board before the move is applied.
func castleSideFor(b *BoardState, piece *Piece, from, to Square) (CastleSide, bool) {
	if piece.Type != King || from != kingHome(piece.Color) {
		return "", false
	}
	for _, side := range []CastleSide{ShortCastle, LongCastle} {
		if to == castleTarget(piece.Color, side) && castlePathClear(b, piece.Color, side) {
			return side, true
		}
	}
	return "", false
}

// isEnPassantCapture reports whether a pawn move from->to lands diagonally on
// an empty square, capturing the pawn beside it.
func isEnPassantCapture(b *BoardState, piece *Piece, from, to Square) bool {
	return piece.Type == Pawn && from.Col != to.Col && b.At(to) == nil
}

func validPromotion(kind PieceType) bool {
	switch kind {
	case Queen, Rook, Bishop, Knight:
		return true
	}
	return false
}
