// Package engine implements the chess rules: move generation, king-safety
// filtering, castling, en passant, promotion and check detection.
//
// An Engine is not safe for concurrent use; callers serialise access.
package engine

// Engine owns one game's position, side to move and move counter.
type Engine struct {
	board        *BoardState
	toMove       Color
	moveCounter  int
	whiteInCheck bool
	blackInCheck bool

	castled          map[castleKey]bool
	pendingPromotion *Square
	promotionState   PromotionState

	// freePlay lets either colour move regardless of turn.
	freePlay bool
}

// Outcome describes the effects of a committed move.
type Outcome struct {
	From             Square          `json:"from"`
	To               Square          `json:"to"`
	Piece            Piece           `json:"piece"`
	Captured         *Piece          `json:"captured"`
	EnPassantCapture *Square         `json:"enPassantCapture"`
	CastleRookMove   *CastleRookMove `json:"castleRookMove"`
	PromotionPending bool            `json:"promotionPending"`
	PromotionSquare  *Square         `json:"promotionSquare"`
	WhiteInCheck     bool            `json:"whiteInCheck"`
	BlackInCheck     bool            `json:"blackInCheck"`
	ToMove           Color           `json:"toMove"`
	MoveCounter      int             `json:"moveCounter"`
}

// NewEngine returns an engine holding the standard starting position, White to move.
func NewEngine() *Engine {
	return newEngine(newBoard())
}

// newEmptyEngine returns an engine with no pieces, White to move. Pieces are
// added with Place.
func newEmptyEngine() *Engine {
	return newEngine(&BoardState{})
}

func newEngine(b *BoardState) *Engine {
	return &Engine{
		board:          b,
		toMove:         White,
		castled:        make(map[castleKey]bool),
		promotionState: PromotionNone,
	}
}

// SetFreePlay disables turn enforcement when on.
func (e *Engine) SetFreePlay(on bool) {
	e.freePlay = on
}

func (e *Engine) FreePlay() bool {
	return e.freePlay
}

// Clear removes every piece and returns the engine to the state of
// newEmptyEngine: White to move, counter zero, no castling or promotion history.
func (e *Engine) Clear() {
	e.board.clear()
	e.toMove = White
	e.moveCounter = 0
	e.castled = make(map[castleKey]bool)
	e.pendingPromotion = nil
	e.promotionState = PromotionNone
	e.refreshChecks()
}

// Place puts p on s, replacing whatever was there, and re-evaluates the check
// flags. The square of a pawn awaiting promotion cannot be overwritten.
func (e *Engine) Place(s Square, p *Piece) error {
	if !s.InBounds() {
		return moveErr("place", s, nil, ErrOutOfBounds)
	}
	if e.pendingPromotion != nil && *e.pendingPromotion == s {
		return moveErr("place", s, nil, ErrPromotionPending)
	}
	e.board.set(s, p)
	e.refreshChecks()
	return nil
}

// SetSideToMove hands the move to c without touching the counter.
func (e *Engine) SetSideToMove(c Color) {
	e.toMove = c
}

func (e *Engine) ToMove() Color {
	return e.toMove
}

// MoveCounter is incremented each time White completes a move.
func (e *Engine) MoveCounter() int {
	return e.moveCounter
}

// Board returns a deep copy of the position.
func (e *Engine) Board() *BoardState {
	return e.board.clone()
}

func (e *Engine) String() string {
	return e.board.String()
}

// PromotionState reports the promotion lifecycle of the most recent promoting pawn.
func (e *Engine) PromotionState() PromotionState {
	return e.promotionState
}

// PendingPromotion returns the square of the pawn awaiting its piece, if any.
func (e *Engine) PendingPromotion() (Square, bool) {
	if e.pendingPromotion == nil {
		return Square{}, false
	}
	return *e.pendingPromotion, true
}

// LegalMoves returns the destinations the piece on from may move to. A square
// holding a king is never a destination.
func (e *Engine) LegalMoves(from Square) ([]Square, error) {
	if !from.InBounds() {
		return nil, moveErr("legal moves", from, nil, ErrOutOfBounds)
	}
	if e.board.At(from) == nil {
		return nil, moveErr("legal moves", from, nil, ErrNoPieceAtSquare)
	}
	return e.legalMoves(from), nil
}

func (e *Engine) legalMoves(from Square) []Square {
	moves := e.candidateMoves(from, true)
	out := make([]Square, 0, len(moves))
	for _, to := range moves {
		if p := e.board.At(to); p != nil && p.Type == King {
			continue
		}
		out = append(out, to)
	}
	return out
}

// AllLegalMoves returns every legal move of c keyed by origin square.
// Pieces without moves are omitted.
func (e *Engine) AllLegalMoves(c Color) map[Square][]Square {
	all := make(map[Square][]Square)
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			from := Square{Row: row, Col: col}
			p := e.board.At(from)
			if p == nil || p.Color != c {
				continue
			}
			if moves := e.legalMoves(from); len(moves) > 0 {
				all[from] = moves
			}
		}
	}
	return all
}

// PieceCounts counts the pieces of each colour by type.
func (e *Engine) PieceCounts() map[Color]map[PieceType]int {
	counts := map[Color]map[PieceType]int{
		White: make(map[PieceType]int),
		Black: make(map[PieceType]int),
	}
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			if p := e.board.Board[row][col]; p != nil {
				counts[p.Color][p.Type]++
			}
		}
	}
	return counts
}

// CommitMove plays from->to. On error the position is unchanged. When the
// move promotes a pawn the turn does not advance until ResolvePromotion.
func (e *Engine) CommitMove(from, to Square) (Outcome, error) {
	const op = "commit"
	if e.pendingPromotion != nil {
		return Outcome{}, moveErr(op, from, &to, ErrPromotionPending)
	}
	if !from.InBounds() || !to.InBounds() {
		return Outcome{}, moveErr(op, from, &to, ErrOutOfBounds)
	}
	piece := e.board.At(from)
	if piece == nil {
		return Outcome{}, moveErr(op, from, &to, ErrNoPieceAtSquare)
	}
	if !e.freePlay && piece.Color != e.toMove {
		return Outcome{}, moveErr(op, from, &to, ErrNotYourTurn)
	}
	if !containsSquare(e.legalMoves(from), to) {
		return Outcome{}, moveErr(op, from, &to, ErrIllegalMove)
	}

	out := Outcome{From: from, To: to}
	castleSide, castling := castleSideFor(e.board, piece, from, to)
	enPassant := isEnPassantCapture(e.board, piece, from, to)

	if captured := e.board.At(to); captured != nil {
		cp := *captured
		out.Captured = &cp
	}
	e.board.set(to, piece)
	e.board.set(from, nil)

	if enPassant {
		passed := Square{Row: from.Row, Col: to.Col}
		cp := *e.board.At(passed)
		out.Captured = &cp
		out.EnPassantCapture = &passed
		e.board.set(passed, nil)
	}
	if castling {
		rm := castleRookMove(piece.Color, castleSide)
		rook := e.board.At(rm.From)
		e.board.set(rm.To, rook)
		e.board.set(rm.From, nil)
		rook.FirstMove = false
		e.castled[castleKey{piece.Color, castleSide}] = true
		out.CastleRookMove = &rm
	}
	if piece.Type == Pawn && abs(to.Row-from.Row) == 2 {
		piece.DoubleStepTurn = e.moveCounter
	}
	piece.FirstMove = false

	if piece.Type == Pawn && to.Row == piece.Color.promotionRow() {
		sq := to
		e.pendingPromotion = &sq
		e.promotionState = PromotionAwaitingSelection
		out.PromotionPending = true
		out.PromotionSquare = &sq
	} else {
		e.advanceTurn()
	}
	e.refreshChecks()

	out.Piece = *piece
	out.WhiteInCheck = e.whiteInCheck
	out.BlackInCheck = e.blackInCheck
	out.ToMove = e.toMove
	out.MoveCounter = e.moveCounter
	return out, nil
}

// ResolvePromotion replaces the pawn awaiting promotion on s with a piece of
// kind and completes the turn.
func (e *Engine) ResolvePromotion(s Square, kind PieceType) (Piece, error) {
	const op = "promote"
	if e.pendingPromotion == nil || *e.pendingPromotion != s {
		return Piece{}, moveErr(op, s, nil, ErrNoPromotionPending)
	}
	if !validPromotion(kind) {
		return Piece{}, moveErr(op, s, nil, ErrInvalidPromotion)
	}
	pawn := e.board.At(s)
	if pawn == nil || pawn.Type != Pawn {
		return Piece{}, moveErr(op, s, nil, ErrNoPromotionPending)
	}
	promoted := &Piece{Type: kind, Color: pawn.Color, FirstMove: false, DoubleStepTurn: -1}
	e.board.set(s, promoted)
	e.pendingPromotion = nil
	e.promotionState = PromotionResolved
	e.advanceTurn()
	e.refreshChecks()
	return *promoted, nil
}

// advanceTurn completes the current side's move.
func (e *Engine) advanceTurn() {
	if e.toMove == White {
		e.moveCounter++
	}
	e.toMove = e.toMove.Opposite()
}

func containsSquare(squares []Square, s Square) bool {
	for _, sq := range squares {
		if sq == s {
			return true
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
