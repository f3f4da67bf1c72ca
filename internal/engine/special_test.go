package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func containsMove(moves []Square, s Square) bool {
	return containsSquare(moves, s)
}

func TestShortCastleRelocatesRook(t *testing.T) {
	e := NewEngine()
	mustPlace(t, e, sq(7, 5), nil)
	mustPlace(t, e, sq(7, 6), nil)

	if !e.CanCastle(White, ShortCastle) {
		t.Fatal("CanCastle(white, short) = false, want true")
	}
	if !containsMove(mustLegal(t, e, sq(7, 4)), sq(7, 6)) {
		t.Fatal("LegalMoves(7,4) does not offer (7,6)")
	}

	out := mustCommit(t, e, sq(7, 4), sq(7, 6))
	want := &CastleRookMove{From: sq(7, 7), To: sq(7, 5)}
	if diff := cmp.Diff(want, out.CastleRookMove); diff != "" {
		t.Errorf("CastleRookMove mismatch (-want +got):\n%s", diff)
	}
	if rook := e.board.At(sq(7, 5)); rook == nil || rook.Type != Rook || rook.FirstMove {
		t.Errorf("square (7,5) = %+v, want moved white rook", rook)
	}
	if e.board.At(sq(7, 7)) != nil {
		t.Error("rook still on (7,7)")
	}
	if e.CanCastle(White, ShortCastle) {
		t.Error("CanCastle(white, short) still true after castling")
	}
	if got := e.CastlingState(White, ShortCastle); got != CastlingExecuted {
		t.Errorf("CastlingState(white, short) = %s, want executed", got)
	}

	mustCommit(t, e, sq(1, 0), sq(2, 0))
	moves, _ := e.LegalMoves(sq(7, 4))
	if containsMove(moves, sq(7, 6)) {
		t.Error("castling destination offered again")
	}
	if king := e.board.At(sq(7, 6)); king == nil || king.Type != King || king.FirstMove {
		t.Errorf("square (7,6) = %+v, want moved king", king)
	}
}

func TestLongCastleBlackRelocatesRook(t *testing.T) {
	e := NewEngine()
	for _, col := range []int{1, 2, 3} {
		mustPlace(t, e, sq(0, col), nil)
	}
	e.SetSideToMove(Black)

	if !containsMove(mustLegal(t, e, sq(0, 4)), sq(0, 2)) {
		t.Fatal("LegalMoves(0,4) does not offer (0,2)")
	}
	out := mustCommit(t, e, sq(0, 4), sq(0, 2))
	want := &CastleRookMove{From: sq(0, 0), To: sq(0, 3)}
	if diff := cmp.Diff(want, out.CastleRookMove); diff != "" {
		t.Errorf("CastleRookMove mismatch (-want +got):\n%s", diff)
	}
	if got := e.CastlingState(Black, LongCastle); got != CastlingExecuted {
		t.Errorf("CastlingState(black, long) = %s, want executed", got)
	}
	if got := e.CastlingState(Black, ShortCastle); got != CastlingForfeited {
		t.Errorf("CastlingState(black, short) = %s, want forfeited", got)
	}
}

func TestCastlingForfeitedByRookMove(t *testing.T) {
	e := NewEngine()
	mustPlace(t, e, sq(7, 5), nil)
	mustPlace(t, e, sq(7, 6), nil)
	mustCommit(t, e, sq(7, 7), sq(7, 6))
	mustCommit(t, e, sq(1, 0), sq(2, 0))
	mustCommit(t, e, sq(7, 6), sq(7, 7))
	mustCommit(t, e, sq(2, 0), sq(3, 0))

	if e.CanCastle(White, ShortCastle) {
		t.Error("CanCastle(white, short) = true after the rook moved")
	}
	if got := e.CastlingState(White, ShortCastle); got != CastlingForfeited {
		t.Errorf("CastlingState(white, short) = %s, want forfeited", got)
	}
	if containsMove(mustLegal(t, e, sq(7, 4)), sq(7, 6)) {
		t.Error("castling offered after the rook moved")
	}
}

func TestCastlingBlockedPath(t *testing.T) {
	e := NewEngine()
	mustPlace(t, e, sq(7, 6), nil)
	if e.CanCastle(White, ShortCastle) {
		t.Error("CanCastle(white, short) = true with bishop on (7,5)")
	}
	if got := e.CastlingState(White, ShortCastle); got != CastlingEligible {
		t.Errorf("CastlingState(white, short) = %s, want eligible", got)
	}
}

// Castling out of or through an attacked square is still offered; only the
// landing square is checked.
func TestCastlingThroughCheckIsOffered(t *testing.T) {
	e := newEmptyEngine()
	mustPlace(t, e, sq(7, 4), NewPiece(King, White))
	mustPlace(t, e, sq(7, 7), NewPiece(Rook, White))
	mustPlace(t, e, sq(0, 0), NewPiece(King, Black))
	mustPlace(t, e, sq(0, 5), NewPiece(Rook, Black))

	if !containsMove(mustLegal(t, e, sq(7, 4)), sq(7, 6)) {
		t.Error("castle across attacked (7,5) not offered")
	}

	mustPlace(t, e, sq(0, 5), nil)
	mustPlace(t, e, sq(0, 6), NewPiece(Rook, Black))
	if containsMove(mustLegal(t, e, sq(7, 4)), sq(7, 6)) {
		t.Error("castle onto attacked (7,6) offered")
	}
}

func TestEnPassantWhiteCapturesImmediately(t *testing.T) {
	e := NewEngine()
	mustCommit(t, e, sq(6, 4), sq(4, 4))
	mustCommit(t, e, sq(1, 0), sq(2, 0))
	mustCommit(t, e, sq(4, 4), sq(3, 4))
	out := mustCommit(t, e, sq(1, 3), sq(3, 3))
	if got := e.board.At(sq(3, 3)).DoubleStepTurn; got != out.MoveCounter {
		t.Errorf("DoubleStepTurn = %d, want %d", got, out.MoveCounter)
	}

	if !containsMove(mustLegal(t, e, sq(3, 4)), sq(2, 3)) {
		t.Fatal("en passant (3,4)->(2,3) not offered")
	}
	res := mustCommit(t, e, sq(3, 4), sq(2, 3))
	if res.EnPassantCapture == nil || *res.EnPassantCapture != sq(3, 3) {
		t.Errorf("EnPassantCapture = %v, want (3,3)", res.EnPassantCapture)
	}
	if res.Captured == nil || res.Captured.Type != Pawn || res.Captured.Color != Black {
		t.Errorf("Captured = %+v, want black pawn", res.Captured)
	}
	if e.board.At(sq(3, 3)) != nil {
		t.Error("passed pawn still on (3,3)")
	}
}

func TestEnPassantWindowClosesAfterOneMove(t *testing.T) {
	e := NewEngine()
	mustCommit(t, e, sq(6, 4), sq(4, 4))
	mustCommit(t, e, sq(1, 0), sq(2, 0))
	mustCommit(t, e, sq(4, 4), sq(3, 4))
	mustCommit(t, e, sq(1, 3), sq(3, 3))
	// White waits a move instead of capturing.
	mustCommit(t, e, sq(6, 0), sq(5, 0))
	mustCommit(t, e, sq(2, 0), sq(3, 0))

	if containsMove(mustLegal(t, e, sq(3, 4)), sq(2, 3)) {
		t.Error("en passant still offered two moves later")
	}
	if _, err := e.CommitMove(sq(3, 4), sq(2, 3)); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("delayed en passant error = %v, want ErrIllegalMove", err)
	}
}

func TestEnPassantBlackCapturesImmediately(t *testing.T) {
	e := NewEngine()
	mustCommit(t, e, sq(6, 7), sq(5, 7))
	mustCommit(t, e, sq(1, 3), sq(3, 3))
	mustCommit(t, e, sq(5, 7), sq(4, 7))
	mustCommit(t, e, sq(3, 3), sq(4, 3))
	mustCommit(t, e, sq(6, 4), sq(4, 4))

	if !containsMove(mustLegal(t, e, sq(4, 3)), sq(5, 4)) {
		t.Fatal("en passant (4,3)->(5,4) not offered")
	}
	mustCommit(t, e, sq(4, 3), sq(5, 4))
	if e.board.At(sq(4, 4)) != nil {
		t.Error("passed white pawn still on (4,4)")
	}
}

func TestPromotionAwaitsSelection(t *testing.T) {
	e := newEmptyEngine()
	mustPlace(t, e, sq(7, 4), NewPiece(King, White))
	mustPlace(t, e, sq(0, 7), NewPiece(King, Black))
	mustPlace(t, e, sq(1, 0), NewPiece(Pawn, White))

	out := mustCommit(t, e, sq(1, 0), sq(0, 0))
	if !out.PromotionPending || out.PromotionSquare == nil || *out.PromotionSquare != sq(0, 0) {
		t.Fatalf("outcome = %+v, want promotion pending on (0,0)", out)
	}
	if e.PromotionState() != PromotionAwaitingSelection {
		t.Errorf("PromotionState() = %s, want awaitingSelection", e.PromotionState())
	}
	if e.ToMove() != White {
		t.Errorf("turn advanced to %s while promotion pending", e.ToMove())
	}
	if p := e.board.At(sq(0, 0)); p == nil || p.Type != Pawn {
		t.Errorf("square (0,0) = %+v, want the pawn until selection", p)
	}

	if _, err := e.CommitMove(sq(7, 4), sq(7, 3)); !errors.Is(err, ErrPromotionPending) {
		t.Errorf("CommitMove while pending error = %v, want ErrPromotionPending", err)
	}
	for _, kind := range []PieceType{Pawn, King} {
		if _, err := e.ResolvePromotion(sq(0, 0), kind); !errors.Is(err, ErrInvalidPromotion) {
			t.Errorf("ResolvePromotion(%s) error = %v, want ErrInvalidPromotion", kind, err)
		}
	}
	if _, err := e.ResolvePromotion(sq(0, 1), Queen); !errors.Is(err, ErrNoPromotionPending) {
		t.Errorf("ResolvePromotion(wrong square) error = %v, want ErrNoPromotionPending", err)
	}

	got, err := e.ResolvePromotion(sq(0, 0), Queen)
	if err != nil {
		t.Fatalf("ResolvePromotion() error: %v", err)
	}
	want := Piece{Type: Queen, Color: White, FirstMove: false, DoubleStepTurn: -1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("promoted piece mismatch (-want +got):\n%s", diff)
	}
	if e.PromotionState() != PromotionResolved {
		t.Errorf("PromotionState() = %s, want resolved", e.PromotionState())
	}
	if e.ToMove() != Black || e.MoveCounter() != 1 {
		t.Errorf("after promotion toMove=%s counter=%d, want black 1", e.ToMove(), e.MoveCounter())
	}
	if !e.IsCheck(Black) {
		t.Error("queen on (0,0) should check the king on (0,7)")
	}
	if _, err := e.ResolvePromotion(sq(0, 0), Rook); !errors.Is(err, ErrNoPromotionPending) {
		t.Errorf("second ResolvePromotion error = %v, want ErrNoPromotionPending", err)
	}
}

func TestRookCheckScenario(t *testing.T) {
	e := newEmptyEngine()
	mustPlace(t, e, sq(7, 4), NewPiece(King, White))
	mustPlace(t, e, sq(0, 4), NewPiece(Rook, Black))

	if !e.IsCheck(White) {
		t.Fatal("IsCheck(white) = false, want true")
	}
	moves := mustLegal(t, e, sq(7, 4))
	if !containsMove(moves, sq(7, 3)) {
		t.Fatalf("LegalMoves(7,4) = %v, want (7,3) included", moves)
	}
	if containsMove(moves, sq(6, 4)) {
		t.Error("king offered (6,4) on the rook's file")
	}
	mustCommit(t, e, sq(7, 4), sq(7, 3))
	if e.IsCheck(White) {
		t.Error("IsCheck(white) = true after stepping off the file")
	}
}

func TestPinnedPieceCannotExposeKing(t *testing.T) {
	e := newEmptyEngine()
	mustPlace(t, e, sq(7, 4), NewPiece(King, White))
	mustPlace(t, e, sq(5, 4), NewPiece(Knight, White))
	mustPlace(t, e, sq(0, 4), NewPiece(Rook, Black))
	mustPlace(t, e, sq(0, 0), NewPiece(King, Black))

	if moves := mustLegal(t, e, sq(5, 4)); len(moves) != 0 {
		t.Errorf("pinned knight LegalMoves = %v, want none", moves)
	}
}

func TestMoverNeverLeftInCheck(t *testing.T) {
	e := NewEngine()
	plies := [][2]Square{
		{sq(6, 5), sq(5, 5)}, {sq(1, 4), sq(3, 4)},
		{sq(6, 6), sq(4, 6)}, {sq(0, 3), sq(4, 7)},
	}
	for _, ply := range plies {
		mover := e.board.At(ply[0]).Color
		mustCommit(t, e, ply[0], ply[1])
		if e.IsCheck(mover) {
			t.Errorf("%s left in check after %v->%v", mover, ply[0], ply[1])
		}
	}
	if !e.IsCheck(White) {
		t.Fatal("fool's mate position should check white")
	}
	// Every remaining white move must fail to resolve the check or be absent.
	for from, moves := range e.AllLegalMoves(White) {
		t.Errorf("white has legal move %v -> %v in a mated position", from, moves)
	}
}

func TestKingSafetyTrialRestoresBoard(t *testing.T) {
	e := NewEngine()
	mustCommit(t, e, sq(6, 4), sq(4, 4))
	mustCommit(t, e, sq(1, 3), sq(3, 3))
	mustCommit(t, e, sq(7, 5), sq(3, 1))

	before := e.Board()
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			from := sq(row, col)
			if e.board.At(from) == nil {
				continue
			}
			for _, to := range pseudoMoves(e.board, from, e.moveCounter) {
				e.isKingSafeAfterMove(from, to)
				if diff := cmp.Diff(before, e.Board()); diff != "" {
					t.Fatalf("trial %v->%v changed the board (-before +after):\n%s", from, to, diff)
				}
			}
		}
	}
}

func TestOffBoardSquaresNeverMatch(t *testing.T) {
	e := newEmptyEngine()
	mustPlace(t, e, sq(0, 0), NewPiece(Knight, White))
	mustPlace(t, e, sq(7, 7), NewPiece(Queen, Black))
	for _, from := range []Square{sq(0, 0), sq(7, 7)} {
		for _, to := range pseudoMoves(e.board, from, 0) {
			if !to.InBounds() {
				t.Errorf("pseudoMoves(%v) produced off-board %v", from, to)
			}
		}
	}
	if err := e.Place(sq(0, 8), NewPiece(Pawn, White)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Place(off board) error = %v, want ErrOutOfBounds", err)
	}
}

func TestClearForgetsCastlingHistory(t *testing.T) {
	e := newEmptyEngine()
	setup := func() {
		mustPlace(t, e, sq(7, 4), NewPiece(King, White))
		mustPlace(t, e, sq(7, 7), NewPiece(Rook, White))
		mustPlace(t, e, sq(0, 4), NewPiece(King, Black))
	}
	setup()
	mustCommit(t, e, sq(7, 4), sq(7, 6))
	if got := e.CastlingState(White, ShortCastle); got != CastlingExecuted {
		t.Fatalf("CastlingState() = %s, want executed", got)
	}

	e.Clear()
	if e.ToMove() != White || e.MoveCounter() != 0 {
		t.Errorf("after Clear toMove=%s counter=%d, want white 0", e.ToMove(), e.MoveCounter())
	}
	setup()
	if !e.CanCastle(White, ShortCastle) {
		t.Error("CanCastle() = false on a fresh king and rook")
	}
	if got := e.CastlingState(White, ShortCastle); got != CastlingEligible {
		t.Errorf("CastlingState() = %s, want eligible", got)
	}
}

func TestPlaceKeepsPendingPromotionPawn(t *testing.T) {
	e := newEmptyEngine()
	mustPlace(t, e, sq(7, 4), NewPiece(King, White))
	mustPlace(t, e, sq(0, 7), NewPiece(King, Black))
	mustPlace(t, e, sq(1, 0), NewPiece(Pawn, White))
	mustCommit(t, e, sq(1, 0), sq(0, 0))

	if err := e.Place(sq(0, 0), nil); !errors.Is(err, ErrPromotionPending) {
		t.Fatalf("Place(pending square) error = %v, want ErrPromotionPending", err)
	}
	if p := e.board.At(sq(0, 0)); p == nil || p.Type != Pawn {
		t.Fatalf("square (0,0) = %+v, want the pawn", p)
	}
	if _, err := e.ResolvePromotion(sq(0, 0), Knight); err != nil {
		t.Errorf("ResolvePromotion() error: %v", err)
	}
}

func TestResolvePromotionWithoutPawn(t *testing.T) {
	e := newEmptyEngine()
	pending := sq(0, 0)
	e.pendingPromotion = &pending
	e.promotionState = PromotionAwaitingSelection

	if _, err := e.ResolvePromotion(pending, Queen); !errors.Is(err, ErrNoPromotionPending) {
		t.Errorf("ResolvePromotion(empty square) error = %v, want ErrNoPromotionPending", err)
	}
}
