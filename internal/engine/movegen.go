package engine

var (
	rookDirs   = []Square{{Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: -1}}
	bishopDirs = []Square{{Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
	knightDirs = []Square{{Row: 2, Col: 1}, {Row: 2, Col: -1}, {Row: -2, Col: 1}, {Row: -2, Col: -1}, {Row: 1, Col: 2}, {Row: 1, Col: -2}, {Row: -1, Col: 2}, {Row: -1, Col: -2}}
	kingDirs   = []Square{{Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: -1}, {Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
)

// pseudoMoves returns the destinations of the piece on from, ignoring the
// safety of its own king. counter is the current move counter.
func pseudoMoves(b *BoardState, from Square, counter int) []Square {
	piece := b.At(from)
	if piece == nil {
		return nil
	}
	switch piece.Type {
	case Pawn:
		return pseudoPawnMoves(b, from, piece, counter)
	case Knight:
		return pseudoStepMoves(b, from, piece, knightDirs)
	case Bishop:
		return pseudoRayMoves(b, from, piece, bishopDirs)
	case Rook:
		return pseudoRayMoves(b, from, piece, rookDirs)
	case Queen:
		return append(pseudoRayMoves(b, from, piece, bishopDirs), pseudoRayMoves(b, from, piece, rookDirs)...)
	case King:
		return pseudoKingMoves(b, from, piece)
	default:
		return nil
	}
}

func pseudoPawnMoves(b *BoardState, from Square, piece *Piece, counter int) []Square {
	var moves []Square
	dir := piece.Color.forward()

	// forward 1, then forward 2 from the starting square
	one := from.offset(dir, 0)
	if b.isEmpty(one) {
		moves = append(moves, one)
		two := from.offset(2*dir, 0)
		if piece.FirstMove && b.isEmpty(two) {
			moves = append(moves, two)
		}
	}
	for _, side := range []int{-1, 1} {
		target := from.offset(dir, side)
		if b.isCapturable(target, piece.Color) {
			moves = append(moves, target)
		}
		if b.isEmpty(target) && enPassantOpen(b, from.offset(0, side), piece.Color, counter) {
			moves = append(moves, target)
		}
	}
	return moves
}

// enPassantOpen reports whether the pawn on beside double-stepped on the
// opponent's immediately preceding move. White's move bumps the counter
// before Black replies, hence the asymmetry.
func enPassantOpen(b *BoardState, beside Square, mover Color, counter int) bool {
	p := b.At(beside)
	if p == nil || p.Type != Pawn || p.Color == mover || p.DoubleStepTurn < 0 {
		return false
	}
	if mover == White {
		return p.DoubleStepTurn == counter
	}
	return p.DoubleStepTurn == counter-1
}

func pseudoStepMoves(b *BoardState, from Square, piece *Piece, dirs []Square) []Square {
	var moves []Square
	for _, dir := range dirs {
		target := from.offset(dir.Row, dir.Col)
		if b.isEmpty(target) || b.isCapturable(target, piece.Color) {
			moves = append(moves, target)
		}
	}
	return moves
}

func pseudoRayMoves(b *BoardState, from Square, piece *Piece, dirs []Square) []Square {
	var moves []Square
	for _, dir := range dirs {
		target := from.offset(dir.Row, dir.Col)
		for target.InBounds() {
			if b.isEmpty(target) {
				moves = append(moves, target)
			} else {
				if b.isCapturable(target, piece.Color) {
					moves = append(moves, target)
				}
				break
			}
			target = target.offset(dir.Row, dir.Col)
		}
	}
	return moves
}

func pseudoKingMoves(b *BoardState, from Square, piece *Piece) []Square {
	moves := pseudoStepMoves(b, from, piece, kingDirs)
	for _, side := range []CastleSide{ShortCastle, LongCastle} {
		if castlePathClear(b, piece.Color, side) && from == kingHome(piece.Color) {
			moves = append(moves, castleTarget(piece.Color, side))
		}
	}
	return moves
}
