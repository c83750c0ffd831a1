package engine

import "errors"

var ErrInvalidPiece = errors.New("invalid piece")
var ErrMustContinueCapture = errors.New("must continue capturing with the same piece")
var ErrDestinationOccupied = errors.New("destination occupied")
var ErrIllegalShape = errors.New("illegal move shape")
var ErrWrongDirection = errors.New("men can only move forward")
var ErrNoPieceToCapture = errors.New("no opponent piece to capture")
var ErrMustCapture = errors.New("a capture is available and must be taken")

// Outcome is the result of a legal move. Board is a fresh copy; the board
// passed to ApplyMove is never modified.
type Outcome struct {
	Board    *Board
	Captured bool
	Promoted bool
	// MustContinueFrom is set when the moving piece has another capture
	// from its landing square. The same side keeps the turn.
	MustContinueFrom *Position
}

// ApplyMove validates moving side's piece from -> to against b and returns
// the resulting position. forcedFrom is the pending capture-chain square,
// if any. Checks run in a fixed order so each rejection has one reason.
func ApplyMove(b *Board, from, to Position, side Side, forcedFrom *Position) (Outcome, error) {
	if !from.InBounds() || !to.InBounds() || !side.Valid() {
		return Outcome{}, ErrInvalidPiece
	}

	piece := b.At(from)
	if piece == nil || piece.Owner != side {
		return Outcome{}, ErrInvalidPiece
	}

	if forcedFrom != nil && *forcedFrom != from {
		return Outcome{}, ErrMustContinueCapture
	}

	if b.At(to) != nil {
		return Outcome{}, ErrDestinationOccupied
	}

	dr, dc := to.Row-from.Row, to.Col-from.Col
	isStep := abs(dr) == 1 && abs(dc) == 1
	isJump := abs(dr) == 2 && abs(dc) == 2
	if !isStep && !isJump {
		return Outcome{}, ErrIllegalShape
	}

	if piece.Rank == Man && sign(dr) != Forward(side) {
		return Outcome{}, ErrWrongDirection
	}

	next := b.Clone()
	captured := false

	if isJump {
		mid := Position{Row: from.Row + dr/2, Col: from.Col + dc/2}
		victim := b.At(mid)
		if victim == nil || victim.Owner == side {
			return Outcome{}, ErrNoPieceToCapture
		}
		next.set(mid, nil)
		captured = true
	} else if forcedFrom != nil || SideHasCapture(b, side) {
		// Forced capture is side-wide: any available jump anywhere blocks
		// every simple step.
		return Outcome{}, ErrMustCapture
	}

	moved := *piece
	promoted := false
	if moved.Rank == Man && to.Row == PromotionRow(side) {
		moved.Rank = King
		promoted = true
	}
	next.set(to, &moved)
	next.set(from, nil)

	out := Outcome{Board: next, Captured: captured, Promoted: promoted}
	if captured && HasAvailableCapture(next, to, side) {
		at := to
		out.MustContinueFrom = &at
	}
	return out, nil
}

// HasAvailableCapture reports whether side's piece on pos can jump right now.
func HasAvailableCapture(b *Board, pos Position, side Side) bool {
	piece := b.At(pos)
	if piece == nil || piece.Owner != side {
		return false
	}
	for _, d := range directions(*piece) {
		mid, land := pos.offset(d, 1), pos.offset(d, 2)
		if !land.InBounds() {
			continue
		}
		victim := b.At(mid)
		if victim != nil && victim.Owner != side && b.At(land) == nil {
			return true
		}
	}
	return false
}

// HasAnyLegalMove reports whether side's piece on pos has a simple step or a
// capture available.
func HasAnyLegalMove(b *Board, pos Position, side Side) bool {
	piece := b.At(pos)
	if piece == nil || piece.Owner != side {
		return false
	}
	for _, d := range directions(*piece) {
		step := pos.offset(d, 1)
		if step.InBounds() && b.At(step) == nil {
			return true
		}
	}
	return HasAvailableCapture(b, pos, side)
}

// SideHasCapture reports whether any of side's pieces can jump.
func SideHasCapture(b *Board, side Side) bool {
	for _, pos := range b.Positions(side) {
		if HasAvailableCapture(b, pos, side) {
			return true
		}
	}
	return false
}

// EvaluateWinner decides whether the game is over with sideToMove to play.
// A side with no pieces loses; so does a sideToMove with no legal move.
func EvaluateWinner(b *Board, sideToMove Side) (Side, bool) {
	if b.Count(Red) == 0 {
		return Black, true
	}
	if b.Count(Black) == 0 {
		return Red, true
	}
	for _, pos := range b.Positions(sideToMove) {
		if HasAnyLegalMove(b, pos, sideToMove) {
			return "", false
		}
	}
	return sideToMove.Opponent(), true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
