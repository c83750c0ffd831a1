package engine

import "fmt"

// Size is the edge length of the board.
const Size = 8

type Rank string

const (
	Man  Rank = "man"
	King Rank = "king"
)

type Piece struct {
	Owner Side `json:"owner"`
	Rank  Rank `json:"rank"`
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// Dark reports whether p is a playable square. Pieces never stand anywhere else.
func (p Position) Dark() bool { return (p.Row+p.Col)%2 == 1 }

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

func (p Position) offset(d delta, n int) Position {
	return Position{Row: p.Row + d.dr*n, Col: p.Col + d.dc*n}
}

// Board is the 8x8 surface. A nil cell is empty. Pieces are owned by the
// cell holding them, so Clone copies them by value.
type Board [Size][Size]*Piece

// NewInitialBoard returns the starting layout: Black men on the dark
// squares of rows 0-2, Red men on the dark squares of rows 5-7.
func NewInitialBoard() *Board {
	b := &Board{}
	for row := 0; row < Size; row++ {
		var owner Side
		switch {
		case row < 3:
			owner = Black
		case row >= Size-3:
			owner = Red
		default:
			continue
		}
		for col := 0; col < Size; col++ {
			if (Position{Row: row, Col: col}).Dark() {
				b[row][col] = &Piece{Owner: owner, Rank: Man}
			}
		}
	}
	return b
}

// Clone returns a deep copy that shares no pieces with b.
func (b *Board) Clone() *Board {
	out := &Board{}
	for row := range b {
		for col, p := range b[row] {
			if p != nil {
				cp := *p
				out[row][col] = &cp
			}
		}
	}
	return out
}

// At returns the piece on p, or nil when p is empty or off the board.
func (b *Board) At(p Position) *Piece {
	if !p.InBounds() {
		return nil
	}
	return b[p.Row][p.Col]
}

func (b *Board) set(p Position, piece *Piece) { b[p.Row][p.Col] = piece }

// Count returns how many pieces side owns.
func (b *Board) Count(side Side) int {
	n := 0
	for row := range b {
		for _, p := range b[row] {
			if p != nil && p.Owner == side {
				n++
			}
		}
	}
	return n
}

// Positions lists the squares holding side's pieces in row-major order.
func (b *Board) Positions(side Side) []Position {
	var out []Position
	for row := range b {
		for col, p := range b[row] {
			if p != nil && p.Owner == side {
				out = append(out, Position{Row: row, Col: col})
			}
		}
	}
	return out
}
