package types

import (
	"time"

	"github.com/DoyleJ11/checkers-server/internal/engine"
)

// Piece is the wire form of a board piece.
type Piece struct {
	Color  string `json:"color"`
	IsKing bool   `json:"isKing"`
}

// Board is rows of cells, row 0 first. Empty cells are null.
type Board [][]*Piece

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func BoardFrom(b *engine.Board) Board {
	if b == nil {
		return nil
	}
	out := make(Board, engine.Size)
	for row := range b {
		out[row] = make([]*Piece, engine.Size)
		for col, p := range b[row] {
			if p != nil {
				out[row][col] = &Piece{Color: string(p.Owner), IsKing: p.Rank == engine.King}
			}
		}
	}
	return out
}

// PositionFrom returns nil for a nil position.
func PositionFrom(p *engine.Position) *Position {
	if p == nil {
		return nil
	}
	return &Position{Row: p.Row, Col: p.Col}
}

// Seat is a seated player as shown to HTTP clients. Connection ids are not
// exposed.
type Seat struct {
	Side  string `json:"side"`
	Ready bool   `json:"ready"`
}

// RoomSnapshot is the public view of a room served by GET /rooms/{code}.
type RoomSnapshot struct {
	Code               string    `json:"code"`
	State              string    `json:"state"`
	Board              Board     `json:"board"`
	Turn               string    `json:"turn"`
	Seats              []Seat    `json:"seats"`
	Spectators         int       `json:"spectators"`
	Winner             string    `json:"winner,omitempty"`
	ForcedContinuation *Position `json:"forcedContinuation"`
	MoveCount          int       `json:"moveCount"`
	CreatedAt          time.Time `json:"createdAt"`
}

type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
