package lobby

import (
	"errors"
	"time"

	"github.com/DoyleJ11/checkers-server/internal/engine"
)

var ErrBadTransition = errors.New("transition not allowed in the current room state")

type State string

const (
	StateWaiting    State = "waiting"
	StateInProgress State = "in_progress"
	StateFinished   State = "finished"
)

// Role is what a connection is inside a room: one of the two sides or a
// spectator.
type Role string

const (
	RoleRed       Role = Role(engine.Red)
	RoleBlack     Role = Role(engine.Black)
	RoleSpectator Role = "spectator"
)

func roleFor(s engine.Side) Role { return Role(s) }

type Seat struct {
	ConnID string
	Side   engine.Side
	Ready  bool
}

type MoveRecord struct {
	From     engine.Position
	To       engine.Position
	Side     engine.Side
	Captured bool
	Promoted bool
	At       time.Time
}

// Room is the authoritative state of one game. It is only touched from the
// hub goroutine.
type Room struct {
	Code string
	// Seats[0] is Red, Seats[1] is Black. A nil entry is a free seat.
	Seats      [2]*Seat
	Spectators map[string]struct{}

	Board              *engine.Board
	Turn               engine.Side
	State              State
	Winner             engine.Side
	ForcedContinuation *engine.Position
	Moves              []MoveRecord

	CreatedAt time.Time
	StartedAt time.Time
	EndedAt   time.Time
}

func newRoom(code string, now time.Time) *Room {
	return &Room{
		Code:       code,
		Spectators: make(map[string]struct{}),
		Board:      engine.NewInitialBoard(),
		Turn:       engine.FirstToMove,
		State:      StateWaiting,
		CreatedAt:  now,
	}
}

func seatIndex(s engine.Side) int {
	if s == engine.Red {
		return 0
	}
	return 1
}

// Seat returns the seat for side, or nil when it is free.
func (r *Room) Seat(side engine.Side) *Seat { return r.Seats[seatIndex(side)] }

// SeatOf returns the seat held by connID, or nil.
func (r *Room) SeatOf(connID string) *Seat {
	for _, s := range r.Seats {
		if s != nil && s.ConnID == connID {
			return s
		}
	}
	return nil
}

func (r *Room) SeatCount() int {
	n := 0
	for _, s := range r.Seats {
		if s != nil {
			n++
		}
	}
	return n
}

// RoleOf reports connID's role and whether it belongs to the room at all.
func (r *Room) RoleOf(connID string) (Role, bool) {
	if s := r.SeatOf(connID); s != nil {
		return roleFor(s.Side), true
	}
	if _, ok := r.Spectators[connID]; ok {
		return RoleSpectator, true
	}
	return "", false
}

// Members lists every seated and spectating connection: seats first in
// Red, Black order, then spectators.
func (r *Room) Members() []string {
	out := make([]string, 0, 2+len(r.Spectators))
	for _, s := range r.Seats {
		if s != nil {
			out = append(out, s.ConnID)
		}
	}
	for id := range r.Spectators {
		out = append(out, id)
	}
	return out
}

func (r *Room) BothReady() bool {
	for _, s := range r.Seats {
		if s == nil || !s.Ready {
			return false
		}
	}
	return true
}

// Start moves a waiting room with both seats ready into play on a fresh
// board, creator's side first.
func (r *Room) Start(now time.Time) error {
	if r.State != StateWaiting || !r.BothReady() {
		return ErrBadTransition
	}
	r.State = StateInProgress
	r.Board = engine.NewInitialBoard()
	r.Turn = engine.FirstToMove
	r.ForcedContinuation = nil
	r.StartedAt = now
	return nil
}

// Advance stores an accepted move. When the outcome demands another capture
// the turn stays put and ForcedContinuation is set; otherwise the turn passes.
func (r *Room) Advance(side engine.Side, from, to engine.Position, out engine.Outcome, now time.Time) error {
	if r.State != StateInProgress {
		return ErrGameNotStarted
	}
	r.Board = out.Board
	r.Moves = append(r.Moves, MoveRecord{
		From:     from,
		To:       to,
		Side:     side,
		Captured: out.Captured,
		Promoted: out.Promoted,
		At:       now,
	})
	if out.MustContinueFrom != nil {
		at := *out.MustContinueFrom
		r.ForcedContinuation = &at
		return nil
	}
	r.ForcedContinuation = nil
	r.Turn = side.Opponent()
	return nil
}

// Finish ends the game. Finished is terminal.
func (r *Room) Finish(winner engine.Side, now time.Time) error {
	if r.State != StateInProgress {
		return ErrGameNotStarted
	}
	r.State = StateFinished
	r.Winner = winner
	r.ForcedContinuation = nil
	r.EndedAt = now
	return nil
}
