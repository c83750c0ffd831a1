package lobby

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/DoyleJ11/checkers-server/internal/engine"
)

var ErrRoomNotFound = errors.New("room not found")
var ErrNotAPlayer = errors.New("not a player in this room")
var ErrGameNotStarted = errors.New("game has not started")

// maxCodeAttempts bounds the collision loop in CreateRoom. With the default
// code space a second attempt is already rare.
const maxCodeAttempts = 100

// Registry is the process-wide store of live rooms keyed by code. It is not
// safe for concurrent use; the hub owns it.
type Registry struct {
	rooms map[string]*Room
	gen   func() (string, error)
	now   func() time.Time
}

func NewRegistry(gen func() (string, error)) *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		gen:   gen,
		now:   time.Now,
	}
}

// SetClock overrides the time source used for room timestamps.
func (r *Registry) SetClock(now func() time.Time) { r.now = now }

// CreateRoom allocates a fresh code and seats connID as Red.
func (r *Registry) CreateRoom(connID string) (*Room, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := r.gen()
		if err != nil {
			return nil, fmt.Errorf("generate room code: %w", err)
		}
		if _, taken := r.rooms[code]; taken {
			continue
		}
		room := newRoom(code, r.now())
		room.Seats[seatIndex(engine.Red)] = &Seat{ConnID: connID, Side: engine.Red}
		r.rooms[code] = room
		return room, nil
	}
	return nil, fmt.Errorf("no free room code after %d attempts", maxCodeAttempts)
}

func (r *Registry) Get(code string) (*Room, error) {
	room, ok := r.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

type Joined struct {
	Room *Room
	Role Role
	// NewSeat is true when this call took a free seat.
	NewSeat bool
}

// JoinRoom seats connID on a free side while the room is waiting for
// players, Black first. Everyone else watches. Joining a room you are
// already in returns your current role.
func (r *Registry) JoinRoom(code, connID string) (Joined, error) {
	room, err := r.Get(code)
	if err != nil {
		return Joined{}, err
	}
	if role, ok := room.RoleOf(connID); ok {
		return Joined{Room: room, Role: role}, nil
	}

	if room.State == StateWaiting {
		for _, side := range []engine.Side{engine.Black, engine.Red} {
			if room.Seat(side) == nil {
				room.Seats[seatIndex(side)] = &Seat{ConnID: connID, Side: side}
				return Joined{Room: room, Role: roleFor(side), NewSeat: true}, nil
			}
		}
	}

	room.Spectators[connID] = struct{}{}
	return Joined{Room: room, Role: RoleSpectator}, nil
}

// MarkReady flags connID's seat ready. Outside the waiting state it changes
// nothing.
func (r *Registry) MarkReady(code, connID string) (*Room, error) {
	room, err := r.Get(code)
	if err != nil {
		return nil, err
	}
	seat := room.SeatOf(connID)
	if seat == nil {
		return nil, ErrNotAPlayer
	}
	if room.State == StateWaiting {
		seat.Ready = true
	}
	return room, nil
}

// Departure describes the effect of removing one connection from one room.
type Departure struct {
	Code      string
	Side      engine.Side
	WasSeated bool
	WasMember bool
	// RoomDeleted is set when the last seat emptied. Room is then detached
	// from the registry but still readable.
	RoomDeleted bool
	Room        *Room
}

// RemoveConnection drops connID's seat or spectator entry. A connection
// absent from the room is a no-op. The room is deleted exactly when its
// last seat empties.
func (r *Registry) RemoveConnection(code, connID string) (Departure, error) {
	room, err := r.Get(code)
	if err != nil {
		return Departure{}, err
	}
	d := Departure{Code: code, Room: room}

	if seat := room.SeatOf(connID); seat != nil {
		room.Seats[seatIndex(seat.Side)] = nil
		d.Side = seat.Side
		d.WasSeated = true
		d.WasMember = true
		if room.SeatCount() == 0 {
			delete(r.rooms, code)
			d.RoomDeleted = true
		}
		return d, nil
	}

	if _, ok := room.Spectators[connID]; ok {
		delete(room.Spectators, connID)
		d.WasMember = true
	}
	return d, nil
}

// RemoveEverywhere removes connID from every room it belongs to, in code
// order. There is no reverse index, so this scans all live rooms.
func (r *Registry) RemoveEverywhere(connID string) []Departure {
	var out []Departure
	for _, code := range r.Codes() {
		room := r.rooms[code]
		if _, ok := room.RoleOf(connID); !ok {
			continue
		}
		d, err := r.RemoveConnection(code, connID)
		if err == nil {
			out = append(out, d)
		}
	}
	return out
}

func (r *Registry) Len() int { return len(r.rooms) }

// Codes returns the live room codes sorted.
func (r *Registry) Codes() []string {
	out := make([]string, 0, len(r.rooms))
	for code := range r.rooms {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
