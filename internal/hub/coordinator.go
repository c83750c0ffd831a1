package hub

import (
	"time"

	"github.com/DoyleJ11/checkers-server/internal/archive"
	"github.com/DoyleJ11/checkers-server/internal/engine"
	"github.com/DoyleJ11/checkers-server/internal/lobby"
	"github.com/DoyleJ11/checkers-server/internal/msgcat"
	"github.com/DoyleJ11/checkers-server/internal/obslog"
	"github.com/DoyleJ11/checkers-server/internal/types"
	pkgtypes "github.com/DoyleJ11/checkers-server/pkg/types"
	"go.uber.org/zap"
)

// Publisher delivers events to connections. It must not block.
type Publisher interface {
	Publish(connIDs []string, ev pkgtypes.Event)
}

// Recorder receives finished matches. It must not block.
type Recorder interface {
	Record(m archive.Match) bool
}

// Coordinator applies client requests to the registry and broadcasts the
// results. It is synchronous and not safe for concurrent use; Hub runs it on
// a single goroutine.
type Coordinator struct {
	reg *lobby.Registry
	pub Publisher
	rec Recorder
	cat *msgcat.Catalog
	now func() time.Time
}

// NewCoordinator wires the registry to its collaborators. rec and cat may be
// nil.
func NewCoordinator(reg *lobby.Registry, pub Publisher, rec Recorder, cat *msgcat.Catalog) *Coordinator {
	return &Coordinator{reg: reg, pub: pub, rec: rec, cat: cat, now: time.Now}
}

func (c *Coordinator) broadcast(room *lobby.Room, ev pkgtypes.Event) {
	c.pub.Publish(room.Members(), ev)
}

func (c *Coordinator) CreateRoom(connID string) (*lobby.Room, error) {
	room, err := c.reg.CreateRoom(connID)
	if err != nil {
		obslog.L().Error("room_create_error", zap.String("conn_id", connID), zap.Error(err))
		return nil, err
	}
	obslog.L().Info("room_create", zap.String("code", room.Code), zap.String("conn_id", connID))
	return room, nil
}

// Join seats or adds connID as a spectator. Filling the second seat
// broadcasts a room-update.
func (c *Coordinator) Join(code, connID string) (lobby.Joined, error) {
	j, err := c.reg.JoinRoom(code, connID)
	if err != nil {
		return lobby.Joined{}, err
	}
	obslog.L().Info("room_join",
		zap.String("code", code),
		zap.String("conn_id", connID),
		zap.String("role", string(j.Role)),
	)
	if j.NewSeat && j.Room.SeatCount() == 2 {
		c.broadcast(j.Room, pkgtypes.RoomUpdate{
			Type:    pkgtypes.EventRoomUpdate,
			Code:    j.Room.Code,
			Players: playersOf(j.Room),
			Board:   pkgtypes.BoardFrom(j.Room.Board),
			Turn:    string(j.Room.Turn),
			Started: j.Room.State != lobby.StateWaiting,
		})
	}
	return j, nil
}

// Ready marks connID's seat ready. The second ready seat starts the game;
// otherwise the room hears who is ready so far.
func (c *Coordinator) Ready(code, connID string) (*lobby.Room, error) {
	room, err := c.reg.MarkReady(code, connID)
	if err != nil {
		return nil, err
	}
	if room.State != lobby.StateWaiting {
		return room, nil
	}

	if room.BothReady() {
		if err := room.Start(c.now()); err != nil {
			return nil, err
		}
		obslog.L().Info("room_start", zap.String("code", room.Code))
		c.broadcast(room, pkgtypes.RoomStarted{
			Type:    pkgtypes.EventRoomStarted,
			Code:    room.Code,
			Board:   pkgtypes.BoardFrom(room.Board),
			Turn:    string(room.Turn),
			Message: c.cat.Lookup("room.started", map[string]string{"Turn": string(room.Turn)}, ""),
		})
		return room, nil
	}

	ev := pkgtypes.ReadyUpdate{Type: pkgtypes.EventReadyUpdate, Code: room.Code}
	if s := room.Seat(engine.Red); s != nil {
		ev.RedReady = s.Ready
	}
	if s := room.Seat(engine.Black); s != nil {
		ev.BlackReady = s.Ready
	}
	c.broadcast(room, ev)
	return room, nil
}

// Move validates and applies one move by connID. A rejected move changes
// nothing and broadcasts nothing.
func (c *Coordinator) Move(code, connID string, from, to engine.Position) (*lobby.Room, error) {
	room, err := c.reg.Get(code)
	if err != nil {
		return nil, err
	}
	if room.State != lobby.StateInProgress {
		return nil, lobby.ErrGameNotStarted
	}
	seat := room.SeatOf(connID)
	if seat == nil {
		return nil, lobby.ErrNotAPlayer
	}
	if seat.Side != room.Turn {
		return nil, ErrNotYourTurn
	}

	out, err := engine.ApplyMove(room.Board, from, to, seat.Side, room.ForcedContinuation)
	if err != nil {
		obslog.L().Debug("move_reject",
			zap.String("code", code),
			zap.String("side", string(seat.Side)),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
			zap.Error(err),
		)
		return nil, err
	}

	now := c.now()
	if err := room.Advance(seat.Side, from, to, out, now); err != nil {
		return nil, err
	}
	obslog.L().Debug("move_apply",
		zap.String("code", code),
		zap.String("side", string(seat.Side)),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Bool("captured", out.Captured),
		zap.Bool("promoted", out.Promoted),
	)

	if room.ForcedContinuation != nil {
		c.broadcast(room, c.stateUpdate(room, c.cat.Lookup("move.continue_capture", nil, "You must capture again!")))
		return room, nil
	}

	if winner, over := engine.EvaluateWinner(room.Board, room.Turn); over {
		if err := room.Finish(winner, now); err != nil {
			return nil, err
		}
		obslog.L().Info("game_over",
			zap.String("code", code),
			zap.String("winner", string(winner)),
			zap.Int("moves", len(room.Moves)),
		)
		c.broadcast(room, pkgtypes.GameOver{
			Type:    pkgtypes.EventGameOver,
			Code:    room.Code,
			Winner:  string(winner),
			Board:   pkgtypes.BoardFrom(room.Board),
			Message: c.cat.Lookup("game.over", map[string]string{"Winner": string(winner)}, ""),
		})
		if c.rec != nil {
			c.rec.Record(matchOf(room))
		}
		return room, nil
	}

	c.broadcast(room, c.stateUpdate(room, ""))
	return room, nil
}

func (c *Coordinator) stateUpdate(room *lobby.Room, message string) pkgtypes.StateUpdate {
	return pkgtypes.StateUpdate{
		Type:               pkgtypes.EventStateUpdate,
		Code:               room.Code,
		Board:              pkgtypes.BoardFrom(room.Board),
		Turn:               string(room.Turn),
		ForcedContinuation: pkgtypes.PositionFrom(room.ForcedContinuation),
		Message:            message,
	}
}

// Leave removes connID from one room.
func (c *Coordinator) Leave(code, connID string) (lobby.Departure, error) {
	d, err := c.reg.RemoveConnection(code, connID)
	if err != nil {
		return lobby.Departure{}, err
	}
	c.depart(connID, d)
	return d, nil
}

// Disconnect removes connID from every room it is in.
func (c *Coordinator) Disconnect(connID string) []lobby.Departure {
	deps := c.reg.RemoveEverywhere(connID)
	for _, d := range deps {
		c.depart(connID, d)
	}
	return deps
}

func (c *Coordinator) depart(connID string, d lobby.Departure) {
	if !d.WasSeated {
		return
	}
	if d.RoomDeleted {
		obslog.L().Info("room_delete", zap.String("code", d.Code), zap.String("conn_id", connID))
		return
	}
	obslog.L().Info("player_left",
		zap.String("code", d.Code),
		zap.String("conn_id", connID),
		zap.String("side", string(d.Side)),
	)
	c.broadcast(d.Room, pkgtypes.PlayerLeft{
		Type:    pkgtypes.EventPlayerLeft,
		Code:    d.Code,
		Side:    string(d.Side),
		Message: c.cat.Lookup("room.player_left", map[string]string{"Side": string(d.Side)}, ""),
	})
}

func (c *Coordinator) Snapshot(code string) (pkgtypes.RoomSnapshot, error) {
	room, err := c.reg.Get(code)
	if err != nil {
		return pkgtypes.RoomSnapshot{}, err
	}
	return snapshotOf(room), nil
}

// Handle runs one validated request and builds the requester's ack.
func (c *Coordinator) Handle(connID string, id int64, req types.Request) pkgtypes.Ack {
	event := req.Event()
	ack := pkgtypes.NewAck(id, event)

	switch r := req.(type) {
	case types.CreateRoomRequest:
		room, err := c.CreateRoom(connID)
		if err != nil {
			return c.Nack(id, event, err)
		}
		ack.Code = room.Code
		ack.Side = string(engine.Red)

	case types.JoinRoomRequest:
		j, err := c.Join(r.Code, connID)
		if err != nil {
			return c.Nack(id, event, err)
		}
		started := j.Room.State != lobby.StateWaiting
		ack.Code = j.Room.Code
		ack.Side = string(j.Role)
		ack.Board = pkgtypes.BoardFrom(j.Room.Board)
		ack.Turn = string(j.Room.Turn)
		ack.Started = &started
		ack.State = string(j.Room.State)
		ack.Winner = string(j.Room.Winner)
		ack.ForcedContinuation = pkgtypes.PositionFrom(j.Room.ForcedContinuation)

	case types.ReadyRequest:
		room, err := c.Ready(r.Code, connID)
		if err != nil {
			return c.Nack(id, event, err)
		}
		ack.Code = room.Code
		ack.State = string(room.State)

	case types.MoveRequest:
		room, err := c.Move(r.Code, connID, r.From, r.To)
		if err != nil {
			return c.Nack(id, event, err)
		}
		ack.Code = room.Code
		ack.Turn = string(room.Turn)
		ack.State = string(room.State)
		ack.Winner = string(room.Winner)
		ack.ForcedContinuation = pkgtypes.PositionFrom(room.ForcedContinuation)

	case types.LeaveRequest:
		if _, err := c.Leave(r.Code, connID); err != nil {
			return c.Nack(id, event, err)
		}
		ack.Code = r.Code

	default:
		return c.Nack(id, event, types.ErrMalformedPayload)
	}
	return ack
}

// Nack builds a failed ack for err. It only reads the catalog, so it is safe
// to call from any goroutine.
func (c *Coordinator) Nack(id int64, event string, err error) pkgtypes.Ack {
	code := ErrorCode(err)
	return pkgtypes.NewNack(id, event, code, c.cat.Lookup("errors."+code, nil, err.Error()))
}
