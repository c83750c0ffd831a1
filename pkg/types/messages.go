package types

// Server -> client events. Every request gets exactly one Ack sent to the
// requester; the rest are broadcast to everyone in the room.
const (
	EventAck         = "ack"
	EventRoomUpdate  = "room-update"
	EventReadyUpdate = "ready-update"
	EventRoomStarted = "room-started"
	EventStateUpdate = "state-update"
	EventGameOver    = "game-over"
	EventPlayerLeft  = "player-left"
)

// Event is anything the server writes to a connection.
type Event interface{ EventType() string }

type Ack struct {
	Type    string `json:"type"`
	ID      int64  `json:"id"`
	Event   string `json:"event"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`

	Code               string    `json:"code,omitempty"`
	Side               string    `json:"side,omitempty"`
	Board              Board     `json:"board,omitempty"`
	Turn               string    `json:"turn,omitempty"`
	Started            *bool     `json:"started,omitempty"`
	State              string    `json:"state,omitempty"`
	Winner             string    `json:"winner,omitempty"`
	ForcedContinuation *Position `json:"forcedContinuation,omitempty"`
}

func (Ack) EventType() string { return EventAck }

// NewAck returns a successful ack for the request id and event name.
func NewAck(id int64, event string) Ack {
	return Ack{Type: EventAck, ID: id, Event: event, Success: true}
}

// NewNack returns a failed ack carrying an error code and readable message.
func NewNack(id int64, event, code, message string) Ack {
	return Ack{Type: EventAck, ID: id, Event: event, Error: code, Message: message}
}

type Player struct {
	Side  string `json:"side"`
	Ready bool   `json:"ready"`
}

type RoomUpdate struct {
	Type    string   `json:"type"`
	Code    string   `json:"code"`
	Players []Player `json:"players"`
	Board   Board    `json:"board"`
	Turn    string   `json:"turn"`
	Started bool     `json:"started"`
}

func (RoomUpdate) EventType() string { return EventRoomUpdate }

type ReadyUpdate struct {
	Type       string `json:"type"`
	Code       string `json:"code"`
	RedReady   bool   `json:"redReady"`
	BlackReady bool   `json:"blackReady"`
}

func (ReadyUpdate) EventType() string { return EventReadyUpdate }

type RoomStarted struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Board   Board  `json:"board"`
	Turn    string `json:"turn"`
	Message string `json:"message,omitempty"`
}

func (RoomStarted) EventType() string { return EventRoomStarted }

type StateUpdate struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Board Board  `json:"board"`
	Turn  string `json:"turn"`
	// Always present; null when no capture chain is pending.
	ForcedContinuation *Position `json:"forcedContinuation"`
	Message            string    `json:"message,omitempty"`
}

func (StateUpdate) EventType() string { return EventStateUpdate }

type GameOver struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Winner  string `json:"winner"`
	Board   Board  `json:"board"`
	Message string `json:"message,omitempty"`
}

func (GameOver) EventType() string { return EventGameOver }

type PlayerLeft struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Side    string `json:"side"`
	Message string `json:"message,omitempty"`
}

func (PlayerLeft) EventType() string { return EventPlayerLeft }
