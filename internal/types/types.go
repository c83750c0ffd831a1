package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/DoyleJ11/checkers-server/internal/engine"
)

// ErrMalformedPayload is reported to clients as an InvalidPiece rejection.
var ErrMalformedPayload = fmt.Errorf("malformed payload: %w", engine.ErrInvalidPiece)

// Client -> server event names.
const (
	TypeCreateRoom  = "create-room"
	TypeJoinRoom    = "join-room"
	TypePlayerReady = "player-ready"
	TypeMove        = "move"
	TypeLeaveRoom   = "leave-room"
)

// Square is a position as sent by clients. Pointers tell a missing field
// apart from zero.
type Square struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type ClientMessage struct {
	ID   int64   `json:"id"`
	Type string  `json:"type"`
	Code string  `json:"code,omitempty"`
	From *Square `json:"from,omitempty"`
	To   *Square `json:"to,omitempty"`
}

// Request is a validated client message.
type Request interface{ Event() string }

type CreateRoomRequest struct{}

type JoinRoomRequest struct{ Code string }

type ReadyRequest struct{ Code string }

type MoveRequest struct {
	Code string
	From engine.Position
	To   engine.Position
}

type LeaveRequest struct{ Code string }

func (CreateRoomRequest) Event() string { return TypeCreateRoom }
func (JoinRoomRequest) Event() string   { return TypeJoinRoom }
func (ReadyRequest) Event() string      { return TypePlayerReady }
func (MoveRequest) Event() string       { return TypeMove }
func (LeaveRequest) Event() string      { return TypeLeaveRoom }

// NormalizeCode upper-cases and trims a room code.
func NormalizeCode(code string) string { return strings.ToUpper(strings.TrimSpace(code)) }

// Decode parses one frame. The returned ClientMessage is filled as far as
// parsing got, so callers can still address an ack to its id and type.
func Decode(data []byte) (ClientMessage, Request, error) {
	var cm ClientMessage
	if err := json.Unmarshal(data, &cm); err != nil {
		return cm, nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	req, err := cm.Validate()
	return cm, req, err
}

func (cm ClientMessage) Validate() (Request, error) {
	if cm.Type == TypeCreateRoom {
		return CreateRoomRequest{}, nil
	}

	code := NormalizeCode(cm.Code)
	switch cm.Type {
	case TypeJoinRoom, TypePlayerReady, TypeMove, TypeLeaveRoom:
		if code == "" {
			return nil, fmt.Errorf("%w: missing room code", ErrMalformedPayload)
		}
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformedPayload, cm.Type)
	}

	switch cm.Type {
	case TypeJoinRoom:
		return JoinRoomRequest{Code: code}, nil
	case TypePlayerReady:
		return ReadyRequest{Code: code}, nil
	case TypeLeaveRoom:
		return LeaveRequest{Code: code}, nil
	}

	from, err := cm.From.position("from")
	if err != nil {
		return nil, err
	}
	to, err := cm.To.position("to")
	if err != nil {
		return nil, err
	}
	return MoveRequest{Code: code, From: from, To: to}, nil
}

var errMissingSquare = errors.New("missing square")

func (s *Square) position(field string) (engine.Position, error) {
	if s == nil || s.Row == nil || s.Col == nil {
		return engine.Position{}, fmt.Errorf("%w: %s: %v", ErrMalformedPayload, field, errMissingSquare)
	}
	p := engine.Position{Row: *s.Row, Col: *s.Col}
	if !p.InBounds() {
		return engine.Position{}, fmt.Errorf("%w: %s %v off the board", ErrMalformedPayload, field, p)
	}
	return p, nil
}
