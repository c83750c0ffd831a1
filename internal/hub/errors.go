package hub

import (
	"errors"

	"github.com/DoyleJ11/checkers-server/internal/engine"
	"github.com/DoyleJ11/checkers-server/internal/lobby"
)

var ErrNotYourTurn = errors.New("not your turn")
var ErrHubClosed = errors.New("hub closed")

// Error codes sent to clients in failed acks.
const (
	CodeRoomNotFound        = "RoomNotFound"
	CodeNotAPlayer          = "NotAPlayer"
	CodeNotYourTurn         = "NotYourTurn"
	CodeGameNotStarted      = "GameNotStarted"
	CodeInvalidPiece        = "InvalidPiece"
	CodeMustContinueCapture = "MustContinueCapture"
	CodeDestinationOccupied = "DestinationOccupied"
	CodeIllegalShape        = "IllegalShape"
	CodeWrongDirection      = "WrongDirection"
	CodeNoPieceToCapture    = "NoPieceToCapture"
	CodeMustCapture         = "MustCapture"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{lobby.ErrRoomNotFound, CodeRoomNotFound},
	{lobby.ErrNotAPlayer, CodeNotAPlayer},
	{ErrNotYourTurn, CodeNotYourTurn},
	{lobby.ErrGameNotStarted, CodeGameNotStarted},
	{engine.ErrMustContinueCapture, CodeMustContinueCapture},
	{engine.ErrDestinationOccupied, CodeDestinationOccupied},
	{engine.ErrIllegalShape, CodeIllegalShape},
	{engine.ErrWrongDirection, CodeWrongDirection},
	{engine.ErrNoPieceToCapture, CodeNoPieceToCapture},
	{engine.ErrMustCapture, CodeMustCapture},
	{engine.ErrInvalidPiece, CodeInvalidPiece},
}

// ErrorCode maps err to its client-facing code. Anything unrecognised,
// malformed payloads included, is an InvalidPiece rejection.
func ErrorCode(err error) string {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return CodeInvalidPiece
}
