package types

import (
	"errors"
	"testing"

	"github.com/DoyleJ11/checkers-server/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Valid(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Request
	}{
		{
			name: "create",
			in:   `{"id":1,"type":"create-room"}`,
			want: CreateRoomRequest{},
		},
		{
			name: "join normalizes the code",
			in:   `{"id":2,"type":"join-room","code":"  abc123 "}`,
			want: JoinRoomRequest{Code: "ABC123"},
		},
		{
			name: "ready",
			in:   `{"id":3,"type":"player-ready","code":"ABC123"}`,
			want: ReadyRequest{Code: "ABC123"},
		},
		{
			name: "leave",
			in:   `{"id":4,"type":"leave-room","code":"abc123"}`,
			want: LeaveRequest{Code: "ABC123"},
		},
		{
			name: "move with zero coordinates",
			in:   `{"id":5,"type":"move","code":"ABC123","from":{"row":1,"col":0},"to":{"row":0,"col":1}}`,
			want: MoveRequest{Code: "ABC123", From: engine.Position{Row: 1, Col: 0}, To: engine.Position{Row: 0, Col: 1}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cm, req, err := Decode([]byte(tc.in))
			require.NoError(t, err)
			assert.Equal(t, tc.want, req)
			assert.Equal(t, tc.want.Event(), cm.Type)
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		wantID int64
	}{
		{name: "bad json", in: `{"id":`},
		{name: "unknown type", in: `{"id":9,"type":"resign","code":"ABC123"}`, wantID: 9},
		{name: "missing code", in: `{"id":10,"type":"join-room"}`, wantID: 10},
		{name: "blank code", in: `{"id":11,"type":"player-ready","code":"   "}`, wantID: 11},
		{name: "move without from", in: `{"id":12,"type":"move","code":"ABC123","to":{"row":4,"col":3}}`, wantID: 12},
		{name: "move missing col", in: `{"id":13,"type":"move","code":"ABC123","from":{"row":5},"to":{"row":4,"col":3}}`, wantID: 13},
		{name: "move off the board", in: `{"id":14,"type":"move","code":"ABC123","from":{"row":5,"col":2},"to":{"row":4,"col":8}}`, wantID: 14},
		{name: "wrong field type", in: `{"id":15,"type":"move","code":"ABC123","from":{"row":"5","col":2}}`, wantID: 15},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cm, req, err := Decode([]byte(tc.in))
			assert.Nil(t, req)
			if !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("want ErrMalformedPayload, got %v", err)
			}
			assert.ErrorIs(t, err, engine.ErrInvalidPiece)
			assert.Equal(t, tc.wantID, cm.ID)
		})
	}
}
