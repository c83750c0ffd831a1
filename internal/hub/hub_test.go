package hub

import (
	"context"
	"testing"
	"time"

	"github.com/DoyleJ11/checkers-server/internal/lobby"
	"github.com/DoyleJ11/checkers-server/internal/types"
	pkgtypes "github.com/DoyleJ11/checkers-server/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) (*Hub, *fakePub) {
	t.Helper()
	pub := &fakePub{}
	c := NewCoordinator(lobby.NewRegistry(codeSeq()), pub, nil, nil)
	h := NewHub(context.Background(), c, 8)
	t.Cleanup(h.Shutdown)
	return h, pub
}

func withTimeout(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestHub_SubmitAndSnapshot(t *testing.T) {
	h, _ := newTestHub(t)
	ctx := withTimeout(t)

	ack, err := h.Submit(ctx, "c1", 1, types.CreateRoomRequest{})
	require.NoError(t, err)
	require.True(t, ack.Success)

	ack, err = h.Submit(ctx, "c2", 2, types.JoinRoomRequest{Code: ack.Code})
	require.NoError(t, err)
	assert.Equal(t, "black", ack.Side)

	snap, err := h.Room(ctx, ack.Code)
	require.NoError(t, err)
	assert.Len(t, snap.Seats, 2)
	assert.Equal(t, "waiting", snap.State)

	_, err = h.Room(ctx, "NOPE00")
	assert.ErrorIs(t, err, lobby.ErrRoomNotFound)
}

func TestHub_NilRequestIsRejected(t *testing.T) {
	h, _ := newTestHub(t)
	reply := make(chan pkgtypes.Ack, 1)
	h.Inbox() <- Submit{ConnID: "c1", ID: 3, Reply: reply}

	select {
	case ack := <-reply:
		assert.False(t, ack.Success)
		assert.Equal(t, CodeInvalidPiece, ack.Error)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for ack")
	}
}

func TestHub_DisconnectIsOrderedBeforeLaterRequests(t *testing.T) {
	h, pub := newTestHub(t)
	ctx := withTimeout(t)

	ack, err := h.Submit(ctx, "c1", 1, types.CreateRoomRequest{})
	require.NoError(t, err)
	code := ack.Code
	_, err = h.Submit(ctx, "c2", 2, types.JoinRoomRequest{Code: code})
	require.NoError(t, err)
	pub.take()

	h.Disconnect("c2")
	snap, err := h.Room(ctx, code)
	require.NoError(t, err)
	assert.Len(t, snap.Seats, 1)

	events := pub.take()
	require.Len(t, events, 1)
	assert.Equal(t, []string{"c1"}, events[0].to)
	assert.Equal(t, pkgtypes.EventPlayerLeft, events[0].ev.EventType())

	h.Disconnect("c1")
	_, err = h.Room(ctx, code)
	assert.ErrorIs(t, err, lobby.ErrRoomNotFound)
}

func TestHub_ClosedHubRejects(t *testing.T) {
	h, _ := newTestHub(t)
	h.Shutdown()

	_, err := h.Submit(withTimeout(t), "c1", 1, types.CreateRoomRequest{})
	assert.ErrorIs(t, err, ErrHubClosed)

	select {
	case <-h.Done():
	default:
		t.Fatal("Done must be closed after Shutdown")
	}
}

func TestHub_ShutdownMessage(t *testing.T) {
	h, _ := newTestHub(t)
	h.Inbox() <- ShutdownHub{}

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
}
