package lobby

import (
	"errors"
	"testing"
	"time"

	"github.com/DoyleJ11/checkers-server/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqCodes hands out the given codes in order, then fails.
func seqCodes(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		if i >= len(codes) {
			return "", errors.New("out of codes")
		}
		c := codes[i]
		i++
		return c, nil
	}
}

func constCode(code string) func() (string, error) {
	return func() (string, error) { return code, nil }
}

func TestCreateRoom_SeatsCreatorAsRed(t *testing.T) {
	reg := NewRegistry(seqCodes("AAAAAA"))
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	reg.SetClock(func() time.Time { return fixed })

	room, err := reg.CreateRoom("c1")
	require.NoError(t, err)

	assert.Equal(t, "AAAAAA", room.Code)
	assert.Equal(t, StateWaiting, room.State)
	assert.Equal(t, fixed, room.CreatedAt)
	require.NotNil(t, room.Seat(engine.Red))
	assert.Equal(t, "c1", room.Seat(engine.Red).ConnID)
	assert.Nil(t, room.Seat(engine.Black))
	assert.Equal(t, 1, reg.Len())
}

func TestCreateRoom_RetriesOnCollision(t *testing.T) {
	reg := NewRegistry(seqCodes("AAAAAA", "AAAAAA", "BBBBBB"))

	_, err := reg.CreateRoom("c1")
	require.NoError(t, err)
	room, err := reg.CreateRoom("c2")
	require.NoError(t, err)

	assert.Equal(t, "BBBBBB", room.Code)
	assert.Equal(t, []string{"AAAAAA", "BBBBBB"}, reg.Codes())
}

func TestCreateRoom_GivesUp(t *testing.T) {
	reg := NewRegistry(constCode("AAAAAA"))
	_, err := reg.CreateRoom("c1")
	require.NoError(t, err)

	_, err = reg.CreateRoom("c2")
	assert.Error(t, err)
	assert.Equal(t, 1, reg.Len())
}

func TestJoinRoom_RoundTripAssignsBlack(t *testing.T) {
	reg := NewRegistry(seqCodes("ROOM01"))
	room, err := reg.CreateRoom("creator")
	require.NoError(t, err)

	j, err := reg.JoinRoom(room.Code, "joiner")
	require.NoError(t, err)

	assert.Equal(t, RoleBlack, j.Role)
	assert.True(t, j.NewSeat)
	assert.Equal(t, engine.Red, room.SeatOf("creator").Side)
	assert.Equal(t, engine.Black, room.SeatOf("joiner").Side)
}

func TestJoinRoom_Roles(t *testing.T) {
	reg := NewRegistry(seqCodes("ROOM01"))
	room, _ := reg.CreateRoom("red")
	_, _ = reg.JoinRoom(room.Code, "black")

	cases := []struct {
		name     string
		conn     string
		wantRole Role
		wantNew  bool
	}{
		{name: "third connection watches", conn: "viewer", wantRole: RoleSpectator},
		{name: "creator rejoining keeps seat", conn: "red", wantRole: RoleRed},
		{name: "joiner rejoining keeps seat", conn: "black", wantRole: RoleBlack},
		{name: "spectator rejoining stays spectator", conn: "viewer", wantRole: RoleSpectator},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			j, err := reg.JoinRoom(room.Code, tc.conn)
			require.NoError(t, err)
			assert.Equal(t, tc.wantRole, j.Role)
			assert.Equal(t, tc.wantNew, j.NewSeat)
		})
	}
	assert.Len(t, room.Spectators, 1)
	assert.Len(t, room.Members(), 3)
}

func TestJoinRoom_UnknownCode(t *testing.T) {
	reg := NewRegistry(seqCodes("ROOM01"))
	_, err := reg.JoinRoom("NOPE00", "c1")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestJoinRoom_FreeRedSeatRefilledWhileWaiting(t *testing.T) {
	reg := NewRegistry(seqCodes("ROOM01"))
	room, _ := reg.CreateRoom("red")
	_, _ = reg.JoinRoom(room.Code, "black")

	_, err := reg.RemoveConnection(room.Code, "red")
	require.NoError(t, err)

	j, err := reg.JoinRoom(room.Code, "late")
	require.NoError(t, err)
	assert.Equal(t, RoleRed, j.Role)
}

func TestJoinRoom_InProgressJoinerWatches(t *testing.T) {
	reg := NewRegistry(seqCodes("ROOM01"))
	room, _ := reg.CreateRoom("red")
	_, _ = reg.JoinRoom(room.Code, "black")
	_, _ = reg.MarkReady(room.Code, "red")
	_, _ = reg.MarkReady(room.Code, "black")
	require.NoError(t, room.Start(time.Now()))

	// Red leaves mid-game; the free seat is not offered to newcomers.
	_, _ = reg.RemoveConnection(room.Code, "red")
	j, err := reg.JoinRoom(room.Code, "late")
	require.NoError(t, err)
	assert.Equal(t, RoleSpectator, j.Role)
}

func TestMarkReady(t *testing.T) {
	reg := NewRegistry(seqCodes("ROOM01"))
	room, _ := reg.CreateRoom("red")
	_, _ = reg.JoinRoom(room.Code, "black")
	_, _ = reg.JoinRoom(room.Code, "viewer")

	_, err := reg.MarkReady(room.Code, "viewer")
	assert.ErrorIs(t, err, ErrNotAPlayer)

	_, err = reg.MarkReady("NOPE00", "red")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = reg.MarkReady(room.Code, "red")
	require.NoError(t, err)
	assert.True(t, room.Seat(engine.Red).Ready)
	assert.False(t, room.BothReady())

	_, err = reg.MarkReady(room.Code, "black")
	require.NoError(t, err)
	assert.True(t, room.BothReady())
}

func TestRemoveConnection(t *testing.T) {
	reg := NewRegistry(seqCodes("ROOM01"))
	room, _ := reg.CreateRoom("red")
	_, _ = reg.JoinRoom(room.Code, "black")
	_, _ = reg.JoinRoom(room.Code, "viewer")

	d, err := reg.RemoveConnection(room.Code, "stranger")
	require.NoError(t, err)
	assert.False(t, d.WasMember)

	d, err = reg.RemoveConnection(room.Code, "viewer")
	require.NoError(t, err)
	assert.True(t, d.WasMember)
	assert.False(t, d.WasSeated)
	assert.Empty(t, room.Spectators)

	d, err = reg.RemoveConnection(room.Code, "red")
	require.NoError(t, err)
	assert.True(t, d.WasSeated)
	assert.Equal(t, engine.Red, d.Side)
	assert.False(t, d.RoomDeleted)

	// idempotent
	d, err = reg.RemoveConnection(room.Code, "red")
	require.NoError(t, err)
	assert.False(t, d.WasMember)

	d, err = reg.RemoveConnection(room.Code, "black")
	require.NoError(t, err)
	assert.True(t, d.RoomDeleted)

	_, err = reg.Get(room.Code)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	_, err = reg.RemoveConnection(room.Code, "black")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRemoveConnection_SpectatorsDoNotKeepRoomAlive(t *testing.T) {
	reg := NewRegistry(seqCodes("ROOM01"))
	room, _ := reg.CreateRoom("red")
	_, _ = reg.JoinRoom(room.Code, "black")
	_, _ = reg.JoinRoom(room.Code, "viewer")

	_, _ = reg.RemoveConnection(room.Code, "red")
	d, err := reg.RemoveConnection(room.Code, "black")
	require.NoError(t, err)
	assert.True(t, d.RoomDeleted)
	assert.Equal(t, 0, reg.Len())
}

func TestRemoveEverywhere(t *testing.T) {
	reg := NewRegistry(seqCodes("AAAAAA", "BBBBBB", "CCCCCC"))
	a, _ := reg.CreateRoom("alice")
	b, _ := reg.CreateRoom("bob")
	c, _ := reg.CreateRoom("carol")
	_, _ = reg.JoinRoom(a.Code, "bob")
	_, _ = reg.JoinRoom(c.Code, "bob")

	deps := reg.RemoveEverywhere("bob")
	require.Len(t, deps, 3)

	assert.Equal(t, "AAAAAA", deps[0].Code)
	assert.Equal(t, engine.Black, deps[0].Side)
	assert.False(t, deps[0].RoomDeleted)

	assert.Equal(t, "BBBBBB", deps[1].Code)
	assert.True(t, deps[1].RoomDeleted)

	assert.Equal(t, "CCCCCC", deps[2].Code)
	assert.False(t, deps[2].RoomDeleted)

	assert.Equal(t, []string{a.Code, c.Code}, reg.Codes())
	assert.Empty(t, reg.RemoveEverywhere("bob"))
	_ = b
}

func TestRoomTransitions(t *testing.T) {
	reg := NewRegistry(seqCodes("ROOM01"))
	room, _ := reg.CreateRoom("red")
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.ErrorIs(t, room.Start(now), ErrBadTransition, "needs both seats ready")

	_, _ = reg.JoinRoom(room.Code, "black")
	_, _ = reg.MarkReady(room.Code, "red")
	_, _ = reg.MarkReady(room.Code, "black")

	out := engine.Outcome{Board: engine.NewInitialBoard()}
	assert.ErrorIs(t, room.Advance(engine.Red, engine.Position{Row: 5, Col: 0}, engine.Position{Row: 4, Col: 1}, out, now), ErrGameNotStarted)
	assert.ErrorIs(t, room.Finish(engine.Red, now), ErrGameNotStarted)

	require.NoError(t, room.Start(now))
	assert.Equal(t, StateInProgress, room.State)
	assert.Equal(t, engine.Red, room.Turn)
	assert.Equal(t, now, room.StartedAt)
	assert.ErrorIs(t, room.Start(now), ErrBadTransition)

	// a continuation keeps the turn
	cont := engine.Position{Row: 3, Col: 4}
	require.NoError(t, room.Advance(engine.Red, engine.Position{Row: 5, Col: 2}, cont, engine.Outcome{
		Board:            engine.NewInitialBoard(),
		Captured:         true,
		MustContinueFrom: &cont,
	}, now))
	assert.Equal(t, engine.Red, room.Turn)
	require.NotNil(t, room.ForcedContinuation)
	assert.Equal(t, cont, *room.ForcedContinuation)

	require.NoError(t, room.Advance(engine.Red, cont, engine.Position{Row: 1, Col: 6}, engine.Outcome{
		Board:    engine.NewInitialBoard(),
		Captured: true,
	}, now))
	assert.Equal(t, engine.Black, room.Turn)
	assert.Nil(t, room.ForcedContinuation)
	assert.Len(t, room.Moves, 2)

	later := now.Add(time.Minute)
	require.NoError(t, room.Finish(engine.Red, later))
	assert.Equal(t, StateFinished, room.State)
	assert.Equal(t, engine.Red, room.Winner)
	assert.Equal(t, later, room.EndedAt)
	assert.ErrorIs(t, room.Finish(engine.Black, later), ErrGameNotStarted)
}
