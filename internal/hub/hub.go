package hub

import (
	"context"

	"github.com/DoyleJ11/checkers-server/internal/obslog"
	"github.com/DoyleJ11/checkers-server/internal/types"
	pkgtypes "github.com/DoyleJ11/checkers-server/pkg/types"
	"go.uber.org/zap"
)

type HubMsg interface{ isHubMsg() }

// Reply carries a result back from the hub goroutine.
type Reply[T any] struct {
	Value T
	Err   error
}

// Submit runs a client request. The ack comes back on Reply.
type Submit struct {
	ConnID string
	ID     int64
	Req    types.Request
	Reply  chan pkgtypes.Ack
}

// Disconnect removes a dropped connection from every room.
type Disconnect struct {
	ConnID string
}

type GetRoom struct {
	Code  string
	Reply chan Reply[pkgtypes.RoomSnapshot]
}

type ShutdownHub struct{}

func (Submit) isHubMsg()      {}
func (Disconnect) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (ShutdownHub) isHubMsg() {}

// Hub serialises every room mutation onto one goroutine. Events are handled
// to completion in arrival order.
type Hub struct {
	inbox  chan HubMsg
	coord  *Coordinator
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewHub(parent context.Context, coord *Coordinator, inboxSize int) *Hub {
	if inboxSize <= 0 {
		inboxSize = 64
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, inboxSize),
		coord:  coord,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Done is closed once the loop has exited.
func (h *Hub) Done() <-chan struct{} { return h.done }

func (h *Hub) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			obslog.L().Info("hub_stop")
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Submit:
				if msg.Req == nil {
					msg.Reply <- h.coord.Nack(msg.ID, "", types.ErrMalformedPayload)
					break
				}
				msg.Reply <- h.coord.Handle(msg.ConnID, msg.ID, msg.Req)

			case Disconnect:
				deps := h.coord.Disconnect(msg.ConnID)
				if len(deps) > 0 {
					obslog.L().Debug("conn_rooms_released", zap.String("conn_id", msg.ConnID), zap.Int("rooms", len(deps)))
				}

			case GetRoom:
				snap, err := h.coord.Snapshot(msg.Code)
				msg.Reply <- Reply[pkgtypes.RoomSnapshot]{Value: snap, Err: err}

			case ShutdownHub:
				h.cancel()
			}
		}
	}
}

func (h *Hub) send(ctx context.Context, m HubMsg) error {
	select {
	case h.inbox <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubClosed
	}
}

// Submit hands req to the hub and waits for the ack.
func (h *Hub) Submit(ctx context.Context, connID string, id int64, req types.Request) (pkgtypes.Ack, error) {
	reply := make(chan pkgtypes.Ack, 1)
	if err := h.send(ctx, Submit{ConnID: connID, ID: id, Req: req, Reply: reply}); err != nil {
		return pkgtypes.Ack{}, err
	}
	select {
	case ack := <-reply:
		return ack, nil
	case <-ctx.Done():
		return pkgtypes.Ack{}, ctx.Err()
	case <-h.done:
		return pkgtypes.Ack{}, ErrHubClosed
	}
}

// Disconnect queues removal of connID. It does not depend on the caller's
// context, which is usually already cancelled when a connection drops.
func (h *Hub) Disconnect(connID string) {
	if err := h.send(h.ctx, Disconnect{ConnID: connID}); err != nil {
		obslog.L().Debug("conn_disconnect_skipped", zap.String("conn_id", connID), zap.Error(err))
	}
}

func (h *Hub) Room(ctx context.Context, code string) (pkgtypes.RoomSnapshot, error) {
	reply := make(chan Reply[pkgtypes.RoomSnapshot], 1)
	if err := h.send(ctx, GetRoom{Code: code, Reply: reply}); err != nil {
		return pkgtypes.RoomSnapshot{}, err
	}
	select {
	case r := <-reply:
		return r.Value, r.Err
	case <-ctx.Done():
		return pkgtypes.RoomSnapshot{}, ctx.Err()
	case <-h.done:
		return pkgtypes.RoomSnapshot{}, ErrHubClosed
	}
}

// Nack builds a failed ack without going through the loop.
func (h *Hub) Nack(id int64, event string, err error) pkgtypes.Ack {
	return h.coord.Nack(id, event, err)
}

// Shutdown stops the loop and waits for it to exit.
func (h *Hub) Shutdown() {
	h.cancel()
	<-h.done
}
