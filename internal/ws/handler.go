package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/DoyleJ11/checkers-server/internal/hub"
	"github.com/DoyleJ11/checkers-server/internal/obslog"
	"github.com/DoyleJ11/checkers-server/internal/types"
	pkgtypes "github.com/DoyleJ11/checkers-server/pkg/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

type Options struct {
	// OriginPatterns are host patterns allowed to open a socket from a
	// browser, e.g. "localhost:5173".
	OriginPatterns []string
	PingInterval   time.Duration
	WriteTimeout   time.Duration
}

func (o Options) withDefaults() Options {
	if o.PingInterval <= 0 {
		o.PingInterval = 25 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 5 * time.Second
	}
	return o
}

// Handler upgrades the request and pumps frames between the socket and the
// hub. Each connection gets a fresh id; dropping the socket removes that id
// from every room.
func Handler(h *hub.Hub, sb *Switchboard, opts Options) http.HandlerFunc {
	opts = opts.withDefaults()
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			obslog.L().Debug("conn_accept_error", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		connID := uuid.NewString()
		out := sb.Register(connID)
		obslog.L().Info("conn_open", zap.String("conn_id", connID), zap.String("remote", r.RemoteAddr))

		ctx, cancel := context.WithCancel(r.Context())
		defer func() {
			cancel()
			h.Disconnect(connID)
			sb.Unregister(connID)
			obslog.L().Info("conn_close", zap.String("conn_id", connID))
		}()

		go writeLoop(ctx, cancel, conn, out, opts)

		// Reader loop
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					if !errors.Is(err, context.Canceled) {
						obslog.L().Debug("conn_read_error", zap.String("conn_id", connID), zap.Error(err))
					}
				}
				return
			}

			cm, req, err := types.Decode(data)
			if err != nil {
				sb.Send(connID, h.Nack(cm.ID, cm.Type, err))
				continue
			}

			ack, err := h.Submit(ctx, connID, cm.ID, req)
			if err != nil {
				return
			}
			sb.Send(connID, ack)
		}
	}
}

func writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, out <-chan pkgtypes.Event, opts Options) {
	defer cancel()
	ticker := time.NewTicker(opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-out:
			if !ok {
				// Dropped for being slow, or the server is shutting down.
				_ = conn.Close(websocket.StatusGoingAway, "closing")
				return
			}
			wctx, wcancel := context.WithTimeout(ctx, opts.WriteTimeout)
			err := wsjson.Write(wctx, conn, ev)
			wcancel()
			if err != nil {
				return
			}

		case <-ticker.C:
			pctx, pcancel := context.WithTimeout(ctx, opts.WriteTimeout)
			err := conn.Ping(pctx)
			pcancel()
			if err != nil {
				return
			}
		}
	}
}
