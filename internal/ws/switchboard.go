package ws

import (
	"sync"

	"github.com/DoyleJ11/checkers-server/internal/obslog"
	pkgtypes "github.com/DoyleJ11/checkers-server/pkg/types"
	"go.uber.org/zap"
)

// Switchboard routes events to connection outboxes by connection id. Sends
// never block: a connection whose outbox is full is dropped and its outbox
// closed.
type Switchboard struct {
	mu      sync.Mutex
	clients map[string]chan pkgtypes.Event
	size    int
}

func NewSwitchboard(outboxSize int) *Switchboard {
	if outboxSize <= 0 {
		outboxSize = 16
	}
	return &Switchboard{clients: make(map[string]chan pkgtypes.Event), size: outboxSize}
}

// Register opens an outbox for connID.
func (s *Switchboard) Register(connID string) <-chan pkgtypes.Event {
	ch := make(chan pkgtypes.Event, s.size)
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.clients[connID]; ok {
		close(old)
	}
	s.clients[connID] = ch
	return ch
}

// Unregister closes connID's outbox. Unknown ids are ignored.
func (s *Switchboard) Unregister(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.clients[connID]; ok {
		close(ch)
		delete(s.clients, connID)
	}
}

// Publish implements hub.Publisher.
func (s *Switchboard) Publish(connIDs []string, ev pkgtypes.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range connIDs {
		s.deliverLocked(id, ev)
	}
}

// Send delivers ev to one connection and reports whether it was queued.
func (s *Switchboard) Send(connID string, ev pkgtypes.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deliverLocked(connID, ev)
}

func (s *Switchboard) deliverLocked(connID string, ev pkgtypes.Event) bool {
	ch, ok := s.clients[connID]
	if !ok {
		return false
	}
	select {
	case ch <- ev:
		return true
	default:
		obslog.L().Warn("conn_drop_slow", zap.String("conn_id", connID), zap.String("event", ev.EventType()))
		close(ch)
		delete(s.clients, connID)
		return false
	}
}

// CloseAll closes every outbox, ending all writer loops.
func (s *Switchboard) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.clients {
		close(ch)
		delete(s.clients, id)
	}
}

func (s *Switchboard) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
