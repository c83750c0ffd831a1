package archive

import (
	"context"
	"time"

	"github.com/DoyleJ11/checkers-server/internal/obslog"
	"go.uber.org/zap"
)

const saveTimeout = 5 * time.Second

// Writer persists matches off the hub goroutine. Record never blocks.
type Writer struct {
	store Store
	queue chan Match
}

func NewWriter(store Store, size int) *Writer {
	if size <= 0 {
		size = 32
	}
	return &Writer{store: store, queue: make(chan Match, size)}
}

// Record queues m for storage. It reports false when the queue is full and
// the match was dropped.
func (w *Writer) Record(m Match) bool {
	select {
	case w.queue <- m:
		return true
	default:
		obslog.L().Warn("archive_queue_full", zap.String("code", m.Code))
		return false
	}
}

// Run saves queued matches until ctx is done, then drains what is left.
func (w *Writer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return nil
		case m := <-w.queue:
			w.save(m)
		}
	}
}

func (w *Writer) drain() {
	for {
		select {
		case m := <-w.queue:
			w.save(m)
		default:
			return
		}
	}
}

// save runs on its own deadline so matches queued before shutdown still land.
func (w *Writer) save(m Match) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := w.store.SaveMatch(ctx, m); err != nil {
		obslog.L().Error("archive_write_error", zap.String("code", m.Code), zap.Error(err))
		return
	}
	obslog.L().Info("archive_write", zap.String("code", m.Code), zap.Int("moves", len(m.Moves)))
}
