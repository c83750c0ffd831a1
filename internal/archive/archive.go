package archive

import (
	"context"
	"time"

	"github.com/DoyleJ11/checkers-server/internal/engine"
)

// Match is a finished game handed off for storage.
type Match struct {
	Code      string
	Winner    engine.Side
	Moves     []Move
	StartedAt time.Time
	EndedAt   time.Time
}

type Move struct {
	Side     engine.Side
	From     engine.Position
	To       engine.Position
	Captured bool
	Promoted bool
	PlayedAt time.Time
}

type Store interface {
	SaveMatch(ctx context.Context, m Match) error
	Close() error
}

// NopStore discards everything. Used when no database is configured.
type NopStore struct{}

func (NopStore) SaveMatch(context.Context, Match) error { return nil }
func (NopStore) Close() error                          { return nil }
