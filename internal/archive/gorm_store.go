package archive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type matchRow struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code       string    `gorm:"size:16;index"`
	Winner     string    `gorm:"size:8"`
	MoveCount  int
	StartedAt  time.Time
	EndedAt    time.Time
	DurationMS int64
	CreatedAt  time.Time
	Moves      []moveRow `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE;"`
}

func (matchRow) TableName() string { return "matches" }

type moveRow struct {
	ID       uint      `gorm:"primaryKey"`
	MatchID  uuid.UUID `gorm:"type:uuid;index"`
	Number   int
	Side     string `gorm:"size:8"`
	FromRow  int
	FromCol  int
	ToRow    int
	ToCol    int
	Captured bool
	Promoted bool
	PlayedAt time.Time
}

func (moveRow) TableName() string { return "match_moves" }

// GormStore writes finished matches to postgres.
type GormStore struct {
	db *gorm.DB
}

func OpenGormStore(ctx context.Context, databaseURL string) (*GormStore, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(8)
	sqlDB.SetMaxIdleConns(4)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&matchRow{}, &moveRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) SaveMatch(ctx context.Context, m Match) error {
	row := toRow(m)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("save match %s: %w", m.Code, err)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRow(m Match) matchRow {
	id := uuid.New()
	row := matchRow{
		ID:        id,
		Code:      m.Code,
		Winner:    string(m.Winner),
		MoveCount: len(m.Moves),
		StartedAt: m.StartedAt,
		EndedAt:   m.EndedAt,
		Moves:     make([]moveRow, 0, len(m.Moves)),
	}
	if d := m.EndedAt.Sub(m.StartedAt).Milliseconds(); d > 0 {
		row.DurationMS = d
	}
	for i, mv := range m.Moves {
		row.Moves = append(row.Moves, moveRow{
			MatchID:  id,
			Number:   i + 1,
			Side:     string(mv.Side),
			FromRow:  mv.From.Row,
			FromCol:  mv.From.Col,
			ToRow:    mv.To.Row,
			ToCol:    mv.To.Col,
			Captured: mv.Captured,
			Promoted: mv.Promoted,
			PlayedAt: mv.PlayedAt,
		})
	}
	return row
}
