package hub

import (
	"github.com/DoyleJ11/checkers-server/internal/archive"
	"github.com/DoyleJ11/checkers-server/internal/lobby"
	pkgtypes "github.com/DoyleJ11/checkers-server/pkg/types"
)

func snapshotOf(room *lobby.Room) pkgtypes.RoomSnapshot {
	snap := pkgtypes.RoomSnapshot{
		Code:               room.Code,
		State:              string(room.State),
		Board:              pkgtypes.BoardFrom(room.Board),
		Turn:               string(room.Turn),
		Seats:              make([]pkgtypes.Seat, 0, 2),
		Spectators:         len(room.Spectators),
		Winner:             string(room.Winner),
		ForcedContinuation: pkgtypes.PositionFrom(room.ForcedContinuation),
		MoveCount:          len(room.Moves),
		CreatedAt:          room.CreatedAt,
	}
	for _, s := range room.Seats {
		if s != nil {
			snap.Seats = append(snap.Seats, pkgtypes.Seat{Side: string(s.Side), Ready: s.Ready})
		}
	}
	return snap
}

func playersOf(room *lobby.Room) []pkgtypes.Player {
	out := make([]pkgtypes.Player, 0, 2)
	for _, s := range room.Seats {
		if s != nil {
			out = append(out, pkgtypes.Player{Side: string(s.Side), Ready: s.Ready})
		}
	}
	return out
}

func matchOf(room *lobby.Room) archive.Match {
	m := archive.Match{
		Code:      room.Code,
		Winner:    room.Winner,
		StartedAt: room.StartedAt,
		EndedAt:   room.EndedAt,
		Moves:     make([]archive.Move, 0, len(room.Moves)),
	}
	for _, mv := range room.Moves {
		m.Moves = append(m.Moves, archive.Move{
			Side:     mv.Side,
			From:     mv.From,
			To:       mv.To,
			Captured: mv.Captured,
			Promoted: mv.Promoted,
			PlayedAt: mv.At,
		})
	}
	return m
}
