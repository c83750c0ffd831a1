package engine

// Side is one of the two players. Red owns rows 5-7 at the start and
// moves first.
type Side string

const (
	Red   Side = "red"
	Black Side = "black"
)

func (s Side) Valid() bool { return s == Red || s == Black }

func (s Side) Opponent() Side {
	if s == Red {
		return Black
	}
	return Red
}

// FirstToMove is fixed for this rule set: the room creator plays Red.
const FirstToMove = Red

// Forward is the row delta a man of side s is allowed to travel.
func Forward(s Side) int {
	if s == Red {
		return -1
	}
	return 1
}

// PromotionRow is the far rank for side s.
func PromotionRow(s Side) int {
	if s == Red {
		return 0
	}
	return Size - 1
}

type delta struct{ dr, dc int }

var (
	kingDirs  = []delta{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	redDirs   = []delta{{-1, -1}, {-1, 1}}
	blackDirs = []delta{{1, -1}, {1, 1}}
)

// directions returns the unit diagonals a piece may travel along. Men get
// the two forward diagonals, kings all four. Jumps use the same set doubled.
func directions(p Piece) []delta {
	if p.Rank == King {
		return kingDirs
	}
	if p.Owner == Red {
		return redDirs
	}
	return blackDirs
}
