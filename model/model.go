package model

const (
	Size           = 7
	WallsPerPlayer = 8
	MaxWalls       = 2 * WallsPerPlayer
)

type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

var Directions = [4]Direction{Up, Down, Left, Right}

type Capability int

const (
	Blocked Capability = iota
	Open
	OpenViaJump
)

type Position struct {
	Row, Col int
}

// Cell flags: WallV blocks the left edge, WallH the top edge.
type Cell struct {
	Occupied bool
	WallV    bool
	WallH    bool
}

type Wall struct {
	Position
	Orientation Orientation
}

type Player struct {
	ID             int
	Position       Position
	GoalRow        int
	WallsRemaining int
	Capability     [4]Capability
}

// Board is a value type: copying it gives an independent board.
type Board struct {
	Cells [Size][Size]Cell
	// anchors remembers where walls were placed, indexed by orientation
	anchors [2][Size][Size]bool
}
