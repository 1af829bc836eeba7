package model

import "fmt"

type Event int

const (
	MoveUp Event = iota + 1
	MoveDown
	MoveLeft
	MoveRight
	ToggleWallMode
	ToggleOrientation
	Confirm
	TickElapsed
	TimeoutReached
	StartGame
	StopGame
)

type ClientMessage struct {
	Event Event
}

// Direction returns the direction carried by a move event.
func (e Event) Direction() (Direction, bool) {
	if e < MoveUp || e > MoveRight {
		return 0, false
	}
	return Direction(e - MoveUp), true
}

func (e Event) Name() string {
	switch e {
	case MoveUp:
		return "MOVE_UP"
	case MoveDown:
		return "MOVE_DOWN"
	case MoveLeft:
		return "MOVE_LEFT"
	case MoveRight:
		return "MOVE_RIGHT"
	case ToggleWallMode:
		return "TOGGLE_WALL_MODE"
	case ToggleOrientation:
		return "TOGGLE_ORIENTATION"
	case Confirm:
		return "CONFIRM"
	case TickElapsed:
		return "TICK"
	case TimeoutReached:
		return "TIMEOUT"
	case StartGame:
		return "START"
	case StopGame:
		return "STOP"
	default:
		return fmt.Sprintf("n/a:%d", e)
	}
}
