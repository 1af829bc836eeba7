package model

// Color tells the display what a drawn thing means, not how it looks.
type Color int

const (
	ColorNone Color = iota
	ColorEmpty
	ColorOption
	ColorPlayer0
	ColorPlayer1
	ColorWall
	ColorWallValid
	ColorWallOverlap
	ColorWallTrap
	ColorWarning
	ColorText
)

func PlayerColor(id int) Color {
	if id == 0 {
		return ColorPlayer0
	}
	return ColorPlayer1
}

type NotificationKind int

const (
	HighlightCells NotificationKind = iota + 1
	DrawToken
	DrawWall
	ShowMessage
	UpdateSidePanel
	UpdateCountdown
)

type Notification struct {
	Kind    NotificationKind
	Cells   []Position
	Wall    Wall
	Color   Color
	Text    string
	Player  int
	Seconds int
}

type ServerMessage struct {
	Setup         []Setup
	Notifications []Notification
	// Refused carries the reason the last event of this player was refused.
	Refused string
}

type Setup struct {
	GameID    string
	PlayerKey int
	Players   [2]Player
	Walls     []Wall
	Active    int
	Countdown int
}
