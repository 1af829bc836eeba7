package game

import (
	"errors"
	"fmt"

	"github.com/zucenko/quoridor/model"
)

var (
	ErrIllegalRelocation = errors.New("direction not open for the active player")
	ErrWallOverlap       = errors.New("wall overlaps another wall")
	ErrWallTrap          = errors.New("wall cuts the opponent off from its goal")
	ErrNoWallsAvailable  = errors.New("no walls left")
	ErrNotRunning        = errors.New("no game in progress")
	ErrAlreadyRunning    = errors.New("game already in progress")
	ErrWrongMode         = errors.New("input not valid in this mode")
	ErrOffBoard          = errors.New("wall would leave the board")
	ErrWrongPlayer       = errors.New("not this player's turn")
)

const noWallsText = "NO WALLS! Move token."

// DefaultWall is where a wall preview starts when entering wall mode.
var DefaultWall = model.Wall{Position: model.Position{Row: 3, Col: 4}, Orientation: model.Horizontal}

type State int

const (
	Idle State = iota
	AwaitingInput
	TurnEnding
	GameOver
)

func (s State) Name() string {
	switch s {
	case Idle:
		return "IDLE"
	case AwaitingInput:
		return "AWAITING_INPUT"
	case TurnEnding:
		return "TURN_ENDING"
	case GameOver:
		return "GAME_OVER"
	default:
		return fmt.Sprintf("n/a:%d", s)
	}
}

type Rules struct {
	TurnSeconds int
	// StrictTrapCheck also refuses walls that cut off the placing player.
	StrictTrapCheck bool
	// Layout replaces the standard starting position when set.
	Layout *model.Layout
}

func DefaultRules() Rules {
	return Rules{TurnSeconds: 20}
}

// Display receives what changed on the board and what it means.
type Display interface {
	HighlightCells(cells []model.Position, color model.Color)
	DrawToken(pos model.Position, color model.Color)
	DrawWall(w model.Wall, color model.Color)
	ShowMessage(text string, color model.Color)
	UpdateSidePanel(player int, text string)
	UpdateCountdown(seconds int)
}

// Timer delivers TickElapsed once a second while armed.
type Timer interface {
	Arm()
	Disarm()
}

// Move is one of TokenRelocation, WallPlacement or TimeoutSkip.
type Move interface {
	Mover() int
}

type TokenRelocation struct {
	Player   int
	From, To model.Position
}

type WallPlacement struct {
	Player  int
	Wall    model.Wall
	Verdict Verdict
}

type TimeoutSkip struct {
	Player int
}

func (m TokenRelocation) Mover() int { return m.Player }
func (m WallPlacement) Mover() int   { return m.Player }
func (m TimeoutSkip) Mover() int     { return m.Player }

// Verdict keeps both checks; an overlap is reported before a trap.
type Verdict struct {
	Fits  bool
	Traps bool
}

func (v Verdict) Err() error {
	switch {
	case !v.Fits:
		return ErrWallOverlap
	case v.Traps:
		return ErrWallTrap
	default:
		return nil
	}
}

func (v Verdict) Color() model.Color {
	switch {
	case !v.Fits:
		return model.ColorWallOverlap
	case v.Traps:
		return model.ColorWallTrap
	default:
		return model.ColorWallValid
	}
}

// Session is one game: board, players, placed walls and the move the
// active player is preparing. It is not safe for concurrent use; a single
// goroutine has to feed it events.
type Session struct {
	Board    model.Board
	Players  [2]model.Player
	Walls    []model.Wall
	Active   int
	LastMove Move
	Running  bool
	State    State
	Winner   int

	rules     Rules
	display   Display
	timer     Timer
	pending   Move
	countdown int
	warning   bool
}

func NewSession(rules Rules, display Display, timer Timer) *Session {
	if rules.TurnSeconds <= 0 {
		rules.TurnSeconds = DefaultRules().TurnSeconds
	}
	return &Session{
		Players: model.NewPlayers(),
		Walls:   make([]model.Wall, 0, model.MaxWalls),
		Winner:  -1,
		rules:   rules,
		display: display,
		timer:   timer,
	}
}

// Pending returns the move being prepared, nil outside of a turn.
func (s *Session) Pending() Move {
	return s.pending
}

func (s *Session) Countdown() int {
	return s.countdown
}

func (s *Session) IsWallPlacementLegal(w model.Wall) bool {
	return s.Board.WallFits(w)
}

// WouldTrapEitherPlayer checks the opponent of the active player only,
// unless the rules ask for the strict check.
func (s *Session) WouldTrapEitherPlayer(w model.Wall) bool {
	if s.Board.WouldTrap(w, s.Players[1-s.Active]) {
		return true
	}
	return s.rules.StrictTrapCheck && s.Board.WouldTrap(w, s.Players[s.Active])
}

func (s *Session) judge(w model.Wall) Verdict {
	return Verdict{
		Fits:  s.IsWallPlacementLegal(w),
		Traps: s.WouldTrapEitherPlayer(w),
	}
}

func wallsText(p model.Player) string {
	return fmt.Sprintf("Walls: %d", p.WallsRemaining)
}
