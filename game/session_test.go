package game

import (
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/quoridor/model"
)

type fakeTimer struct {
	armed bool
	arms  int
}

func (f *fakeTimer) Arm() {
	f.armed = true
	f.arms++
}

func (f *fakeTimer) Disarm() {
	f.armed = false
}

// layout builds a position from seven cell lines, boundaries left open.
func layout(t *testing.T, rows ...string) *model.Layout {
	t.Helper()
	require.Len(t, rows, model.Size)
	l, err := model.ReadLayout(strings.NewReader(strings.Join(rows, "\n\n") + "\n"))
	require.NoError(t, err)
	return l
}

func started(t *testing.T, rules Rules) (*Session, *Recorder, *fakeTimer) {
	t.Helper()
	rec := &Recorder{}
	timer := &fakeTimer{}
	s := NewSession(rules, rec, timer)
	require.NoError(t, s.Handle(model.StartGame))
	return s, rec, timer
}

func withLayout(l *model.Layout) Rules {
	r := DefaultRules()
	r.Layout = l
	return r
}

func notifications(rec *Recorder, kind model.NotificationKind) []model.Notification {
	var found []model.Notification
	for _, n := range rec.Notifications {
		if n.Kind == kind {
			found = append(found, n)
		}
	}
	return found
}

func lastOf(t *testing.T, rec *Recorder, kind model.NotificationKind) model.Notification {
	t.Helper()
	found := notifications(rec, kind)
	require.NotEmpty(t, found)
	return found[len(found)-1]
}

func handleAll(t *testing.T, s *Session, events ...model.Event) {
	t.Helper()
	for _, ev := range events {
		require.NoError(t, s.Handle(ev), ev.Name())
	}
}

var (
	trapOpponent = []string{
		". . .|B .|. .",
		". . .|. .|. .",
		". . . . . . .",
		". . . . . . .",
		". . . . . . .",
		". . . . . . .",
		". . . A . . .",
	}
	trapSelf = []string{
		". . . B . . .",
		". . . . . . .",
		". . . . . . .",
		". . . . . . .",
		". . . . . . .",
		". . .|. .|. .",
		". . .|A .|. .",
	}
	facing = []string{
		". . . . . . .",
		". . . . . . .",
		". . . B . . .",
		". . . A . . .",
		". . . . . . .",
		". . . . . . .",
		". . . . . . .",
	}
)

func TestStart(t *testing.T) {
	s, rec, timer := started(t, DefaultRules())

	assert.True(t, s.Running)
	assert.Equal(t, AwaitingInput, s.State)
	assert.Equal(t, 0, s.Active)
	assert.Equal(t, model.Position{Row: 6, Col: 3}, s.Players[0].Position)
	assert.Equal(t, model.Position{Row: 0, Col: 3}, s.Players[1].Position)
	assert.Equal(t, 0, s.Players[0].GoalRow)
	assert.Equal(t, 6, s.Players[1].GoalRow)
	assert.Equal(t, 8, s.Players[0].WallsRemaining)
	assert.Equal(t, 8, s.Players[1].WallsRemaining)
	assert.True(t, s.Board.Cells[6][3].Occupied)
	assert.True(t, s.Board.Cells[0][3].Occupied)
	assert.Equal(t, TokenRelocation{Player: 0, From: s.Players[0].Position, To: s.Players[0].Position}, s.Pending())
	assert.Equal(t, 20, s.Countdown())
	assert.True(t, timer.armed)

	highlight := lastOf(t, rec, model.HighlightCells)
	assert.Equal(t, model.ColorOption, highlight.Color)
	assert.ElementsMatch(t, []model.Position{{Row: 5, Col: 3}, {Row: 6, Col: 2}, {Row: 6, Col: 4}}, highlight.Cells)
	assert.Len(t, notifications(rec, model.UpdateSidePanel), 2)
}

func TestInputOutsideGame(t *testing.T) {
	s := NewSession(DefaultRules(), &Recorder{}, &fakeTimer{})
	assert.ErrorIs(t, s.Handle(model.MoveUp), ErrNotRunning)
	assert.ErrorIs(t, s.Handle(model.TickElapsed), ErrNotRunning)
	assert.ErrorIs(t, s.Handle(model.StopGame), ErrNotRunning)

	require.NoError(t, s.Handle(model.StartGame))
	assert.ErrorIs(t, s.Handle(model.StartGame), ErrAlreadyRunning)
	assert.ErrorIs(t, s.Handle(model.Event(99)), ErrWrongMode)

	require.NoError(t, s.Handle(model.StopGame))
	assert.Equal(t, Idle, s.State)
	assert.ErrorIs(t, s.Handle(model.Confirm), ErrNotRunning)
}

func TestStopTakesBackPreview(t *testing.T) {
	s, rec, _ := started(t, DefaultRules())
	origin := s.Players[0].Position
	handleAll(t, s, model.MoveUp)
	rec.Flush()

	require.NoError(t, s.Handle(model.StopGame))
	token := lastOf(t, rec, model.DrawToken)
	assert.Equal(t, []model.Position{origin}, token.Cells)
	assert.Equal(t, model.ColorPlayer0, token.Color)
	assert.Equal(t, model.ColorEmpty, lastOf(t, rec, model.HighlightCells).Color)
	assert.Nil(t, s.Pending())

	require.NoError(t, s.Handle(model.StartGame))
	handleAll(t, s, model.ToggleWallMode)
	rec.Flush()
	require.NoError(t, s.Handle(model.StopGame))
	erased := notifications(rec, model.DrawWall)
	require.Len(t, erased, 1)
	assert.Equal(t, DefaultWall, erased[0].Wall)
	assert.Equal(t, model.ColorNone, erased[0].Color)
}

func TestRelocationPreview(t *testing.T) {
	s, _, _ := started(t, DefaultRules())
	origin := s.Players[0].Position

	handleAll(t, s, model.MoveUp)
	assert.Equal(t, model.Position{Row: 5, Col: 3}, s.Pending().(TokenRelocation).To)
	assert.True(t, s.Board.Cells[6][3].Occupied, "preview does not touch the board")
	assert.Equal(t, origin, s.Players[0].Position)

	// pressing again does not accumulate
	handleAll(t, s, model.MoveUp)
	assert.Equal(t, model.Position{Row: 5, Col: 3}, s.Pending().(TokenRelocation).To)

	// back to where we started
	handleAll(t, s, model.MoveDown)
	assert.Equal(t, origin, s.Pending().(TokenRelocation).To)
	assert.ErrorIs(t, s.Handle(model.MoveDown), ErrIllegalRelocation)
	assert.Equal(t, origin, s.Pending().(TokenRelocation).To)

	// a second direction re-targets the preview
	handleAll(t, s, model.MoveUp, model.MoveLeft)
	assert.Equal(t, model.Position{Row: 6, Col: 2}, s.Pending().(TokenRelocation).To)
}

func TestRelocationCommit(t *testing.T) {
	s, rec, timer := started(t, DefaultRules())
	handleAll(t, s, model.TickElapsed, model.TickElapsed, model.MoveLeft)
	assert.Equal(t, 18, s.Countdown())

	handleAll(t, s, model.Confirm)
	assert.Equal(t, model.Position{Row: 6, Col: 2}, s.Players[0].Position)
	assert.False(t, s.Board.Cells[6][3].Occupied)
	assert.True(t, s.Board.Cells[6][2].Occupied)
	assert.Equal(t, TokenRelocation{Player: 0, From: model.Position{Row: 6, Col: 3}, To: model.Position{Row: 6, Col: 2}}, s.LastMove)

	// handover
	assert.Equal(t, 1, s.Active)
	assert.Equal(t, AwaitingInput, s.State)
	assert.Equal(t, TokenRelocation{Player: 1, From: s.Players[1].Position, To: s.Players[1].Position}, s.Pending())
	assert.Equal(t, 20, s.Countdown())
	assert.Equal(t, 2, timer.arms)
	assert.Equal(t, 20, lastOf(t, rec, model.UpdateCountdown).Seconds)

	draw := lastOf(t, rec, model.DrawToken)
	assert.Equal(t, []model.Position{{Row: 6, Col: 2}}, draw.Cells)
	assert.Equal(t, model.ColorPlayer0, draw.Color)
}

func TestConfirmWithoutMovingPassesTurn(t *testing.T) {
	s, _, _ := started(t, DefaultRules())
	handleAll(t, s, model.Confirm)
	assert.Equal(t, 1, s.Active)
	assert.Equal(t, model.Position{Row: 6, Col: 3}, s.Players[0].Position)
	assert.True(t, s.Board.Cells[6][3].Occupied)
}

func TestJumpMove(t *testing.T) {
	s, _, _ := started(t, withLayout(layout(t, facing...)))
	a := s.Players[0]
	require.Equal(t, model.Position{Row: 3, Col: 3}, a.Position)
	assert.Equal(t, model.OpenViaJump, a.Capability[model.Up])
	assert.Equal(t, model.OpenViaJump, s.Players[1].Capability[model.Down])

	handleAll(t, s, model.MoveUp)
	assert.Equal(t, model.Position{Row: 1, Col: 3}, s.Pending().(TokenRelocation).To)

	// the opposite direction brings the preview back over the opponent
	handleAll(t, s, model.MoveDown)
	assert.Equal(t, a.Position, s.Pending().(TokenRelocation).To)

	handleAll(t, s, model.MoveUp, model.Confirm)
	assert.Equal(t, model.Position{Row: 1, Col: 3}, s.Players[0].Position)
	assert.True(t, s.Board.Cells[1][3].Occupied)
	assert.False(t, s.Board.Cells[3][3].Occupied)
	assert.Equal(t, model.Open, s.Players[1].Capability[model.Down])
	assert.Equal(t, model.OpenViaJump, s.Players[1].Capability[model.Up])
}

func TestCapabilityStableAfterCommit(t *testing.T) {
	s, _, _ := started(t, withLayout(layout(t, facing...)))
	handleAll(t, s, model.ToggleWallMode, model.Confirm)
	before := s.Players
	s.recompute()
	assert.Equal(t, before, s.Players)
	s.recompute()
	assert.Equal(t, before, s.Players)
}

func TestWallPlacement(t *testing.T) {
	s, rec, _ := started(t, DefaultRules())

	handleAll(t, s, model.ToggleWallMode)
	staged := s.Pending().(WallPlacement)
	assert.Equal(t, DefaultWall, staged.Wall)
	assert.Equal(t, Verdict{Fits: true}, staged.Verdict)
	assert.Equal(t, model.ColorWallValid, lastOf(t, rec, model.DrawWall).Color)
	assert.Equal(t, model.ColorEmpty, lastOf(t, rec, model.HighlightCells).Color)

	handleAll(t, s, model.MoveUp, model.ToggleOrientation)
	want := model.Wall{Position: model.Position{Row: 2, Col: 4}, Orientation: model.Vertical}
	assert.Equal(t, want, s.Pending().(WallPlacement).Wall)
	assert.Empty(t, s.Walls, "preview only")

	handleAll(t, s, model.Confirm)
	assert.Equal(t, []model.Wall{want}, s.Walls)
	assert.True(t, s.Board.HasWall(want))
	assert.True(t, s.Board.Cells[1][4].WallV)
	assert.True(t, s.Board.Cells[2][4].WallV)
	assert.Equal(t, 7, s.Players[0].WallsRemaining)
	assert.Equal(t, WallPlacement{Player: 0, Wall: want, Verdict: Verdict{Fits: true}}, s.LastMove)
	assert.Equal(t, 1, s.Active)

	panel := lastOf(t, rec, model.UpdateSidePanel)
	assert.Equal(t, 0, panel.Player)
	assert.Equal(t, "Walls: 7", panel.Text)
}

func TestWallShiftStaysOnBoard(t *testing.T) {
	s, _, _ := started(t, DefaultRules())
	handleAll(t, s, model.ToggleWallMode, model.MoveUp, model.MoveUp)
	assert.Equal(t, model.Position{Row: 1, Col: 4}, s.Pending().(WallPlacement).Wall.Position)
	assert.ErrorIs(t, s.Handle(model.MoveUp), ErrOffBoard)
	assert.Equal(t, model.Position{Row: 1, Col: 4}, s.Pending().(WallPlacement).Wall.Position)

	handleAll(t, s, model.MoveRight, model.MoveRight)
	assert.ErrorIs(t, s.Handle(model.MoveRight), ErrOffBoard)
	for i := 0; i < 5; i++ {
		handleAll(t, s, model.MoveDown, model.MoveLeft)
	}
	assert.ErrorIs(t, s.Handle(model.MoveDown), ErrOffBoard)
	assert.ErrorIs(t, s.Handle(model.MoveLeft), ErrOffBoard)
	assert.Equal(t, model.Position{Row: 6, Col: 1}, s.Pending().(WallPlacement).Wall.Position)
}

func TestWallOverlapRefused(t *testing.T) {
	s, rec, _ := started(t, DefaultRules())
	handleAll(t, s, model.ToggleWallMode, model.Confirm)
	require.Len(t, s.Walls, 1)

	handleAll(t, s, model.ToggleWallMode)
	staged := s.Pending().(WallPlacement)
	assert.False(t, staged.Verdict.Fits)
	assert.Equal(t, model.ColorWallOverlap, lastOf(t, rec, model.DrawWall).Color)

	assert.ErrorIs(t, s.Handle(model.Confirm), ErrWallOverlap)
	assert.Len(t, s.Walls, 1)
	assert.Equal(t, 1, s.Active)
	assert.Equal(t, 8, s.Players[1].WallsRemaining)

	// crossing at the middle is refused as well
	handleAll(t, s, model.ToggleOrientation)
	assert.ErrorIs(t, s.Handle(model.Confirm), ErrWallOverlap)

	handleAll(t, s, model.MoveUp)
	assert.Equal(t, Verdict{Fits: true}, s.Pending().(WallPlacement).Verdict)
	handleAll(t, s, model.Confirm)
	assert.Len(t, s.Walls, 2)
}

func TestWallTrapRefused(t *testing.T) {
	s, rec, _ := started(t, withLayout(layout(t, trapOpponent...)))
	require.Len(t, s.Walls, 2)
	assert.Equal(t, 7, s.Players[0].WallsRemaining)
	assert.Equal(t, 7, s.Players[1].WallsRemaining)

	handleAll(t, s, model.ToggleWallMode, model.MoveUp, model.MoveUp)
	staged := s.Pending().(WallPlacement)
	require.Equal(t, model.Position{Row: 1, Col: 4}, staged.Wall.Position)
	assert.Equal(t, Verdict{Fits: true, Traps: true}, staged.Verdict)
	assert.True(t, s.WouldTrapEitherPlayer(staged.Wall))
	assert.Equal(t, model.ColorWallTrap, lastOf(t, rec, model.DrawWall).Color)

	assert.ErrorIs(t, s.Handle(model.Confirm), ErrWallTrap)
	assert.Len(t, s.Walls, 2)
	assert.False(t, s.Board.HasWall(staged.Wall))
	assert.Equal(t, 0, s.Active)
}

func TestTrapCheckIgnoresPlacingPlayer(t *testing.T) {
	s, _, _ := started(t, withLayout(layout(t, trapSelf...)))
	handleAll(t, s, model.ToggleWallMode, model.MoveDown, model.MoveDown)
	staged := s.Pending().(WallPlacement)
	require.Equal(t, model.Position{Row: 5, Col: 4}, staged.Wall.Position)
	assert.False(t, staged.Verdict.Traps)
	handleAll(t, s, model.Confirm)
	assert.Len(t, s.Walls, 3)

	rules := withLayout(layout(t, trapSelf...))
	rules.StrictTrapCheck = true
	s, _, _ = started(t, rules)
	handleAll(t, s, model.ToggleWallMode, model.MoveDown, model.MoveDown)
	assert.True(t, s.Pending().(WallPlacement).Verdict.Traps)
	assert.ErrorIs(t, s.Handle(model.Confirm), ErrWallTrap)
}

func TestVerdictPrecedence(t *testing.T) {
	v := Verdict{Fits: false, Traps: true}
	assert.ErrorIs(t, v.Err(), ErrWallOverlap)
	assert.Equal(t, model.ColorWallOverlap, v.Color())
	assert.NoError(t, Verdict{Fits: true}.Err())
}

func TestLeaveWallMode(t *testing.T) {
	s, rec, _ := started(t, DefaultRules())
	handleAll(t, s, model.MoveUp, model.ToggleWallMode, model.MoveLeft, model.ToggleWallMode)

	origin := s.Players[0].Position
	assert.Equal(t, TokenRelocation{Player: 0, From: origin, To: origin}, s.Pending())
	assert.Empty(t, s.Walls)
	assert.Equal(t, model.ColorOption, lastOf(t, rec, model.HighlightCells).Color)
	erased := lastOf(t, rec, model.DrawWall)
	assert.Equal(t, model.ColorNone, erased.Color)
	assert.Equal(t, model.Position{Row: 3, Col: 3}, erased.Wall.Position)

	assert.ErrorIs(t, s.Handle(model.ToggleOrientation), ErrWrongMode)
}

func TestNoWallsWarning(t *testing.T) {
	s, rec, _ := started(t, DefaultRules())
	s.Players[0].WallsRemaining = 0
	warnings := func() int {
		n := 0
		for _, m := range notifications(rec, model.ShowMessage) {
			if m.Text == noWallsText {
				n++
			}
		}
		return n
	}

	assert.ErrorIs(t, s.Handle(model.ToggleWallMode), ErrNoWallsAvailable)
	assert.Equal(t, 1, warnings())
	assert.Equal(t, model.ColorWarning, lastOf(t, rec, model.ShowMessage).Color)
	assert.IsType(t, TokenRelocation{}, s.Pending())

	assert.ErrorIs(t, s.Handle(model.ToggleWallMode), ErrNoWallsAvailable)
	assert.Equal(t, 1, warnings(), "shown once")

	handleAll(t, s, model.MoveUp)
	assert.Equal(t, "", lastOf(t, rec, model.ShowMessage).Text)

	assert.ErrorIs(t, s.Handle(model.ToggleWallMode), ErrNoWallsAvailable)
	assert.Equal(t, 2, warnings())
}

func TestTimeoutDiscardsPreview(t *testing.T) {
	s, _, timer := started(t, DefaultRules())
	handleAll(t, s, model.ToggleWallMode, model.MoveUp)

	handleAll(t, s, model.TimeoutReached)
	assert.Empty(t, s.Walls)
	assert.False(t, s.Board.HasWall(model.Wall{Position: model.Position{Row: 2, Col: 4}, Orientation: model.Horizontal}))
	for r := 0; r < model.Size; r++ {
		for c := 0; c < model.Size; c++ {
			assert.False(t, s.Board.Cells[r][c].WallH)
			assert.False(t, s.Board.Cells[r][c].WallV)
		}
	}
	assert.Equal(t, 8, s.Players[0].WallsRemaining)
	assert.Equal(t, TimeoutSkip{Player: 0}, s.LastMove)
	assert.Equal(t, 1, s.Active)
	assert.Equal(t, 2, timer.arms)
}

func TestCountdownRunsOut(t *testing.T) {
	rules := DefaultRules()
	rules.TurnSeconds = 3
	s, rec, _ := started(t, rules)
	handleAll(t, s, model.MoveUp, model.TickElapsed, model.TickElapsed)
	assert.Equal(t, 1, s.Countdown())
	assert.Equal(t, 0, s.Active)

	handleAll(t, s, model.TickElapsed)
	assert.Equal(t, 1, s.Active)
	assert.Equal(t, 3, s.Countdown())
	assert.Equal(t, model.Position{Row: 6, Col: 3}, s.Players[0].Position, "preview dropped")
	assert.True(t, s.Board.Cells[6][3].Occupied)

	var seconds []int
	for _, n := range notifications(rec, model.UpdateCountdown) {
		seconds = append(seconds, n.Seconds)
	}
	assert.Equal(t, []int{3, 2, 1, 0, 3}, seconds)
}

func TestVictory(t *testing.T) {
	s, rec, timer := started(t, withLayout(layout(t,
		". . . . . . .",
		". . . . . . .",
		". . . . . . .",
		"A . . . . . .",
		". . . . . . .",
		". . . . . B .",
		". . . . . . .",
	)))
	handleAll(t, s, model.MoveRight, model.Confirm)
	require.Equal(t, 1, s.Active)

	handleAll(t, s, model.MoveDown, model.Confirm)
	assert.Equal(t, GameOver, s.State)
	assert.False(t, s.Running)
	assert.Equal(t, 1, s.Winner)
	assert.False(t, timer.armed)
	assert.Nil(t, s.Pending())

	msg := lastOf(t, rec, model.ShowMessage)
	assert.Equal(t, "WINNER: Player 2", msg.Text)
	assert.Equal(t, model.ColorPlayer1, msg.Color)

	assert.ErrorIs(t, s.Handle(model.MoveUp), ErrNotRunning)
	assert.ErrorIs(t, s.Handle(model.TickElapsed), ErrNotRunning)

	// a new game starts from the configured position
	handleAll(t, s, model.StartGame)
	assert.Equal(t, -1, s.Winner)
	assert.Equal(t, model.Position{Row: 3, Col: 0}, s.Players[0].Position)
	assert.False(t, s.Board.Cells[6][5].Occupied)
}

func TestHandleLogsThePlayerWhoActed(t *testing.T) {
	level := log.GetLevel()
	log.SetLevel(log.DebugLevel)
	defer log.SetLevel(level)
	hook := logtest.NewGlobal()

	s, _, _ := started(t, DefaultRules())
	handleAll(t, s, model.MoveUp, model.Confirm, model.TimeoutReached)
	require.Equal(t, 0, s.Active)

	players := map[string]interface{}{}
	for _, e := range hook.AllEntries() {
		if e.Message == "accepted" {
			players[e.Data["event"].(string)] = e.Data["player"]
		}
	}
	assert.Equal(t, 0, players[model.Confirm.Name()])
	assert.Equal(t, 1, players[model.TimeoutReached.Name()])
}
