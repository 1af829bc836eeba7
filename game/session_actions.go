package game

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/quoridor/model"
)

// Handle processes one input or timer event to completion. A non nil
// error means the event was refused and nothing changed.
func (s *Session) Handle(ev model.Event) error {
	player := s.Active
	err := s.handle(ev)
	if err != nil {
		log.WithFields(log.Fields{"event": ev.Name(), "player": player}).Debugf("refused: %v", err)
	} else if ev != model.TickElapsed {
		log.WithFields(log.Fields{"event": ev.Name(), "player": player, "state": s.State.Name()}).Debug("accepted")
	}
	return err
}

func (s *Session) handle(ev model.Event) error {
	switch ev {
	case model.StartGame:
		if s.Running {
			return ErrAlreadyRunning
		}
		s.Start()
		return nil
	case model.StopGame:
		if !s.Running {
			return ErrNotRunning
		}
		s.Stop()
		return nil
	}

	if !s.Running || s.State != AwaitingInput {
		return ErrNotRunning
	}

	switch ev {
	case model.TickElapsed:
		return s.tick()
	case model.TimeoutReached:
		s.timeout()
		return nil
	case model.ToggleWallMode:
		return s.toggleWallMode()
	case model.ToggleOrientation:
		return s.toggleOrientation()
	case model.Confirm:
		return s.confirm()
	}

	d, ok := ev.Direction()
	if !ok {
		return fmt.Errorf("unknown event %d: %w", ev, ErrWrongMode)
	}
	if _, walling := s.pending.(WallPlacement); walling {
		return s.shiftWall(d)
	}
	return s.relocate(d)
}

// Start resets the board to the starting position and begins the first
// turn with player 0.
func (s *Session) Start() {
	s.Board.Reset()
	s.Players = model.NewPlayers()
	s.Walls = s.Walls[:0]
	if l := s.rules.Layout; l != nil {
		s.Board = *l.Board
		s.Walls = append(s.Walls, l.Walls...)
		for id := range s.Players {
			s.Players[id].Position = l.Tokens[id]
		}
		s.Players[0].WallsRemaining -= (len(l.Walls) + 1) / 2
		s.Players[1].WallsRemaining -= len(l.Walls) / 2
	} else {
		for _, p := range s.Players {
			s.Board.PlaceToken(model.Position{Row: -1, Col: -1}, p.Position)
		}
	}
	s.Active = 0
	s.LastMove = nil
	s.Winner = -1
	s.warning = false
	s.Running = true
	s.recompute()

	log.Infof("game started, %d walls on the board", len(s.Walls))
	log.Debugf("board:\n%s", s.Board.String())
	s.display.ShowMessage("", model.ColorNone)
	for _, w := range s.Walls {
		s.display.DrawWall(w, model.ColorWall)
	}
	for _, p := range s.Players {
		s.display.DrawToken(p.Position, model.PlayerColor(p.ID))
		s.display.UpdateSidePanel(p.ID, wallsText(p))
	}
	s.beginTurn()
}

// Stop ends the game where it stands. A staged move is taken back off the
// display.
func (s *Session) Stop() {
	s.timer.Disarm()
	s.clearPreview()
	if _, relocating := s.pending.(TokenRelocation); relocating {
		s.display.HighlightCells(s.options(), model.ColorEmpty)
	}
	s.Running = false
	s.State = Idle
	s.pending = nil
	log.Info("game stopped")
}

func (s *Session) recompute() {
	for id := range s.Players {
		s.Players[id].Capability = s.Board.Capability(s.Players[id].Position)
	}
}

func (s *Session) options() []model.Position {
	p := s.Players[s.Active]
	return model.Options(p.Position, p.Capability)
}

func (s *Session) beginTurn() {
	p := s.Players[s.Active]
	s.pending = TokenRelocation{Player: p.ID, From: p.Position, To: p.Position}
	s.countdown = s.rules.TurnSeconds
	s.State = AwaitingInput
	s.display.UpdateCountdown(s.countdown)
	s.display.HighlightCells(s.options(), model.ColorOption)
	s.timer.Arm()
}

func (s *Session) nextTurn() {
	s.Active = 1 - s.Active
	s.recompute()
	s.beginTurn()
}

func (s *Session) tick() error {
	if s.countdown > 0 {
		s.countdown--
	}
	s.display.UpdateCountdown(s.countdown)
	if s.countdown == 0 {
		s.timeout()
	}
	return nil
}

// timeout drops whatever was being prepared and passes the turn.
func (s *Session) timeout() {
	s.State = TurnEnding
	s.clearPreview()
	if _, walling := s.pending.(WallPlacement); !walling {
		s.display.HighlightCells(s.options(), model.ColorEmpty)
	}
	log.Infof("player %d ran out of time", s.Active)
	s.LastMove = TimeoutSkip{Player: s.Active}
	s.pending = nil
	s.nextTurn()
}

// accepted clears the no walls warning once some other input went through.
func (s *Session) accepted() {
	if s.warning {
		s.warning = false
		s.display.ShowMessage("", model.ColorNone)
	}
}

func (s *Session) relocate(d model.Direction) error {
	p := s.Players[s.Active]
	staged := s.pending.(TokenRelocation)
	var target model.Position
	switch {
	case staged.To != p.Position && (staged.To.Step(d, 1) == p.Position || staged.To.Step(d, 2) == p.Position):
		target = p.Position
	case p.Capability[d] != model.Blocked:
		target = p.Position.Step(d, p.Capability[d].Distance())
	default:
		return fmt.Errorf("%s is %s: %w", d.Name(), p.Capability[d].Name(), ErrIllegalRelocation)
	}
	s.accepted()
	if target == staged.To {
		return nil
	}
	s.clearPreview()
	s.pending = TokenRelocation{Player: p.ID, From: p.Position, To: target}
	s.showPreview()
	return nil
}

func (s *Session) toggleWallMode() error {
	p := s.Players[s.Active]
	if _, walling := s.pending.(WallPlacement); walling {
		s.accepted()
		s.clearPreview()
		s.pending = TokenRelocation{Player: p.ID, From: p.Position, To: p.Position}
		s.display.HighlightCells(s.options(), model.ColorOption)
		return nil
	}
	if p.WallsRemaining == 0 || len(s.Walls) >= model.MaxWalls {
		if !s.warning {
			s.warning = true
			s.display.ShowMessage(noWallsText, model.ColorWarning)
		}
		return ErrNoWallsAvailable
	}
	s.accepted()
	s.clearPreview()
	s.display.HighlightCells(s.options(), model.ColorEmpty)
	s.pending = WallPlacement{Player: p.ID, Wall: DefaultWall, Verdict: s.judge(DefaultWall)}
	s.showPreview()
	return nil
}

func (s *Session) toggleOrientation() error {
	staged, walling := s.pending.(WallPlacement)
	if !walling {
		return ErrWrongMode
	}
	staged.Wall.Orientation = staged.Wall.Orientation.Flip()
	s.restageWall(staged)
	return nil
}

func (s *Session) shiftWall(d model.Direction) error {
	staged := s.pending.(WallPlacement)
	next := model.Wall{Position: staged.Wall.Step(d, 1), Orientation: staged.Wall.Orientation}
	if !next.Anchored() {
		return ErrOffBoard
	}
	staged.Wall = next
	s.restageWall(staged)
	return nil
}

func (s *Session) restageWall(staged WallPlacement) {
	s.accepted()
	s.clearPreview()
	staged.Verdict = s.judge(staged.Wall)
	s.pending = staged
	s.showPreview()
}

func (s *Session) confirm() error {
	switch staged := s.pending.(type) {
	case TokenRelocation:
		s.accepted()
		s.commitRelocation(staged)
		return nil
	case WallPlacement:
		staged.Verdict = s.judge(staged.Wall)
		if err := staged.Verdict.Err(); err != nil {
			return err
		}
		s.accepted()
		s.commitWall(staged)
		return nil
	default:
		return ErrWrongMode
	}
}

func (s *Session) commitRelocation(m TokenRelocation) {
	s.State = TurnEnding
	s.display.HighlightCells(s.options(), model.ColorEmpty)

	p := &s.Players[m.Player]
	s.Board.PlaceToken(p.Position, m.To)
	p.Position = m.To
	s.recompute()
	s.display.DrawToken(m.To, model.PlayerColor(p.ID))
	s.LastMove = m
	s.pending = nil

	if p.Position.Row == p.GoalRow {
		s.finish(p.ID)
		return
	}
	s.nextTurn()
}

func (s *Session) commitWall(m WallPlacement) {
	s.State = TurnEnding
	p := &s.Players[m.Player]
	s.Board.PlaceWall(m.Wall)
	p.WallsRemaining--
	s.Walls = append(s.Walls, m.Wall)
	s.recompute()
	s.display.DrawWall(m.Wall, model.ColorWall)
	s.display.UpdateSidePanel(p.ID, wallsText(*p))
	log.Infof("player %d placed %s, %d left", p.ID, m.Wall, p.WallsRemaining)
	log.Debugf("board:\n%s", s.Board.String())
	s.LastMove = m
	s.pending = nil
	s.nextTurn()
}

func (s *Session) finish(winner int) {
	s.timer.Disarm()
	s.State = GameOver
	s.Running = false
	s.Winner = winner
	s.display.ShowMessage(fmt.Sprintf("WINNER: Player %d", winner+1), model.PlayerColor(winner))
	log.Infof("player %d wins", winner)
}

func (s *Session) showPreview() {
	switch staged := s.pending.(type) {
	case TokenRelocation:
		if staged.To != staged.From {
			s.display.DrawToken(staged.From, model.ColorNone)
			s.display.DrawToken(staged.To, model.PlayerColor(staged.Player))
		}
	case WallPlacement:
		s.display.DrawWall(staged.Wall, staged.Verdict.Color())
	}
}

func (s *Session) clearPreview() {
	switch staged := s.pending.(type) {
	case TokenRelocation:
		if staged.To != staged.From {
			s.display.HighlightCells([]model.Position{staged.To}, model.ColorOption)
			s.display.DrawToken(staged.From, model.PlayerColor(staged.Player))
		}
	case WallPlacement:
		s.display.DrawWall(staged.Wall, model.ColorNone)
		for _, w := range s.Walls {
			s.display.DrawWall(w, model.ColorWall)
		}
	}
}
