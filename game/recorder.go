package game

import "github.com/zucenko/quoridor/model"

// Recorder is a Display that keeps notifications until they are flushed,
// so they can be sent over the wire in one message.
type Recorder struct {
	Notifications []model.Notification
}

func (r *Recorder) HighlightCells(cells []model.Position, color model.Color) {
	r.add(model.Notification{Kind: model.HighlightCells, Cells: append([]model.Position(nil), cells...), Color: color})
}

func (r *Recorder) DrawToken(pos model.Position, color model.Color) {
	r.add(model.Notification{Kind: model.DrawToken, Cells: []model.Position{pos}, Color: color})
}

func (r *Recorder) DrawWall(w model.Wall, color model.Color) {
	r.add(model.Notification{Kind: model.DrawWall, Wall: w, Color: color})
}

func (r *Recorder) ShowMessage(text string, color model.Color) {
	r.add(model.Notification{Kind: model.ShowMessage, Text: text, Color: color})
}

func (r *Recorder) UpdateSidePanel(player int, text string) {
	r.add(model.Notification{Kind: model.UpdateSidePanel, Player: player, Text: text})
}

func (r *Recorder) UpdateCountdown(seconds int) {
	r.add(model.Notification{Kind: model.UpdateCountdown, Seconds: seconds})
}

func (r *Recorder) add(n model.Notification) {
	r.Notifications = append(r.Notifications, n)
}

// Flush returns the recorded notifications and forgets them.
func (r *Recorder) Flush() []model.Notification {
	n := r.Notifications
	r.Notifications = nil
	return n
}

// Replay draws notifications on another display.
func Replay(d Display, notifications []model.Notification) {
	for _, n := range notifications {
		switch n.Kind {
		case model.HighlightCells:
			d.HighlightCells(n.Cells, n.Color)
		case model.DrawToken:
			if len(n.Cells) == 1 {
				d.DrawToken(n.Cells[0], n.Color)
			}
		case model.DrawWall:
			d.DrawWall(n.Wall, n.Color)
		case model.ShowMessage:
			d.ShowMessage(n.Text, n.Color)
		case model.UpdateSidePanel:
			d.UpdateSidePanel(n.Player, n.Text)
		case model.UpdateCountdown:
			d.UpdateCountdown(n.Seconds)
		}
	}
}
