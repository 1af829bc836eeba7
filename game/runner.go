package game

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/quoridor/model"
)

// Runner owns a Session and feeds it from a single goroutine. Input and
// timer events are queued and handled one at a time, so a timeout can
// never interleave with a key press.
type Runner struct {
	Session *Session
	// Tick is the countdown period, one second unless changed before Run.
	Tick time.Duration
	// Refused, when set, is told about every event the session refused.
	Refused func(model.Event, error)

	events chan model.Event
	ticker *time.Ticker
	ticks  <-chan time.Time
}

func NewRunner(rules Rules, display Display) *Runner {
	r := &Runner{
		Tick:   time.Second,
		events: make(chan model.Event, 32),
	}
	r.Session = NewSession(rules, display, r)
	return r
}

// Post queues an event. It never blocks; when the queue is full the event
// is dropped and false is returned.
func (r *Runner) Post(ev model.Event) bool {
	select {
	case r.events <- ev:
		return true
	default:
		log.Warnf("dropping %s, event queue full", ev.Name())
		return false
	}
}

// Arm restarts the countdown ticker. Only called from the Run goroutine.
func (r *Runner) Arm() {
	r.Disarm()
	r.ticker = time.NewTicker(r.Tick)
	r.ticks = r.ticker.C
}

func (r *Runner) Disarm() {
	if r.ticker != nil {
		r.ticker.Stop()
	}
	r.ticker = nil
	r.ticks = nil
}

// Run handles queued events until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	log.Printf("Runner.Run starting")
	defer r.Disarm()
	for {
		select {
		case <-ctx.Done():
			log.Printf("Runner.Run ENDED")
			return ctx.Err()
		case ev := <-r.events:
			r.handle(ev)
		case <-r.ticks:
			r.handle(model.TickElapsed)
		}
	}
}

func (r *Runner) handle(ev model.Event) {
	if err := r.Session.Handle(ev); err != nil && r.Refused != nil {
		r.Refused(ev, err)
	}
}
