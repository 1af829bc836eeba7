package tui

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	log "github.com/sirupsen/logrus"
)

const sampleRate = beep.SampleRate(44100)

// Sounder plays the two cues of the game.
type Sounder interface {
	Warn()
	Victory()
}

// Silent is a Sounder for terminals without audio.
type Silent struct{}

func (Silent) Warn()    {}
func (Silent) Victory() {}

// Speaker plays sine tones on the default audio device.
type Speaker struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	closed bool
}

// NewSpeaker opens the audio device. The returned error is not fatal;
// callers fall back to Silent.
func NewSpeaker() (*Speaker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	s := &Speaker{mixer: &beep.Mixer{}}
	speaker.Play(s.mixer)
	return s, nil
}

type note struct {
	freq float64
	d    time.Duration
}

func (s *Speaker) Warn() {
	s.play(note{220, 150 * time.Millisecond})
}

// Victory is a short rising arpeggio.
func (s *Speaker) Victory() {
	s.play(note{523, 120 * time.Millisecond}, note{659, 120 * time.Millisecond}, note{784, 240 * time.Millisecond})
}

func (s *Speaker) play(notes ...note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	tones := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		sine, err := generators.SineTone(sampleRate, n.freq)
		if err != nil {
			log.Warnf("no tone at %.0f Hz: %v", n.freq, err)
			return
		}
		tones = append(tones, beep.Take(sampleRate.N(n.d), sine))
	}
	speaker.Lock()
	s.mixer.Add(beep.Seq(tones...))
	speaker.Unlock()
}

func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
}
