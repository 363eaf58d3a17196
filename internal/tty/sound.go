package tty

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Cue is a short sound tied to a game event.
type Cue int

const (
	CueEat Cue = iota
	CueLine
	CueOver
)

type tone struct {
	freq     int
	duration time.Duration
}

var cueTones = map[Cue][]tone{
	CueEat:  {{freq: 880, duration: 40 * time.Millisecond}},
	CueLine: {{freq: 660, duration: 60 * time.Millisecond}, {freq: 990, duration: 80 * time.Millisecond}},
	CueOver: {{freq: 330, duration: 120 * time.Millisecond}, {freq: 220, duration: 220 * time.Millisecond}},
}

// Sounds plays cues through the speaker. Every method is a no-op until Init
// succeeds, so the terminal host runs fine without an audio device.
type Sounds struct {
	mu          sync.Mutex
	initialized bool
	muted       bool
	played      int
}

func NewSounds() *Sounds {
	return &Sounds{}
}

func (s *Sounds) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

// Toggle flips mute and reports whether sound is now muted.
func (s *Sounds) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = !s.muted
	return s.muted
}

func (s *Sounds) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

func (s *Sounds) Play(c Cue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.muted {
		return
	}
	s.played++
	if !s.initialized {
		return
	}

	var parts []beep.Streamer
	for _, t := range cueTones[c] {
		sine, err := generators.SineTone(sampleRate, float64(t.freq))
		if err != nil {
			continue
		}
		parts = append(parts, beep.Take(sampleRate.N(t.duration), sine))
	}
	if len(parts) > 0 {
		speaker.Play(beep.Seq(parts...))
	}
}

func (s *Sounds) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	s.initialized = false
}
