package media

import (
	"errors"
	"math"
	"sync"
	"time"
)

var ErrBadRate = errors.New("media: playback rate must be positive")

// TimelineConfig seeds a Timeline.
type TimelineConfig struct {
	Duration float64
	Rate     float64
	Loop     bool
	Autoplay bool
}

// Timeline is a Player driven by the wall clock. It stands in for a real
// decoder: the position advances at Rate while unpaused, wraps at Duration
// when looping and stops there otherwise. A zero Duration means unknown and
// never bounds the position.
type Timeline struct {
	mu       sync.Mutex
	now      func() time.Time
	pos      float64
	anchor   time.Time
	paused   bool
	rate     float64
	loop     bool
	duration float64
}

// NewTimeline builds a timeline at position zero. now may be nil.
func NewTimeline(cfg TimelineConfig, now func() time.Time) *Timeline {
	if now == nil {
		now = time.Now
	}
	rate := cfg.Rate
	if rate <= 0 {
		rate = 1
	}
	return &Timeline{
		now:      now,
		anchor:   now(),
		paused:   !cfg.Autoplay,
		rate:     rate,
		loop:     cfg.Loop,
		duration: cfg.Duration,
	}
}

func (t *Timeline) position(at time.Time) float64 {
	p := t.pos
	if !t.paused {
		p += at.Sub(t.anchor).Seconds() * t.rate
	}
	if t.duration > 0 {
		if t.loop {
			p = math.Mod(p, t.duration)
		} else if p > t.duration {
			p = t.duration
		}
	}
	return p
}

// rebase folds elapsed time into pos so rate and pause changes apply from
// now on.
func (t *Timeline) rebase() {
	at := t.now()
	t.pos = t.position(at)
	t.anchor = at
}

func (t *Timeline) CurrentTime() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position(t.now())
}

func (t *Timeline) Seek(pos float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if pos < 0 {
		pos = 0
	}
	if t.duration > 0 && pos > t.duration {
		pos = t.duration
	}
	t.pos = pos
	t.anchor = t.now()
	return nil
}

func (t *Timeline) Duration() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duration
}

// SetDuration updates the duration once it is known, e.g. after probing.
func (t *Timeline) SetDuration(d float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rebase()
	t.duration = d
}

func (t *Timeline) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

func (t *Timeline) TogglePause() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rebase()
	t.paused = !t.paused
	return t.paused, nil
}

func (t *Timeline) Rate() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rate
}

func (t *Timeline) SetRate(rate float64) error {
	if rate <= 0 || math.IsNaN(rate) {
		return ErrBadRate
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rebase()
	t.rate = rate
	return nil
}

func (t *Timeline) Loop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loop
}

func (t *Timeline) SetLoop(on bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rebase()
	t.loop = on
	return nil
}

func (t *Timeline) Close() error { return nil }
