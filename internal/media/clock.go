// Package media provides the playback clock that notes are synchronized to,
// plus helpers for locating and describing media files.
package media

// Clock is the external time source. Positions are seconds. Seek is the only
// way anything writes the position.
type Clock interface {
	CurrentTime() float64
	Seek(t float64) error
	Duration() float64
}

// Player is a Clock with transport controls.
type Player interface {
	Clock
	Paused() bool
	TogglePause() (paused bool, err error)
	Rate() float64
	SetRate(rate float64) error
	Loop() bool
	SetLoop(on bool) error
	Close() error
}

// Skip moves the position by delta seconds. A step that would land before
// zero or past a known duration is ignored.
func Skip(p Player, delta float64) error {
	next := p.CurrentTime() + delta
	if next < 0 {
		return nil
	}
	if d := p.Duration(); d > 0 && next > d {
		return nil
	}
	return p.Seek(next)
}
