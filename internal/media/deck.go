package media

import "sync"

// Deck is a Player whose backing player can be swapped while notes stay
// bound to it. An empty deck sits at zero and ignores transport commands.
type Deck struct {
	mu sync.Mutex
	p  Player
}

// Load installs p, closing the player it replaces. A nil p empties the deck.
func (d *Deck) Load(p Player) error {
	d.mu.Lock()
	old := d.p
	d.p = p
	d.mu.Unlock()
	if old != nil && old != p {
		return old.Close()
	}
	return nil
}

// Player returns the loaded player, if any.
func (d *Deck) Player() (Player, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.p, d.p != nil
}

func (d *Deck) Loaded() bool {
	_, ok := d.Player()
	return ok
}

func (d *Deck) CurrentTime() float64 {
	if p, ok := d.Player(); ok {
		return p.CurrentTime()
	}
	return 0
}

func (d *Deck) Seek(t float64) error {
	if p, ok := d.Player(); ok {
		return p.Seek(t)
	}
	return nil
}

func (d *Deck) Duration() float64 {
	if p, ok := d.Player(); ok {
		return p.Duration()
	}
	return 0
}

func (d *Deck) Paused() bool {
	if p, ok := d.Player(); ok {
		return p.Paused()
	}
	return true
}

func (d *Deck) TogglePause() (bool, error) {
	if p, ok := d.Player(); ok {
		return p.TogglePause()
	}
	return true, nil
}

func (d *Deck) Rate() float64 {
	if p, ok := d.Player(); ok {
		return p.Rate()
	}
	return 1
}

func (d *Deck) SetRate(rate float64) error {
	if p, ok := d.Player(); ok {
		return p.SetRate(rate)
	}
	return nil
}

func (d *Deck) Loop() bool {
	if p, ok := d.Player(); ok {
		return p.Loop()
	}
	return false
}

func (d *Deck) SetLoop(on bool) error {
	if p, ok := d.Player(); ok {
		return p.SetLoop(on)
	}
	return nil
}

// Close closes and removes the loaded player.
func (d *Deck) Close() error {
	return d.Load(nil)
}
