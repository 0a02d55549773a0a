package tui

import (
	"time"

	"github.com/aschmelyun/vnote/internal/media"
)

type tickMsg time.Time

type mediaLoadedMsg struct {
	player media.Player
	path   string
}

type mediaFailedMsg struct {
	err error
}

// FileChangedMsg tells the model its document changed on disk.
type FileChangedMsg struct{}
