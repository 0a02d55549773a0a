package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aschmelyun/vnote/internal/media"
	"github.com/aschmelyun/vnote/internal/vault"
)

type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarn
	NoticeError
)

// Notice is a one-shot message for the user.
type Notice struct {
	Level   NoticeLevel
	Message string
	Err     error
}

func (n Notice) String() string { return n.Message }

func Info(format string, args ...any) *Notice {
	return &Notice{Level: NoticeInfo, Message: fmt.Sprintf(format, args...)}
}

func Failure(err error) *Notice {
	return &Notice{Level: NoticeError, Message: err.Error(), Err: err}
}

// ResolveMedia locates the document's media file. No media path is not a
// problem: it returns "" and no notice. A media path that cannot be played
// yields a warning notice and ""; the notes stay usable without playback.
func (s *Session) ResolveMedia() (string, *Notice) {
	p := s.doc.MediaPath
	if p == "" {
		return "", nil
	}
	abs, err := resolve(s.store, p)
	if err != nil {
		s.logger.Warn("session: media unavailable", slog.String("path", p), slog.String("error", err.Error()))
		return "", &Notice{Level: NoticeWarn, Message: mediaMessage(p, err), Err: err}
	}
	return abs, nil
}

func resolve(store vault.Storage, p string) (string, error) {
	if err := media.CheckExtension(p); err != nil {
		return "", err
	}
	if !store.Exists(p) {
		return "", fmt.Errorf("%w: %s", media.ErrNotFound, p)
	}
	return store.Abs(p)
}

func mediaMessage(p string, err error) string {
	switch {
	case errors.Is(err, media.ErrNotFound):
		return fmt.Sprintf("Media file %s not found", p)
	case errors.Is(err, media.ErrInvalidExtension), errors.Is(err, media.ErrNoExtension):
		return fmt.Sprintf("Invalid extension for media file %s", p)
	default:
		return fmt.Sprintf("Cannot open media file %s: %v", p, err)
	}
}

// MediaFiles lists the playable files in the vault.
func MediaFiles(store vault.Storage) ([]string, error) {
	files, err := store.ListFiles()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, f := range files {
		if media.CheckExtension(f) == nil {
			out = append(out, f)
		}
	}
	return out, nil
}
