// Package session ties one open document to its storage: loading, saving
// after every edit, reloading on outside changes and locating its media.
package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/aschmelyun/vnote/internal/media"
	"github.com/aschmelyun/vnote/internal/notes"
	"github.com/aschmelyun/vnote/internal/vault"
	"github.com/aschmelyun/vnote/internal/vtt"
)

// Ext is the document file extension.
const Ext = ".vnote"

// Session is an open document.
type Session struct {
	store  vault.Storage
	path   string
	doc    *notes.Document
	editor *notes.NoteEditor
	logger *slog.Logger

	written []byte
}

// CreateUntitled creates an empty document in dir under the first free name
// of Untitled.vnote, Untitled 1.vnote, Untitled 2.vnote and so on.
func CreateUntitled(store vault.Storage, dir string) (string, error) {
	data, err := notes.Encode(&notes.Document{})
	if err != nil {
		return "", err
	}
	for i := 0; ; i++ {
		name := "Untitled" + Ext
		if i > 0 {
			name = fmt.Sprintf("Untitled %d%s", i, Ext)
		}
		p := path.Join(dir, name)
		if store.Exists(p) {
			continue
		}
		err := store.Create(p, data)
		if errors.Is(err, vault.ErrExists) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("session: create %s: %w", p, err)
		}
		return p, nil
	}
}

// Open loads the document at p and builds its note editor over clock. The
// editor saves through RequestSave.
func Open(ctx context.Context, store vault.Storage, p string, clock media.Clock, logger *slog.Logger, opts ...notes.Option) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	data, err := store.Read(p)
	if err != nil {
		return nil, fmt.Errorf("session: open %s: %w", p, err)
	}
	doc, err := notes.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("session: open %s: %w", p, err)
	}

	s := &Session{store: store, path: p, doc: doc, logger: logger, written: data}
	opts = append([]notes.Option{notes.WithLogger(logger)}, opts...)
	s.editor = notes.NewEditor(doc, clock, s.RequestSave, opts...)
	if err := s.editor.Render(ctx); err != nil {
		return nil, fmt.Errorf("session: render %s: %w", p, err)
	}
	logger.Info("session: opened", slog.String("path", p), slog.Int("notes", len(doc.Notes)))
	return s, nil
}

func (s *Session) Path() string { return s.path }

func (s *Session) Document() *notes.Document { return s.doc }

func (s *Session) Editor() *notes.NoteEditor { return s.editor }

// Name is the document's file name without its extension.
func (s *Session) Name() string {
	return strings.TrimSuffix(path.Base(s.path), path.Ext(s.path))
}

// RequestSave writes the document back to storage.
func (s *Session) RequestSave(context.Context) error {
	data, err := notes.Encode(s.doc)
	if err != nil {
		return err
	}
	if s.store.Exists(s.path) {
		err = s.store.Modify(s.path, data)
	} else {
		err = s.store.Create(s.path, data)
	}
	if err != nil {
		return fmt.Errorf("session: save %s: %w", s.path, err)
	}
	s.written = data
	s.logger.Debug("session: saved", slog.String("path", s.path), slog.Int("notes", len(s.doc.Notes)))
	return nil
}

// SetMediaPath points the document at another media file and saves.
func (s *Session) SetMediaPath(ctx context.Context, p string) error {
	s.doc.MediaPath = p
	return s.RequestSave(ctx)
}

// Reload picks up a change made to the file by someone else. Content equal
// to what this session last wrote is ignored. It reports whether anything
// was reloaded.
func (s *Session) Reload(ctx context.Context) (bool, error) {
	data, err := s.store.Read(s.path)
	if err != nil {
		return false, fmt.Errorf("session: reload %s: %w", s.path, err)
	}
	if bytes.Equal(data, s.written) {
		return false, nil
	}
	fresh, err := notes.Decode(data)
	if err != nil {
		return false, fmt.Errorf("session: reload %s: %w", s.path, err)
	}
	s.written = data
	s.doc.MediaPath = fresh.MediaPath
	if err := s.editor.Replace(ctx, fresh.Notes); err != nil {
		return true, err
	}
	s.logger.Info("session: reloaded", slog.String("path", s.path), slog.Int("notes", len(s.doc.Notes)))
	return true, nil
}

// ImportVTT merges the cues of a WebVTT file into the document as notes.
func (s *Session) ImportVTT(ctx context.Context, content string) (int, error) {
	parsed, err := vtt.Parse(content)
	if err != nil {
		return 0, err
	}
	merged := append(append([]*notes.Note(nil), s.doc.Notes...), parsed...)
	if err := s.editor.Replace(ctx, merged); err != nil {
		return 0, err
	}
	if err := s.RequestSave(ctx); err != nil {
		return 0, err
	}
	return len(parsed), nil
}

// ExportVTT writes the notes as <name>.vtt next to the document and returns
// its path.
func (s *Session) ExportVTT(context.Context) (string, error) {
	out := strings.TrimSuffix(s.path, path.Ext(s.path)) + ".vtt"
	content := []byte(vtt.Export(s.doc.Notes))

	var err error
	if s.store.Exists(out) {
		err = s.store.Modify(out, content)
	} else {
		err = s.store.Create(out, content)
	}
	if err != nil {
		return "", fmt.Errorf("session: export %s: %w", out, err)
	}
	s.logger.Info("session: exported", slog.String("path", out))
	return out, nil
}
