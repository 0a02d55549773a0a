package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

var (
	ErrNotFound         = errors.New("media: file not found")
	ErrNoExtension      = errors.New("media: no extension")
	ErrInvalidExtension = errors.New("media: unsupported extension")
)

// ValidExtensions lists the playable container extensions, video first.
var ValidExtensions = []string{
	"mp4", "mov", "webm", "mkv", "avi", "m4v", "flv", "mpg", "mpeg",
	"mp3", "wav", "m4a", "ogg", "flac", "aac", "aiff", "wma",
}

// IsValid reports whether ext, with or without its leading dot, is playable.
func IsValid(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	return slices.Contains(ValidExtensions, ext)
}

// CheckExtension fails with ErrNoExtension or ErrInvalidExtension when path
// cannot be a media file.
func CheckExtension(path string) error {
	ext := filepath.Ext(path)
	if ext == "" || ext == "." {
		return fmt.Errorf("%w in %s", ErrNoExtension, path)
	}
	if !IsValid(ext) {
		return fmt.Errorf("%w %q: %s", ErrInvalidExtension, ext, path)
	}
	return nil
}
