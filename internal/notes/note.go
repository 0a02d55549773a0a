// Package notes holds the timestamped note model and the note list editor
// that tracks a playback clock.
package notes

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
)

var ErrMalformedDocument = errors.New("notes: malformed document")

// Note is a piece of text anchored to a playback position in seconds.
type Note struct {
	Time float64 `json:"time"`
	Text string  `json:"note"`
}

// Document is the persisted unit: a media reference plus its notes.
type Document struct {
	MediaPath string  `json:"mediaPath"`
	Notes     []*Note `json:"notes"`
}

// ByTime orders notes ascending by time.
func ByTime(a, b *Note) int {
	return cmp.Compare(a.Time, b.Time)
}

// Sort orders notes by time in place. Notes sharing a time keep their
// relative order.
func Sort(notes []*Note) {
	slices.SortStableFunc(notes, ByTime)
}

type wireDocument struct {
	MediaPath *string `json:"mediaPath"`
	VideoPath string  `json:"videoPath"`
	Notes     []*Note `json:"notes"`
}

// Decode parses a persisted document and sorts its notes by time. Anything
// that is not a JSON object of the expected shape fails with
// ErrMalformedDocument.
func Decode(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &Document{Notes: []*Note{}}, nil
	}
	var w wireDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	doc := &Document{MediaPath: w.VideoPath, Notes: w.Notes}
	if w.MediaPath != nil {
		doc.MediaPath = *w.MediaPath
	}
	if doc.Notes == nil {
		doc.Notes = []*Note{}
	}
	for i, n := range doc.Notes {
		if n == nil {
			return nil, fmt.Errorf("%w: note %d is null", ErrMalformedDocument, i)
		}
		if n.Time < 0 || math.IsNaN(n.Time) || math.IsInf(n.Time, 0) {
			return nil, fmt.Errorf("%w: note %d has time %v", ErrMalformedDocument, i, n.Time)
		}
	}
	Sort(doc.Notes)
	return doc, nil
}

// Encode serializes doc in its persisted form.
func Encode(doc *Document) ([]byte, error) {
	out := *doc
	if out.Notes == nil {
		out.Notes = []*Note{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("notes: encode: %w", err)
	}
	return append(data, '\n'), nil
}
