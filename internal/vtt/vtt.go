// Package vtt converts notes to and from WebVTT subtitles.
package vtt

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/aschmelyun/vnote/internal/notes"
)

// DefaultCueLength is how long the last cue, or a cue sharing its start
// with the next one, stays on screen.
const DefaultCueLength = 2.0

var ErrNotVTT = errors.New("vtt: missing WEBVTT header")

var timeStampRegex = regexp.MustCompile(`^((?:\d+:)?\d{2}:\d{2}\.\d{3})\s+-->\s+((?:\d+:)?\d{2}:\d{2}\.\d{3})`)

// Export renders notes as numbered cues. Each cue runs until the next note
// starts. Notes without text are left out.
func Export(ns []*notes.Note) string {
	sorted := slices.Clone(ns)
	notes.Sort(sorted)

	var b strings.Builder
	b.WriteString("WEBVTT\n")
	cue := 0
	for i, n := range sorted {
		text := cueText(n.Text)
		if text == "" {
			continue
		}
		end := n.Time + DefaultCueLength
		if i+1 < len(sorted) && sorted[i+1].Time > n.Time {
			end = sorted[i+1].Time
		}
		cue++
		fmt.Fprintf(&b, "\n%d\n%s --> %s\n%s\n", cue, FormatTimestamp(n.Time), FormatTimestamp(end), text)
	}
	return b.String()
}

// cueText drops blank lines, which would end the cue early, and the arrow
// sequence, which is reserved.
func cueText(s string) string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimRight(l, " \t\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, strings.ReplaceAll(l, "-->", "->"))
	}
	return strings.Join(lines, "\n")
}

// FormatTimestamp renders seconds as HH:MM:SS.mmm.
func FormatTimestamp(t float64) string {
	if t < 0 || math.IsNaN(t) {
		t = 0
	}
	ms := int64(math.Round(t * 1000))
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms%1000)
}

// Parse reads the cues of a WebVTT file as notes: each cue becomes a note at
// its start time, its payload lines joined by newlines.
func Parse(content string) ([]*notes.Note, error) {
	content = strings.TrimPrefix(content, "\ufeff")
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	header := true
	var out []*notes.Note
	var current *notes.Note
	var text []string
	flush := func() {
		if current != nil && len(text) > 0 {
			current.Text = strings.Join(text, "\n")
			out = append(out, current)
		}
		current, text = nil, nil
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if header {
			if line == "" {
				continue
			}
			if !strings.HasPrefix(line, "WEBVTT") {
				return nil, ErrNotVTT
			}
			header = false
			continue
		}

		if matches := timeStampRegex.FindStringSubmatch(line); matches != nil {
			flush()
			start, err := ParseTimestamp(matches[1])
			if err != nil {
				return nil, err
			}
			current = &notes.Note{Time: start}
			continue
		}
		if line == "" {
			flush()
			continue
		}
		if current != nil {
			text = append(text, line)
		}
	}
	flush()
	if header {
		return nil, ErrNotVTT
	}

	notes.Sort(out)
	return out, nil
}

// ParseTimestamp reads HH:MM:SS.mmm or MM:SS.mmm as seconds.
func ParseTimestamp(timeStr string) (float64, error) {
	var hours, minutes int
	var seconds float64

	var err error
	if strings.Count(timeStr, ":") == 2 {
		_, err = fmt.Sscanf(timeStr, "%d:%d:%f", &hours, &minutes, &seconds)
	} else {
		_, err = fmt.Sscanf(timeStr, "%d:%f", &minutes, &seconds)
	}
	if err != nil {
		return 0, fmt.Errorf("vtt: parse timestamp %q: %w", timeStr, err)
	}
	return float64(hours*3600) + float64(minutes*60) + seconds, nil
}
