package notes

import "github.com/aschmelyun/vnote/internal/arrayedit"

// ClassActive marks the row whose note is playing.
const ClassActive = "bordered"

// ActiveIndex returns the greatest i with notes[i].Time <= t, or 0 when
// every note lies after t. notes must be sorted by time.
func ActiveIndex(notes []*Note, t float64) int {
	best := 0
	low, high := 0, len(notes)-1
	for low <= high {
		mid := int(uint(low+high) >> 1)
		if notes[mid].Time <= t {
			best = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return best
}

func entryNotes(entries []arrayedit.Entry[*Note]) []*Note {
	out := make([]*Note, len(entries))
	for i, en := range entries {
		out[i] = en.Item
	}
	return out
}
