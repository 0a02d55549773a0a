package media

import (
	"fmt"
	"math"
	"strings"
)

// FormatClock renders t as [HH:][MM:]SS.ss. Hours and minutes only appear
// when the duration (or t itself) reaches them, so short clips stay short.
func FormatClock(t, duration float64) string {
	if t < 0 || math.IsNaN(t) {
		t = 0
	}
	t = math.Floor(t*100) / 100
	whole := int(t)
	h := whole / 3600
	m := (whole % 3600) / 60
	s := t - float64(h*3600+m*60)

	showHours := duration >= 3600 || h > 0
	showMinutes := showHours || duration >= 60 || m > 0

	var b strings.Builder
	if showHours {
		fmt.Fprintf(&b, "%02d:", h)
	}
	if showMinutes {
		fmt.Fprintf(&b, "%02d:", m)
	}
	fmt.Fprintf(&b, "%05.2f", s)
	return b.String()
}

// FormatPosition renders "position / duration".
func FormatPosition(t, duration float64) string {
	return FormatClock(t, duration) + " / " + FormatClock(duration, duration)
}
