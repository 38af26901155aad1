package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts a display timestamp to seconds. Three colon-separated parts
// are read as H:MM:SS, two as MM:SS. Any other shape, including non-numeric
// fields, returns 0; callers treat 0 as "unparseable, default to segment
// start" rather than an error.
func Parse(text string) int {
	parts := strings.Split(strings.TrimSpace(text), ":")

	switch len(parts) {
	case 3:
		h, errH := strconv.Atoi(parts[0])
		m, errM := strconv.Atoi(parts[1])
		s, errS := strconv.Atoi(parts[2])
		if errH != nil || errM != nil || errS != nil {
			return 0
		}
		return h*3600 + m*60 + s
	case 2:
		m, errM := strconv.Atoi(parts[0])
		s, errS := strconv.Atoi(parts[1])
		if errM != nil || errS != nil {
			return 0
		}
		return m*60 + s
	default:
		return 0
	}
}

// Format converts seconds to a display timestamp. The hour field is omitted
// when zero; all emitted fields are zero-padded to two digits.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	if h == 0 {
		return fmt.Sprintf("%02d:%02d", m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
