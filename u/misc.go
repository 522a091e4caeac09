package u

import (
	"fmt"
	"strings"
	"time"
)

// FormatSize formats a number in a human-readable form e.g. 1.24 kB
func FormatSize(n int64) string {
	sizes := []int64{1024 * 1024 * 1024, 1024 * 1024, 1024}
	suffixes := []string{"GB", "MB", "kB"}
	for i, size := range sizes {
		if n >= size {
			s := fmt.Sprintf("%.2f", float64(n)/float64(size))
			return strings.TrimSuffix(s, ".00") + " " + suffixes[i]
		}
	}
	return fmt.Sprintf("%d bytes", n)
}

// FormatDuration formats duration with 2 digits of precision
// e.g. 1.23s, 13.2ms
func FormatDuration(d time.Duration) string {
	s := d.String()
	if d < time.Microsecond {
		return s
	}
	var unit string
	var v float64
	switch {
	case d < time.Millisecond:
		unit, v = "µs", float64(d)/float64(time.Microsecond)
	case d < time.Second:
		unit, v = "ms", float64(d)/float64(time.Millisecond)
	default:
		unit, v = "s", d.Seconds()
	}
	return fmt.Sprintf("%.2f%s", v, unit)
}
