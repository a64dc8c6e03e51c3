package session

import "fmt"

// FormatDuration renders elapsed seconds as H.MM.SS: no leading zero on the
// hour, two digits for minutes and seconds.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%d.%02d.%02d", h, m, s)
}
