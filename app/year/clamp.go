package year

import "time"

var now = time.Now

func CurrentYear() int {
	return now().UTC().Year()
}

// Clamp bounds a requested year to [1, CurrentYear()].
func Clamp(raw int) int {
	return max(1, min(raw, CurrentYear()))
}
