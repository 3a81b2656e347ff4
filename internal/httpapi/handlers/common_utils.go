package handlers

import (
	"fmt"
	"time"
)

const homeTimeLayout = "2006-01-02 15:04:05"

// formatTimestamp renders t in server local time, matching what operators
// see in container logs.
func formatTimestamp(t time.Time) string {
	return t.Local().Format(time.RFC3339)
}

// formatAge renders a coarse, human readable duration ("3d", "5h", "42s").
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0s"
	}

	switch {
	case d.Hours() >= 24*365:
		return fmt.Sprintf("%dy", int(d.Hours()/(24*365)))
	case d.Hours() >= 24*30:
		return fmt.Sprintf("%dmo", int(d.Hours()/(24*30)))
	case d.Hours() >= 24:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	case d.Hours() >= 1:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d.Minutes() >= 1:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}
