package logging

import "time"

// Console lines keep milliseconds so prompt and aspect arrivals within one
// page build can be ordered by eye.
const consoleTimestampLayout = "2006-01-02 15:04:05.000"

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(time.Local).Format(consoleTimestampLayout)
}
