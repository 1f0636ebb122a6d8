package utils

import "time"

// epochDateLayout is the display format for every epoch-millis date in
// the program. Clients parse it; do not change.
const epochDateLayout = "02-01-2006"

// FormatEpochDate renders epoch milliseconds as DD-MM-YYYY.
func FormatEpochDate(millis int64) string {
	return time.UnixMilli(millis).Format(epochDateLayout)
}

// NowMillis returns the current time in epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
