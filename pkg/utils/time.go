package utils

import "time"

// NowMillis returns the current time as milliseconds since the epoch,
// the unit post timestamps are stored in
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// MillisToTime converts an epoch-milliseconds timestamp to time.Time
func MillisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// NowRFC3339 returns the current time in RFC3339 format
func NowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ParseRFC3339 parses a time string in RFC3339 format
func ParseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
