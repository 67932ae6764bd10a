package main

import (
	"strconv"
	"time"

	"geomatch/internal/match"
)

func formatCoordinate(value float64) string {
	return strconv.FormatFloat(value, 'f', 7, 64)
}

func eventTime(ev match.Event) string {
	return time.UnixMilli(ev.TimestampMS).UTC().Format(time.RFC3339)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
