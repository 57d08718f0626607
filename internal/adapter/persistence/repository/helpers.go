package repository

import (
	"os"
	"strconv"
	"time"
)

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Money and timestamps are stored as strings so items round-trip without
// float drift or timezone surprises.

func floatToString(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func intToString(v int) string {
	return strconv.Itoa(v)
}

func int64ToString(v int64) string {
	return strconv.FormatInt(v, 10)
}

func stringToFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func timeToString(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func stringToTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func timePtrToString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return timeToString(*t)
}

func stringToTimePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	t := stringToTime(s)
	return &t
}
