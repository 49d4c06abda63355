package utils // package utils provides helper functions shared across the booking core

import (
    "fmt"
    "strconv"
    "strings"
)

// TimeToMinutes parses an "HH:mm" 24-hour string and returns the
// minutes-since-midnight offset. Malformed input is treated leniently
// rather than rejected: a missing or unparseable part counts as 0, so
// "9" is 540 and "" is 0. Callers that need strict validation should
// use ValidClock first.
func TimeToMinutes(hhmm string) int {
    parts := strings.SplitN(hhmm, ":", 2)
    h, m := 0, 0
    if len(parts) > 0 {
        if n, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
            h = n
        }
    }
    if len(parts) > 1 {
        if n, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
            m = n
        }
    }
    return h*60 + m
}

// MinutesToTime renders a minutes-since-midnight offset back into an
// "HH:mm" string. Offsets outside a single day are clamped into it.
func MinutesToTime(min int) string {
    if min < 0 {
        min = 0
    }
    if min > 24*60 {
        min = 24 * 60
    }
    return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// ValidClock reports whether s is a well-formed "HH:mm" string within
// a single day. "24:00" is accepted as an interval end bound.
func ValidClock(s string) bool {
    if len(s) != 5 || s[2] != ':' {
        return false
    }
    h, err := strconv.Atoi(s[:2])
    if err != nil || h < 0 || h > 24 {
        return false
    }
    m, err := strconv.Atoi(s[3:])
    if err != nil || m < 0 || m > 59 {
        return false
    }
    if h == 24 && m != 0 {
        return false
    }
    return true
}

// Overlaps tests two half-open intervals given as minute offsets.
// Touching endpoints do not overlap: a booking ending at 10:00 and one
// starting at 10:00 are compatible.
func Overlaps(startA, endA, startB, endB int) bool {
    return startA < endB && startB < endA
}

// ClockOverlaps is Overlaps for "HH:mm" strings.
func ClockOverlaps(startA, endA, startB, endB string) bool {
    return Overlaps(TimeToMinutes(startA), TimeToMinutes(endA), TimeToMinutes(startB), TimeToMinutes(endB))
}
