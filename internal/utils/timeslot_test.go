package utils

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestTimeToMinutes(t *testing.T) {
    assert.Equal(t, 0, TimeToMinutes("00:00"))
    assert.Equal(t, 540, TimeToMinutes("09:00"))
    assert.Equal(t, 870, TimeToMinutes("14:30"))
    assert.Equal(t, 1439, TimeToMinutes("23:59"))
}

func TestTimeToMinutes_Lenient(t *testing.T) {
    // Malformed parts default to 0 instead of failing.
    assert.Equal(t, 0, TimeToMinutes(""))
    assert.Equal(t, 540, TimeToMinutes("9"))
    assert.Equal(t, 540, TimeToMinutes("09:"))
    assert.Equal(t, 30, TimeToMinutes(":30"))
    assert.Equal(t, 0, TimeToMinutes("ab:cd"))
}

func TestMinutesToTime(t *testing.T) {
    assert.Equal(t, "00:00", MinutesToTime(0))
    assert.Equal(t, "09:05", MinutesToTime(545))
    assert.Equal(t, "23:00", MinutesToTime(1380))
    assert.Equal(t, "00:00", MinutesToTime(-10))
}

func TestValidClock(t *testing.T) {
    assert.True(t, ValidClock("00:00"))
    assert.True(t, ValidClock("23:59"))
    assert.True(t, ValidClock("24:00"))
    assert.False(t, ValidClock("24:01"))
    assert.False(t, ValidClock("9:00"))
    assert.False(t, ValidClock("09-00"))
    assert.False(t, ValidClock("09:60"))
    assert.False(t, ValidClock(""))
}

func TestOverlaps(t *testing.T) {
    cases := []struct {
        name                           string
        startA, endA, startB, endB     string
        want                           bool
    }{
        {"identical", "09:00", "10:00", "09:00", "10:00", true},
        {"partial overlap", "14:00", "15:00", "14:30", "15:30", true},
        {"contained", "09:00", "12:00", "10:00", "11:00", true},
        {"containing", "10:00", "11:00", "09:00", "12:00", true},
        {"touching end-to-start", "09:00", "10:00", "10:00", "11:00", false},
        {"touching start-to-end", "10:00", "11:00", "09:00", "10:00", false},
        {"disjoint", "09:00", "10:00", "12:00", "13:00", false},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            got := ClockOverlaps(tc.startA, tc.endA, tc.startB, tc.endB)
            assert.Equal(t, tc.want, got)
        })
    }
}
