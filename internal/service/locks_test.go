package service

import (
    "sync"
    "sync/atomic"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"

    "github.com/courtsite/venue-slot-booking/internal/repository"
)

func TestSlotLocks_MutualExclusion(t *testing.T) {
    var l slotLocks
    key := slotKey(repository.ResourceVenue, 1, "2026-03-09")

    var active, overlapped int32
    var wg sync.WaitGroup
    for i := 0; i < 8; i++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            for j := 0; j < 200; j++ {
                unlock := l.lock(key)
                if atomic.AddInt32(&active, 1) != 1 {
                    atomic.StoreInt32(&overlapped, 1)
                }
                atomic.AddInt32(&active, -1)
                unlock()
            }
        }()
    }
    wg.Wait()
    assert.Zero(t, overlapped, "two holders observed inside the same slot lock")
}

func TestSlotLocks_DuplicateKeysDoNotDeadlock(t *testing.T) {
    var l slotLocks
    key := slotKey(repository.ResourceVenue, 1, "2026-03-09")

    // The same key twice maps to one stripe; without dedup this would
    // self-deadlock.
    unlock := l.lock(key, key)
    unlock()

    unlock = l.lock(key)
    unlock()
}

func TestSlotLocks_OppositeOrderPairsDoNotDeadlock(t *testing.T) {
    var l slotLocks
    venueKey := slotKey(repository.ResourceVenue, 1, "2026-03-09")
    coachKey := slotKey(repository.ResourceCoach, 3, "2026-03-09")

    done := make(chan struct{})
    go func() {
        var wg sync.WaitGroup
        for _, keys := range [][]string{{venueKey, coachKey}, {coachKey, venueKey}} {
            wg.Add(1)
            go func(keys []string) {
                defer wg.Done()
                for i := 0; i < 500; i++ {
                    unlock := l.lock(keys...)
                    unlock()
                }
            }(keys)
        }
        wg.Wait()
        close(done)
    }()

    select {
    case <-done:
    case <-time.After(5 * time.Second):
        t.Fatal("venue+coach lock pairs deadlocked")
    }
}
