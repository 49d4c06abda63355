package service

import (
    "fmt"
    "hash/fnv"
    "sync"
)

// slotLocks serializes booking initiation per (resource, id, date) so
// two concurrent requests for overlapping intervals on the same
// resource cannot both observe "no conflict" before either inserts.
// The row locks taken by the conflict query only cover rows that
// already exist; this lock covers the first-writer case. Keys hash
// onto a fixed set of stripes, so memory stays bounded regardless of
// how many distinct slots are booked. Colliding stripes only cost
// needless serialization, never correctness.
type slotLocks struct {
    stripes [64]sync.Mutex
}

func slotKey(resource string, id uint64, date string) string {
    return fmt.Sprintf("%s:%d:%s", resource, id, date)
}

// lock acquires the stripes for the given keys in index order,
// skipping duplicates, and returns an unlock function. Ordered
// acquisition keeps concurrent initiations over venue+coach pairs
// deadlock free.
func (l *slotLocks) lock(keys ...string) func() {
    idx := make(map[int]bool, len(keys))
    for _, k := range keys {
        h := fnv.New32a()
        _, _ = h.Write([]byte(k))
        idx[int(h.Sum32()%uint32(len(l.stripes)))] = true
    }
    order := make([]int, 0, len(idx))
    for i := range l.stripes {
        if idx[i] {
            order = append(order, i)
        }
    }
    for _, i := range order {
        l.stripes[i].Lock()
    }
    return func() {
        for i := len(order) - 1; i >= 0; i-- {
            l.stripes[order[i]].Unlock()
        }
    }
}
