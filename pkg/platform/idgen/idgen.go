// Package idgen issues time-ordered numeric identifiers compatible with the
// legacy data set, which used millisecond timestamps as primary keys.
package idgen

import (
	"sync/atomic"
	"time"
)

var last atomic.Int64

// Next returns a unique, monotonically increasing int64. The value tracks
// wall-clock milliseconds but never repeats even when called faster than once
// per millisecond.
func Next() int64 {
	now := time.Now().UnixMilli()
	for {
		prev := last.Load()
		if now <= prev {
			now = prev + 1
		}
		if last.CompareAndSwap(prev, now) {
			return now
		}
	}
}
