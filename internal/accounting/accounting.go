// Package accounting is a reference Accounting collaborator backing
// GETINFO accounting/*.
package accounting

import (
	"sync"
	"time"
)

type Tracker struct {
	mu           sync.Mutex
	enabled      bool
	limit        int64
	read         int64
	written      int64
	intervalEnd  time.Time
}

func New(limit int64, interval time.Duration) *Tracker {
	t := &Tracker{enabled: limit > 0, limit: limit}
	if t.enabled {
		t.intervalEnd = time.Now().Add(interval)
	}
	return t
}

func (t *Tracker) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

func (t *Tracker) AddBytes(read, written int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.read += read
	t.written += written
}

func (t *Tracker) BytesLeftInInterval() (int64, int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	readLeft := t.limit - t.read
	writtenLeft := t.limit - t.written
	if readLeft < 0 {
		readLeft = 0
	}
	if writtenLeft < 0 {
		writtenLeft = 0
	}
	return readLeft, writtenLeft
}

func (t *Tracker) IntervalEnd() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.intervalEnd
}
