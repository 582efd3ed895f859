package application

import (
	"sync"
	"time"
)

// IDGenerator hands out strictly increasing product ids based on the
// millisecond clock. Two calls in the same millisecond (or after the clock
// steps back) get last+1, so ids never repeat within a process and stay
// small enough to survive a JSON round trip through a browser.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator starts above floor, normally the largest id already stored.
func NewIDGenerator(floor int64) *IDGenerator {
	return &IDGenerator{last: floor, now: time.Now}
}

func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
