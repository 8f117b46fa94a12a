package state

import (
	"sync"

	"github.com/google/uuid"
)

// Clock counts document revisions. Readers on other goroutines (preview,
// autosave) may call Now while the board goroutine ticks.
type Clock struct {
	counter uint64
	mu      sync.Mutex
}

// Tick increments the clock and returns the new revision
func (c *Clock) Tick() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counter++
	return c.counter
}

// Now returns the current revision
func (c *Clock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counter
}

func newBoardID() string {
	return uuid.NewString()
}
