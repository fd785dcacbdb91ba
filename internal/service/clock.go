package service

import (
	"sync"
	"time"

	"anoa.com/blogsocial/internal/entity"
)

// Clock supplies the logical block height and timestamp for Change stamps.
// Successive calls must not go backwards.
type Clock interface {
	Now() (entity.BlockNumber, time.Time)
}

// SystemClock advances the block height by one per operation and reads wall
// time.
type SystemClock struct {
	mu    sync.Mutex
	block entity.BlockNumber
	last  time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

func (c *SystemClock) Now() (entity.BlockNumber, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.block++
	now := time.Now().UTC()
	if now.Before(c.last) {
		now = c.last
	}
	c.last = now
	return c.block, now
}
