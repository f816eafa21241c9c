package service

import (
	"math/rand"
	"sync"
)

// lockedRand is a seeded rand.Rand safe to share across concurrent requests.
// The intake service and intent classifier draw prompt phrasing from one
// instance, so output stays reproducible under a fixed seed.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func newLockedRand(seed int64) *lockedRand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}
