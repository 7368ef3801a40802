package memory

import (
	"context"
	"fmt"
	"sync"

	portlocker "github.com/charlietlamb/openai-hack/internal/port/locker"
)

var _ portlocker.AdvisoryLocker = (*Locker)(nil)

// Locker is the single-process counterpart of the Postgres advisory locker.
// Waiting for a held key respects ctx.
type Locker struct {
	mu    sync.Mutex
	slots map[int64]chan struct{}
}

func NewLocker() *Locker {
	return &Locker{slots: make(map[int64]chan struct{})}
}

func (l *Locker) slot(key int64) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[key] = s
	}
	return s
}

func (l *Locker) WithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) error {
	s := l.slot(key)
	select {
	case s <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("acquire lock %d: %w", key, ctx.Err())
	}
	defer func() { <-s }()

	return fn(ctx)
}
