package locker

import "context"

//go:generate mockgen -destination=../../mocks/mock_locker.go -package=mocks -mock_names=AdvisoryLocker=MockAdvisoryLocker . AdvisoryLocker

// PollKey serialises whole polls: two polls never interleave writes to the same store.
const PollKey int64 = 0x706f6c6c // "poll"

// AdvisoryLocker serialises critical sections.
// The Postgres implementation uses session advisory locks, so WithLock must run lock
// and unlock on the same DB connection.
type AdvisoryLocker interface {
	WithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) error
}
