package store

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// lockRetryInterval is how often a blocked Lock retries acquisition.
const lockRetryInterval = 100 * time.Millisecond

// lockPath is the advisory lockfile serializing structural mutation of the
// data directory across concurrent chaintool processes.
func (s *Store) lockPath() string {
	return filepath.Join(s.root, ".lock")
}

// Lock acquires the data-directory lock, blocking until it is free or ctx
// expires. The returned release function removes the lockfile; callers
// defer it immediately.
//
// The lock is advisory and coarse: it covers the whole data directory for
// the duration of one CLI operation. Read-only operations do not lock.
func (s *Store) Lock(ctx context.Context) (func(), error) {
	for {
		f, err := s.fs.OpenFile(
			s.lockPath(),
			os.O_WRONLY|os.O_CREATE|os.O_EXCL,
			0o644,
		)
		if err == nil {
			_, _ = f.WriteString(strconv.Itoa(os.Getpid()) + "\n")
			_ = f.Close()

			return func() { _ = s.fs.Remove(s.lockPath()) }, nil
		}

		if !os.IsExist(err) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ErrLockHeld.Wrap(ctx.Err())
		case <-time.After(lockRetryInterval):
		}
	}
}
