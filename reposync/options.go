package reposync

import (
	"errors"
	"time"
)

// Option configures a Manager.
type Option func(*Manager) error

// WithBatchSize sets the most repositories synced at once by Run.
func WithBatchSize(n int) Option {
	return func(m *Manager) error {
		if n < 1 {
			return errors.New("reposync: batch size must be positive")
		}
		m.batchSize = n
		return nil
	}
}

// WithInterval sets how often Start syncs every repository.
func WithInterval(d time.Duration) Option {
	return func(m *Manager) error {
		if d <= 0 {
			return errors.New("reposync: interval must be positive")
		}
		m.interval = d
		return nil
	}
}

// WithLocker sets the Locker serializing syncs of the same repository. It
// allows Managers to share locks.
func WithLocker(l *Locker) Option {
	return func(m *Manager) error {
		m.locks = l
		return nil
	}
}
