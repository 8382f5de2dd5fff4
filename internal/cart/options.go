package cart

import (
	"time"

	"github.com/nikolayk812/cartkeeper/internal/port"
	"github.com/sirupsen/logrus"
)

const (
	DefaultLookupTimeout  = 5 * time.Second
	DefaultPersistTimeout = 10 * time.Second
)

type Option func(*Store)

func WithNotifier(n port.Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithLookupTimeout bounds every catalog and stock lookup. Zero waits forever.
func WithLookupTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.lookupTimeout = d
	}
}

// WithStockCheckOnAdd makes the first unit of a new product subject to the
// same stock check as later quantity changes.
func WithStockCheckOnAdd(enabled bool) Option {
	return func(s *Store) {
		s.stockCheckOnAdd = enabled
	}
}

// WithPersistTimeout bounds every snapshot save. Saves ignore the caller's
// cancellation, so this is the only limit on them. Zero waits forever.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d >= 0 {
			s.persistTimeout = d
		}
	}
}
