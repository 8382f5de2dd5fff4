package storefront

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/port"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"
)

// Breaker guards the catalog and stock lookups with a circuit breaker and
// collapses concurrent stock lookups of the same product into one call.
type Breaker struct {
	catalog port.CatalogLookup
	stock   port.StockLookup
	cb      *gobreaker.CircuitBreaker
	sf      singleflight.Group

	sharedTimeout time.Duration
}

type BreakerSettings struct {
	Name string
	// Interval resets the failure counts while closed.
	Interval time.Duration
	// Timeout is how long the breaker stays open.
	Timeout time.Duration
	// MinRequests and FailureRatio decide when to trip.
	MinRequests  uint32
	FailureRatio float64
	// SharedTimeout bounds a collapsed stock lookup, which runs detached from
	// any single caller. Zero waits forever.
	SharedTimeout time.Duration
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:          "StorefrontCircuitBreaker",
		Interval:      10 * time.Second,
		Timeout:       30 * time.Second,
		MinRequests:   5,
		FailureRatio:  0.5,
		SharedTimeout: 5 * time.Second,
	}
}

func NewBreaker(catalog port.CatalogLookup, stock port.StockLookup, settings BreakerSettings, log logrus.FieldLogger) *Breaker {
	st := gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= settings.MinRequests && failureRatio >= settings.FailureRatio
		},

		// a missing record is an answer, and a caller giving up says nothing
		// about the storefront
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrEmptyResponse) ||
				errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if log != nil {
				log.Warnf("%s state changed from %s to %s", name, from, to)
			}
		},
	}

	return &Breaker{
		catalog: catalog,
		stock:   stock,
		cb:      gobreaker.NewCircuitBreaker(st),

		sharedTimeout: settings.SharedTimeout,
	}
}

func (b *Breaker) GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	v, err := b.cb.Execute(func() (interface{}, error) {
		return b.catalog.GetProduct(ctx, id)
	})
	if err != nil {
		return domain.Product{}, err
	}

	return v.(domain.Product), nil
}

// GetStock joins any in-flight lookup of the same product. The shared call
// does not inherit a caller's cancellation; each caller stops waiting when its
// own ctx is done.
func (b *Breaker) GetStock(ctx context.Context, id domain.ProductID) (domain.StockInfo, error) {
	key := strconv.FormatInt(int64(id), 10)

	ch := b.sf.DoChan(key, func() (interface{}, error) {
		shared, cancel := b.sharedContext(ctx)
		defer cancel()

		return b.cb.Execute(func() (interface{}, error) {
			return b.stock.GetStock(shared, id)
		})
	})

	select {
	case <-ctx.Done():
		return domain.StockInfo{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.StockInfo{}, res.Err
		}
		return res.Val.(domain.StockInfo), nil
	}
}

func (b *Breaker) sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if b.sharedTimeout <= 0 {
		return context.WithCancel(detached)
	}

	return context.WithTimeout(detached, b.sharedTimeout)
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
