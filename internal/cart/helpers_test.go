package cart_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nikolayk812/cartkeeper/internal/cart"
	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/notify"
	"github.com/nikolayk812/cartkeeper/internal/port"
	"github.com/nikolayk812/cartkeeper/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

type catalogMock struct{ mock.Mock }

func (m *catalogMock) GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(domain.Product)
	return p, args.Error(1)
}

type stockMock struct{ mock.Mock }

func (m *stockMock) GetStock(ctx context.Context, id domain.ProductID) (domain.StockInfo, error) {
	args := m.Called(ctx, id)
	info, _ := args.Get(0).(domain.StockInfo)
	return info, args.Error(1)
}

// flakyStore wraps a snapshot store and fails every Save while failing is set.
type flakyStore struct {
	port.CartSnapshotStore

	mu      sync.Mutex
	failing bool
	saves   int
}

var errDiskFull = errors.New("disk full")

func (s *flakyStore) Save(ctx context.Context, c domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing {
		return errDiskFull
	}
	s.saves++
	return s.CartSnapshotStore.Save(ctx, c)
}

func (s *flakyStore) setFailing(v bool) {
	s.mu.Lock()
	s.failing = v
	s.mu.Unlock()
}

func (s *flakyStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// cancelAwareStore refuses to save under a done context, like a network store
// whose write was interrupted.
type cancelAwareStore struct {
	port.CartSnapshotStore
}

func (s cancelAwareStore) Save(ctx context.Context, c domain.Cart) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.CartSnapshotStore.Save(ctx, c)
}

// hangingStore never finishes a save before its context ends.
type hangingStore struct {
	port.CartSnapshotStore
}

func (s *hangingStore) Save(ctx context.Context, _ domain.Cart) error {
	<-ctx.Done()
	return ctx.Err()
}

type fixture struct {
	store     *cart.Store
	snapshots *flakyStore
	catalog   *catalogMock
	stock     *stockMock
	outcomes  *notify.Recorder
}

// newFixture builds a Store whose durable slot already holds seed.
func newFixture(t *testing.T, seed domain.Cart, opts ...cart.Option) *fixture {
	t.Helper()

	snapshots := &flakyStore{CartSnapshotStore: repository.NewMemory()}
	require.NoError(t, snapshots.CartSnapshotStore.Save(t.Context(), seed))

	f := &fixture{
		snapshots: snapshots,
		catalog:   &catalogMock{},
		stock:     &stockMock{},
		outcomes:  &notify.Recorder{},
	}

	opts = append([]cart.Option{cart.WithNotifier(f.outcomes)}, opts...)

	store, err := cart.New(t.Context(), snapshots, f.catalog, f.stock, opts...)
	require.NoError(t, err)
	f.store = store

	return f
}

func (f *fixture) persisted(t *testing.T) []byte {
	t.Helper()

	c, err := f.snapshots.Load(t.Context())
	require.NoError(t, err)

	data, err := repository.MarshalCart(c)
	require.NoError(t, err)
	return data
}

func (f *fixture) lastOutcome(t *testing.T) domain.Outcome {
	t.Helper()

	o, ok := f.outcomes.Last()
	require.True(t, ok)
	return o
}

func shoe() domain.Product {
	return domain.Product{
		ID:    42,
		Title: "Shoe",
		Image: "https://example.com/shoe.jpg",
		Price: domain.Money{Amount: decimal.RequireFromString("139.90"), Currency: currency.BRL},
	}
}

func cartOf(items ...domain.LineItem) domain.Cart {
	return domain.Cart{Items: items}
}

func item(id domain.ProductID, quantity int) domain.LineItem {
	return domain.LineItem{ProductID: id, Title: "Product", Quantity: quantity}
}

func quantities(c domain.Cart) map[domain.ProductID]int {
	out := make(map[domain.ProductID]int, c.Len())
	for _, it := range c.Items {
		out[it.ProductID] = it.Quantity
	}
	return out
}
