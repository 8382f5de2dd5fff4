// Package cart holds the cart reconciliation engine: an in-memory cart whose
// mutations are checked against external stock and saved to a durable slot
// before they become visible.
package cart

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/port"
	"github.com/sirupsen/logrus"
)

type Store struct {
	snapshots port.CartSnapshotStore
	catalog   port.CatalogLookup
	stock     port.StockLookup
	notifier  port.Notifier
	log       logrus.FieldLogger

	lookupTimeout   time.Duration
	persistTimeout  time.Duration
	stockCheckOnAdd bool

	// writeMu serializes mutations; mu guards cart for readers.
	writeMu sync.Mutex
	mu      sync.RWMutex
	cart    domain.Cart
}

// New seeds the cart from snapshots. An empty slot yields an empty cart.
func New(
	ctx context.Context,
	snapshots port.CartSnapshotStore,
	catalog port.CatalogLookup,
	stock port.StockLookup,
	opts ...Option,
) (*Store, error) {
	if snapshots == nil {
		return nil, fmt.Errorf("snapshots is nil")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog is nil")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock is nil")
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Store{
		snapshots:      snapshots,
		catalog:        catalog,
		stock:          stock,
		notifier:       nopNotifier{},
		log:            discard,
		lookupTimeout:  DefaultLookupTimeout,
		persistTimeout: DefaultPersistTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	cart, err := snapshots.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshots.Load: %w", err)
	}
	s.cart = cart.Clone()

	s.log.WithField("items", s.cart.Len()).Debug("cart loaded")

	return s, nil
}

// CurrentCart returns a copy of the live cart.
func (s *Store) CurrentCart() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cart.Clone()
}

// AddItem adds one unit of id. A product already in the cart goes through the
// stock-checked SetQuantity path with its quantity plus one; a new product is
// fetched from the catalog and appended with quantity 1. Every failure wraps
// domain.ErrAddFailed together with its cause.
func (s *Store) AddItem(ctx context.Context, id domain.ProductID) (domain.Cart, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.CurrentCart()

	next, err := s.addItem(ctx, current, id)
	if err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrAddFailed, err)
		s.emit(ctx, domain.OpAdd, id, domain.OutcomeAddFailed, err)
		return current, err
	}

	s.emit(ctx, domain.OpAdd, id, domain.OutcomeUpdated, nil)
	return next, nil
}

func (s *Store) addItem(ctx context.Context, current domain.Cart, id domain.ProductID) (domain.Cart, error) {
	if idx, ok := current.Find(id); ok {
		next, _, err := s.setQuantity(ctx, current, id, current.Items[idx].Quantity+1)
		return next, err
	}

	product, err := s.lookupProduct(ctx, id)
	if err != nil {
		return current, err
	}

	if s.stockCheckOnAdd {
		if err := s.checkStock(ctx, id, 1); err != nil {
			return current, err
		}
	}

	item := domain.NewLineItem(product, 1)
	item.ProductID = id

	next := current.Clone()
	next.Items = append(next.Items, item)

	if err := s.commit(ctx, next); err != nil {
		return current, err
	}

	return next.Clone(), nil
}

// RemoveItem removes id from the cart, keeping the order of the rest.
func (s *Store) RemoveItem(ctx context.Context, id domain.ProductID) (domain.Cart, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.CurrentCart()

	next, err := s.removeItem(ctx, current, id)
	s.emit(ctx, domain.OpRemove, id, domain.Classify(domain.OpRemove, err), err)
	if err != nil {
		return current, err
	}

	return next, nil
}

func (s *Store) removeItem(ctx context.Context, current domain.Cart, id domain.ProductID) (domain.Cart, error) {
	idx, ok := current.Find(id)
	if !ok {
		return current, fmt.Errorf("product[%d]: %w", id, domain.ErrNotFound)
	}

	items := make([]domain.LineItem, 0, current.Len()-1)
	items = append(items, current.Items[:idx]...)
	items = append(items, current.Items[idx+1:]...)
	next := domain.Cart{Items: items}

	if err := s.commit(ctx, next); err != nil {
		return current, err
	}

	return next.Clone(), nil
}

// SetQuantity sets the quantity of a product already in the cart. It reports
// true only when the quantity was changed and saved. An amount of zero is a
// no-op that never consults stock; an amount above available stock returns
// domain.ErrOutOfStock and leaves the cart untouched.
func (s *Store) SetQuantity(ctx context.Context, id domain.ProductID, amount int) (domain.Cart, bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.CurrentCart()

	next, updated, err := s.setQuantity(ctx, current, id, amount)

	kind := domain.Classify(domain.OpSetQuantity, err)
	if err == nil && !updated {
		kind = domain.OutcomeUnchanged
	}
	s.emit(ctx, domain.OpSetQuantity, id, kind, err)

	if err != nil {
		return current, false, err
	}

	return next, updated, nil
}

func (s *Store) setQuantity(ctx context.Context, current domain.Cart, id domain.ProductID, amount int) (domain.Cart, bool, error) {
	if amount == 0 {
		return current, false, nil
	}
	if amount < 0 {
		return current, false, fmt.Errorf("amount[%d]: %w", amount, domain.ErrInvalidQuantity)
	}

	idx, ok := current.Find(id)
	if !ok {
		return current, false, fmt.Errorf("product[%d]: %w", id, domain.ErrNotFound)
	}

	if err := s.checkStock(ctx, id, amount); err != nil {
		return current, false, err
	}

	next := current.Clone()
	next.Items[idx].Quantity = amount

	if err := s.commit(ctx, next); err != nil {
		return current, false, err
	}

	return next.Clone(), true, nil
}

func (s *Store) checkStock(ctx context.Context, id domain.ProductID, amount int) error {
	info, err := s.lookupStock(ctx, id)
	if err != nil {
		return err
	}

	if amount > info.Available {
		return fmt.Errorf("product[%d] amount[%d] available[%d]: %w", id, amount, info.Available, domain.ErrOutOfStock)
	}

	return nil
}

func (s *Store) lookupProduct(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	ctx, cancel := s.lookupContext(ctx)
	defer cancel()

	product, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%w: catalog.GetProduct: %w", domain.ErrLookup, err)
	}

	return product, nil
}

func (s *Store) lookupStock(ctx context.Context, id domain.ProductID) (domain.StockInfo, error) {
	ctx, cancel := s.lookupContext(ctx)
	defer cancel()

	info, err := s.stock.GetStock(ctx, id)
	if err != nil {
		return domain.StockInfo{}, fmt.Errorf("%w: stock.GetStock: %w", domain.ErrStockLookup, err)
	}
	if info.Available < 0 {
		return domain.StockInfo{}, fmt.Errorf("%w: product[%d] negative stock %d", domain.ErrStockLookup, id, info.Available)
	}

	return info, nil
}

func (s *Store) lookupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.lookupTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.lookupTimeout)
}

func (s *Store) persistContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if s.persistTimeout <= 0 {
		return context.WithCancel(detached)
	}

	return context.WithTimeout(detached, s.persistTimeout)
}

// commit saves next and only then makes it the live cart. The save is detached
// from ctx cancellation and bounded by persistTimeout instead.
func (s *Store) commit(ctx context.Context, next domain.Cart) error {
	saveCtx, cancel := s.persistContext(ctx)
	defer cancel()

	if err := s.snapshots.Save(saveCtx, next); err != nil {
		return fmt.Errorf("%w: snapshots.Save: %w", domain.ErrPersist, err)
	}

	s.mu.Lock()
	s.cart = next
	s.mu.Unlock()

	return nil
}

func (s *Store) emit(ctx context.Context, op domain.Operation, id domain.ProductID, kind domain.OutcomeKind, err error) {
	entry := s.log.WithFields(logrus.Fields{
		"op":         op,
		"product_id": id,
		"outcome":    kind.String(),
	})
	if err != nil {
		entry.WithError(err).Debug("cart operation failed")
	} else {
		entry.Debug("cart operation done")
	}

	s.notifier.Notify(ctx, domain.Outcome{
		Op:        op,
		ProductID: id,
		Kind:      kind,
		Err:       err,
	})
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, domain.Outcome) {}
