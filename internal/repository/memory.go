package repository

import (
	"context"
	"sync"

	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/port"
)

type memoryRepository struct {
	mu   sync.Mutex
	data []byte
}

// NewMemory returns a slot kept in process memory. The cart is stored in its
// serialized form so callers never share item slices with the slot.
func NewMemory() port.CartSnapshotStore {
	return &memoryRepository{}
}

func (r *memoryRepository) Load(_ context.Context) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return UnmarshalCart(r.data)
}

func (r *memoryRepository) Save(_ context.Context, cart domain.Cart) error {
	data, err := MarshalCart(cart)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.data = data
	r.mu.Unlock()

	return nil
}
