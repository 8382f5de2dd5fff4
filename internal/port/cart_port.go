package port

import (
	"context"

	"github.com/nikolayk812/cartkeeper/internal/domain"
)

// CartSnapshotStore is a single named slot holding the serialized cart.
type CartSnapshotStore interface {
	// Load returns an empty cart when nothing has been saved yet.
	Load(ctx context.Context) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
}
