package port

import (
	"context"

	"github.com/nikolayk812/cartkeeper/internal/domain"
)

// Notifier receives exactly one classified outcome per cart operation.
type Notifier interface {
	Notify(ctx context.Context, outcome domain.Outcome)
}
