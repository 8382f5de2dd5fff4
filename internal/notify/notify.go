// Package notify turns classified cart outcomes into user-facing messages.
package notify

import (
	"context"
	"sync"

	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/port"
	"github.com/sirupsen/logrus"
)

var messages = map[domain.OutcomeKind]string{
	domain.OutcomeUpdated:           "Cart updated",
	domain.OutcomeUnchanged:         "Cart unchanged",
	domain.OutcomeAddFailed:         "Could not add the product",
	domain.OutcomeLookupFailed:      "Could not load the product",
	domain.OutcomeStockLookupFailed: "Could not change the product quantity",
	domain.OutcomeNotFound:          "Could not remove the product",
	domain.OutcomeOutOfStock:        "Requested quantity is out of stock",
	domain.OutcomeInvalidQuantity:   "Could not change the product quantity",
	domain.OutcomePersistFailed:     "Could not save the cart",
}

// Message returns the text shown to the user for an outcome.
func Message(o domain.Outcome) string {
	// a missing product on a quantity change reads differently than on removal
	if o.Kind == domain.OutcomeNotFound && o.Op == domain.OpSetQuantity {
		return messages[domain.OutcomeStockLookupFailed]
	}

	if msg, ok := messages[o.Kind]; ok {
		return msg
	}
	return "Something went wrong"
}

// LogNotifier writes one log entry per outcome.
type LogNotifier struct {
	log logrus.FieldLogger
}

func NewLogNotifier(log logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, o domain.Outcome) {
	entry := n.log.WithFields(logrus.Fields{
		"op":         o.Op,
		"product_id": o.ProductID,
		"outcome":    o.Kind.String(),
	})
	if o.Err != nil {
		entry = entry.WithError(o.Err)
	}

	msg := Message(o)

	switch o.Kind {
	case domain.OutcomeUpdated, domain.OutcomeUnchanged:
		entry.Info(msg)
	case domain.OutcomeStockLookupFailed, domain.OutcomeLookupFailed, domain.OutcomePersistFailed:
		entry.Error(msg)
	default:
		entry.Warn(msg)
	}
}

// Recorder keeps every outcome it receives.
type Recorder struct {
	mu       sync.Mutex
	outcomes []domain.Outcome
}

func (r *Recorder) Notify(_ context.Context, o domain.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.outcomes = append(r.outcomes, o)
}

func (r *Recorder) Outcomes() []domain.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Outcome, len(r.outcomes))
	copy(out, r.outcomes)
	return out
}

// Last returns the most recent outcome.
func (r *Recorder) Last() (domain.Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.outcomes) == 0 {
		return domain.Outcome{}, false
	}
	return r.outcomes[len(r.outcomes)-1], true
}

// Fanout delivers every outcome to each notifier in order.
type Fanout []port.Notifier

func (f Fanout) Notify(ctx context.Context, o domain.Outcome) {
	for _, n := range f {
		n.Notify(ctx, o)
	}
}
