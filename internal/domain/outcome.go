package domain

import "errors"

type Operation string

const (
	OpAdd         Operation = "add"
	OpRemove      Operation = "remove"
	OpSetQuantity Operation = "set_quantity"
)

type OutcomeKind int

const (
	OutcomeUpdated OutcomeKind = iota
	OutcomeUnchanged
	OutcomeAddFailed
	OutcomeLookupFailed
	OutcomeStockLookupFailed
	OutcomeNotFound
	OutcomeOutOfStock
	OutcomeInvalidQuantity
	OutcomePersistFailed
)

var outcomeNames = map[OutcomeKind]string{
	OutcomeUpdated:           "updated",
	OutcomeUnchanged:         "unchanged",
	OutcomeAddFailed:         "add_failed",
	OutcomeLookupFailed:      "lookup_failed",
	OutcomeStockLookupFailed: "stock_lookup_failed",
	OutcomeNotFound:          "not_found",
	OutcomeOutOfStock:        "out_of_stock",
	OutcomeInvalidQuantity:   "invalid_quantity",
	OutcomePersistFailed:     "persist_failed",
}

func (k OutcomeKind) String() string {
	if name, ok := outcomeNames[k]; ok {
		return name
	}
	return "unknown"
}

func (k OutcomeKind) Failed() bool {
	return k != OutcomeUpdated && k != OutcomeUnchanged
}

// Outcome is the classified result of a single cart operation.
type Outcome struct {
	Op        Operation
	ProductID ProductID
	Kind      OutcomeKind
	Err       error
}

// Classify maps the error returned by op to an outcome kind. Add failures
// always classify as OutcomeAddFailed, whatever the cause.
func Classify(op Operation, err error) OutcomeKind {
	if err == nil {
		return OutcomeUpdated
	}

	if op == OpAdd || errors.Is(err, ErrAddFailed) {
		return OutcomeAddFailed
	}

	switch {
	case errors.Is(err, ErrOutOfStock):
		return OutcomeOutOfStock
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrStockLookup):
		return OutcomeStockLookupFailed
	case errors.Is(err, ErrLookup):
		return OutcomeLookupFailed
	case errors.Is(err, ErrInvalidQuantity):
		return OutcomeInvalidQuantity
	default:
		return OutcomePersistFailed
	}
}
