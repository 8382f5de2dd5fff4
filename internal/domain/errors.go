package domain

import "errors"

var (
	// ErrLookup means the catalog lookup for a new product failed or returned nothing.
	ErrLookup = errors.New("product lookup failed")
	// ErrStockLookup means the stock lookup failed or returned nothing.
	ErrStockLookup = errors.New("stock lookup failed")
	// ErrNotFound means the target product is not in the cart.
	ErrNotFound = errors.New("product not in cart")
	// ErrOutOfStock means the requested quantity exceeds available stock.
	ErrOutOfStock = errors.New("requested quantity out of stock")
	// ErrInvalidQuantity means a negative quantity was requested.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrPersist means the cart snapshot could not be saved.
	ErrPersist = errors.New("cart snapshot not saved")
	// ErrAddFailed wraps every failure of an add operation.
	ErrAddFailed = errors.New("add item failed")
)
