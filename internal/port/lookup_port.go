package port

import (
	"context"

	"github.com/nikolayk812/cartkeeper/internal/domain"
)

type CatalogLookup interface {
	GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error)
}

type StockLookup interface {
	GetStock(ctx context.Context, id domain.ProductID) (domain.StockInfo, error)
}
