package domain

// Product is the catalog payload returned for a product id.
type Product struct {
	ID    ProductID
	Title string
	Image string
	Price Money
}

// StockInfo is the point-in-time stock level of a product.
type StockInfo struct {
	ProductID ProductID
	Available int
}

// NewLineItem builds a line item with the catalog payload of p.
func NewLineItem(p Product, quantity int) LineItem {
	return LineItem{
		ProductID: p.ID,
		Title:     p.Title,
		Image:     p.Image,
		Price:     p.Price,
		Quantity:  quantity,
	}
}
