package domain

type ProductID int64

// LineItem is one product in the cart. Title, Image and Price are copied from
// the catalog when the product is first added and never revalidated.
type LineItem struct {
	ProductID ProductID
	Title     string
	Image     string
	Price     Money

	Quantity int
}

func (li LineItem) Subtotal() Money {
	return li.Price.Times(li.Quantity)
}

// Cart is an ordered sequence of line items, unique by ProductID.
type Cart struct {
	Items []LineItem
}

// Find returns the index of the line item for id.
func (c Cart) Find(id ProductID) (int, bool) {
	for i, item := range c.Items {
		if item.ProductID == id {
			return i, true
		}
	}

	return -1, false
}

func (c Cart) Clone() Cart {
	if c.Items == nil {
		return Cart{Items: []LineItem{}}
	}

	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)

	return Cart{Items: items}
}

func (c Cart) Equal(other Cart) bool {
	if len(c.Items) != len(other.Items) {
		return false
	}

	for i := range c.Items {
		a, b := c.Items[i], other.Items[i]
		if a.ProductID != b.ProductID || a.Title != b.Title || a.Image != b.Image ||
			a.Quantity != b.Quantity || !a.Price.Equal(b.Price) {
			return false
		}
	}

	return true
}

func (c Cart) Len() int {
	return len(c.Items)
}

// Total sums the line subtotals. An empty cart totals zero with no currency.
func (c Cart) Total() (Money, error) {
	if len(c.Items) == 0 {
		return Money{}, nil
	}

	total := c.Items[0].Subtotal()
	for _, item := range c.Items[1:] {
		var err error
		if total, err = total.Add(item.Subtotal()); err != nil {
			return Money{}, err
		}
	}

	return total, nil
}
