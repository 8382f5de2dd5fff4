package repository

import (
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// snapshotRecord is the wire form of one line item in a serialized cart.
type snapshotRecord struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Image    string          `json:"image"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	Amount   int             `json:"amount"`
}

// MarshalCart encodes cart as an ordered JSON array of line item records.
func MarshalCart(cart domain.Cart) ([]byte, error) {
	records := make([]snapshotRecord, 0, cart.Len())

	for _, item := range cart.Items {
		records = append(records, snapshotRecord{
			ID:       int64(item.ProductID),
			Title:    item.Title,
			Image:    item.Image,
			Price:    item.Price.Amount,
			Currency: item.Price.Code(),
			Amount:   item.Quantity,
		})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}

// UnmarshalCart decodes data produced by MarshalCart. Empty input is an empty cart.
func UnmarshalCart(data []byte) (domain.Cart, error) {
	if len(data) == 0 {
		return domain.Cart{Items: []domain.LineItem{}}, nil
	}

	var records []snapshotRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return domain.Cart{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	items := make([]domain.LineItem, 0, len(records))
	seen := make(map[int64]struct{}, len(records))

	for _, r := range records {
		if _, dup := seen[r.ID]; dup {
			return domain.Cart{}, fmt.Errorf("product[%d] is duplicated", r.ID)
		}
		seen[r.ID] = struct{}{}

		if r.Amount < 1 {
			return domain.Cart{}, fmt.Errorf("product[%d] quantity[%d] is not valid", r.ID, r.Amount)
		}

		unit, err := parseCurrency(r.Currency)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("parseCurrency: %w", err)
		}

		items = append(items, domain.LineItem{
			ProductID: domain.ProductID(r.ID),
			Title:     r.Title,
			Image:     r.Image,
			Price:     domain.Money{Amount: r.Price, Currency: unit},
			Quantity:  r.Amount,
		})
	}

	return domain.Cart{Items: items}, nil
}

func parseCurrency(code string) (currency.Unit, error) {
	if code == "" {
		return currency.Unit{}, nil
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}

	return unit, nil
}
