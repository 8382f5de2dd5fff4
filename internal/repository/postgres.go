package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartkeeper/internal/db"
	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/port"
)

type postgresRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
	slot string
}

// NewPostgres stores the cart of slot as one row per line item.
func NewPostgres(pool *pgxpool.Pool, slot string) (port.CartSnapshotStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	if slot == "" {
		return nil, fmt.Errorf("slot is empty")
	}

	return &postgresRepository{
		q:    db.New(pool),
		pool: pool,
		slot: slot,
	}, nil
}

func NewPostgresWithTx(tx pgx.Tx, slot string) (port.CartSnapshotStore, error) {
	if slot == "" {
		return nil, fmt.Errorf("slot is empty")
	}

	return &postgresRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
		slot: slot,
	}, nil
}

func (r *postgresRepository) Load(ctx context.Context) (domain.Cart, error) {
	rows, err := r.q.GetSlot(ctx, r.slot)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetSlot: %w", err)
	}

	items, err := mapGetSlotRowsToDomain(rows)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapGetSlotRowsToDomain: %w", err)
	}

	return domain.Cart{Items: items}, nil
}

// Save replaces the whole slot in one transaction.
func (r *postgresRepository) Save(ctx context.Context, cart domain.Cart) error {
	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		if _, err := q.DeleteSlot(ctx, r.slot); err != nil {
			return struct{}{}, fmt.Errorf("q.DeleteSlot: %w", err)
		}

		for i, item := range cart.Items {
			position, err := toInt32(i)
			if err != nil {
				return struct{}{}, fmt.Errorf("position: %w", err)
			}
			quantity, err := toInt32(item.Quantity)
			if err != nil {
				return struct{}{}, fmt.Errorf("product[%d] quantity: %w", item.ProductID, err)
			}

			err = q.InsertLineItem(ctx, db.InsertLineItemParams{
				Slot:          r.slot,
				Position:      position,
				ProductID:     int64(item.ProductID),
				Title:         item.Title,
				Image:         item.Image,
				PriceAmount:   item.Price.Amount,
				PriceCurrency: item.Price.Code(),
				Quantity:      quantity,
			})
			if err != nil {
				return struct{}{}, fmt.Errorf("q.InsertLineItem: %w", err)
			}
		}

		return struct{}{}, nil
	})

	return err
}

var ErrOutOfRange = errors.New("value out of range")

func toInt32(v int) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%d: %w", v, ErrOutOfRange)
	}
	return int32(v), nil
}

func mapGetSlotRowToDomain(row db.GetSlotRow) (domain.LineItem, error) {
	unit, err := parseCurrency(row.PriceCurrency)
	if err != nil {
		return domain.LineItem{}, err
	}

	return domain.LineItem{
		ProductID: domain.ProductID(row.ProductID),
		Title:     row.Title,
		Image:     row.Image,
		Price:     domain.Money{Amount: row.PriceAmount, Currency: unit},
		Quantity:  int(row.Quantity),
	}, nil
}

func mapGetSlotRowsToDomain(rows []db.GetSlotRow) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(rows))

	for _, row := range rows {
		item, err := mapGetSlotRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapGetSlotRowToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}
