package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/text/currency"
)

const postgresImage = "postgres:17.6-alpine3.22"

// startPostgres runs a throwaway database with the cart schema applied.
func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	container, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("cartkeeper"),
		postgres.WithInitScripts("../migrations/01_cart_line_items.up.sql"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	return container, dsn, nil
}

func startRedis(ctx context.Context) (*tcredis.RedisContainer, string, error) {
	redisContainer, err := tcredis.Run(ctx, "redis:7.4-alpine")
	if err != nil {
		return nil, "", fmt.Errorf("redis.Run: %w", err)
	}

	connStr, err := redisContainer.ConnectionString(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("rc.ConnectionString: %w", err)
	}

	return redisContainer, connStr, nil
}

func randomCart(n int) domain.Cart {
	items := make([]domain.LineItem, 0, n)
	seen := make(map[domain.ProductID]struct{}, n)

	for len(items) < n {
		id := domain.ProductID(gofakeit.Int64())
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		items = append(items, domain.LineItem{
			ProductID: id,
			Title:     gofakeit.ProductName(),
			Image:     gofakeit.URL(),
			Price:     randomMoney(),
			Quantity:  gofakeit.Number(1, 10),
		})
	}

	return domain.Cart{Items: items}
}

// randomMoney sometimes omits the currency, which a catalog price may do.
func randomMoney() domain.Money {
	m := domain.Money{Amount: decimal.NewFromFloat(gofakeit.Price(1, 100))}
	if gofakeit.Number(0, 4) > 0 {
		m.Currency = randomCurrency()
	}
	return m
}

func randomCurrency() currency.Unit {
	for {
		// some generated codes are unknown to x/text
		if unit, err := currency.ParseISO(gofakeit.CurrencyShort()); err == nil {
			return unit
		}
	}
}

func assertCart(t *testing.T, expected, actual domain.Cart) {
	t.Helper()

	moneyComparer := cmp.Comparer(func(x, y domain.Money) bool {
		return x.Equal(y)
	})

	diff := cmp.Diff(expected.Items, actual.Items, moneyComparer)
	assert.Empty(t, diff)
}
