package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../migrations/01_products.up.sql",
			"../migrations/02_carts.up.sql",
			"../migrations/03_orders.up.sql",
			"../migrations/04_payment_methods.up.sql",
			"../migrations/05_transactions.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

func randomProduct() domain.Product {
	price := randomMoney()
	return domain.Product{
		ID:     uuid.MustParse(gofakeit.UUID()),
		Name:   gofakeit.ProductName(),
		Price:  &price,
		Stock:  int32(gofakeit.Number(1, 1000)),
		Active: true,
	}
}

func randomMoney() domain.Money {
	return domain.Money{
		Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
		Currency: currency.BRL,
	}
}

func brl(t *testing.T, amount string) domain.Money {
	t.Helper()

	d, err := decimal.NewFromString(amount)
	require.NoError(t, err)

	return domain.Money{Amount: d, Currency: currency.BRL}
}
