package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// productRepository backs the CatalogProvider port with the products
// table, standing in for an external catalog service.
type productRepository struct {
	db dbtx
}

func NewProduct(pool *pgxpool.Pool) (port.CatalogRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &productRepository{db: pool}, nil
}

func (r *productRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	var (
		product     domain.Product
		priceAmount *decimal.Decimal
		priceCode   string
	)

	err := r.db.QueryRow(ctx,
		`SELECT id, name, price_amount, price_currency, stock, is_active, created_at
		 FROM products WHERE id = $1`,
		productID).Scan(&product.ID, &product.Name, &priceAmount, &priceCode,
		&product.Stock, &product.Active, &product.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("query product: %w", err)
	}

	if priceAmount != nil {
		price, err := parseMoney(*priceAmount, priceCode)
		if err != nil {
			return domain.Product{}, fmt.Errorf("parseMoney: %w", err)
		}
		product.Price = &price
	}

	return product, nil
}

// CreateProduct exists for seeding and fixtures; catalog management is
// otherwise outside this service.
func (r *productRepository) CreateProduct(ctx context.Context, product domain.Product) error {
	var (
		priceAmount *decimal.Decimal
		priceCode   = "BRL"
	)
	if product.Price != nil {
		priceAmount = &product.Price.Amount
		priceCode = product.Price.Currency.String()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO products (id, name, price_amount, price_currency, stock, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		product.ID, product.Name, priceAmount, priceCode, product.Stock, product.Active)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func parseMoney(amount decimal.Decimal, code string) (domain.Money, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}

	return domain.Money{Amount: amount, Currency: unit}, nil
}
