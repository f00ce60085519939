package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/currency"
)

const maxPricingConcurrency = 10

// buildSnapshot prices cart lines from the catalog as of now. In strict
// mode (checkout) a missing product or a product without a price fails
// the snapshot; otherwise such lines are skipped as data anomalies and
// logged, which keeps cart totals defensive without crashing.
func buildSnapshot(ctx context.Context, catalog port.CatalogProvider, lines []domain.CartLine,
	strict bool, logger *zap.Logger) (domain.CartSnapshot, error) {

	priced := make([]*domain.SnapshotLine, len(lines))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxPricingConcurrency)

	for idx := range lines {
		g.Go(func() error {
			line := lines[idx]

			product, err := catalog.GetProduct(ctx, line.ProductID)
			if err != nil {
				if strict {
					return fmt.Errorf("get product %s: %w", line.ProductID, err)
				}
				logger.Warn("skipping cart line, product lookup failed",
					zap.String("product_id", line.ProductID.String()),
					zap.Error(err))
				return nil
			}

			if product.Price == nil {
				if strict {
					return fmt.Errorf("product %s has no price: %w", line.ProductID, domain.ErrValidation)
				}
				logger.Warn("skipping cart line, product has no price",
					zap.String("product_id", line.ProductID.String()))
				return nil
			}

			priced[idx] = &domain.SnapshotLine{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   *product.Price,
				Subtotal:    product.Price.Mul(line.Quantity),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.CartSnapshot{}, err
	}

	snapshot := domain.CartSnapshot{
		Total:      domain.Money{Amount: decimal.Zero, Currency: currency.BRL},
		CapturedAt: time.Now(),
	}
	for _, line := range priced {
		if line == nil {
			continue
		}
		snapshot.Lines = append(snapshot.Lines, *line)
	}
	for i, line := range snapshot.Lines {
		if i == 0 {
			snapshot.Total = line.Subtotal
			continue
		}
		snapshot.Total = snapshot.Total.Add(line.Subtotal)
	}

	return snapshot, nil
}
