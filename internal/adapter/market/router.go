package market

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
)

// Quoter is a single quote source
type Quoter interface {
	Price(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// Router implements domain.PriceProvider by picking the source for the holding's index mode
type Router struct {
	Crypto Quoter
	Stocks Quoter
}

// NewRouter creates a router over the crypto and stock sources
func NewRouter(crypto, stocks Quoter) *Router {
	return &Router{Crypto: crypto, Stocks: stocks}
}

// Price returns zero and no error for an empty ticker.
// B3 tickers are normalized to their .SA symbol; foreign tickers are passed through.
func (r *Router) Price(ctx context.Context, ticker string, mode domain.IndexMode) (decimal.Decimal, error) {
	if ticker == "" {
		return decimal.Zero, nil
	}

	switch mode {
	case domain.IndexModeCrypto:
		return r.Crypto.Price(ctx, ticker)
	case domain.IndexModeEquity:
		return r.Stocks.Price(ctx, B3Symbol(ticker))
	case domain.IndexModeForeign:
		return r.Stocks.Price(ctx, ticker)
	default:
		return decimal.Zero, fmt.Errorf("%w: no price source for index mode %s", domain.ErrInvalidInput, mode)
	}
}
