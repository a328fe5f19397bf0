package market

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CoinGecko quotes crypto assets in BRL. Tickers are CoinGecko ids such as "bitcoin".
type CoinGecko struct {
	baseURL string
	http    *httpClient
	logger  zerolog.Logger
}

// NewCoinGecko creates a CoinGecko client against baseURL (e.g. https://api.coingecko.com/api/v3)
func NewCoinGecko(baseURL string, timeout time.Duration, perSecond float64, logger zerolog.Logger) *CoinGecko {
	return &CoinGecko{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient(timeout, perSecond),
		logger:  logger.With().Str("provider", "coingecko").Logger(),
	}
}

// Price returns the BRL price of the coin
func (c *CoinGecko) Price(ctx context.Context, ticker string) (decimal.Decimal, error) {
	id := strings.ToLower(strings.TrimSpace(ticker))
	if id == "" {
		return decimal.Zero, fmt.Errorf("coingecko: %w: empty ticker", ErrNoQuote)
	}

	query := url.Values{}
	query.Set("ids", id)
	query.Set("vs_currencies", "brl")

	body, err := c.http.get(ctx, c.baseURL+"/simple/price?"+query.Encode())
	if err != nil {
		c.logger.Error().Err(err).Str("ticker", id).Msg("Failed to fetch crypto price")
		return decimal.Zero, fmt.Errorf("coingecko %s: %w", id, err)
	}

	price, err := jsonparser.GetFloat(body, id, "brl")
	if err != nil {
		c.logger.Warn().Str("ticker", id).Msg("Crypto not found on CoinGecko")
		return decimal.Zero, fmt.Errorf("coingecko %s: %w", id, ErrNoQuote)
	}

	return decimal.NewFromFloat(price), nil
}
