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

const b3Suffix = ".SA"

// Yahoo quotes equities and funds through the Yahoo Finance chart API
type Yahoo struct {
	baseURL string
	http    *httpClient
	logger  zerolog.Logger
}

// NewYahoo creates a Yahoo client against baseURL (e.g. https://query1.finance.yahoo.com)
func NewYahoo(baseURL string, timeout time.Duration, perSecond float64, logger zerolog.Logger) *Yahoo {
	return &Yahoo{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient(timeout, perSecond),
		logger:  logger.With().Str("provider", "yahoo").Logger(),
	}
}

// B3Symbol appends the .SA suffix to short tickers that carry no exchange suffix yet
func B3Symbol(ticker string) string {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if !strings.HasSuffix(symbol, b3Suffix) && len(symbol) <= 6 {
		symbol += b3Suffix
	}
	return symbol
}

// Price returns the latest regular market price of symbol, in its listing currency
func (y *Yahoo) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return decimal.Zero, fmt.Errorf("yahoo: %w: empty ticker", ErrNoQuote)
	}

	query := url.Values{}
	query.Set("range", "1d")
	query.Set("interval", "1d")

	body, err := y.http.get(ctx, y.baseURL+"/v8/finance/chart/"+url.PathEscape(symbol)+"?"+query.Encode())
	if err != nil {
		y.logger.Error().Err(err).Str("ticker", symbol).Msg("Failed to fetch stock price")
		return decimal.Zero, fmt.Errorf("yahoo %s: %w", symbol, err)
	}

	price, err := jsonparser.GetFloat(body, "chart", "result", "[0]", "meta", "regularMarketPrice")
	if err != nil || price <= 0 {
		y.logger.Warn().Str("ticker", symbol).Msg("Ticker has no data on Yahoo Finance")
		return decimal.Zero, fmt.Errorf("yahoo %s: %w", symbol, ErrNoQuote)
	}

	return decimal.NewFromFloat(price), nil
}
