// Package marketdata implements the outbound price source adapters.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mlaurent/horizon-backend/internal/domain"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// coinIDs maps portfolio tickers to CoinGecko coin identifiers. Tickers
// without a mapping are skipped, never an error.
var coinIDs = map[string]string{
	"BTC": "bitcoin",
	"ETH": "ethereum",
	"SOL": "solana",
	"DOT": "polkadot",
	"ADA": "cardano",
}

// coinPrice is one coin entry of the simple/price response.
type coinPrice struct {
	USD          float64 `json:"usd"`
	EUR          float64 `json:"eur"`
	USD24hChange float64 `json:"usd_24h_change"`
}

// CoinGeckoClient fetches crypto spot prices from the CoinGecko
// simple-price endpoint.
type CoinGeckoClient struct {
	httpClient *http.Client
	BaseURL    string // overridable for tests
}

// NewCoinGeckoClient creates a CoinGecko price source.
func NewCoinGeckoClient(httpClient *http.Client) *CoinGeckoClient {
	return &CoinGeckoClient{httpClient: httpClient, BaseURL: coingeckoBaseURL}
}

// GetPrices fetches USD/EUR prices and 24h change for the given tickers in
// one batched call. Tickers CoinGecko does not know, or that are absent from
// the response, are missing from the returned map.
func (c *CoinGeckoClient) GetPrices(ctx context.Context, tickers []string) (map[string]domain.CryptoQuote, error) {
	idToTicker := make(map[string]string, len(tickers))
	ids := make([]string, 0, len(tickers))
	for _, ticker := range tickers {
		id, ok := coinIDs[strings.ToUpper(ticker)]
		if !ok {
			continue
		}
		idToTicker[id] = ticker
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return map[string]domain.CryptoQuote{}, nil
	}

	url := c.BaseURL + "/simple/price?ids=" + strings.Join(ids, ",") +
		"&vs_currencies=usd,eur&include_24hr_change=true"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body map[string]coinPrice
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	quotes := make(map[string]domain.CryptoQuote, len(body))
	for id, price := range body {
		ticker, ok := idToTicker[id]
		if !ok || price.USD == 0 {
			continue
		}
		quotes[ticker] = domain.CryptoQuote{
			PriceUSD:  decimal.NewFromFloat(price.USD),
			PriceEUR:  decimal.NewFromFloat(price.EUR),
			Change24h: decimal.NewFromFloat(price.USD24hChange),
		}
	}
	return quotes, nil
}
