package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mlaurent/horizon-backend/internal/domain"
)

const (
	chartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	chartUA      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
)

// chartResponse is the chart endpoint envelope. Only the meta block is used.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"chartPreviousClose"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// EquityClient fetches listed-instrument quotes from a Yahoo-style chart
// endpoint, one request per ticker.
type EquityClient struct {
	httpClient *http.Client
	BaseURL    string // overridable for tests
}

// NewEquityClient creates an equity quote source.
func NewEquityClient(httpClient *http.Client) *EquityClient {
	return &EquityClient{httpClient: httpClient, BaseURL: chartBaseURL}
}

// GetQuotes fetches the latest price and day change for each ticker.
// A ticker that fails is skipped so one delisted instrument cannot block the
// rest; an error is returned only when every ticker failed.
func (c *EquityClient) GetQuotes(ctx context.Context, tickers []string) (map[string]domain.EquityQuote, error) {
	quotes := make(map[string]domain.EquityQuote, len(tickers))
	var lastErr error

	for _, ticker := range tickers {
		quote, err := c.fetchQuote(ctx, ticker)
		if err != nil {
			lastErr = fmt.Errorf("ticker %s: %w", ticker, err)
			continue
		}
		quotes[ticker] = quote
	}

	if len(quotes) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return quotes, nil
}

func (c *EquityClient) fetchQuote(ctx context.Context, ticker string) (domain.EquityQuote, error) {
	url := c.BaseURL + "/" + ticker + "?interval=15m&range=1d"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.EquityQuote{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", chartUA)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.EquityQuote{}, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return domain.EquityQuote{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.EquityQuote{}, fmt.Errorf("decoding response: %w", err)
	}
	if body.Chart.Error != nil {
		return domain.EquityQuote{}, fmt.Errorf("chart error: %s", body.Chart.Error.Code)
	}
	if len(body.Chart.Result) == 0 {
		return domain.EquityQuote{}, fmt.Errorf("empty result")
	}

	meta := body.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return domain.EquityQuote{}, fmt.Errorf("invalid price %f", meta.RegularMarketPrice)
	}

	change := decimal.Zero
	if meta.PreviousClose > 0 {
		change = decimal.NewFromFloat(meta.RegularMarketPrice).
			Sub(decimal.NewFromFloat(meta.PreviousClose)).
			Div(decimal.NewFromFloat(meta.PreviousClose)).
			Mul(decimal.NewFromInt(100))
	}

	return domain.EquityQuote{
		Price:     decimal.NewFromFloat(meta.RegularMarketPrice),
		Change24h: change,
	}, nil
}
