package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// fxPair is the chart ticker quoted as USD per EUR; the returned rate is its
// inverse, EUR per USD.
const fxPair = "EURUSD=X"

// FXClient fetches the USD to EUR conversion rate from a Yahoo-style chart
// endpoint.
type FXClient struct {
	httpClient *http.Client
	BaseURL    string // overridable for tests
}

// NewFXClient creates a USD/EUR rate source.
func NewFXClient(httpClient *http.Client) *FXClient {
	return &FXClient{httpClient: httpClient, BaseURL: chartBaseURL}
}

// GetRate fetches the EURUSD pair and inverts it into a USD to EUR rate.
func (c *FXClient) GetRate(ctx context.Context) (decimal.Decimal, error) {
	url := c.BaseURL + "/" + fxPair + "?interval=15m&range=1d"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", chartUA)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("decoding response: %w", err)
	}
	if body.Chart.Error != nil {
		return decimal.Zero, fmt.Errorf("chart error: %s", body.Chart.Error.Code)
	}
	if len(body.Chart.Result) == 0 {
		return decimal.Zero, fmt.Errorf("empty result")
	}

	eurusd := body.Chart.Result[0].Meta.RegularMarketPrice
	if eurusd <= 0 {
		return decimal.Zero, fmt.Errorf("invalid rate %f", eurusd)
	}

	return decimal.NewFromInt(1).Div(decimal.NewFromFloat(eurusd)), nil
}
