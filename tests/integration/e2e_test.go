package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlaurent/horizon-backend/internal/adapter/httpapi"
	"github.com/mlaurent/horizon-backend/internal/adapter/marketdata"
	"github.com/mlaurent/horizon-backend/internal/adapter/repository/jsonfile"
	"github.com/mlaurent/horizon-backend/internal/domain"
	"github.com/mlaurent/horizon-backend/internal/usecase/refresh"
)

// fakeMarkets serves CoinGecko-style and chart-style responses with fixed
// prices so the whole pipeline runs against deterministic market data.
type fakeMarkets struct {
	coingecko *httptest.Server
	chart     *httptest.Server
}

func newFakeMarkets(t *testing.T) *fakeMarkets {
	t.Helper()

	coingecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/simple/price" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{
			"bitcoin":  {"usd": 100000, "eur": 92000, "usd_24h_change": 1.5},
			"ethereum": {"usd": 3500, "eur": 3220, "usd_24h_change": -0.5},
			"solana":   {"usd": 150, "eur": 138, "usd_24h_change": 2.0},
			"polkadot": {"usd": 6, "eur": 5.52, "usd_24h_change": 0},
			"cardano":  {"usd": 0.9, "eur": 0.83, "usd_24h_change": 0}
		}`))
	}))
	t.Cleanup(coingecko.Close)

	chart := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ticker := strings.TrimPrefix(r.URL.Path, "/")
		price := 100.0
		if ticker == "EURUSD=X" {
			price = 1.25 // inverts to a 0.8 USD->EUR rate
		}
		_, _ = w.Write([]byte(fmt.Sprintf(
			`{"chart": {"result": [{"meta": {"regularMarketPrice": %g, "chartPreviousClose": %g}}], "error": null}}`,
			price, price)))
	}))
	t.Cleanup(chart.Close)

	return &fakeMarkets{coingecko: coingecko, chart: chart}
}

type testStack struct {
	router   *gin.Engine
	store    *jsonfile.Store
	service  *refresh.Service
	dataFile string
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	markets := newFakeMarkets(t)
	httpClient := &http.Client{Timeout: 5 * time.Second}

	cryptoSource := marketdata.NewCoinGeckoClient(httpClient)
	cryptoSource.BaseURL = markets.coingecko.URL
	equitySource := marketdata.NewEquityClient(httpClient)
	equitySource.BaseURL = markets.chart.URL
	fxSource := marketdata.NewFXClient(httpClient)
	fxSource.BaseURL = markets.chart.URL

	dataFile := filepath.Join(t.TempDir(), "portfolio.json")
	store := jsonfile.NewStore(dataFile, logger)

	service := refresh.NewService(store, cryptoSource, equitySource, fxSource, nil, logger)
	router := httpapi.NewRouter(httpapi.NewHandler(service, store, logger), logger)

	return &testStack{router: router, store: store, service: service, dataFile: dataFile}
}

func (s *testStack) do(t *testing.T, method, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestEndToEnd_RefreshValuesWholePortfolio(t *testing.T) {
	stack := newTestStack(t)

	w, body := stack.do(t, http.MethodPost, "/refresh")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["fetched"])

	// The snapshot file now exists on disk
	_, err := os.Stat(stack.dataFile)
	require.NoError(t, err)

	w, portfolio := stack.do(t, http.MethodGet, "/portfolio")
	require.Equal(t, http.StatusOK, w.Code)

	// FX came from the chart endpoint: 1/1.25
	fx, err := decimal.NewFromString(portfolio["fx_rate"].(string))
	require.NoError(t, err)
	assert.True(t, fx.Equal(decimal.NewFromFloat(0.8)))

	// Every equity was quoted at 100
	for _, raw := range portfolio["equities"].([]interface{}) {
		e := raw.(map[string]interface{})
		price, err := decimal.NewFromString(e["current_price"].(string))
		require.NoError(t, err)
		assert.True(t, price.Equal(decimal.NewFromInt(100)), "ticker %v", e["ticker"])
	}

	// Staked positions are valued at the platform balance, not spot.
	// Ethereum is seeded staked with a 656.01 USD balance.
	for _, raw := range portfolio["cryptos"].([]interface{}) {
		c := raw.(map[string]interface{})
		if c["ticker"] != "ETH" {
			continue
		}
		value, err := decimal.NewFromString(c["value_usd"].(string))
		require.NoError(t, err)
		assert.True(t, value.Equal(decimal.RequireFromString("656.01")))
	}

	// Bitcoin is unstaked, so it is marked to the fetched spot price
	for _, raw := range portfolio["cryptos"].([]interface{}) {
		c := raw.(map[string]interface{})
		if c["ticker"] != "BTC" {
			continue
		}
		value, err := decimal.NewFromString(c["value_usd"].(string))
		require.NoError(t, err)
		expected := decimal.RequireFromString("0.00271222").Mul(decimal.NewFromInt(100000))
		assert.True(t, value.Equal(expected), "got %s want %s", value, expected)
	}
}

func TestEndToEnd_EURIdentityHoldsAcrossCryptoClass(t *testing.T) {
	stack := newTestStack(t)

	w, _ := stack.do(t, http.MethodPost, "/refresh")
	require.Equal(t, http.StatusOK, w.Code)

	w, dashboard := stack.do(t, http.MethodGet, "/dashboard")
	require.Equal(t, http.StatusOK, w.Code)

	classes := dashboard["classes"].(map[string]interface{})
	crypto := classes["crypto"].(map[string]interface{})

	value := decimal.RequireFromString(crypto["current_value"].(string))
	invested := decimal.RequireFromString(crypto["invested"].(string))
	gain := decimal.RequireFromString(crypto["gain"].(string))

	fx := decimal.NewFromFloat(0.8)
	// The class value adds the cash balance on top of the positions, and the
	// class gain carries the staking rewards on top of price appreciation.
	// Seeded rewards: 23.38 + 6.38 + 8.39 + 1.49 USD. Everything converts at
	// the single fetched rate, so the books balance exactly in EUR.
	cash := decimal.RequireFromString("204.20").Mul(fx)
	stakingGains := decimal.RequireFromString("39.64").Mul(fx)
	assert.True(t, invested.Add(gain).Add(cash).Sub(stakingGains).Equal(value),
		"invested %s + gain %s + cash %s - staking %s != value %s", invested, gain, cash, stakingGains, value)
}

func TestEndToEnd_HistoryDedupAcrossRefreshes(t *testing.T) {
	stack := newTestStack(t)

	// Pin the clock so every pass lands in the same minute bucket
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stack.service.Now = func() time.Time { return base }

	for i := 0; i < 3; i++ {
		w, _ := stack.do(t, http.MethodPost, "/refresh")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, history := stack.do(t, http.MethodGet, "/history/total")
	require.Equal(t, http.StatusOK, w.Code)

	// Rapid refreshes fall into the same minute bucket, one point survives
	points := history["points"].([]interface{})
	assert.Len(t, points, 1)
}

func TestEndToEnd_AdviceReflectsSeededPortfolio(t *testing.T) {
	stack := newTestStack(t)

	w, _ := stack.do(t, http.MethodPost, "/refresh")
	require.Equal(t, http.StatusOK, w.Code)

	w, advice := stack.do(t, http.MethodGet, "/advice")
	require.Equal(t, http.StatusOK, w.Code)

	// The seeded portfolio has no healthcare exposure, so at least that
	// alert must be present
	codes := map[string]bool{}
	for _, raw := range advice["alerts"].([]interface{}) {
		alert := raw.(map[string]interface{})
		codes[alert["code"].(string)] = true
	}
	assert.True(t, codes["missing-diversifier"], "alerts: %v", codes)

	score := advice["score"].(float64)
	assert.GreaterOrEqual(t, score, float64(0))
	assert.LessOrEqual(t, score, float64(100))
}

func TestEndToEnd_SnapshotSurvivesRestart(t *testing.T) {
	stack := newTestStack(t)

	w, first := stack.do(t, http.MethodPost, "/refresh")
	require.Equal(t, http.StatusOK, w.Code)

	// A second stack over the same file sees the persisted state
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	reopened := jsonfile.NewStore(stack.dataFile, logger)

	snapshot, err := reopened.Load(context.Background())
	require.NoError(t, err)

	assert.False(t, snapshot.LastUpdate.IsZero())
	assert.True(t, snapshot.FXRateUSDEUR.Equal(decimal.NewFromFloat(0.8)))
	require.Len(t, snapshot.History[domain.CategoryTotal], 1)

	patrimony := decimal.RequireFromString(first["patrimony"].(string))
	assert.True(t, snapshot.History[domain.CategoryTotal][0].Value.Equal(patrimony))
}
