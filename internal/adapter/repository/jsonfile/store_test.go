package jsonfile

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlaurent/horizon-backend/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "portfolio.json"), testLogger())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	store := newTestStore(t)

	snapshot, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Len(t, snapshot.Equities, 15)
	assert.Len(t, snapshot.Cryptos, 5)
	assert.Len(t, snapshot.Orders, 3)
	assert.True(t, snapshot.CashUSD.Equal(decimal.RequireFromString("204.20")))
	assert.True(t, snapshot.FXRateUSDEUR.Equal(domain.DefaultFXRateUSDEUR))
	assert.NoError(t, snapshot.Validate())
}

func TestLoad_CorruptFileReturnsDefaults(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.path, []byte("{not json"), 0o644))

	snapshot, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Len(t, snapshot.Equities, 15)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	snapshot := DefaultSnapshot()
	snapshot.FXRateUSDEUR = decimal.NewFromFloat(0.89)
	snapshot.LastUpdate = time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	snapshot.EquityPrices["AI.PA"] = domain.EquityQuote{Price: decimal.NewFromInt(180)}
	snapshot.History[domain.CategoryTotal] = snapshot.History[domain.CategoryTotal].
		Append(snapshot.LastUpdate, decimal.NewFromInt(12345))

	require.NoError(t, store.Save(ctx, snapshot))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	assert.True(t, loaded.FXRateUSDEUR.Equal(decimal.NewFromFloat(0.89)))
	assert.True(t, loaded.LastUpdate.Equal(snapshot.LastUpdate))
	assert.True(t, loaded.EquityPrices["AI.PA"].Price.Equal(decimal.NewFromInt(180)))

	require.Len(t, loaded.History[domain.CategoryTotal], 1)
	point := loaded.History[domain.CategoryTotal][0]
	assert.True(t, point.Value.Equal(decimal.NewFromInt(12345)))
	assert.True(t, point.Timestamp.Equal(snapshot.LastUpdate))

	// Full fidelity on positions
	require.Len(t, loaded.Cryptos, 5)
	assert.True(t, loaded.Cryptos[0].Staking.IsStaked)
	assert.True(t, loaded.Cryptos[0].Staking.ValueUSD.Equal(decimal.RequireFromString("656.01")))
}

func TestLoad_PartialFileGetsDefaultsMergedIn(t *testing.T) {
	store := newTestStore(t)
	partial := `{"equities": [], "cryptos": [], "cash_usd": "10"}`
	require.NoError(t, os.WriteFile(store.path, []byte(partial), 0o644))

	snapshot, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, snapshot.Equities)
	assert.True(t, snapshot.CashUSD.Equal(decimal.NewFromInt(10)))

	// Missing sections are filled in, not left nil
	assert.NotNil(t, snapshot.History[domain.CategoryTotal])
	assert.NotNil(t, snapshot.EquityPrices)
	assert.True(t, snapshot.FXRateUSDEUR.Equal(domain.DefaultFXRateUSDEUR))
}

func TestSave_OverwritesPrevious(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first := DefaultSnapshot()
	require.NoError(t, store.Save(ctx, first))

	second := DefaultSnapshot()
	second.CashUSD = decimal.NewFromInt(999)
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.CashUSD.Equal(decimal.NewFromInt(999)))
}

func TestDefaultSnapshot_IsValid(t *testing.T) {
	snapshot := DefaultSnapshot()

	assert.NoError(t, snapshot.Validate())
	for _, category := range []string{domain.CategoryEquities, domain.CategoryCrypto, domain.CategoryTotal} {
		series, ok := snapshot.History[category]
		assert.True(t, ok)
		assert.Empty(t, series)
	}
}
