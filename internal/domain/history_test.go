package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHistorySeries_SameMinuteAsLast(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 30, 5, 0, time.UTC)
	series := HistorySeries{}.Append(base, decimal.NewFromInt(100))

	// Same minute bucket, different seconds
	assert.True(t, series.SameMinuteAsLast(base.Add(40*time.Second)))

	// Next minute bucket
	assert.False(t, series.SameMinuteAsLast(base.Add(time.Minute)))

	// Empty series never matches
	assert.False(t, HistorySeries{}.SameMinuteAsLast(base))
}

func TestHistorySeries_Append_TrimsInBatches(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	series := HistorySeries{}

	// Fill past the cap; each append is a distinct minute
	for i := 0; i <= HistoryCap; i++ {
		series = series.Append(base.Add(time.Duration(i)*time.Minute), decimal.NewFromInt(int64(i)))
	}
	assert.Len(t, series, HistoryCap+1)

	// The next append crosses the cap and trims down to the floor first
	series = series.Append(base.Add(600*time.Minute), decimal.NewFromInt(600))
	assert.Len(t, series, HistoryFloor+1)

	// Oldest entries were pruned, newest retained
	assert.Equal(t, decimal.NewFromInt(600), series[len(series)-1].Value)
	assert.True(t, series[0].Value.GreaterThan(decimal.NewFromInt(100)))
}

func TestHistorySeries_Since(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	series := HistorySeries{}
	for i := 0; i < 10; i++ {
		series = series.Append(base.Add(time.Duration(i)*time.Hour), decimal.NewFromInt(int64(i)))
	}

	recent := series.Since(base.Add(7 * time.Hour))
	assert.Len(t, recent, 2)
	assert.Equal(t, decimal.NewFromInt(8), recent[0].Value)

	assert.Len(t, series.Since(base.Add(-time.Hour)), 10)
	assert.Nil(t, series.Since(base.Add(24*time.Hour)))
}

func TestRecurringOrder_MonthlyAmount(t *testing.T) {
	order := RecurringOrder{
		Ticker:        "ETH",
		Name:          "Ethereum",
		AmountEUR:     decimal.NewFromInt(20),
		FrequencyDays: 14,
	}

	// 20 EUR every 14 days normalizes to 20 * 30/14
	expected := decimal.NewFromInt(20).Mul(decimal.NewFromInt(30)).Div(decimal.NewFromInt(14))
	assert.True(t, order.MonthlyAmount().Equal(expected))
}

func TestRecurringOrder_DaysUntilNext(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	order := RecurringOrder{
		Ticker:        "BTC",
		AmountEUR:     decimal.NewFromInt(20),
		FrequencyDays: 14,
		NextExecution: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 14, order.DaysUntilNext(now))

	// Past dates yield a negative count
	assert.Equal(t, -14, order.DaysUntilNext(now.Add(28*24*time.Hour)))
}
