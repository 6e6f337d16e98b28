// Package refresh orchestrates one synchronous valuation pass: fetch market
// data, revalue the portfolio, extend the history and persist the snapshot.
package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mlaurent/horizon-backend/internal/domain"
	"github.com/mlaurent/horizon-backend/internal/usecase/aggregate"
	"github.com/mlaurent/horizon-backend/internal/usecase/valuation"
)

// PriceTTL is how long fetched prices stay fresh. A refresh arriving within
// the TTL revalues from cached prices instead of hitting the sources again.
const PriceTTL = 5 * time.Minute

// accruedMonths is the fixed real-estate accrual window applied at valuation
// time.
const accruedMonths = 6

// defaultFetchTimeout bounds each individual market-data call.
const defaultFetchTimeout = 10 * time.Second

// Result is the outcome of one refresh pass: the persisted snapshot plus
// every derived read model the display layer needs.
type Result struct {
	Snapshot   *domain.Snapshot
	Equities   []valuation.ValuedEquity
	Cryptos    []valuation.ValuedCrypto
	RealEstate valuation.ValuedRealEstate
	Portfolio  aggregate.Portfolio
	Fetched    bool // false when the pass was served from cached prices
}

// Service runs the refresh pipeline. Refresh is safe for concurrent use;
// passes are serialized so two callers never interleave fetch/persist.
type Service struct {
	SnapshotRepo domain.SnapshotRepository
	CryptoSource domain.CryptoPriceSource
	EquitySource domain.EquityPriceSource
	FXSource     domain.FXRateSource
	Archive      domain.HistoryArchive // optional external mirror, may be nil
	Logger       *logrus.Logger

	FetchTimeout time.Duration
	TTL          time.Duration
	Now          func() time.Time // injectable clock

	mu sync.Mutex
}

// NewService creates a Service with the default TTL and fetch timeout.
func NewService(
	snapshotRepo domain.SnapshotRepository,
	cryptoSource domain.CryptoPriceSource,
	equitySource domain.EquityPriceSource,
	fxSource domain.FXRateSource,
	archive domain.HistoryArchive,
	logger *logrus.Logger,
) *Service {
	return &Service{
		SnapshotRepo: snapshotRepo,
		CryptoSource: cryptoSource,
		EquitySource: equitySource,
		FXSource:     fxSource,
		Archive:      archive,
		Logger:       logger,
		FetchTimeout: defaultFetchTimeout,
		TTL:          PriceTTL,
		Now:          time.Now,
	}
}

// Refresh runs one full pass.
// Logic:
//  1. Load the snapshot; prices fresher than the TTL skip fetching unless
//     force is set.
//  2. Fetch FX, crypto and equity prices independently, each under its own
//     timeout. A failed source logs a warning and keeps the last known
//     values; a partial response updates only the tickers it contains.
//  3. Revalue every position, reduce to the portfolio aggregate.
//  4. Append the class totals to the history series and mirror them to the
//     external archive best-effort.
//  5. Persist the snapshot. Market data failures never fail a refresh; only
//     load or save errors do.
func (s *Service) Refresh(ctx context.Context, force bool) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.SnapshotRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	snapshot.EnsureDefaults()

	now := s.Now()
	fetched := false
	if force || now.Sub(snapshot.LastUpdate) >= s.TTL {
		s.fetchMarketData(ctx, snapshot)
		snapshot.LastUpdate = now
		fetched = true
	}

	equities := valuation.ValueEquities(snapshot.Equities, snapshot.EquityPrices)
	cryptos := valuation.ValueCryptos(snapshot.Cryptos, snapshot.CryptoPrices, snapshot.FXRateUSDEUR)
	realEstate := valuation.ValueRealEstate(snapshot.RealEstate, accruedMonths)

	portfolio := aggregate.Reduce(aggregate.Input{
		Equities:   equities,
		Cryptos:    cryptos,
		RealEstate: realEstate,
		CashUSD:    snapshot.CashUSD,
		FXRate:     snapshot.FXRateUSDEUR,
		Orders:     snapshot.Orders,
	})

	s.recordHistory(ctx, snapshot, portfolio, now)

	if err := s.SnapshotRepo.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	return &Result{
		Snapshot:   snapshot,
		Equities:   equities,
		Cryptos:    cryptos,
		RealEstate: realEstate,
		Portfolio:  portfolio,
		Fetched:    fetched,
	}, nil
}

// fetchMarketData refreshes the snapshot price maps and FX rate in place.
// Each source failure degrades to the last known values.
func (s *Service) fetchMarketData(ctx context.Context, snapshot *domain.Snapshot) {
	fxCtx, cancel := context.WithTimeout(ctx, s.FetchTimeout)
	rate, err := s.FXSource.GetRate(fxCtx)
	cancel()
	if err != nil {
		s.Logger.WithError(err).Warn("fx rate fetch failed, keeping last known rate")
	} else if rate.IsPositive() {
		snapshot.FXRateUSDEUR = rate
	}

	if tickers := cryptoTickers(snapshot.Cryptos); len(tickers) > 0 {
		cryptoCtx, cancel := context.WithTimeout(ctx, s.FetchTimeout)
		quotes, err := s.CryptoSource.GetPrices(cryptoCtx, tickers)
		cancel()
		if err != nil {
			s.Logger.WithError(err).Warn("crypto price fetch failed, keeping last known prices")
		} else {
			for ticker, quote := range quotes {
				snapshot.CryptoPrices[ticker] = quote
			}
		}
	}

	if tickers := equityTickers(snapshot.Equities); len(tickers) > 0 {
		equityCtx, cancel := context.WithTimeout(ctx, s.FetchTimeout)
		quotes, err := s.EquitySource.GetQuotes(equityCtx, tickers)
		cancel()
		if err != nil {
			s.Logger.WithError(err).Warn("equity quote fetch failed, keeping last known quotes")
		} else {
			for ticker, quote := range quotes {
				snapshot.EquityPrices[ticker] = quote
			}
		}
	}
}

// recordHistory appends the class totals to the in-snapshot series and
// mirrors them to the archive. The total series gates de-duplication: when
// it already holds a point for the current minute, no category is appended.
func (s *Service) recordHistory(ctx context.Context, snapshot *domain.Snapshot, p aggregate.Portfolio, now time.Time) {
	total := snapshot.History[domain.CategoryTotal]
	if total.SameMinuteAsLast(now) {
		return
	}

	points := map[string]decimal.Decimal{
		domain.CategoryEquities: p.Equities.CurrentValue,
		domain.CategoryCrypto:   p.Crypto.CurrentValue,
		domain.CategoryTotal:    p.Patrimony,
	}
	for category, value := range points {
		snapshot.History[category] = snapshot.History[category].Append(now, value)

		if s.Archive == nil {
			continue
		}
		if err := s.Archive.Append(ctx, category, now, value); err != nil {
			s.Logger.WithError(err).WithField("category", category).Warn("history archive append failed")
		}
	}
}

func cryptoTickers(positions []domain.CryptoPosition) []string {
	tickers := make([]string, 0, len(positions))
	for _, p := range positions {
		tickers = append(tickers, p.Ticker)
	}
	return tickers
}

func equityTickers(positions []domain.EquityPosition) []string {
	tickers := make([]string, 0, len(positions))
	for _, p := range positions {
		tickers = append(tickers, p.Ticker)
	}
	return tickers
}
