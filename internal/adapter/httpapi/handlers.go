package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlaurent/horizon-backend/internal/domain"
	"github.com/mlaurent/horizon-backend/internal/usecase/advisor"
	"github.com/mlaurent/horizon-backend/internal/usecase/projection"
	"github.com/mlaurent/horizon-backend/internal/usecase/refresh"
)

// GetHealth reports liveness.
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// PostRefresh forces a market-data refresh and returns the new totals.
func (h *Handler) PostRefresh(c *gin.Context) {
	result, err := h.refresher.Refresh(c.Request.Context(), true)
	if err != nil {
		h.log.Errorf("refresh failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fetched":     result.Fetched,
		"last_update": result.Snapshot.LastUpdate,
		"patrimony":   result.Portfolio.Patrimony,
	})
}

// revalue runs a TTL-respecting refresh pass; GET endpoints derive all their
// read models from its result.
func (h *Handler) revalue(c *gin.Context) (*refresh.Result, bool) {
	result, err := h.refresher.Refresh(c.Request.Context(), false)
	if err != nil {
		h.log.Errorf("valuation pass failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "valuation failed"})
		return nil, false
	}
	return result, true
}

// GetDashboard returns the aggregate overview: grand totals, class totals,
// breakdowns, performer rankings and the health score.
func (h *Handler) GetDashboard(c *gin.Context) {
	result, ok := h.revalue(c)
	if !ok {
		return
	}
	p := result.Portfolio
	advice := advisor.Evaluate(p)

	c.JSON(http.StatusOK, gin.H{
		"patrimony":   p.Patrimony,
		"invested":    p.Invested,
		"gain":        p.Gain,
		"performance": p.Performance,
		"classes": gin.H{
			"equities":    p.Equities,
			"crypto":      p.Crypto,
			"real_estate": p.RealEstate,
		},
		"geo_pct":         p.GeoPct,
		"sector_pct":      p.SectorPct,
		"top_performers":  p.TopPerformers,
		"flop_performers": p.FlopPerformers,
		"monthly_dca":     p.MonthlyDCA,
		"health_score":    advice.Score,
		"last_update":     result.Snapshot.LastUpdate,
	})
}

// GetPortfolio returns every valued position.
func (h *Handler) GetPortfolio(c *gin.Context) {
	result, ok := h.revalue(c)
	if !ok {
		return
	}

	equities := make([]gin.H, 0, len(result.Equities))
	for _, e := range result.Equities {
		equities = append(equities, gin.H{
			"name":           e.Position.Name,
			"ticker":         e.Position.Ticker,
			"quantity":       e.Position.Quantity,
			"purchase_price": e.Position.PurchasePrice,
			"current_price":  e.CurrentPrice,
			"invested":       e.BaseCost,
			"value":          e.CurrentValue,
			"gain":           e.Gain,
			"performance":    e.Performance,
			"change_24h":     e.Change24h,
			"sector":         e.Position.Sector,
			"country":        e.Position.Country,
		})
	}

	cryptos := make([]gin.H, 0, len(result.Cryptos))
	for _, cr := range result.Cryptos {
		cryptos = append(cryptos, gin.H{
			"name":          cr.Position.Name,
			"ticker":        cr.Position.Ticker,
			"quantity":      cr.Position.Quantity,
			"price_usd":     cr.CurrentPriceUSD,
			"invested_usd":  cr.BaseCostUSD,
			"value_usd":     cr.CurrentValueUSD,
			"gain_usd":      cr.GainUSD,
			"value_eur":     cr.CurrentValueEUR,
			"gain_eur":      cr.GainEUR,
			"performance":   cr.Performance,
			"change_24h":    cr.Change24h,
			"is_staked":     cr.Position.Staking.IsStaked,
			"staking_apy":   cr.Position.Staking.APY,
			"staking_gains": cr.Position.Staking.GainsUSD,
		})
	}

	re := result.RealEstate
	c.JSON(http.StatusOK, gin.H{
		"equities": equities,
		"cryptos":  cryptos,
		"cash_usd": result.Snapshot.CashUSD,
		"fx_rate":  result.Snapshot.FXRateUSDEUR,
		"real_estate": gin.H{
			"locked_principal": re.Holding.LockedPrincipal,
			"locked_accrued":   re.LockedAccrued,
			"liquid_principal": re.Holding.LiquidPrincipal,
			"liquid_accrued":   re.LiquidAccrued,
			"royalties":        re.Holding.Royalties,
			"invested":         re.Invested,
			"value":            re.CurrentValue,
			"gain":             re.Gain,
		},
		"orders": result.Snapshot.Orders,
	})
}

// GetAdvice returns the advisory alerts and health score.
func (h *Handler) GetAdvice(c *gin.Context) {
	result, ok := h.revalue(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, advisor.Evaluate(result.Portfolio))
}

// GetIncome returns the passive-income gap analysis.
func (h *Handler) GetIncome(c *gin.Context) {
	result, ok := h.revalue(c)
	if !ok {
		return
	}

	target := advisor.DefaultIncomeTargetEUR
	if raw := c.Query("target"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target"})
			return
		}
		target = parsed
	}

	report := advisor.PassiveIncome(
		result.Equities,
		result.Cryptos,
		result.RealEstate,
		result.Snapshot.FXRateUSDEUR,
		target,
	)
	c.JSON(http.StatusOK, report)
}

// GetHistory returns the stored series of one category, optionally limited
// to the last N days.
func (h *Handler) GetHistory(c *gin.Context) {
	category := c.Param("category")
	switch category {
	case domain.CategoryEquities, domain.CategoryCrypto, domain.CategoryTotal:
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown category"})
		return
	}

	result, ok := h.revalue(c)
	if !ok {
		return
	}

	series := result.Snapshot.History[category]
	if raw := c.Query("days"); raw != "" {
		days, err := parsePositiveInt(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
			return
		}
		// Anchor the window to the clock, not to the last fetch time: a
		// TTL-fresh pass leaves LastUpdate at the previous fetch.
		cutoff := h.refresher.Now().AddDate(0, 0, -days)
		series = series.Since(cutoff)
	}

	c.JSON(http.StatusOK, gin.H{"category": category, "points": series})
}

// GetProjection simulates capital growth. Capital and monthly contribution
// default to the current patrimony and DCA schedule.
func (h *Handler) GetProjection(c *gin.Context) {
	result, ok := h.revalue(c)
	if !ok {
		return
	}

	in := projection.Input{
		Capital:         result.Portfolio.Patrimony,
		MonthlyPayment:  result.Portfolio.MonthlyDCA,
		AnnualReturnPct: decimal.NewFromInt(7),
		Months:          120,
		TargetEUR:       projection.DefaultTargetEUR,
	}

	var err error
	if in.Capital, err = decimalQuery(c, "capital", in.Capital); err != nil {
		return
	}
	if in.MonthlyPayment, err = decimalQuery(c, "monthly", in.MonthlyPayment); err != nil {
		return
	}
	if in.AnnualReturnPct, err = decimalQuery(c, "annual", in.AnnualReturnPct); err != nil {
		return
	}
	if in.TargetEUR, err = decimalQuery(c, "target", in.TargetEUR); err != nil {
		return
	}
	if raw := c.Query("months"); raw != "" {
		months, err := parsePositiveInt(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid months"})
			return
		}
		in.Months = months
	}
	if !rateAboveTotalLoss(c, "annual", in.AnnualReturnPct) {
		return
	}

	c.JSON(http.StatusOK, projection.Project(in))
}

// GetFeeDrag contrasts the current product against a low-fee alternative
// over 30 years.
func (h *Handler) GetFeeDrag(c *gin.Context) {
	result, ok := h.revalue(c)
	if !ok {
		return
	}

	gross := decimal.NewFromInt(8)
	currentFee := decimal.NewFromFloat(2.3)
	lowFee := decimal.NewFromFloat(0.3)

	in := projection.FeeDragInput{
		Capital:        result.Portfolio.Patrimony,
		MonthlyPayment: result.Portfolio.MonthlyDCA,
	}

	var err error
	if in.Capital, err = decimalQuery(c, "capital", in.Capital); err != nil {
		return
	}
	if in.MonthlyPayment, err = decimalQuery(c, "monthly", in.MonthlyPayment); err != nil {
		return
	}
	if gross, err = decimalQuery(c, "gross", gross); err != nil {
		return
	}
	if currentFee, err = decimalQuery(c, "current_fee", currentFee); err != nil {
		return
	}
	if lowFee, err = decimalQuery(c, "low_fee", lowFee); err != nil {
		return
	}

	in.CurrentNetPct = gross.Sub(currentFee)
	in.LowFeeNetPct = gross.Sub(lowFee)
	if !rateAboveTotalLoss(c, "current net return", in.CurrentNetPct) {
		return
	}
	if !rateAboveTotalLoss(c, "low-fee net return", in.LowFeeNetPct) {
		return
	}

	c.JSON(http.StatusOK, projection.FeeDrag(in))
}

// PostEquityPosition adds an equity position to the snapshot.
func (h *Handler) PostEquityPosition(c *gin.Context) {
	var position domain.EquityPosition
	if err := c.ShouldBindJSON(&position); err != nil {
		h.log.Warnf("invalid equity body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	position.ID = uuid.New()
	if err := position.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	snapshot, err := h.snapshotRepo.Load(ctx)
	if err != nil {
		h.log.Errorf("load snapshot failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	snapshot.Equities = append(snapshot.Equities, position)
	if err := h.snapshotRepo.Save(ctx, snapshot); err != nil {
		h.log.Errorf("save snapshot failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": position.ID, "ticker": position.Ticker})
}

// DeleteEquityPosition removes every equity position with the given ticker.
func (h *Handler) DeleteEquityPosition(c *gin.Context) {
	ticker := c.Param("ticker")
	ctx := c.Request.Context()

	snapshot, err := h.snapshotRepo.Load(ctx)
	if err != nil {
		h.log.Errorf("load snapshot failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}

	kept := snapshot.Equities[:0]
	removed := 0
	for _, p := range snapshot.Equities {
		if p.Ticker == ticker {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	if removed == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "position not found"})
		return
	}
	snapshot.Equities = kept

	if err := h.snapshotRepo.Save(ctx, snapshot); err != nil {
		h.log.Errorf("save snapshot failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// PostCryptoPosition adds a crypto position to the snapshot.
func (h *Handler) PostCryptoPosition(c *gin.Context) {
	var position domain.CryptoPosition
	if err := c.ShouldBindJSON(&position); err != nil {
		h.log.Warnf("invalid crypto body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	position.ID = uuid.New()
	if err := position.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	snapshot, err := h.snapshotRepo.Load(ctx)
	if err != nil {
		h.log.Errorf("load snapshot failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	snapshot.Cryptos = append(snapshot.Cryptos, position)
	if err := h.snapshotRepo.Save(ctx, snapshot); err != nil {
		h.log.Errorf("save snapshot failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": position.ID, "ticker": position.Ticker})
}

// DeleteCryptoPosition removes every crypto position with the given ticker.
func (h *Handler) DeleteCryptoPosition(c *gin.Context) {
	ticker := c.Param("ticker")
	ctx := c.Request.Context()

	snapshot, err := h.snapshotRepo.Load(ctx)
	if err != nil {
		h.log.Errorf("load snapshot failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}

	kept := snapshot.Cryptos[:0]
	removed := 0
	for _, p := range snapshot.Cryptos {
		if p.Ticker == ticker {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	if removed == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "position not found"})
		return
	}
	snapshot.Cryptos = kept

	if err := h.snapshotRepo.Save(ctx, snapshot); err != nil {
		h.log.Errorf("save snapshot failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// PutCryptoStaking replaces the staking state of the crypto position with
// the given ticker.
func (h *Handler) PutCryptoStaking(c *gin.Context) {
	ticker := c.Param("ticker")

	var staking domain.StakingState
	if err := c.ShouldBindJSON(&staking); err != nil {
		h.log.Warnf("invalid staking body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	snapshot, err := h.snapshotRepo.Load(ctx)
	if err != nil {
		h.log.Errorf("load snapshot failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}

	updated := false
	for i := range snapshot.Cryptos {
		if snapshot.Cryptos[i].Ticker != ticker {
			continue
		}
		snapshot.Cryptos[i].Staking = staking
		if err := snapshot.Cryptos[i].Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updated = true
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "position not found"})
		return
	}

	if err := h.snapshotRepo.Save(ctx, snapshot); err != nil {
		h.log.Errorf("save snapshot failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticker": ticker, "is_staked": staking.IsStaked})
}

// PostOrder adds a recurring investment order to the snapshot.
func (h *Handler) PostOrder(c *gin.Context) {
	var order domain.RecurringOrder
	if err := c.ShouldBindJSON(&order); err != nil {
		h.log.Warnf("invalid order body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := order.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	snapshot, err := h.snapshotRepo.Load(ctx)
	if err != nil {
		h.log.Errorf("load snapshot failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	snapshot.Orders = append(snapshot.Orders, order)
	if err := h.snapshotRepo.Save(ctx, snapshot); err != nil {
		h.log.Errorf("save snapshot failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ticker": order.Ticker})
}

// DeleteOrder removes every recurring order targeting the given ticker.
func (h *Handler) DeleteOrder(c *gin.Context) {
	ticker := c.Param("ticker")
	ctx := c.Request.Context()

	snapshot, err := h.snapshotRepo.Load(ctx)
	if err != nil {
		h.log.Errorf("load snapshot failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}

	kept := snapshot.Orders[:0]
	removed := 0
	for _, o := range snapshot.Orders {
		if o.Ticker == ticker {
			removed++
			continue
		}
		kept = append(kept, o)
	}
	if removed == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	snapshot.Orders = kept

	if err := h.snapshotRepo.Save(ctx, snapshot); err != nil {
		h.log.Errorf("save snapshot failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// rateAboveTotalLoss rejects annual rates at or below -100%, which have no
// compounded monthly equivalent.
func rateAboveTotalLoss(c *gin.Context, name string, pct decimal.Decimal) bool {
	if pct.LessThanOrEqual(decimal.NewFromInt(-100)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be above -100"})
		return false
	}
	return true
}

// decimalQuery reads an optional decimal query parameter, writing a 400 and
// returning an error when the raw value does not parse.
func decimalQuery(c *gin.Context, name string, fallback decimal.Decimal) (decimal.Decimal, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return decimal.Zero, err
	}
	return parsed, nil
}

func parsePositiveInt(raw string) (int, error) {
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if parsed <= 0 {
		return 0, errors.New("not a positive integer")
	}
	return parsed, nil
}
