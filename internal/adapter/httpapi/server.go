// Package httpapi exposes the portfolio read models and position management
// over a JSON HTTP API.
package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mlaurent/horizon-backend/internal/domain"
	"github.com/mlaurent/horizon-backend/internal/usecase/refresh"
)

// Handler wires the refresh pipeline and snapshot store to the HTTP routes.
type Handler struct {
	refresher    *refresh.Service
	snapshotRepo domain.SnapshotRepository
	log          *logrus.Logger
}

// NewHandler creates the HTTP handler set.
func NewHandler(refresher *refresh.Service, snapshotRepo domain.SnapshotRepository, log *logrus.Logger) *Handler {
	return &Handler{refresher: refresher, snapshotRepo: snapshotRepo, log: log}
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(h *Handler, log *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/health", h.GetHealth)
	r.POST("/refresh", h.PostRefresh)

	r.GET("/dashboard", h.GetDashboard)
	r.GET("/portfolio", h.GetPortfolio)
	r.GET("/advice", h.GetAdvice)
	r.GET("/income", h.GetIncome)
	r.GET("/history/:category", h.GetHistory)
	r.GET("/projection", h.GetProjection)
	r.GET("/feedrag", h.GetFeeDrag)

	r.POST("/positions/equity", h.PostEquityPosition)
	r.DELETE("/positions/equity/:ticker", h.DeleteEquityPosition)
	r.POST("/positions/crypto", h.PostCryptoPosition)
	r.DELETE("/positions/crypto/:ticker", h.DeleteCryptoPosition)
	r.PUT("/positions/crypto/:ticker/staking", h.PutCryptoStaking)
	r.POST("/orders", h.PostOrder)
	r.DELETE("/orders/:ticker", h.DeleteOrder)

	return r
}

// requestLogger logs one line per request with method, path, status and
// latency.
func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}
