package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/mlaurent/horizon-backend/internal/adapter/httpapi"
	"github.com/mlaurent/horizon-backend/internal/adapter/marketdata"
	"github.com/mlaurent/horizon-backend/internal/adapter/repository/jsonfile"
	"github.com/mlaurent/horizon-backend/internal/adapter/repository/postgres"
	"github.com/mlaurent/horizon-backend/internal/domain"
	"github.com/mlaurent/horizon-backend/internal/usecase/refresh"
)

const (
	defaultPort      = "8080"
	defaultDataFile  = "portfolio_data.json"
	shutdownTimeout  = 10 * time.Second
	httpFetchTimeout = 10 * time.Second
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	if os.Getenv("LOG_LEVEL") == "debug" {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Load .env file if it exists, but don't fail if it's missing (e.g. in production)
	_ = godotenv.Load()

	// 1. Snapshot store
	dataFile := os.Getenv("DATA_FILE")
	if dataFile == "" {
		dataFile = defaultDataFile
	}
	store := jsonfile.NewStore(dataFile, logger)

	// 2. Optional postgres history archive
	var archive domain.HistoryArchive
	if dsn := os.Getenv("POSTGRES_URL"); dsn != "" {
		db, err := postgres.NewDB(dsn)
		if err != nil {
			logger.Fatalf("db connect failed: %v", err)
		}
		defer db.Close()

		if err := postgres.EnsureSchema(context.Background(), db); err != nil {
			logger.Fatalf("history schema setup failed: %v", err)
		}
		archive = postgres.NewHistoryArchive(db)
		logger.Info("history archive enabled")
	}

	// 3. Market data sources on a shared client
	httpClient := &http.Client{Timeout: httpFetchTimeout}
	cryptoSource := marketdata.NewCoinGeckoClient(httpClient)
	equitySource := marketdata.NewEquityClient(httpClient)
	fxSource := marketdata.NewFXClient(httpClient)

	// 4. Refresh pipeline
	svc := refresh.NewService(store, cryptoSource, equitySource, fxSource, archive, logger)
	if raw := os.Getenv("PRICE_TTL_SECONDS"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			svc.TTL = time.Duration(seconds) * time.Second
		}
	}

	// 5. HTTP server
	handler := httpapi.NewHandler(svc, store, logger)
	router := httpapi.NewRouter(handler, logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Infof("server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	waitForShutdown(server, logger)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *http.Server, logger *logrus.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Infof("received signal: %v, shutting down gracefully", sig)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("shutdown error: %v", err)
	}
	logger.Info("server stopped")
}
