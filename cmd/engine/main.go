package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/finbotd/finbot/internal/ai"
	"github.com/finbotd/finbot/internal/api"
	"github.com/finbotd/finbot/internal/banking"
	"github.com/finbotd/finbot/internal/config"
	"github.com/finbotd/finbot/internal/db"
	"github.com/finbotd/finbot/internal/engine"
	"github.com/finbotd/finbot/internal/metrics"
	"github.com/finbotd/finbot/internal/notify"
	"github.com/finbotd/finbot/internal/report"
	"github.com/finbotd/finbot/internal/status"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := newLogger(cfg.Server.Mode)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	// Database
	conn, err := db.NewConnection(cfg.Database.URL, cfg.Database.MaxConnections, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	if err := db.Migrate(conn); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	repo := db.NewRepository(conn)

	// Collaborators
	collector := metrics.NewCollector(prometheus.DefaultRegisterer)
	snap := status.NewSnapshot()

	bankFactory := banking.NewFactory(cfg.Banking)
	newBankClient := func() engine.BankClient { return bankFactory.New() }

	aiClient, err := ai.NewClient(cfg.AI, logger)
	if err != nil {
		logger.Fatal("Failed to create AI client", zap.Error(err))
	}

	notifier := notify.NewNotifier(cfg.Notifier, logger)
	reports := report.NewGenerator(
		func() report.BankClient { return bankFactory.New() },
		notifier,
		logger,
	)

	eng := engine.New(repo, newBankClient, aiClient, notifier, reports, snap, collector, cfg.Engine, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	eng.Start(ctx)

	// Status endpoint
	srv := api.NewServer(cfg.Server, snap, logger)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start status server", zap.Error(err))
		}
	}()
	logger.Info("Status server started", zap.String("port", cfg.Server.Port))

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Status server forced to shutdown", zap.Error(err))
	}

	eng.Wait()
	logger.Info("Engine stopped")
}

func newLogger(mode string) (*zap.Logger, error) {
	if mode == "release" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
