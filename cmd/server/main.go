package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	grpclib "google.golang.org/grpc"

	grpcadapter "github.com/simaogato/wealthflow-portfolio/internal/adapter/grpc"
	"github.com/simaogato/wealthflow-portfolio/internal/adapter/market"
	"github.com/simaogato/wealthflow-portfolio/internal/adapter/repository/postgres"
	"github.com/simaogato/wealthflow-portfolio/internal/domain"
	"github.com/simaogato/wealthflow-portfolio/internal/pkg/config"
	"github.com/simaogato/wealthflow-portfolio/internal/pkg/grpcserver"
	"github.com/simaogato/wealthflow-portfolio/internal/pkg/logger"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/balance"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/dashboard"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/history"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/investment"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/projection"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/rates"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/seeder"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/withdrawal"
)

const (
	defaultConfigPath = "wealthflow.toml"
	connectAttempts   = 5
)

func main() {
	// 1. Load configuration (file, then environment)
	configPath := os.Getenv("WEALTHFLOW_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		bootLogger := logger.New("info", logger.FormatConsole)
		bootLogger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	defaultCDI, err := cfg.GetDefaultCDI()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid default CDI rate")
	}

	// 2. Setup Database
	db := connect(cfg, log)
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	// 3. Initialize Repositories (Postgres)
	holdingRepo := postgres.NewHoldingRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	snapshotRepo := postgres.NewSnapshotRepository(db)
	liabilityRepo := postgres.NewLiabilityRepository(db)
	rateRepo := postgres.NewRateRepository(db)

	// 4. Market data
	prices := market.NewRouter(
		market.NewCoinGecko(cfg.Market.CoinGeckoURL, cfg.Market.GetTimeout(), cfg.Market.RateLimit, log),
		market.NewYahoo(cfg.Market.YahooURL, cfg.Market.GetTimeout(), cfg.Market.RateLimit, log),
	)

	// 5. Initialize Services (Use Cases)
	clock := domain.SystemClock{}
	rateProvider := rates.NewProvider(rateRepo, clock, defaultCDI, log)
	balanceService := balance.NewBalanceService(holdingRepo, transactionRepo, rateProvider, clock, log)
	investmentService := investment.NewInvestmentService(holdingRepo, transactionRepo, prices, balanceService, log)
	simulatorService := withdrawal.NewSimulatorService(holdingRepo, transactionRepo, rateProvider, clock, log)
	historyService := history.NewHistoryService(holdingRepo, transactionRepo, snapshotRepo, rateProvider, clock, log)
	dashboardService := dashboard.NewDashboardService(holdingRepo, liabilityRepo, log)
	projectionService := projection.NewProjectionService(holdingRepo, rateProvider)

	// Seed the reference rate so CDI holdings have a value from day one
	rateSeeder := seeder.NewRateSeeder(rateRepo, clock, defaultCDI)
	if err := rateSeeder.Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed reference rate")
	}
	log.Info().Str("default_cdi", defaultCDI.String()).Msg("Reference rate seeded")

	// 6. Start gRPC Server
	server := grpcserver.New(cfg.Server.Addr, log,
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(log),
			grpcadapter.AuthInterceptor(cfg.Server.APIToken),
		),
	)

	portfolioServer := grpcadapter.NewServer(
		investmentService,
		balanceService,
		simulatorService,
		historyService,
		dashboardService,
		projectionService,
		rateProvider,
		log,
	)
	server.Register(&grpcadapter.ServiceDesc, portfolioServer)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve gRPC server")
		}
	}()

	// Graceful shutdown
	waitForShutdown(server, log)
}

// connect retries while Postgres is still starting up
func connect(cfg *config.Config, log zerolog.Logger) *postgres.DB {
	pool := postgres.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.GetConnMaxLifetime(),
	}

	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err := postgres.NewDB(cfg.Database.ConnectionString(), pool)
		if err == nil {
			return db
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Msg("Database not ready, retrying")
		time.Sleep(time.Duration(attempt) * time.Second)
	}

	log.Fatal().Err(lastErr).Msg("Failed to connect to database")
	return nil
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *grpcserver.Server, log zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	server.Stop()
	log.Info().Msg("gRPC server stopped")
}
