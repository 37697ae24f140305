package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"lottery-settlement/internal/config"
	"lottery-settlement/internal/handlers"
	"lottery-settlement/internal/middleware"
	"lottery-settlement/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	store, err := services.NewRedisStore(cfg)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer store.Close()

	ledger := services.NewRedisLedger(store.Client())
	jwtService := services.NewJWTService(cfg.JWTSecret, 0)

	grants := map[string][]string{
		services.RoleTreasuryAuthority: {cfg.TreasuryAuthority},
		services.RoleTreasuryCosigner:  cfg.TreasuryCoSigners,
		services.RoleOperator:          {cfg.TreasuryAuthority},
	}
	authorizer := services.NewStaticAuthorizer(grants)

	wsHandler := handlers.NewWebSocketHandler(logger)

	treasuryService := services.NewTreasuryService(services.TreasuryConfig{
		Store:     store,
		Ledger:    ledger,
		Auth:      authorizer,
		Publisher: wsHandler,
		Logger:    logger,
	})
	if _, err := treasuryService.Init(context.Background(), cfg.TreasuryFeeBps, cfg.TreasuryAuthority); err != nil {
		logger.Fatal("failed to initialize treasury", zap.Error(err))
	}

	entropy := services.NewEntropyAdapter(services.NewStoreFeedSource(store))

	engine := services.NewLotteryEngine(services.EngineConfig{
		Store:     store,
		Ledger:    ledger,
		Treasury:  treasuryService,
		Entropy:   entropy,
		Publisher: wsHandler,
		Logger:    logger,
	})

	if cfg.FeedURL != "" {
		poller := services.NewFeedPoller(store, cfg.FeedURL, cfg.FeedInterval, logger)
		go poller.Run(context.Background())
	}

	scheduler := services.NewScheduler(engine, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	authHandler := handlers.NewAuthHandler(jwtService, grants)
	lotteryHandler := handlers.NewLotteryHandler(engine, logger)
	treasuryHandler := handlers.NewTreasuryHandler(treasuryService, jwtService, logger)
	custodyHandler := handlers.NewCustodyHandler(ledger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.POST("/auth/token", authHandler.IssueToken)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.GET("/ws", wsHandler.HandleWebSocket)
		protected.GET("/events", lotteryHandler.RecentEvents)

		protected.POST("/custody/deposit", custodyHandler.Deposit)
		protected.GET("/custody/balance", custodyHandler.Balance)

		rounds := protected.Group("/rounds")
		{
			rounds.GET("", lotteryHandler.ListRounds)
			rounds.GET("/:category", lotteryHandler.GetRound)
			rounds.POST("/:category/tickets", lotteryHandler.BuyTickets)
			rounds.POST("/:category/claim", lotteryHandler.ClaimPrize)
		}

		admin := protected.Group("")
		admin.Use(middleware.RequireRole(services.RoleOperator))
		{
			admin.POST("/rounds/:category", lotteryHandler.CreateRound)
			admin.POST("/rounds/:category/schedule", lotteryHandler.ScheduleDraw)
			admin.POST("/rounds/:category/draw", lotteryHandler.ExecuteDraw)
			admin.POST("/rounds/:category/distribute", lotteryHandler.DistributePrize)
			admin.POST("/rounds/:category/recycle", lotteryHandler.RecycleUnclaimed)
			admin.GET("/treasury", treasuryHandler.Get)
			admin.POST("/treasury/withdraw", treasuryHandler.Withdraw)
		}

		protected.GET("/purchases", lotteryHandler.ListPurchases)
	}

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
