package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/cmd"
	"github.com/korey-h/api-yamdb/internal/data/repository"
	"github.com/korey-h/api-yamdb/internal/usecase"
	"github.com/korey-h/api-yamdb/internal/wire"
	"github.com/korey-h/api-yamdb/pkg/database"
	"github.com/korey-h/api-yamdb/pkg/mailer"
	"github.com/korey-h/api-yamdb/pkg/throttle"
	"github.com/korey-h/api-yamdb/pkg/token"
	"github.com/korey-h/api-yamdb/pkg/utils"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	if config.Database.AutoMigrate {
		if err := database.Migrate(config.Database); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		logger.Info("Migrations applied")
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	tokens, err := token.NewManager(
		config.JWT.Secret,
		time.Duration(config.Confirmation.TTLHours)*time.Hour,
		time.Duration(config.JWT.ExpiryHours)*time.Hour,
	)
	if err != nil {
		logger.Fatal("Failed to init token manager", zap.Error(err))
	}

	limiter := throttle.NewMemoryLimiter()
	if config.Redis.Addr != "" {
		client, err := throttle.NewRedisClient(context.Background(), config.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()

		limiter = throttle.NewRedisLimiter(client)
		logger.Info("Redis connected successfully", zap.String("addr", config.Redis.Addr))
	}

	deps := usecase.Dependencies{
		Tokens:   tokens,
		Mailer:   mailer.New(config.Email, logger),
		Throttle: limiter,
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, deps, config, logger)

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
