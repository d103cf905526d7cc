package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/xxiimcha/lifeec-mobile/internal/model"
	"github.com/xxiimcha/lifeec-mobile/internal/repository"
	"github.com/xxiimcha/lifeec-mobile/internal/server"
	"github.com/xxiimcha/lifeec-mobile/internal/service"
	"github.com/xxiimcha/lifeec-mobile/pkg/config"
	"github.com/xxiimcha/lifeec-mobile/pkg/database"
	"github.com/xxiimcha/lifeec-mobile/pkg/jwtutil"
	"github.com/xxiimcha/lifeec-mobile/pkg/logger"
	"github.com/xxiimcha/lifeec-mobile/pkg/mailer"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()
	log.Info("Starting care service...", cfg.LogConfig()...)

	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(db, model.All()...); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connection established", zap.String("driver", cfg.DB.Driver))

	notifier, err := mailer.New(&cfg.Mail, log)
	if err != nil {
		log.Fatal("Failed to initialize mailer", zap.Error(err))
	}

	clock := clockwork.NewRealClock()
	tokens := jwtutil.NewJWTUtil(cfg.JWT.SigningKey, clock)
	hasher := service.NewBcryptHasher()

	accounts := repository.NewAccountRepository(db)
	alerts := repository.NewAlertRepository(db)
	residents := repository.NewResidentRepository(db)

	e := server.New(server.Deps{
		Auth:          service.NewAuthService(accounts, hasher, tokens, notifier, clock, cfg.Mail.ResetURLBase),
		Accounts:      service.NewAccountService(accounts, hasher),
		Contacts:      service.NewContactService(accounts),
		Alerts:        service.NewAlertService(alerts, residents, clock),
		Residents:     service.NewResidentService(residents),
		Messages:      service.NewMessageService(repository.NewMessageRepository(db), clock),
		Notifications: service.NewNotificationService(repository.NewNotificationRepository(db), clock),
		Tokens:        tokens,
		AuthRateLimit: cfg.Server.AuthRateLimit,
	})

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
