package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gradepay/config"
	"gradepay/internal/database"
	"gradepay/internal/logger"
	"gradepay/internal/repository"
	"gradepay/internal/router"
	"gradepay/internal/task"
)

func main() {
	cfg := config.Load()

	if cfg.Log.File != "" {
		logger.SetDefault(logger.NewWithRotation(cfg.Log.Level, cfg.Log.File))
	} else if l, err := logger.New(cfg.Log.Level); err == nil {
		logger.SetDefault(l)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		logger.Fatal("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("migrate: %v", err)
	}
	settingRepo := repository.NewSettingRepository(db)
	if err := settingRepo.SeedDefaults(database.SettingDefaults); err != nil {
		logger.Fatal("seed settings: %v", err)
	}
	if err := database.SeedAdmin(db, os.Getenv("GRADEPAY_ADMIN_EMAIL"), os.Getenv("GRADEPAY_ADMIN_PASSWORD")); err != nil {
		logger.Fatal("seed admin: %v", err)
	}

	engine, deps := router.Setup(cfg, db)
	defer deps.Notifications.Close()

	tasks, err := task.NewManager()
	if err != nil {
		logger.Fatal("tasks: %v", err)
	}
	walletRepo := repository.NewWalletRepository(db)
	if err := tasks.Every(cfg.Ledger.ReferralStatsInterval, "referral-stats",
		task.RefreshReferralStats(repository.NewCommissionRepository(db, walletRepo), repository.NewReferralRepository(db))); err != nil {
		logger.Fatal("tasks: %v", err)
	}
	tasks.Start()
	defer tasks.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server shutdown: %v", err)
	}
	logger.Info("server stopped")
}
