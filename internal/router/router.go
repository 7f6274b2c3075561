package router

import (
	"time"

	"gradepay/config"
	"gradepay/internal/handler"
	"gradepay/internal/metrics"
	"gradepay/internal/middleware"
	"gradepay/internal/repository"
	"gradepay/internal/service"
	"gradepay/internal/ws"
	"gradepay/pkg/paystack"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the long-lived components main owns and the router wires together.
type Deps struct {
	Hub           *ws.Hub
	Notifications *service.NotificationService
	Withdrawals   *service.WithdrawalService
	Wallets       *service.WalletService
	Commissions   *service.CommissionService
}

// Setup builds the full dependency graph and the route table.
func Setup(cfg *config.Config, db *gorm.DB) (*gin.Engine, *Deps) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Skip gin.Logger() to reduce log noise; use gin.Default() if you need request logging
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	commissionRepo := repository.NewCommissionRepository(db, walletRepo)
	withdrawalRepo := repository.NewWithdrawalRepository(db, walletRepo)
	referralRepo := repository.NewReferralRepository(db)
	partnerRepo := repository.NewPartnerRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	hub := ws.NewHub()

	// Services
	notifSvc := service.NewNotificationService(notificationRepo, hub)
	commissionSvc := service.NewCommissionService(commissionRepo, referralRepo, settingRepo, notifSvc)
	walletSvc := service.NewWalletService(walletRepo, ledgerRepo, commissionSvc, notifSvc)
	withdrawalSvc := service.NewWithdrawalService(withdrawalRepo, walletRepo, partnerRepo, settingRepo, notifSvc)

	paystackClient := paystack.NewClient(cfg.Paystack.BaseURL, cfg.Paystack.SecretKey)

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, userRepo, walletRepo, partnerRepo)
	walletHandler := handler.NewWalletHandler(walletSvc, settingRepo, paystackClient)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalSvc)
	adminHandler := handler.NewAdminHandler(withdrawalSvc, settingRepo, partnerRepo, referralRepo, userRepo)
	partnerHandler := handler.NewPartnerHandler(partnerRepo, referralRepo, commissionRepo)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", metrics.Handler())
	r.GET("/ws/events", ws.UpgradeEvents(&cfg.JWT, hub))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		authed := api.Group("")
		authed.Use(middleware.AuthRequired(&cfg.JWT))
		{
			authed.GET("/me", authHandler.Me)

			wallet := authed.Group("/wallet")
			{
				wallet.GET("", walletHandler.Summary)
				wallet.GET("/history", walletHandler.History)
				wallet.POST("/fund", walletHandler.Fund)
				wallet.POST("/charge-ai", walletHandler.ChargeAI)
			}

			withdrawals := authed.Group("/withdrawals")
			{
				withdrawals.POST("", withdrawalHandler.Create)
				withdrawals.GET("", withdrawalHandler.ListMine)
				withdrawals.GET("/stats", withdrawalHandler.Stats)
				withdrawals.GET("/:id", withdrawalHandler.Get)
			}

			partner := authed.Group("/partner")
			{
				partner.GET("/referrals", partnerHandler.Referrals)
				partner.GET("/earnings", partnerHandler.Earnings)
			}

			notifications := authed.Group("/notifications")
			{
				notifications.GET("", notificationHandler.List)
				notifications.POST("/:id/read", notificationHandler.MarkRead)
			}

			admin := authed.Group("/admin")
			admin.Use(middleware.AdminRequired())
			{
				// Inbound platform events go through the admin surface: the
				// assessment backend calls with a service account.
				admin.POST("/events/submission-paid", walletHandler.SubmissionPaid)

				admin.GET("/withdrawals", adminHandler.ListWithdrawals)
				admin.GET("/withdrawals/stats", adminHandler.WithdrawalStats)
				admin.POST("/withdrawals/:id/approve", adminHandler.ApproveWithdrawal)
				admin.POST("/withdrawals/:id/reject", adminHandler.RejectWithdrawal)
				admin.POST("/withdrawals/:id/mark-paid", adminHandler.MarkWithdrawalPaid)

				admin.GET("/settings", adminHandler.GetSettings)
				admin.PUT("/settings", adminHandler.UpdateSetting)

				admin.POST("/partners", adminHandler.CreatePartner)
				admin.PUT("/partners/:id/rate", adminHandler.UpdatePartnerRate)
				admin.POST("/referrals", adminHandler.CreateReferral)
			}
		}
	}

	return r, &Deps{
		Hub:           hub,
		Notifications: notifSvc,
		Withdrawals:   withdrawalSvc,
		Wallets:       walletSvc,
		Commissions:   commissionSvc,
	}
}
