package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"eventgenie/internal/config"
	"eventgenie/internal/database"
	"eventgenie/internal/jobs"
	"eventgenie/internal/middleware"
	"eventgenie/internal/modules/auth"
	"eventgenie/internal/modules/booking"
	"eventgenie/internal/modules/catalog"
	"eventgenie/internal/modules/chat"
	"eventgenie/internal/modules/notification"
	"eventgenie/internal/modules/payment"
	jwtsvc "eventgenie/internal/pkg/jwt"
	"eventgenie/internal/pkg/logging"
	"eventgenie/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.Environment)
	defer func() { _ = logger.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalw("database connect failed", "error", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		logger.Fatalw("automigrate failed", "error", err)
	}

	accountRepo := repository.NewAccountRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	chatRepo := repository.NewChatRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	notificationService := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationService)

	authService := auth.NewService(accountRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(serviceRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	upiGenerator := payment.NewUPIGenerator()
	paypalClient := payment.NewPayPalClient(cfg.PayPalBaseURL, cfg.PayPalClientID, cfg.PayPalSecret, logger)
	if paypalClient.Configured() {
		logger.Infow("paypal client configured", "base_url", cfg.PayPalBaseURL)
	}

	bookingService := booking.NewService(bookingRepo, serviceRepo, accountRepo, notificationService, upiGenerator, paypalClient, logger)
	bookingHandler := booking.NewHandler(bookingService)

	hub := chat.NewHub()
	chatService := chat.NewService(chatRepo, accountRepo, notificationService, hub, logger)
	chatHandler := chat.NewHandler(chatService)
	wsHandler := chat.NewWSHandler(hub, j, chatService, logger)

	sweeper := jobs.NewExpirySweeper(bookingRepo, notificationService, logger, cfg.SweepInterval)
	sweeper.Start()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger(logger))

	r.GET("/ws/chat", wsHandler.HandleWebSocket)

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			catalogHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			chatHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
		}
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infow("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("http server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Infow("shutting down")

	sweeper.Stop()
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("http shutdown failed", "error", err)
	}
}
