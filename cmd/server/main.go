package main // Entry point package

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/courtsite/venue-slot-booking/internal/config"
	"github.com/courtsite/venue-slot-booking/internal/database"
	"github.com/courtsite/venue-slot-booking/internal/handler"
	"github.com/courtsite/venue-slot-booking/internal/middleware"
	"github.com/courtsite/venue-slot-booking/internal/queue"
	"github.com/courtsite/venue-slot-booking/internal/repository"
	"github.com/courtsite/venue-slot-booking/internal/router"
	"github.com/courtsite/venue-slot-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real environments set vars directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	bookingRepo := repository.NewBookingRepo(db)
	venueRepo := repository.NewVenueRepo(db)
	coachRepo := repository.NewCoachRepo(db)

	svc := service.NewBookingService(bookingRepo, venueRepo, coachRepo, service.Config{
		HoldWindow:    cfg.HoldWindow,
		CheckInEarly:  cfg.CheckInEarly,
		VerifyBaseURL: cfg.VerifyBaseURL,
		PayBaseURL:    cfg.PayBaseURL,
		DayOpen:       cfg.DayOpen,
		DayClose:      cfg.DayClose,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background expiry of stale unpaid bookings.
	sweeper := service.NewSweeper(bookingRepo, cfg.SweepInterval)
	go sweeper.Run(ctx)

	// Confirmation notifications, consumed off the broker.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			logrus.WithError(err).Error("booking consumer stopped")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	rdb := config.NewRedisClient()
	if rdb == nil {
		logrus.Warn("redis unavailable, rate limiting disabled")
	}
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

	bookingHandler := handler.NewBookingHandler(svc)
	router.RegisterRoutes(e, bookingHandler)
	router.RegisterBooking(e, bookingHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")

	if err := e.Start(addr); err != nil {
		logrus.Fatal(err)
	}
}
