package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/lodgely/hotel-reservation/internal/config"
	"github.com/lodgely/hotel-reservation/internal/database"
	"github.com/lodgely/hotel-reservation/internal/handler"
	"github.com/lodgely/hotel-reservation/internal/middleware"
	"github.com/lodgely/hotel-reservation/internal/queue"
	"github.com/lodgely/hotel-reservation/internal/repository"
	"github.com/lodgely/hotel-reservation/internal/router"
)

func main() {
	_ = godotenv.Load() // best-effort; real deployments set env directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	hotelRepo := repository.NewHotelRepo(db)
	propertyRepo := repository.NewPropertyRepo(db)
	roomTypeRepo := repository.NewRoomTypeRepo(db)
	availabilityRepo := repository.NewAvailabilityRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	reservationHandler := handler.NewReservationHandler(userRepo, hotelRepo, propertyRepo, roomTypeRepo, availabilityRepo, reservationRepo)
	availabilityHandler := handler.NewAvailabilityHandler(roomTypeRepo, availabilityRepo)

	// Redis backs the response cache and the rate limiter; both degrade
	// to pass-through middleware when the client is nil.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Background consumer appends reservation lifecycle events to
	// logs/reservation.log.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(rateMW)
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, reservationHandler, availabilityHandler, cacheMW)
	router.RegisterCustomer(e, reservationHandler, cfg.JWTSecret)
	router.RegisterOwner(e, availabilityHandler, reservationHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
