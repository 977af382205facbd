package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/aquarhone/aquabook/internal/booking"
	"github.com/aquarhone/aquabook/internal/config"
	"github.com/aquarhone/aquabook/internal/database"
	"github.com/aquarhone/aquabook/internal/handler"
	"github.com/aquarhone/aquabook/internal/queue"
	"github.com/aquarhone/aquabook/internal/repository"
	"github.com/aquarhone/aquabook/internal/router"
	queue_publisher "github.com/aquarhone/aquabook/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.DBName); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()

	users := repository.NewUserRepo(db)
	activities := repository.NewActivityRepo(db)
	reservations := repository.NewReservationRepo(db)

	engine := booking.NewEngine(db, activities, reservations, queue_publisher.AMQPPublisher{})

	// The audit consumer runs in-process; it reconnects on its own and
	// never blocks the HTTP server.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	router.Register(e, router.Deps{
		Cfg:          cfg,
		CacheCfg:     cacheCfg,
		RateCfg:      rateCfg,
		Redis:        rdb,
		Auth:         handler.NewAuthHandler(cfg, users),
		Users:        handler.NewUserHandler(cfg, users, reservations),
		Activities:   handler.NewActivityHandler(activities, rdb, cacheCfg),
		Reservations: handler.NewReservationHandler(engine),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
