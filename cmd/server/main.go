package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/FabianClaudioMaier/IMSE-MS2/internal/config"
	"github.com/FabianClaudioMaier/IMSE-MS2/internal/database"
	"github.com/FabianClaudioMaier/IMSE-MS2/internal/handler"
	"github.com/FabianClaudioMaier/IMSE-MS2/internal/logger"
	appmw "github.com/FabianClaudioMaier/IMSE-MS2/internal/middleware"
	"github.com/FabianClaudioMaier/IMSE-MS2/internal/queue"
	"github.com/FabianClaudioMaier/IMSE-MS2/internal/repository"
	"github.com/FabianClaudioMaier/IMSE-MS2/internal/router"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Env)
	defer logger.Sync()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.L().Fatal("connect mysql", zap.Error(err))
	}

	sqlStore := repository.NewSQLStore(db)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := sqlStore.EnsureTotalCostsColumn(ctx); err != nil {
		cancel()
		logger.L().Fatal("ensure booking schema", zap.Error(err))
	}
	cancel()

	mongoStore := repository.NewMongoStore(database.NewMongoHandle(cfg.MongoURL, cfg.MongoDB))

	var initial repository.Store = sqlStore
	if cfg.DBMode == "nosql" {
		initial = mongoStore
	}
	stores := repository.NewSwitch(initial)

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.L().Warn("redis unavailable, caching and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	cache := appmw.NewRedisCache(cacheCfg, rdb)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.Register(e, router.Handlers{
		Reservation: handler.NewReservationHandler(stores),
		Service:     handler.NewServiceHandler(stores),
		System:      handler.NewSystemHandler(sqlStore, cfg.SeedPath),
		Migration:   handler.NewMigrationHandler(sqlStore, mongoStore, stores, cacheCfg, rdb),
	}, cache)

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			logger.L().Warn("booking consumer stopped", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	logger.L().Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env),
		zap.String("mode", stores.Current().Backend()))
	if err := e.Start(addr); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
