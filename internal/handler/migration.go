package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/FabianClaudioMaier/IMSE-MS2/internal/config"
	"github.com/FabianClaudioMaier/IMSE-MS2/internal/logger"
	"github.com/FabianClaudioMaier/IMSE-MS2/internal/middleware"
	"github.com/FabianClaudioMaier/IMSE-MS2/internal/repository"
)

// MigrationHandler copies the relational data set into MongoDB and flips
// the backend switch.  The flip happens only after a fully successful
// copy; a failed migration leaves the relational backend active.
type MigrationHandler struct {
	SQL      *repository.SQLStore
	Mongo    *repository.MongoStore
	Stores   *repository.Switch
	CacheCfg config.CacheConfig
	Redis    *redis.Client
}

func NewMigrationHandler(sqlStore *repository.SQLStore, mongoStore *repository.MongoStore,
	stores *repository.Switch, cacheCfg config.CacheConfig, rdb *redis.Client) *MigrationHandler {
	return &MigrationHandler{SQL: sqlStore, Mongo: mongoStore, Stores: stores, CacheCfg: cacheCfg, Redis: rdb}
}

// Migrate runs the copy and switches every subsequent request to the
// document backend.  Rerunning after a flip rebuilds the mirror from the
// relational data and keeps the document backend active.
func (h *MigrationHandler) Migrate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 120*time.Second)
	defer cancel()

	if err := repository.Migrate(ctx, h.SQL, h.Mongo); err != nil {
		logger.L().Error("migrate to document backend", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Migration failed"})
	}

	h.Stores.Flip(h.Mongo)
	logger.L().Info("backend switched", zap.String("mode", "nosql"))

	// Cached GET responses were produced by the relational backend.
	if err := middleware.FlushCache(ctx, h.CacheCfg, h.Redis); err != nil {
		logger.L().Warn("flush response cache", zap.Error(err))
	}

	return c.JSON(http.StatusOK, echo.Map{"ok": true, "mode": "nosql"})
}
