package handler

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/FabianClaudioMaier/IMSE-MS2/internal/logger"
	"github.com/FabianClaudioMaier/IMSE-MS2/internal/repository"
)

// SystemHandler exposes the schema explorer and the seed endpoints.  Both
// work against the relational backend only: the explorer walks the MySQL
// schema, and seeding always targets the system of record.
type SystemHandler struct {
	SQL      *repository.SQLStore
	SeedPath string
}

func NewSystemHandler(sqlStore *repository.SQLStore, seedPath string) *SystemHandler {
	return &SystemHandler{SQL: sqlStore, SeedPath: seedPath}
}

// Tables returns the explorer's table allowlist.
func (h *SystemHandler) Tables(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"tables": h.SQL.Tables()})
}

// TableRows returns up to limit rows of one allowlisted table.
func (h *SystemHandler) TableRows(c echo.Context) error {
	table := c.Param("name")

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	columns, rows, err := h.SQL.TableRows(ctx, table, limit)
	if errors.Is(err, repository.ErrUnknownTable) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Unknown table"})
	}
	if err != nil {
		logger.L().Error("read table", zap.String("table", table), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load table data"})
	}
	return c.JSON(http.StatusOK, echo.Map{"table": table, "columns": columns, "rows": rows})
}

// SeedStatus reports whether seed data is already present.
func (h *SystemHandler) SeedStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	seeded, err := h.SQL.HasSeedData(ctx)
	if err != nil {
		logger.L().Error("check seed status", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to check seed status"})
	}
	return c.JSON(http.StatusOK, echo.Map{"seeded": seeded})
}

// Generate runs the seed script once.  A second call is rejected so the
// demo data set stays deterministic.
func (h *SystemHandler) Generate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	seeded, err := h.SQL.HasSeedData(ctx)
	if err != nil {
		logger.L().Error("check seed status", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to generate data"})
	}
	if seeded {
		return c.JSON(http.StatusConflict, echo.Map{"error": "Data already generated"})
	}

	script, err := os.ReadFile(h.SeedPath)
	if err != nil {
		logger.L().Error("read seed script", zap.String("path", h.SeedPath), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to generate data"})
	}
	if err := h.SQL.Seed(ctx, string(script)); err != nil {
		logger.L().Error("run seed script", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to generate data"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"ok": true})
}
