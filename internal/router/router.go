// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/FabianClaudioMaier/IMSE-MS2/internal/handler"
)

// Handlers bundles every handler the router wires up.
type Handlers struct {
	Reservation *handler.ReservationHandler
	Service     *handler.ServiceHandler
	System      *handler.SystemHandler
	Migration   *handler.MigrationHandler
}

// Register maps every endpoint onto the provided Echo instance.  The
// cache middleware applies only to the GET endpoints whose responses are
// safe to replay; writes and the migration trigger stay uncached.
func Register(e *echo.Echo, h Handlers, cache echo.MiddlewareFunc) {
	e.GET("/healthz", h.Reservation.Health)

	// Vehicle reservation workflow.
	e.GET("/usecase1/customers", h.Reservation.Customers, cache)
	e.GET("/usecase1/vehicles", h.Reservation.Vehicles, cache)
	e.POST("/usecase1/bookings", h.Reservation.CreateBooking)
	e.GET("/usecase1/report", h.Reservation.Report, cache)

	// Additional-services workflow.  The historical path prefix differs
	// from the reservation one and clients depend on it.
	e.GET("/usecase/customers", h.Service.Customers, cache)
	e.GET("/usecase/bookings", h.Service.Bookings)
	e.GET("/usecase/bookings/:id/services", h.Service.Services)
	e.POST("/usecase/bookings/:id/services", h.Service.AttachServices)
	e.GET("/usecase2/report", h.Service.Report, cache)

	// Schema explorer and seed endpoints, relational backend only.
	e.GET("/tables", h.System.Tables)
	e.GET("/table/:name", h.System.TableRows)
	e.GET("/seed-status", h.System.SeedStatus)
	e.POST("/generate", h.System.Generate)

	// One-way backend migration.
	e.POST("/migrate-nosql", h.Migration.Migrate)
}
