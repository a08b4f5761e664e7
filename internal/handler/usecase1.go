package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/FabianClaudioMaier/IMSE-MS2/internal/logger"
	"github.com/FabianClaudioMaier/IMSE-MS2/internal/queue"
	"github.com/FabianClaudioMaier/IMSE-MS2/internal/repository"
	queue_publisher "github.com/FabianClaudioMaier/IMSE-MS2/internal/service"
)

// ReservationHandler serves the vehicle reservation workflow.  Every
// request reads the active backend once from the switch, so a migration
// finishing mid-flight never splits one request across two backends.
type ReservationHandler struct {
	Stores *repository.Switch
}

func NewReservationHandler(stores *repository.Switch) *ReservationHandler {
	return &ReservationHandler{Stores: stores}
}

type createBookingReq struct {
	CustomerID   string `json:"customerId"`
	VehicleID    string `json:"vehicleId"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	WayOfBilling string `json:"wayOfBilling"`
}

// Customers lists everybody who can book a vehicle.  Customers without a
// bank account are included here; the service workflow filters them out.
func (h *ReservationHandler) Customers(c echo.Context) error {
	store := h.Stores.Current()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	customers, err := store.ListReservationCustomers(ctx)
	if err != nil {
		logger.L().Error("list reservation customers", zap.String("backend", store.Backend()), zap.Error(err))
		msg := "No chance to get customer data"
		if store.Backend() == "nosql" {
			msg = "NoSQL: No chance to get customer data"
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, echo.Map{"customers": customers})
}

// Vehicles lists vehicles free in the requested window.
func (h *ReservationHandler) Vehicles(c echo.Context) error {
	start := c.QueryParam("start")
	end := c.QueryParam("end")
	if start == "" || end == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing dates"})
	}

	store := h.Stores.Current()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	vehicles, err := store.AvailableVehicles(ctx, start, end)
	if err != nil {
		logger.L().Error("list available vehicles", zap.String("backend", store.Backend()), zap.Error(err))
		msg := "Failed to load vehicles"
		if store.Backend() == "nosql" {
			msg = "NoSQL failed to load vehicles"
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, echo.Map{"vehicles": vehicles})
}

// CreateBooking reserves a vehicle.  The relational backend requires an
// explicit customer id; the document backend falls back to the first
// customer on record when none is given.
func (h *ReservationHandler) CreateBooking(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing fields"})
	}
	if req.VehicleID == "" || req.StartDate == "" || req.EndDate == "" || req.WayOfBilling == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing fields"})
	}

	store := h.Stores.Current()
	if store.Backend() == "sql" && req.CustomerID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing customerId"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	result, err := store.CreateBooking(ctx, repository.CreateBookingInput{
		CustomerID:   req.CustomerID,
		VehicleID:    req.VehicleID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		WayOfBilling: req.WayOfBilling,
	})
	switch {
	case errors.Is(err, repository.ErrInvalidVehicle):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid vehicle"})
	case errors.Is(err, repository.ErrInvalidCustomer):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid customer"})
	case errors.Is(err, repository.ErrNoCustomers):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No customers available"})
	case err != nil:
		logger.L().Error("create booking", zap.String("backend", store.Backend()), zap.Error(err))
		msg := "Failed to create booking"
		if store.Backend() == "nosql" {
			msg = "NoSql: Failed to create booking (NoSQL)"
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
	}

	publishBookingCreated(result, store.Backend())

	return c.JSON(http.StatusOK, echo.Map{
		"ok":          true,
		"booking_id":  result.BookingID,
		"total_costs": result.TotalCosts,
	})
}

// Report serves the per-booking revenue report with optional from/to/
// vehicleId filters.
func (h *ReservationHandler) Report(c echo.Context) error {
	store := h.Stores.Current()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	report, err := store.VehicleReport(ctx, repository.VehicleReportFilter{
		From:      c.QueryParam("from"),
		To:        c.QueryParam("to"),
		VehicleID: c.QueryParam("vehicleId"),
	})
	if err != nil {
		logger.L().Error("vehicle report", zap.String("backend", store.Backend()), zap.Error(err))
		msg := "database error"
		if store.Backend() == "nosql" {
			msg = "database error (NoSQL)"
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, echo.Map{"report": report})
}

// publishBookingCreated emits the broker event off the request path.  A
// broker outage only costs the event, never the booking.
func publishBookingCreated(r *repository.CreateBookingResult, backend string) {
	ev := queue.BookingCreatedEvent{
		BookingID:    r.BookingID,
		CustomerID:   r.CustomerID,
		CustomerName: r.CustomerName,
		VehicleID:    r.VehicleID,
		Producer:     r.Producer,
		Model:        r.Model,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		RentalDays:   r.Days,
		TotalCosts:   r.TotalCosts,
		Backend:      backend,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := queue_publisher.PublishBookingCreated(ctx, ev); err != nil {
			logger.L().Warn("publish booking.created", zap.String("booking_id", ev.BookingID), zap.Error(err))
		}
	}()
}
