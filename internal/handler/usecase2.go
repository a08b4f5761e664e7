package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/FabianClaudioMaier/IMSE-MS2/internal/logger"
	"github.com/FabianClaudioMaier/IMSE-MS2/internal/repository"
)

// ServiceHandler serves the additional-services workflow: paying
// customers pick one of their upcoming bookings and add extras to it.
type ServiceHandler struct {
	Stores *repository.Switch
}

func NewServiceHandler(stores *repository.Switch) *ServiceHandler {
	return &ServiceHandler{Stores: stores}
}

type attachServicesReq struct {
	CustomerID     string   `json:"customerId"`
	ServiceIDs     []string `json:"serviceIds"`
	ConfirmPayment bool     `json:"confirmPayment"`
}

// Customers lists customers eligible for the service workflow.  Only
// customers with a bank account appear; extras are billed immediately.
func (h *ServiceHandler) Customers(c echo.Context) error {
	store := h.Stores.Current()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	customers, err := store.ListServiceCustomers(ctx)
	if err != nil {
		logger.L().Error("list service customers", zap.String("backend", store.Backend()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load customers"})
	}
	return c.JSON(http.StatusOK, echo.Map{"customers": customers})
}

// Bookings lists a customer's upcoming bookings with the recomputed cost
// breakdown.
func (h *ServiceHandler) Bookings(c echo.Context) error {
	customerID := c.QueryParam("customerId")
	if customerID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing customerId"})
	}

	store := h.Stores.Current()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := store.CustomerBookings(ctx, customerID)
	if err != nil {
		logger.L().Error("list customer bookings", zap.String("backend", store.Backend()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// Services returns the available and already-attached service lists for a
// booking.
func (h *ServiceHandler) Services(c echo.Context) error {
	bookingID := c.Param("id")

	store := h.Stores.Current()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lists, err := store.BookingServices(ctx, bookingID)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
	}
	if err != nil {
		logger.L().Error("list booking services", zap.String("backend", store.Backend()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load services"})
	}
	return c.JSON(http.StatusOK, lists)
}

// AttachServices adds extras to an upcoming booking and returns the
// recomputed cost breakdown.  Payment must be confirmed up front.
func (h *ServiceHandler) AttachServices(c echo.Context) error {
	bookingID := c.Param("id")

	var req attachServicesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing customerId"})
	}
	if req.CustomerID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing customerId"})
	}
	if len(req.ServiceIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No additional services selected"})
	}
	if !req.ConfirmPayment {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Payment not confirmed"})
	}

	store := h.Stores.Current()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	result, err := store.AttachServices(ctx, bookingID, req.CustomerID, req.ServiceIDs)
	switch {
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found or inactive"})
	case errors.Is(err, repository.ErrNoBankAccount):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Customer has no bank account"})
	case errors.Is(err, repository.ErrInvalidServiceSelection):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid additional service selection"})
	case err != nil:
		logger.L().Error("attach services", zap.String("backend", store.Backend()),
			zap.String("booking_id", bookingID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to add additional services"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"ok":          true,
		"base_cost":   result.BaseCost,
		"extras_cost": result.ExtrasCost,
		"total_cost":  result.TotalCost,
	})
}

// Report serves the service report with optional from/to/customerId/
// retailerId filters.
func (h *ServiceHandler) Report(c echo.Context) error {
	store := h.Stores.Current()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	report, err := store.ServiceReport(ctx, repository.ServiceReportFilter{
		From:       c.QueryParam("from"),
		To:         c.QueryParam("to"),
		CustomerID: c.QueryParam("customerId"),
		RetailerID: c.QueryParam("retailerId"),
	})
	if err != nil {
		logger.L().Error("service report", zap.String("backend", store.Backend()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"report": report})
}
