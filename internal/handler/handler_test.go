package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FabianClaudioMaier/IMSE-MS2/internal/repository"
)

// fakeStore satisfies repository.Store with canned responses, so handler
// tests exercise validation and error mapping without a database.
type fakeStore struct {
	backend string

	reservationCustomers []repository.ReservationCustomer
	serviceCustomers     []repository.ServiceCustomer
	vehicles             []repository.AvailableVehicle
	bookings             []repository.CustomerBooking
	serviceLists         *repository.BookingServiceLists
	createResult         *repository.CreateBookingResult
	attachResult         *repository.AttachResult
	vehicleReport        []repository.VehicleReportRow
	serviceReport        []repository.ServiceReportRow

	err error
}

func (f *fakeStore) Backend() string { return f.backend }

func (f *fakeStore) ListReservationCustomers(context.Context) ([]repository.ReservationCustomer, error) {
	return f.reservationCustomers, f.err
}

func (f *fakeStore) ListServiceCustomers(context.Context) ([]repository.ServiceCustomer, error) {
	return f.serviceCustomers, f.err
}

func (f *fakeStore) AvailableVehicles(context.Context, string, string) ([]repository.AvailableVehicle, error) {
	return f.vehicles, f.err
}

func (f *fakeStore) CreateBooking(context.Context, repository.CreateBookingInput) (*repository.CreateBookingResult, error) {
	return f.createResult, f.err
}

func (f *fakeStore) CustomerBookings(context.Context, string) ([]repository.CustomerBooking, error) {
	return f.bookings, f.err
}

func (f *fakeStore) BookingServices(context.Context, string) (*repository.BookingServiceLists, error) {
	return f.serviceLists, f.err
}

func (f *fakeStore) AttachServices(context.Context, string, string, []string) (*repository.AttachResult, error) {
	return f.attachResult, f.err
}

func (f *fakeStore) VehicleReport(context.Context, repository.VehicleReportFilter) ([]repository.VehicleReportRow, error) {
	return f.vehicleReport, f.err
}

func (f *fakeStore) ServiceReport(context.Context, repository.ServiceReportFilter) ([]repository.ServiceReportRow, error) {
	return f.serviceReport, f.err
}

func newContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestVehiclesRequiresDates(t *testing.T) {
	h := NewReservationHandler(repository.NewSwitch(&fakeStore{backend: "sql"}))
	c, rec := newContext(t, http.MethodGet, "/usecase1/vehicles?start=2026-06-01", "")

	require.NoError(t, h.Vehicles(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Missing dates"}`, rec.Body.String())
}

func TestCustomersErrorMessagePerBackend(t *testing.T) {
	cases := []struct {
		backend string
		want    string
	}{
		{"sql", "No chance to get customer data"},
		{"nosql", "NoSQL: No chance to get customer data"},
	}
	for _, tc := range cases {
		t.Run(tc.backend, func(t *testing.T) {
			store := &fakeStore{backend: tc.backend, err: assert.AnError}
			h := NewReservationHandler(repository.NewSwitch(store))
			c, rec := newContext(t, http.MethodGet, "/usecase1/customers", "")

			require.NoError(t, h.Customers(c))
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestCreateBookingValidation(t *testing.T) {
	h := NewReservationHandler(repository.NewSwitch(&fakeStore{backend: "sql"}))

	t.Run("missing fields", func(t *testing.T) {
		c, rec := newContext(t, http.MethodPost, "/usecase1/bookings",
			`{"vehicleId":"v1","startDate":"2026-06-01"}`)
		require.NoError(t, h.CreateBooking(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Missing fields"}`, rec.Body.String())
	})

	t.Run("relational mode requires customer id", func(t *testing.T) {
		c, rec := newContext(t, http.MethodPost, "/usecase1/bookings",
			`{"vehicleId":"v1","startDate":"2026-06-01","endDate":"2026-06-04","wayOfBilling":"invoice"}`)
		require.NoError(t, h.CreateBooking(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Missing customerId"}`, rec.Body.String())
	})
}

func TestCreateBookingDocumentModeFallsBackWithoutCustomer(t *testing.T) {
	store := &fakeStore{
		backend: "nosql",
		createResult: &repository.CreateBookingResult{
			BookingID: "b_42", TotalCosts: 150, CustomerID: "p1", Days: 3,
		},
	}
	h := NewReservationHandler(repository.NewSwitch(store))
	c, rec := newContext(t, http.MethodPost, "/usecase1/bookings",
		`{"vehicleId":"v1","startDate":"2026-06-01","endDate":"2026-06-04","wayOfBilling":"invoice"}`)

	require.NoError(t, h.CreateBooking(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"booking_id":"b_42","total_costs":150}`, rec.Body.String())
}

func TestCreateBookingMapsSentinels(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"invalid vehicle", repository.ErrInvalidVehicle, http.StatusBadRequest, "Invalid vehicle"},
		{"invalid customer", repository.ErrInvalidCustomer, http.StatusBadRequest, "Invalid customer"},
		{"no customers", repository.ErrNoCustomers, http.StatusBadRequest, "No customers available"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{backend: "sql", err: tc.err}
			h := NewReservationHandler(repository.NewSwitch(store))
			c, rec := newContext(t, http.MethodPost, "/usecase1/bookings",
				`{"customerId":"c1","vehicleId":"v1","startDate":"2026-06-01","endDate":"2026-06-04","wayOfBilling":"invoice"}`)

			require.NoError(t, h.CreateBooking(c))
			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantMsg)
		})
	}
}

func TestBookingsRequiresCustomerID(t *testing.T) {
	h := NewServiceHandler(repository.NewSwitch(&fakeStore{backend: "sql"}))
	c, rec := newContext(t, http.MethodGet, "/usecase/bookings", "")

	require.NoError(t, h.Bookings(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Missing customerId"}`, rec.Body.String())
}

func TestServicesNotFound(t *testing.T) {
	store := &fakeStore{backend: "nosql", err: repository.ErrBookingNotFound}
	h := NewServiceHandler(repository.NewSwitch(store))
	c, rec := newContext(t, http.MethodGet, "/usecase/bookings/b_404/services", "")
	c.SetParamNames("id")
	c.SetParamValues("b_404")

	require.NoError(t, h.Services(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Booking not found"}`, rec.Body.String())
}

func TestAttachServicesValidation(t *testing.T) {
	h := NewServiceHandler(repository.NewSwitch(&fakeStore{backend: "sql"}))

	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing customer", `{"serviceIds":["s1"],"confirmPayment":true}`, "Missing customerId"},
		{"no services", `{"customerId":"c1","serviceIds":[],"confirmPayment":true}`, "No additional services selected"},
		{"payment unconfirmed", `{"customerId":"c1","serviceIds":["s1"]}`, "Payment not confirmed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newContext(t, http.MethodPost, "/usecase/bookings/b_1/services", tc.body)
			c.SetParamNames("id")
			c.SetParamValues("b_1")

			require.NoError(t, h.AttachServices(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestAttachServicesMapsSentinels(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"booking gone", repository.ErrBookingNotFound, http.StatusNotFound, "Booking not found or inactive"},
		{"no bank account", repository.ErrNoBankAccount, http.StatusBadRequest, "Customer has no bank account"},
		{"bad selection", repository.ErrInvalidServiceSelection, http.StatusBadRequest, "Invalid additional service selection"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{backend: "sql", err: tc.err}
			h := NewServiceHandler(repository.NewSwitch(store))
			c, rec := newContext(t, http.MethodPost, "/usecase/bookings/b_1/services",
				`{"customerId":"c1","serviceIds":["s1"],"confirmPayment":true}`)
			c.SetParamNames("id")
			c.SetParamValues("b_1")

			require.NoError(t, h.AttachServices(c))
			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantMsg)
		})
	}
}

func TestAttachServicesReturnsBreakdown(t *testing.T) {
	store := &fakeStore{
		backend:      "sql",
		attachResult: &repository.AttachResult{BaseCost: 150, ExtrasCost: 25, TotalCost: 175},
	}
	h := NewServiceHandler(repository.NewSwitch(store))
	c, rec := newContext(t, http.MethodPost, "/usecase/bookings/b_1/services",
		`{"customerId":"c1","serviceIds":["s1","s2"],"confirmPayment":true}`)
	c.SetParamNames("id")
	c.SetParamValues("b_1")

	require.NoError(t, h.AttachServices(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"base_cost":150,"extras_cost":25,"total_cost":175}`, rec.Body.String())
}

func TestHealthReportsActiveMode(t *testing.T) {
	sw := repository.NewSwitch(&fakeStore{backend: "sql"})
	h := NewReservationHandler(sw)

	c, rec := newContext(t, http.MethodGet, "/healthz", "")
	require.NoError(t, h.Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","mode":"sql"}`, rec.Body.String())

	sw.Flip(&fakeStore{backend: "nosql"})
	c, rec = newContext(t, http.MethodGet, "/healthz", "")
	require.NoError(t, h.Health(c))
	assert.JSONEq(t, `{"status":"ok","mode":"nosql"}`, rec.Body.String())
}
