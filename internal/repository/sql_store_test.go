package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLStore(db), mock
}

func TestListReservationCustomersIncludesBanklessCustomers(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("FROM Customer c JOIN Person p").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "customer_number", "driver_licencse_number", "iban"}).
			AddRow("p1", "Alice", "C-001", "DL-1", "AT611904300234573201").
			AddRow("p2", "Bob", "C-002", "DL-2", nil))

	customers, err := store.ListReservationCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 2)

	require.NotNil(t, customers[0].IBAN)
	assert.Equal(t, "AT611904300234573201", *customers[0].IBAN)
	assert.Nil(t, customers[1].IBAN, "customers without a bank account stay listed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailableVehiclesOverlapArguments(t *testing.T) {
	store, mock := newMockStore(t)

	// Overlap is start_date <= end AND end_date >= start, so the range end
	// binds first.
	mock.ExpectQuery("FROM Vehicle v LEFT JOIN Booking b").
		WithArgs("2026-06-10", "2026-06-05").
		WillReturnRows(sqlmock.NewRows(
			[]string{"vehicle_id", "model", "producer", "costs_per_day", "plate_number"}).
			AddRow("v1", "Golf", "VW", []byte("49.90"), "W-123AB"))

	vehicles, err := store.AvailableVehicles(context.Background(), "2026-06-05", "2026-06-10")
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, 49.9, vehicles[0].CostsPerDay)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingPricesWholeDays(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name FROM Person WHERE id").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Alice"))
	mock.ExpectQuery("SELECT model, producer, costs_per_day FROM Vehicle").
		WithArgs("v1").
		WillReturnRows(sqlmock.NewRows([]string{"model", "producer", "costs_per_day"}).
			AddRow("Golf", "VW", []byte("50.00")))
	mock.ExpectExec("INSERT INTO Booking").
		WithArgs(sqlmock.AnyArg(), "2026-06-01", "2026-06-04", 150.0, "credit card", "c1", "v1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := store.CreateBooking(context.Background(), CreateBookingInput{
		CustomerID:   "c1",
		VehicleID:    "v1",
		StartDate:    "2026-06-01",
		EndDate:      "2026-06-04",
		WayOfBilling: "credit card",
	})
	require.NoError(t, err)
	assert.Equal(t, 150.0, result.TotalCosts)
	assert.Regexp(t, `^b_\d+$`, result.BookingID)
	assert.Equal(t, 3, result.Days)
	assert.Equal(t, "Alice", result.CustomerName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingUnknownVehicle(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name FROM Person WHERE id").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Alice"))
	mock.ExpectQuery("SELECT model, producer, costs_per_day FROM Vehicle").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"model", "producer", "costs_per_day"}))
	mock.ExpectRollback()

	_, err := store.CreateBooking(context.Background(), CreateBookingInput{
		CustomerID:   "c1",
		VehicleID:    "nope",
		StartDate:    "2026-06-01",
		EndDate:      "2026-06-04",
		WayOfBilling: "invoice",
	})
	assert.ErrorIs(t, err, ErrInvalidVehicle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachServicesRecomputesTotal(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT booking_id FROM Booking").
		WithArgs("b_1", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"booking_id"}).AddRow("b_1"))
	mock.ExpectQuery("SELECT 1 FROM Bankaccount").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	// Duplicated request ids collapse to two bind parameters.
	mock.ExpectQuery("SELECT additional_service_id FROM AdditionalService").
		WithArgs("s1", "s2").
		WillReturnRows(sqlmock.NewRows([]string{"additional_service_id"}).
			AddRow("s1").AddRow("s2"))
	mock.ExpectExec("INSERT IGNORE INTO Bookings_Services").
		WithArgs("b_1", "s1", "b_1", "s2").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("FROM Booking b JOIN Vehicle v").
		WithArgs("b_1").
		WillReturnRows(sqlmock.NewRows([]string{"base_cost", "extras_cost"}).
			AddRow([]byte("150.00"), []byte("25.00")))
	mock.ExpectExec("UPDATE Booking SET total_costs").
		WithArgs(175.0, "b_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := store.AttachServices(context.Background(), "b_1", "c1", []string{"s1", "s2", "s1"})
	require.NoError(t, err)
	assert.Equal(t, 150.0, result.BaseCost)
	assert.Equal(t, 25.0, result.ExtrasCost)
	assert.Equal(t, 175.0, result.TotalCost)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachServicesBookingGone(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT booking_id FROM Booking").
		WithArgs("b_404", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"booking_id"}))
	mock.ExpectRollback()

	_, err := store.AttachServices(context.Background(), "b_404", "c1", []string{"s1"})
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachServicesNoBankAccount(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT booking_id FROM Booking").
		WithArgs("b_1", "c2").
		WillReturnRows(sqlmock.NewRows([]string{"booking_id"}).AddRow("b_1"))
	mock.ExpectQuery("SELECT 1 FROM Bankaccount").
		WithArgs("c2").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectRollback()

	_, err := store.AttachServices(context.Background(), "b_1", "c2", []string{"s1"})
	assert.ErrorIs(t, err, ErrNoBankAccount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachServicesUnknownService(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT booking_id FROM Booking").
		WithArgs("b_1", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"booking_id"}).AddRow("b_1"))
	mock.ExpectQuery("SELECT 1 FROM Bankaccount").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery("SELECT additional_service_id FROM AdditionalService").
		WithArgs("s1", "ghost").
		WillReturnRows(sqlmock.NewRows([]string{"additional_service_id"}).AddRow("s1"))
	mock.ExpectRollback()

	_, err := store.AttachServices(context.Background(), "b_1", "c1", []string{"s1", "ghost"})
	assert.ErrorIs(t, err, ErrInvalidServiceSelection)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachServicesEmptySelection(t *testing.T) {
	store, _ := newMockStore(t)

	_, err := store.AttachServices(context.Background(), "b_1", "c1", nil)
	assert.ErrorIs(t, err, ErrInvalidServiceSelection)
}

func TestVehicleReportDefaultsMissingExtrasToZero(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("FROM Booking b JOIN Customer c").
		WillReturnRows(sqlmock.NewRows([]string{
			"booking_id", "customer_name", "producer", "model", "start_date", "end_date",
			"costs_per_day", "days", "base_cost", "additional_cost", "total_cost"}).
			AddRow("b_2", "Bob", "VW", "Golf", "2026-06-05", "2026-06-08",
				[]byte("50.00"), 3, []byte("150.00"), []byte("0"), []byte("150.00")))

	report, err := store.VehicleReport(context.Background(), VehicleReportFilter{})
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, 0.0, report[0].AdditionalCost)
	assert.Equal(t, 150.0, report[0].TotalCost)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleReportAppliesFilters(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("FROM Booking b JOIN Customer c").
		WithArgs("2026-01-01", "2026-12-31", "v1").
		WillReturnRows(sqlmock.NewRows([]string{
			"booking_id", "customer_name", "producer", "model", "start_date", "end_date",
			"costs_per_day", "days", "base_cost", "additional_cost", "total_cost"}))

	report, err := store.VehicleReport(context.Background(), VehicleReportFilter{
		From: "2026-01-01", To: "2026-12-31", VehicleID: "v1",
	})
	require.NoError(t, err)
	assert.Empty(t, report)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableRowsRejectsUnknownTable(t *testing.T) {
	store, _ := newMockStore(t)

	_, _, err := store.TableRows(context.Background(), "Person; DROP TABLE Person", 50)
	assert.ErrorIs(t, err, ErrUnknownTable)
}
