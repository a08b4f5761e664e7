package repository

import "context"

// Store is the backend-neutral data-access contract.  SQLStore serves it
// from the normalized MySQL schema, MongoStore from the denormalized
// document mirror; both must produce the same rows for the same data.
// Handlers obtain a Store once per request through a Switch, so a backend
// flip never changes mid-request.
type Store interface {
	// Backend tags the implementation ("sql" or "nosql") for log lines
	// and the per-backend error messages at the HTTP boundary.
	Backend() string

	// ListReservationCustomers returns the reservation workflow's
	// customer list ordered by name.  Customers without a bank account
	// are included with a nil IBAN.
	ListReservationCustomers(ctx context.Context) ([]ReservationCustomer, error)

	// ListServiceCustomers returns the service workflow's customer list
	// ordered by name.  Customers without a bank account are excluded.
	ListServiceCustomers(ctx context.Context) ([]ServiceCustomer, error)

	// AvailableVehicles returns vehicles with no booking overlapping
	// [start, end], ordered by producer then model.  Overlap test:
	// booking.start <= end AND booking.end >= start.
	AvailableVehicles(ctx context.Context, start, end string) ([]AvailableVehicle, error)

	// CreateBooking reserves a vehicle.  Total is RentalDays(start, end)
	// times the vehicle's daily rate; the booking id is "b_" plus the
	// current epoch milliseconds.
	CreateBooking(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error)

	// CustomerBookings lists a customer's bookings starting today or
	// later, ordered by start date then id, with recomputed costs.
	CustomerBookings(ctx context.Context, customerID string) ([]CustomerBooking, error)

	// BookingServices returns the not-yet-attached and already-attached
	// service lists for a booking, each ordered by description.
	BookingServices(ctx context.Context, bookingID string) (*BookingServiceLists, error)

	// AttachServices attaches the given services to a booking.  Requested
	// ids are deduplicated and already-attached pairs are skipped, so the
	// operation is idempotent.  The booking's persisted total is
	// recomputed from the full post-attachment service set.
	AttachServices(ctx context.Context, bookingID, customerID string, serviceIDs []string) (*AttachResult, error)

	// VehicleReport computes the utilization report, ordered by start
	// date descending.
	VehicleReport(ctx context.Context, f VehicleReportFilter) ([]VehicleReportRow, error)

	// ServiceReport computes the customer/retailer/service report,
	// ordered by start date descending.
	ServiceReport(ctx context.Context, f ServiceReportFilter) ([]ServiceReportRow, error)
}
