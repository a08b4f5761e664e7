package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateBooking reserves a vehicle for a customer.  When no customer id
// is given, the first customer ordered by name is used.  The vehicle
// lookup and the insert run in one transaction so the priced rate cannot
// change between the two statements.  The booking id is generated as
// "b_" plus the current epoch milliseconds.
func (s *SQLStore) CreateBooking(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	customerID := in.CustomerID
	var customerName string
	if customerID == "" {
		const firstCustomer = `SELECT p.id, p.name
			FROM Customer c
			JOIN Person p ON p.id = c.person_id
			ORDER BY p.name
			LIMIT 1`
		if err := tx.QueryRowContext(ctx, firstCustomer).Scan(&customerID, &customerName); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrNoCustomers
			}
			return nil, err
		}
	} else {
		err := tx.QueryRowContext(ctx,
			"SELECT name FROM Person WHERE id = ?", customerID,
		).Scan(&customerName)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCustomer
		}
		if err != nil {
			return nil, err
		}
	}

	var (
		costsPerDay    []byte
		vModel, vMaker string
	)
	err = tx.QueryRowContext(ctx,
		"SELECT model, producer, costs_per_day FROM Vehicle WHERE vehicle_id = ?", in.VehicleID,
	).Scan(&vModel, &vMaker, &costsPerDay)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidVehicle
	}
	if err != nil {
		return nil, err
	}

	bookingID := fmt.Sprintf("b_%d", time.Now().UnixMilli())
	days := RentalDays(in.StartDate, in.EndDate)
	total := float64(days) * AsNumber(costsPerDay)

	const insert = `INSERT INTO Booking (booking_id, start_date, end_date, total_costs, way_of_billing, customer_id, vehicle_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insert,
		bookingID, in.StartDate, in.EndDate, total, in.WayOfBilling, customerID, in.VehicleID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &CreateBookingResult{
		BookingID:    bookingID,
		TotalCosts:   total,
		CustomerID:   customerID,
		CustomerName: customerName,
		VehicleID:    in.VehicleID,
		Producer:     vMaker,
		Model:        vModel,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Days:         days,
	}, nil
}

// CustomerBookings lists a customer's bookings that start today or later,
// ordered by start date then booking id.  Base and extras costs come from
// the query; the combined total is derived in Go exactly as the service
// workflow displays it.
func (s *SQLStore) CustomerBookings(ctx context.Context, customerID string) ([]CustomerBooking, error) {
	const q = `SELECT
			b.booking_id,
			b.start_date,
			b.end_date,
			b.way_of_billing,
			b.vehicle_id,
			b.total_costs,
			v.model,
			v.producer,
			v.costs_per_day,
			v.plate_number,
			v.number_of_seats,
			GREATEST(DATEDIFF(b.end_date, b.start_date), 1) AS days,
			GREATEST(DATEDIFF(b.end_date, b.start_date), 1) * v.costs_per_day AS base_cost,
			COALESCE(SUM(a.costs), 0) AS extras_cost
		FROM Booking b
		JOIN Vehicle v ON v.vehicle_id = b.vehicle_id
		LEFT JOIN Bookings_Services bs ON bs.booking_id = b.booking_id
		LEFT JOIN AdditionalService a ON a.additional_service_id = bs.additional_service_id
		WHERE b.customer_id = ? AND b.start_date >= CURDATE()
		GROUP BY
			b.booking_id,
			b.start_date,
			b.end_date,
			b.way_of_billing,
			b.vehicle_id,
			b.total_costs,
			v.model,
			v.producer,
			v.costs_per_day,
			v.plate_number,
			v.number_of_seats
		ORDER BY b.start_date, b.booking_id`

	rows, err := s.db.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CustomerBooking{}
	for rows.Next() {
		var b CustomerBooking
		var totalCosts sql.NullFloat64
		var costsPerDay, baseCost, extrasCost []byte
		if err := rows.Scan(&b.BookingID, &b.StartDate, &b.EndDate, &b.WayOfBilling,
			&b.VehicleID, &totalCosts, &b.Model, &b.Producer, &costsPerDay,
			&b.PlateNumber, &b.NumberOfSeats, &b.Days, &baseCost, &extrasCost); err != nil {
			return nil, err
		}
		if totalCosts.Valid {
			v := totalCosts.Float64
			b.TotalCosts = &v
		}
		b.CostsPerDay = AsNumber(costsPerDay)
		b.BaseCost = AsNumber(baseCost)
		b.ExtrasCost = AsNumber(extrasCost)
		b.TotalCost = b.BaseCost + b.ExtrasCost
		out = append(out, b)
	}
	return out, rows.Err()
}
