package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// BookingServices returns the additional services not yet attached to the
// booking ("available") and those already attached ("current"), each
// ordered by description.  The two lists are disjoint by construction.
func (s *SQLStore) BookingServices(ctx context.Context, bookingID string) (*BookingServiceLists, error) {
	const availableQ = `SELECT
			a.additional_service_id,
			a.description,
			a.costs
		FROM AdditionalService a
		LEFT JOIN Bookings_Services bs
		  ON bs.additional_service_id = a.additional_service_id
		 AND bs.booking_id = ?
		WHERE bs.booking_id IS NULL
		ORDER BY a.description`

	const currentQ = `SELECT
			a.additional_service_id,
			a.description,
			a.costs
		FROM AdditionalService a
		JOIN Bookings_Services bs
		  ON bs.additional_service_id = a.additional_service_id
		WHERE bs.booking_id = ?
		ORDER BY a.description`

	available, err := s.serviceOptions(ctx, availableQ, bookingID)
	if err != nil {
		return nil, err
	}
	current, err := s.serviceOptions(ctx, currentQ, bookingID)
	if err != nil {
		return nil, err
	}
	return &BookingServiceLists{Available: available, Current: current}, nil
}

func (s *SQLStore) serviceOptions(ctx context.Context, q, bookingID string) ([]ServiceOption, error) {
	rows, err := s.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ServiceOption{}
	for rows.Next() {
		var o ServiceOption
		var costs []byte
		if err := rows.Scan(&o.AdditionalServiceID, &o.Description, &costs); err != nil {
			return nil, err
		}
		o.Costs = AsNumber(costs)
		out = append(out, o)
	}
	return out, rows.Err()
}

// AttachServices attaches the requested services to a booking and
// recomputes its persisted total.  The whole operation runs in one
// transaction: existence checks, the idempotent insert and the total
// update either all commit or all roll back, so concurrent attachers
// cannot interleave a stale total write.
//
// Checks run in workflow order: the booking must belong to the customer
// and start today or later, the customer must have a bank account, and
// every requested service id must exist.  Requested ids are deduplicated;
// INSERT IGNORE skips pairs that are already attached.
func (s *SQLStore) AttachServices(ctx context.Context, bookingID, customerID string, serviceIDs []string) (*AttachResult, error) {
	uniqueIDs := dedupe(serviceIDs)
	if len(uniqueIDs) == 0 {
		return nil, ErrInvalidServiceSelection
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var foundID string
	err = tx.QueryRowContext(ctx,
		`SELECT booking_id
		 FROM Booking
		 WHERE booking_id = ? AND customer_id = ? AND start_date >= CURDATE()
		 FOR UPDATE`,
		bookingID, customerID,
	).Scan(&foundID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	var one int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM Bankaccount WHERE person_id = ?", customerID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoBankAccount
	}
	if err != nil {
		return nil, err
	}

	clause, args := inClause(uniqueIDs)
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(
		"SELECT additional_service_id FROM AdditionalService WHERE additional_service_id IN (%s)", clause),
		args...)
	if err != nil {
		return nil, err
	}
	known := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		known++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if known != len(uniqueIDs) {
		return nil, ErrInvalidServiceSelection
	}

	values := make([]string, 0, len(uniqueIDs))
	insertArgs := make([]any, 0, len(uniqueIDs)*2)
	for _, id := range uniqueIDs {
		values = append(values, "(?, ?)")
		insertArgs = append(insertArgs, bookingID, id)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(
		"INSERT IGNORE INTO Bookings_Services (booking_id, additional_service_id) VALUES %s",
		strings.Join(values, ", ")), insertArgs...); err != nil {
		return nil, err
	}

	var baseCost, extrasCost []byte
	err = tx.QueryRowContext(ctx,
		`SELECT
			GREATEST(DATEDIFF(b.end_date, b.start_date), 1) * v.costs_per_day AS base_cost,
			COALESCE(SUM(a.costs), 0) AS extras_cost
		FROM Booking b
		JOIN Vehicle v ON v.vehicle_id = b.vehicle_id
		LEFT JOIN Bookings_Services bs ON bs.booking_id = b.booking_id
		LEFT JOIN AdditionalService a ON a.additional_service_id = bs.additional_service_id
		WHERE b.booking_id = ?
		GROUP BY b.booking_id, v.costs_per_day, b.start_date, b.end_date`,
		bookingID,
	).Scan(&baseCost, &extrasCost)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	res := &AttachResult{
		BaseCost:   AsNumber(baseCost),
		ExtrasCost: AsNumber(extrasCost),
	}
	res.TotalCost = res.BaseCost + res.ExtrasCost

	if _, err := tx.ExecContext(ctx,
		"UPDATE Booking SET total_costs = ? WHERE booking_id = ?",
		res.TotalCost, bookingID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

// ServiceReport computes the customer/retailer/service report.  Services
// are joined strictly, so only bookings with at least one attached
// service appear; bank details and the retailer name are resolved through
// joins.  Filters combine with AND; results are ordered by start date
// descending.
func (s *SQLStore) ServiceReport(ctx context.Context, f ServiceReportFilter) ([]ServiceReportRow, error) {
	conditions := []string{}
	args := []any{}
	if f.From != "" {
		conditions = append(conditions, "b.start_date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		conditions = append(conditions, "b.start_date < ?")
		args = append(args, f.To)
	}
	if f.CustomerID != "" {
		conditions = append(conditions, "c.person_id = ?")
		args = append(args, f.CustomerID)
	}
	if f.RetailerID != "" {
		conditions = append(conditions, "r.person_id = ?")
		args = append(args, f.RetailerID)
	}
	whereSQL := ""
	if len(conditions) > 0 {
		whereSQL = " WHERE " + strings.Join(conditions, " AND ")
	}

	q := `SELECT
			b.booking_id,
			b.start_date,
			b.end_date,
			c.person_id AS customer_id,
			pc.name AS customer_name,
			ba.iban AS customer_iban,
			ba.bic AS customer_bic,
			v.vehicle_id,
			v.model,
			v.producer,
			r.person_id AS retailer_id,
			r.company_name AS retailer_name,
			GREATEST(DATEDIFF(b.end_date, b.start_date), 1) AS rental_days,
			v.costs_per_day AS cost_per_day,
			GREATEST(DATEDIFF(b.end_date, b.start_date), 1) * v.costs_per_day AS base_cost,
			COALESCE(SUM(asv.costs), 0) AS additional_costs,
			COUNT(bs.additional_service_id) AS additional_services_count,
			(GREATEST(DATEDIFF(b.end_date, b.start_date), 1) * v.costs_per_day) + COALESCE(SUM(asv.costs), 0) AS total_cost,
			GROUP_CONCAT(asv.description ORDER BY asv.description SEPARATOR ', ') AS additional_services_list
		FROM Booking b
		JOIN Customer c ON c.person_id = b.customer_id
		JOIN Person pc ON pc.id = c.person_id
		JOIN Bankaccount ba ON ba.person_id = c.person_id
		JOIN Vehicle v ON v.vehicle_id = b.vehicle_id
		JOIN Retailer r ON r.person_id = v.retailer_id
		JOIN Bookings_Services bs ON bs.booking_id = b.booking_id
		JOIN AdditionalService asv ON asv.additional_service_id = bs.additional_service_id` +
		whereSQL + `
		GROUP BY
			b.booking_id, b.start_date, b.end_date,
			c.person_id, pc.name,
			ba.iban, ba.bic,
			v.vehicle_id, v.model, v.producer,
			r.person_id, r.company_name,
			v.costs_per_day
		ORDER BY b.start_date DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ServiceReportRow{}
	for rows.Next() {
		var r ServiceReportRow
		var iban, bic, retailerID, retailerName, servicesList sql.NullString
		var costPerDay, baseCost, additionalCosts, totalCost []byte
		if err := rows.Scan(&r.BookingID, &r.StartDate, &r.EndDate,
			&r.CustomerID, &r.CustomerName, &iban, &bic,
			&r.VehicleID, &r.Model, &r.Producer,
			&retailerID, &retailerName,
			&r.RentalDays, &costPerDay, &baseCost, &additionalCosts,
			&r.ServiceCount, &totalCost, &servicesList); err != nil {
			return nil, err
		}
		r.CustomerIBAN = nullable(iban)
		r.CustomerBIC = nullable(bic)
		r.RetailerID = nullable(retailerID)
		r.RetailerName = nullable(retailerName)
		r.ServiceDescription = nullable(servicesList)
		r.CostPerDay = AsNumber(costPerDay)
		r.BaseCost = AsNumber(baseCost)
		r.AdditionalCosts = AsNumber(additionalCosts)
		r.TotalCost = AsNumber(totalCost)
		out = append(out, r)
	}
	return out, rows.Err()
}
