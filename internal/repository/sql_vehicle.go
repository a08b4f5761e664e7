package repository

import (
	"context"
	"strings"
)

// AvailableVehicles returns vehicles with no booking overlapping the
// requested range, ordered by producer then model.  A booking overlaps
// when booking.start_date <= end AND booking.end_date >= start; the anti
// join keeps vehicles whose only bookings fall outside the range.
func (s *SQLStore) AvailableVehicles(ctx context.Context, start, end string) ([]AvailableVehicle, error) {
	const q = `SELECT v.vehicle_id, v.model, v.producer, v.costs_per_day, v.plate_number
		FROM Vehicle v
		LEFT JOIN Booking b
		  ON v.vehicle_id = b.vehicle_id
		 AND b.start_date <= ? AND b.end_date >= ?
		WHERE b.booking_id IS NULL
		ORDER BY v.producer, v.model`

	rows, err := s.db.QueryContext(ctx, q, end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AvailableVehicle{}
	for rows.Next() {
		var v AvailableVehicle
		var costs []byte
		if err := rows.Scan(&v.VehicleID, &v.Model, &v.Producer, &costs, &v.PlateNumber); err != nil {
			return nil, err
		}
		v.CostsPerDay = AsNumber(costs)
		out = append(out, v)
	}
	return out, rows.Err()
}

// VehicleReport computes the utilization report.  Services are joined
// optionally so bookings without any attached service still appear with
// additional_cost 0.  Filters combine with AND; results are ordered by
// start date descending.
func (s *SQLStore) VehicleReport(ctx context.Context, f VehicleReportFilter) ([]VehicleReportRow, error) {
	conditions := []string{}
	args := []any{}
	if f.From != "" {
		conditions = append(conditions, "b.start_date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		conditions = append(conditions, "b.end_date <= ?")
		args = append(args, f.To)
	}
	if f.VehicleID != "" {
		conditions = append(conditions, "b.vehicle_id = ?")
		args = append(args, f.VehicleID)
	}
	whereSQL := ""
	if len(conditions) > 0 {
		whereSQL = " WHERE " + strings.Join(conditions, " AND ")
	}

	q := `SELECT
			b.booking_id,
			p.name AS customer_name,
			v.producer,
			v.model,
			b.start_date,
			b.end_date,
			v.costs_per_day,
			GREATEST(DATEDIFF(b.end_date, b.start_date), 1) AS days,
			(v.costs_per_day * GREATEST(DATEDIFF(b.end_date, b.start_date), 1)) AS base_cost,
			COALESCE(SUM(s.costs), 0) AS additional_cost,
			(v.costs_per_day * GREATEST(DATEDIFF(b.end_date, b.start_date), 1)) + COALESCE(SUM(s.costs), 0) AS total_cost
		FROM Booking b
		JOIN Customer c ON c.person_id = b.customer_id
		JOIN Person p ON p.id = c.person_id
		JOIN Vehicle v ON v.vehicle_id = b.vehicle_id
		LEFT JOIN Bookings_Services bs ON bs.booking_id = b.booking_id
		LEFT JOIN AdditionalService s ON s.additional_service_id = bs.additional_service_id` +
		whereSQL + `
		GROUP BY b.booking_id, p.name, v.producer, v.model, b.start_date, b.end_date, v.costs_per_day
		ORDER BY b.start_date DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []VehicleReportRow{}
	for rows.Next() {
		var r VehicleReportRow
		var costsPerDay, baseCost, additionalCost, totalCost []byte
		if err := rows.Scan(&r.BookingID, &r.CustomerName, &r.Producer, &r.Model,
			&r.StartDate, &r.EndDate, &costsPerDay, &r.Days,
			&baseCost, &additionalCost, &totalCost); err != nil {
			return nil, err
		}
		r.CostsPerDay = AsNumber(costsPerDay)
		r.BaseCost = AsNumber(baseCost)
		r.AdditionalCost = AsNumber(additionalCost)
		r.TotalCost = AsNumber(totalCost)
		out = append(out, r)
	}
	return out, rows.Err()
}
