package repository

import (
	"context"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/FabianClaudioMaier/IMSE-MS2/internal/model"
)

// VehicleReport computes the per-booking revenue report with a single
// aggregation pipeline.  Day counts and cost conversions happen inside
// the pipeline so numeric and string-typed cost fields both come out as
// doubles.
func (m *MongoStore) VehicleReport(ctx context.Context, f VehicleReportFilter) ([]VehicleReportRow, error) {
	bookings, err := m.coll(ctx, collBookings)
	if err != nil {
		return nil, err
	}

	cur, err := bookings.Aggregate(ctx, vehicleReportPipeline(f))
	if err != nil {
		return nil, nosqlErr(err)
	}
	rows := []VehicleReportRow{}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, nosqlErr(err)
	}
	return rows, nil
}

// vehicleReportPipeline builds the aggregation stages for the vehicle
// report.  The sort stage must be a bson.D: a multi-key bson.M marshals
// its keys in random order and the secondary booking_id key would
// sometimes win over start_date.
func vehicleReportPipeline(f VehicleReportFilter) []bson.M {
	match := bson.M{}
	if f.From != "" {
		match["start_date"] = bson.M{"$gte": f.From}
	}
	if f.To != "" {
		match["end_date"] = bson.M{"$lte": f.To}
	}
	if f.VehicleID != "" {
		match["vehicle.vehicle_id"] = f.VehicleID
	}

	toDouble := func(expr any) bson.M {
		return bson.M{"$convert": bson.M{
			"input": expr, "to": "double", "onError": 0, "onNull": 0,
		}}
	}

	return []bson.M{
		{"$match": match},
		{"$addFields": bson.M{
			"startD": bson.M{"$dateFromString": bson.M{
				"dateString": "$start_date", "format": "%Y-%m-%d", "onError": nil,
			}},
			"endD": bson.M{"$dateFromString": bson.M{
				"dateString": "$end_date", "format": "%Y-%m-%d", "onError": nil,
			}},
			"costPerDayNum": toDouble("$vehicle.costs_per_day"),
		}},
		{"$addFields": bson.M{
			"days": bson.M{"$max": bson.A{
				bson.M{"$ceil": bson.M{"$divide": bson.A{
					bson.M{"$subtract": bson.A{"$endD", "$startD"}},
					86400000,
				}}},
				1,
			}},
			"additionalCost": bson.M{"$sum": bson.M{"$map": bson.M{
				"input": bson.M{"$ifNull": bson.A{"$additionalServices", bson.A{}}},
				"as":    "s",
				"in":    toDouble("$$s.costs"),
			}}},
		}},
		{"$addFields": bson.M{
			"baseCost": bson.M{"$multiply": bson.A{"$days", "$costPerDayNum"}},
		}},
		{"$project": bson.M{
			"_id":             0,
			"booking_id":      "$_id",
			"customer_name":   "$customer.name",
			"producer":        "$vehicle.producer",
			"model":           "$vehicle.model",
			"start_date":      1,
			"end_date":        1,
			"costs_per_day":   "$costPerDayNum",
			"days":            1,
			"base_cost":       "$baseCost",
			"additional_cost": "$additionalCost",
			"total_cost":      bson.M{"$add": bson.A{"$baseCost", "$additionalCost"}},
		}},
		{"$sort": bson.D{{Key: "start_date", Value: -1}, {Key: "booking_id", Value: -1}}},
	}
}

// ServiceReport lists bookings that carry at least one additional
// service, newest first.  Bank and retailer details live in the persons
// collection, so they are resolved with two batched lookups instead of
// per-row queries.
func (m *MongoStore) ServiceReport(ctx context.Context, f ServiceReportFilter) ([]ServiceReportRow, error) {
	bookings, err := m.coll(ctx, collBookings)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"additionalServices.0": bson.M{"$exists": true}}
	if f.From != "" {
		filter["start_date"] = bson.M{"$gte": f.From}
	}
	if f.To != "" {
		if prev, ok := filter["start_date"].(bson.M); ok {
			prev["$lt"] = f.To
		} else {
			filter["start_date"] = bson.M{"$lt": f.To}
		}
	}
	if f.CustomerID != "" {
		filter["customer.person_id"] = f.CustomerID
	}
	if f.RetailerID != "" {
		filter["retailer.person_id"] = f.RetailerID
	}

	cur, err := bookings.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, nosqlErr(err)
	}
	var docs []model.BookingDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, nosqlErr(err)
	}

	customerIDs := make([]string, 0, len(docs))
	seen := map[string]struct{}{}
	for _, d := range docs {
		if _, ok := seen[d.Customer.PersonID]; !ok {
			seen[d.Customer.PersonID] = struct{}{}
			customerIDs = append(customerIDs, d.Customer.PersonID)
		}
	}

	personMap := map[string]model.PersonDoc{}
	if len(customerIDs) > 0 {
		persons, err := m.coll(ctx, collPersons)
		if err != nil {
			return nil, err
		}
		pcur, err := persons.Find(ctx,
			bson.M{"_id": bson.M{"$in": customerIDs}},
			options.Find().SetProjection(bson.M{"bankAccount": 1, "roles.retailer": 1, "name": 1}))
		if err != nil {
			return nil, nosqlErr(err)
		}
		var people []model.PersonDoc
		if err := pcur.All(ctx, &people); err != nil {
			return nil, nosqlErr(err)
		}
		for _, p := range people {
			personMap[p.ID] = p
		}
	}

	rows := make([]ServiceReportRow, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, serviceReportRow(d, personMap))
	}
	return rows, nil
}

// serviceReportRow flattens one booking document into a report row.
// Cost fields tolerate string-typed values; missing bank or retailer
// details stay nil.
func serviceReportRow(d model.BookingDoc, personMap map[string]model.PersonDoc) ServiceReportRow {
	row := ServiceReportRow{
		BookingID:    d.ID,
		CustomerID:   d.Customer.PersonID,
		CustomerName: d.Customer.Name,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		VehicleID:    d.Vehicle.VehicleID,
		Model:        d.Vehicle.Model,
		Producer:     d.Vehicle.Producer,
		RentalDays:   RentalDays(d.StartDate, d.EndDate),
		CostPerDay:   AsNumber(d.Vehicle.CostsPerDay),
		ServiceCount: len(d.AdditionalServices),
	}

	if p, ok := personMap[d.Customer.PersonID]; ok && p.BankAccount != nil {
		iban := p.BankAccount.IBAN
		bic := p.BankAccount.BIC
		row.CustomerIBAN = &iban
		row.CustomerBIC = &bic
	}

	if d.Retailer != nil {
		rid := d.Retailer.PersonID
		row.RetailerID = &rid
		row.RetailerName = d.Retailer.CompanyName
	}

	extras := 0.0
	descriptions := make([]string, 0, len(d.AdditionalServices))
	for _, s := range d.AdditionalServices {
		extras += AsNumber(s.Costs)
		descriptions = append(descriptions, s.Description)
	}
	row.BaseCost = float64(row.RentalDays) * row.CostPerDay
	row.AdditionalCosts = extras
	row.TotalCost = row.BaseCost + extras
	if len(descriptions) > 0 {
		sort.Strings(descriptions)
		list := strings.Join(descriptions, ", ")
		row.ServiceDescription = &list
	}
	return row
}
