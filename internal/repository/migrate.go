package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/FabianClaudioMaier/IMSE-MS2/internal/model"
)

// Migrate copies the full relational data set into the document store.
// The target collections are wiped first so a rerun produces the same
// result as a first run.  After a successful return the document mirror
// is complete and the caller may switch reads over to it.
func Migrate(ctx context.Context, src *SQLStore, dst *MongoStore) error {
	db, err := dst.handle.DB(ctx)
	if err != nil {
		return fmt.Errorf("migrate: connect target: %w", err)
	}

	for _, name := range []string{collPersons, collVehicles, collServices, collBookings, collRatings} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("migrate: wipe %s: %w", name, err)
		}
	}

	persons, err := loadPersonDocs(ctx, src.db)
	if err != nil {
		return err
	}
	if err := insertDocs(ctx, dst, collPersons, persons); err != nil {
		return err
	}

	vehicles, err := loadVehicleDocs(ctx, src.db)
	if err != nil {
		return err
	}
	if err := insertDocs(ctx, dst, collVehicles, vehicles); err != nil {
		return err
	}

	services, err := loadServiceDocs(ctx, src.db)
	if err != nil {
		return err
	}
	if err := insertDocs(ctx, dst, collServices, services); err != nil {
		return err
	}

	ratings, err := loadRatingDocs(ctx, src.db)
	if err != nil {
		return err
	}
	if err := insertDocs(ctx, dst, collRatings, ratings); err != nil {
		return err
	}

	bookings, err := loadBookingDocs(ctx, src.db)
	if err != nil {
		return err
	}
	return insertDocs(ctx, dst, collBookings, bookings)
}

func insertDocs[T any](ctx context.Context, dst *MongoStore, name string, docs []T) error {
	if len(docs) == 0 {
		return nil
	}
	coll, err := dst.coll(ctx, name)
	if err != nil {
		return fmt.Errorf("migrate: connect %s: %w", name, err)
	}
	batch := make([]any, len(docs))
	for i := range docs {
		batch[i] = docs[i]
	}
	if _, err := coll.InsertMany(ctx, batch); err != nil {
		return fmt.Errorf("migrate: insert %s: %w", name, err)
	}
	return nil
}

// loadPersonDocs joins every person with its optional customer, retailer
// and bank account rows and folds them into role sub-documents.
func loadPersonDocs(ctx context.Context, db *sql.DB) ([]model.PersonDoc, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT p.id, p.name, p.phone_number, p.eMail, p.address, p.stars,
		       c.customer_number, c.driver_licencse_number,
		       r.company_name, r.tax_number,
		       b.account_id, b.iban, b.bic
		FROM Person p
		LEFT JOIN Customer c ON c.person_id = p.id
		LEFT JOIN Retailer r ON r.person_id = p.id
		LEFT JOIN Bankaccount b ON b.person_id = p.id
		ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("migrate: read persons: %w", err)
	}
	defer rows.Close()

	var docs []model.PersonDoc
	for rows.Next() {
		var (
			doc                  model.PersonDoc
			phone, mail, addr    sql.NullString
			stars                sql.NullFloat64
			custNo, licence      sql.NullString
			company, tax         sql.NullString
			accountID, iban, bic sql.NullString
		)
		if err := rows.Scan(&doc.ID, &doc.Name, &phone, &mail, &addr, &stars,
			&custNo, &licence, &company, &tax, &accountID, &iban, &bic); err != nil {
			return nil, fmt.Errorf("migrate: read persons: %w", err)
		}
		doc.PhoneNumber = nullable(phone)
		doc.EMail = nullable(mail)
		doc.Address = nullable(addr)
		if stars.Valid {
			doc.Stars = &stars.Float64
		}
		if custNo.Valid {
			doc.Roles.Customer = &model.CustomerRole{
				CustomerNumber:      custNo.String,
				DriverLicenceNumber: licence.String,
			}
		}
		if company.Valid {
			doc.Roles.Retailer = &model.RetailerRole{
				CompanyName: company.String,
				TaxNumber:   tax.String,
			}
		}
		if accountID.Valid {
			doc.BankAccount = &model.BankAccountDoc{
				AccountID: accountID.String,
				IBAN:      iban.String,
				BIC:       bic.String,
			}
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func loadVehicleDocs(ctx context.Context, db *sql.DB) ([]model.VehicleDoc, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT vehicle_id, model, producer, costs_per_day, plate_number, number_of_seats, retailer_id
		FROM Vehicle ORDER BY vehicle_id`)
	if err != nil {
		return nil, fmt.Errorf("migrate: read vehicles: %w", err)
	}
	defer rows.Close()

	var docs []model.VehicleDoc
	for rows.Next() {
		var (
			doc  model.VehicleDoc
			cost []byte
		)
		if err := rows.Scan(&doc.ID, &doc.Model, &doc.Producer, &cost,
			&doc.PlateNumber, &doc.NumberOfSeats, &doc.RetailerID); err != nil {
			return nil, fmt.Errorf("migrate: read vehicles: %w", err)
		}
		doc.CostsPerDay = AsNumber(cost)
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func loadServiceDocs(ctx context.Context, db *sql.DB) ([]model.ServiceDoc, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT additional_service_id, description, costs
		FROM AdditionalService ORDER BY additional_service_id`)
	if err != nil {
		return nil, fmt.Errorf("migrate: read services: %w", err)
	}
	defer rows.Close()

	var docs []model.ServiceDoc
	for rows.Next() {
		var (
			doc  model.ServiceDoc
			cost []byte
		)
		if err := rows.Scan(&doc.ID, &doc.Description, &cost); err != nil {
			return nil, fmt.Errorf("migrate: read services: %w", err)
		}
		doc.Costs = AsNumber(cost)
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func loadRatingDocs(ctx context.Context, db *sql.DB) ([]model.RatingDoc, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT rater_id, rated_id, stars FROM Rating ORDER BY rater_id, rated_id`)
	if err != nil {
		return nil, fmt.Errorf("migrate: read ratings: %w", err)
	}
	defer rows.Close()

	var docs []model.RatingDoc
	for rows.Next() {
		var doc model.RatingDoc
		if err := rows.Scan(&doc.ID.RaterID, &doc.ID.RatedID, &doc.Stars); err != nil {
			return nil, fmt.Errorf("migrate: read ratings: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// loadBookingDocs reads bookings with their customer, vehicle and retailer
// context in one query and the attached services in a second one, then
// assembles fully embedded documents.  The persisted total is kept when
// the column holds a value and recomputed otherwise.
func loadBookingDocs(ctx context.Context, db *sql.DB) ([]model.BookingDoc, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT b.booking_id, b.start_date, b.end_date, b.way_of_billing, b.total_costs,
		       b.customer_id, pc.name,
		       v.vehicle_id, v.model, v.producer, v.costs_per_day,
		       v.plate_number, v.number_of_seats, v.retailer_id,
		       r.company_name
		FROM Booking b
		JOIN Person pc ON pc.id = b.customer_id
		JOIN Vehicle v ON v.vehicle_id = b.vehicle_id
		LEFT JOIN Retailer r ON r.person_id = v.retailer_id
		ORDER BY b.booking_id`)
	if err != nil {
		return nil, fmt.Errorf("migrate: read bookings: %w", err)
	}
	defer rows.Close()

	var docs []model.BookingDoc
	index := map[string]int{}
	for rows.Next() {
		var (
			doc        model.BookingDoc
			total      sql.NullFloat64
			cost       []byte
			retailerID sql.NullString
			company    sql.NullString
		)
		var snap model.VehicleSnapshot
		if err := rows.Scan(&doc.ID, &doc.StartDate, &doc.EndDate, &doc.WayOfBilling, &total,
			&doc.Customer.PersonID, &doc.Customer.Name,
			&snap.VehicleID, &snap.Model, &snap.Producer, &cost,
			&snap.PlateNumber, &snap.NumberOfSeats, &retailerID,
			&company); err != nil {
			return nil, fmt.Errorf("migrate: read bookings: %w", err)
		}
		snap.CostsPerDay = AsNumber(cost)
		snap.RetailerID = retailerID.String
		doc.Vehicle = snap
		if retailerID.Valid {
			doc.Retailer = &model.RetailerSnapshot{
				PersonID:    retailerID.String,
				CompanyName: nullable(company),
			}
		}
		doc.AdditionalServices = []model.ServiceSnapshot{}
		if total.Valid {
			doc.Pricing.TotalCosts = total.Float64
		}
		index[doc.ID] = len(docs)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("migrate: read bookings: %w", err)
	}

	srows, err := db.QueryContext(ctx, `
		SELECT bs.booking_id, s.additional_service_id, s.description, s.costs
		FROM Bookings_Services bs
		JOIN AdditionalService s ON s.additional_service_id = bs.additional_service_id
		ORDER BY bs.booking_id, s.description`)
	if err != nil {
		return nil, fmt.Errorf("migrate: read booking services: %w", err)
	}
	defer srows.Close()

	for srows.Next() {
		var (
			bookingID string
			snap      model.ServiceSnapshot
			cost      []byte
		)
		if err := srows.Scan(&bookingID, &snap.ServiceID, &snap.Description, &cost); err != nil {
			return nil, fmt.Errorf("migrate: read booking services: %w", err)
		}
		snap.Costs = AsNumber(cost)
		if i, ok := index[bookingID]; ok {
			docs[i].AdditionalServices = append(docs[i].AdditionalServices, snap)
		}
	}
	if err := srows.Err(); err != nil {
		return nil, fmt.Errorf("migrate: read booking services: %w", err)
	}

	// Bookings that never had a total persisted get one derived from the
	// embedded snapshot, so document reads never see a missing price.
	for i := range docs {
		if docs[i].Pricing.TotalCosts != 0 {
			continue
		}
		days := RentalDays(docs[i].StartDate, docs[i].EndDate)
		total := float64(days) * AsNumber(docs[i].Vehicle.CostsPerDay)
		for _, s := range docs[i].AdditionalServices {
			total += AsNumber(s.Costs)
		}
		docs[i].Pricing.TotalCosts = total
	}
	return docs, nil
}
