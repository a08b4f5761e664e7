package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/FabianClaudioMaier/IMSE-MS2/internal/model"
)

// CreateBooking reserves a vehicle in the document backend.  Customer
// name, vehicle fields and the retailer reference are snapshotted into
// the new booking document at creation time; later edits to the source
// documents never propagate into it.
func (m *MongoStore) CreateBooking(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error) {
	persons, err := m.coll(ctx, collPersons)
	if err != nil {
		return nil, err
	}

	customerID := in.CustomerID
	if customerID == "" {
		cur, err := persons.Find(ctx,
			bson.M{"roles.customer": bson.M{"$ne": nil}},
			options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetLimit(1))
		if err != nil {
			return nil, nosqlErr(err)
		}
		var first []model.PersonDoc
		if err := cur.All(ctx, &first); err != nil {
			return nil, nosqlErr(err)
		}
		if len(first) == 0 {
			return nil, ErrNoCustomers
		}
		customerID = first[0].ID
	}

	var customer model.PersonDoc
	err = persons.FindOne(ctx, bson.M{"_id": customerID}).Decode(&customer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrInvalidCustomer
	}
	if err != nil {
		return nil, nosqlErr(err)
	}

	vehicles, err := m.coll(ctx, collVehicles)
	if err != nil {
		return nil, err
	}
	var vehicle model.VehicleDoc
	err = vehicles.FindOne(ctx, bson.M{"_id": in.VehicleID}).Decode(&vehicle)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrInvalidVehicle
	}
	if err != nil {
		return nil, nosqlErr(err)
	}

	var retailer *model.RetailerSnapshot
	if vehicle.RetailerID != "" {
		var retailerDoc model.PersonDoc
		err = persons.FindOne(ctx,
			bson.M{"_id": vehicle.RetailerID},
			options.FindOne().SetProjection(bson.M{"roles.retailer": 1}),
		).Decode(&retailerDoc)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nosqlErr(err)
		}
		retailer = &model.RetailerSnapshot{PersonID: vehicle.RetailerID}
		if retailerDoc.Roles.Retailer != nil {
			name := retailerDoc.Roles.Retailer.CompanyName
			retailer.CompanyName = &name
		}
	}

	bookingID := fmt.Sprintf("b_%d", time.Now().UnixMilli())
	days := RentalDays(in.StartDate, in.EndDate)
	total := float64(days) * AsNumber(vehicle.CostsPerDay)

	doc := model.BookingDoc{
		ID:           bookingID,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		WayOfBilling: in.WayOfBilling,
		Customer:     model.CustomerRef{PersonID: customer.ID, Name: customer.Name},
		Vehicle: model.VehicleSnapshot{
			VehicleID:   vehicle.ID,
			Model:       vehicle.Model,
			Producer:    vehicle.Producer,
			CostsPerDay: vehicle.CostsPerDay,
			RetailerID:  vehicle.RetailerID,
		},
		Retailer:           retailer,
		AdditionalServices: []model.ServiceSnapshot{},
		Pricing:            model.Pricing{TotalCosts: total},
	}

	bookings, err := m.coll(ctx, collBookings)
	if err != nil {
		return nil, err
	}
	if _, err := bookings.InsertOne(ctx, doc); err != nil {
		return nil, nosqlErr(err)
	}
	return &CreateBookingResult{
		BookingID:    bookingID,
		TotalCosts:   total,
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		VehicleID:    vehicle.ID,
		Producer:     vehicle.Producer,
		Model:        vehicle.Model,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Days:         days,
	}, nil
}

// CustomerBookings lists a customer's bookings starting today or later,
// ordered by start date then id.  Costs are recomputed from the embedded
// vehicle snapshot and service array; a secondary vehicle lookup fills
// display fields (plate, seats) the snapshot may lack.
func (m *MongoStore) CustomerBookings(ctx context.Context, customerID string) ([]CustomerBooking, error) {
	bookings, err := m.coll(ctx, collBookings)
	if err != nil {
		return nil, err
	}

	cur, err := bookings.Find(ctx,
		bson.M{
			"customer.person_id": customerID,
			"start_date":         bson.M{"$gte": today()},
		},
		options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, nosqlErr(err)
	}
	var docs []model.BookingDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, nosqlErr(err)
	}
	if len(docs) == 0 {
		return []CustomerBooking{}, nil
	}

	vehicleIDs := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.Vehicle.VehicleID != "" {
			vehicleIDs = append(vehicleIDs, d.Vehicle.VehicleID)
		}
	}
	vehicleMap := map[string]model.VehicleDoc{}
	if len(vehicleIDs) > 0 {
		vehicles, err := m.coll(ctx, collVehicles)
		if err != nil {
			return nil, err
		}
		vcur, err := vehicles.Find(ctx, bson.M{"_id": bson.M{"$in": vehicleIDs}})
		if err != nil {
			return nil, nosqlErr(err)
		}
		var vdocs []model.VehicleDoc
		if err := vcur.All(ctx, &vdocs); err != nil {
			return nil, nosqlErr(err)
		}
		for _, v := range vdocs {
			vehicleMap[v.ID] = v
		}
	}

	out := make([]CustomerBooking, 0, len(docs))
	for _, d := range docs {
		out = append(out, customerBookingFromDoc(d, vehicleMap[d.Vehicle.VehicleID]))
	}
	return out, nil
}

// customerBookingFromDoc prices one booking document.  Snapshot fields
// win over the live vehicle document; the live document only fills gaps.
func customerBookingFromDoc(d model.BookingDoc, ref model.VehicleDoc) CustomerBooking {
	costsPerDay := AsNumber(d.Vehicle.CostsPerDay)
	if d.Vehicle.CostsPerDay == nil {
		costsPerDay = AsNumber(ref.CostsPerDay)
	}
	days := RentalDays(d.StartDate, d.EndDate)
	baseCost := float64(days) * costsPerDay

	extrasCost := 0.0
	for _, s := range d.AdditionalServices {
		extrasCost += AsNumber(s.Costs)
	}

	b := CustomerBooking{
		BookingID:     d.ID,
		StartDate:     d.StartDate,
		EndDate:       d.EndDate,
		WayOfBilling:  d.WayOfBilling,
		VehicleID:     d.Vehicle.VehicleID,
		Model:         d.Vehicle.Model,
		Producer:      d.Vehicle.Producer,
		CostsPerDay:   costsPerDay,
		PlateNumber:   d.Vehicle.PlateNumber,
		NumberOfSeats: d.Vehicle.NumberOfSeats,
		Days:          days,
		BaseCost:      baseCost,
		ExtrasCost:    extrasCost,
		TotalCost:     baseCost + extrasCost,
	}
	if b.Model == "" {
		b.Model = ref.Model
	}
	if b.Producer == "" {
		b.Producer = ref.Producer
	}
	if b.PlateNumber == "" {
		b.PlateNumber = ref.PlateNumber
	}
	if b.NumberOfSeats == 0 {
		b.NumberOfSeats = ref.NumberOfSeats
	}
	total := d.Pricing.TotalCosts
	b.TotalCosts = &total
	return b
}
