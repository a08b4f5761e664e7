package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/FabianClaudioMaier/IMSE-MS2/internal/model"
)

// AvailableVehicles returns vehicles without an overlapping booking,
// ordered by producer then model.  Overlap is resolved through a distinct
// scan of the embedded date ranges in the bookings collection, then an
// exclusion query against the vehicles collection.
func (m *MongoStore) AvailableVehicles(ctx context.Context, start, end string) ([]AvailableVehicle, error) {
	bookings, err := m.coll(ctx, collBookings)
	if err != nil {
		return nil, err
	}

	bookedIDs, err := bookings.Distinct(ctx, "vehicle.vehicle_id", bson.M{
		"start_date": bson.M{"$lte": end},
		"end_date":   bson.M{"$gte": start},
	})
	if err != nil {
		return nil, nosqlErr(err)
	}

	vehicles, err := m.coll(ctx, collVehicles)
	if err != nil {
		return nil, err
	}
	cur, err := vehicles.Find(ctx,
		bson.M{"_id": bson.M{"$nin": bookedIDs}},
		options.Find().SetSort(bson.D{{Key: "producer", Value: 1}, {Key: "model", Value: 1}}))
	if err != nil {
		return nil, nosqlErr(err)
	}
	defer cur.Close(ctx)

	out := []AvailableVehicle{}
	for cur.Next(ctx) {
		var v model.VehicleDoc
		if err := cur.Decode(&v); err != nil {
			return nil, nosqlErr(err)
		}
		out = append(out, availableVehicleFromDoc(v))
	}
	return out, nosqlErr(cur.Err())
}

func availableVehicleFromDoc(v model.VehicleDoc) AvailableVehicle {
	return AvailableVehicle{
		VehicleID:   v.ID,
		Model:       v.Model,
		Producer:    v.Producer,
		CostsPerDay: AsNumber(v.CostsPerDay),
		PlateNumber: v.PlateNumber,
	}
}
