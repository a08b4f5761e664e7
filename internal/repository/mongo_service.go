package repository

import (
	"context"
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/FabianClaudioMaier/IMSE-MS2/internal/model"
)

// BookingServices splits the service catalog for a booking into the
// not-yet-attached and already-attached lists, both ordered by
// description.  The booking's current services come from its embedded
// array; the catalog comes from the services collection.
func (m *MongoStore) BookingServices(ctx context.Context, bookingID string) (*BookingServiceLists, error) {
	bookings, err := m.coll(ctx, collBookings)
	if err != nil {
		return nil, err
	}

	var booking model.BookingDoc
	err = bookings.FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, nosqlErr(err)
	}

	current := make([]ServiceOption, 0, len(booking.AdditionalServices))
	currentIDs := make(map[string]struct{}, len(booking.AdditionalServices))
	for _, s := range booking.AdditionalServices {
		current = append(current, ServiceOption{
			AdditionalServiceID: s.ServiceID,
			Description:         s.Description,
			Costs:               AsNumber(s.Costs),
		})
		currentIDs[s.ServiceID] = struct{}{}
	}
	sort.Slice(current, func(i, j int) bool { return current[i].Description < current[j].Description })

	services, err := m.coll(ctx, collServices)
	if err != nil {
		return nil, err
	}
	cur, err := services.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "description", Value: 1}}))
	if err != nil {
		return nil, nosqlErr(err)
	}
	var catalog []model.ServiceDoc
	if err := cur.All(ctx, &catalog); err != nil {
		return nil, nosqlErr(err)
	}

	available := []ServiceOption{}
	for _, s := range catalog {
		if _, attached := currentIDs[s.ID]; attached {
			continue
		}
		available = append(available, ServiceOption{
			AdditionalServiceID: s.ID,
			Description:         s.Description,
			Costs:               AsNumber(s.Costs),
		})
	}
	return &BookingServiceLists{Available: available, Current: current}, nil
}

// attachAttempts bounds the compare-and-swap retries when concurrent
// writers keep changing a booking's service array.
const attachAttempts = 5

// AttachServices attaches the requested services to a booking document
// and recomputes pricing.total_costs from the full post-attachment array.
// The merged array and the recomputed total are written in a single
// UpdateOne whose filter requires the service array to still equal the
// snapshot the merge was computed from; when a concurrent attachment got
// there first, the document is re-read and the merge recomputed.
func (m *MongoStore) AttachServices(ctx context.Context, bookingID, customerID string, serviceIDs []string) (*AttachResult, error) {
	uniqueIDs := dedupe(serviceIDs)
	if len(uniqueIDs) == 0 {
		return nil, ErrInvalidServiceSelection
	}

	bookings, err := m.coll(ctx, collBookings)
	if err != nil {
		return nil, err
	}
	activeBooking := bson.M{
		"_id":                bookingID,
		"customer.person_id": customerID,
		"start_date":         bson.M{"$gte": today()},
	}
	var booking model.BookingDoc
	err = bookings.FindOne(ctx, activeBooking).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, nosqlErr(err)
	}

	persons, err := m.coll(ctx, collPersons)
	if err != nil {
		return nil, err
	}
	var payer model.PersonDoc
	err = persons.FindOne(ctx,
		bson.M{"_id": customerID},
		options.FindOne().SetProjection(bson.M{"bankAccount": 1}),
	).Decode(&payer)
	if errors.Is(err, mongo.ErrNoDocuments) || (err == nil && payer.BankAccount == nil) {
		return nil, ErrNoBankAccount
	}
	if err != nil {
		return nil, nosqlErr(err)
	}

	services, err := m.coll(ctx, collServices)
	if err != nil {
		return nil, err
	}
	cur, err := services.Find(ctx, bson.M{"_id": bson.M{"$in": uniqueIDs}})
	if err != nil {
		return nil, nosqlErr(err)
	}
	var requested []model.ServiceDoc
	if err := cur.All(ctx, &requested); err != nil {
		return nil, nosqlErr(err)
	}
	if len(requested) != len(uniqueIDs) {
		return nil, ErrInvalidServiceSelection
	}

	for attempt := 0; attempt < attachAttempts; attempt++ {
		merged := mergeServiceSnapshots(booking.AdditionalServices, requested)

		days := RentalDays(booking.StartDate, booking.EndDate)
		baseCost := float64(days) * AsNumber(booking.Vehicle.CostsPerDay)
		extrasCost := 0.0
		for _, s := range merged {
			extrasCost += AsNumber(s.Costs)
		}
		totalCost := baseCost + extrasCost

		res, err := bookings.UpdateOne(ctx,
			attachGuard(bookingID, booking.AdditionalServices),
			bson.M{"$set": bson.M{
				"additionalServices":  merged,
				"pricing.total_costs": totalCost,
			}})
		if err != nil {
			return nil, nosqlErr(err)
		}
		if res.MatchedCount == 1 {
			return &AttachResult{BaseCost: baseCost, ExtrasCost: extrasCost, TotalCost: totalCost}, nil
		}

		// Another writer changed the array between the read and the
		// update.  Re-read and merge against the fresh state.
		err = bookings.FindOne(ctx, activeBooking).Decode(&booking)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		if err != nil {
			return nil, nosqlErr(err)
		}
	}
	return nil, nosqlErr(errors.New("attach services: retries exhausted under concurrent updates"))
}

// attachGuard matches the booking only while its service array still
// equals prev.  An empty prev also matches a missing or null array, so
// first attachments on migrated and freshly created bookings both pass.
func attachGuard(bookingID string, prev []model.ServiceSnapshot) bson.M {
	filter := bson.M{"_id": bookingID}
	if len(prev) == 0 {
		filter["additionalServices"] = bson.M{"$in": bson.A{nil, bson.A{}}}
	} else {
		filter["additionalServices"] = prev
	}
	return filter
}

// mergeServiceSnapshots appends snapshots for services not already in the
// booking's array.  Attachment is idempotent by service id: re-requesting
// an attached service changes nothing.
func mergeServiceSnapshots(existing []model.ServiceSnapshot, requested []model.ServiceDoc) []model.ServiceSnapshot {
	attached := make(map[string]struct{}, len(existing))
	merged := make([]model.ServiceSnapshot, 0, len(existing)+len(requested))
	for _, s := range existing {
		attached[s.ServiceID] = struct{}{}
		merged = append(merged, s)
	}
	for _, s := range requested {
		if _, ok := attached[s.ID]; ok {
			continue
		}
		attached[s.ID] = struct{}{}
		merged = append(merged, model.ServiceSnapshot{
			ServiceID:   s.ID,
			Description: s.Description,
			Costs:       s.Costs,
		})
	}
	return merged
}
